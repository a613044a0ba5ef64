// Package session implements the interactive side of the search dialog:
// a value Debouncer, a keyboard Navigator with wraparound, and Session,
// which ties both to a searcher and a history recorder.
package session
