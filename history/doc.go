// Package history keeps the list of recently selected search results.
//
// Store is constructed once with a storage.HistoryRepository and passed to
// whoever needs it. Entries are ordered by recency; selecting a result again
// moves it to the front and increments its click count.
package history
