// Package catalog provides the candidate sources a search.Searcher draws from.
//
// Pages, services and units are static lists, usually loaded from a YAML
// catalog file. Staff members come from a StaffDirectory, either the
// back-office REST API (HTTPStaffDirectory) or an in-memory list, and are
// fetched page by page with retries.
//
// Route maps a selected result onto the application path to navigate to.
package catalog
