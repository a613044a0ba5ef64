package catalog

import (
	"net/url"

	"github.com/poiesic/shopsearch/core"
)

// Route returns the application path a selected result navigates to.
// Pages use their Href; the other types build a path with a query string.
func Route(r core.SearchResult) string {
	switch r.Type {
	case core.ResultTypeStaff:
		return "/staff?" + url.Values{"search": {r.Title}}.Encode()
	case core.ResultTypeService:
		return "/services?" + url.Values{"id": {r.Id}}.Encode()
	case core.ResultTypeUnit:
		return "/units?" + url.Values{"id": {r.Id}}.Encode()
	default:
		if r.Href != "" {
			return r.Href
		}
		return "/"
	}
}
