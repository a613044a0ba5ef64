package catalog

import (
	"fmt"
	"os"

	"github.com/poiesic/shopsearch/core"
	"github.com/poiesic/shopsearch/search"
	"gopkg.in/yaml.v3"
)

// Entry is a catalog entry of a static type (page, service or unit).
type Entry struct {
	ID          string            `yaml:"id"`
	Title       string            `yaml:"title"`
	Description string            `yaml:"description"`
	Href        string            `yaml:"href"`
	Metadata    map[string]string `yaml:"metadata"`
}

// Catalog is the searchable content of a back office, loaded from YAML.
type Catalog struct {
	Pages    []Entry       `yaml:"pages"`
	Services []Entry       `yaml:"services"`
	Units    []Entry       `yaml:"units"`
	Staff    []StaffMember `yaml:"staff"`
}

// LoadCatalog reads a catalog file.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseCatalog(data)
}

// ParseCatalog decodes a YAML catalog document.
func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCatalog, err)
	}
	return &c, nil
}

// Results converts the entries of a static type into search results.
// Missing ids are derived from the entry content; missing hrefs from Route.
func (c *Catalog) Results(typ core.ResultType) []core.SearchResult {
	var entries []Entry
	switch typ {
	case core.ResultTypePage:
		entries = c.Pages
	case core.ResultTypeService:
		entries = c.Services
	case core.ResultTypeUnit:
		entries = c.Units
	case core.ResultTypeStaff:
		results := make([]core.SearchResult, len(c.Staff))
		for i, m := range c.Staff {
			results[i] = StaffResult(m)
		}
		return results
	}

	results := make([]core.SearchResult, len(entries))
	for i, e := range entries {
		r := core.SearchResult{
			Id:          e.ID,
			Type:        typ,
			Title:       e.Title,
			Description: e.Description,
			Href:        e.Href,
			Metadata:    e.Metadata,
		}
		if r.Id == "" {
			key := e.Href
			if key == "" {
				key = e.Title
			}
			r.Id = contentID(typ, key)
		}
		if r.Href == "" {
			r.Href = Route(r)
		}
		results[i] = r
	}
	return results
}

// All returns every entry of the catalog as a search result.
func (c *Catalog) All() []core.SearchResult {
	var all []core.SearchResult
	for _, typ := range core.ResultTypes {
		all = append(all, c.Results(typ)...)
	}
	return all
}

// Find returns the entry with the given id.
func (c *Catalog) Find(id string) (core.SearchResult, bool) {
	for _, r := range c.All() {
		if r.Id == id {
			return r, true
		}
	}
	return core.SearchResult{}, false
}

// Sources builds one search source per non-empty section. Staff members are
// served through a StaffSource over an in-memory directory.
func (c *Catalog) Sources(opts ...StaffOption) ([]search.Source, error) {
	var sources []search.Source
	for _, typ := range []core.ResultType{core.ResultTypePage, core.ResultTypeService, core.ResultTypeUnit} {
		results := c.Results(typ)
		if len(results) == 0 {
			continue
		}
		src, err := NewStaticSource(typ, results)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidCatalog, err)
		}
		sources = append(sources, src)
	}

	if len(c.Staff) > 0 {
		src, err := NewStaffSource(NewMemoryStaffDirectory(c.Staff), opts...)
		if err != nil {
			return nil, err
		}
		sources = append(sources, src)
	}

	return sources, nil
}
