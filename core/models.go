package core

import (
	"encoding/binary"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a numeric identifier derived from content.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// ResultType identifies the kind of entity a search result points at.
type ResultType string

const (
	// ResultTypePage is a navigable page of the back office.
	ResultTypePage ResultType = "page"
	// ResultTypeStaff is a staff member.
	ResultTypeStaff ResultType = "staff"
	// ResultTypeService is a service offered by the shop.
	ResultTypeService ResultType = "service"
	// ResultTypeUnit is a shop unit (branch).
	ResultTypeUnit ResultType = "unit"
)

// ResultTypes lists every valid result type in display order.
var ResultTypes = []ResultType{ResultTypePage, ResultTypeStaff, ResultTypeService, ResultTypeUnit}

// icons maps result types to icon identifiers. Icons are never persisted;
// they are resolved from the type whenever a result is presented.
var icons = map[ResultType]string{
	ResultTypePage:    "file-text",
	ResultTypeStaff:   "user",
	ResultTypeService: "scissors",
	ResultTypeUnit:    "building",
}

// DefaultIcon is returned for types without a registered icon.
const DefaultIcon = "search"

// Icon returns the icon identifier for the result type.
func (t ResultType) Icon() string {
	if icon, ok := icons[t]; ok {
		return icon
	}
	return DefaultIcon
}

// IsValid reports whether t is one of the known result types.
func (t ResultType) IsValid() bool {
	_, ok := icons[t]
	return ok
}

// SearchResult is a scored candidate returned by a search pass.
// Score is recomputed for every query.
type SearchResult struct {
	Id          string
	Type        ResultType
	Title       string
	Description string
	Href        string
	Score       int               // Relevance in [0, 100]
	Metadata    map[string]string // Optional extra fields (email, role, status...)
}

// Icon resolves the presentation icon for the result.
func (r *SearchResult) Icon() string {
	return r.Type.Icon()
}

// HistoryItem is a previously selected search result.
type HistoryItem struct {
	SearchResult
	SearchedAt time.Time // Last time the result was selected
	ClickCount int       // Number of selections, always >= 1
}

// HistoryStats summarizes the search history.
type HistoryStats struct {
	Total       int
	ByType      map[ResultType]int
	MostClicked *HistoryItem // nil when history is empty
}

// CategoryOption is a single selectable value of a Category.
type CategoryOption struct {
	Value        string `yaml:"value"`
	DisplayLabel string `yaml:"label"`
}

// Category describes a search filter as plain configuration data.
type Category struct {
	Key        string           `yaml:"key"`
	Label      string           `yaml:"label"`
	MatchField string           `yaml:"match_field"`
	Options    []CategoryOption `yaml:"options"`
}

// CategoryAll matches results of every type.
const CategoryAll = "all"
