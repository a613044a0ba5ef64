package catalog

import (
	"context"
	"slices"
	"strings"

	"github.com/poiesic/shopsearch/search"
)

// MemoryStaffDirectory is a StaffDirectory over a fixed member list.
type MemoryStaffDirectory struct {
	members []StaffMember
}

var _ StaffDirectory = (*MemoryStaffDirectory)(nil)

// NewMemoryStaffDirectory creates a directory over members.
func NewMemoryStaffDirectory(members []StaffMember) *MemoryStaffDirectory {
	return &MemoryStaffDirectory{members: slices.Clone(members)}
}

// ListStaff returns the requested page of members whose name or email
// contains query.Search, ignoring case and accents.
func (d *MemoryStaffDirectory) ListStaff(ctx context.Context, query StaffQuery) (*StaffPage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	needle := search.Normalize(query.Search)
	var matched []StaffMember
	for _, m := range d.members {
		if needle == "" ||
			strings.Contains(search.Normalize(m.Name), needle) ||
			strings.Contains(search.Normalize(m.Email), needle) {
			matched = append(matched, m)
		}
	}

	limit := query.Limit
	if limit <= 0 {
		limit = DefaultPageSize
	}
	page := max(query.Page, 1)
	totalPages := (len(matched) + limit - 1) / limit

	start := min((page-1)*limit, len(matched))
	end := min(start+limit, len(matched))

	return &StaffPage{
		Members:    slices.Clone(matched[start:end]),
		Page:       page,
		TotalPages: totalPages,
	}, nil
}
