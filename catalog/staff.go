package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/poiesic/shopsearch/core"
	"github.com/poiesic/shopsearch/search"
)

const (
	// DefaultPageSize is the number of staff members requested per page.
	DefaultPageSize = 20

	// DefaultMaxPages bounds how many pages one search pass fetches.
	DefaultMaxPages = 3

	// DefaultMaxAttempts is the number of attempts per page request.
	DefaultMaxAttempts = 3

	// DefaultRetryDelay is the delay before the first retry.
	DefaultRetryDelay = 200 * time.Millisecond
)

// StaffMember is an entry of the staff directory.
type StaffMember struct {
	ID     string `json:"id" yaml:"id"`
	Name   string `json:"name" yaml:"name"`
	Email  string `json:"email" yaml:"email"`
	Role   string `json:"role" yaml:"role"`
	Status string `json:"status" yaml:"status"`
}

// StaffQuery selects one page of staff members.
type StaffQuery struct {
	Search string
	Page   int // 1-based
	Limit  int
}

// StaffPage is one page of a staff listing.
type StaffPage struct {
	Members    []StaffMember
	Page       int
	TotalPages int
}

// StaffDirectory lists staff members page by page.
type StaffDirectory interface {
	ListStaff(ctx context.Context, query StaffQuery) (*StaffPage, error)
}

// StaffSource turns a StaffDirectory into a search source.
type StaffSource struct {
	directory StaffDirectory
	pageSize  int
	maxPages  int
	retry     RetryPolicy
	logger    *slog.Logger
}

var _ search.Source = (*StaffSource)(nil)

// StaffOption configures a StaffSource.
type StaffOption func(*StaffSource)

// WithPageSize sets the number of members requested per page.
func WithPageSize(size int) StaffOption {
	return func(s *StaffSource) {
		if size > 0 {
			s.pageSize = size
		}
	}
}

// WithMaxPages sets the maximum number of pages fetched per search pass.
func WithMaxPages(pages int) StaffOption {
	return func(s *StaffSource) {
		if pages > 0 {
			s.maxPages = pages
		}
	}
}

// WithRetry sets the attempts per page request and the initial retry delay.
func WithRetry(maxAttempts int, baseDelay time.Duration) StaffOption {
	return func(s *StaffSource) {
		if maxAttempts > 0 {
			s.retry.MaxAttempts = maxAttempts
		}
		if baseDelay >= 0 {
			s.retry.BaseDelay = baseDelay
		}
	}
}

// WithRetryable replaces the predicate deciding which directory errors
// are retried. Default is IsRetryable.
func WithRetryable(fn func(error) bool) StaffOption {
	return func(s *StaffSource) {
		if fn != nil {
			s.retry.Retryable = fn
		}
	}
}

// WithStaffLogger sets a custom logger.
// Default is slog.Default().
func WithStaffLogger(logger *slog.Logger) StaffOption {
	return func(s *StaffSource) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewStaffSource creates a staff source over directory.
func NewStaffSource(directory StaffDirectory, opts ...StaffOption) (*StaffSource, error) {
	if directory == nil {
		return nil, ErrDirectoryRequired
	}

	s := &StaffSource{
		directory: directory,
		pageSize:  DefaultPageSize,
		maxPages:  DefaultMaxPages,
		retry:     DefaultRetryPolicy(),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.retry.Logger = s.logger.With("source", core.ResultTypeStaff)
	return s, nil
}

// Type returns core.ResultTypeStaff.
func (s *StaffSource) Type() core.ResultType {
	return core.ResultTypeStaff
}

// Candidates fetches up to maxPages pages of members matching query.
func (s *StaffSource) Candidates(ctx context.Context, query string) ([]core.SearchResult, error) {
	var results []core.SearchResult

	for page := 1; page <= s.maxPages; page++ {
		var resp *StaffPage
		err := s.retry.Do(ctx, func(ctx context.Context) error {
			var err error
			resp, err = s.directory.ListStaff(ctx, StaffQuery{Search: query, Page: page, Limit: s.pageSize})
			return err
		})
		if err != nil {
			return nil, fmt.Errorf("listing staff page %d: %w", page, err)
		}

		for _, member := range resp.Members {
			results = append(results, StaffResult(member))
		}

		if page >= resp.TotalPages || len(resp.Members) == 0 {
			break
		}
	}

	s.logger.Debug("fetched staff candidates", "query", query, "count", len(results))
	return results, nil
}

// StaffResult maps a staff member onto a search result.
func StaffResult(m StaffMember) core.SearchResult {
	id := m.ID
	if id == "" {
		id = contentID(core.ResultTypeStaff, m.Email+m.Name)
	}

	metadata := make(map[string]string, 3)
	for key, value := range map[string]string{"email": m.Email, "role": m.Role, "status": m.Status} {
		if value != "" {
			metadata[key] = value
		}
	}

	r := core.SearchResult{
		Id:          id,
		Type:        core.ResultTypeStaff,
		Title:       m.Name,
		Description: m.Email,
		Metadata:    metadata,
	}
	r.Href = Route(r)
	return r
}

// contentID derives a stable id for entries that do not carry one.
func contentID(typ core.ResultType, content string) string {
	return fmt.Sprintf("%s-%016x", typ, uint64(core.IDFromContent(string(typ)+":"+content)))
}
