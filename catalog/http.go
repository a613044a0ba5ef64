package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const defaultHTTPTimeout = 10 * time.Second

// HTTPStaffDirectory lists staff members from the back-office REST API.
type HTTPStaffDirectory struct {
	baseURL string
	token   string
	client  *http.Client
}

var _ StaffDirectory = (*HTTPStaffDirectory)(nil)

type staffListResponse struct {
	Data []StaffMember `json:"data"`
	Meta struct {
		Page       int `json:"page"`
		TotalPages int `json:"total_pages"`
	} `json:"meta"`
}

// StatusError is returned for non-2xx responses of the staff API.
// It matches ErrUnexpectedStatus with errors.Is.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: %d: %s", ErrUnexpectedStatus, e.StatusCode, e.Body)
}

func (e *StatusError) Unwrap() error {
	return ErrUnexpectedStatus
}

// Temporary reports whether the request may succeed when repeated:
// timeouts, rate limiting and server errors.
func (e *StatusError) Temporary() bool {
	switch e.StatusCode {
	case http.StatusRequestTimeout, http.StatusTooEarly, http.StatusTooManyRequests:
		return true
	}
	return e.StatusCode >= 500
}

// HTTPOption configures an HTTPStaffDirectory.
type HTTPOption func(*HTTPStaffDirectory)

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(client *http.Client) HTTPOption {
	return func(d *HTTPStaffDirectory) {
		if client != nil {
			d.client = client
		}
	}
}

// NewHTTPStaffDirectory creates a directory for the API at baseURL.
// token is sent as a bearer token when not empty.
func NewHTTPStaffDirectory(baseURL, token string, opts ...HTTPOption) *HTTPStaffDirectory {
	d := &HTTPStaffDirectory{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		client:  &http.Client{Timeout: defaultHTTPTimeout},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// ListStaff requests GET {base}/staff?search=&page=&limit=.
func (d *HTTPStaffDirectory) ListStaff(ctx context.Context, query StaffQuery) (*StaffPage, error) {
	params := url.Values{}
	params.Set("search", query.Search)
	params.Set("page", strconv.Itoa(max(query.Page, 1)))
	if query.Limit > 0 {
		params.Set("limit", strconv.Itoa(query.Limit))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.baseURL+"/staff?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if d.token != "" {
		req.Header.Set("Authorization", "Bearer "+d.token)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	var decoded staffListResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidResponse, err)
	}

	page := decoded.Meta.Page
	if page == 0 {
		page = max(query.Page, 1)
	}
	return &StaffPage{
		Members:    decoded.Data,
		Page:       page,
		TotalPages: decoded.Meta.TotalPages,
	}, nil
}
