package pagination

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

// Defaults applied when the request carries no pagination parameters.
const (
	DefaultPage    = 1
	DefaultPerPage = 100
)

// ErrInvalidPaginationParameter is returned when `page` or `per_page` is not
// a positive integer.
var ErrInvalidPaginationParameter = errors.New("invalid pagination parameter")

// PageParams represents the validated `page` and `per_page` query parameters.
// Both are 1-based positive integers.
type PageParams struct {
	Page    int
	PerPage int
}

// Offset returns the row offset corresponding to these params,
// suitable for a SQL OFFSET clause.
func (p PageParams) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// LinkContext carries everything the Link header builder needs for one
// response: the requested page and page size, the base resource URL
// (request path with the query string stripped) and the total number of
// documents reported by the handler.
type LinkContext struct {
	Page        int
	Limit       int
	ResourceURL string
	TotalDocs   int64
}

// linkEntry is one relation of the Link header, built transiently while
// assembling the value.
type linkEntry struct {
	relation string
	page     int64
}

// ParsePageParams extracts `page` and `per_page` from the request query
// string, applying the defaults when a parameter is absent. A present but
// invalid value is rejected with ErrInvalidPaginationParameter so malformed
// input never reaches the pagination arithmetic.
func ParsePageParams(r *http.Request) (PageParams, error) {
	params := PageParams{
		Page:    DefaultPage,
		PerPage: DefaultPerPage,
	}

	query := r.URL.Query()

	if raw := query.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			return PageParams{}, fmt.Errorf("%w: page must be a positive integer, got %q",
				ErrInvalidPaginationParameter, raw)
		}
		params.Page = page
	}

	if raw := query.Get("per_page"); raw != "" {
		perPage, err := strconv.Atoi(raw)
		if err != nil || perPage < 1 {
			return PageParams{}, fmt.Errorf("%w: per_page must be a positive integer, got %q",
				ErrInvalidPaginationParameter, raw)
		}
		params.PerPage = perPage
	}

	return params, nil
}

// BuildLinkHeader renders an RFC 5988 `Link` header value advertising the
// first, prev, next and last pages of a paginated collection.
//
// The last page is floor(totalDocs/limit)+1, so an empty collection still has
// a single page. A `next` relation is included while the current page is at
// or below floor(totalDocs/limit); note that when totalDocs is an exact
// multiple of the limit this advertises one trailing empty page. A `prev`
// relation is included on every page but the first. Pages beyond the last are
// not clamped: the neighbouring links are computed mechanically.
//
// Each entry has the form
//
//	<url?page=N&per_page=L>; rel="X"; per_page="L"; page="N"
//
// and entries are joined by ", ".
func BuildLinkHeader(lc LinkContext) (string, error) {
	if lc.Limit < 1 {
		return "", fmt.Errorf("%w: per_page must be at least 1, got %d",
			ErrInvalidPaginationParameter, lc.Limit)
	}
	if lc.Page < 1 {
		return "", fmt.Errorf("%w: page must be at least 1, got %d",
			ErrInvalidPaginationParameter, lc.Page)
	}

	fullPages := lc.TotalDocs / int64(lc.Limit)
	lastPage := fullPages + 1
	hasNextPage := int64(lc.Page) <= fullPages
	isFirstPage := lc.Page == 1

	entries := []linkEntry{
		{relation: "first", page: 1},
		{relation: "last", page: lastPage},
	}
	if hasNextPage {
		entries = append(entries, linkEntry{relation: "next", page: int64(lc.Page) + 1})
	}
	if !isFirstPage {
		entries = append(entries, linkEntry{relation: "prev", page: int64(lc.Page) - 1})
	}

	parts := make([]string, 0, len(entries))
	for _, e := range entries {
		parts = append(parts, fmt.Sprintf(`<%s?page=%d&per_page=%d>; rel="%s"; per_page="%d"; page="%d"`,
			lc.ResourceURL, e.page, lc.Limit, e.relation, lc.Limit, e.page))
	}

	return strings.Join(parts, ", "), nil
}
