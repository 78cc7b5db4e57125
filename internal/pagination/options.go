// Package pagination turns page/limit or cursor requests into query
// constraints against an abstract row source and packages results with
// navigation metadata. It owns no storage; sources do the actual reads.
package pagination

// SortOrder is the direction applied to a single-column ordering.
type SortOrder string

const (
	ASC  SortOrder = "ASC"
	DESC SortOrder = "DESC"
)

const (
	// DefaultLimit is used when a request carries no limit.
	DefaultLimit = 20
	// MaxLimit caps any requested page size.
	MaxLimit = 100

	// defaultCursorSortBy keeps cursor paging deterministic when the caller
	// doesn't name a sort field.
	defaultCursorSortBy = "id"
)

// PageRequest describes an offset-based page. The zero value is valid and
// normalizes to the first page with the default limit.
type PageRequest struct {
	Page         int       `json:"page"`
	Limit        int       `json:"limit"`
	SortBy       string    `json:"sort_by,omitempty"`
	SortOrder    SortOrder `json:"sort_order,omitempty"`
	Search       string    `json:"search,omitempty"`
	SearchFields []string  `json:"-"`
}

// Normalize clamps the request into its valid domain: page >= 1, limit in
// [1, MaxLimit] with DefaultLimit for an absent limit. I keep this as the
// single place where the clamp bounds live; Paginate calls it too, so
// callers that normalize up front see exactly what the query will use.
func (r PageRequest) Normalize() PageRequest {
	if r.Page < 1 {
		r.Page = 1
	}
	switch {
	case r.Limit == 0:
		r.Limit = DefaultLimit
	case r.Limit < 1:
		r.Limit = 1
	case r.Limit > MaxLimit:
		r.Limit = MaxLimit
	}
	if r.SortOrder != DESC {
		r.SortOrder = ASC
	}
	return r
}

// Offset is the absolute row offset of the (normalized) request.
func (r PageRequest) Offset() int {
	return (r.Page - 1) * r.Limit
}

// CursorRequest describes a cursor-based continuation. The cursor is the
// literal sort-field value of the last row seen; it carries no encoding.
type CursorRequest struct {
	Cursor    string    `json:"cursor,omitempty"`
	Limit     int       `json:"limit"`
	SortBy    string    `json:"sort_by,omitempty"`
	SortOrder SortOrder `json:"sort_order,omitempty"`
}

// Normalize applies the same limit clamp as PageRequest.Normalize and
// defaults the sort field to "id".
func (r CursorRequest) Normalize() CursorRequest {
	switch {
	case r.Limit == 0:
		r.Limit = DefaultLimit
	case r.Limit < 1:
		r.Limit = 1
	case r.Limit > MaxLimit:
		r.Limit = MaxLimit
	}
	if r.SortBy == "" {
		r.SortBy = defaultCursorSortBy
	}
	if r.SortOrder != DESC {
		r.SortOrder = ASC
	}
	return r
}
