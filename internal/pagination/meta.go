package pagination

import (
	"net/url"
	"strconv"
)

// PageMeta describes where an offset page sits in the full result set.
// TotalPages and the two booleans are always derived in NewPageMeta, never
// set independently; construct metas only through it.
type PageMeta struct {
	Total           int64 `json:"total"`
	Page            int   `json:"page"`
	Limit           int   `json:"limit"`
	TotalPages      int   `json:"total_pages"`
	HasNextPage     bool  `json:"has_next_page"`
	HasPreviousPage bool  `json:"has_previous_page"`
}

// NewPageMeta derives page metadata from a total count and the normalized
// page/limit pair. TotalPages is 0 for an empty set; a page past the end
// simply reports no next page.
func NewPageMeta(total int64, page, limit int) PageMeta {
	totalPages := 0
	if total > 0 {
		totalPages = int((total + int64(limit) - 1) / int64(limit))
	}
	return PageMeta{
		Total:           total,
		Page:            page,
		Limit:           limit,
		TotalPages:      totalPages,
		HasNextPage:     page < totalPages,
		HasPreviousPage: page > 1,
	}
}

// CursorMeta describes a cursor page. HasPreviousPage only records that the
// request carried a cursor; there is no backward probe, so it can claim a
// previous page that no longer matches. Callers were warned.
type CursorMeta struct {
	HasNextPage     bool   `json:"has_next_page"`
	HasPreviousPage bool   `json:"has_previous_page"`
	NextCursor      string `json:"next_cursor,omitempty"`
	PreviousCursor  string `json:"previous_cursor,omitempty"`
	Limit           int    `json:"limit"`
}

// PageLinks carries ready-to-follow navigation URLs for an offset page.
type PageLinks struct {
	First    string `json:"first,omitempty"`
	Previous string `json:"previous,omitempty"`
	Next     string `json:"next,omitempty"`
	Last     string `json:"last,omitempty"`
}

// Links builds navigation URLs by appending page/limit (plus any passthrough
// params) to baseURL. First/Previous appear only past the first page;
// Next/Last only when a next page exists. baseURL is not validated; garbage
// in, garbage out.
func Links(baseURL string, meta PageMeta, extra url.Values) PageLinks {
	build := func(page int) string {
		v := url.Values{}
		for k, vals := range extra {
			for _, val := range vals {
				v.Add(k, val)
			}
		}
		v.Set("page", strconv.Itoa(page))
		v.Set("limit", strconv.Itoa(meta.Limit))
		return baseURL + "?" + v.Encode()
	}

	var links PageLinks
	if meta.Page > 1 {
		links.First = build(1)
		links.Previous = build(meta.Page - 1)
	}
	if meta.HasNextPage {
		links.Next = build(meta.Page + 1)
		links.Last = build(meta.TotalPages)
	}
	return links
}
