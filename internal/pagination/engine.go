package pagination

import "context"

// Source is the read capability the engine drives. Count must honor the
// query's predicates and ignore any window; Fetch honors all of it. Both
// receive independent immutable Query values, so implementations never see
// half-built state.
type Source[T any] interface {
	Count(ctx context.Context, q Query) (int64, error)
	Fetch(ctx context.Context, q Query) ([]T, error)
}

// PageResult is an offset page of rows plus derived metadata.
type PageResult[T any] struct {
	Data []T      `json:"data"`
	Meta PageMeta `json:"meta"`
}

// CursorResult is a cursor page of rows plus continuation metadata.
type CursorResult[T any] struct {
	Data []T        `json:"data"`
	Meta CursorMeta `json:"meta"`
}

// Paginate produces an offset page. The count is taken from the unwindowed
// query, the rows from the windowed one; the two reads share nothing but the
// predicate list. A page beyond the end yields empty data, not an error.
func Paginate[T any](ctx context.Context, src Source[T], req PageRequest) (PageResult[T], error) {
	req = req.Normalize()

	q := Query{}
	if req.Search != "" && len(req.SearchFields) > 0 {
		q = q.Where(searchCondition(req.Search, req.SearchFields))
	}

	total, err := src.Count(ctx, q)
	if err != nil {
		return PageResult[T]{}, err
	}

	if req.SortBy != "" {
		q = q.OrderBy(req.SortBy, req.SortOrder)
	}
	q = q.Window(req.Offset(), req.Limit)

	rows, err := src.Fetch(ctx, q)
	if err != nil {
		return PageResult[T]{}, err
	}
	if rows == nil {
		rows = []T{}
	}
	return PageResult[T]{
		Data: rows,
		Meta: NewPageMeta(total, req.Page, req.Limit),
	}, nil
}

// CursorPaginate produces a cursor page. It over-fetches one row past the
// limit to learn whether a continuation exists, then drops it. cursorOf
// extracts the sort-field value that becomes the opaque cursor for a row.
//
// NextCursor is set only when a next page exists. PreviousCursor is set only
// when the request itself carried a cursor; there is no independent backward
// probe (see CursorMeta).
func CursorPaginate[T any](ctx context.Context, src Source[T], req CursorRequest, cursorOf func(T) string) (CursorResult[T], error) {
	req = req.Normalize()

	q := Query{}
	if req.Cursor != "" {
		q = q.Where(cursorCondition(req.SortBy, req.SortOrder, req.Cursor))
	}
	q = q.OrderBy(req.SortBy, req.SortOrder).Window(0, req.Limit+1)

	rows, err := src.Fetch(ctx, q)
	if err != nil {
		return CursorResult[T]{}, err
	}

	hasNext := len(rows) > req.Limit
	if hasNext {
		rows = rows[:req.Limit]
	}
	if rows == nil {
		rows = []T{}
	}

	meta := CursorMeta{
		HasNextPage:     hasNext,
		HasPreviousPage: req.Cursor != "",
		Limit:           req.Limit,
	}
	if len(rows) > 0 {
		if hasNext {
			meta.NextCursor = cursorOf(rows[len(rows)-1])
		}
		if req.Cursor != "" {
			meta.PreviousCursor = cursorOf(rows[0])
		}
	}
	return CursorResult[T]{Data: rows, Meta: meta}, nil
}
