package pagination_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/openhire/applicant-tracking-service/internal/pagination"
)

// fakeSource serves rows from a slice and records the queries it receives,
// which lets tests assert on what the engine asked for.
type fakeSource struct {
	rows []string

	countQ   *pagination.Query
	fetchQ   *pagination.Query
	countErr error
	fetchErr error
}

func (f *fakeSource) Count(_ context.Context, q pagination.Query) (int64, error) {
	f.countQ = &q
	if f.countErr != nil {
		return 0, f.countErr
	}
	return int64(len(f.rows)), nil
}

func (f *fakeSource) Fetch(_ context.Context, q pagination.Query) ([]string, error) {
	f.fetchQ = &q
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	rows := f.rows
	// Apply the cursor predicate the way a real source would, so cursor
	// walks behave like reads against ordered storage.
	for _, c := range q.Conditions() {
		if after, ok := c.Args["cursor_after"]; ok {
			cut := after.(string)
			kept := rows[:0:0]
			for _, r := range rows {
				if strings.Contains(c.Expr, "<") && r < cut {
					kept = append(kept, r)
				}
				if strings.Contains(c.Expr, ">") && r > cut {
					kept = append(kept, r)
				}
			}
			rows = kept
		}
	}
	if off, lim, ok := q.Windowed(); ok {
		if off >= len(rows) {
			return nil, nil
		}
		rows = rows[off:]
		if lim < len(rows) {
			rows = rows[:lim]
		}
	}
	return rows, nil
}

var _ pagination.Source[string] = (*fakeSource)(nil)

func seedRows(n int) []string {
	rows := make([]string, n)
	for i := range rows {
		rows[i] = fmt.Sprintf("row-%03d", i)
	}
	return rows
}

func TestPaginate_FirstPage(t *testing.T) {
	src := &fakeSource{rows: seedRows(45)}
	res, err := pagination.Paginate[string](context.Background(), src, pagination.PageRequest{Page: 1, Limit: 20})
	if err != nil {
		t.Fatalf("paginate: %v", err)
	}
	if len(res.Data) != 20 {
		t.Fatalf("expected 20 rows, got %d", len(res.Data))
	}
	if res.Meta.Total != 45 || res.Meta.TotalPages != 3 {
		t.Fatalf("unexpected meta: %+v", res.Meta)
	}
	if !res.Meta.HasNextPage || res.Meta.HasPreviousPage {
		t.Fatalf("unexpected flags: %+v", res.Meta)
	}
}

func TestPaginate_LastPartialPage(t *testing.T) {
	src := &fakeSource{rows: seedRows(45)}
	res, err := pagination.Paginate[string](context.Background(), src, pagination.PageRequest{Page: 3, Limit: 20})
	if err != nil {
		t.Fatalf("paginate: %v", err)
	}
	if len(res.Data) != 5 {
		t.Fatalf("expected remainder of 5 rows, got %d", len(res.Data))
	}
	if res.Meta.HasNextPage || !res.Meta.HasPreviousPage {
		t.Fatalf("unexpected flags: %+v", res.Meta)
	}
}

func TestPaginate_PagePastEnd(t *testing.T) {
	src := &fakeSource{rows: seedRows(5)}
	res, err := pagination.Paginate[string](context.Background(), src, pagination.PageRequest{Page: 40, Limit: 20})
	if err != nil {
		t.Fatalf("paginate: %v", err)
	}
	if res.Data == nil || len(res.Data) != 0 {
		t.Fatalf("expected empty non-nil data, got %#v", res.Data)
	}
	if res.Meta.Total != 5 || res.Meta.HasNextPage {
		t.Fatalf("unexpected meta: %+v", res.Meta)
	}
}

func TestPaginate_EmptySet(t *testing.T) {
	src := &fakeSource{}
	res, err := pagination.Paginate[string](context.Background(), src, pagination.PageRequest{})
	if err != nil {
		t.Fatalf("paginate: %v", err)
	}
	if len(res.Data) != 0 || res.Meta.TotalPages != 0 || res.Meta.HasNextPage || res.Meta.HasPreviousPage {
		t.Fatalf("unexpected empty result: %+v", res.Meta)
	}
}

func TestPaginate_ClampsBeforeQuerying(t *testing.T) {
	src := &fakeSource{rows: seedRows(3)}
	res, err := pagination.Paginate[string](context.Background(), src, pagination.PageRequest{Page: -2, Limit: 9000})
	if err != nil {
		t.Fatalf("paginate: %v", err)
	}
	if res.Meta.Page != 1 || res.Meta.Limit != pagination.MaxLimit {
		t.Fatalf("meta should echo clamped values: %+v", res.Meta)
	}
	off, lim, ok := src.fetchQ.Windowed()
	if !ok || off != 0 || lim != pagination.MaxLimit {
		t.Fatalf("window should use clamped values: off=%d lim=%d ok=%v", off, lim, ok)
	}
}

func TestPaginate_CountQueryIsUnwindowed(t *testing.T) {
	src := &fakeSource{rows: seedRows(10)}
	_, err := pagination.Paginate[string](context.Background(), src, pagination.PageRequest{
		Page: 2, Limit: 3, SortBy: "full_name", SortOrder: pagination.DESC,
	})
	if err != nil {
		t.Fatalf("paginate: %v", err)
	}
	if _, _, ok := src.countQ.Windowed(); ok {
		t.Fatalf("count query must not carry a window")
	}
	if _, _, ok := src.countQ.Order(); ok {
		t.Fatalf("count query must not carry an ordering")
	}
	field, ord, ok := src.fetchQ.Order()
	if !ok || field != "full_name" || ord != pagination.DESC {
		t.Fatalf("fetch ordering lost: %q %s %v", field, ord, ok)
	}
	off, lim, _ := src.fetchQ.Windowed()
	if off != 3 || lim != 3 {
		t.Fatalf("fetch window off=%d lim=%d, want 3/3", off, lim)
	}
}

func TestPaginate_SearchCondition(t *testing.T) {
	src := &fakeSource{rows: seedRows(4)}
	_, err := pagination.Paginate[string](context.Background(), src, pagination.PageRequest{
		Search:       "ada",
		SearchFields: []string{"full_name", "email"},
	})
	if err != nil {
		t.Fatalf("paginate: %v", err)
	}
	conds := src.countQ.Conditions()
	if len(conds) != 1 {
		t.Fatalf("expected one search condition, got %d", len(conds))
	}
	c := conds[0]
	if c.Expr != "(full_name ILIKE @search_0 OR email ILIKE @search_1)" {
		t.Fatalf("unexpected expr: %s", c.Expr)
	}
	if c.Args["search_0"] != "%ada%" || c.Args["search_1"] != "%ada%" {
		t.Fatalf("unexpected args: %v", c.Args)
	}
	fconds := src.fetchQ.Conditions()
	if len(fconds) != 1 || fconds[0].Expr != c.Expr {
		t.Fatalf("fetch must carry the same predicate: %v", fconds)
	}
}

func TestPaginate_NoSearchWithoutFields(t *testing.T) {
	src := &fakeSource{rows: seedRows(2)}
	_, err := pagination.Paginate[string](context.Background(), src, pagination.PageRequest{Search: "ada"})
	if err != nil {
		t.Fatalf("paginate: %v", err)
	}
	if len(src.countQ.Conditions()) != 0 {
		t.Fatalf("search without fields must not add predicates")
	}
}

func TestPaginate_SourceErrors(t *testing.T) {
	boom := errors.New("boom")
	src := &fakeSource{rows: seedRows(2), countErr: boom}
	if _, err := pagination.Paginate[string](context.Background(), src, pagination.PageRequest{}); !errors.Is(err, boom) {
		t.Fatalf("count error not surfaced: %v", err)
	}
	src = &fakeSource{rows: seedRows(2), fetchErr: boom}
	if _, err := pagination.Paginate[string](context.Background(), src, pagination.PageRequest{}); !errors.Is(err, boom) {
		t.Fatalf("fetch error not surfaced: %v", err)
	}
}

func identity(s string) string { return s }

func TestCursorPaginate_FirstPage(t *testing.T) {
	src := &fakeSource{rows: seedRows(25)}
	res, err := pagination.CursorPaginate[string](context.Background(), src, pagination.CursorRequest{Limit: 10}, identity)
	if err != nil {
		t.Fatalf("cursor paginate: %v", err)
	}
	if len(res.Data) != 10 {
		t.Fatalf("expected 10 rows, got %d", len(res.Data))
	}
	if !res.Meta.HasNextPage || res.Meta.NextCursor != res.Data[9] {
		t.Fatalf("unexpected continuation: %+v", res.Meta)
	}
	if res.Meta.HasPreviousPage || res.Meta.PreviousCursor != "" {
		t.Fatalf("first page must not claim a previous page: %+v", res.Meta)
	}
	_, lim, ok := src.fetchQ.Windowed()
	if !ok || lim != 11 {
		t.Fatalf("expected over-fetch of limit+1, got %d", lim)
	}
}

func TestCursorPaginate_ExactlyLimitRows(t *testing.T) {
	src := &fakeSource{rows: seedRows(10)}
	res, err := pagination.CursorPaginate[string](context.Background(), src, pagination.CursorRequest{Limit: 10}, identity)
	if err != nil {
		t.Fatalf("cursor paginate: %v", err)
	}
	if len(res.Data) != 10 {
		t.Fatalf("expected all 10 rows, got %d", len(res.Data))
	}
	if res.Meta.HasNextPage || res.Meta.NextCursor != "" {
		t.Fatalf("exact fit must not advertise a next page: %+v", res.Meta)
	}
}

func TestCursorPaginate_WithCursor(t *testing.T) {
	src := &fakeSource{rows: seedRows(25)}
	res, err := pagination.CursorPaginate[string](context.Background(), src, pagination.CursorRequest{Cursor: "row-009", Limit: 10}, identity)
	if err != nil {
		t.Fatalf("cursor paginate: %v", err)
	}
	if len(res.Data) != 10 || res.Data[0] != "row-010" {
		t.Fatalf("continuation should start past the cursor: %v", res.Data[:1])
	}
	if !res.Meta.HasPreviousPage || res.Meta.PreviousCursor != "row-010" {
		t.Fatalf("previous cursor should echo the first row: %+v", res.Meta)
	}
	conds := src.fetchQ.Conditions()
	if len(conds) != 1 || conds[0].Expr != "id > @cursor_after" {
		t.Fatalf("unexpected cursor predicate: %v", conds)
	}
	if conds[0].Args["cursor_after"] != "row-009" {
		t.Fatalf("cursor arg lost: %v", conds[0].Args)
	}
}

func TestCursorPaginate_WalksWholeSet(t *testing.T) {
	src := &fakeSource{rows: seedRows(23)}
	seen := 0
	cursor := ""
	for pages := 0; ; pages++ {
		if pages > 10 {
			t.Fatalf("walk did not terminate")
		}
		res, err := pagination.CursorPaginate[string](context.Background(), src, pagination.CursorRequest{Cursor: cursor, Limit: 10}, identity)
		if err != nil {
			t.Fatalf("page %d: %v", pages, err)
		}
		if len(res.Data) > 10 {
			t.Fatalf("page %d larger than limit: %d", pages, len(res.Data))
		}
		seen += len(res.Data)
		if !res.Meta.HasNextPage {
			break
		}
		cursor = res.Meta.NextCursor
	}
	if seen != 23 {
		t.Fatalf("walk saw %d rows, want 23", seen)
	}
}

func TestCursorPaginate_Descending(t *testing.T) {
	rows := seedRows(5)
	// serve in descending order like a DESC-sorted read would
	desc := make([]string, len(rows))
	for i, r := range rows {
		desc[len(rows)-1-i] = r
	}
	src := &fakeSource{rows: desc}
	res, err := pagination.CursorPaginate[string](context.Background(), src, pagination.CursorRequest{Cursor: "row-004", Limit: 2, SortOrder: pagination.DESC}, identity)
	if err != nil {
		t.Fatalf("cursor paginate: %v", err)
	}
	conds := src.fetchQ.Conditions()
	if len(conds) != 1 || conds[0].Expr != "id < @cursor_after" {
		t.Fatalf("descending must flip the inequality: %v", conds)
	}
	if len(res.Data) != 2 || res.Data[0] != "row-003" {
		t.Fatalf("unexpected page: %v", res.Data)
	}
}

func TestCursorPaginate_EmptyContinuation(t *testing.T) {
	src := &fakeSource{rows: seedRows(3)}
	res, err := pagination.CursorPaginate[string](context.Background(), src, pagination.CursorRequest{Cursor: "row-002", Limit: 10}, identity)
	if err != nil {
		t.Fatalf("cursor paginate: %v", err)
	}
	if res.Data == nil || len(res.Data) != 0 {
		t.Fatalf("expected empty non-nil data, got %#v", res.Data)
	}
	if res.Meta.HasNextPage || res.Meta.NextCursor != "" || res.Meta.PreviousCursor != "" {
		t.Fatalf("empty continuation must not advertise cursors: %+v", res.Meta)
	}
	if !res.Meta.HasPreviousPage {
		t.Fatalf("request carried a cursor, previous page flag should hold: %+v", res.Meta)
	}
}
