package pagination

import "fmt"

// Condition is one predicate fragment with its named arguments. Expr uses
// @name placeholders; argument names must be unique across a whole Query so
// fragments compose without collisions.
type Condition struct {
	Expr string
	Args map[string]any
}

// Query is an immutable description of a read: predicates, ordering and a
// window. Every With-style method returns a copy, so a Query can be counted
// and fetched independently without one call observing the other's state.
// This is deliberate: counting and windowing never share a mutable builder.
type Query struct {
	conds     []Condition
	sortBy    string
	sortOrder SortOrder
	offset    int
	limit     int
	windowed  bool
}

// Where returns a copy of q with the condition appended.
func (q Query) Where(c Condition) Query {
	conds := make([]Condition, 0, len(q.conds)+1)
	conds = append(conds, q.conds...)
	conds = append(conds, c)
	q.conds = conds
	return q
}

// OrderBy returns a copy of q ordered by a single column.
func (q Query) OrderBy(field string, ord SortOrder) Query {
	q.sortBy = field
	q.sortOrder = ord
	return q
}

// Window returns a copy of q restricted to limit rows starting at offset.
func (q Query) Window(offset, limit int) Query {
	q.offset = offset
	q.limit = limit
	q.windowed = true
	return q
}

// Conditions exposes the predicate list for sources rendering the query.
func (q Query) Conditions() []Condition { return q.conds }

// Order reports the ordering, if any.
func (q Query) Order() (field string, ord SortOrder, ok bool) {
	return q.sortBy, q.sortOrder, q.sortBy != ""
}

// Windowed reports the offset/limit window, if one was applied.
func (q Query) Windowed() (offset, limit int, ok bool) {
	return q.offset, q.limit, q.windowed
}

// searchCondition builds a single OR of case-insensitive contains matches
// across the given fields. Each field binds its own parameter so repeated
// fields or nested conditions can't collide.
func searchCondition(search string, fields []string) Condition {
	args := make(map[string]any, len(fields))
	expr := "("
	for i, f := range fields {
		name := fmt.Sprintf("search_%d", i)
		if i > 0 {
			expr += " OR "
		}
		expr += fmt.Sprintf("%s ILIKE @%s", f, name)
		args[name] = "%" + search + "%"
	}
	expr += ")"
	return Condition{Expr: expr, Args: args}
}

// cursorCondition is the strict-inequality continuation predicate: rows
// after the cursor when ascending, before it when descending.
func cursorCondition(field string, ord SortOrder, cursor string) Condition {
	op := ">"
	if ord == DESC {
		op = "<"
	}
	return Condition{
		Expr: fmt.Sprintf("%s %s @cursor_after", field, op),
		Args: map[string]any{"cursor_after": cursor},
	}
}
