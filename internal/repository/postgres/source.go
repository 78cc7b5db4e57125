package postgres

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/openhire/applicant-tracking-service/internal/pagination"
	"github.com/openhire/applicant-tracking-service/internal/repository"
)

// tableSource implements pagination.Source for one table. It renders the
// engine's immutable query into two independent statements: an unwindowed
// COUNT and a windowed SELECT. Condition expressions use @name placeholders
// and are bound through pgx.NamedArgs.
//
// Order fields and search fields reach this type only through repository
// code that names concrete columns, never raw client input.
type tableSource[T any] struct {
	pool    *pgxpool.Pool
	table   string
	columns string
	base    []pagination.Condition
	scan    func(rows pgx.Rows) (T, error)
}

func (s tableSource[T]) render(query pagination.Query) (string, pgx.NamedArgs) {
	args := pgx.NamedArgs{}
	exprs := make([]string, 0, len(s.base)+len(query.Conditions()))
	for _, c := range s.base {
		exprs = append(exprs, c.Expr)
		for k, v := range c.Args {
			args[k] = v
		}
	}
	for _, c := range query.Conditions() {
		exprs = append(exprs, c.Expr)
		for k, v := range c.Args {
			args[k] = v
		}
	}
	if len(exprs) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(exprs, " AND "), args
}

func (s tableSource[T]) Count(ctx context.Context, query pagination.Query) (int64, error) {
	if err := ensurePool(s.pool); err != nil {
		return 0, err
	}
	clause, args := s.render(query)
	exec := getQ(ctx, s.pool)
	var total int64
	if err := exec.QueryRow(ctx, "SELECT COUNT(*) FROM "+s.table+clause, args).Scan(&total); err != nil {
		return 0, repository.MapPgError(err)
	}
	return total, nil
}

func (s tableSource[T]) Fetch(ctx context.Context, query pagination.Query) ([]T, error) {
	if err := ensurePool(s.pool); err != nil {
		return nil, err
	}
	clause, args := s.render(query)
	sb := strings.Builder{}
	sb.WriteString("SELECT ")
	sb.WriteString(s.columns)
	sb.WriteString(" FROM ")
	sb.WriteString(s.table)
	sb.WriteString(clause)
	if field, ord, ok := query.Order(); ok {
		sb.WriteString(" ORDER BY ")
		sb.WriteString(field)
		sb.WriteString(" ")
		sb.WriteString(string(ord))
	}
	capacity := 0
	if offset, limit, ok := query.Windowed(); ok {
		sb.WriteString(" LIMIT @window_limit OFFSET @window_offset")
		args["window_limit"] = limit
		args["window_offset"] = offset
		capacity = limit
	}

	exec := getQ(ctx, s.pool)
	rows, err := exec.Query(ctx, sb.String(), args)
	if err != nil {
		return nil, repository.MapPgError(err)
	}
	defer rows.Close()

	out := make([]T, 0, capacity)
	for rows.Next() {
		it, err := s.scan(rows)
		if err != nil {
			return nil, repository.MapPgError(err)
		}
		out = append(out, it)
	}
	if err := rows.Err(); err != nil {
		return nil, repository.MapPgError(err)
	}
	return out, nil
}

var _ pagination.Source[struct{}] = tableSource[struct{}]{}
