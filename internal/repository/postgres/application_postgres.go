package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/openhire/applicant-tracking-service/internal/model"
	"github.com/openhire/applicant-tracking-service/internal/pagination"
	"github.com/openhire/applicant-tracking-service/internal/repository"
)

const applicationColumns = "id, candidate_id, job_id, status, notes, applied_at, updated_at"

type applicationRepository struct {
	pool *pgxpool.Pool
	src  tableSource[model.Application]
}

func NewApplicationRepository(pool *pgxpool.Pool) repository.ApplicationRepository {
	return &applicationRepository{
		pool: pool,
		src: tableSource[model.Application]{
			pool:    pool,
			table:   "applications",
			columns: applicationColumns,
			scan:    scanApplication,
		},
	}
}

func scanApplication(rows pgx.Rows) (model.Application, error) {
	var a model.Application
	err := rows.Scan(&a.ID, &a.CandidateID, &a.JobID, &a.Status, &a.Notes, &a.AppliedAt, &a.UpdatedAt)
	return a, err
}

// applicationCursor picks the cursor extractor for a sort field. The cursor
// must carry the literal value of the column the page is ordered by, or the
// continuation predicate compares the wrong types. applied_at round-trips as
// RFC 3339 text; Postgres casts it back to timestamptz. Everything else pages
// over the UUIDv7 primary key, lexicographic in application order.
func applicationCursor(sortBy string) func(model.Application) string {
	if sortBy == "applied_at" {
		return func(a model.Application) string {
			return a.AppliedAt.UTC().Format(time.RFC3339Nano)
		}
	}
	return func(a model.Application) string { return a.ID }
}

func (r *applicationRepository) Create(ctx context.Context, a model.Application) (model.Application, error) {
	if err := ensurePool(r.pool); err != nil {
		return model.Application{}, err
	}
	if a.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return model.Application{}, err
		}
		a.ID = id.String()
	}
	exec := getQ(ctx, r.pool)
	row := exec.QueryRow(ctx,
		`INSERT INTO applications (id, candidate_id, job_id, status, notes)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING `+applicationColumns,
		a.ID, a.CandidateID, a.JobID, a.Status, a.Notes,
	)
	var out model.Application
	if err := row.Scan(&out.ID, &out.CandidateID, &out.JobID, &out.Status, &out.Notes, &out.AppliedAt, &out.UpdatedAt); err != nil {
		return model.Application{}, repository.MapPgError(err)
	}
	return out, nil
}

func (r *applicationRepository) GetByID(ctx context.Context, id string) (model.Application, error) {
	if err := ensurePool(r.pool); err != nil {
		return model.Application{}, err
	}
	exec := getQ(ctx, r.pool)
	row := exec.QueryRow(ctx, `SELECT `+applicationColumns+` FROM applications WHERE id = $1`, id)
	var out model.Application
	if err := row.Scan(&out.ID, &out.CandidateID, &out.JobID, &out.Status, &out.Notes, &out.AppliedAt, &out.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Application{}, repository.ErrNotFound
		}
		return model.Application{}, repository.MapPgError(err)
	}
	return out, nil
}

// List cursor-pages the application stream.
func (r *applicationRepository) List(ctx context.Context, req pagination.CursorRequest) (pagination.CursorResult[model.Application], error) {
	req = req.Normalize()
	return pagination.CursorPaginate(ctx, r.src, req, applicationCursor(req.SortBy))
}

// ListByCandidate offset-pages one candidate's applications, newest first
// by default ordering chosen at the service layer.
func (r *applicationRepository) ListByCandidate(ctx context.Context, candidateID int64, req pagination.PageRequest) (pagination.PageResult[model.Application], error) {
	src := r.src
	src.base = []pagination.Condition{{
		Expr: "candidate_id = @candidate_id",
		Args: map[string]any{"candidate_id": candidateID},
	}}
	return pagination.Paginate(ctx, src, req)
}

// UpdateStatus guards on the expected current status in the WHERE clause,
// so a concurrent change makes this statement match zero rows instead of
// overwriting the other writer.
func (r *applicationRepository) UpdateStatus(ctx context.Context, id string, from, to model.ApplicationStatus) (model.Application, error) {
	if err := ensurePool(r.pool); err != nil {
		return model.Application{}, err
	}
	exec := getQ(ctx, r.pool)
	row := exec.QueryRow(ctx,
		`UPDATE applications SET status = $3, updated_at = now()
		 WHERE id = $1 AND status = $2
		 RETURNING `+applicationColumns,
		id, from, to,
	)
	var out model.Application
	if err := row.Scan(&out.ID, &out.CandidateID, &out.JobID, &out.Status, &out.Notes, &out.AppliedAt, &out.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Application{}, repository.ErrNotFound
		}
		return model.Application{}, repository.MapPgError(err)
	}
	return out, nil
}

var _ repository.ApplicationRepository = (*applicationRepository)(nil)
