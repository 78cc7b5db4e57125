package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/openhire/applicant-tracking-service/internal/model"
	"github.com/openhire/applicant-tracking-service/internal/pagination"
	"github.com/openhire/applicant-tracking-service/internal/repository"
)

const jobColumns = "id, title, department, location, description, status, created_at, updated_at"

var jobSearchColumns = []string{"title", "department"}

type jobRepository struct {
	pool *pgxpool.Pool
	src  tableSource[model.JobPosting]
}

func NewJobRepository(pool *pgxpool.Pool) repository.JobRepository {
	return &jobRepository{
		pool: pool,
		src: tableSource[model.JobPosting]{
			pool:    pool,
			table:   "job_postings",
			columns: jobColumns,
			scan:    scanJob,
		},
	}
}

func scanJob(rows pgx.Rows) (model.JobPosting, error) {
	var j model.JobPosting
	err := rows.Scan(&j.ID, &j.Title, &j.Department, &j.Location, &j.Description, &j.Status, &j.CreatedAt, &j.UpdatedAt)
	return j, err
}

func (r *jobRepository) Create(ctx context.Context, j model.JobPosting) (model.JobPosting, error) {
	if err := ensurePool(r.pool); err != nil {
		return model.JobPosting{}, err
	}
	exec := getQ(ctx, r.pool)
	row := exec.QueryRow(ctx,
		`INSERT INTO job_postings (title, department, location, description, status)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING `+jobColumns,
		j.Title, j.Department, j.Location, j.Description, j.Status,
	)
	var out model.JobPosting
	if err := row.Scan(&out.ID, &out.Title, &out.Department, &out.Location, &out.Description, &out.Status, &out.CreatedAt, &out.UpdatedAt); err != nil {
		return model.JobPosting{}, repository.MapPgError(err)
	}
	return out, nil
}

func (r *jobRepository) GetByID(ctx context.Context, id int64) (model.JobPosting, error) {
	if err := ensurePool(r.pool); err != nil {
		return model.JobPosting{}, err
	}
	exec := getQ(ctx, r.pool)
	row := exec.QueryRow(ctx, `SELECT `+jobColumns+` FROM job_postings WHERE id = $1`, id)
	var out model.JobPosting
	if err := row.Scan(&out.ID, &out.Title, &out.Department, &out.Location, &out.Description, &out.Status, &out.CreatedAt, &out.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.JobPosting{}, repository.ErrNotFound
		}
		return model.JobPosting{}, repository.MapPgError(err)
	}
	return out, nil
}

func (r *jobRepository) List(ctx context.Context, req pagination.PageRequest) (pagination.PageResult[model.JobPosting], error) {
	req.SearchFields = jobSearchColumns
	return pagination.Paginate(ctx, r.src, req)
}

// Close flips a posting to closed. Closing an already-closed posting is a
// no-op that still returns the row; a missing posting is ErrNotFound.
func (r *jobRepository) Close(ctx context.Context, id int64) (model.JobPosting, error) {
	if err := ensurePool(r.pool); err != nil {
		return model.JobPosting{}, err
	}
	exec := getQ(ctx, r.pool)
	row := exec.QueryRow(ctx,
		`UPDATE job_postings SET status = $2, updated_at = now()
		 WHERE id = $1
		 RETURNING `+jobColumns,
		id, model.JobClosed,
	)
	var out model.JobPosting
	if err := row.Scan(&out.ID, &out.Title, &out.Department, &out.Location, &out.Description, &out.Status, &out.CreatedAt, &out.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.JobPosting{}, repository.ErrNotFound
		}
		return model.JobPosting{}, repository.MapPgError(err)
	}
	return out, nil
}

func (r *jobRepository) Exists(ctx context.Context, id int64) (bool, error) {
	if err := ensurePool(r.pool); err != nil {
		return false, err
	}
	var exists bool
	exec := getQ(ctx, r.pool)
	err := exec.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM job_postings WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, repository.MapPgError(err)
	}
	return exists, nil
}

var _ repository.JobRepository = (*jobRepository)(nil)
