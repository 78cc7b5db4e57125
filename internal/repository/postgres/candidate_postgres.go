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

const candidateColumns = "id, full_name, email, phone, resume_url, created_at, updated_at"

// candidateSearchColumns are the columns a free-text search matches against.
var candidateSearchColumns = []string{"full_name", "email"}

type candidateRepository struct {
	pool *pgxpool.Pool
	src  tableSource[model.Candidate]
}

func NewCandidateRepository(pool *pgxpool.Pool) repository.CandidateRepository {
	return &candidateRepository{
		pool: pool,
		src: tableSource[model.Candidate]{
			pool:    pool,
			table:   "candidates",
			columns: candidateColumns,
			scan:    scanCandidate,
		},
	}
}

func scanCandidate(rows pgx.Rows) (model.Candidate, error) {
	var c model.Candidate
	err := rows.Scan(&c.ID, &c.FullName, &c.Email, &c.Phone, &c.ResumeURL, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func (r *candidateRepository) Create(ctx context.Context, c model.Candidate) (model.Candidate, error) {
	if err := ensurePool(r.pool); err != nil {
		return model.Candidate{}, err
	}
	exec := getQ(ctx, r.pool)
	row := exec.QueryRow(ctx,
		`INSERT INTO candidates (full_name, email, phone, resume_url)
		 VALUES ($1, $2, $3, $4)
		 RETURNING `+candidateColumns,
		c.FullName, c.Email, c.Phone, c.ResumeURL,
	)
	var out model.Candidate
	if err := row.Scan(&out.ID, &out.FullName, &out.Email, &out.Phone, &out.ResumeURL, &out.CreatedAt, &out.UpdatedAt); err != nil {
		return model.Candidate{}, repository.MapPgError(err)
	}
	return out, nil
}

func (r *candidateRepository) GetByID(ctx context.Context, id int64) (model.Candidate, error) {
	if err := ensurePool(r.pool); err != nil {
		return model.Candidate{}, err
	}
	exec := getQ(ctx, r.pool)
	row := exec.QueryRow(ctx,
		`SELECT `+candidateColumns+` FROM candidates WHERE id = $1`, id,
	)
	var out model.Candidate
	if err := row.Scan(&out.ID, &out.FullName, &out.Email, &out.Phone, &out.ResumeURL, &out.CreatedAt, &out.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Candidate{}, repository.ErrNotFound
		}
		return model.Candidate{}, repository.MapPgError(err)
	}
	return out, nil
}

// List pages candidates through the pagination engine; the search columns
// are fixed here so client input never names raw columns.
func (r *candidateRepository) List(ctx context.Context, req pagination.PageRequest) (pagination.PageResult[model.Candidate], error) {
	req.SearchFields = candidateSearchColumns
	return pagination.Paginate(ctx, r.src, req)
}

// Exists performs a lightweight check to see if a candidate with the given ID exists.
func (r *candidateRepository) Exists(ctx context.Context, id int64) (bool, error) {
	if err := ensurePool(r.pool); err != nil {
		return false, err
	}
	var exists bool
	exec := getQ(ctx, r.pool)
	err := exec.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM candidates WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, repository.MapPgError(err)
	}
	return exists, nil
}

var _ repository.CandidateRepository = (*candidateRepository)(nil)
