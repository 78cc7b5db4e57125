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

// application_id is nullable in the schema; COALESCE keeps the model free
// of pointer strings, and NULLIF on insert maps "" back to NULL.
const emailColumns = "id, candidate_id, COALESCE(application_id, ''), template, subject, body, status, attempts, COALESCE(last_error, ''), dedupe_key, created_at, sent_at"

type emailRepository struct {
	pool *pgxpool.Pool
	src  tableSource[model.EmailMessage]
}

func NewEmailRepository(pool *pgxpool.Pool) repository.EmailRepository {
	return &emailRepository{
		pool: pool,
		src: tableSource[model.EmailMessage]{
			pool:    pool,
			table:   "email_messages",
			columns: emailColumns,
			scan:    scanEmail,
		},
	}
}

func scanEmail(rows pgx.Rows) (model.EmailMessage, error) {
	var m model.EmailMessage
	err := rows.Scan(
		&m.ID, &m.CandidateID, &m.ApplicationID, &m.Template, &m.Subject, &m.Body,
		&m.Status, &m.Attempts, &m.LastError, &m.DedupeKey, &m.CreatedAt, &m.SentAt,
	)
	return m, err
}

func (r *emailRepository) Enqueue(ctx context.Context, m model.EmailMessage) (model.EmailMessage, error) {
	if err := ensurePool(r.pool); err != nil {
		return model.EmailMessage{}, err
	}
	exec := getQ(ctx, r.pool)
	row := exec.QueryRow(ctx,
		`INSERT INTO email_messages (candidate_id, application_id, template, subject, body, status, dedupe_key)
		 VALUES ($1, NULLIF($2, ''), $3, $4, $5, $6, $7)
		 RETURNING `+emailColumns,
		m.CandidateID, m.ApplicationID, m.Template, m.Subject, m.Body, model.EmailPending, m.DedupeKey,
	)
	out, err := scanEmailRow(row)
	if err != nil {
		return model.EmailMessage{}, repository.MapPgError(err)
	}
	return out, nil
}

func scanEmailRow(row pgx.Row) (model.EmailMessage, error) {
	var m model.EmailMessage
	err := row.Scan(
		&m.ID, &m.CandidateID, &m.ApplicationID, &m.Template, &m.Subject, &m.Body,
		&m.Status, &m.Attempts, &m.LastError, &m.DedupeKey, &m.CreatedAt, &m.SentAt,
	)
	return m, err
}

func (r *emailRepository) GetByID(ctx context.Context, id int64) (model.EmailMessage, error) {
	if err := ensurePool(r.pool); err != nil {
		return model.EmailMessage{}, err
	}
	exec := getQ(ctx, r.pool)
	row := exec.QueryRow(ctx, `SELECT `+emailColumns+` FROM email_messages WHERE id = $1`, id)
	out, err := scanEmailRow(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.EmailMessage{}, repository.ErrNotFound
		}
		return model.EmailMessage{}, repository.MapPgError(err)
	}
	return out, nil
}

func (r *emailRepository) List(ctx context.Context, candidateID int64, req pagination.PageRequest) (pagination.PageResult[model.EmailMessage], error) {
	src := r.src
	if candidateID > 0 {
		src.base = []pagination.Condition{{
			Expr: "candidate_id = @candidate_id",
			Args: map[string]any{"candidate_id": candidateID},
		}}
	}
	return pagination.Paginate(ctx, src, req)
}

// ClaimPending grabs up to limit pending messages and bumps their attempt
// counter in the same statement. SKIP LOCKED keeps concurrent workers from
// claiming the same rows.
func (r *emailRepository) ClaimPending(ctx context.Context, limit int) ([]model.EmailMessage, error) {
	if err := ensurePool(r.pool); err != nil {
		return nil, err
	}
	exec := getQ(ctx, r.pool)
	rows, err := exec.Query(ctx,
		`UPDATE email_messages SET attempts = attempts + 1
		 WHERE id IN (
		   SELECT id FROM email_messages
		   WHERE status = $1
		   ORDER BY id
		   LIMIT $2
		   FOR UPDATE SKIP LOCKED
		 )
		 RETURNING `+emailColumns,
		model.EmailPending, limit,
	)
	if err != nil {
		return nil, repository.MapPgError(err)
	}
	defer rows.Close()
	out := make([]model.EmailMessage, 0, limit)
	for rows.Next() {
		m, err := scanEmail(rows)
		if err != nil {
			return nil, repository.MapPgError(err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, repository.MapPgError(err)
	}
	return out, nil
}

func (r *emailRepository) MarkSent(ctx context.Context, id int64) error {
	if err := ensurePool(r.pool); err != nil {
		return err
	}
	exec := getQ(ctx, r.pool)
	tag, err := exec.Exec(ctx,
		`UPDATE email_messages SET status = $2, sent_at = now(), last_error = NULL WHERE id = $1`,
		id, model.EmailSent,
	)
	if err != nil {
		return repository.MapPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *emailRepository) MarkFailed(ctx context.Context, id int64, reason string) error {
	if err := ensurePool(r.pool); err != nil {
		return err
	}
	exec := getQ(ctx, r.pool)
	tag, err := exec.Exec(ctx,
		`UPDATE email_messages SET status = $2, last_error = $3 WHERE id = $1`,
		id, model.EmailFailed, reason,
	)
	if err != nil {
		return repository.MapPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.EmailRepository = (*emailRepository)(nil)
