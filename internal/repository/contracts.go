package repository

import (
	"context"

	"github.com/openhire/applicant-tracking-service/internal/model"
	"github.com/openhire/applicant-tracking-service/internal/pagination"
)

// Pinger represents a minimal readiness probe capability.
// I use it to decouple health checks from storage implementation details.
type Pinger interface {
	Ping(ctx context.Context) error
}

// TxFunc is the unit of work executed within a transaction boundary.
// I pass context through so nested calls can honor cancellations and deadlines.
type TxFunc func(ctx context.Context) error

// TxManager abstracts transactional execution for repositories that support it.
// I prefer a single entry point to keep transaction boundaries explicit and testable.
type TxManager interface {
	WithinTx(ctx context.Context, fn TxFunc) error
}

// CandidateRepository declares persistence operations for candidates.
// I return domain models and surface domain errors from errors.go rather than PG codes.
type CandidateRepository interface {
	Create(ctx context.Context, c model.Candidate) (model.Candidate, error)
	GetByID(ctx context.Context, id int64) (model.Candidate, error)
	// List pages candidates; Search in the request matches name and email.
	List(ctx context.Context, req pagination.PageRequest) (pagination.PageResult[model.Candidate], error)
	Exists(ctx context.Context, id int64) (bool, error)
}

// JobRepository declares persistence operations for job postings.
type JobRepository interface {
	Create(ctx context.Context, j model.JobPosting) (model.JobPosting, error)
	GetByID(ctx context.Context, id int64) (model.JobPosting, error)
	// List pages postings; Search matches title and department.
	List(ctx context.Context, req pagination.PageRequest) (pagination.PageResult[model.JobPosting], error)
	// Close marks a posting closed and returns the updated row.
	Close(ctx context.Context, id int64) (model.JobPosting, error)
	Exists(ctx context.Context, id int64) (bool, error)
}

// ApplicationRepository declares persistence operations for applications.
// The high-volume list is cursor-paged over the UUIDv7 primary key.
type ApplicationRepository interface {
	Create(ctx context.Context, a model.Application) (model.Application, error)
	GetByID(ctx context.Context, id string) (model.Application, error)
	List(ctx context.Context, req pagination.CursorRequest) (pagination.CursorResult[model.Application], error)
	ListByCandidate(ctx context.Context, candidateID int64, req pagination.PageRequest) (pagination.PageResult[model.Application], error)
	// UpdateStatus sets the status only when the row still holds from.
	// ErrNotFound covers both a missing row and a row that moved on.
	UpdateStatus(ctx context.Context, id string, from, to model.ApplicationStatus) (model.Application, error)
}

// EmailRepository declares outbox operations for queued messages.
type EmailRepository interface {
	Enqueue(ctx context.Context, m model.EmailMessage) (model.EmailMessage, error)
	GetByID(ctx context.Context, id int64) (model.EmailMessage, error)
	// List pages messages; candidateID of 0 means all candidates.
	List(ctx context.Context, candidateID int64, req pagination.PageRequest) (pagination.PageResult[model.EmailMessage], error)
	// ClaimPending atomically bumps attempts on up to limit pending messages
	// and returns them. Rows left pending (a crash mid-delivery) surface
	// again on the next claim until MarkSent or MarkFailed settles them.
	ClaimPending(ctx context.Context, limit int) ([]model.EmailMessage, error)
	MarkSent(ctx context.Context, id int64) error
	MarkFailed(ctx context.Context, id int64, reason string) error
}
