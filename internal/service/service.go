// Package service holds business logic orchestration across repositories and handlers.
// Kept intentionally lean: only use-case coordination, validation and domain error shaping.
package service

import (
	"context"
	"errors"

	"github.com/openhire/applicant-tracking-service/internal/model"
	"github.com/openhire/applicant-tracking-service/internal/pagination"
)

// ErrInvalidInput is the marker error for aggregated validation failures (maps to HTTP 400).
// Field-level details are retrieved via FieldErrors(err).
var ErrInvalidInput = errors.New("invalid input")

// ErrInvalidTransition marks a pipeline move the status machine forbids,
// e.g. applied straight to hired (maps to HTTP 409).
var ErrInvalidTransition = errors.New("invalid status transition")

// FieldError describes a single invalid field in a client request.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// invalidInputError aggregates multiple FieldError instances and unwraps to ErrInvalidInput.
type invalidInputError struct {
	fields []FieldError
}

func (e *invalidInputError) Error() string        { return ErrInvalidInput.Error() }
func (e *invalidInputError) Unwrap() error        { return ErrInvalidInput }
func (e *invalidInputError) Fields() []FieldError { return e.fields }

// newInvalidInput builds an aggregated validation error if any field errors are present.
func newInvalidInput(fe []FieldError) error {
	if len(fe) == 0 { // protective case
		return nil
	}
	return &invalidInputError{fields: fe}
}

// FieldErrors extracts field errors from an aggregated validation error.
func FieldErrors(err error) []FieldError {
	if err == nil {
		return nil
	}
	type feIface interface{ Fields() []FieldError }
	if v, ok := err.(feIface); ok && errors.Is(err, ErrInvalidInput) {
		return v.Fields()
	}
	return nil
}

// CandidateService defines candidate-oriented use cases.
type CandidateService interface {
	CreateCandidate(ctx context.Context, fullName, email, phone, resumeURL string) (model.Candidate, error)
	GetCandidate(ctx context.Context, id int64) (model.Candidate, error)
	ListCandidates(ctx context.Context, req pagination.PageRequest) (pagination.PageResult[model.Candidate], error)
	ListCandidateApplications(ctx context.Context, candidateID int64, req pagination.PageRequest) (pagination.PageResult[model.Application], error)
}

// JobService defines job-posting use cases.
type JobService interface {
	CreateJob(ctx context.Context, title, department, location, description string) (model.JobPosting, error)
	GetJob(ctx context.Context, id int64) (model.JobPosting, error)
	ListJobs(ctx context.Context, req pagination.PageRequest) (pagination.PageResult[model.JobPosting], error)
	CloseJob(ctx context.Context, id int64) (model.JobPosting, error)
}

// ApplicationService defines pipeline use cases.
type ApplicationService interface {
	Apply(ctx context.Context, candidateID, jobID int64, notes string) (model.Application, error)
	GetApplication(ctx context.Context, id string) (model.Application, error)
	ListApplications(ctx context.Context, req pagination.CursorRequest) (pagination.CursorResult[model.Application], error)
	ChangeStatus(ctx context.Context, id string, status model.ApplicationStatus) (model.Application, error)
}

// EmailService defines outbox use cases. DeliverPending is the single entry
// point the background worker calls.
type EmailService interface {
	Enqueue(ctx context.Context, candidateID int64, applicationID, template string) (model.EmailMessage, error)
	GetEmail(ctx context.Context, id int64) (model.EmailMessage, error)
	ListEmails(ctx context.Context, candidateID int64, req pagination.PageRequest) (pagination.PageResult[model.EmailMessage], error)
	DeliverPending(ctx context.Context, batchSize int) (int, error)
}
