package service

import (
	"context"
	"errors"
	"time"

	"github.com/openhire/applicant-tracking-service/internal/model"
	"github.com/openhire/applicant-tracking-service/internal/pagination"
	"github.com/openhire/applicant-tracking-service/internal/repository"
	"github.com/rs/zerolog"
)

type applicationService struct {
	repo       repository.ApplicationRepository
	candidates repository.CandidateRepository
	jobs       repository.JobRepository
	emails     EmailService
	tx         repository.TxManager
	log        zerolog.Logger
}

func NewApplicationService(
	repo repository.ApplicationRepository,
	candidates repository.CandidateRepository,
	jobs repository.JobRepository,
	emails EmailService,
	tx repository.TxManager,
	logger zerolog.Logger,
) ApplicationService {
	l := logger.With().Str("module", "service").Str("component", "application").Logger()
	return &applicationService{repo: repo, candidates: candidates, jobs: jobs, emails: emails, tx: tx, log: l}
}

// Apply creates an application and queues the confirmation email in one
// transaction, so a failed enqueue never leaves an application without its
// outbox row.
func (s *applicationService) Apply(ctx context.Context, candidateID, jobID int64, notes string) (model.Application, error) {
	start := time.Now()

	var ferrs []FieldError
	if candidateID <= 0 {
		ferrs = append(ferrs, FieldError{Field: "candidate_id", Message: "must be > 0"})
	}
	if jobID <= 0 {
		ferrs = append(ferrs, FieldError{Field: "job_id", Message: "must be > 0"})
	}
	if err := newInvalidInput(ferrs); err != nil {
		return model.Application{}, err
	}

	if ok, err := s.candidates.Exists(ctx, candidateID); err != nil {
		return model.Application{}, err
	} else if !ok {
		return model.Application{}, newInvalidInput([]FieldError{{Field: "candidate_id", Message: "unknown candidate"}})
	}
	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		if err == repository.ErrNotFound {
			return model.Application{}, newInvalidInput([]FieldError{{Field: "job_id", Message: "unknown job posting"}})
		}
		return model.Application{}, err
	}
	if job.Status != model.JobOpen {
		return model.Application{}, newInvalidInput([]FieldError{{Field: "job_id", Message: "job posting is closed"}})
	}

	var out model.Application
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var txErr error
		out, txErr = s.repo.Create(ctx, model.Application{
			CandidateID: candidateID,
			JobID:       jobID,
			Status:      model.ApplicationApplied,
			Notes:       notes,
		})
		if txErr != nil {
			return txErr
		}
		_, txErr = s.emails.Enqueue(ctx, candidateID, out.ID, TemplateApplicationReceived)
		return txErr
	})
	if err != nil {
		s.log.Error().Err(err).Int64("candidate_id", candidateID).Int64("job_id", jobID).Msg("apply failed")
		return model.Application{}, err
	}
	s.log.Info().
		Dur("took", time.Since(start)).
		Str("application_id", out.ID).
		Int64("candidate_id", candidateID).
		Int64("job_id", jobID).
		Msg("application created")
	return out, nil
}

func (s *applicationService) GetApplication(ctx context.Context, id string) (model.Application, error) {
	if id == "" {
		return model.Application{}, newInvalidInput([]FieldError{{Field: "id", Message: "must not be empty"}})
	}
	return s.repo.GetByID(ctx, id)
}

func (s *applicationService) ListApplications(ctx context.Context, req pagination.CursorRequest) (pagination.CursorResult[model.Application], error) {
	if req.SortBy != "" && !applicationSortFields[req.SortBy] {
		return pagination.CursorResult[model.Application]{}, newInvalidInput([]FieldError{{Field: "sort_by", Message: "unsupported sort field"}})
	}
	res, err := s.repo.List(ctx, req)
	if err != nil {
		s.log.Error().Err(err).Str("cursor", req.Cursor).Int("limit", req.Limit).Msg("list applications failed")
		return pagination.CursorResult[model.Application]{}, err
	}
	return res, nil
}

// ChangeStatus moves an application along the pipeline. Stage notifications
// go through the outbox in the same transaction as the status row.
func (s *applicationService) ChangeStatus(ctx context.Context, id string, status model.ApplicationStatus) (model.Application, error) {
	var ferrs []FieldError
	if id == "" {
		ferrs = append(ferrs, FieldError{Field: "id", Message: "must not be empty"})
	}
	if !isValidApplicationStatus(status) {
		ferrs = append(ferrs, FieldError{Field: "status", Message: "unknown status"})
	}
	if err := newInvalidInput(ferrs); err != nil {
		return model.Application{}, err
	}

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return model.Application{}, err
	}
	if !canTransition(current.Status, status) {
		s.log.Debug().
			Str("application_id", id).
			Str("from", string(current.Status)).
			Str("to", string(status)).
			Msg("transition rejected")
		return model.Application{}, ErrInvalidTransition
	}

	var out model.Application
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var txErr error
		// The repo re-checks the status inside the statement; if another
		// writer moved the row since our read, we lose instead of
		// overwriting their result.
		out, txErr = s.repo.UpdateStatus(ctx, id, current.Status, status)
		if errors.Is(txErr, repository.ErrNotFound) {
			return ErrInvalidTransition
		}
		if txErr != nil {
			return txErr
		}
		if tmpl, ok := statusTemplates[status]; ok {
			_, txErr = s.emails.Enqueue(ctx, out.CandidateID, out.ID, tmpl)
		}
		return txErr
	})
	if errors.Is(err, ErrInvalidTransition) {
		s.log.Debug().
			Str("application_id", id).
			Str("from", string(current.Status)).
			Str("to", string(status)).
			Msg("status moved concurrently, transition rejected")
		return model.Application{}, ErrInvalidTransition
	}
	if err != nil {
		s.log.Error().Err(err).Str("application_id", id).Str("to", string(status)).Msg("status change failed")
		return model.Application{}, err
	}
	s.log.Info().
		Str("application_id", id).
		Str("from", string(current.Status)).
		Str("to", string(status)).
		Msg("application status changed")
	return out, nil
}

// statusTemplates names the outbox template queued for stages candidates
// hear about. Internal moves (screening, interview) send nothing.
var statusTemplates = map[model.ApplicationStatus]string{
	model.ApplicationOffer:    TemplateOfferExtended,
	model.ApplicationHired:    TemplateHired,
	model.ApplicationRejected: TemplateRejected,
}
