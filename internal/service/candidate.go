package service

import (
	"context"
	"strings"
	"time"

	"github.com/openhire/applicant-tracking-service/internal/model"
	"github.com/openhire/applicant-tracking-service/internal/pagination"
	"github.com/openhire/applicant-tracking-service/internal/repository"
	"github.com/rs/zerolog"
)

// candidateService holds candidate use-case logic: validation + orchestration, no transport / SQL details.
type candidateService struct {
	repo repository.CandidateRepository
	apps repository.ApplicationRepository
	log  zerolog.Logger
}

func NewCandidateService(repo repository.CandidateRepository, apps repository.ApplicationRepository, logger zerolog.Logger) CandidateService {
	l := logger.With().Str("module", "service").Str("component", "candidate").Logger()
	return &candidateService{repo: repo, apps: apps, log: l}
}

func (s *candidateService) CreateCandidate(ctx context.Context, fullName, email, phone, resumeURL string) (model.Candidate, error) {
	start := time.Now()
	fullName = strings.TrimSpace(fullName)
	email = strings.TrimSpace(email)

	var ferrs []FieldError
	if fullName == "" {
		ferrs = append(ferrs, FieldError{Field: "full_name", Message: "must not be empty"})
	} else if ln := len([]rune(fullName)); ln < 2 || ln > 100 {
		ferrs = append(ferrs, FieldError{Field: "full_name", Message: "length must be between 2 and 100"})
	}
	if email == "" {
		ferrs = append(ferrs, FieldError{Field: "email", Message: "must not be empty"})
	} else if !isValidEmail(email) {
		ferrs = append(ferrs, FieldError{Field: "email", Message: "must be a valid email address"})
	}
	if err := newInvalidInput(ferrs); err != nil {
		s.log.Debug().Str("email", email).Interface("field_errors", ferrs).Msg("candidate validation failed")
		return model.Candidate{}, err
	}

	out, err := s.repo.Create(ctx, model.Candidate{
		FullName:  fullName,
		Email:     email,
		Phone:     strings.TrimSpace(phone),
		ResumeURL: strings.TrimSpace(resumeURL),
	})
	if err != nil {
		// Repository surfaces domain-level errors already, do not wrap.
		s.log.Error().Err(err).Str("email", email).Msg("create candidate failed")
		return model.Candidate{}, err
	}
	s.log.Info().Dur("took", time.Since(start)).Int64("candidate_id", out.ID).Msg("candidate created")
	return out, nil
}

func (s *candidateService) GetCandidate(ctx context.Context, id int64) (model.Candidate, error) {
	if id <= 0 {
		return model.Candidate{}, newInvalidInput([]FieldError{{Field: "id", Message: "must be > 0"}})
	}
	return s.repo.GetByID(ctx, id)
}

func (s *candidateService) ListCandidates(ctx context.Context, req pagination.PageRequest) (pagination.PageResult[model.Candidate], error) {
	if ferrs := checkSortBy(candidateSortFields, req); ferrs != nil {
		return pagination.PageResult[model.Candidate]{}, newInvalidInput(ferrs)
	}
	res, err := s.repo.List(ctx, req)
	if err != nil {
		s.log.Error().Err(err).Int("page", req.Page).Int("limit", req.Limit).Msg("list candidates failed")
		return pagination.PageResult[model.Candidate]{}, err
	}
	return res, nil
}

func (s *candidateService) ListCandidateApplications(ctx context.Context, candidateID int64, req pagination.PageRequest) (pagination.PageResult[model.Application], error) {
	var ferrs []FieldError
	if candidateID <= 0 {
		ferrs = append(ferrs, FieldError{Field: "candidate_id", Message: "must be > 0"})
	}
	ferrs = append(ferrs, checkSortBy(applicationSortFields, req)...)
	if err := newInvalidInput(ferrs); err != nil {
		return pagination.PageResult[model.Application]{}, err
	}

	ok, err := s.repo.Exists(ctx, candidateID)
	if err != nil {
		return pagination.PageResult[model.Application]{}, err
	}
	if !ok {
		return pagination.PageResult[model.Application]{}, repository.ErrNotFound
	}
	return s.apps.ListByCandidate(ctx, candidateID, req)
}
