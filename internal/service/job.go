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

type jobService struct {
	repo repository.JobRepository
	log  zerolog.Logger
}

func NewJobService(repo repository.JobRepository, logger zerolog.Logger) JobService {
	l := logger.With().Str("module", "service").Str("component", "job").Logger()
	return &jobService{repo: repo, log: l}
}

func (s *jobService) CreateJob(ctx context.Context, title, department, location, description string) (model.JobPosting, error) {
	start := time.Now()
	title = strings.TrimSpace(title)
	department = strings.TrimSpace(department)

	var ferrs []FieldError
	if title == "" {
		ferrs = append(ferrs, FieldError{Field: "title", Message: "must not be empty"})
	} else if ln := len([]rune(title)); ln < 3 || ln > 150 {
		ferrs = append(ferrs, FieldError{Field: "title", Message: "length must be between 3 and 150"})
	}
	if department == "" {
		ferrs = append(ferrs, FieldError{Field: "department", Message: "must not be empty"})
	}
	if err := newInvalidInput(ferrs); err != nil {
		s.log.Debug().Str("title", title).Interface("field_errors", ferrs).Msg("job validation failed")
		return model.JobPosting{}, err
	}

	out, err := s.repo.Create(ctx, model.JobPosting{
		Title:       title,
		Department:  department,
		Location:    strings.TrimSpace(location),
		Description: description,
		Status:      model.JobOpen,
	})
	if err != nil {
		s.log.Error().Err(err).Str("title", title).Msg("create job failed")
		return model.JobPosting{}, err
	}
	s.log.Info().Dur("took", time.Since(start)).Int64("job_id", out.ID).Msg("job posting created")
	return out, nil
}

func (s *jobService) GetJob(ctx context.Context, id int64) (model.JobPosting, error) {
	if id <= 0 {
		return model.JobPosting{}, newInvalidInput([]FieldError{{Field: "id", Message: "must be > 0"}})
	}
	return s.repo.GetByID(ctx, id)
}

func (s *jobService) ListJobs(ctx context.Context, req pagination.PageRequest) (pagination.PageResult[model.JobPosting], error) {
	if ferrs := checkSortBy(jobSortFields, req); ferrs != nil {
		return pagination.PageResult[model.JobPosting]{}, newInvalidInput(ferrs)
	}
	res, err := s.repo.List(ctx, req)
	if err != nil {
		s.log.Error().Err(err).Int("page", req.Page).Int("limit", req.Limit).Msg("list jobs failed")
		return pagination.PageResult[model.JobPosting]{}, err
	}
	return res, nil
}

func (s *jobService) CloseJob(ctx context.Context, id int64) (model.JobPosting, error) {
	if id <= 0 {
		return model.JobPosting{}, newInvalidInput([]FieldError{{Field: "id", Message: "must be > 0"}})
	}
	out, err := s.repo.Close(ctx, id)
	if err != nil {
		s.log.Error().Err(err).Int64("job_id", id).Msg("close job failed")
		return model.JobPosting{}, err
	}
	s.log.Info().Int64("job_id", id).Msg("job posting closed")
	return out, nil
}
