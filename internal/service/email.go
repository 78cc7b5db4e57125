package service

import (
	"context"
	"fmt"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/openhire/applicant-tracking-service/internal/mail"
	"github.com/openhire/applicant-tracking-service/internal/model"
	"github.com/openhire/applicant-tracking-service/internal/pagination"
	"github.com/openhire/applicant-tracking-service/internal/repository"
	"github.com/rs/zerolog"
)

// Outbox template names.
const (
	TemplateApplicationReceived = "application_received"
	TemplateOfferExtended       = "offer_extended"
	TemplateHired               = "hired"
	TemplateRejected            = "rejected"
)

type emailTemplate struct {
	subject string
	body    string // one %s verb: the candidate's full name
}

var emailTemplates = map[string]emailTemplate{
	TemplateApplicationReceived: {
		subject: "We received your application",
		body:    "Hi %s,\n\nThanks for applying. Our team will review your application and get back to you.\n",
	},
	TemplateOfferExtended: {
		subject: "Your offer is ready",
		body:    "Hi %s,\n\nGood news: we would like to extend you an offer. Details follow separately.\n",
	},
	TemplateHired: {
		subject: "Welcome aboard",
		body:    "Hi %s,\n\nWelcome to the team! Your start details are on the way.\n",
	},
	TemplateRejected: {
		subject: "Update on your application",
		body:    "Hi %s,\n\nThank you for your time. We have decided not to move forward with your application.\n",
	},
}

// maxDeliveryAttempts counts claims, not in-process retries; once a message
// has been claimed this many times and still fails, it is marked failed.
const maxDeliveryAttempts = 5

type emailService struct {
	repo       repository.EmailRepository
	candidates repository.CandidateRepository
	sender     mail.Sender
	log        zerolog.Logger
}

func NewEmailService(repo repository.EmailRepository, candidates repository.CandidateRepository, sender mail.Sender, logger zerolog.Logger) EmailService {
	l := logger.With().Str("module", "service").Str("component", "email").Logger()
	return &emailService{repo: repo, candidates: candidates, sender: sender, log: l}
}

// Enqueue renders a template for the candidate and stores the message as a
// pending outbox row. The dedupe key makes accidental double enqueue a
// unique violation instead of a duplicate email.
func (s *emailService) Enqueue(ctx context.Context, candidateID int64, applicationID, template string) (model.EmailMessage, error) {
	var ferrs []FieldError
	if candidateID <= 0 {
		ferrs = append(ferrs, FieldError{Field: "candidate_id", Message: "must be > 0"})
	}
	tmpl, ok := emailTemplates[template]
	if !ok {
		ferrs = append(ferrs, FieldError{Field: "template", Message: "unknown template"})
	}
	if err := newInvalidInput(ferrs); err != nil {
		return model.EmailMessage{}, err
	}

	cand, err := s.candidates.GetByID(ctx, candidateID)
	if err != nil {
		if err == repository.ErrNotFound {
			return model.EmailMessage{}, newInvalidInput([]FieldError{{Field: "candidate_id", Message: "unknown candidate"}})
		}
		return model.EmailMessage{}, err
	}

	out, err := s.repo.Enqueue(ctx, model.EmailMessage{
		CandidateID:   candidateID,
		ApplicationID: applicationID,
		Template:      template,
		Subject:       tmpl.subject,
		Body:          fmt.Sprintf(tmpl.body, cand.FullName),
		DedupeKey:     uuid.NewString(),
	})
	if err != nil {
		s.log.Error().Err(err).Int64("candidate_id", candidateID).Str("template", template).Msg("enqueue email failed")
		return model.EmailMessage{}, err
	}
	s.log.Info().Int64("email_id", out.ID).Int64("candidate_id", candidateID).Str("template", template).Msg("email queued")
	return out, nil
}

func (s *emailService) GetEmail(ctx context.Context, id int64) (model.EmailMessage, error) {
	if id <= 0 {
		return model.EmailMessage{}, newInvalidInput([]FieldError{{Field: "id", Message: "must be > 0"}})
	}
	return s.repo.GetByID(ctx, id)
}

func (s *emailService) ListEmails(ctx context.Context, candidateID int64, req pagination.PageRequest) (pagination.PageResult[model.EmailMessage], error) {
	if candidateID < 0 {
		return pagination.PageResult[model.EmailMessage]{}, newInvalidInput([]FieldError{{Field: "candidate_id", Message: "must be >= 0"}})
	}
	if ferrs := checkSortBy(emailSortFields, req); ferrs != nil {
		return pagination.PageResult[model.EmailMessage]{}, newInvalidInput(ferrs)
	}
	return s.repo.List(ctx, candidateID, req)
}

// DeliverPending claims a batch of pending messages and hands each to the
// sender, retrying transient failures with exponential backoff before
// settling the row. Returns how many messages went out.
func (s *emailService) DeliverPending(ctx context.Context, batchSize int) (int, error) {
	if batchSize <= 0 {
		batchSize = 50
	}
	batch, err := s.repo.ClaimPending(ctx, batchSize)
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, msg := range batch {
		if err := s.deliver(ctx, msg); err != nil {
			s.log.Error().Err(err).Int64("email_id", msg.ID).Int("attempts", msg.Attempts).Msg("delivery failed")
			if msg.Attempts >= maxDeliveryAttempts {
				if mErr := s.repo.MarkFailed(ctx, msg.ID, err.Error()); mErr != nil {
					s.log.Error().Err(mErr).Int64("email_id", msg.ID).Msg("mark failed errored")
				}
			}
			// Otherwise leave the row pending; the next claim retries it.
			continue
		}
		if err := s.repo.MarkSent(ctx, msg.ID); err != nil {
			s.log.Error().Err(err).Int64("email_id", msg.ID).Msg("mark sent errored")
			continue
		}
		sent++
	}
	return sent, nil
}

func (s *emailService) deliver(ctx context.Context, msg model.EmailMessage) error {
	op := func() error {
		return s.sender.Send(ctx, msg)
	}
	bo := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 2), ctx)
	return backoff.Retry(op, bo)
}
