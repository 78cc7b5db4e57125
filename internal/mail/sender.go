// Package mail abstracts outbound delivery. The service only ever talks to
// Sender; swapping in a real SMTP or API-backed sender is a wiring change.
package mail

import (
	"context"

	"github.com/openhire/applicant-tracking-service/internal/model"
	"github.com/rs/zerolog"
)

// Sender delivers one rendered message. Implementations should be safe for
// concurrent use; the outbox worker may fan out batches later.
type Sender interface {
	Send(ctx context.Context, msg model.EmailMessage) error
}

// LogSender writes messages to the log instead of delivering them. It is
// the default sender in every environment without real delivery configured.
type LogSender struct {
	log zerolog.Logger
}

func NewLogSender(logger zerolog.Logger) *LogSender {
	l := logger.With().Str("component", "mail").Logger()
	return &LogSender{log: l}
}

func (s *LogSender) Send(_ context.Context, msg model.EmailMessage) error {
	s.log.Info().
		Int64("email_id", msg.ID).
		Int64("candidate_id", msg.CandidateID).
		Str("template", msg.Template).
		Str("subject", msg.Subject).
		Msg("email delivered (log sender)")
	return nil
}

var _ Sender = (*LogSender)(nil)
