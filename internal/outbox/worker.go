// Package outbox runs the background delivery loop over queued emails.
package outbox

import (
	"context"
	"time"

	"github.com/openhire/applicant-tracking-service/internal/service"
	"github.com/rs/zerolog"
)

// Worker polls the outbox and drains pending messages through the email
// service. It owns no delivery logic itself; each tick is one call to
// EmailService.DeliverPending.
type Worker struct {
	emails    service.EmailService
	pollEvery time.Duration
	batchSize int
	log       zerolog.Logger
}

func NewWorker(emails service.EmailService, pollEvery time.Duration, batchSize int, logger zerolog.Logger) *Worker {
	if pollEvery <= 0 {
		pollEvery = 5 * time.Second
	}
	if batchSize <= 0 {
		batchSize = 50
	}
	l := logger.With().Str("module", "outbox").Logger()
	return &Worker{emails: emails, pollEvery: pollEvery, batchSize: batchSize, log: l}
}

// Run processes the outbox until the context is canceled.
func (w *Worker) Run(ctx context.Context) {
	w.log.Info().Dur("poll_every", w.pollEvery).Int("batch_size", w.batchSize).Msg("outbox worker started")

	t := time.NewTicker(w.pollEvery)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("outbox worker stopping")
			return
		case <-t.C:
			w.tick(ctx)
		}
	}
}

func (w *Worker) tick(ctx context.Context) {
	start := time.Now()
	sent, err := w.emails.DeliverPending(ctx, w.batchSize)
	if err != nil {
		w.log.Error().Err(err).Msg("outbox tick failed")
		return
	}
	if sent > 0 {
		w.log.Info().Int("sent", sent).Dur("took", time.Since(start)).Msg("outbox batch delivered")
	}
}
