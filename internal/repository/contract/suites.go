package contract

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/openhire/applicant-tracking-service/internal/model"
	"github.com/openhire/applicant-tracking-service/internal/pagination"
	"github.com/openhire/applicant-tracking-service/internal/repository"
)

// Candidate contracts

type CandidateFactory func(t *testing.T) (repository.CandidateRepository, func())

type JobFactory func(t *testing.T) (repository.JobRepository, func())

type ApplicationFactory func(t *testing.T) (repo repository.ApplicationRepository, seed func(ctx context.Context) (candidateID, jobID int64, err error), cleanup func())

type EmailFactory func(t *testing.T) (repo repository.EmailRepository, mkCandidate func(ctx context.Context) (int64, error), cleanup func())

type TxFactory func(t *testing.T) (tx repository.TxManager, candidates repository.CandidateRepository, cleanup func())

type PingerFactory func(t *testing.T) (repository.Pinger, func())

func RunCandidateRepositoryContract(t *testing.T, makeRepo CandidateFactory) {
	t.Helper()

	t.Run("create_and_get", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		created, err := repo.Create(ctx, model.Candidate{FullName: "Ada Lovelace", Email: "ada@example.com"})
		if err != nil {
			t.Fatalf("create failed: %v", err)
		}
		got, err := repo.GetByID(ctx, created.ID)
		if err != nil {
			t.Fatalf("get failed: %v", err)
		}
		if got.ID != created.ID || got.Email != created.Email {
			t.Fatalf("mismatch: %+v", got)
		}
	})

	t.Run("get_not_found", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		_, err := repo.GetByID(context.Background(), 999999)
		if err == nil || err != repository.ErrNotFound {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("list_pagination_total", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		for i := 0; i < 7; i++ {
			c := model.Candidate{FullName: "C-" + string(rune('A'+i)), Email: fmt.Sprintf("c%d@example.com", i)}
			if _, err := repo.Create(ctx, c); err != nil {
				t.Fatalf("seed: %v", err)
			}
		}
		res, err := repo.List(ctx, pagination.PageRequest{Page: 1, Limit: 3})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(res.Data) != 3 || res.Meta.Total != 7 {
			t.Fatalf("unexpected page: len=%d total=%d", len(res.Data), res.Meta.Total)
		}
		if res.Meta.TotalPages != 3 || !res.Meta.HasNextPage {
			t.Fatalf("unexpected meta: %+v", res.Meta)
		}
		res3, err := repo.List(ctx, pagination.PageRequest{Page: 3, Limit: 3})
		if err != nil {
			t.Fatalf("list page 3: %v", err)
		}
		if len(res3.Data) != 1 || res3.Meta.HasNextPage || !res3.Meta.HasPreviousPage {
			t.Fatalf("unexpected last page: len=%d meta=%+v", len(res3.Data), res3.Meta)
		}
	})

	t.Run("list_search_matches_name_and_email", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		if _, err := repo.Create(ctx, model.Candidate{FullName: "Grace Hopper", Email: "grace@navy.mil"}); err != nil {
			t.Fatalf("seed: %v", err)
		}
		if _, err := repo.Create(ctx, model.Candidate{FullName: "Alan Turing", Email: "alan@bletchley.uk"}); err != nil {
			t.Fatalf("seed: %v", err)
		}
		res, err := repo.List(ctx, pagination.PageRequest{Search: "grace"})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if res.Meta.Total != 1 || len(res.Data) != 1 || res.Data[0].FullName != "Grace Hopper" {
			t.Fatalf("unexpected search result: %+v", res)
		}
	})

	t.Run("create_duplicate_email_conflict", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		_, err := repo.Create(ctx, model.Candidate{FullName: "Dup One", Email: "dup@example.com"})
		if err != nil {
			t.Fatalf("seed: %v", err)
		}
		_, err = repo.Create(ctx, model.Candidate{FullName: "Dup Two", Email: "dup@example.com"})
		if err == nil || err != repository.ErrAlreadyExists {
			t.Fatalf("expected ErrAlreadyExists, got %v", err)
		}
	})
}

func RunJobRepositoryContract(t *testing.T, makeRepo JobFactory) {
	t.Helper()

	t.Run("create_get_list", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		created, err := repo.Create(ctx, model.JobPosting{Title: "Backend Engineer", Department: "Engineering", Status: model.JobOpen})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		got, err := repo.GetByID(ctx, created.ID)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if got.ID != created.ID || got.Status != model.JobOpen {
			t.Fatalf("mismatch: %+v", got)
		}
		page, err := repo.List(ctx, pagination.PageRequest{})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(page.Data) < 1 || page.Meta.Total < 1 {
			t.Fatalf("unexpected list: %+v", page.Meta)
		}
	})

	t.Run("close_posting", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		created, err := repo.Create(ctx, model.JobPosting{Title: "SRE", Department: "Platform", Status: model.JobOpen})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		closed, err := repo.Close(ctx, created.ID)
		if err != nil {
			t.Fatalf("close: %v", err)
		}
		if closed.Status != model.JobClosed {
			t.Fatalf("expected closed, got %s", closed.Status)
		}
	})

	t.Run("close_not_found", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		_, err := repo.Close(context.Background(), 424242)
		if err == nil || err != repository.ErrNotFound {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func RunApplicationRepositoryContract(t *testing.T, makeRepo ApplicationFactory) {
	t.Helper()

	t.Run("create_and_get", func(t *testing.T) {
		repo, seed, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		cid, jid, err := seed(ctx)
		if err != nil {
			t.Fatalf("seed: %v", err)
		}
		created, err := repo.Create(ctx, model.Application{CandidateID: cid, JobID: jid, Status: model.ApplicationApplied})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if created.ID == "" {
			t.Fatalf("expected generated id")
		}
		got, err := repo.GetByID(ctx, created.ID)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if got.ID != created.ID || got.CandidateID != cid || got.JobID != jid {
			t.Fatalf("mismatch: %+v", got)
		}
	})

	t.Run("duplicate_application_conflict", func(t *testing.T) {
		repo, seed, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		cid, jid, err := seed(ctx)
		if err != nil {
			t.Fatalf("seed: %v", err)
		}
		if _, err := repo.Create(ctx, model.Application{CandidateID: cid, JobID: jid, Status: model.ApplicationApplied}); err != nil {
			t.Fatalf("first create: %v", err)
		}
		_, err = repo.Create(ctx, model.Application{CandidateID: cid, JobID: jid, Status: model.ApplicationApplied})
		if err == nil || err != repository.ErrAlreadyExists {
			t.Fatalf("expected ErrAlreadyExists, got %v", err)
		}
	})

	t.Run("cursor_list_walks_all_rows", func(t *testing.T) {
		repo, seed, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		cid, jid, err := seed(ctx)
		if err != nil {
			t.Fatalf("seed: %v", err)
		}
		// One application per (candidate,job) pair, so additional rows
		// need fresh pairs; reseeding gives us those.
		ids := make(map[string]bool)
		for i := 0; i < 5; i++ {
			a, err := repo.Create(ctx, model.Application{CandidateID: cid, JobID: jid, Status: model.ApplicationApplied})
			if err != nil {
				t.Fatalf("seed app %d: %v", i, err)
			}
			ids[a.ID] = true
			cid, jid, err = seed(ctx)
			if err != nil {
				t.Fatalf("reseed: %v", err)
			}
		}
		seen := 0
		cursor := ""
		for {
			res, err := repo.List(ctx, pagination.CursorRequest{Cursor: cursor, Limit: 2})
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			if len(res.Data) > 2 {
				t.Fatalf("page larger than limit: %d", len(res.Data))
			}
			for _, a := range res.Data {
				if !ids[a.ID] {
					t.Fatalf("unexpected row %s", a.ID)
				}
				seen++
			}
			if !res.Meta.HasNextPage {
				if res.Meta.NextCursor != "" {
					t.Fatalf("next cursor on final page: %q", res.Meta.NextCursor)
				}
				break
			}
			cursor = res.Meta.NextCursor
		}
		if seen != 5 {
			t.Fatalf("expected 5 rows across pages, saw %d", seen)
		}
	})

	t.Run("cursor_list_by_applied_at", func(t *testing.T) {
		repo, seed, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		ids := make(map[string]bool)
		for i := 0; i < 5; i++ {
			cid, jid, err := seed(ctx)
			if err != nil {
				t.Fatalf("seed %d: %v", i, err)
			}
			a, err := repo.Create(ctx, model.Application{CandidateID: cid, JobID: jid, Status: model.ApplicationApplied})
			if err != nil {
				t.Fatalf("seed app %d: %v", i, err)
			}
			ids[a.ID] = true
		}
		seen := 0
		cursor := ""
		var last time.Time
		for {
			res, err := repo.List(ctx, pagination.CursorRequest{Cursor: cursor, Limit: 2, SortBy: "applied_at"})
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			for _, a := range res.Data {
				if !ids[a.ID] {
					t.Fatalf("unexpected row %s", a.ID)
				}
				if a.AppliedAt.Before(last) {
					t.Fatalf("out of order: %s before %s", a.AppliedAt, last)
				}
				last = a.AppliedAt
				seen++
			}
			if !res.Meta.HasNextPage {
				break
			}
			cursor = res.Meta.NextCursor
		}
		if seen != 5 {
			t.Fatalf("expected 5 rows across pages, saw %d", seen)
		}
	})

	t.Run("update_status", func(t *testing.T) {
		repo, seed, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		cid, jid, err := seed(ctx)
		if err != nil {
			t.Fatalf("seed: %v", err)
		}
		created, err := repo.Create(ctx, model.Application{CandidateID: cid, JobID: jid, Status: model.ApplicationApplied})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		updated, err := repo.UpdateStatus(ctx, created.ID, model.ApplicationApplied, model.ApplicationScreening)
		if err != nil {
			t.Fatalf("update: %v", err)
		}
		if updated.Status != model.ApplicationScreening {
			t.Fatalf("status not updated: %+v", updated)
		}
	})

	t.Run("update_status_stale_guard", func(t *testing.T) {
		repo, seed, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		cid, jid, err := seed(ctx)
		if err != nil {
			t.Fatalf("seed: %v", err)
		}
		created, err := repo.Create(ctx, model.Application{CandidateID: cid, JobID: jid, Status: model.ApplicationApplied})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if _, err := repo.UpdateStatus(ctx, created.ID, model.ApplicationApplied, model.ApplicationScreening); err != nil {
			t.Fatalf("first update: %v", err)
		}
		// The expected status is stale now; the guarded update must not land.
		_, err = repo.UpdateStatus(ctx, created.ID, model.ApplicationApplied, model.ApplicationInterview)
		if err == nil || err != repository.ErrNotFound {
			t.Fatalf("expected ErrNotFound on stale status, got %v", err)
		}
		got, err := repo.GetByID(ctx, created.ID)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if got.Status != model.ApplicationScreening {
			t.Fatalf("row overwritten past the guard: %+v", got)
		}
	})
}

func RunEmailRepositoryContract(t *testing.T, makeRepo EmailFactory) {
	t.Helper()

	t.Run("enqueue_claim_settle", func(t *testing.T) {
		repo, mkCandidate, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		cid, err := mkCandidate(ctx)
		if err != nil {
			t.Fatalf("mkCandidate: %v", err)
		}
		msg := model.EmailMessage{CandidateID: cid, Template: "application_received", Subject: "hi", Body: "welcome", DedupeKey: "k-claim-1"}
		queued, err := repo.Enqueue(ctx, msg)
		if err != nil {
			t.Fatalf("enqueue: %v", err)
		}
		if queued.Status != model.EmailPending {
			t.Fatalf("expected pending, got %s", queued.Status)
		}
		claimed, err := repo.ClaimPending(ctx, 10)
		if err != nil {
			t.Fatalf("claim: %v", err)
		}
		if len(claimed) != 1 || claimed[0].ID != queued.ID {
			t.Fatalf("unexpected claim: %+v", claimed)
		}
		if claimed[0].Attempts != queued.Attempts+1 {
			t.Fatalf("claim should bump attempts: %+v", claimed[0])
		}
		if err := repo.MarkSent(ctx, queued.ID); err != nil {
			t.Fatalf("mark sent: %v", err)
		}
		got, err := repo.GetByID(ctx, queued.ID)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if got.Status != model.EmailSent || got.SentAt == nil {
			t.Fatalf("expected sent with timestamp: %+v", got)
		}
		again, err := repo.ClaimPending(ctx, 10)
		if err != nil {
			t.Fatalf("claim2: %v", err)
		}
		if len(again) != 0 {
			t.Fatalf("sent row claimed again: %+v", again)
		}
	})

	t.Run("mark_failed_records_reason", func(t *testing.T) {
		repo, mkCandidate, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		cid, err := mkCandidate(ctx)
		if err != nil {
			t.Fatalf("mkCandidate: %v", err)
		}
		queued, err := repo.Enqueue(ctx, model.EmailMessage{CandidateID: cid, Template: "offer_extended", Subject: "o", Body: "b", DedupeKey: "k-fail-1"})
		if err != nil {
			t.Fatalf("enqueue: %v", err)
		}
		if err := repo.MarkFailed(ctx, queued.ID, "smtp timeout"); err != nil {
			t.Fatalf("mark failed: %v", err)
		}
		got, err := repo.GetByID(ctx, queued.ID)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if got.Status != model.EmailFailed || got.LastError != "smtp timeout" {
			t.Fatalf("unexpected row: %+v", got)
		}
	})

	t.Run("dedupe_key_conflict", func(t *testing.T) {
		repo, mkCandidate, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		cid, err := mkCandidate(ctx)
		if err != nil {
			t.Fatalf("mkCandidate: %v", err)
		}
		m := model.EmailMessage{CandidateID: cid, Template: "hired", Subject: "s", Body: "b", DedupeKey: "k-dup"}
		if _, err := repo.Enqueue(ctx, m); err != nil {
			t.Fatalf("enqueue: %v", err)
		}
		_, err = repo.Enqueue(ctx, m)
		if err == nil || err != repository.ErrAlreadyExists {
			t.Fatalf("expected ErrAlreadyExists, got %v", err)
		}
	})

	t.Run("list_by_candidate", func(t *testing.T) {
		repo, mkCandidate, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		c1, err := mkCandidate(ctx)
		if err != nil {
			t.Fatalf("mkCandidate: %v", err)
		}
		c2, err := mkCandidate(ctx)
		if err != nil {
			t.Fatalf("mkCandidate: %v", err)
		}
		for i, cid := range []int64{c1, c1, c2} {
			m := model.EmailMessage{CandidateID: cid, Template: "application_received", Subject: "s", Body: "b", DedupeKey: fmt.Sprintf("k-list-%d", i)}
			if _, err := repo.Enqueue(ctx, m); err != nil {
				t.Fatalf("seed %d: %v", i, err)
			}
		}
		res, err := repo.List(ctx, c1, pagination.PageRequest{})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if res.Meta.Total != 2 {
			t.Fatalf("expected 2 for candidate, got %d", res.Meta.Total)
		}
		all, err := repo.List(ctx, 0, pagination.PageRequest{})
		if err != nil {
			t.Fatalf("list all: %v", err)
		}
		if all.Meta.Total != 3 {
			t.Fatalf("expected 3 total, got %d", all.Meta.Total)
		}
	})
}

func RunTxManagerContract(t *testing.T, makeTx TxFactory) {
	t.Helper()

	t.Run("commit_on_nil_error", func(t *testing.T) {
		tx, candidates, cleanup := makeTx(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		var createdID int64
		err := tx.WithinTx(ctx, func(ctx context.Context) error {
			out, err := candidates.Create(ctx, model.Candidate{FullName: "Tx Commit", Email: "tx-commit@example.com"})
			if err != nil {
				return err
			}
			createdID = out.ID
			return nil
		})
		if err != nil {
			t.Fatalf("WithinTx: %v", err)
		}
		if _, err := candidates.GetByID(ctx, createdID); err != nil {
			t.Fatalf("expected committed row visible, got err=%v", err)
		}
	})

	t.Run("rollback_on_error", func(t *testing.T) {
		tx, candidates, cleanup := makeTx(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		var createdID int64
		errMarker := assertErr("boom")
		err := tx.WithinTx(ctx, func(ctx context.Context) error {
			out, err := candidates.Create(ctx, model.Candidate{FullName: "Tx Rollback", Email: "tx-rollback@example.com"})
			if err != nil {
				return err
			}
			createdID = out.ID
			return errMarker
		})
		if err == nil || err.Error() != errMarker.Error() {
			t.Fatalf("expected marker error, got %v", err)
		}
		if _, err := candidates.GetByID(ctx, createdID); err == nil || err != repository.ErrNotFound {
			t.Fatalf("expected ErrNotFound after rollback, got %v", err)
		}
	})
}

func RunPingerContract(t *testing.T, makePinger PingerFactory) {
	t.Helper()
	t.Run("ping_ok", func(t *testing.T) {
		p, cleanup := makePinger(t)
		t.Cleanup(cleanup)
		if err := p.Ping(context.Background()); err != nil {
			t.Fatalf("expected ping ok, got %v", err)
		}
	})
}

// assertErr builds a sentinel error without importing errors to keep helpers local.
func assertErr(msg string) error { return &sentinel{msg} }

type sentinel struct{ s string }

func (e *sentinel) Error() string { return e.s }
