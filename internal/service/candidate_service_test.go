package service_test

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/rs/zerolog"

	"github.com/openhire/applicant-tracking-service/internal/model"
	"github.com/openhire/applicant-tracking-service/internal/pagination"
	"github.com/openhire/applicant-tracking-service/internal/repository"
	"github.com/openhire/applicant-tracking-service/internal/service"
)

type fakeCandidateRepo struct {
	nextID  int64
	items   map[int64]model.Candidate
	lastReq pagination.PageRequest // capture for pagination pass-through tests
}

func newFakeCandidateRepo() *fakeCandidateRepo {
	return &fakeCandidateRepo{nextID: 1, items: map[int64]model.Candidate{}}
}

func (f *fakeCandidateRepo) Create(_ context.Context, c model.Candidate) (model.Candidate, error) {
	for _, it := range f.items {
		if it.Email == c.Email {
			return model.Candidate{}, repository.ErrAlreadyExists
		}
	}
	c.ID = f.nextID
	f.nextID++
	f.items[c.ID] = c
	return c, nil
}

func (f *fakeCandidateRepo) GetByID(_ context.Context, id int64) (model.Candidate, error) {
	it, ok := f.items[id]
	if !ok {
		return model.Candidate{}, repository.ErrNotFound
	}
	return it, nil
}

func (f *fakeCandidateRepo) List(_ context.Context, req pagination.PageRequest) (pagination.PageResult[model.Candidate], error) {
	f.lastReq = req
	res := pagination.PageResult[model.Candidate]{Data: []model.Candidate{}}
	for _, v := range f.items {
		res.Data = append(res.Data, v)
	}
	res.Meta = pagination.NewPageMeta(int64(len(res.Data)), 1, 20)
	return res, nil
}

func (f *fakeCandidateRepo) Exists(_ context.Context, id int64) (bool, error) {
	_, ok := f.items[id]
	return ok, nil
}

var _ repository.CandidateRepository = (*fakeCandidateRepo)(nil)

// candidateAppsRepo implements just enough of ApplicationRepository for the
// candidate service's list-by-candidate path.
type candidateAppsRepo struct {
	byCandidate map[int64][]model.Application
}

func (f *candidateAppsRepo) Create(_ context.Context, a model.Application) (model.Application, error) {
	return a, nil
}
func (f *candidateAppsRepo) GetByID(_ context.Context, _ string) (model.Application, error) {
	return model.Application{}, repository.ErrNotFound
}
func (f *candidateAppsRepo) List(_ context.Context, _ pagination.CursorRequest) (pagination.CursorResult[model.Application], error) {
	return pagination.CursorResult[model.Application]{}, nil
}
func (f *candidateAppsRepo) ListByCandidate(_ context.Context, candidateID int64, _ pagination.PageRequest) (pagination.PageResult[model.Application], error) {
	apps := f.byCandidate[candidateID]
	return pagination.PageResult[model.Application]{
		Data: apps,
		Meta: pagination.NewPageMeta(int64(len(apps)), 1, 20),
	}, nil
}
func (f *candidateAppsRepo) UpdateStatus(_ context.Context, _ string, _, _ model.ApplicationStatus) (model.Application, error) {
	return model.Application{}, repository.ErrNotFound
}

var _ repository.ApplicationRepository = (*candidateAppsRepo)(nil)

func newCandidateService(repo *fakeCandidateRepo, apps *candidateAppsRepo) service.CandidateService {
	if apps == nil {
		apps = &candidateAppsRepo{}
	}
	return service.NewCandidateService(repo, apps, zerolog.New(io.Discard))
}

func TestCandidateService_Create_Validation(t *testing.T) {
	svc := newCandidateService(newFakeCandidateRepo(), nil)

	cases := []struct {
		name    string
		full    string
		email   string
		wantErr bool
		field   string
	}{
		{"empty name", "", "a@b.com", true, "full_name"},
		{"one rune name", "A", "a@b.com", true, "full_name"},
		{"empty email", "Ada Lovelace", "", true, "email"},
		{"email without at", "Ada Lovelace", "not-an-email", true, "email"},
		{"email with space", "Ada Lovelace", "a b@c.com", true, "email"},
		{"ok", "Ada Lovelace", "ada@example.com", false, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateCandidate(context.Background(), tc.full, tc.email, "", "")
			if tc.wantErr && err == nil {
				t.Fatalf("expected error")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tc.wantErr {
				if !errors.Is(err, service.ErrInvalidInput) {
					t.Fatalf("expected invalid input, got %v", err)
				}
				found := false
				for _, fe := range service.FieldErrors(err) {
					if fe.Field == tc.field {
						found = true
						break
					}
				}
				if !found {
					t.Fatalf("expected field %s in %v", tc.field, service.FieldErrors(err))
				}
			}
		})
	}
}

func TestCandidateService_Create_TrimsInput(t *testing.T) {
	repo := newFakeCandidateRepo()
	svc := newCandidateService(repo, nil)
	out, err := svc.CreateCandidate(context.Background(), "  Ada Lovelace  ", " ada@example.com ", " 555 ", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.FullName != "Ada Lovelace" || out.Email != "ada@example.com" || out.Phone != "555" {
		t.Fatalf("input not trimmed: %+v", out)
	}
}

func TestCandidateService_Create_DuplicateEmail(t *testing.T) {
	repo := newFakeCandidateRepo()
	svc := newCandidateService(repo, nil)
	if _, err := svc.CreateCandidate(context.Background(), "Ada Lovelace", "ada@example.com", "", ""); err != nil {
		t.Fatalf("seed: %v", err)
	}
	_, err := svc.CreateCandidate(context.Background(), "Ada Clone", "ada@example.com", "", "")
	if !errors.Is(err, repository.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists passthrough, got %v", err)
	}
}

func TestCandidateService_Get_InvalidID(t *testing.T) {
	svc := newCandidateService(newFakeCandidateRepo(), nil)
	_, err := svc.GetCandidate(context.Background(), 0)
	if !errors.Is(err, service.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestCandidateService_List_SortWhitelist(t *testing.T) {
	repo := newFakeCandidateRepo()
	svc := newCandidateService(repo, nil)

	_, err := svc.ListCandidates(context.Background(), pagination.PageRequest{SortBy: "password"})
	if !errors.Is(err, service.ErrInvalidInput) {
		t.Fatalf("expected rejection of unknown sort field, got %v", err)
	}

	_, err = svc.ListCandidates(context.Background(), pagination.PageRequest{SortBy: "full_name", Search: "ada"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.lastReq.SortBy != "full_name" || repo.lastReq.Search != "ada" {
		t.Fatalf("request not passed through: %+v", repo.lastReq)
	}
}

func TestCandidateService_ListApplications_UnknownCandidate(t *testing.T) {
	svc := newCandidateService(newFakeCandidateRepo(), nil)
	_, err := svc.ListCandidateApplications(context.Background(), 42, pagination.PageRequest{})
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
