package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/openhire/applicant-tracking-service/internal/handler"
	"github.com/openhire/applicant-tracking-service/internal/model"
	"github.com/openhire/applicant-tracking-service/internal/pagination"
	"github.com/openhire/applicant-tracking-service/internal/repository"
	"github.com/openhire/applicant-tracking-service/internal/service"
)

// fakeInvalid replicates aggregated validation error semantics.
type fakeInvalid struct{ fe []service.FieldError }

func (f *fakeInvalid) Error() string                { return service.ErrInvalidInput.Error() }
func (f *fakeInvalid) Unwrap() error                { return service.ErrInvalidInput }
func (f *fakeInvalid) Fields() []service.FieldError { return f.fe }

// stubCandidateService lets us control each method outcome.
type stubCandidateService struct {
	create struct {
		out model.Candidate
		err error
	}
	get struct {
		out model.Candidate
		err error
	}
	list struct {
		res pagination.PageResult[model.Candidate]
		err error
		req pagination.PageRequest // captured
	}
}

func (s *stubCandidateService) CreateCandidate(ctx context.Context, fullName, email, phone, resumeURL string) (model.Candidate, error) {
	return s.create.out, s.create.err
}
func (s *stubCandidateService) GetCandidate(ctx context.Context, id int64) (model.Candidate, error) {
	return s.get.out, s.get.err
}
func (s *stubCandidateService) ListCandidates(ctx context.Context, req pagination.PageRequest) (pagination.PageResult[model.Candidate], error) {
	s.list.req = req
	return s.list.res, s.list.err
}
func (s *stubCandidateService) ListCandidateApplications(ctx context.Context, candidateID int64, req pagination.PageRequest) (pagination.PageResult[model.Application], error) {
	return pagination.PageResult[model.Application]{}, repository.ErrNotFound
}

func newCandidateRouter(cs service.CandidateService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler.Register(r, stubPinger{}, cs, nil, nil, nil)
	return r
}

func TestCandidateHandler_Create_OK(t *testing.T) {
	stub := &stubCandidateService{}
	stub.create.out = model.Candidate{ID: 1, FullName: "Ada Lovelace", Email: "ada@example.com"}
	r := newCandidateRouter(stub)
	body, _ := json.Marshal(map[string]string{"full_name": "Ada Lovelace", "email": "ada@example.com"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/candidates", bytes.NewReader(body)))
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var resp model.Candidate
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if resp.ID != 1 || resp.Email != "ada@example.com" {
		t.Fatalf("unexpected body: %+v", resp)
	}
}

func TestCandidateHandler_Create_Invalid(t *testing.T) {
	stub := &stubCandidateService{}
	stub.create.err = &fakeInvalid{fe: []service.FieldError{{Field: "email", Message: "must be a valid email address"}}}
	r := newCandidateRouter(stub)
	body, _ := json.Marshal(map[string]string{"full_name": "Ada", "email": "nope"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/candidates", bytes.NewReader(body)))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
	var payload struct {
		Error       string               `json:"error"`
		FieldErrors []service.FieldError `json:"field_errors"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if payload.Error != "invalid_input" || len(payload.FieldErrors) != 1 {
		t.Fatalf("unexpected payload: %+v", payload)
	}
}

func TestCandidateHandler_Create_MalformedJSON(t *testing.T) {
	r := newCandidateRouter(&stubCandidateService{})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/candidates", bytes.NewReader([]byte("{not json"))))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestCandidateHandler_Get_NotFound(t *testing.T) {
	stub := &stubCandidateService{}
	stub.get.err = repository.ErrNotFound
	r := newCandidateRouter(stub)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/candidates/42", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestCandidateHandler_List_ParamsAndEnvelope(t *testing.T) {
	stub := &stubCandidateService{}
	stub.list.res = pagination.PageResult[model.Candidate]{
		Data: []model.Candidate{{ID: 1, FullName: "Ada Lovelace"}},
		Meta: pagination.NewPageMeta(45, 2, 20),
	}
	r := newCandidateRouter(stub)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/candidates?page=2&limit=20&sort_by=full_name&sort_order=desc&search=ada", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	got := stub.list.req
	if got.Page != 2 || got.Limit != 20 || got.SortBy != "full_name" || got.SortOrder != pagination.DESC || got.Search != "ada" {
		t.Fatalf("query params not passed through: %+v", got)
	}

	var env struct {
		Data  []model.Candidate    `json:"data"`
		Meta  pagination.PageMeta  `json:"meta"`
		Links pagination.PageLinks `json:"links"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if env.Meta.Total != 45 || env.Meta.TotalPages != 3 {
		t.Fatalf("meta not serialized: %+v", env.Meta)
	}
	if env.Links.Next == "" || env.Links.Previous == "" {
		t.Fatalf("middle page should link both ways: %+v", env.Links)
	}
	u, err := url.Parse(env.Links.Next)
	if err != nil {
		t.Fatalf("next link: %v", err)
	}
	q := u.Query()
	if q.Get("page") != "3" || q.Get("search") != "ada" || q.Get("sort_order") != "desc" {
		t.Fatalf("links must keep filters: %s", env.Links.Next)
	}
}
