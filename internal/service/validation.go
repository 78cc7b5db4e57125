package service

import (
	"strings"

	"github.com/openhire/applicant-tracking-service/internal/model"
	"github.com/openhire/applicant-tracking-service/internal/pagination"
)

// Per-entity sort whitelists. Raw client input never reaches ORDER BY:
// anything outside these sets is rejected as invalid input.
var (
	candidateSortFields   = map[string]bool{"created_at": true, "full_name": true, "email": true}
	jobSortFields         = map[string]bool{"created_at": true, "title": true, "department": true}
	applicationSortFields = map[string]bool{"id": true, "applied_at": true}
	emailSortFields       = map[string]bool{"id": true, "created_at": true}
)

// checkSortBy validates the requested sort field against a whitelist.
// An empty field is fine; the engine then leaves ordering to the source.
func checkSortBy(allowed map[string]bool, req pagination.PageRequest) []FieldError {
	if req.SortBy == "" || allowed[req.SortBy] {
		return nil
	}
	return []FieldError{{Field: "sort_by", Message: "unsupported sort field"}}
}

func isValidEmail(email string) bool {
	at := strings.IndexByte(email, '@')
	return at > 0 && at < len(email)-1 && !strings.ContainsAny(email, " \t")
}

// statusTransitions is the hiring pipeline: forward one stage at a time,
// rejection possible from any live stage, hired and rejected terminal.
var statusTransitions = map[model.ApplicationStatus][]model.ApplicationStatus{
	model.ApplicationApplied:   {model.ApplicationScreening, model.ApplicationRejected},
	model.ApplicationScreening: {model.ApplicationInterview, model.ApplicationRejected},
	model.ApplicationInterview: {model.ApplicationOffer, model.ApplicationRejected},
	model.ApplicationOffer:     {model.ApplicationHired, model.ApplicationRejected},
}

func canTransition(from, to model.ApplicationStatus) bool {
	for _, next := range statusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func isValidApplicationStatus(s model.ApplicationStatus) bool {
	switch s {
	case model.ApplicationApplied, model.ApplicationScreening, model.ApplicationInterview,
		model.ApplicationOffer, model.ApplicationHired, model.ApplicationRejected:
		return true
	default:
		return false
	}
}
