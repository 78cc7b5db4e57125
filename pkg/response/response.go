// Package response centralizes HTTP response shapes and helpers.
// Handlers rely on it to keep controllers thin and uniform.
package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/openhire/applicant-tracking-service/internal/pagination"
	"github.com/openhire/applicant-tracking-service/internal/repository"
	"github.com/openhire/applicant-tracking-service/internal/service"
)

// ErrorPayload is the canonical error envelope returned by the API.
type ErrorPayload struct {
	Error       string               `json:"error"`
	Message     string               `json:"message,omitempty"`
	FieldErrors []service.FieldError `json:"field_errors,omitempty"`
}

// MapError converts a domain / infrastructure error into an HTTP status and payload.
// Extend here as new domain error categories emerge.
func MapError(err error) (int, ErrorPayload) {
	if err == nil {
		return http.StatusOK, ErrorPayload{Error: "ok"}
	}

	if errors.Is(err, service.ErrInvalidInput) {
		return http.StatusBadRequest, ErrorPayload{
			Error:       "invalid_input",
			Message:     "one or more fields are invalid",
			FieldErrors: service.FieldErrors(err),
		}
	}

	switch {
	case errors.Is(err, service.ErrInvalidTransition):
		return http.StatusConflict, ErrorPayload{
			Error:   "invalid_transition",
			Message: "the requested status change is not allowed from the current stage",
		}
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound, ErrorPayload{Error: "not_found"}
	case errors.Is(err, repository.ErrAlreadyExists):
		return http.StatusConflict, ErrorPayload{Error: "already_exists"}
	case errors.Is(err, repository.ErrConflict):
		return http.StatusConflict, ErrorPayload{Error: "conflict"}
	default:
		return http.StatusInternalServerError, ErrorPayload{Error: "internal_error"}
	}
}

// WriteError writes an error response and aborts the context.
func WriteError(c *gin.Context, err error) {
	status, payload := MapError(err)
	c.AbortWithStatusJSON(status, payload)
}

// WriteData writes a successful JSON response.
func WriteData(c *gin.Context, status int, data any) {
	c.JSON(status, data)
}

// PageEnvelope is an offset page plus navigation links built from the
// request path. The meta's derived fields come straight from the engine.
type PageEnvelope[T any] struct {
	Data  []T                  `json:"data"`
	Meta  pagination.PageMeta  `json:"meta"`
	Links pagination.PageLinks `json:"links"`
}

// WritePage writes a paginated response with navigation links derived from
// the request URL. Query params other than page/limit pass through so
// search and sort survive link navigation.
func WritePage[T any](c *gin.Context, res pagination.PageResult[T]) {
	extra := c.Request.URL.Query()
	delete(extra, "page")
	delete(extra, "limit")
	links := pagination.Links(c.Request.URL.Path, res.Meta, extra)
	c.JSON(http.StatusOK, PageEnvelope[T]{Data: res.Data, Meta: res.Meta, Links: links})
}
