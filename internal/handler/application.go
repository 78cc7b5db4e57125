package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/openhire/applicant-tracking-service/internal/model"
	"github.com/openhire/applicant-tracking-service/internal/service"
	"github.com/openhire/applicant-tracking-service/pkg/response"
)

type ApplicationHandler struct {
	svc service.ApplicationService
}

func NewApplicationHandler(svc service.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{svc: svc}
}

func (h *ApplicationHandler) Register(r *gin.RouterGroup) {
	g := r.Group("/applications")
	{
		g.POST("", h.create)
		g.GET("/:application_id", h.getByID)
		g.GET("", h.list)
		g.PATCH("/:application_id/status", h.changeStatus)
	}
}

type createApplicationRequest struct {
	CandidateID int64  `json:"candidate_id"`
	JobID       int64  `json:"job_id"`
	Notes       string `json:"notes"`
}

func (h *ApplicationHandler) create(c *gin.Context) {
	var req createApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.WriteError(c, service.ErrInvalidInput)
		return
	}
	app, err := h.svc.Apply(c.Request.Context(), req.CandidateID, req.JobID, req.Notes)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusCreated, app)
}

func (h *ApplicationHandler) getByID(c *gin.Context) {
	app, err := h.svc.GetApplication(c.Request.Context(), c.Param("application_id"))
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, app)
}

// list is cursor-paged: clients follow meta.next_cursor instead of page numbers.
func (h *ApplicationHandler) list(c *gin.Context) {
	res, err := h.svc.ListApplications(c.Request.Context(), cursorRequest(c))
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, res)
}

type changeStatusRequest struct {
	Status string `json:"status"`
}

func (h *ApplicationHandler) changeStatus(c *gin.Context) {
	var req changeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.WriteError(c, service.ErrInvalidInput)
		return
	}
	app, err := h.svc.ChangeStatus(c.Request.Context(), c.Param("application_id"), model.ApplicationStatus(req.Status))
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, app)
}
