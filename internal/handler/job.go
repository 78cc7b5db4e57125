package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/openhire/applicant-tracking-service/internal/service"
	"github.com/openhire/applicant-tracking-service/pkg/response"
)

type JobHandler struct {
	svc service.JobService
}

func NewJobHandler(svc service.JobService) *JobHandler { return &JobHandler{svc: svc} }

func (h *JobHandler) Register(r *gin.RouterGroup) {
	g := r.Group("/jobs")
	{
		g.POST("", h.create)
		g.GET("/:job_id", h.getByID)
		g.GET("", h.list)
		g.POST("/:job_id/close", h.close)
	}
}

type createJobRequest struct {
	Title       string `json:"title"`
	Department  string `json:"department"`
	Location    string `json:"location"`
	Description string `json:"description"`
}

func (h *JobHandler) create(c *gin.Context) {
	var req createJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.WriteError(c, service.ErrInvalidInput)
		return
	}
	job, err := h.svc.CreateJob(c.Request.Context(), req.Title, req.Department, req.Location, req.Description)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusCreated, job)
}

func (h *JobHandler) getByID(c *gin.Context) {
	id, _ := strconv.ParseInt(c.Param("job_id"), 10, 64)
	job, err := h.svc.GetJob(c.Request.Context(), id)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, job)
}

func (h *JobHandler) list(c *gin.Context) {
	res, err := h.svc.ListJobs(c.Request.Context(), pageRequest(c))
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WritePage(c, res)
}

func (h *JobHandler) close(c *gin.Context) {
	id, _ := strconv.ParseInt(c.Param("job_id"), 10, 64)
	job, err := h.svc.CloseJob(c.Request.Context(), id)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, job)
}
