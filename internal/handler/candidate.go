package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/openhire/applicant-tracking-service/internal/service"
	"github.com/openhire/applicant-tracking-service/pkg/response"
)

type CandidateHandler struct {
	svc service.CandidateService
}

func NewCandidateHandler(svc service.CandidateService) *CandidateHandler {
	return &CandidateHandler{svc: svc}
}

func (h *CandidateHandler) Register(r *gin.RouterGroup) {
	g := r.Group("/candidates")
	{
		g.POST("", h.create)
		// Stable wildcard name (candidate_id) so nested routes can reuse it without Gin conflicts.
		g.GET("/:candidate_id", h.getByID)
		g.GET("", h.list)
		g.GET("/:candidate_id/applications", h.listApplications)
	}
}

type createCandidateRequest struct {
	FullName  string `json:"full_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	ResumeURL string `json:"resume_url"`
}

func (h *CandidateHandler) create(c *gin.Context) {
	var req createCandidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.WriteError(c, service.ErrInvalidInput) // don't leak parser internals
		return
	}
	cand, err := h.svc.CreateCandidate(c.Request.Context(), req.FullName, req.Email, req.Phone, req.ResumeURL)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusCreated, cand)
}

func (h *CandidateHandler) getByID(c *gin.Context) {
	idStr := c.Param("candidate_id")
	id, _ := strconv.ParseInt(idStr, 10, 64)
	cand, err := h.svc.GetCandidate(c.Request.Context(), id)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, cand)
}

func (h *CandidateHandler) list(c *gin.Context) {
	res, err := h.svc.ListCandidates(c.Request.Context(), pageRequest(c))
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WritePage(c, res)
}

func (h *CandidateHandler) listApplications(c *gin.Context) {
	idStr := c.Param("candidate_id")
	id, _ := strconv.ParseInt(idStr, 10, 64)
	res, err := h.svc.ListCandidateApplications(c.Request.Context(), id, pageRequest(c))
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WritePage(c, res)
}
