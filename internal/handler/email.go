package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/openhire/applicant-tracking-service/internal/service"
	"github.com/openhire/applicant-tracking-service/pkg/response"
)

type EmailHandler struct {
	svc service.EmailService
}

func NewEmailHandler(svc service.EmailService) *EmailHandler { return &EmailHandler{svc: svc} }

func (h *EmailHandler) Register(r *gin.RouterGroup) {
	g := r.Group("/emails")
	{
		g.POST("", h.enqueue)
		g.GET("/:email_id", h.getByID)
		g.GET("", h.list)
	}
}

type enqueueEmailRequest struct {
	CandidateID   int64  `json:"candidate_id"`
	ApplicationID string `json:"application_id"`
	Template      string `json:"template"`
}

// enqueue queues a message for the outbox worker; nothing is sent inline.
func (h *EmailHandler) enqueue(c *gin.Context) {
	var req enqueueEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.WriteError(c, service.ErrInvalidInput)
		return
	}
	msg, err := h.svc.Enqueue(c.Request.Context(), req.CandidateID, req.ApplicationID, req.Template)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusAccepted, msg)
}

func (h *EmailHandler) getByID(c *gin.Context) {
	id, _ := strconv.ParseInt(c.Param("email_id"), 10, 64)
	msg, err := h.svc.GetEmail(c.Request.Context(), id)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, msg)
}

func (h *EmailHandler) list(c *gin.Context) {
	candidateID, _ := strconv.ParseInt(c.Query("candidate_id"), 10, 64)
	res, err := h.svc.ListEmails(c.Request.Context(), candidateID, pageRequest(c))
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WritePage(c, res)
}
