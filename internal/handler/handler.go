package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/openhire/applicant-tracking-service/internal/service"
)

// Register mounts all public routes on the given engine.
// Accepts service layer dependencies for API endpoints.
func Register(r *gin.Engine, repo Pinger, candidateSvc service.CandidateService, jobSvc service.JobService, applicationSvc service.ApplicationService, emailSvc service.EmailService) {
	h := NewHealthHandler(repo)

	// Health probes
	r.GET("/live", h.Liveness)
	r.GET("/ready", h.Readiness)

	// Docs endpoints (root-level)
	RegisterDocs(r)

	api := r.Group(APIV1Prefix) // Versioning added via single source of truth
	{
		health := api.Group("/health")
		{
			health.GET("/live", h.Liveness)
			health.GET("/ready", h.Readiness)
		}
		NewCandidateHandler(candidateSvc).Register(api)
		NewJobHandler(jobSvc).Register(api)
		NewApplicationHandler(applicationSvc).Register(api)
		NewEmailHandler(emailSvc).Register(api)
	}
}
