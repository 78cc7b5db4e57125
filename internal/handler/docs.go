package handler

import (
	_ "embed"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
)

// openAPIPath is where the contract for candidates, jobs, applications and
// emails lives, relative to the process working directory.
const openAPIPath = "api/openapi.yaml"

// Swagger UI shell loaded from a CDN; it fetches /openapi.yaml back from us,
// so nothing beyond this one page gets bundled into the binary.
//
//go:embed swagger.html
var swaggerHTML string

// RegisterDocs mounts the API reference at the root:
//   - GET /openapi.yaml: the raw OpenAPI document
//   - GET /docs: Swagger UI rendering of it
func RegisterDocs(r *gin.Engine) {
	r.GET("/openapi.yaml", func(c *gin.Context) {
		data, err := os.ReadFile(openAPIPath)
		if err != nil {
			c.String(http.StatusNotFound, "openapi document unavailable: %v", err)
			return
		}
		c.Data(http.StatusOK, "application/yaml; charset=utf-8", data)
	})
	r.GET("/docs", func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(swaggerHTML))
	})
}
