package common

import (
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"
)

// HealthResponse represents health check response
type HealthResponse struct {
	Status  string            `json:"status"`
	Service string            `json:"service"`
	Version string            `json:"version"`
	Checks  map[string]string `json:"checks,omitempty"`
}

// HealthCheck returns a liveness handler
func HealthCheck(serviceName, version string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, HealthResponse{
			Status:  "healthy",
			Service: serviceName,
			Version: version,
		})
	}
}

// ReadinessCheck returns a handler that runs every check and answers 503 if any fails
func ReadinessCheck(serviceName, version string, checks map[string]func() error) gin.HandlerFunc {
	names := make([]string, 0, len(checks))
	for name := range checks {
		names = append(names, name)
	}
	sort.Strings(names)

	return func(c *gin.Context) {
		status := "ready"
		results := make(map[string]string, len(names))

		for _, name := range names {
			if err := checks[name](); err != nil {
				results[name] = "unhealthy: " + err.Error()
				status = "not ready"
				continue
			}
			results[name] = "healthy"
		}

		code := http.StatusOK
		if status != "ready" {
			code = http.StatusServiceUnavailable
		}

		c.JSON(code, HealthResponse{
			Status:  status,
			Service: serviceName,
			Version: version,
			Checks:  results,
		})
	}
}
