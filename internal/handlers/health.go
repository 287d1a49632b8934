package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/charlesng35/roomrental/pkg/response"
)

const healthCheckTimeout = 2 * time.Second

// HealthCheck probes one dependency.
type HealthCheck func(ctx context.Context) error

// Health reports readiness. Every named check must pass, otherwise the endpoint answers
// 503 with the failing dependencies.
func Health(checks map[string]HealthCheck) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(requestContext(c), healthCheckTimeout)
		defer cancel()

		results := make(map[string]string, len(checks))
		healthy := true
		for name, check := range checks {
			if err := check(ctx); err != nil {
				results[name] = err.Error()
				healthy = false
				continue
			}
			results[name] = "ok"
		}

		if !healthy {
			response.Success(c, http.StatusServiceUnavailable, gin.H{"status": "unavailable", "checks": results})
			return
		}
		response.Success(c, http.StatusOK, gin.H{"status": "ok", "checks": results})
	}
}
