package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appErrors "github.com/charlesng35/roomrental/pkg/errors"
	"github.com/charlesng35/roomrental/pkg/logger"
	"github.com/charlesng35/roomrental/pkg/response"
)

// ErrTooManyRequests is rendered once a client exhausts its window.
var ErrTooManyRequests = appErrors.New("TOO_MANY_REQUESTS", "Too many requests, please try again later", http.StatusTooManyRequests)

// RateLimit returns a middleware that limits requests per (clientIP,path) within a fixed window.
// Counters live in the given store so replicas can share them. A store failure lets the
// request through.
func RateLimit(store RateStore, maxRequests int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if store == nil || maxRequests <= 0 || window <= 0 {
			c.Next()
			return
		}

		key := c.ClientIP() + "|" + c.Request.Method + "|" + c.FullPath()
		count, resetIn, err := store.Increment(c.Request.Context(), key, window)
		if err != nil {
			logger.WithModule("ratelimit").Warn("rate store unavailable", zap.Error(err))
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(maxRequests))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(max(0, maxRequests-count)))
		c.Header("X-RateLimit-Reset", strconv.Itoa(int(resetIn.Seconds())))

		if count > maxRequests {
			c.Header("Retry-After", strconv.Itoa(max(1, int(resetIn.Seconds()))))
			response.Error(c, ErrTooManyRequests)
			return
		}

		c.Next()
	}
}
