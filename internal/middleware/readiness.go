package middleware

import (
	"github.com/gin-gonic/gin"

	apperrors "kelurahan/complaints-api/internal/errors"
	"kelurahan/complaints-api/internal/health"
)

// Readiness short-circuits API requests with 503 while the process is not
// in the Ready phase: during startup until both stores have initialized,
// and again once shutdown has begun. The health endpoint is mounted
// outside this gate.
func Readiness(state *health.State) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !state.AcceptingRequests() {
			abortWithAppError(c, apperrors.ErrInitializing)
			return
		}
		c.Next()
	}
}
