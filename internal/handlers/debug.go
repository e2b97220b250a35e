package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"course-service/internal/telemetry"
)

// RegisterDebugRoutes wires debug-only endpoints.
func RegisterDebugRoutes(router gin.IRouter, emitter *telemetry.AuditEmitter, enabled bool) {
	if !enabled {
		return
	}

	router.GET("/debug/audit-test", func(c *gin.Context) {
		if emitter == nil {
			respondError(c, http.StatusServiceUnavailable, KindInternal, "audit emitter not configured")
			return
		}
		audit(c, emitter, "audit test")
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}
