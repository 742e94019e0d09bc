package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

var startTime = time.Now()

// Pinger is a dependency that can report its reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// RegisterHealth mounts /health and /ready. Every required dependency must
// answer its ping for the gateway to be ready; optional ones are only reported.
func RegisterHealth(r gin.IRoutes, required, optional map[string]Pinger) {
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})
	r.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		ready := true
		deps := map[string]bool{}
		for name, p := range required {
			deps[name] = p != nil && p.Ping(ctx) == nil
			ready = ready && deps[name]
		}
		for name, p := range optional {
			deps[name] = p != nil && p.Ping(ctx) == nil
		}
		uptime := time.Since(startTime).Truncate(time.Second).String()
		if !ready {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "deps": deps, "uptime": uptime})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready", "deps": deps, "uptime": uptime})
	})
}
