package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/shared/telemetry"
)

// Logging emits one structured line per request. Route parameters that name
// a resume, editor session or step are lifted into their own fields.
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		route := c.FullPath()
		fields := map[string]any{
			"request_id":  RequestIDFromContext(c),
			"method":      c.Request.Method,
			"route":       route,
			"path":        c.Request.URL.Path,
			"status":      c.Writer.Status(),
			"bytes":       c.Writer.Size(),
			"duration_ms": float64(time.Since(start).Microseconds()) / 1000.0,
			"user_id":     UserIDFromContext(c),
			"is_guest":    IsGuestFromContext(c),
			"client_ip":   c.ClientIP(),
		}
		if id := c.Param("id"); id != "" {
			switch {
			case strings.Contains(route, "/editor/sessions/"):
				fields["session_id"] = id
			case strings.Contains(route, "/resumes/"):
				fields["resume_id"] = id
			}
		}
		if step := c.Param("step"); step != "" {
			fields["step"] = step
		}
		if format := c.Query("format"); format != "" && strings.HasSuffix(route, "/export") {
			fields["export_format"] = format
		}

		switch status := c.Writer.Status(); {
		case status >= http.StatusInternalServerError:
			telemetry.Error("request.complete", fields)
		default:
			telemetry.Info("request.complete", fields)
		}
	}
}
