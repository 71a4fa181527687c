package respond

import (
	"github.com/gin-gonic/gin"

	"star-backend/internal/shared/telemetry"
)

// ErrorResponse is the error body shared by every endpoint.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// Error logs and sends an error response. message is optional diagnostic detail.
func Error(c *gin.Context, status int, errText, message string) {
	fields := map[string]any{
		"status":     status,
		"error":      errText,
		"path":       c.Request.URL.Path,
		"method":     c.Request.Method,
		"request_id": c.GetString("requestId"),
	}
	if message != "" {
		fields["message"] = message
	}
	if status >= 500 {
		telemetry.Error("http.error", fields)
	} else {
		telemetry.Info("http.error", fields)
	}

	c.AbortWithStatusJSON(status, ErrorResponse{
		Error:   errText,
		Message: message,
	})
}
