// Package handlers implements the HTTP surface of the booking backend: the
// WhatsApp webhook, user registration and lookup, and reservation management.
//
// Every endpoint speaks the same envelope language. Failures are always an
// ErrorResponse carrying a stable machine-readable code plus the request's
// correlation ID, so a gateway operator can match a rejected delivery to the
// exact server log line. Success bodies are endpoint-specific JSON.
//
// Example rejection:
//
//	HTTP/1.1 404 Not Found
//	{
//	  "request_id": "123e4567-e89b-12d3-a456-426614174000",
//	  "code": "not_found",
//	  "message": "resource not found"
//	}
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aurora-assist/go-booking-backend/internal/http/middleware"
)

// ErrorResponse is the error envelope shared by every endpoint. Code is one
// of the constants in errors.go; Message is human-readable and safe to relay
// to an end user. RequestID echoes the X-Request-ID the middleware assigned.
type ErrorResponse struct {
	RequestID string `json:"request_id,omitempty" example:"123e4567-e89b-12d3-a456-426614174000"`
	Code      string `json:"code" example:"not_found"`
	Message   string `json:"message" example:"resource not found"`
}

// fail writes an ErrorResponse with the given status and aborts the chain.
// Only 5xx outcomes are logged here: client errors are expected traffic in a
// webhook-facing API and the access log already records them.
func fail(c *gin.Context, status int, code, msg string) {
	resp := ErrorResponse{
		RequestID: c.Writer.Header().Get("X-Request-ID"),
		Code:      code,
		Message:   msg,
	}

	if status >= http.StatusInternalServerError {
		middleware.LoggerFrom(c).Error().
			Int("status", status).
			Str("code", code).
			Str("message", msg).
			Msg("api error")
	}

	c.AbortWithStatusJSON(status, resp)
}

// Fail exposes fail to the router for NoRoute/NoMethod envelopes.
func Fail(c *gin.Context, status int, code, msg string) { fail(c, status, code, msg) }

func ok(c *gin.Context, status int, body any) {
	c.JSON(status, body)
}

func noContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
