// file: internal/server/error_handler.go
// version: 2.0.0
// guid: 1f2a3b4c-5d6e-7f8a-9b0c-1d2e3f4a5b6c

package server

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the error body every endpoint emits. Reason is a string
// for a single failure or a list of strings when validation finds several.
type ErrorResponse struct {
	Reason any `json:"reason"`
}

// RespondWithReasons sends the standard error body and logs the failure.
// One reason serializes as a plain string, several as an array.
func RespondWithReasons(c *gin.Context, statusCode int, reasons ...string) {
	logErrorWithContext(c, statusCode, reasons)

	var reason any
	switch len(reasons) {
	case 0:
		reason = http.StatusText(statusCode)
	case 1:
		reason = reasons[0]
	default:
		reason = reasons
	}
	c.JSON(statusCode, ErrorResponse{Reason: reason})
}

// RespondWithBadRequest sends a 400 Bad Request error response
func RespondWithBadRequest(c *gin.Context, reasons ...string) {
	RespondWithReasons(c, http.StatusBadRequest, reasons...)
}

// RespondWithNotFound sends a 404 Not Found error response
func RespondWithNotFound(c *gin.Context, resourceType string) {
	RespondWithReasons(c, http.StatusNotFound, resourceType+" not found")
}

// RespondWithInternalError sends a 500 Internal Server Error response
func RespondWithInternalError(c *gin.Context, reason string) {
	RespondWithReasons(c, http.StatusInternalServerError, reason)
}

// RespondWithConflict sends a 409 Conflict error response
func RespondWithConflict(c *gin.Context, reason string) {
	RespondWithReasons(c, http.StatusConflict, reason)
}

// RespondWithUnauthorized sends a 401 Unauthorized error response
func RespondWithUnauthorized(c *gin.Context, reason string) {
	RespondWithReasons(c, http.StatusUnauthorized, reason)
}

// RespondWithForbidden sends a 403 Forbidden error response
func RespondWithForbidden(c *gin.Context, reason string) {
	RespondWithReasons(c, http.StatusForbidden, reason)
}

// HandleBindError reports a JSON binding failure. Returns true when err was
// non-nil and a response has been written.
func HandleBindError(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}
	RespondWithBadRequest(c, "malformed request body: "+err.Error())
	return true
}

// logErrorWithContext logs an error with request context for debugging
func logErrorWithContext(c *gin.Context, statusCode int, reasons []string) {
	method := c.Request.Method
	path := c.Request.URL.Path
	clientIP := c.ClientIP()

	logLevel := "WARNING"
	if statusCode >= 500 {
		logLevel = "ERROR"
	}

	log.Printf("[%s] %s %s %d - %v (from %s)", logLevel, method, path, statusCode, reasons, clientIP)
}
