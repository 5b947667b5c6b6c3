// file: internal/server/middleware/request_size.go
// version: 2.0.0
// guid: 4c5d6e7f-8a9b-0c1d-2e3f-4a5b6c7d8e9f

package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func methodHasBody(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		return true
	default:
		return false
	}
}

// MaxRequestBodySize caps request bodies. The catalog API only moves JSON,
// so one limit covers every route.
func MaxRequestBodySize(limitBytes int64) gin.HandlerFunc {
	if limitBytes < 1 {
		limitBytes = 1 << 20
	}

	return func(c *gin.Context) {
		if !methodHasBody(c.Request.Method) {
			c.Next()
			return
		}

		if c.Request.ContentLength > limitBytes {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"reason": "request body too large"})
			c.Abort()
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limitBytes)
		c.Next()
	}
}
