package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const requestIdHeader = "X-Request-Id"

// RequestId assigns each request an id, echoed in the response header
// for log correlation. A client-supplied id is kept.
func RequestId() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIdHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Writer.Header().Set(requestIdHeader, id)
		c.Next()
	}
}

// GetRequestId returns the request id assigned by RequestId.
func GetRequestId(c *gin.Context) string {
	return c.GetString("request_id")
}
