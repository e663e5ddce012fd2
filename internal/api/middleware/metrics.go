package middleware

import (
	"github.com/gin-gonic/gin"
)

// RequestObserver records finished HTTP requests.
type RequestObserver interface {
	ObserveHTTPRequest(method, path string, status int)
}

// Metrics counts requests by route template so that ids in paths do not
// explode label cardinality. Unmatched routes are reported as "unmatched".
func Metrics(observer RequestObserver) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		observer.ObserveHTTPRequest(c.Request.Method, path, c.Writer.Status())
	}
}
