package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
	"whisper-api/internal/api/errors"
)

// CORSConfig represents CORS configuration
type CORSConfig struct {
	AllowOrigins     []string
	ExposeHeaders    []string
	AllowCredentials bool
	MaxAge           int
}

// DefaultCORSConfig returns the configuration used by the web client during
// local development.
func DefaultCORSConfig() CORSConfig {
	return CORSConfig{
		AllowOrigins: []string{
			"http://localhost:5173",
			"http://127.0.0.1:5173",
		},
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           600,
	}
}

// CORS returns a CORS middleware with the given configuration. Only listed
// origins are echoed back; since credentials are allowed the wildcard origin
// is never sent. Requested methods and headers are reflected.
func CORS(config CORSConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin == "" {
			c.Next()
			return
		}

		c.Writer.Header().Add("Vary", "Origin")
		allowed := lo.Contains(config.AllowOrigins, origin)
		preflight := c.Request.Method == http.MethodOptions &&
			c.Request.Header.Get("Access-Control-Request-Method") != ""

		if !allowed {
			if preflight {
				HandleError(c, errors.NewBadRequestError("Disallowed CORS origin"))
				return
			}
			c.Next()
			return
		}

		c.Header("Access-Control-Allow-Origin", origin)
		if config.AllowCredentials {
			c.Header("Access-Control-Allow-Credentials", "true")
		}
		if len(config.ExposeHeaders) > 0 {
			c.Header("Access-Control-Expose-Headers", strings.Join(config.ExposeHeaders, ", "))
		}

		if !preflight {
			c.Next()
			return
		}

		c.Header("Access-Control-Allow-Methods", c.Request.Header.Get("Access-Control-Request-Method"))
		if headers := c.Request.Header.Get("Access-Control-Request-Headers"); headers != "" {
			c.Header("Access-Control-Allow-Headers", headers)
		}
		if config.MaxAge > 0 {
			c.Header("Access-Control-Max-Age", strconv.Itoa(config.MaxAge))
		}
		c.AbortWithStatus(http.StatusNoContent)
	}
}
