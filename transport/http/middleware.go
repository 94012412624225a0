package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/layer-3/faucet/core"
	"github.com/layer-3/faucet/internal/log"
	"github.com/layer-3/faucet/service"
)

const identityKey = "identity"

// AuthMiddleware creates middleware that requires a valid bearer credential
func AuthMiddleware(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := authService.ValidateToken(c.Request.Context(), bearerToken(c))
		if err != nil {
			if errors.Is(err, core.ErrMissingCredential) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Access token required"})
			} else {
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Invalid or expired token"})
			}
			return
		}

		c.Set(identityKey, session.Identity())
		c.Next()
	}
}

// GetIdentity returns the identity attached by AuthMiddleware
func GetIdentity(c *gin.Context) (core.Identity, bool) {
	if value, ok := c.Get(identityKey); ok {
		if identity, ok := value.(core.Identity); ok {
			return identity, true
		}
	}
	return core.Identity{}, false
}

// RequestLogger writes one access log line per request
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log.Info(c.Request.Context()).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Str("ip", c.ClientIP()).
			Msg("http request")
	}
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
}
