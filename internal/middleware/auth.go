package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/emilythestrangee/elden-builds/backend/internal/auth"
	"github.com/emilythestrangee/elden-builds/backend/internal/config"
	"github.com/emilythestrangee/elden-builds/backend/internal/logging"
)

const userIDKey = "user_id"

// AuthRequired validates the bearer token and sets user_id in the context.
func AuthRequired(cfg config.JWTConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			return
		}
		token, ok := bearerToken(header)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization format"})
			return
		}
		claims, err := auth.ParseAccessToken(cfg, token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}
		setUser(c, claims)
		c.Next()
	}
}

// AuthOptional sets user_id when a valid token is present and lets anonymous
// requests through otherwise.
func AuthOptional(cfg config.JWTConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, ok := bearerToken(c.GetHeader("Authorization")); ok {
			if claims, err := auth.ParseAccessToken(cfg, token); err == nil {
				setUser(c, claims)
			}
		}
		c.Next()
	}
}

// GetUserID returns the authenticated user id, or 0 for anonymous requests.
func GetUserID(c *gin.Context) int {
	return c.GetInt(userIDKey)
}

func setUser(c *gin.Context, claims *auth.Claims) {
	c.Set(userIDKey, claims.UserID)

	ctx := c.Request.Context()
	logger := logging.FromContext(ctx).With("user_id", claims.UserID)
	c.Request = c.Request.WithContext(logging.ContextWithLogger(ctx, logger))
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}
