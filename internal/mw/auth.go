// Package mw holds the gin middleware chain: authentication, rate limiting,
// response caching, request logging and CORS.
package mw

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"restaurant-queue-backend/internal/auth"
)

// Gin context keys set by Auth.
const (
	ContextUserID   = "user_id"
	ContextUserName = "user_name"
	ContextUserRole = "user_role"
)

// Auth validates the Bearer token and stores the caller's identity in the
// request context.
func Auth(jwtService *auth.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			abortUnauthorized(c, "missing authorization header")
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			abortUnauthorized(c, "invalid authorization header")
			return
		}
		claims, err := jwtService.Validate(parts[1])
		if err != nil {
			abortUnauthorized(c, "invalid or expired token")
			return
		}
		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextUserName, claims.Name)
		c.Set(ContextUserRole, claims.Role)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"code":    http.StatusUnauthorized,
		"message": message,
		"data":    nil,
	})
}
