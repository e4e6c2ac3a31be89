package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"bitacora-backend/internal/models"
)

const (
	UserIDKey   = "user_id"
	UserNameKey = "user_name"
	RoleKey     = "role"
)

// SessionVerifier turns a bearer token into the identity it was issued for.
type SessionVerifier interface {
	ParseSession(token string) (*models.Identity, error)
}

func AuthMiddleware(verifier SessionVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{Error: "missing authorization header"})
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{Error: "invalid authorization header format"})
			return
		}

		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{Error: "empty token"})
			return
		}

		identity, err := verifier.ParseSession(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{
				Error:   "invalid token",
				Message: "session is invalid or expired",
			})
			return
		}

		c.Set(UserIDKey, identity.ID.String())
		c.Set(UserNameKey, identity.Name)
		c.Set(RoleKey, identity.Role)
		c.Next()
	}
}

// RequireRole must run after AuthMiddleware.
func RequireRole(role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		got, _ := c.Get(RoleKey)
		if r, ok := got.(models.Role); !ok || r != role {
			c.AbortWithStatusJSON(http.StatusForbidden, models.ErrorResponse{
				Error:   "forbidden",
				Message: "requires role " + string(role),
			})
			return
		}
		c.Next()
	}
}
