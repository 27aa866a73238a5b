package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/studyflow/api/internal/auth"
	"github.com/studyflow/api/internal/model"
)

// AuthMiddleware requires a valid JWT token
func AuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := bearerClaims(c, jwtSecret)
		if !ok {
			return
		}

		setIdentity(c, claims)
		c.Next()
	}
}

// InstructorMiddleware requires a valid JWT token AND the instructor role
func InstructorMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := bearerClaims(c, jwtSecret)
		if !ok {
			return
		}

		if claims.Role != model.RoleInstructor {
			c.JSON(http.StatusForbidden, gin.H{"error": "instructor access required"})
			c.Abort()
			return
		}

		setIdentity(c, claims)
		c.Next()
	}
}

// OptionalAuthMiddleware extracts user info if a token is present, but doesn't require it
func OptionalAuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			c.Next()
			return
		}

		claims, err := auth.ValidateAccessToken(parts[1], jwtSecret)
		if err != nil {
			c.Next()
			return
		}

		setIdentity(c, claims)
		c.Next()
	}
}

func bearerClaims(c *gin.Context, jwtSecret string) (*auth.Claims, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization header required"})
		c.Abort()
		return nil, false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header format"})
		c.Abort()
		return nil, false
	}

	claims, err := auth.ValidateAccessToken(parts[1], jwtSecret)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
		c.Abort()
		return nil, false
	}

	return claims, true
}

func setIdentity(c *gin.Context, claims *auth.Claims) {
	c.Set("userID", claims.UserID)
	c.Set("username", claims.Username)
	c.Set("role", claims.Role)
}
