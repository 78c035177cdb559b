package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"tutoring-api/internal/config"
	"tutoring-api/internal/response"

	"github.com/gin-gonic/gin"
)

// AdminKeyValid compares a provided admin key against the configured shared
// secret. An empty configured secret means admin access is disabled outright.
func AdminKeyValid(provided string) bool {
	expected := config.AppConfig.AdminKey
	if expected == "" || provided == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(provided), []byte(expected)) == 1
}

// AdminKeyFromRequest collects the admin key from the X-Admin-Key header, the
// adminKey query parameter, or a body-supplied value - any one is accepted
func AdminKeyFromRequest(c *gin.Context, bodyKey string) string {
	if key := strings.TrimSpace(c.GetHeader("X-Admin-Key")); key != "" {
		return key
	}
	if key := strings.TrimSpace(c.Query("adminKey")); key != "" {
		return key
	}
	return strings.TrimSpace(bodyKey)
}

// AdminAuthMiddleware guards admin routes with the shared admin secret.
// Handlers that also accept the key in the request body do their own check
// via AdminKeyFromRequest instead.
func AdminAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !AdminKeyValid(AdminKeyFromRequest(c, "")) {
			c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Invalid admin key"))
			c.Abort()
			return
		}
		c.Next()
	}
}
