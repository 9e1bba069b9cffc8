package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

const adminPasswordHeader = "X-Admin-Password"

// RequireAdmin returns a middleware that guards operator endpoints (unlock,
// interest runs). The caller sends the admin password in the X-Admin-Password
// header; it is checked against the bcrypt hash from ADMIN_PASSWORD_HASH
// (generate one with scripts/genhash.go). If missing or wrong, responds 401.
func RequireAdmin(passwordHash string) gin.HandlerFunc {
	return func(c *gin.Context) {
		password := c.GetHeader(adminPasswordHeader)
		if password == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "admin authorization required"})
			return
		}
		if err := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(password)); err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "admin authorization required"})
			return
		}
		c.Next()
	}
}
