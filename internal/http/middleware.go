package http

import (
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// adminAuth accepts requests whose bearer token matches the bcrypt hash.
func adminAuth(hash string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(401, gin.H{"success": false, "message": "Authorization header missing"})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || strings.TrimSpace(parts[1]) == "" {
			c.AbortWithStatusJSON(401, gin.H{"success": false, "message": "Authorization header invalid"})
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(strings.TrimSpace(parts[1]))); err != nil {
			c.AbortWithStatusJSON(401, gin.H{"success": false, "message": "Invalid admin token"})
			return
		}

		c.Next()
	}
}
