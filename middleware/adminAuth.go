package middleware

import (
	"net/http"
	"strings"

	"studyspace/utils"

	"github.com/gin-gonic/gin"
)

// JWTAuthAdminMiddleware admits requests carrying a valid admin bearer token.
func JWTAuthAdminMiddleware(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		claims, err := utils.ValidateAdminToken(secret, tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized admin access"})
			return
		}

		c.Set("adminID", claims.Subject)
		c.Set("isAdmin", true)
		c.Next()
	}
}
