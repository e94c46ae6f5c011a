package middleware

import (
	"net/http"
	"strings"

	"github.com/01moynul/bookstore-cart/internal/auth"
	"github.com/gin-gonic/gin"
)

// OptionalAuthMiddleware reads an "Authorization: Bearer <token>" header
// when one is sent and stores the token subject as "userID". Requests
// without the header pass through anonymously; a bad token is rejected.
func OptionalAuthMiddleware(m *auth.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. No header, no identity.
		header := c.GetHeader("Authorization")
		if header == "" {
			c.Next()
			return
		}

		// 2. Expect the "Bearer" scheme.
		tokenString, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(tokenString) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header format must be Bearer {token}"})
			return
		}

		// 3. Verify and expose the subject to handlers.
		userID, err := m.ValidateToken(strings.TrimSpace(tokenString))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}
		c.Set("userID", userID)
		c.Next()
	}
}
