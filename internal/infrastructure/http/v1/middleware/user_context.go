package middleware

import (
	"github.com/gin-gonic/gin"

	"tradecore/internal/core/security"
)

// UserContext copies the authenticated user ID from the gin context into the
// request context, where the domain layer reads it via security.GetUserID.
// Must run after Auth, which sets "user_id".
func UserContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID, exists := c.Get("user_id"); exists {
			if uid, ok := userID.(string); ok && uid != "" {
				ctx := security.WithUserID(c.Request.Context(), uid)
				c.Request = c.Request.WithContext(ctx)
			}
		}
		c.Next()
	}
}
