package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"creditdispute-backend/internal/shared/server/respond"
)

const userIDKey = "userId"

// Auth establishes the caller's identity from upstream headers.
//
// Session handling lives in the auth gateway in front of this service; by the
// time a request lands here the gateway has already verified it and stamped
// X-User-Id. Guests (lead-magnet preview flows) carry X-Guest-Id instead.
func Auth(env string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusNoContent)
			return
		}

		if userID := strings.TrimSpace(c.GetHeader("X-User-Id")); userID != "" {
			c.Set(userIDKey, userID)
			c.Set("isGuest", false)
			c.Next()
			return
		}

		guestID := strings.TrimSpace(c.GetHeader("X-Guest-Id"))
		if guestID == "" {
			if env == "dev" || env == "local" {
				c.Set(userIDKey, "dev-user")
				c.Set("isGuest", false)
				c.Next()
				return
			}
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing identity headers", nil)
			return
		}

		c.Set(userIDKey, "guest:"+guestID)
		c.Set("isGuest", true)
		c.Next()
	}
}

// UserIDFromContext returns the authenticated user ID, if any.
func UserIDFromContext(c *gin.Context) string {
	return c.GetString(userIDKey)
}
