package middleware

import (
	"errors"
	"net/http"

	"paper-trader/session"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const userIDKey = "user_id"

// RequireSession lets the request through only with a live session cookie,
// storing the user id in the context. Anything else is sent to /login.
func RequireSession(sessions *session.Manager, cookie string, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie(cookie)

		userID, err := sessions.Resolve(c.Request.Context(), token)
		if err != nil {
			if !errors.Is(err, session.ErrNoSession) {
				logger.Error("session lookup failed", zap.Error(err))
			}
			c.Redirect(http.StatusSeeOther, "/login")
			c.Abort()
			return
		}

		c.Set(userIDKey, userID)
		c.Next()
	}
}

// OptionalSession records the user id when a live session exists but never
// blocks the request.
func OptionalSession(sessions *session.Manager, cookie string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, err := c.Cookie(cookie); err == nil {
			if userID, err := sessions.Resolve(c.Request.Context(), token); err == nil {
				c.Set(userIDKey, userID)
			}
		}
		c.Next()
	}
}

// UserID returns the authenticated user of the request.
func UserID(c *gin.Context) (uint, bool) {
	v, ok := c.Get(userIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok && id != 0
}
