package middleware

import (
	"net/http"

	"classquiz/models"
	"classquiz/services"

	"github.com/gin-gonic/gin"
)

const (
	contextUserKey    = "currentUser"
	contextSessionKey = "sessionID"
)

// RequireRole gates a route group on a valid session whose user has the
// given role. Any failure redirects home with the unauthorized marker and
// performs no side effect.
func RequireRole(auth *services.AuthService, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(services.SessionCookieName)
		if err != nil || token == "" {
			unauthorized(c)
			return
		}

		user, sessionID, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil || user.Role != role {
			unauthorized(c)
			return
		}

		c.Set(contextUserKey, user)
		c.Set(contextSessionKey, sessionID)
		c.Next()
	}
}

func unauthorized(c *gin.Context) {
	c.Redirect(http.StatusFound, "/?error=unauthorized")
	c.Abort()
}

// CurrentUser returns the session user resolved by RequireRole.
func CurrentUser(c *gin.Context) *models.User {
	if v, ok := c.Get(contextUserKey); ok {
		if user, ok := v.(*models.User); ok {
			return user
		}
	}
	return nil
}

// SessionID returns the session ID resolved by RequireRole.
func SessionID(c *gin.Context) string {
	if v, ok := c.Get(contextSessionKey); ok {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}
