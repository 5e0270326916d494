package handlers

import (
	"net/http"
	"time"

	"classquiz/middleware"
	"classquiz/models"
	"classquiz/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AuthHandler struct {
	auth       *services.AuthService
	sessionTTL time.Duration
	log        *zap.Logger
}

func NewAuthHandler(auth *services.AuthService, sessionTTL time.Duration, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		auth:       auth,
		sessionTTL: sessionTTL,
		log:        log,
	}
}

type loginForm struct {
	Email    string `form:"email" binding:"required"`
	Password string `form:"password" binding:"required"`
}

// Home renders the login page. The unauthorized marker arrives as a query
// parameter; a pending flash is shown when a session exists.
func (h *AuthHandler) Home(c *gin.Context) {
	var flash *services.Flash
	if token, err := c.Cookie(services.SessionCookieName); err == nil && token != "" {
		if _, sessionID, err := h.auth.Authenticate(c.Request.Context(), token); err == nil {
			flash = h.auth.PopFlash(c.Request.Context(), sessionID)
		}
	}

	c.HTML(http.StatusOK, "index.html", gin.H{
		"error": c.Query("error"),
		"flash": flash,
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var form loginForm
	if err := c.ShouldBind(&form); err != nil {
		c.Redirect(http.StatusSeeOther, "/?error=invalid-credentials")
		return
	}

	user, token, err := h.auth.Login(c.Request.Context(), form.Email, form.Password)
	if err != nil {
		if err != services.ErrInvalidLogin {
			h.log.Error("login failed", zap.Error(err))
		}
		c.Redirect(http.StatusSeeOther, "/?error=invalid-credentials")
		return
	}

	c.SetCookie(services.SessionCookieName, token, int(h.sessionTTL.Seconds()), "/", "", false, true)

	if user.Role == models.RoleAdmin {
		c.Redirect(http.StatusSeeOther, "/admin/dashboard")
		return
	}
	c.Redirect(http.StatusSeeOther, "/student/dashboard")
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if sessionID := middleware.SessionID(c); sessionID != "" {
		h.auth.Logout(c.Request.Context(), sessionID)
	} else if token, err := c.Cookie(services.SessionCookieName); err == nil && token != "" {
		if _, sessionID, err := h.auth.Authenticate(c.Request.Context(), token); err == nil {
			h.auth.Logout(c.Request.Context(), sessionID)
		}
	}

	c.SetCookie(services.SessionCookieName, "", -1, "/", "", false, true)
	c.Redirect(http.StatusSeeOther, "/")
}
