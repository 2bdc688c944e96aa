package handlers

import (
	"net/http"
	"time"

	"paper-trader/apperror"
	"paper-trader/auth"
	"paper-trader/ledger"
	"paper-trader/middleware"
	"paper-trader/portfolio"
	"paper-trader/quote"
	"paper-trader/session"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CookieConfig describes the session cookie.
type CookieConfig struct {
	Name   string
	Secure bool
}

// Handler serves every page of the application.
type Handler struct {
	Auth      *auth.Service
	Ledger    *ledger.Service
	Portfolio *portfolio.Service
	Quotes    quote.Lookuper
	Sessions  *session.Manager
	Cookie    CookieConfig
	Logger    *zap.Logger
}

func (h *Handler) render(c *gin.Context, status int, page, title string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	_, loggedIn := middleware.UserID(c)
	data["Title"] = title
	data["LoggedIn"] = loggedIn
	c.HTML(status, page, data)
}

func (h *Handler) apologize(c *gin.Context, status int, msg string) {
	h.render(c, status, "apology.html", "Apology", gin.H{
		"Code":    status,
		"Message": msg,
	})
	c.Abort()
}

// Apology renders err as the error page. Categorized failures show their
// own message; anything else is logged and shown generically.
func (h *Handler) Apology(c *gin.Context, err error) {
	if apperror.KindOf(err) == apperror.Internal {
		_ = c.Error(err)
		h.Logger.Error("request failed",
			zap.String("path", c.Request.URL.Path),
			zap.Error(err))
	}
	h.apologize(c, apperror.Status(err), apperror.Message(err))
}

// NotFound renders the error page for unknown routes.
func (h *Handler) NotFound(c *gin.Context) {
	h.apologize(c, http.StatusNotFound, "page not found")
}

// Recover turns a panic into the generic error page.
func (h *Handler) Recover(c *gin.Context, recovered any) {
	h.Logger.Error("panic recovered", zap.Any("panic", recovered), zap.String("path", c.Request.URL.Path))
	h.apologize(c, http.StatusInternalServerError, apperror.Message(nil))
}

// userID returns the id placed in the context by the session gate.
func (h *Handler) userID(c *gin.Context) (uint, bool) {
	id, ok := middleware.UserID(c)
	if !ok {
		h.Apology(c, apperror.ErrUnauthenticated)
	}
	return id, ok
}

func (h *Handler) startSession(c *gin.Context, userID uint) error {
	token, err := h.Sessions.Issue(c.Request.Context(), userID)
	if err != nil {
		return err
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.Cookie.Name, token, int(h.Sessions.TTL()/time.Second), "/", "", h.Cookie.Secure, true)
	return nil
}

func (h *Handler) endSession(c *gin.Context) {
	if token, err := c.Cookie(h.Cookie.Name); err == nil {
		if err := h.Sessions.Revoke(c.Request.Context(), token); err != nil {
			h.Logger.Warn("revoke session", zap.Error(err))
		}
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.Cookie.Name, "", -1, "/", "", h.Cookie.Secure, true)
}

func redirectHome(c *gin.Context) {
	c.Redirect(http.StatusSeeOther, "/")
}
