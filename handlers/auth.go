package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// LoginPage forgets any current session, as visiting /login always has.
func (h *Handler) LoginPage(c *gin.Context) {
	h.endSession(c)
	h.render(c, http.StatusOK, "login.html", "Log In", nil)
}

func (h *Handler) Login(c *gin.Context) {
	h.endSession(c)

	var form credentialsForm
	if err := c.ShouldBind(&form); err != nil {
		h.Apology(c, errBadForm)
		return
	}

	user, err := h.Auth.Login(c.Request.Context(), form.Username, form.Password)
	if err != nil {
		h.Apology(c, err)
		return
	}
	if err := h.startSession(c, user.ID); err != nil {
		h.Apology(c, err)
		return
	}
	redirectHome(c)
}

func (h *Handler) Logout(c *gin.Context) {
	h.endSession(c)
	redirectHome(c)
}

func (h *Handler) RegisterPage(c *gin.Context) {
	h.render(c, http.StatusOK, "register.html", "Register", nil)
}

// Register creates the account and logs it in straight away.
func (h *Handler) Register(c *gin.Context) {
	var form credentialsForm
	if err := c.ShouldBind(&form); err != nil {
		h.Apology(c, errBadForm)
		return
	}

	user, err := h.Auth.Register(c.Request.Context(), form.Username, form.Password, form.Confirmation)
	if err != nil {
		h.Apology(c, err)
		return
	}
	h.endSession(c)
	if err := h.startSession(c, user.ID); err != nil {
		h.Apology(c, err)
		return
	}
	redirectHome(c)
}
