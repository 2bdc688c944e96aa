package router

import (
	"fmt"

	"paper-trader/handlers"
	"paper-trader/middleware"
	"paper-trader/web"

	"github.com/gin-gonic/gin"
)

// SetupRouter wires middleware, templates and routes onto a gin engine.
func SetupRouter(h *handlers.Handler) (*gin.Engine, error) {
	tmpl, err := web.Templates()
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	r := gin.New()
	r.SetHTMLTemplate(tmpl)
	r.Use(
		middleware.Logger(h.Logger),
		gin.CustomRecovery(h.Recover),
		middleware.NoCache(),
	)
	r.NoRoute(middleware.OptionalSession(h.Sessions, h.Cookie.Name), h.NotFound)

	// Public routes
	public := r.Group("/")
	public.Use(middleware.OptionalSession(h.Sessions, h.Cookie.Name))
	{
		public.GET("/login", h.LoginPage)
		public.POST("/login", h.Login)
		public.GET("/logout", h.Logout)
		public.GET("/register", h.RegisterPage)
		public.POST("/register", h.Register)
	}

	// Protected routes
	auth := r.Group("/")
	auth.Use(middleware.RequireSession(h.Sessions, h.Cookie.Name, h.Logger))
	{
		auth.GET("/", h.Index)
		auth.GET("/buy", h.BuyPage)
		auth.POST("/buy", h.Buy)
		auth.GET("/sell", h.SellPage)
		auth.POST("/sell", h.Sell)
		auth.GET("/quote", h.QuotePage)
		auth.POST("/quote", h.Quote)
		auth.GET("/history", h.History)
		auth.GET("/addcash", h.AddCashPage)
		auth.POST("/addcash", h.AddCash)
	}

	return r, nil
}
