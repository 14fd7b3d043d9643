// Package router wires handlers and middleware onto the echo instance.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/restroom-web/internal/config"
	"github.com/iliyamo/restroom-web/internal/handler"
	"github.com/iliyamo/restroom-web/internal/middleware"
	"github.com/iliyamo/restroom-web/internal/store"
)

// RegisterRoutes registers routes that need no visitor session.  Currently
// it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// Views holds what RegisterViews needs.  Redis may be nil, which disables
// rate limiting.
type Views struct {
	Handler   *handler.Handler
	Tokens    *store.Provider
	Visitor   middleware.VisitorConfig
	RateLimit config.RateLimitConfig
	Redis     *redis.Client
	Listeners []middleware.ListenerFactory
}

// RegisterViews registers the pages.  Every page runs behind the visitor
// cookie, the per-request session load and the route guard, in that order;
// login and register submits are additionally rate limited.
func RegisterViews(e *echo.Echo, v Views) {
	h := v.Handler
	g := e.Group("",
		middleware.Visitor(v.Visitor),
		middleware.Session(v.Tokens, v.Listeners...),
		middleware.Guard(),
	)
	limit := middleware.NewTokenBucket(v.RateLimit, v.Redis, handler.TooManyAttempts)

	g.GET("/login", h.LoginForm)
	g.POST("/login", h.Login, limit)
	g.GET("/register", h.RegisterForm)
	g.POST("/register", h.Register, limit)
	g.POST("/logout", h.Logout)

	g.GET("/", h.Home)
	g.GET("/restroom/:id", h.Restroom)
	g.POST("/restroom/:id", h.UpdateRestroom)
	g.POST("/restroom/:id/reviews", h.CreateReview)
	g.POST("/restroom/:id/delete", h.DeleteRestroom)
	g.GET("/restrooms/new", h.NewRestroomForm)
	g.POST("/restrooms", h.CreateRestroom)

	g.GET("/profile", h.Profile)
	g.POST("/profile", h.UpdateProfile)
	g.GET("/products", h.Products)
	g.POST("/orders", h.CreateOrder)
}
