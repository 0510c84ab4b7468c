package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-booking-platform/internal/handler"
	"github.com/iliyamo/hotel-booking-platform/internal/middleware"
)

// RegisterAuth registers the authentication and profile routes.
// Unauthenticated operations live under /v1/auth, protected profile
// endpoints under /v1. The limiter (rate limiting middleware) guards
// the credential endpoints against brute forcing; pass nil to skip it.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string, limiter echo.MiddlewareFunc) {
	mw := []echo.MiddlewareFunc{}
	if limiter != nil {
		mw = append(mw, limiter)
	}

	g := e.Group("/v1/auth", mw...)
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/forgot-password", a.ForgotPassword)
	g.POST("/reset-password/:token", a.ResetPassword)
	// Logout accepts a refresh_token body without auth, or revokes all
	// sessions when called with a bearer token; OptionalJWT covers both.
	g.POST("/logout", a.Logout, middleware.OptionalJWT(jwtSecret))

	auth := e.Group("/v1", middleware.JWTAuth(jwtSecret))
	auth.GET("/me", a.Me)
	auth.PUT("/me", a.UpdateMe)
}
