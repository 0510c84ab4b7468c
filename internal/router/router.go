package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-booking-platform/internal/handler"
	"github.com/iliyamo/hotel-booking-platform/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance. Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	// Used by load balancers and monitoring to verify the service is up.
	e.GET("/healthz", handler.Health)
}

// RegisterPublic registers the unauthenticated browse endpoints: hotel
// listings, hotel pages, product lists and reviews. OptionalJWT lets a
// super admin see suspended hotels on the listing while guests browse
// anonymously. The cache middleware is applied here and nowhere else;
// these are the only read-mostly endpoints guests hammer. Pass a nil
// cache to register the routes bare (tests do).
func RegisterPublic(e *echo.Echo, h *handler.HotelHandler, p *handler.ProductHandler, rv *handler.ReviewHandler, jwtSecret string, cache echo.MiddlewareFunc) {
	mw := []echo.MiddlewareFunc{middleware.OptionalJWT(jwtSecret)}
	if cache != nil {
		mw = append(mw, cache)
	}
	e.GET("/v1/hotels", h.List, mw...)
	e.GET("/v1/hotels/:id", h.Get, mw...)
	e.GET("/v1/hotels/:id/products", p.ListByHotel, mw...)
	e.GET("/v1/reviews/:hotelId", rv.ListByHotel, mw...)
}
