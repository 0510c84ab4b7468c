package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-booking-platform/internal/handler"
	"github.com/iliyamo/hotel-booking-platform/internal/middleware"
	"github.com/iliyamo/hotel-booking-platform/internal/model"
)

// RegisterHotelAdmin registers the tenant management endpoints. Hotel
// creation, suspension and deletion are platform operations reserved
// for SUPER_ADMIN; hotel updates and product management are shared
// with the hotel's own admin, with ownership checked in the handler.
func RegisterHotelAdmin(e *echo.Echo, h *handler.HotelHandler, p *handler.ProductHandler, jwtSecret string) {
	super := e.Group("/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleSuperAdmin),
	)
	super.POST("/hotels", h.Create)
	super.PUT("/hotels/:id/suspend", h.Suspend)
	super.DELETE("/hotels/:id", h.Delete)

	admin := e.Group("/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleHotelAdmin, model.RoleSuperAdmin),
	)
	admin.PUT("/hotels/:id", h.Update)
	admin.POST("/products", p.Create)
	admin.PUT("/products/:id", p.Update)
	admin.DELETE("/products/:id", p.Delete)
}

// RegisterReviews registers the authenticated review posting endpoint.
// Listing reviews is public and lives with the browse routes.
func RegisterReviews(e *echo.Echo, rv *handler.ReviewHandler, jwtSecret string) {
	g := e.Group("/v1", middleware.JWTAuth(jwtSecret))
	g.POST("/reviews", rv.Create)
}
