package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-booking-platform/internal/handler"
	"github.com/iliyamo/hotel-booking-platform/internal/middleware"
)

// RegisterReservations registers the reservation endpoints. Creation
// takes an optional token so hotels can enter guest phone bookings;
// the listings and status updates require auth and do their fine
// grained ownership checks in the handler. The limiter throttles
// creation; pass nil to skip it.
func RegisterReservations(e *echo.Echo, h *handler.ReservationHandler, jwtSecret string, limiter echo.MiddlewareFunc) {
	createMW := []echo.MiddlewareFunc{middleware.OptionalJWT(jwtSecret)}
	if limiter != nil {
		createMW = append(createMW, limiter)
	}
	e.POST("/v1/reservations", h.Create, createMW...)

	g := e.Group("/v1/reservations", middleware.JWTAuth(jwtSecret))
	g.GET("/my-reservations", h.ListMine)
	g.GET("/hotel/:hotelId", h.ListForHotel)
	g.PUT("/:id/status", h.UpdateStatus)
}
