package handler // handler defines http handlers

import (
	"errors"
	"strconv"

	"github.com/labstack/echo/v4"
)

// getUserID extracts the user_id from echo.Context and converts it to
// uint64. JWT numeric claims arrive as float64; tests and other
// middleware may store native integer types, so all of them are
// accepted.
func getUserID(c echo.Context) (uint64, error) {
	v := c.Get("user_id")
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// getRole returns the role claim from the context, or "" when absent.
func getRole(c echo.Context) string {
	if s, ok := c.Get("role").(string); ok {
		return s
	}
	return ""
}

// getHotelID returns the hotel binding claim for HOTEL_ADMIN callers,
// or nil when the token carries none.
func getHotelID(c echo.Context) *uint64 {
	v := c.Get("hotel_id")
	switch t := v.(type) {
	case uint64:
		return &t
	case int:
		id := uint64(t)
		return &id
	case int64:
		id := uint64(t)
		return &id
	case float64:
		id := uint64(t)
		return &id
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return &n
		}
	}
	return nil
}

// paramID parses a numeric path parameter.
func paramID(c echo.Context, name string) (uint64, error) {
	return strconv.ParseUint(c.Param(name), 10, 64)
}
