package middleware // middleware contains reusable HTTP middleware functions

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// JWTAuth returns an Echo middleware that validates a Bearer access token
// and injects the token's subject, role and hotel binding claims into the
// request context. The provided secret must match the one used when
// issuing tokens. Handlers behind this middleware read identity via
// c.Get("user_id"), c.Get("role") and c.Get("hotel_id").
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, err := parseBearer(c, secret)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": err.Error()})
			}
			injectClaims(c, claims)
			return next(c)
		}
	}
}

// OptionalJWT behaves like JWTAuth when a valid bearer token is present
// and passes the request through anonymously otherwise. Reservation
// creation uses it: hotels take phone bookings for guests without
// accounts, so a missing credential is not an error there. A token that
// is present but invalid is still rejected, so a caller cannot
// accidentally book anonymously with an expired session.
func OptionalJWT(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if auth == "" {
				return next(c)
			}
			claims, err := parseBearer(c, secret)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": err.Error()})
			}
			injectClaims(c, claims)
			return next(c)
		}
	}
}

// parseBearer extracts and verifies the HS256 bearer token on the request.
func parseBearer(c echo.Context, secret string) (jwt.MapClaims, error) {
	auth := c.Request().Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return nil, errMissingToken
	}
	raw := strings.TrimPrefix(auth, "Bearer ")
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, echo.ErrUnauthorized
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return nil, errInvalidToken
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errInvalidToken
	}
	return claims, nil
}

// injectClaims stores the identity claims in the Echo context. Type
// assertions are left to downstream consumers.
func injectClaims(c echo.Context, claims jwt.MapClaims) {
	c.Set("user_id", claims["sub"])
	c.Set("role", claims["role"])
	if v, ok := claims["hotel_id"]; ok {
		c.Set("hotel_id", v)
	}
}

type authError string

func (e authError) Error() string { return string(e) }

const (
	errMissingToken = authError("missing bearer token")
	errInvalidToken = authError("invalid token")
)
