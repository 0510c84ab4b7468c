package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-booking-platform/internal/config"
	"github.com/iliyamo/hotel-booking-platform/internal/model"
	"github.com/iliyamo/hotel-booking-platform/internal/repository"
	"github.com/iliyamo/hotel-booking-platform/internal/utils"
)

// HotelHandler implements the tenant management endpoints. A hotel and
// its admin account are one unit: created together, deleted together.
type HotelHandler struct {
	Cfg      config.Config
	Hotels   *repository.HotelRepo
	Products *repository.ProductRepo
	Reviews  *repository.ReviewRepo
	Users    *repository.UserRepo
}

func NewHotelHandler(cfg config.Config, h *repository.HotelRepo, p *repository.ProductRepo, rv *repository.ReviewRepo, u *repository.UserRepo) *HotelHandler {
	return &HotelHandler{Cfg: cfg, Hotels: h, Products: p, Reviews: rv, Users: u}
}

type createHotelReq struct {
	Name          string  `json:"name"`
	Location      string  `json:"location"`
	Description   *string `json:"description"`
	Image         *string `json:"image"`
	OpeningTime   string  `json:"opening_time"`
	ClosingTime   string  `json:"closing_time"`
	AdminName     string  `json:"admin_name"`
	AdminEmail    string  `json:"admin_email"`
	AdminPassword string  `json:"admin_password"`
}

type updateHotelReq struct {
	Name        *string `json:"name"`
	Location    *string `json:"location"`
	Description *string `json:"description"`
	Image       *string `json:"image"`
	OpeningTime *string `json:"opening_time"`
	ClosingTime *string `json:"closing_time"`
	IsClosed    *bool   `json:"is_closed"`
}

type suspendReq struct {
	Suspended bool `json:"suspended"`
}

// Create registers a new hotel together with its HOTEL_ADMIN account
// in one transaction, so a half-created tenant can never exist.
// SUPER_ADMIN only (enforced by route middleware).
func (h *HotelHandler) Create(c echo.Context) error {
	var req createHotelReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Location = strings.TrimSpace(req.Location)
	req.AdminEmail = strings.ToLower(strings.TrimSpace(req.AdminEmail))
	if req.Name == "" || req.Location == "" || req.AdminEmail == "" || req.AdminPassword == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name, location, admin_email and admin_password required"})
	}
	if req.OpeningTime == "" {
		req.OpeningTime = "08:00"
	}
	if req.ClosingTime == "" {
		req.ClosingTime = "22:00"
	}
	if req.AdminName == "" {
		req.AdminName = req.Name + " admin"
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	passwordHash, err := utils.HashPassword(req.AdminPassword, h.Cfg.BcryptCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "hash failed"})
	}

	tx, err := h.Hotels.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "begin failed"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	adminID, err := h.Users.CreateTx(ctx, tx, req.AdminEmail, passwordHash, model.RoleHotelAdmin, req.AdminName)
	if err != nil {
		if err == repository.ErrEmailExists {
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create admin failed"})
	}

	hotel := &model.Hotel{
		AdminID:     adminID,
		Name:        req.Name,
		Location:    req.Location,
		Description: req.Description,
		Image:       req.Image,
		OpeningTime: req.OpeningTime,
		ClosingTime: req.ClosingTime,
	}
	if err := h.Hotels.CreateTx(ctx, tx, hotel); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create hotel failed"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "commit failed"})
	}
	committed = true

	return c.JSON(http.StatusCreated, echo.Map{
		"hotel":       hotel,
		"admin_id":    adminID,
		"admin_email": req.AdminEmail,
	})
}

// List returns all hotels. Suspended ones are hidden unless the caller
// asks for them with ?show_suspended=true; only super admins get them.
func (h *HotelHandler) List(c echo.Context) error {
	showSuspended := c.QueryParam("show_suspended") == "true" && getRole(c) == model.RoleSuperAdmin

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, err := h.Hotels.List(ctx, showSuspended)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"hotels": items})
}

// Get returns one hotel page: the hotel, its products, the latest
// reviews and the review average. With no reviews the stored rating
// stands in.
func (h *HotelHandler) Get(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hotel id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	hotel, err := h.Hotels.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrHotelNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "hotel not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	products, err := h.Products.ListByHotel(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	reviews, err := h.Reviews.ListByHotel(ctx, id, 10)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	avg, count, err := h.Reviews.AverageForHotel(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	rating := hotel.Rating
	if count > 0 {
		rating = avg
	}

	return c.JSON(http.StatusOK, echo.Map{
		"hotel":        hotel,
		"products":     products,
		"reviews":      reviews,
		"rating":       rating,
		"review_count": count,
	})
}

// Update merges the provided fields into the hotel. Allowed for the
// hotel's own admin and for super admins.
func (h *HotelHandler) Update(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hotel id"})
	}
	if !h.canManage(c, id) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	var req updateHotelReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	hotel, err := h.Hotels.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrHotelNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "hotel not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	if req.Name != nil && strings.TrimSpace(*req.Name) != "" {
		hotel.Name = strings.TrimSpace(*req.Name)
	}
	if req.Location != nil && strings.TrimSpace(*req.Location) != "" {
		hotel.Location = strings.TrimSpace(*req.Location)
	}
	if req.Description != nil {
		hotel.Description = req.Description
	}
	if req.Image != nil {
		hotel.Image = req.Image
	}
	if req.OpeningTime != nil {
		hotel.OpeningTime = *req.OpeningTime
	}
	if req.ClosingTime != nil {
		hotel.ClosingTime = *req.ClosingTime
	}
	if req.IsClosed != nil {
		hotel.IsClosed = *req.IsClosed
	}

	if err := h.Hotels.Update(ctx, hotel); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, hotel)
}

// Suspend toggles the platform-level suspension flag. SUPER_ADMIN only
// (enforced by route middleware).
func (h *HotelHandler) Suspend(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hotel id"})
	}
	var req suspendReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Hotels.SetSuspended(ctx, id, req.Suspended); err != nil {
		if err == repository.ErrHotelNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "hotel not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"id": id, "is_suspended": req.Suspended})
}

// Delete removes a hotel and its admin account. SUPER_ADMIN only
// (enforced by route middleware).
func (h *HotelHandler) Delete(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hotel id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Hotels.DeleteWithAdmin(ctx, id); err != nil {
		if err == repository.ErrHotelNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "hotel not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// canManage reports whether the caller may modify the given hotel.
func (h *HotelHandler) canManage(c echo.Context, hotelID uint64) bool {
	role := getRole(c)
	if role == model.RoleSuperAdmin {
		return true
	}
	if role != model.RoleHotelAdmin {
		return false
	}
	bound := getHotelID(c)
	return bound != nil && *bound == hotelID
}
