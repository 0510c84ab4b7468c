package handler

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-booking-platform/internal/model"
	"github.com/iliyamo/hotel-booking-platform/internal/queue"
	"github.com/iliyamo/hotel-booking-platform/internal/repository"
	queue_publisher "github.com/iliyamo/hotel-booking-platform/internal/service"
)

// ReservationHandler implements the admission and lifecycle endpoints
// for reservations. Admission order matters: the product must exist
// (404) and be available (400) before the slot conflict check runs, so
// a caller probing a dead product never sees a misleading 409.
type ReservationHandler struct {
	Reservations *repository.ReservationRepo
	Products     *repository.ProductRepo
	Hotels       *repository.HotelRepo
}

func NewReservationHandler(r *repository.ReservationRepo, p *repository.ProductRepo, h *repository.HotelRepo) *ReservationHandler {
	return &ReservationHandler{Reservations: r, Products: p, Hotels: h}
}

type createReservationReq struct {
	HotelID       uint64 `json:"hotel_id"`
	ProductID     uint64 `json:"product_id"`
	CustomerPhone string `json:"customer_phone"`
	Date          string `json:"date"` // YYYY-MM-DD, or RFC3339 (time-of-day ignored)
}

type updateStatusReq struct {
	Status string `json:"status"`
}

// parseReservationDate accepts a plain calendar date or a full
// timestamp; either way only the calendar day survives.
func parseReservationDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

// Create admits a new reservation. Works for logged-in customers and
// for guests booking over the phone; with a valid bearer token the
// reservation is attached to the caller's account.
func (h *ReservationHandler) Create(c echo.Context) error {
	var req createReservationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.ProductID == 0 || strings.TrimSpace(req.CustomerPhone) == "" || strings.TrimSpace(req.Date) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "product_id, customer_phone and date required"})
	}
	day, err := parseReservationDate(req.Date)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	product, err := h.Products.GetByID(ctx, req.ProductID)
	if err != nil {
		if err == repository.ErrProductNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "product not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !product.IsAvailable {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "product is not available"})
	}
	if req.HotelID != 0 && req.HotelID != product.HotelID {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "product does not belong to the hotel"})
	}

	res := &model.Reservation{
		HotelID:       product.HotelID,
		ProductID:     product.ID,
		CustomerPhone: strings.TrimSpace(req.CustomerPhone),
		ReservedOn:    day,
	}
	if uid, err := getUserID(c); err == nil {
		res.UserID = &uid
	}

	if err := h.Reservations.Create(ctx, res); err != nil {
		switch err {
		case repository.ErrSlotTaken:
			return c.JSON(http.StatusConflict, echo.Map{"error": "already reserved for the selected date"})
		case repository.ErrUnknownUserRef:
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown user"})
		case repository.ErrUnknownProductRef:
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown product"})
		case repository.ErrUnknownHotelRef:
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown hotel"})
		case repository.ErrUnknownRef:
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reference"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create reservation failed"})
	}

	h.publishCreated(res, product)

	return c.JSON(http.StatusCreated, res)
}

// publishCreated emits the reservation.created event. Best effort:
// a broker outage must never fail an admitted reservation.
func (h *ReservationHandler) publishCreated(res *model.Reservation, product *model.Product) {
	ev := queue.ReservationCreatedEvent{
		ReservationID: res.ID,
		HotelID:       res.HotelID,
		ProductID:     product.ID,
		ProductName:   product.Name,
		ProductType:   product.Type,
		CustomerPhone: res.CustomerPhone,
		ReservedOn:    res.ReservedOn.UTC().Format("2006-01-02"),
		PriceCents:    product.PriceCents,
		CreatedAt:     res.CreatedAt.UTC().Format(time.RFC3339),
	}
	if res.UserID != nil {
		ev.UserID = *res.UserID
	}
	if hotel, err := h.Hotels.GetByID(context.Background(), res.HotelID); err == nil {
		ev.HotelName = hotel.Name
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := queue_publisher.PublishReservationCreated(ctx, ev); err != nil {
			log.Printf("reservation %d: publish event failed: %v", ev.ReservationID, err)
		}
	}()
}

// ListMine returns the caller's reservations with product and hotel
// summaries, newest first.
func (h *ReservationHandler) ListMine(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, err := h.Reservations.ListByUser(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"reservations": items})
}

// ListForHotel returns a hotel's reservation dashboard. Allowed for
// SUPER_ADMIN and for the HOTEL_ADMIN bound to that hotel.
func (h *ReservationHandler) ListForHotel(c echo.Context) error {
	hotelID, err := paramID(c, "hotelId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hotel id"})
	}

	role := getRole(c)
	if role != model.RoleSuperAdmin {
		bound := getHotelID(c)
		if role != model.RoleHotelAdmin || bound == nil || *bound != hotelID {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Hotels.GetByID(ctx, hotelID); err != nil {
		if err == repository.ErrHotelNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "hotel not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	items, err := h.Reservations.ListByHotel(ctx, hotelID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"reservations": items})
}

// UpdateStatus moves a reservation through its lifecycle. Allowed for
// the reservation's owner, the admin of the reservation's hotel and
// SUPER_ADMIN. Illegal lifecycle moves are rejected before any write.
func (h *ReservationHandler) UpdateStatus(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	var req updateStatusReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	target := strings.ToUpper(strings.TrimSpace(req.Status))
	if !model.ValidStatus(target) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	res, err := h.Reservations.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrReservationNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	if !h.canManage(c, res) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}

	if !model.CanTransition(res.Status, target) {
		return c.JSON(http.StatusConflict, echo.Map{"error": "invalid status transition"})
	}

	updated, err := h.Reservations.UpdateStatus(ctx, id, res.Status, target)
	if err != nil {
		switch err {
		case repository.ErrReservationNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		case repository.ErrStatusChanged:
			// Lost a race with a concurrent transition
			return c.JSON(http.StatusConflict, echo.Map{"error": "invalid status transition"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, updated)
}

// canManage reports whether the caller may act on a reservation: the
// owning user, the admin bound to the reservation's hotel, or a super
// admin. Guest bookings have no owning user and are managed by the
// hotel side only.
func (h *ReservationHandler) canManage(c echo.Context, res *model.Reservation) bool {
	role := getRole(c)
	if role == model.RoleSuperAdmin {
		return true
	}
	if role == model.RoleHotelAdmin {
		if bound := getHotelID(c); bound != nil && *bound == res.HotelID {
			return true
		}
		return false
	}
	uid, err := getUserID(c)
	if err != nil || res.UserID == nil {
		return false
	}
	return *res.UserID == uid
}
