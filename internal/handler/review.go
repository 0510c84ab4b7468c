package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-booking-platform/internal/model"
	"github.com/iliyamo/hotel-booking-platform/internal/repository"
)

// ReviewHandler implements guest reviews for hotel pages.
type ReviewHandler struct {
	Reviews *repository.ReviewRepo
	Hotels  *repository.HotelRepo
}

func NewReviewHandler(rv *repository.ReviewRepo, h *repository.HotelRepo) *ReviewHandler {
	return &ReviewHandler{Reviews: rv, Hotels: h}
}

type createReviewReq struct {
	HotelID uint64  `json:"hotel_id"`
	Rating  uint8   `json:"rating"`
	Comment *string `json:"comment"`
}

// Create posts a review for a hotel. Requires auth; one user may post
// several reviews, the listing simply shows the latest.
func (r *ReviewHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createReviewReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.HotelID == 0 || req.Rating < 1 || req.Rating > 5 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "hotel_id and rating 1-5 required"})
	}
	if req.Comment != nil && strings.TrimSpace(*req.Comment) == "" {
		req.Comment = nil
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := r.Hotels.GetByID(ctx, req.HotelID); err != nil {
		if err == repository.ErrHotelNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "hotel not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	review := &model.Review{
		HotelID: req.HotelID,
		UserID:  &uid,
		Rating:  req.Rating,
		Comment: req.Comment,
	}
	if err := r.Reviews.Create(ctx, review); err != nil {
		if err == repository.ErrUnknownHotelRef || err == repository.ErrUnknownUserRef {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reference"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create review failed"})
	}
	return c.JSON(http.StatusCreated, review)
}

// ListByHotel returns the latest reviews for a hotel, public.
func (r *ReviewHandler) ListByHotel(c echo.Context) error {
	hotelID, err := paramID(c, "hotelId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hotel id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, err := r.Reviews.ListByHotel(ctx, hotelID, 10)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"reviews": items})
}
