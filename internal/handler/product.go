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

// ProductHandler implements CRUD for a hotel's bookable products.
type ProductHandler struct {
	Products *repository.ProductRepo
	Hotels   *repository.HotelRepo
}

func NewProductHandler(p *repository.ProductRepo, h *repository.HotelRepo) *ProductHandler {
	return &ProductHandler{Products: p, Hotels: h}
}

type createProductReq struct {
	Type        string  `json:"type"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	PriceCents  uint32  `json:"price_cents"`
	IsAvailable *bool   `json:"is_available"`
	IsSpecial   bool    `json:"is_special"`
	Image       *string `json:"image"`
}

type updateProductReq struct {
	Type        *string `json:"type"`
	Name        *string `json:"name"`
	Description *string `json:"description"`
	PriceCents  *uint32 `json:"price_cents"`
	IsAvailable *bool   `json:"is_available"`
	IsSpecial   *bool   `json:"is_special"`
	Image       *string `json:"image"`
}

// Create adds a product to the caller's hotel. HOTEL_ADMIN only; the
// hotel is taken from the token binding, never from the body, so an
// admin cannot plant products in another tenant.
func (p *ProductHandler) Create(c echo.Context) error {
	bound := getHotelID(c)
	if bound == nil {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "no hotel bound to account"})
	}
	var req createProductReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Type = strings.ToUpper(strings.TrimSpace(req.Type))
	if req.Name == "" || !model.ValidProductType(req.Type) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and valid type required"})
	}
	available := true
	if req.IsAvailable != nil {
		available = *req.IsAvailable
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	product := &model.Product{
		HotelID:     *bound,
		Type:        req.Type,
		Name:        req.Name,
		Description: req.Description,
		PriceCents:  req.PriceCents,
		IsAvailable: available,
		IsSpecial:   req.IsSpecial,
		Image:       req.Image,
	}
	if err := p.Products.Create(ctx, product); err != nil {
		if err == repository.ErrUnknownHotelRef {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown hotel"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create product failed"})
	}
	return c.JSON(http.StatusCreated, product)
}

// ListByHotel returns a hotel's products, public.
func (p *ProductHandler) ListByHotel(c echo.Context) error {
	hotelID, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hotel id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := p.Hotels.GetByID(ctx, hotelID); err != nil {
		if err == repository.ErrHotelNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "hotel not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	items, err := p.Products.ListByHotel(ctx, hotelID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"products": items})
}

// Update merges the provided fields into a product. Allowed for the
// owning hotel's admin and for super admins.
func (p *ProductHandler) Update(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid product id"})
	}
	var req updateProductReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	product, err := p.Products.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrProductNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "product not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !p.canManage(c, product.HotelID) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}

	if req.Type != nil {
		t := strings.ToUpper(strings.TrimSpace(*req.Type))
		if !model.ValidProductType(t) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid type"})
		}
		product.Type = t
	}
	if req.Name != nil && strings.TrimSpace(*req.Name) != "" {
		product.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		product.Description = req.Description
	}
	if req.PriceCents != nil {
		product.PriceCents = *req.PriceCents
	}
	if req.IsAvailable != nil {
		product.IsAvailable = *req.IsAvailable
	}
	if req.IsSpecial != nil {
		product.IsSpecial = *req.IsSpecial
	}
	if req.Image != nil {
		product.Image = req.Image
	}

	if err := p.Products.Update(ctx, product); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, product)
}

// Delete removes a product. Products with reservation history are kept
// by the schema, which surfaces here as a conflict.
func (p *ProductHandler) Delete(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid product id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	product, err := p.Products.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrProductNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "product not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !p.canManage(c, product.HotelID) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}

	if err := p.Products.Delete(ctx, id); err != nil {
		if err == repository.ErrProductNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "product not found"})
		}
		if err == repository.ErrProductInUse {
			return c.JSON(http.StatusConflict, echo.Map{"error": "product has reservations"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

func (p *ProductHandler) canManage(c echo.Context, hotelID uint64) bool {
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
