package model

import "time"

// Product type tags.  A product is any bookable unit a hotel offers:
// a room for the night, a table d'hote meal, a spa slot and so on.
const (
	ProductRoom  = "ROOM"
	ProductMeal  = "MEAL"
	ProductDrink = "DRINK"
	ProductSpa   = "SPA"
	ProductOther = "OTHER"
)

// ValidProductType reports whether t is one of the known product type tags.
func ValidProductType(t string) bool {
	switch t {
	case ProductRoom, ProductMeal, ProductDrink, ProductSpa, ProductOther:
		return true
	}
	return false
}

// Product represents a bookable unit owned by a hotel.  The
// availability flag gates new reservations only; flipping it later
// never touches reservations that already exist.  This struct
// corresponds to a row in the `products` table.
//
// Fields:
//  ID          - primary key identifier.
//  HotelID     - owning hotel (tenant).
//  Type        - product type tag (ROOM, MEAL, DRINK, SPA, OTHER).
//  Name        - display name.
//  Description - optional description.
//  PriceCents  - price in cents.
//  IsAvailable - whether new reservations are admitted.
//  IsSpecial   - highlighted on the hotel page.
//  Image       - optional image URL.
//  CreatedAt   - creation timestamp.
//  UpdatedAt   - last update timestamp.
type Product struct {
	ID          uint64    `json:"id"`           // products.id
	HotelID     uint64    `json:"hotel_id"`     // products.hotel_id
	Type        string    `json:"type"`         // products.type
	Name        string    `json:"name"`         // products.name
	Description *string   `json:"description"`  // products.description (nullable)
	PriceCents  uint32    `json:"price_cents"`  // products.price_cents
	IsAvailable bool      `json:"is_available"` // products.is_available
	IsSpecial   bool      `json:"is_special"`   // products.is_special
	Image       *string   `json:"image"`        // products.image (nullable)
	CreatedAt   time.Time `json:"created_at"`   // products.created_at
	UpdatedAt   time.Time `json:"updated_at"`   // products.updated_at
}
