// Package queue defines message payloads exchanged over the message broker.
package queue

// ReservationCreatedEvent is published when a reservation is admitted.
// It carries enough context for downstream consumers to log or notify
// without querying the primary database. UserID is 0 for guest phone
// bookings.
type ReservationCreatedEvent struct {
	ReservationID uint64 `json:"reservation_id"`
	HotelID       uint64 `json:"hotel_id"`
	HotelName     string `json:"hotel_name"`
	ProductID     uint64 `json:"product_id"`
	ProductName   string `json:"product_name"`
	ProductType   string `json:"product_type"`
	UserID        uint64 `json:"user_id"`
	CustomerPhone string `json:"customer_phone"`
	ReservedOn    string `json:"reserved_on"` // YYYY-MM-DD
	PriceCents    uint32 `json:"price_cents"`
	CreatedAt     string `json:"created_at"`
}
