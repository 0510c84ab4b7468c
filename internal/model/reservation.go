package model

import "time"

// Reservation statuses.  A reservation is created PENDING and moves
// through the lifecycle below.  COMPLETED and CANCELLED are terminal.
// Only CANCELLED rows release their slot; every other status keeps the
// (product, day) pair occupied.
const (
	StatusPending   = "PENDING"
	StatusConfirmed = "CONFIRMED"
	StatusCompleted = "COMPLETED"
	StatusCancelled = "CANCELLED"
)

// statusTransitions encodes the legal lifecycle moves.  Terminal
// states map to an empty set, so nothing can be re-opened.
var statusTransitions = map[string][]string{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCompleted, StatusCancelled},
	StatusCompleted: {},
	StatusCancelled: {},
}

// ValidStatus reports whether s is a known reservation status.
func ValidStatus(s string) bool {
	_, ok := statusTransitions[s]
	return ok
}

// CanTransition reports whether a reservation may move from one status
// to another.  Same-status updates are rejected like any other illegal
// move.
func CanTransition(from, to string) bool {
	for _, allowed := range statusTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// NormalizeDay truncates t to the start of its calendar day in UTC.
// Every time-of-day between 00:00:00 and 23:59:59.999 of the same date
// maps to the same value, which is what the slot uniqueness check and
// the `reserved_on` DATE column operate on.
func NormalizeDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// Reservation records one customer's claim on one product for one
// calendar day.  UserID is nil for guest bookings taken over the
// phone; CustomerPhone is always required so the hotel can reach the
// customer either way.  This struct corresponds to a row in the
// `reservations` table.
//
// Fields:
//  ID            - primary key identifier.
//  HotelID       - tenant, denormalized from the product for query convenience.
//  ProductID     - the bookable unit being claimed.
//  UserID        - booking user, nil for phone-only bookings.
//  CustomerPhone - contact phone, free text.
//  ReservedOn    - the calendar day of the claim (time-of-day ignored).
//  Status        - lifecycle status, see constants above.
//  CreatedAt     - creation timestamp.
//  UpdatedAt     - last update timestamp.
type Reservation struct {
	ID            uint64    `json:"id"`             // reservations.id
	HotelID       uint64    `json:"hotel_id"`       // reservations.hotel_id
	ProductID     uint64    `json:"product_id"`     // reservations.product_id
	UserID        *uint64   `json:"user_id"`        // reservations.user_id (nullable)
	CustomerPhone string    `json:"customer_phone"` // reservations.customer_phone
	ReservedOn    time.Time `json:"reserved_on"`    // reservations.reserved_on (DATE)
	Status        string    `json:"status"`         // reservations.status
	CreatedAt     time.Time `json:"created_at"`     // reservations.created_at
	UpdatedAt     time.Time `json:"updated_at"`     // reservations.updated_at
}
