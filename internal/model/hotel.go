package model

import "time"

// Hotel represents a single tenant of the platform.  Every hotel is
// managed by exactly one HOTEL_ADMIN user and owns a set of bookable
// products.  This struct corresponds to a row in the `hotels` table.
//
// Fields:
//  ID          - primary key identifier.
//  AdminID     - user ID of the hotel's administrator.
//  Name        - display name of the hotel.
//  Location    - free-text address or area.
//  Description - optional marketing description.
//  Image       - optional image URL.
//  OpeningTime - daily opening time as "HH:MM".
//  ClosingTime - daily closing time as "HH:MM".
//  IsSuspended - platform-level suspension flag set by a super admin.
//  IsClosed    - manual open/closed toggle set by the hotel admin.
//  Rating      - admin-assigned fallback rating, overridden by review averages.
//  CreatedAt   - timestamp when the hotel was created.
//  UpdatedAt   - timestamp of last update.
type Hotel struct {
	ID          uint64    `json:"id"`           // hotels.id
	AdminID     uint64    `json:"admin_id"`     // hotels.admin_id
	Name        string    `json:"name"`         // hotels.name
	Location    string    `json:"location"`     // hotels.location
	Description *string   `json:"description"`  // hotels.description (nullable)
	Image       *string   `json:"image"`        // hotels.image (nullable)
	OpeningTime string    `json:"opening_time"` // hotels.opening_time
	ClosingTime string    `json:"closing_time"` // hotels.closing_time
	IsSuspended bool      `json:"is_suspended"` // hotels.is_suspended
	IsClosed    bool      `json:"is_closed"`    // hotels.is_closed
	Rating      float64   `json:"rating"`       // hotels.rating
	CreatedAt   time.Time `json:"created_at"`   // hotels.created_at
	UpdatedAt   time.Time `json:"updated_at"`   // hotels.updated_at
}
