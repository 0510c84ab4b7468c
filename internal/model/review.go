package model

import "time"

// Review is a guest rating left for a hotel.  Reviews feed the
// average shown on the hotel page; the hotel's stored rating is only a
// fallback when no reviews exist yet.
//
// Fields:
//  ID        - primary key identifier.
//  HotelID   - hotel being reviewed.
//  UserID    - author, nil when submitted anonymously.
//  Rating    - integer score from 1 to 5.
//  Comment   - optional free-text comment.
//  CreatedAt - creation timestamp.
type Review struct {
	ID        uint64    `json:"id"`         // reviews.id
	HotelID   uint64    `json:"hotel_id"`   // reviews.hotel_id
	UserID    *uint64   `json:"user_id"`    // reviews.user_id (nullable)
	Rating    uint8     `json:"rating"`     // reviews.rating
	Comment   *string   `json:"comment"`    // reviews.comment (nullable)
	CreatedAt time.Time `json:"created_at"` // reviews.created_at
}
