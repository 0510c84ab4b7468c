package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/hotel-booking-platform/internal/model"
)

// ReviewRepo persists guest reviews and computes the rating averages
// shown on hotel pages.
type ReviewRepo struct {
	db *sql.DB
}

// NewReviewRepo returns a new ReviewRepo bound to the given database.
func NewReviewRepo(db *sql.DB) *ReviewRepo { return &ReviewRepo{db: db} }

// Create inserts a review and populates generated fields on rv.
func (r *ReviewRepo) Create(ctx context.Context, rv *model.Review) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO reviews (hotel_id, user_id, rating, comment) VALUES (?,?,?,?)",
		rv.HotelID, nullableID(rv.UserID), rv.Rating, rv.Comment)
	if err != nil {
		return mapForeignKeyErr(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rv.ID = uint64(id)
	var userID sql.NullInt64
	var comment sql.NullString
	err = r.db.QueryRowContext(ctx,
		"SELECT id, hotel_id, user_id, rating, comment, created_at FROM reviews WHERE id=?",
		rv.ID).Scan(&rv.ID, &rv.HotelID, &userID, &rv.Rating, &comment, &rv.CreatedAt)
	if err != nil {
		return err
	}
	if userID.Valid {
		uid := uint64(userID.Int64)
		rv.UserID = &uid
	}
	if comment.Valid {
		rv.Comment = &comment.String
	}
	return nil
}

// ListByHotel returns the latest reviews for a hotel, newest first,
// capped at limit (the hotel page shows ten).
func (r *ReviewRepo) ListByHotel(ctx context.Context, hotelID uint64, limit int) ([]model.Review, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, hotel_id, user_id, rating, comment, created_at FROM reviews WHERE hotel_id=? ORDER BY created_at DESC, id DESC LIMIT ?",
		hotelID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := make([]model.Review, 0)
	for rows.Next() {
		var (
			rv      model.Review
			userID  sql.NullInt64
			comment sql.NullString
		)
		if err := rows.Scan(&rv.ID, &rv.HotelID, &userID, &rv.Rating, &comment, &rv.CreatedAt); err != nil {
			return nil, err
		}
		if userID.Valid {
			uid := uint64(userID.Int64)
			rv.UserID = &uid
		}
		if comment.Valid {
			rv.Comment = &comment.String
		}
		items = append(items, rv)
	}
	return items, rows.Err()
}

// AverageForHotel returns the review average and count for a hotel.
// With no reviews the average is 0 and callers fall back to the
// hotel's stored rating.
func (r *ReviewRepo) AverageForHotel(ctx context.Context, hotelID uint64) (float64, int, error) {
	var (
		avg   sql.NullFloat64
		count int
	)
	err := r.db.QueryRowContext(ctx,
		"SELECT AVG(rating), COUNT(*) FROM reviews WHERE hotel_id=?", hotelID).Scan(&avg, &count)
	if err != nil {
		return 0, 0, err
	}
	return avg.Float64, count, nil
}

// nullableID converts a nil ID pointer to a SQL NULL.
func nullableID(id *uint64) interface{} {
	if id == nil {
		return nil
	}
	return *id
}
