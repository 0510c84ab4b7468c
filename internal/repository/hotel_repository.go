// This file defines repository methods for hotels, the tenants of the
// platform. Hotel creation and deletion are paired with the hotel's
// admin account and therefore run inside transactions.
package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/hotel-booking-platform/internal/model"
)

// HotelRepo encapsulates all database queries related to hotels.
type HotelRepo struct {
	db *sql.DB
}

// NewHotelRepo constructs a HotelRepo with the provided DB handle.
func NewHotelRepo(db *sql.DB) *HotelRepo {
	return &HotelRepo{db: db}
}

// DB exposes the underlying handle for callers that need to compose a
// transaction spanning several repositories.
func (r *HotelRepo) DB() *sql.DB { return r.db }

const hotelColumns = "id, admin_id, name, location, description, image, opening_time, closing_time, is_suspended, is_closed, rating, created_at, updated_at"

// CreateTx inserts a hotel within an existing transaction and
// populates the generated ID and timestamp fields on h.
func (r *HotelRepo) CreateTx(ctx context.Context, tx *sql.Tx, h *model.Hotel) error {
	const q = `INSERT INTO hotels (admin_id, name, location, description, image, opening_time, closing_time)
	           VALUES (?,?,?,?,?,?,?)`
	res, err := tx.ExecContext(ctx, q,
		h.AdminID, h.Name, h.Location, h.Description, h.Image, h.OpeningTime, h.ClosingTime)
	if err != nil {
		return mapForeignKeyErr(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	h.ID = uint64(id)
	// Query back the full row to populate defaults
	return scanHotel(tx.QueryRowContext(ctx,
		"SELECT "+hotelColumns+" FROM hotels WHERE id=?", h.ID), h)
}

// GetByID returns one hotel or ErrHotelNotFound.
func (r *HotelRepo) GetByID(ctx context.Context, id uint64) (*model.Hotel, error) {
	var h model.Hotel
	err := scanHotel(r.db.QueryRowContext(ctx,
		"SELECT "+hotelColumns+" FROM hotels WHERE id=?", id), &h)
	if err == sql.ErrNoRows {
		return nil, ErrHotelNotFound
	}
	if err != nil {
		return nil, err
	}
	return &h, nil
}

// GetByAdminID returns the hotel bound to an admin account, or
// ErrHotelNotFound when the user administers no hotel.
func (r *HotelRepo) GetByAdminID(ctx context.Context, adminID uint64) (*model.Hotel, error) {
	var h model.Hotel
	err := scanHotel(r.db.QueryRowContext(ctx,
		"SELECT "+hotelColumns+" FROM hotels WHERE admin_id=? LIMIT 1", adminID), &h)
	if err == sql.ErrNoRows {
		return nil, ErrHotelNotFound
	}
	if err != nil {
		return nil, err
	}
	return &h, nil
}

// List returns all hotels. Suspended hotels are filtered out unless
// showSuspended is set (super-admin dashboards pass true).
func (r *HotelRepo) List(ctx context.Context, showSuspended bool) ([]model.Hotel, error) {
	q := "SELECT " + hotelColumns + " FROM hotels"
	if !showSuspended {
		q += " WHERE is_suspended = FALSE"
	}
	q += " ORDER BY name"
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := make([]model.Hotel, 0)
	for rows.Next() {
		var h model.Hotel
		if err := scanHotel(rows, &h); err != nil {
			return nil, err
		}
		items = append(items, h)
	}
	return items, rows.Err()
}

// Update rewrites the mutable hotel fields. The handler is responsible
// for merging partial input with the current record first.
func (r *HotelRepo) Update(ctx context.Context, h *model.Hotel) error {
	const q = `UPDATE hotels
	           SET name=?, location=?, description=?, image=?, opening_time=?, closing_time=?, is_closed=?
	           WHERE id=?`
	res, err := r.db.ExecContext(ctx, q,
		h.Name, h.Location, h.Description, h.Image, h.OpeningTime, h.ClosingTime, h.IsClosed, h.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.GetByID(ctx, h.ID); err != nil {
			return err
		}
	}
	return nil
}

// SetSuspended toggles the platform-level suspension flag.
func (r *HotelRepo) SetSuspended(ctx context.Context, id uint64, suspended bool) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE hotels SET is_suspended=? WHERE id=?", suspended, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

// DeleteWithAdmin removes a hotel together with its admin account in
// one transaction, mirroring how the pair is created. Children are
// deleted explicitly in dependency order; the product FK on
// reservations is RESTRICT, so leaning on cascades would abort the
// delete for any hotel with booking history.
func (r *HotelRepo) DeleteWithAdmin(ctx context.Context, id uint64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var adminID uint64
	err = tx.QueryRowContext(ctx, "SELECT admin_id FROM hotels WHERE id=?", id).Scan(&adminID)
	if err == sql.ErrNoRows {
		return ErrHotelNotFound
	}
	if err != nil {
		return err
	}
	for _, q := range []string{
		"DELETE FROM reservations WHERE hotel_id=?",
		"DELETE FROM reviews WHERE hotel_id=?",
		"DELETE FROM products WHERE hotel_id=?",
		"DELETE FROM hotels WHERE id=?",
	} {
		if _, err := tx.ExecContext(ctx, q, id); err != nil {
			return err
		}
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM users WHERE id=?", adminID); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanHotel(row rowScanner, h *model.Hotel) error {
	var desc, image sql.NullString
	err := row.Scan(
		&h.ID, &h.AdminID, &h.Name, &h.Location, &desc, &image,
		&h.OpeningTime, &h.ClosingTime, &h.IsSuspended, &h.IsClosed,
		&h.Rating, &h.CreatedAt, &h.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if desc.Valid {
		h.Description = &desc.String
	}
	if image.Valid {
		h.Image = &image.String
	}
	return nil
}
