package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/hotel-booking-platform/internal/model"
)

// ReservationRepo owns the admission of new reservations and the
// queries behind the reservation listings. The invariant it protects:
// for a given product and calendar day, at most one reservation whose
// status is not CANCELLED may exist.
//
// The invariant is enforced twice. Create runs a transactional
// pre-check so most conflicts fail early with a friendly error, but
// the real guard is the unique index uq_product_day_active on
// (product_id, reserved_on, active_slot), where active_slot is a
// generated column that is NULL for CANCELLED rows. Two concurrent
// requests for the same slot therefore cannot both commit: the loser
// of the race hits error 1062 on insert, and both failure paths
// surface as ErrSlotTaken.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a new ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

const reservationColumns = "id, hotel_id, product_id, user_id, customer_phone, reserved_on, status, created_at, updated_at"

// Create admits a new reservation. The caller supplies HotelID,
// ProductID, UserID (nil for phone bookings), CustomerPhone and
// ReservedOn; the day is normalized here so any time-of-day maps to
// the same slot. On success the record is populated with its ID,
// PENDING status and timestamps. Returns ErrSlotTaken when the slot
// is occupied and a reference sentinel when a foreign key fails.
func (r *ReservationRepo) Create(ctx context.Context, res *model.Reservation) error {
	day := model.NormalizeDay(res.ReservedOn)

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

	// Optimistic pre-check. FOR UPDATE locks an existing conflicting
	// row so a doomed insert fails here instead of at the index; when
	// no row exists yet the unique index is what decides the race.
	const qCheck = `SELECT id FROM reservations
	                WHERE product_id = ? AND reserved_on = ? AND status <> 'CANCELLED'
	                LIMIT 1 FOR UPDATE`
	var existing uint64
	err = tx.QueryRowContext(ctx, qCheck, res.ProductID, day).Scan(&existing)
	if err == nil {
		return ErrSlotTaken
	}
	if err != sql.ErrNoRows {
		return err
	}

	const qInsert = `INSERT INTO reservations (hotel_id, product_id, user_id, customer_phone, reserved_on, status)
	                 VALUES (?,?,?,?,?,?)`
	result, err := tx.ExecContext(ctx, qInsert,
		res.HotelID, res.ProductID, nullableID(res.UserID), res.CustomerPhone, day, model.StatusPending)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrSlotTaken
		}
		return mapForeignKeyErr(err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	res.ID = uint64(id)

	// Query back the full row to populate timestamps and defaults
	if err := scanReservation(tx.QueryRowContext(ctx,
		"SELECT "+reservationColumns+" FROM reservations WHERE id = ?", res.ID), res); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// GetByID returns one reservation or ErrReservationNotFound.
func (r *ReservationRepo) GetByID(ctx context.Context, id uint64) (*model.Reservation, error) {
	var res model.Reservation
	err := scanReservation(r.db.QueryRowContext(ctx,
		"SELECT "+reservationColumns+" FROM reservations WHERE id = ?", id), &res)
	if err == sql.ErrNoRows {
		return nil, ErrReservationNotFound
	}
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// UpdateStatus moves a reservation from one status to another. The
// WHERE clause repeats the expected current status so a concurrent
// transition loses cleanly: zero affected rows yields ErrStatusChanged
// and the caller re-reads. Legality of the transition itself is the
// handler's job (model.CanTransition); this method only guarantees the
// row still was what the caller validated against.
func (r *ReservationRepo) UpdateStatus(ctx context.Context, id uint64, from, to string) (*model.Reservation, error) {
	result, err := r.db.ExecContext(ctx,
		"UPDATE reservations SET status=? WHERE id=? AND status=?", to, id, from)
	if err != nil {
		return nil, err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return nil, err // ErrReservationNotFound
		}
		return nil, ErrStatusChanged
	}
	return r.GetByID(ctx, id)
}

// ProductSummary is the slice of product data embedded in reservation
// listings so dashboards render without extra lookups.
type ProductSummary struct {
	ID         uint64 `json:"id"`
	Type       string `json:"type"`
	Name       string `json:"name"`
	PriceCents uint32 `json:"price_cents"`
}

// HotelSummary is the hotel data embedded in a customer's reservation
// listing.
type HotelSummary struct {
	ID       uint64 `json:"id"`
	Name     string `json:"name"`
	Location string `json:"location"`
}

// HotelReservationDetail is one row of the per-hotel dashboard
// listing: the reservation plus its product.
type HotelReservationDetail struct {
	ID            uint64         `json:"id"`
	ProductID     uint64         `json:"product_id"`
	UserID        *uint64        `json:"user_id"`
	CustomerPhone string         `json:"customer_phone"`
	ReservedOn    string         `json:"reserved_on"` // YYYY-MM-DD
	Status        string         `json:"status"`
	CreatedAt     time.Time      `json:"created_at"`
	Product       ProductSummary `json:"product"`
}

// UserReservationDetail is one row of a customer's own listing: the
// reservation plus product and hotel summaries.
type UserReservationDetail struct {
	ID            uint64         `json:"id"`
	CustomerPhone string         `json:"customer_phone"`
	ReservedOn    string         `json:"reserved_on"` // YYYY-MM-DD
	Status        string         `json:"status"`
	CreatedAt     time.Time      `json:"created_at"`
	Product       ProductSummary `json:"product"`
	Hotel         HotelSummary   `json:"hotel"`
}

// ListByHotel returns all reservations for a hotel with their
// products, newest first. The id tiebreak keeps the order stable for
// rows created within the same second.
func (r *ReservationRepo) ListByHotel(ctx context.Context, hotelID uint64) ([]HotelReservationDetail, error) {
	const q = `SELECT r.id, r.product_id, r.user_id, r.customer_phone, r.reserved_on, r.status, r.created_at,
	                  p.id, p.type, p.name, p.price_cents
	           FROM reservations r
	           JOIN products p ON p.id = r.product_id
	           WHERE r.hotel_id = ?
	           ORDER BY r.created_at DESC, r.id DESC`
	rows, err := r.db.QueryContext(ctx, q, hotelID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	details := make([]HotelReservationDetail, 0)
	for rows.Next() {
		var (
			d      HotelReservationDetail
			userID sql.NullInt64
			day    time.Time
		)
		if err := rows.Scan(
			&d.ID, &d.ProductID, &userID, &d.CustomerPhone, &day, &d.Status, &d.CreatedAt,
			&d.Product.ID, &d.Product.Type, &d.Product.Name, &d.Product.PriceCents,
		); err != nil {
			return nil, err
		}
		if userID.Valid {
			uid := uint64(userID.Int64)
			d.UserID = &uid
		}
		d.ReservedOn = day.UTC().Format("2006-01-02")
		details = append(details, d)
	}
	return details, rows.Err()
}

// ListByUser returns a customer's reservations with product and hotel
// summaries, newest first with id tiebreak.
func (r *ReservationRepo) ListByUser(ctx context.Context, userID uint64) ([]UserReservationDetail, error) {
	const q = `SELECT r.id, r.customer_phone, r.reserved_on, r.status, r.created_at,
	                  p.id, p.type, p.name, p.price_cents,
	                  h.id, h.name, h.location
	           FROM reservations r
	           JOIN products p ON p.id = r.product_id
	           JOIN hotels h ON h.id = r.hotel_id
	           WHERE r.user_id = ?
	           ORDER BY r.created_at DESC, r.id DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	details := make([]UserReservationDetail, 0)
	for rows.Next() {
		var (
			d   UserReservationDetail
			day time.Time
		)
		if err := rows.Scan(
			&d.ID, &d.CustomerPhone, &day, &d.Status, &d.CreatedAt,
			&d.Product.ID, &d.Product.Type, &d.Product.Name, &d.Product.PriceCents,
			&d.Hotel.ID, &d.Hotel.Name, &d.Hotel.Location,
		); err != nil {
			return nil, err
		}
		d.ReservedOn = day.UTC().Format("2006-01-02")
		details = append(details, d)
	}
	return details, rows.Err()
}

func scanReservation(row rowScanner, res *model.Reservation) error {
	var userID sql.NullInt64
	err := row.Scan(
		&res.ID, &res.HotelID, &res.ProductID, &userID, &res.CustomerPhone,
		&res.ReservedOn, &res.Status, &res.CreatedAt, &res.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if userID.Valid {
		uid := uint64(userID.Int64)
		res.UserID = &uid
	}
	return nil
}
