package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/hotel-booking-platform/internal/model"
)

// ProductRepo provides CRUD operations for the bookable products a
// hotel offers. The availability flag read here feeds the admission
// gate in the reservation handler; it is evaluated at creation time
// only and never retroactively.
type ProductRepo struct {
	db *sql.DB
}

// NewProductRepo returns a new ProductRepo bound to the given database.
func NewProductRepo(db *sql.DB) *ProductRepo { return &ProductRepo{db: db} }

const productColumns = "id, hotel_id, type, name, description, price_cents, is_available, is_special, image, created_at, updated_at"

// Create inserts a product and populates generated fields on p.
func (r *ProductRepo) Create(ctx context.Context, p *model.Product) error {
	const q = `INSERT INTO products (hotel_id, type, name, description, price_cents, is_available, is_special, image)
	           VALUES (?,?,?,?,?,?,?,?)`
	res, err := r.db.ExecContext(ctx, q,
		p.HotelID, p.Type, p.Name, p.Description, p.PriceCents, p.IsAvailable, p.IsSpecial, p.Image)
	if err != nil {
		return mapForeignKeyErr(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	return scanProduct(r.db.QueryRowContext(ctx,
		"SELECT "+productColumns+" FROM products WHERE id=?", p.ID), p)
}

// GetByID returns one product or ErrProductNotFound.
func (r *ProductRepo) GetByID(ctx context.Context, id uint64) (*model.Product, error) {
	var p model.Product
	err := scanProduct(r.db.QueryRowContext(ctx,
		"SELECT "+productColumns+" FROM products WHERE id=?", id), &p)
	if err == sql.ErrNoRows {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListByHotel returns a hotel's products grouped by type for display.
func (r *ProductRepo) ListByHotel(ctx context.Context, hotelID uint64) ([]model.Product, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+productColumns+" FROM products WHERE hotel_id=? ORDER BY type, name", hotelID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := make([]model.Product, 0)
	for rows.Next() {
		var p model.Product
		if err := scanProduct(rows, &p); err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, rows.Err()
}

// Update rewrites the mutable product fields.
func (r *ProductRepo) Update(ctx context.Context, p *model.Product) error {
	const q = `UPDATE products
	           SET type=?, name=?, description=?, price_cents=?, is_available=?, is_special=?, image=?
	           WHERE id=?`
	res, err := r.db.ExecContext(ctx, q,
		p.Type, p.Name, p.Description, p.PriceCents, p.IsAvailable, p.IsSpecial, p.Image, p.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.GetByID(ctx, p.ID); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes a product. Reservations referencing it are preserved
// by the schema (FK RESTRICT), so deletion of a booked product fails
// with a reference error rather than orphaning history.
func (r *ProductRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM products WHERE id=?", id)
	if err != nil {
		if strings.Contains(err.Error(), "1451") {
			return ErrProductInUse
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrProductNotFound
	}
	return nil
}

func scanProduct(row rowScanner, p *model.Product) error {
	var desc, image sql.NullString
	err := row.Scan(
		&p.ID, &p.HotelID, &p.Type, &p.Name, &desc, &p.PriceCents,
		&p.IsAvailable, &p.IsSpecial, &image, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if desc.Valid {
		p.Description = &desc.String
	}
	if image.Valid {
		p.Image = &image.String
	}
	return nil
}
