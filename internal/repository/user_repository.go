package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/iliyamo/hotel-booking-platform/internal/model"
	"github.com/iliyamo/hotel-booking-platform/internal/utils"
)

// UserRepo provides persistence for accounts and their password reset
// state. Passwords are stored as bcrypt hashes, reset tokens as
// SHA-256 hashes.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userColumns = "id, email, password_hash, role, name, phone, reset_token_hash, reset_token_expires, is_active, created_at, updated_at"

// Create inserts a user and returns its ID. The email is normalized to
// lower case before insertion so the unique index is case-insensitive
// in practice.
func (r *UserRepo) Create(ctx context.Context, email, password, role, name, phone string, cost int) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (email, password_hash, role, name, phone) VALUES (?,?,?,?,?)",
		email, hash, role, name, nullableStr(phone))
	if err != nil {
		if isDuplicateKey(err) {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// CreateTx is Create for callers that already hold a transaction, used
// when a hotel and its admin account are created atomically. The
// password must already be hashed.
func (r *UserRepo) CreateTx(ctx context.Context, tx *sql.Tx, email, passwordHash, role, name string) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	res, err := tx.ExecContext(ctx,
		"INSERT INTO users (email, password_hash, role, name) VALUES (?,?,?,?)",
		email, passwordHash, role, name)
	if err != nil {
		if isDuplicateKey(err) {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return r.scanOne(ctx, "SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1", email)
}

// GetByID fetches a user by primary key.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	return r.scanOne(ctx, "SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id)
}

// UpdateProfile changes the mutable profile fields (name, phone).
func (r *UserRepo) UpdateProfile(ctx context.Context, id uint64, name, phone string) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET name=?, phone=? WHERE id=?",
		name, nullableStr(phone), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// RowsAffected is 0 both for missing rows and no-op updates;
		// distinguish by existence.
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

// SetResetToken stores the hash of a freshly issued password reset
// token together with its expiry, replacing any previous token.
func (r *UserRepo) SetResetToken(ctx context.Context, id uint64, tokenHash string, expires time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET reset_token_hash=?, reset_token_expires=? WHERE id=?",
		tokenHash, expires, id)
	return err
}

// GetByResetToken fetches the user holding a non-expired reset token
// with the given hash. Expired or unknown tokens yield ErrUserNotFound.
func (r *UserRepo) GetByResetToken(ctx context.Context, tokenHash string) (model.User, error) {
	u, err := r.scanOne(ctx,
		"SELECT "+userColumns+" FROM users WHERE reset_token_hash=? LIMIT 1", tokenHash)
	if err != nil {
		return model.User{}, err
	}
	if u.ResetTokenExpiry == nil || time.Now().UTC().After(*u.ResetTokenExpiry) {
		return model.User{}, ErrUserNotFound
	}
	return u, nil
}

// ResetPassword replaces the password hash and clears the reset token
// in a single statement so a token cannot be replayed.
func (r *UserRepo) ResetPassword(ctx context.Context, id uint64, passwordHash string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET password_hash=?, reset_token_hash=NULL, reset_token_expires=NULL WHERE id=?",
		passwordHash, id)
	return err
}

func (r *UserRepo) scanOne(ctx context.Context, query string, args ...interface{}) (model.User, error) {
	var (
		u         model.User
		phone     sql.NullString
		resetHash sql.NullString
		resetExp  sql.NullTime
	)
	err := r.DB.QueryRowContext(ctx, query, args...).Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.Name,
		&phone, &resetHash, &resetExp, &u.IsActive, &u.CreatedAt, &u.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return model.User{}, ErrUserNotFound
	}
	if err != nil {
		return model.User{}, err
	}
	if phone.Valid {
		u.Phone = &phone.String
	}
	if resetHash.Valid {
		u.ResetTokenHash = &resetHash.String
	}
	if resetExp.Valid {
		t := resetExp.Time
		u.ResetTokenExpiry = &t
	}
	return u, nil
}

// nullableStr converts an empty string to a SQL NULL.
func nullableStr(s string) interface{} {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return s
}
