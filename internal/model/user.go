package model

import "time"

// Role names stored in the users.role column and carried in JWT
// claims.  HOTEL_ADMIN accounts are additionally bound to one hotel
// through hotels.admin_id.
const (
	RoleUser       = "USER"
	RoleHotelAdmin = "HOTEL_ADMIN"
	RoleSuperAdmin = "SUPER_ADMIN"
)

// User represents an application user record as stored in the `users`
// table.  Each field corresponds to a column in the database.  The
// password reset fields hold only the SHA-256 hash of the reset token,
// never the raw value handed to the client.
//
// Fields:
//  ID               - primary key identifier of the user.
//  Email            - unique email address.
//  PasswordHash     - bcrypt hashed password.
//  Role             - role name (USER, HOTEL_ADMIN, SUPER_ADMIN).
//  Name             - display name.
//  Phone            - optional contact phone.
//  ResetTokenHash   - SHA-256 hex digest of an outstanding reset token.
//  ResetTokenExpiry - when the reset token stops being accepted.
//  IsActive         - whether the account is active.
//  CreatedAt        - timestamp of creation.
//  UpdatedAt        - timestamp of last update.
type User struct {
	ID               uint64     // users.id
	Email            string     // users.email
	PasswordHash     string     // users.password_hash
	Role             string     // users.role
	Name             string     // users.name
	Phone            *string    // users.phone (nullable)
	ResetTokenHash   *string    // users.reset_token_hash (nullable)
	ResetTokenExpiry *time.Time // users.reset_token_expires (nullable)
	IsActive         bool       // users.is_active
	CreatedAt        time.Time  // users.created_at
	UpdatedAt        time.Time  // users.updated_at
}

// RefreshToken models an entry in the `refresh_tokens` table.  Each
// refresh token belongs to a user and contains metadata for expiry and
// revocation.  The plain token is not stored; only its SHA-256 hash.
//
// Fields:
//  ID        - primary key identifier.
//  UserID    - owner of the token.
//  TokenHash - SHA-256 hex digest of the token value.
//  ExpiresAt - expiration timestamp of the token.
//  RevokedAt - when the token was revoked (null if still active).
//  CreatedAt - timestamp of creation.
type RefreshToken struct {
	ID        uint64     // refresh_tokens.id
	UserID    uint64     // refresh_tokens.user_id
	TokenHash string     // refresh_tokens.token_hash
	ExpiresAt time.Time  // refresh_tokens.expires_at
	RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
	CreatedAt time.Time  // refresh_tokens.created_at
}
