package models

import (
	"database/sql"
	"time"
)

// User is the database representation of a registered user.
type User struct {
	UserID         string         `db:"user_id"`
	Name           string         `db:"name"`
	Email          string         `db:"email"`
	PasswordHash   string         `db:"password_hash"`
	EmailVerified  bool           `db:"email_verified"`
	AuthProvider   string         `db:"auth_provider"`
	ProviderUserID sql.NullString `db:"provider_user_id"`
	AuditFields
	DeletedAt *time.Time `db:"deleted_at"`
}
