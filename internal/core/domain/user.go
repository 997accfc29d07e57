package domain

import "time"

// AuthProvider identifies how a user authenticates.
type AuthProvider string

const (
	ProviderLocal  AuthProvider = "LOCAL"
	ProviderGoogle AuthProvider = "GOOGLE"
)

// User represents a registered user of the application.
type User struct {
	UserID         string       `json:"userID"`
	Name           string       `json:"name"`
	Email          string       `json:"email"`
	PasswordHash   string       `json:"-"`
	EmailVerified  bool         `json:"emailVerified"`
	AuthProvider   AuthProvider `json:"authProvider"`
	ProviderUserID string       `json:"-"` // External subject ID for OAuth users
	AuditFields
	DeletedAt *time.Time `json:"deletedAt,omitempty"`
}
