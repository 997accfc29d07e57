package mapping

import (
	"database/sql"

	"github.com/finhealth/savings_app/internal/core/domain"
	"github.com/finhealth/savings_app/internal/models"
)

// ToModelUser converts a domain user for DB storage.
func ToModelUser(d domain.User) models.User {
	var providerID sql.NullString
	if d.ProviderUserID != "" {
		providerID = sql.NullString{String: d.ProviderUserID, Valid: true}
	}
	return models.User{
		UserID:         d.UserID,
		Name:           d.Name,
		Email:          d.Email,
		PasswordHash:   d.PasswordHash,
		EmailVerified:  d.EmailVerified,
		AuthProvider:   string(d.AuthProvider),
		ProviderUserID: providerID,
		AuditFields:    ToModelAuditFields(d.AuditFields),
		DeletedAt:      d.DeletedAt,
	}
}

// ToDomainUser converts a DB user to its domain form.
func ToDomainUser(m models.User) domain.User {
	providerID := ""
	if m.ProviderUserID.Valid {
		providerID = m.ProviderUserID.String
	}
	return domain.User{
		UserID:         m.UserID,
		Name:           m.Name,
		Email:          m.Email,
		PasswordHash:   m.PasswordHash,
		EmailVerified:  m.EmailVerified,
		AuthProvider:   domain.AuthProvider(m.AuthProvider),
		ProviderUserID: providerID,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
		DeletedAt:      m.DeletedAt,
	}
}
