package mapping

import (
	"github.com/finhealth/savings_app/internal/core/domain"
	"github.com/finhealth/savings_app/internal/models"
)

// ToModelAccount converts a domain account for DB storage.
func ToModelAccount(d domain.Account) models.Account {
	return models.Account{
		AccountID:    d.AccountID,
		OwnerUserID:  d.OwnerUserID,
		CurrencyCode: d.CurrencyCode,
		Balance:      d.Balance,
		Version:      d.Version,
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainAccount converts a DB account to its domain form.
func ToDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		AccountID:    m.AccountID,
		OwnerUserID:  m.OwnerUserID,
		CurrencyCode: m.CurrencyCode,
		Balance:      m.Balance,
		Version:      m.Version,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}
