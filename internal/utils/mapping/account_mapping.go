package mapping

import (
	"github.com/parmiserp/ledger_engine/internal/core/domain"
	"github.com/parmiserp/ledger_engine/internal/models"
)

// ToModelAccount converts a domain Account to a model Account
func ToModelAccount(d domain.Account) models.Account {
	return models.Account{
		AccountID:      d.AccountID,
		CompanyID:      d.CompanyID,
		Code:           d.Code,
		Name:           d.Name,
		NameEn:         d.NameEn,
		AccountType:    models.AccountType(d.AccountType),
		NormalBalance:  models.NormalBalance(d.NormalBalance),
		Tier:           int16(d.Tier),
		OpeningBalance: d.OpeningBalance,
		CurrentBalance: d.CurrentBalance,
		Description:    d.Description,
		IsSystem:       d.IsSystem,
		IsActive:       d.IsActive,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainAccount converts a model Account to a domain Account
func ToDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		AccountID:      m.AccountID,
		CompanyID:      m.CompanyID,
		Code:           m.Code,
		Name:           m.Name,
		NameEn:         m.NameEn,
		AccountType:    domain.AccountType(m.AccountType),
		NormalBalance:  domain.NormalBalance(m.NormalBalance),
		Tier:           domain.AccountTier(m.Tier),
		OpeningBalance: m.OpeningBalance,
		CurrentBalance: m.CurrentBalance,
		Description:    m.Description,
		IsSystem:       m.IsSystem,
		IsActive:       m.IsActive,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainAccountSlice converts a slice of model Accounts to a slice of domain Accounts
func ToDomainAccountSlice(ms []models.Account) []domain.Account {
	ds := make([]domain.Account, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainAccount(m)
	}
	return ds
}

// ToModelAccountRelation converts a domain AccountRelation to a model AccountRelation
func ToModelAccountRelation(d domain.AccountRelation) models.AccountRelation {
	return models.AccountRelation{
		RelationID:     d.RelationID,
		CompanyID:      d.CompanyID,
		LowerAccountID: d.LowerAccountID,
		UpperAccountID: d.UpperAccountID,
		LowerTier:      int16(d.LowerTier),
		IsPrimary:      d.IsPrimary,
		Notes:          d.Notes,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainAccountRelation converts a model AccountRelation to a domain AccountRelation
func ToDomainAccountRelation(m models.AccountRelation) domain.AccountRelation {
	return domain.AccountRelation{
		RelationID:     m.RelationID,
		CompanyID:      m.CompanyID,
		LowerAccountID: m.LowerAccountID,
		UpperAccountID: m.UpperAccountID,
		LowerTier:      domain.AccountTier(m.LowerTier),
		IsPrimary:      m.IsPrimary,
		Notes:          m.Notes,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainAccountRelationSlice converts a slice of model relations to domain relations
func ToDomainAccountRelationSlice(ms []models.AccountRelation) []domain.AccountRelation {
	ds := make([]domain.AccountRelation, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainAccountRelation(m)
	}
	return ds
}
