package mapping

import (
	"github.com/parmiserp/ledger_engine/internal/core/domain"
	"github.com/parmiserp/ledger_engine/internal/models"
)

// ToModelAccountBalance converts a domain AccountBalance to a model AccountBalance
func ToModelAccountBalance(d domain.AccountBalance) models.AccountBalance {
	return models.AccountBalance{
		BalanceID:      d.BalanceID,
		CompanyID:      d.CompanyID,
		AccountID:      d.AccountID,
		FiscalYearID:   d.FiscalYearID,
		PeriodStart:    d.PeriodStart,
		PeriodEnd:      d.PeriodEnd,
		DebitTotal:     d.DebitTotal,
		CreditTotal:    d.CreditTotal,
		OpeningBalance: d.OpeningBalance,
		ClosingBalance: d.ClosingBalance,
		UpdatedAt:      d.UpdatedAt,
	}
}

// ToDomainAccountBalance converts a model AccountBalance to a domain AccountBalance
func ToDomainAccountBalance(m models.AccountBalance) domain.AccountBalance {
	return domain.AccountBalance{
		BalanceID:      m.BalanceID,
		CompanyID:      m.CompanyID,
		AccountID:      m.AccountID,
		FiscalYearID:   m.FiscalYearID,
		PeriodStart:    m.PeriodStart,
		PeriodEnd:      m.PeriodEnd,
		DebitTotal:     m.DebitTotal,
		CreditTotal:    m.CreditTotal,
		OpeningBalance: m.OpeningBalance,
		ClosingBalance: m.ClosingBalance,
		UpdatedAt:      m.UpdatedAt,
	}
}

// ToDomainAccountBalanceSlice converts a slice of model balances to domain balances
func ToDomainAccountBalanceSlice(ms []models.AccountBalance) []domain.AccountBalance {
	ds := make([]domain.AccountBalance, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainAccountBalance(m)
	}
	return ds
}
