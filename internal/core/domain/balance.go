package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountBalance is a per-account, per-period snapshot derived from posted
// document lines. It is rebuilt deterministically; same inputs produce the
// same snapshot, and recomputation overwrites rather than duplicates.
type AccountBalance struct {
	BalanceID      string          `json:"balanceID"`
	CompanyID      string          `json:"companyID"`
	AccountID      string          `json:"accountID"`
	FiscalYearID   string          `json:"fiscalYearID"`
	PeriodStart    time.Time       `json:"periodStart"`
	PeriodEnd      time.Time       `json:"periodEnd"`
	DebitTotal     decimal.Decimal `json:"debitTotal"`
	CreditTotal    decimal.Decimal `json:"creditTotal"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
	ClosingBalance decimal.Decimal `json:"closingBalance"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// CloseBalance computes the closing balance for an account given its normal
// balance side: debit-normal accounts grow with debits, credit-normal accounts
// grow with credits.
func CloseBalance(opening, debitTotal, creditTotal decimal.Decimal, side NormalBalance) decimal.Decimal {
	if side == DebitBalance {
		return opening.Add(debitTotal).Sub(creditTotal)
	}
	return opening.Add(creditTotal).Sub(debitTotal)
}
