package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountBalance is the DB representation of a balance snapshot.
// (company_id, account_id, fiscal_year_id, period_start, period_end) is unique.
type AccountBalance struct {
	BalanceID      string          `db:"balance_id"`
	CompanyID      string          `db:"company_id"`
	AccountID      string          `db:"account_id"`
	FiscalYearID   string          `db:"fiscal_year_id"`
	PeriodStart    time.Time       `db:"period_start"`
	PeriodEnd      time.Time       `db:"period_end"`
	DebitTotal     decimal.Decimal `db:"debit_total"`
	CreditTotal    decimal.Decimal `db:"credit_total"`
	OpeningBalance decimal.Decimal `db:"opening_balance"`
	ClosingBalance decimal.Decimal `db:"closing_balance"`
	UpdatedAt      time.Time       `db:"updated_at"`
}
