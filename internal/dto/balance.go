package dto

import (
	"time"

	"github.com/parmiserp/ledger_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RecomputeBalancesRequest defines the period range to rebuild snapshots for.
type RecomputeBalancesRequest struct {
	FiscalYearID string    `json:"fiscalYearID" binding:"required"`
	PeriodStart  time.Time `json:"periodStart" binding:"required" time_format:"2006-01-02"`
	PeriodEnd    time.Time `json:"periodEnd" binding:"required" time_format:"2006-01-02"`
}

// AccountBalanceResponse defines the data returned for one balance snapshot.
type AccountBalanceResponse struct {
	BalanceID      string          `json:"balanceID"`
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

// ToAccountBalanceResponse converts a domain.AccountBalance to its DTO.
func ToAccountBalanceResponse(b *domain.AccountBalance) AccountBalanceResponse {
	return AccountBalanceResponse{
		BalanceID:      b.BalanceID,
		AccountID:      b.AccountID,
		FiscalYearID:   b.FiscalYearID,
		PeriodStart:    b.PeriodStart,
		PeriodEnd:      b.PeriodEnd,
		DebitTotal:     b.DebitTotal,
		CreditTotal:    b.CreditTotal,
		OpeningBalance: b.OpeningBalance,
		ClosingBalance: b.ClosingBalance,
		UpdatedAt:      b.UpdatedAt,
	}
}

// ToListAccountBalanceResponse converts a slice of snapshots to DTOs.
func ToListAccountBalanceResponse(balances []domain.AccountBalance) []AccountBalanceResponse {
	res := make([]AccountBalanceResponse, len(balances))
	for i, b := range balances {
		res[i] = ToAccountBalanceResponse(&b)
	}
	return res
}

// ListBalancesParams defines query parameters for listing snapshots.
type ListBalancesParams struct {
	FiscalYearID string  `form:"fiscalYearID" binding:"required"`
	AccountID    *string `form:"accountID"`
}
