package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/parmiserp/ledger_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// PeriodLineTotals holds the posted debit and credit totals of one account over a period
type PeriodLineTotals struct {
	AccountID   string
	DebitTotal  decimal.Decimal
	CreditTotal decimal.Decimal
}

// BalanceReader defines read operations for balance snapshots
type BalanceReader interface {
	// FindBalance retrieves the snapshot for one account and period range, if any
	FindBalance(ctx context.Context, companyID string, accountID string, fiscalYearID string, periodStart time.Time, periodEnd time.Time) (*domain.AccountBalance, error)

	// ListBalances retrieves the snapshots of a fiscal year, optionally for one account
	ListBalances(ctx context.Context, companyID string, fiscalYearID string, accountID *string) ([]domain.AccountBalance, error)
}

// BalanceRecomputeSupport defines the transactional pieces of a period recompute.
// The caller owns the transaction; concurrent recomputes of the same period are
// serialized through the period lock.
type BalanceRecomputeSupport interface {
	// AcquirePeriodLockInTx blocks until this transaction holds the recompute lock
	// for the given company and period range
	AcquirePeriodLockInTx(ctx context.Context, tx pgx.Tx, companyID string, fiscalYearID string, periodStart time.Time, periodEnd time.Time) error

	// SumPostedLinesInTx aggregates the posted document lines of the fiscal year
	// and range into per-account debit and credit totals, covering every tier the
	// lines reference. Reversed documents are included so reversal pairs net out.
	SumPostedLinesInTx(ctx context.Context, tx pgx.Tx, companyID string, fiscalYearID string, periodStart time.Time, periodEnd time.Time) ([]PeriodLineTotals, error)

	// UpsertBalancesInTx writes the snapshots, replacing any existing snapshot of
	// the same account and period range
	UpsertBalancesInTx(ctx context.Context, tx pgx.Tx, balances []domain.AccountBalance) error
}

// BalanceRepositoryFacade combines all balance repository capabilities
type BalanceRepositoryFacade interface {
	BalanceReader
	BalanceRecomputeSupport
	TransactionManager
}
