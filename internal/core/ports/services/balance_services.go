package services

import (
	"context"

	"github.com/parmiserp/ledger_engine/internal/core/domain"
	"github.com/parmiserp/ledger_engine/internal/dto"
)

// BalanceSvc defines operations for the balance snapshot aggregator
type BalanceSvc interface {
	// RecomputeBalances rebuilds the snapshots of a period range from posted
	// document lines. The rebuild is idempotent; rerunning it replaces the
	// previous snapshots instead of duplicating them.
	RecomputeBalances(ctx context.Context, companyID string, req dto.RecomputeBalancesRequest, userID string) ([]domain.AccountBalance, error)

	// GetBalance retrieves the snapshot of one account over a period range.
	GetBalance(ctx context.Context, companyID string, accountID string, req dto.RecomputeBalancesRequest) (*domain.AccountBalance, error)

	// ListBalances retrieves the snapshots of a fiscal year.
	ListBalances(ctx context.Context, companyID string, params dto.ListBalancesParams) ([]domain.AccountBalance, error)
}
