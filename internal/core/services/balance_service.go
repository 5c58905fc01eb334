package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/parmiserp/ledger_engine/internal/apperrors"
	"github.com/parmiserp/ledger_engine/internal/core/domain"
	portsrepo "github.com/parmiserp/ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/parmiserp/ledger_engine/internal/core/ports/services"
	"github.com/parmiserp/ledger_engine/internal/dto"
)

// balanceService implements the BalanceSvc interface
type balanceService struct {
	BaseService
	balanceRepo portsrepo.BalanceRepositoryFacade
	accountRepo portsrepo.AccountReader
	fiscalRepo  portsrepo.FiscalYearReader
}

// NewBalanceService creates a new balance aggregator service
func NewBalanceService(repo portsrepo.BalanceRepositoryFacade, accountRepo portsrepo.AccountReader, fiscalRepo portsrepo.FiscalYearReader) portssvc.BalanceSvc {
	return &balanceService{balanceRepo: repo, accountRepo: accountRepo, fiscalRepo: fiscalRepo}
}

var _ portssvc.BalanceSvc = (*balanceService)(nil)

// RecomputeBalances rebuilds the snapshots of one period range from posted
// lines. The whole rebuild runs in a single transaction guarded by a
// per-period lock, so concurrent recomputes of the same range serialize and
// the last writer leaves a consistent snapshot set.
func (s *balanceService) RecomputeBalances(ctx context.Context, companyID string, req dto.RecomputeBalancesRequest, userID string) ([]domain.AccountBalance, error) {
	fy, err := s.fiscalRepo.FindFiscalYearByID(ctx, companyID, req.FiscalYearID)
	if err != nil {
		return nil, err
	}
	if req.PeriodStart.After(req.PeriodEnd) {
		return nil, fmt.Errorf("period end must not precede period start: %w", apperrors.ErrValidation)
	}
	if req.PeriodStart.Before(fy.StartDate) || req.PeriodEnd.After(fy.EndDate) {
		return nil, fmt.Errorf("period range must lie within fiscal year %s: %w", fy.Code, apperrors.ErrValidation)
	}

	tx, err := s.balanceRepo.Begin(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to begin recompute transaction")
		return nil, err
	}
	defer func() { _ = s.balanceRepo.Rollback(ctx, tx) }()

	if err := s.balanceRepo.AcquirePeriodLockInTx(ctx, tx, companyID, req.FiscalYearID, req.PeriodStart, req.PeriodEnd); err != nil {
		s.LogError(ctx, err, "Failed to acquire period recompute lock")
		return nil, err
	}

	totals, err := s.balanceRepo.SumPostedLinesInTx(ctx, tx, companyID, req.FiscalYearID, req.PeriodStart, req.PeriodEnd)
	if err != nil {
		s.LogError(ctx, err, "Failed to aggregate posted lines")
		return nil, err
	}

	accountIDs := make([]string, len(totals))
	for i, t := range totals {
		accountIDs[i] = t.AccountID
	}
	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, companyID, accountIDs)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	balances := make([]domain.AccountBalance, 0, len(totals))
	for _, t := range totals {
		account, ok := accounts[t.AccountID]
		if !ok {
			return nil, fmt.Errorf("aggregated account %s not found in company: %w", t.AccountID, apperrors.ErrNotFound)
		}
		balances = append(balances, domain.AccountBalance{
			BalanceID:      uuid.NewString(),
			CompanyID:      companyID,
			AccountID:      t.AccountID,
			FiscalYearID:   req.FiscalYearID,
			PeriodStart:    req.PeriodStart,
			PeriodEnd:      req.PeriodEnd,
			DebitTotal:     t.DebitTotal,
			CreditTotal:    t.CreditTotal,
			OpeningBalance: account.OpeningBalance,
			ClosingBalance: domain.CloseBalance(account.OpeningBalance, t.DebitTotal, t.CreditTotal, account.NormalBalance),
			UpdatedAt:      now,
		})
	}

	if err := s.balanceRepo.UpsertBalancesInTx(ctx, tx, balances); err != nil {
		s.LogError(ctx, err, "Failed to upsert balance snapshots")
		return nil, err
	}
	if err := s.balanceRepo.Commit(ctx, tx); err != nil {
		s.LogError(ctx, err, "Failed to commit recompute transaction")
		return nil, err
	}

	s.LogInfo(ctx, "Balance snapshots rebuilt",
		slog.String("fiscal_year_id", req.FiscalYearID),
		slog.Int("account_count", len(balances)))
	return balances, nil
}

func (s *balanceService) GetBalance(ctx context.Context, companyID string, accountID string, req dto.RecomputeBalancesRequest) (*domain.AccountBalance, error) {
	balance, err := s.balanceRepo.FindBalance(ctx, companyID, accountID, req.FiscalYearID, req.PeriodStart, req.PeriodEnd)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find balance snapshot", slog.String("account_id", accountID))
		}
		return nil, err
	}
	return balance, nil
}

func (s *balanceService) ListBalances(ctx context.Context, companyID string, params dto.ListBalancesParams) ([]domain.AccountBalance, error) {
	balances, err := s.balanceRepo.ListBalances(ctx, companyID, params.FiscalYearID, params.AccountID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list balance snapshots", slog.String("fiscal_year_id", params.FiscalYearID))
		return nil, fmt.Errorf("failed to list balances: %w", err)
	}
	if balances == nil {
		balances = []domain.AccountBalance{}
	}
	return balances, nil
}
