package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/parmiserp/ledger_engine/internal/apperrors"
	"github.com/parmiserp/ledger_engine/internal/core/domain"
	portsrepo "github.com/parmiserp/ledger_engine/internal/core/ports/repositories"
	"github.com/parmiserp/ledger_engine/internal/models"
	"github.com/parmiserp/ledger_engine/internal/utils/mapping"
)

const balanceColumns = `balance_id, company_id, account_id, fiscal_year_id, period_start, period_end,
		debit_total, credit_total, opening_balance, closing_balance, updated_at`

type PgxBalanceRepository struct {
	BaseRepository
}

func newPgxBalanceRepository(pool *pgxpool.Pool) portsrepo.BalanceRepositoryFacade {
	return &PgxBalanceRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.BalanceRepositoryFacade = (*PgxBalanceRepository)(nil)

func scanBalance(row rowScanner) (models.AccountBalance, error) {
	var m models.AccountBalance
	err := row.Scan(
		&m.BalanceID,
		&m.CompanyID,
		&m.AccountID,
		&m.FiscalYearID,
		&m.PeriodStart,
		&m.PeriodEnd,
		&m.DebitTotal,
		&m.CreditTotal,
		&m.OpeningBalance,
		&m.ClosingBalance,
		&m.UpdatedAt,
	)
	return m, err
}

func (r *PgxBalanceRepository) FindBalance(ctx context.Context, companyID string, accountID string, fiscalYearID string, periodStart time.Time, periodEnd time.Time) (*domain.AccountBalance, error) {
	query := `
		SELECT ` + balanceColumns + `
		FROM account_balances
		WHERE company_id = $1 AND account_id = $2 AND fiscal_year_id = $3
		  AND period_start = $4 AND period_end = $5;
	`
	m, err := scanBalance(r.Pool.QueryRow(ctx, query, companyID, accountID, fiscalYearID, periodStart, periodEnd))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find balance for account %s: %w", accountID, err)
	}
	balance := mapping.ToDomainAccountBalance(m)
	return &balance, nil
}

func (r *PgxBalanceRepository) ListBalances(ctx context.Context, companyID string, fiscalYearID string, accountID *string) ([]domain.AccountBalance, error) {
	query := `
		SELECT ` + balanceColumns + `
		FROM account_balances
		WHERE company_id = $1 AND fiscal_year_id = $2
		  AND ($3::text IS NULL OR account_id = $3)
		ORDER BY period_start, account_id;
	`
	rows, err := r.Pool.Query(ctx, query, companyID, fiscalYearID, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to query balances for fiscal year %s: %w", fiscalYearID, err)
	}
	defer rows.Close()

	balances := []domain.AccountBalance{}
	for rows.Next() {
		m, err := scanBalance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan balance row: %w", err)
		}
		balances = append(balances, mapping.ToDomainAccountBalance(m))
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating balance rows: %w", rows.Err())
	}
	return balances, nil
}

// AcquirePeriodLockInTx serializes recomputes of one company/period range via a
// transaction-scoped advisory lock. The lock is released when the transaction
// ends, so callers never unlock explicitly.
func (r *PgxBalanceRepository) AcquirePeriodLockInTx(ctx context.Context, tx pgx.Tx, companyID string, fiscalYearID string, periodStart time.Time, periodEnd time.Time) error {
	key := fmt.Sprintf("%s:%s:%s:%s", companyID, fiscalYearID,
		periodStart.Format("2006-01-02"), periodEnd.Format("2006-01-02"))
	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1));`, key); err != nil {
		return fmt.Errorf("failed to acquire recompute lock for %s: %w", key, err)
	}
	return nil
}

// SumPostedLinesInTx aggregates the posted lines of the range into per-account
// totals. Each line contributes to every tier it references, so general,
// subsidiary and detail accounts all get their own rollup. Reversed documents
// stay in the sum: their lines are posted history that the compensating
// document's mirrored lines net out.
const sumPostedLinesQuery = `
	WITH posted_lines AS (
		SELECT dl.general_account_id, dl.sub_account_id, dl.detail_account_id, dl.debit, dl.credit
		FROM document_lines dl
		JOIN documents d ON d.document_id = dl.document_id AND d.company_id = dl.company_id
		WHERE dl.company_id = $1
		  AND d.fiscal_year_id = $2
		  AND d.status IN ('POSTED', 'LOCKED', 'REVERSED')
		  AND d.document_date >= $3 AND d.document_date <= $4
	), per_account AS (
		SELECT general_account_id AS account_id, debit, credit FROM posted_lines
		UNION ALL
		SELECT sub_account_id, debit, credit FROM posted_lines WHERE sub_account_id IS NOT NULL
		UNION ALL
		SELECT detail_account_id, debit, credit FROM posted_lines WHERE detail_account_id IS NOT NULL
	)
	SELECT account_id, COALESCE(SUM(debit), 0), COALESCE(SUM(credit), 0)
	FROM per_account
	GROUP BY account_id;
`

func (r *PgxBalanceRepository) SumPostedLinesInTx(ctx context.Context, tx pgx.Tx, companyID string, fiscalYearID string, periodStart time.Time, periodEnd time.Time) ([]portsrepo.PeriodLineTotals, error) {
	rows, err := tx.Query(ctx, sumPostedLinesQuery, companyID, fiscalYearID, periodStart, periodEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate posted lines for company %s: %w", companyID, err)
	}
	defer rows.Close()

	totals := []portsrepo.PeriodLineTotals{}
	for rows.Next() {
		var t portsrepo.PeriodLineTotals
		if err := rows.Scan(&t.AccountID, &t.DebitTotal, &t.CreditTotal); err != nil {
			return nil, fmt.Errorf("failed to scan period totals row: %w", err)
		}
		totals = append(totals, t)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating period totals rows: %w", rows.Err())
	}
	return totals, nil
}

func (r *PgxBalanceRepository) UpsertBalancesInTx(ctx context.Context, tx pgx.Tx, balances []domain.AccountBalance) error {
	if len(balances) == 0 {
		return nil
	}

	query := `
		INSERT INTO account_balances (` + balanceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (company_id, account_id, fiscal_year_id, period_start, period_end)
		DO UPDATE SET debit_total = EXCLUDED.debit_total,
		              credit_total = EXCLUDED.credit_total,
		              opening_balance = EXCLUDED.opening_balance,
		              closing_balance = EXCLUDED.closing_balance,
		              updated_at = EXCLUDED.updated_at;
	`
	batch := &pgx.Batch{}
	for _, balance := range balances {
		m := mapping.ToModelAccountBalance(balance)
		batch.Queue(query,
			m.BalanceID, m.CompanyID, m.AccountID, m.FiscalYearID, m.PeriodStart, m.PeriodEnd,
			m.DebitTotal, m.CreditTotal, m.OpeningBalance, m.ClosingBalance, m.UpdatedAt)
	}
	br := tx.SendBatch(ctx, batch)
	var batchErr error
	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil && batchErr == nil {
			batchErr = fmt.Errorf("failed to upsert balance for account %s: %w", balances[i].AccountID, err)
		}
	}
	if err := br.Close(); err != nil && batchErr == nil {
		batchErr = fmt.Errorf("failed to close balance upsert batch: %w", err)
	}
	return batchErr
}
