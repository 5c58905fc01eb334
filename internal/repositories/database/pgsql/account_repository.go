package pgsql

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/parmiserp/ledger_engine/internal/apperrors"
	"github.com/parmiserp/ledger_engine/internal/core/domain"
	portsrepo "github.com/parmiserp/ledger_engine/internal/core/ports/repositories"
	"github.com/parmiserp/ledger_engine/internal/models"
	"github.com/parmiserp/ledger_engine/internal/utils/mapping"
	"github.com/shopspring/decimal"
)

const accountColumns = `account_id, company_id, code, name, name_en, account_type, normal_balance, tier,
		opening_balance, current_balance, description, is_system, is_active,
		created_at, created_by, last_updated_at, last_updated_by`

type PgxAccountRepository struct {
	BaseRepository
}

// newPgxAccountRepository creates a new repository for account data.
func newPgxAccountRepository(pool *pgxpool.Pool) portsrepo.AccountRepositoryFacade {
	return &PgxAccountRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

// rowScanner is satisfied by both pgx.Row and pgx.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (models.Account, error) {
	var m models.Account
	err := row.Scan(
		&m.AccountID,
		&m.CompanyID,
		&m.Code,
		&m.Name,
		&m.NameEn,
		&m.AccountType,
		&m.NormalBalance,
		&m.Tier,
		&m.OpeningBalance,
		&m.CurrentBalance,
		&m.Description,
		&m.IsSystem,
		&m.IsActive,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account *domain.Account) error {
	m := mapping.ToModelAccount(*account)

	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.AccountID,
		m.CompanyID,
		m.Code,
		m.Name,
		m.NameEn,
		m.AccountType,
		m.NormalBalance,
		m.Tier,
		m.OpeningBalance,
		m.CurrentBalance,
		m.Description,
		m.IsSystem,
		m.IsActive,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: account code %s already exists in company %s", apperrors.ErrDuplicate, m.Code, m.CompanyID)
		}
		return fmt.Errorf("failed to save account %s: %w", m.AccountID, err)
	}
	return nil
}

func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, companyID string, accountID string) (*domain.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE company_id = $1 AND account_id = $2;
	`
	m, err := scanAccount(r.Pool.QueryRow(ctx, query, companyID, accountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find account by ID %s: %w", accountID, err)
	}
	d := mapping.ToDomainAccount(m)
	return &d, nil
}

func (r *PgxAccountRepository) FindAccountByCode(ctx context.Context, companyID string, code string) (*domain.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE company_id = $1 AND code = $2;
	`
	m, err := scanAccount(r.Pool.QueryRow(ctx, query, companyID, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find account by code %s: %w", code, err)
	}
	d := mapping.ToDomainAccount(m)
	return &d, nil
}

func (r *PgxAccountRepository) FindAccountsByIDs(ctx context.Context, companyID string, accountIDs []string) (map[string]domain.Account, error) {
	if len(accountIDs) == 0 {
		return map[string]domain.Account{}, nil
	}

	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE company_id = $1 AND account_id = ANY($2);
	`
	rows, err := r.Pool.Query(ctx, query, companyID, accountIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts by IDs: %w", err)
	}
	defer rows.Close()

	accountsMap := make(map[string]domain.Account)
	for rows.Next() {
		m, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account row during batch fetch: %w", err)
		}
		accountsMap[m.AccountID] = mapping.ToDomainAccount(m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account rows during batch fetch: %w", err)
	}

	// The map simply omits IDs that were not found; the caller decides whether
	// that is an error.
	return accountsMap, nil
}

func (r *PgxAccountRepository) ListAccounts(ctx context.Context, companyID string, tier *domain.AccountTier, limit int, offset int) ([]domain.Account, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE company_id = $1 AND ($2::smallint IS NULL OR tier = $2)
		ORDER BY code
		LIMIT $3 OFFSET $4;
	`
	rows, err := r.Pool.Query(ctx, query, companyID, tier, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts for company %s: %w", companyID, err)
	}
	defer rows.Close()

	accounts := []domain.Account{}
	for rows.Next() {
		m, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account row for company %s: %w", companyID, err)
		}
		accounts = append(accounts, mapping.ToDomainAccount(m))
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating account rows for company %s: %w", companyID, rows.Err())
	}
	return accounts, nil
}

func (r *PgxAccountRepository) UpdateAccount(ctx context.Context, account *domain.Account) error {
	m := mapping.ToModelAccount(*account)

	// Classification, tier and the balance columns are deliberately not
	// updatable through this statement.
	query := `
		UPDATE accounts
		SET name = $3, name_en = $4, description = $5, is_active = $6, last_updated_at = $7, last_updated_by = $8
		WHERE company_id = $1 AND account_id = $2;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		m.CompanyID,
		m.AccountID,
		m.Name,
		m.NameEn,
		m.Description,
		m.IsActive,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to execute update account %s: %w", m.AccountID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxAccountRepository) DeactivateAccount(ctx context.Context, companyID string, accountID string, userID string) error {
	query := `
		UPDATE accounts
		SET is_active = FALSE, last_updated_at = $3, last_updated_by = $4
		WHERE company_id = $1 AND account_id = $2 AND is_active = TRUE;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, companyID, accountID, time.Now(), userID)
	if err != nil {
		return fmt.Errorf("failed to execute deactivate account %s: %w", accountID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		// Distinguish a missing account from one already inactive.
		_, findErr := r.FindAccountByID(ctx, companyID, accountID)
		if errors.Is(findErr, apperrors.ErrNotFound) {
			return apperrors.ErrNotFound
		} else if findErr != nil {
			return fmt.Errorf("failed to check account status after deactivation attempt for %s: %w", accountID, findErr)
		}
		return fmt.Errorf("account %s is already inactive: %w", accountID, apperrors.ErrValidation)
	}
	return nil
}

func (r *PgxAccountRepository) DeleteAccount(ctx context.Context, companyID string, accountID string) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	// Remove the account's own parent links first; links where it is the
	// parent are vetoed by the service before we get here.
	if _, err := tx.Exec(ctx,
		`DELETE FROM account_relations WHERE company_id = $1 AND lower_account_id = $2;`,
		companyID, accountID); err != nil {
		return fmt.Errorf("failed to delete relations of account %s: %w", accountID, err)
	}

	cmdTag, err := tx.Exec(ctx,
		`DELETE FROM accounts WHERE company_id = $1 AND account_id = $2;`,
		companyID, accountID)
	if err != nil {
		return fmt.Errorf("failed to delete account %s: %w", accountID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return r.Commit(ctx, tx)
}

const relationColumns = `relation_id, company_id, lower_account_id, upper_account_id, lower_tier, is_primary, notes,
		created_at, created_by, last_updated_at, last_updated_by`

func scanRelation(row rowScanner) (models.AccountRelation, error) {
	var m models.AccountRelation
	err := row.Scan(
		&m.RelationID,
		&m.CompanyID,
		&m.LowerAccountID,
		&m.UpperAccountID,
		&m.LowerTier,
		&m.IsPrimary,
		&m.Notes,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func (r *PgxAccountRepository) SaveRelation(ctx context.Context, relation *domain.AccountRelation) error {
	m := mapping.ToModelAccountRelation(*relation)

	query := `
		INSERT INTO account_relations (` + relationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.RelationID,
		m.CompanyID,
		m.LowerAccountID,
		m.UpperAccountID,
		m.LowerTier,
		m.IsPrimary,
		m.Notes,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: accounts %s and %s are already linked", apperrors.ErrDuplicate, m.LowerAccountID, m.UpperAccountID)
		}
		return fmt.Errorf("failed to save relation %s: %w", m.RelationID, err)
	}
	return nil
}

func (r *PgxAccountRepository) FindRelation(ctx context.Context, companyID string, lowerAccountID string, upperAccountID string) (*domain.AccountRelation, error) {
	query := `
		SELECT ` + relationColumns + `
		FROM account_relations
		WHERE company_id = $1 AND lower_account_id = $2 AND upper_account_id = $3;
	`
	m, err := scanRelation(r.Pool.QueryRow(ctx, query, companyID, lowerAccountID, upperAccountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find relation %s -> %s: %w", lowerAccountID, upperAccountID, err)
	}
	d := mapping.ToDomainAccountRelation(m)
	return &d, nil
}

func (r *PgxAccountRepository) listRelations(ctx context.Context, query string, args ...any) ([]domain.AccountRelation, error) {
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query account relations: %w", err)
	}
	defer rows.Close()

	relations := []domain.AccountRelation{}
	for rows.Next() {
		m, err := scanRelation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan relation row: %w", err)
		}
		relations = append(relations, mapping.ToDomainAccountRelation(m))
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating relation rows: %w", rows.Err())
	}
	return relations, nil
}

func (r *PgxAccountRepository) ListRelationsByLower(ctx context.Context, companyID string, lowerAccountID string) ([]domain.AccountRelation, error) {
	query := `
		SELECT ` + relationColumns + `
		FROM account_relations
		WHERE company_id = $1 AND lower_account_id = $2
		ORDER BY is_primary DESC, created_at;
	`
	return r.listRelations(ctx, query, companyID, lowerAccountID)
}

func (r *PgxAccountRepository) ListRelationsByUpper(ctx context.Context, companyID string, upperAccountID string) ([]domain.AccountRelation, error) {
	query := `
		SELECT ` + relationColumns + `
		FROM account_relations
		WHERE company_id = $1 AND upper_account_id = $2
		ORDER BY created_at;
	`
	return r.listRelations(ctx, query, companyID, upperAccountID)
}

// ReplaceRelationsForLower swaps the full parent set of a lower account in one
// transaction, so readers never observe a partially replaced set.
func (r *PgxAccountRepository) ReplaceRelationsForLower(ctx context.Context, companyID string, lowerAccountID string, relations []domain.AccountRelation) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	if _, err := tx.Exec(ctx,
		`DELETE FROM account_relations WHERE company_id = $1 AND lower_account_id = $2;`,
		companyID, lowerAccountID); err != nil {
		return fmt.Errorf("failed to clear relations of account %s: %w", lowerAccountID, err)
	}

	insertQuery := `
		INSERT INTO account_relations (` + relationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	batch := &pgx.Batch{}
	for _, rel := range relations {
		m := mapping.ToModelAccountRelation(rel)
		batch.Queue(insertQuery,
			m.RelationID, m.CompanyID, m.LowerAccountID, m.UpperAccountID, m.LowerTier,
			m.IsPrimary, m.Notes, m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy)
	}
	br := tx.SendBatch(ctx, batch)
	var batchErr error
	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil && batchErr == nil {
			batchErr = fmt.Errorf("failed to insert replacement relation for account %s: %w", lowerAccountID, err)
		}
	}
	if err := br.Close(); err != nil && batchErr == nil {
		batchErr = fmt.Errorf("failed to close relation insert batch: %w", err)
	}
	if batchErr != nil {
		return batchErr
	}

	return r.Commit(ctx, tx)
}

// ExistsPathGeneralToDetail checks two-hop reachability: a subsidiary account
// linked upward to the general account and downward from the detail account.
func (r *PgxAccountRepository) ExistsPathGeneralToDetail(ctx context.Context, companyID string, generalAccountID string, detailAccountID string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1
			FROM account_relations detail_rel
			JOIN account_relations sub_rel
			  ON sub_rel.lower_account_id = detail_rel.upper_account_id
			 AND sub_rel.company_id = detail_rel.company_id
			WHERE detail_rel.company_id = $1
			  AND detail_rel.lower_account_id = $2
			  AND sub_rel.upper_account_id = $3
		);
	`
	var exists bool
	if err := r.Pool.QueryRow(ctx, query, companyID, detailAccountID, generalAccountID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check path from %s to %s: %w", generalAccountID, detailAccountID, err)
	}
	return exists, nil
}

func (r *PgxAccountRepository) CountRelationsAsUpper(ctx context.Context, companyID string, accountID string) (int64, error) {
	var count int64
	err := r.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM account_relations WHERE company_id = $1 AND upper_account_id = $2;`,
		companyID, accountID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count child relations of account %s: %w", accountID, err)
	}
	return count, nil
}

func (r *PgxAccountRepository) HasLineReferences(ctx context.Context, companyID string, accountID string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM document_lines
			WHERE company_id = $1
			  AND (general_account_id = $2 OR sub_account_id = $2 OR detail_account_id = $2)
		);
	`
	var exists bool
	if err := r.Pool.QueryRow(ctx, query, companyID, accountID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check line references of account %s: %w", accountID, err)
	}
	return exists, nil
}

// FindAccountsByIDsForUpdate retrieves multiple accounts by IDs and locks the rows for update.
// Must be called within a transaction. Rows are locked in account_id order so
// overlapping lock sets from concurrent transactions cannot deadlock.
func (r *PgxAccountRepository) FindAccountsByIDsForUpdate(ctx context.Context, tx pgx.Tx, companyID string, accountIDs []string) (map[string]domain.Account, error) {
	if len(accountIDs) == 0 {
		return map[string]domain.Account{}, nil
	}

	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE company_id = $1 AND account_id = ANY($2)
		ORDER BY account_id
		FOR UPDATE;
	`
	rows, err := tx.Query(ctx, query, companyID, accountIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts by IDs for update: %w", err)
	}
	defer rows.Close()

	accountsMap := make(map[string]domain.Account)
	for rows.Next() {
		m, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan locked account row: %w", err)
		}
		accountsMap[m.AccountID] = mapping.ToDomainAccount(m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating locked account rows: %w", err)
	}

	if len(accountsMap) != len(accountIDs) {
		missing := []string{}
		for _, id := range accountIDs {
			if _, found := accountsMap[id]; !found {
				missing = append(missing, id)
			}
		}
		slog.WarnContext(ctx, "Some accounts requested for update lock were not found", "missing_accounts", missing)
		return nil, fmt.Errorf("%w: could not find or lock all requested accounts, missing: %v", apperrors.ErrNotFound, missing)
	}

	return accountsMap, nil
}

// UpdateAccountBalancesInTx applies signed balance deltas to accounts within a transaction.
func (r *PgxAccountRepository) UpdateAccountBalancesInTx(ctx context.Context, tx pgx.Tx, balanceChanges map[string]decimal.Decimal, userID string) error {
	if len(balanceChanges) == 0 {
		return nil
	}

	query := `
		UPDATE accounts
		SET current_balance = COALESCE(current_balance, 0) + $2, last_updated_at = $3, last_updated_by = $4
		WHERE account_id = $1;
	`
	now := time.Now()
	batch := &pgx.Batch{}
	accountIDs := make([]string, 0, len(balanceChanges))
	for accountID, delta := range balanceChanges {
		if !delta.IsZero() {
			batch.Queue(query, accountID, delta, now, userID)
			accountIDs = append(accountIDs, accountID)
		}
	}
	if batch.Len() == 0 {
		return nil
	}

	br := tx.SendBatch(ctx, batch)
	var batchErr error
	for i := 0; i < batch.Len(); i++ {
		ct, err := br.Exec()
		if err != nil {
			if batchErr == nil {
				batchErr = fmt.Errorf("failed to update balance for account %s: %w", accountIDs[i], err)
			}
		} else if ct.RowsAffected() == 0 {
			if batchErr == nil {
				batchErr = fmt.Errorf("%w: account %s not found during balance update", apperrors.ErrNotFound, accountIDs[i])
			}
		}
	}
	if err := br.Close(); err != nil && batchErr == nil {
		batchErr = fmt.Errorf("failed to close balance update batch: %w", err)
	}
	return batchErr
}
