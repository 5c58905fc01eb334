package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/parmiserp/ledger_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AccountReader defines read operations for accounts
type AccountReader interface {
	// FindAccountByID retrieves an account by its ID within a company
	FindAccountByID(ctx context.Context, companyID string, accountID string) (*domain.Account, error)

	// FindAccountByCode retrieves an account by its code within a company
	FindAccountByCode(ctx context.Context, companyID string, code string) (*domain.Account, error)

	// FindAccountsByIDs retrieves multiple accounts by their IDs
	FindAccountsByIDs(ctx context.Context, companyID string, accountIDs []string) (map[string]domain.Account, error)

	// ListAccounts retrieves accounts for a company, optionally filtered by tier
	ListAccounts(ctx context.Context, companyID string, tier *domain.AccountTier, limit int, offset int) ([]domain.Account, error)
}

// AccountWriter defines write operations for accounts
type AccountWriter interface {
	// SaveAccount persists a new account
	SaveAccount(ctx context.Context, account *domain.Account) error

	// UpdateAccount updates an existing account
	UpdateAccount(ctx context.Context, account *domain.Account) error

	// DeactivateAccount marks an account as inactive
	DeactivateAccount(ctx context.Context, companyID string, accountID string, userID string) error

	// DeleteAccount removes an account permanently
	DeleteAccount(ctx context.Context, companyID string, accountID string) error
}

// AccountRelationOps defines operations on the lower/upper account relation set
type AccountRelationOps interface {
	// SaveRelation persists a new relation between a lower and an upper account
	SaveRelation(ctx context.Context, relation *domain.AccountRelation) error

	// FindRelation retrieves the relation between a lower and an upper account, if any
	FindRelation(ctx context.Context, companyID string, lowerAccountID string, upperAccountID string) (*domain.AccountRelation, error)

	// ListRelationsByLower retrieves all relations where the given account is the lower side
	ListRelationsByLower(ctx context.Context, companyID string, lowerAccountID string) ([]domain.AccountRelation, error)

	// ListRelationsByUpper retrieves all relations where the given account is the upper side
	ListRelationsByUpper(ctx context.Context, companyID string, upperAccountID string) ([]domain.AccountRelation, error)

	// ReplaceRelationsForLower atomically replaces the full relation set of a lower account
	ReplaceRelationsForLower(ctx context.Context, companyID string, lowerAccountID string, relations []domain.AccountRelation) error

	// ExistsPathGeneralToDetail reports whether a detail account is reachable from a
	// general account, either directly or through any subsidiary account
	ExistsPathGeneralToDetail(ctx context.Context, companyID string, generalAccountID string, detailAccountID string) (bool, error)

	// CountRelationsAsUpper returns how many relations reference the account as the upper side
	CountRelationsAsUpper(ctx context.Context, companyID string, accountID string) (int64, error)
}

// AccountReferenceChecker defines queries about references to an account from posted data
type AccountReferenceChecker interface {
	// HasLineReferences reports whether any document line references the account
	HasLineReferences(ctx context.Context, companyID string, accountID string) (bool, error)
}

// AccountRepositoryTransactionSupport defines account operations that run inside a caller-owned transaction
type AccountRepositoryTransactionSupport interface {
	// FindAccountsByIDsForUpdate retrieves and locks accounts within a transaction
	FindAccountsByIDsForUpdate(ctx context.Context, tx pgx.Tx, companyID string, accountIDs []string) (map[string]domain.Account, error)

	// UpdateAccountBalancesInTx applies signed balance changes to accounts within a transaction
	UpdateAccountBalancesInTx(ctx context.Context, tx pgx.Tx, balanceChanges map[string]decimal.Decimal, userID string) error
}

// AccountRepositoryFacade combines all account repository capabilities
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
	AccountRelationOps
	AccountReferenceChecker
	AccountRepositoryTransactionSupport
	TransactionManager
}
