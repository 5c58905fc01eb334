package services

import (
	"context"

	"github.com/parmiserp/ledger_engine/internal/core/domain"
	"github.com/parmiserp/ledger_engine/internal/dto"
)

// AccountReaderSvc defines read operations for chart-of-accounts data
type AccountReaderSvc interface {
	// GetAccountByID retrieves a specific account by its unique identifier.
	GetAccountByID(ctx context.Context, companyID string, accountID string) (*domain.Account, error)

	// GetAccountByCode retrieves an account by its code within a company.
	GetAccountByCode(ctx context.Context, companyID string, code string) (*domain.Account, error)

	// ListAccounts retrieves a paginated list of accounts, optionally filtered by tier.
	ListAccounts(ctx context.Context, companyID string, params dto.ListAccountsParams) ([]domain.Account, error)
}

// AccountWriterSvc defines write operations for chart-of-accounts data
type AccountWriterSvc interface {
	// CreateAccount persists a new account after enforcing the classification
	// and tier invariants.
	CreateAccount(ctx context.Context, companyID string, req dto.CreateAccountRequest, creatorUserID string) (*domain.Account, error)

	// UpdateAccount updates mutable account fields. Classification and tier
	// cannot change after creation.
	UpdateAccount(ctx context.Context, companyID string, accountID string, req dto.UpdateAccountRequest, userID string) (*domain.Account, error)

	// DeactivateAccount soft-retires an account. Existing references stay intact.
	DeactivateAccount(ctx context.Context, companyID string, accountID string, userID string) error

	// DeleteAccount hard-deletes an account. Fails for system accounts and for
	// accounts referenced by relations or document lines.
	DeleteAccount(ctx context.Context, companyID string, accountID string, userID string) error
}

// AccountHierarchySvc defines operations on the account relation graph
type AccountHierarchySvc interface {
	// LinkAccounts attaches a lower account to an upper account one tier above
	// it. The first relation of a lower account becomes its primary relation.
	LinkAccounts(ctx context.Context, companyID string, lowerAccountID string, req dto.LinkAccountsRequest, userID string) (*domain.AccountRelation, error)

	// ReplaceRelations atomically swaps the full parent set of a lower account.
	ReplaceRelations(ctx context.Context, companyID string, lowerAccountID string, req dto.ReplaceRelationsRequest, userID string) ([]domain.AccountRelation, error)

	// ListUppers retrieves the parent relations of a lower account.
	ListUppers(ctx context.Context, companyID string, lowerAccountID string) ([]domain.AccountRelation, error)

	// ListLowers retrieves the child relations of an upper account.
	ListLowers(ctx context.Context, companyID string, upperAccountID string) ([]domain.AccountRelation, error)

	// ResolvePath validates that an account triple forms a usable posting path
	// through the relation graph.
	ResolvePath(ctx context.Context, companyID string, generalAccountID string, subAccountID *string, detailAccountID *string) error
}

// AccountSvcFacade combines all account-related service interfaces
// This is a facade for clients that need access to all operations
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
	AccountHierarchySvc
}
