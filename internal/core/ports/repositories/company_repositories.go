package repositories

import (
	"context"

	"github.com/parmiserp/ledger_engine/internal/core/domain"
)

// CompanyReader defines read operations for companies
type CompanyReader interface {
	// FindCompanyByID retrieves a company by its ID
	FindCompanyByID(ctx context.Context, companyID string) (*domain.Company, error)

	// ListCompanies retrieves all companies
	ListCompanies(ctx context.Context, limit int, offset int) ([]domain.Company, error)
}

// CompanyWriter defines write operations for companies
type CompanyWriter interface {
	// SaveCompany persists a new company
	SaveCompany(ctx context.Context, company *domain.Company) error

	// UpdateCompany updates an existing company
	UpdateCompany(ctx context.Context, company *domain.Company) error

	// DeactivateCompany marks a company as inactive
	DeactivateCompany(ctx context.Context, companyID string, userID string) error
}

// CompanyRepositoryFacade combines all company repository capabilities
type CompanyRepositoryFacade interface {
	CompanyReader
	CompanyWriter
}
