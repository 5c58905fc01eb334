package services

import (
	"context"

	"github.com/parmiserp/ledger_engine/internal/core/domain"
	"github.com/parmiserp/ledger_engine/internal/dto"
)

// CompanySvc defines operations for tenant management
type CompanySvc interface {
	// CreateCompany persists a new company.
	CreateCompany(ctx context.Context, req dto.CreateCompanyRequest, creatorUserID string) (*domain.Company, error)

	// GetCompanyByID retrieves a company by its ID.
	GetCompanyByID(ctx context.Context, companyID string) (*domain.Company, error)

	// ListCompanies retrieves a paginated list of companies.
	ListCompanies(ctx context.Context, params dto.ListCompaniesParams) ([]domain.Company, error)

	// UpdateCompany updates an existing company.
	UpdateCompany(ctx context.Context, companyID string, req dto.UpdateCompanyRequest, userID string) (*domain.Company, error)

	// DeactivateCompany marks a company as inactive.
	DeactivateCompany(ctx context.Context, companyID string, userID string) error
}
