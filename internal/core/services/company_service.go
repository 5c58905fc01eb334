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

// companyService implements the CompanySvc interface
type companyService struct {
	BaseService
	companyRepo portsrepo.CompanyRepositoryFacade
}

// NewCompanyService creates a new company service
func NewCompanyService(repo portsrepo.CompanyRepositoryFacade) portssvc.CompanySvc {
	return &companyService{companyRepo: repo}
}

var _ portssvc.CompanySvc = (*companyService)(nil)

func (s *companyService) CreateCompany(ctx context.Context, req dto.CreateCompanyRequest, creatorUserID string) (*domain.Company, error) {
	now := time.Now()
	company := domain.Company{
		CompanyID:   uuid.NewString(),
		Name:        req.Name,
		LegalName:   req.LegalName,
		TaxNumber:   req.TaxNumber,
		Description: req.Description,
		IsActive:    true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.companyRepo.SaveCompany(ctx, &company); err != nil {
		s.LogError(ctx, err, "Failed to save company", slog.String("company_name", req.Name))
		return nil, err
	}

	s.LogInfo(ctx, "Company created", slog.String("company_id", company.CompanyID))
	return &company, nil
}

func (s *companyService) GetCompanyByID(ctx context.Context, companyID string) (*domain.Company, error) {
	company, err := s.companyRepo.FindCompanyByID(ctx, companyID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find company", slog.String("company_id", companyID))
		}
		return nil, err
	}
	return company, nil
}

func (s *companyService) ListCompanies(ctx context.Context, params dto.ListCompaniesParams) ([]domain.Company, error) {
	companies, err := s.companyRepo.ListCompanies(ctx, params.Limit, params.Offset)
	if err != nil {
		s.LogError(ctx, err, "Failed to list companies")
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}
	if companies == nil {
		companies = []domain.Company{}
	}
	return companies, nil
}

func (s *companyService) UpdateCompany(ctx context.Context, companyID string, req dto.UpdateCompanyRequest, userID string) (*domain.Company, error) {
	company, err := s.companyRepo.FindCompanyByID(ctx, companyID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		company.Name = *req.Name
	}
	if req.LegalName != nil {
		company.LegalName = *req.LegalName
	}
	if req.TaxNumber != nil {
		company.TaxNumber = *req.TaxNumber
	}
	if req.Description != nil {
		company.Description = *req.Description
	}
	if req.IsActive != nil {
		company.IsActive = *req.IsActive
	}
	company.LastUpdatedAt = time.Now()
	company.LastUpdatedBy = userID

	if err := s.companyRepo.UpdateCompany(ctx, company); err != nil {
		s.LogError(ctx, err, "Failed to update company", slog.String("company_id", companyID))
		return nil, err
	}

	return company, nil
}

func (s *companyService) DeactivateCompany(ctx context.Context, companyID string, userID string) error {
	if err := s.companyRepo.DeactivateCompany(ctx, companyID, userID); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to deactivate company", slog.String("company_id", companyID))
		}
		return err
	}
	s.LogInfo(ctx, "Company deactivated", slog.String("company_id", companyID))
	return nil
}
