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

// fiscalService implements the FiscalSvcFacade interface
type fiscalService struct {
	BaseService
	fiscalRepo portsrepo.FiscalRepositoryFacade
}

// NewFiscalService creates a new fiscal calendar service
func NewFiscalService(repo portsrepo.FiscalRepositoryFacade) portssvc.FiscalSvcFacade {
	return &fiscalService{fiscalRepo: repo}
}

var _ portssvc.FiscalSvcFacade = (*fiscalService)(nil)

func (s *fiscalService) GetFiscalYearByID(ctx context.Context, companyID string, fiscalYearID string) (*domain.FiscalYear, error) {
	fy, err := s.fiscalRepo.FindFiscalYearByID(ctx, companyID, fiscalYearID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find fiscal year", slog.String("fiscal_year_id", fiscalYearID))
		}
		return nil, err
	}
	return fy, nil
}

func (s *fiscalService) ListFiscalYears(ctx context.Context, companyID string) ([]domain.FiscalYear, error) {
	years, err := s.fiscalRepo.ListFiscalYears(ctx, companyID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list fiscal years", slog.String("company_id", companyID))
		return nil, fmt.Errorf("failed to list fiscal years: %w", err)
	}
	if years == nil {
		years = []domain.FiscalYear{}
	}
	return years, nil
}

func (s *fiscalService) ListAvailableFiscalYears(ctx context.Context, companyID string) ([]domain.FiscalYear, error) {
	years, err := s.fiscalRepo.ListAvailableFiscalYears(ctx, companyID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list available fiscal years", slog.String("company_id", companyID))
		return nil, fmt.Errorf("failed to list available fiscal years: %w", err)
	}
	if years == nil {
		years = []domain.FiscalYear{}
	}
	return years, nil
}

// ResolveFiscalYear finds the fiscal year containing the date. Overlapping
// ranges are allowed in the calendar; the year with the latest start date wins
// so that a freshly opened year shadows the tail of its predecessor.
func (s *fiscalService) ResolveFiscalYear(ctx context.Context, companyID string, date time.Time) (*domain.FiscalYear, error) {
	candidates, err := s.fiscalRepo.FindFiscalYearsContaining(ctx, companyID, date)
	if err != nil {
		s.LogError(ctx, err, "Failed to resolve fiscal year", slog.Time("date", date))
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, fmt.Errorf("no fiscal year contains date %s: %w", date.Format("2006-01-02"), apperrors.ErrNotFound)
	}

	best := candidates[0]
	for _, fy := range candidates[1:] {
		if fy.StartDate.After(best.StartDate) {
			best = fy
		}
	}
	return &best, nil
}

func (s *fiscalService) ListPeriods(ctx context.Context, companyID string, fiscalYearID string) ([]domain.Period, error) {
	if _, err := s.fiscalRepo.FindFiscalYearByID(ctx, companyID, fiscalYearID); err != nil {
		return nil, err
	}
	periods, err := s.fiscalRepo.ListPeriodsByFiscalYear(ctx, companyID, fiscalYearID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list periods", slog.String("fiscal_year_id", fiscalYearID))
		return nil, fmt.Errorf("failed to list periods: %w", err)
	}
	if periods == nil {
		periods = []domain.Period{}
	}
	return periods, nil
}

func (s *fiscalService) CreateFiscalYear(ctx context.Context, companyID string, req dto.CreateFiscalYearRequest, userID string) (*domain.FiscalYear, error) {
	now := time.Now()
	fy := domain.FiscalYear{
		FiscalYearID: uuid.NewString(),
		CompanyID:    companyID,
		Code:         req.Code,
		Name:         req.Name,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		IsCurrent:    req.IsCurrent,
		IsActive:     true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	if err := fy.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", err.Error(), apperrors.ErrValidation)
	}

	// Only one fiscal year may carry the current marker.
	if fy.IsCurrent {
		if err := s.fiscalRepo.ClearCurrentFlag(ctx, companyID, userID); err != nil {
			return nil, err
		}
	}

	if err := s.fiscalRepo.SaveFiscalYear(ctx, &fy); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("fiscal year code %q already exists in company: %w", req.Code, err)
		}
		s.LogError(ctx, err, "Failed to save fiscal year", slog.String("code", req.Code))
		return nil, err
	}

	s.LogInfo(ctx, "Fiscal year created", slog.String("fiscal_year_id", fy.FiscalYearID), slog.String("code", fy.Code))
	return &fy, nil
}

func (s *fiscalService) UpdateFiscalYear(ctx context.Context, companyID string, fiscalYearID string, req dto.UpdateFiscalYearRequest, userID string) (*domain.FiscalYear, error) {
	fy, err := s.fiscalRepo.FindFiscalYearByID(ctx, companyID, fiscalYearID)
	if err != nil {
		return nil, err
	}
	if fy.IsClosed {
		return nil, fmt.Errorf("closed fiscal years cannot be edited: %w", apperrors.ErrConflict)
	}

	if req.Name != nil {
		fy.Name = *req.Name
	}
	if req.IsActive != nil {
		fy.IsActive = *req.IsActive
	}

	rangeChanged := false
	if req.StartDate != nil {
		fy.StartDate = *req.StartDate
		rangeChanged = true
	}
	if req.EndDate != nil {
		fy.EndDate = *req.EndDate
		rangeChanged = true
	}
	if rangeChanged {
		if err := fy.Validate(); err != nil {
			return nil, fmt.Errorf("%s: %w", err.Error(), apperrors.ErrValidation)
		}
		// Shrinking the range must not orphan documents already dated inside it.
		outside, err := s.fiscalRepo.CountDocumentsOutsideRange(ctx, companyID, fiscalYearID, fy.StartDate, fy.EndDate)
		if err != nil {
			return nil, err
		}
		if outside > 0 {
			return nil, fmt.Errorf("%d documents would fall outside the new date range: %w", outside, apperrors.ErrConflict)
		}
	}

	if req.IsCurrent != nil && *req.IsCurrent && !fy.IsCurrent {
		if err := s.fiscalRepo.ClearCurrentFlag(ctx, companyID, userID); err != nil {
			return nil, err
		}
		fy.IsCurrent = true
	}
	if req.IsCurrent != nil && !*req.IsCurrent {
		fy.IsCurrent = false
	}

	fy.LastUpdatedAt = time.Now()
	fy.LastUpdatedBy = userID

	if err := s.fiscalRepo.UpdateFiscalYear(ctx, fy); err != nil {
		s.LogError(ctx, err, "Failed to update fiscal year", slog.String("fiscal_year_id", fiscalYearID))
		return nil, err
	}
	return fy, nil
}

func (s *fiscalService) CloseFiscalYear(ctx context.Context, companyID string, fiscalYearID string, userID string) (*domain.FiscalYear, error) {
	fy, err := s.fiscalRepo.FindFiscalYearByID(ctx, companyID, fiscalYearID)
	if err != nil {
		return nil, err
	}
	if fy.IsClosed {
		return nil, fmt.Errorf("fiscal year is already closed: %w", apperrors.ErrConflict)
	}

	now := time.Now()
	fy.IsClosed = true
	fy.ClosedAt = &now
	fy.ClosedBy = userID
	fy.IsCurrent = false
	fy.LastUpdatedAt = now
	fy.LastUpdatedBy = userID

	if err := s.fiscalRepo.UpdateFiscalYear(ctx, fy); err != nil {
		s.LogError(ctx, err, "Failed to close fiscal year", slog.String("fiscal_year_id", fiscalYearID))
		return nil, err
	}

	s.LogInfo(ctx, "Fiscal year closed", slog.String("fiscal_year_id", fiscalYearID))
	return fy, nil
}

func (s *fiscalService) CreatePeriod(ctx context.Context, companyID string, fiscalYearID string, req dto.CreatePeriodRequest, userID string) (*domain.Period, error) {
	fy, err := s.fiscalRepo.FindFiscalYearByID(ctx, companyID, fiscalYearID)
	if err != nil {
		return nil, err
	}
	if fy.IsClosed {
		return nil, fmt.Errorf("closed fiscal years cannot take new periods: %w", apperrors.ErrConflict)
	}

	now := time.Now()
	period := domain.Period{
		PeriodID:     uuid.NewString(),
		FiscalYearID: fiscalYearID,
		CompanyID:    companyID,
		Code:         req.Code,
		Name:         req.Name,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	if err := period.ValidateWithin(fy); err != nil {
		return nil, fmt.Errorf("%s: %w", err.Error(), apperrors.ErrValidation)
	}

	if err := s.fiscalRepo.SavePeriod(ctx, &period); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("period code %q already exists in fiscal year: %w", req.Code, err)
		}
		s.LogError(ctx, err, "Failed to save period", slog.String("code", req.Code))
		return nil, err
	}

	s.LogInfo(ctx, "Period created", slog.String("period_id", period.PeriodID), slog.String("fiscal_year_id", fiscalYearID))
	return &period, nil
}

func (s *fiscalService) ClosePeriod(ctx context.Context, companyID string, periodID string, userID string) (*domain.Period, error) {
	period, err := s.fiscalRepo.FindPeriodByID(ctx, companyID, periodID)
	if err != nil {
		return nil, err
	}
	if period.IsClosed {
		return nil, fmt.Errorf("period is already closed: %w", apperrors.ErrConflict)
	}

	now := time.Now()
	period.IsClosed = true
	period.ClosedAt = &now
	period.ClosedBy = userID
	period.LastUpdatedAt = now
	period.LastUpdatedBy = userID

	if err := s.fiscalRepo.UpdatePeriod(ctx, period); err != nil {
		s.LogError(ctx, err, "Failed to close period", slog.String("period_id", periodID))
		return nil, err
	}

	s.LogInfo(ctx, "Period closed", slog.String("period_id", periodID))
	return period, nil
}
