package services

import (
	"context"
	"time"

	"github.com/parmiserp/ledger_engine/internal/core/domain"
	"github.com/parmiserp/ledger_engine/internal/dto"
)

// FiscalReaderSvc defines read operations for fiscal calendar data
type FiscalReaderSvc interface {
	// GetFiscalYearByID retrieves a fiscal year by its ID.
	GetFiscalYearByID(ctx context.Context, companyID string, fiscalYearID string) (*domain.FiscalYear, error)

	// ListFiscalYears retrieves all fiscal years of a company.
	ListFiscalYears(ctx context.Context, companyID string) ([]domain.FiscalYear, error)

	// ListAvailableFiscalYears retrieves the years that hold documents plus the
	// current one.
	ListAvailableFiscalYears(ctx context.Context, companyID string) ([]domain.FiscalYear, error)

	// ResolveFiscalYear finds the fiscal year containing the date. When ranges
	// overlap, the year with the latest start date wins.
	ResolveFiscalYear(ctx context.Context, companyID string, date time.Time) (*domain.FiscalYear, error)

	// ListPeriods retrieves the periods of a fiscal year.
	ListPeriods(ctx context.Context, companyID string, fiscalYearID string) ([]domain.Period, error)
}

// FiscalWriterSvc defines write operations for fiscal calendar data
type FiscalWriterSvc interface {
	// CreateFiscalYear persists a new fiscal year.
	CreateFiscalYear(ctx context.Context, companyID string, req dto.CreateFiscalYearRequest, userID string) (*domain.FiscalYear, error)

	// UpdateFiscalYear updates a fiscal year. A date-range change fails if any
	// attached document would fall outside the new range.
	UpdateFiscalYear(ctx context.Context, companyID string, fiscalYearID string, req dto.UpdateFiscalYearRequest, userID string) (*domain.FiscalYear, error)

	// CloseFiscalYear marks a fiscal year closed, blocking further posting into it.
	CloseFiscalYear(ctx context.Context, companyID string, fiscalYearID string, userID string) (*domain.FiscalYear, error)

	// CreatePeriod persists a new period inside a fiscal year.
	CreatePeriod(ctx context.Context, companyID string, fiscalYearID string, req dto.CreatePeriodRequest, userID string) (*domain.Period, error)

	// ClosePeriod marks a period closed.
	ClosePeriod(ctx context.Context, companyID string, periodID string, userID string) (*domain.Period, error)
}

// FiscalSvcFacade combines all fiscal calendar service interfaces
type FiscalSvcFacade interface {
	FiscalReaderSvc
	FiscalWriterSvc
}
