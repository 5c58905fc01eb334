package repositories

import (
	"context"
	"time"

	"github.com/parmiserp/ledger_engine/internal/core/domain"
)

// FiscalYearReader defines read operations for fiscal years
type FiscalYearReader interface {
	// FindFiscalYearByID retrieves a fiscal year by its ID within a company
	FindFiscalYearByID(ctx context.Context, companyID string, fiscalYearID string) (*domain.FiscalYear, error)

	// ListFiscalYears retrieves all fiscal years for a company
	ListFiscalYears(ctx context.Context, companyID string) ([]domain.FiscalYear, error)

	// FindFiscalYearsContaining retrieves the active fiscal years whose range contains the date
	FindFiscalYearsContaining(ctx context.Context, companyID string, date time.Time) ([]domain.FiscalYear, error)

	// ListAvailableFiscalYears retrieves the fiscal years that hold at least one
	// document, plus the current one
	ListAvailableFiscalYears(ctx context.Context, companyID string) ([]domain.FiscalYear, error)
}

// FiscalYearWriter defines write operations for fiscal years
type FiscalYearWriter interface {
	// SaveFiscalYear persists a new fiscal year
	SaveFiscalYear(ctx context.Context, fiscalYear *domain.FiscalYear) error

	// UpdateFiscalYear updates an existing fiscal year
	UpdateFiscalYear(ctx context.Context, fiscalYear *domain.FiscalYear) error

	// ClearCurrentFlag unsets the current marker on every fiscal year of the company
	ClearCurrentFlag(ctx context.Context, companyID string, userID string) error
}

// PeriodReader defines read operations for fiscal periods
type PeriodReader interface {
	// FindPeriodByID retrieves a period by its ID within a company
	FindPeriodByID(ctx context.Context, companyID string, periodID string) (*domain.Period, error)

	// ListPeriodsByFiscalYear retrieves the periods of a fiscal year ordered by start date
	ListPeriodsByFiscalYear(ctx context.Context, companyID string, fiscalYearID string) ([]domain.Period, error)
}

// PeriodWriter defines write operations for fiscal periods
type PeriodWriter interface {
	// SavePeriod persists a new period
	SavePeriod(ctx context.Context, period *domain.Period) error

	// UpdatePeriod updates an existing period
	UpdatePeriod(ctx context.Context, period *domain.Period) error
}

// FiscalDocumentChecker defines queries about documents attached to fiscal years
type FiscalDocumentChecker interface {
	// CountDocumentsOutsideRange returns how many documents of the fiscal year carry
	// a document date outside the given range
	CountDocumentsOutsideRange(ctx context.Context, companyID string, fiscalYearID string, start time.Time, end time.Time) (int64, error)

	// CountDocumentsByFiscalYear returns how many documents belong to the fiscal year
	CountDocumentsByFiscalYear(ctx context.Context, companyID string, fiscalYearID string) (int64, error)
}

// FiscalRepositoryFacade combines all fiscal repository capabilities
type FiscalRepositoryFacade interface {
	FiscalYearReader
	FiscalYearWriter
	PeriodReader
	PeriodWriter
	FiscalDocumentChecker
}
