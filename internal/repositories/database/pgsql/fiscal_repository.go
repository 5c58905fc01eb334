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

const fiscalYearColumns = `fiscal_year_id, company_id, code, name, start_date, end_date, is_current, is_closed,
		closed_at, closed_by, is_active, created_at, created_by, last_updated_at, last_updated_by`

const periodColumns = `period_id, fiscal_year_id, company_id, code, name, start_date, end_date, is_closed,
		closed_at, closed_by, created_at, created_by, last_updated_at, last_updated_by`

type PgxFiscalRepository struct {
	BaseRepository
}

// newPgxFiscalRepository creates a new repository for fiscal calendar data.
func newPgxFiscalRepository(pool *pgxpool.Pool) portsrepo.FiscalRepositoryFacade {
	return &PgxFiscalRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.FiscalRepositoryFacade = (*PgxFiscalRepository)(nil)

func scanFiscalYear(row rowScanner) (models.FiscalYear, error) {
	var m models.FiscalYear
	err := row.Scan(
		&m.FiscalYearID,
		&m.CompanyID,
		&m.Code,
		&m.Name,
		&m.StartDate,
		&m.EndDate,
		&m.IsCurrent,
		&m.IsClosed,
		&m.ClosedAt,
		&m.ClosedBy,
		&m.IsActive,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func scanPeriod(row rowScanner) (models.Period, error) {
	var m models.Period
	err := row.Scan(
		&m.PeriodID,
		&m.FiscalYearID,
		&m.CompanyID,
		&m.Code,
		&m.Name,
		&m.StartDate,
		&m.EndDate,
		&m.IsClosed,
		&m.ClosedAt,
		&m.ClosedBy,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func (r *PgxFiscalRepository) SaveFiscalYear(ctx context.Context, fiscalYear *domain.FiscalYear) error {
	m := mapping.ToModelFiscalYear(*fiscalYear)

	query := `
		INSERT INTO fiscal_years (` + fiscalYearColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.FiscalYearID,
		m.CompanyID,
		m.Code,
		m.Name,
		m.StartDate,
		m.EndDate,
		m.IsCurrent,
		m.IsClosed,
		m.ClosedAt,
		m.ClosedBy,
		m.IsActive,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: fiscal year code %s already exists in company %s", apperrors.ErrDuplicate, m.Code, m.CompanyID)
		}
		return fmt.Errorf("failed to save fiscal year %s: %w", m.FiscalYearID, err)
	}
	return nil
}

func (r *PgxFiscalRepository) FindFiscalYearByID(ctx context.Context, companyID string, fiscalYearID string) (*domain.FiscalYear, error) {
	query := `
		SELECT ` + fiscalYearColumns + `
		FROM fiscal_years
		WHERE company_id = $1 AND fiscal_year_id = $2;
	`
	m, err := scanFiscalYear(r.Pool.QueryRow(ctx, query, companyID, fiscalYearID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find fiscal year by ID %s: %w", fiscalYearID, err)
	}
	d := mapping.ToDomainFiscalYear(m)
	return &d, nil
}

func (r *PgxFiscalRepository) listFiscalYears(ctx context.Context, query string, args ...any) ([]domain.FiscalYear, error) {
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query fiscal years: %w", err)
	}
	defer rows.Close()

	years := []domain.FiscalYear{}
	for rows.Next() {
		m, err := scanFiscalYear(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan fiscal year row: %w", err)
		}
		years = append(years, mapping.ToDomainFiscalYear(m))
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating fiscal year rows: %w", rows.Err())
	}
	return years, nil
}

func (r *PgxFiscalRepository) ListFiscalYears(ctx context.Context, companyID string) ([]domain.FiscalYear, error) {
	query := `
		SELECT ` + fiscalYearColumns + `
		FROM fiscal_years
		WHERE company_id = $1
		ORDER BY start_date DESC;
	`
	return r.listFiscalYears(ctx, query, companyID)
}

func (r *PgxFiscalRepository) FindFiscalYearsContaining(ctx context.Context, companyID string, date time.Time) ([]domain.FiscalYear, error) {
	query := `
		SELECT ` + fiscalYearColumns + `
		FROM fiscal_years
		WHERE company_id = $1 AND is_active = TRUE AND start_date <= $2 AND end_date >= $2
		ORDER BY start_date DESC;
	`
	return r.listFiscalYears(ctx, query, companyID, date)
}

// ListAvailableFiscalYears returns every year that holds at least one
// document, plus the current year even when it is still empty.
func (r *PgxFiscalRepository) ListAvailableFiscalYears(ctx context.Context, companyID string) ([]domain.FiscalYear, error) {
	query := `
		SELECT ` + fiscalYearColumns + `
		FROM fiscal_years fy
		WHERE fy.company_id = $1
		  AND (fy.is_current = TRUE
		       OR EXISTS (SELECT 1 FROM documents d WHERE d.company_id = fy.company_id AND d.fiscal_year_id = fy.fiscal_year_id))
		ORDER BY start_date DESC;
	`
	return r.listFiscalYears(ctx, query, companyID)
}

func (r *PgxFiscalRepository) UpdateFiscalYear(ctx context.Context, fiscalYear *domain.FiscalYear) error {
	m := mapping.ToModelFiscalYear(*fiscalYear)

	query := `
		UPDATE fiscal_years
		SET name = $3, start_date = $4, end_date = $5, is_current = $6, is_closed = $7,
		    closed_at = $8, closed_by = $9, is_active = $10, last_updated_at = $11, last_updated_by = $12
		WHERE company_id = $1 AND fiscal_year_id = $2;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		m.CompanyID,
		m.FiscalYearID,
		m.Name,
		m.StartDate,
		m.EndDate,
		m.IsCurrent,
		m.IsClosed,
		m.ClosedAt,
		m.ClosedBy,
		m.IsActive,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to execute update fiscal year %s: %w", m.FiscalYearID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxFiscalRepository) ClearCurrentFlag(ctx context.Context, companyID string, userID string) error {
	_, err := r.Pool.Exec(ctx, `
		UPDATE fiscal_years
		SET is_current = FALSE, last_updated_at = $2, last_updated_by = $3
		WHERE company_id = $1 AND is_current = TRUE;
	`, companyID, time.Now(), userID)
	if err != nil {
		return fmt.Errorf("failed to clear current fiscal year flag for company %s: %w", companyID, err)
	}
	return nil
}

func (r *PgxFiscalRepository) SavePeriod(ctx context.Context, period *domain.Period) error {
	m := mapping.ToModelPeriod(*period)

	query := `
		INSERT INTO fiscal_periods (` + periodColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.PeriodID,
		m.FiscalYearID,
		m.CompanyID,
		m.Code,
		m.Name,
		m.StartDate,
		m.EndDate,
		m.IsClosed,
		m.ClosedAt,
		m.ClosedBy,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: period code %s already exists in fiscal year %s", apperrors.ErrDuplicate, m.Code, m.FiscalYearID)
		}
		return fmt.Errorf("failed to save period %s: %w", m.PeriodID, err)
	}
	return nil
}

func (r *PgxFiscalRepository) FindPeriodByID(ctx context.Context, companyID string, periodID string) (*domain.Period, error) {
	query := `
		SELECT ` + periodColumns + `
		FROM fiscal_periods
		WHERE company_id = $1 AND period_id = $2;
	`
	m, err := scanPeriod(r.Pool.QueryRow(ctx, query, companyID, periodID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find period by ID %s: %w", periodID, err)
	}
	d := mapping.ToDomainPeriod(m)
	return &d, nil
}

func (r *PgxFiscalRepository) ListPeriodsByFiscalYear(ctx context.Context, companyID string, fiscalYearID string) ([]domain.Period, error) {
	query := `
		SELECT ` + periodColumns + `
		FROM fiscal_periods
		WHERE company_id = $1 AND fiscal_year_id = $2
		ORDER BY start_date;
	`
	rows, err := r.Pool.Query(ctx, query, companyID, fiscalYearID)
	if err != nil {
		return nil, fmt.Errorf("failed to query periods for fiscal year %s: %w", fiscalYearID, err)
	}
	defer rows.Close()

	periods := []domain.Period{}
	for rows.Next() {
		m, err := scanPeriod(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan period row: %w", err)
		}
		periods = append(periods, mapping.ToDomainPeriod(m))
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating period rows: %w", rows.Err())
	}
	return periods, nil
}

func (r *PgxFiscalRepository) UpdatePeriod(ctx context.Context, period *domain.Period) error {
	m := mapping.ToModelPeriod(*period)

	query := `
		UPDATE fiscal_periods
		SET name = $3, start_date = $4, end_date = $5, is_closed = $6, closed_at = $7, closed_by = $8,
		    last_updated_at = $9, last_updated_by = $10
		WHERE company_id = $1 AND period_id = $2;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		m.CompanyID,
		m.PeriodID,
		m.Name,
		m.StartDate,
		m.EndDate,
		m.IsClosed,
		m.ClosedAt,
		m.ClosedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to execute update period %s: %w", m.PeriodID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxFiscalRepository) CountDocumentsOutsideRange(ctx context.Context, companyID string, fiscalYearID string, start time.Time, end time.Time) (int64, error) {
	var count int64
	err := r.Pool.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM documents
		WHERE company_id = $1 AND fiscal_year_id = $2
		  AND status <> 'CANCELLED'
		  AND (document_date < $3 OR document_date > $4);
	`, companyID, fiscalYearID, start, end).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count documents outside range for fiscal year %s: %w", fiscalYearID, err)
	}
	return count, nil
}

func (r *PgxFiscalRepository) CountDocumentsByFiscalYear(ctx context.Context, companyID string, fiscalYearID string) (int64, error) {
	var count int64
	err := r.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM documents WHERE company_id = $1 AND fiscal_year_id = $2;`,
		companyID, fiscalYearID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count documents for fiscal year %s: %w", fiscalYearID, err)
	}
	return count, nil
}
