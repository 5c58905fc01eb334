package models

import "time"

// FiscalYear is the DB representation of a fiscal year.
type FiscalYear struct {
	FiscalYearID string     `db:"fiscal_year_id"`
	CompanyID    string     `db:"company_id"`
	Code         string     `db:"code"`
	Name         string     `db:"name"`
	StartDate    time.Time  `db:"start_date"`
	EndDate      time.Time  `db:"end_date"`
	IsCurrent    bool       `db:"is_current"`
	IsClosed     bool       `db:"is_closed"`
	ClosedAt     *time.Time `db:"closed_at"`
	ClosedBy     string     `db:"closed_by"`
	IsActive     bool       `db:"is_active"`
	AuditFields
}

// Period is the DB representation of a fiscal-year subdivision.
type Period struct {
	PeriodID     string     `db:"period_id"`
	FiscalYearID string     `db:"fiscal_year_id"`
	CompanyID    string     `db:"company_id"`
	Code         string     `db:"code"`
	Name         string     `db:"name"`
	StartDate    time.Time  `db:"start_date"`
	EndDate      time.Time  `db:"end_date"`
	IsClosed     bool       `db:"is_closed"`
	ClosedAt     *time.Time `db:"closed_at"`
	ClosedBy     string     `db:"closed_by"`
	AuditFields
}
