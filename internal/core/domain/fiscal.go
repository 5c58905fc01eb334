package domain

import "time"

// FiscalYear is a tenant-defined date range that buckets documents for
// reporting and balance snapshots. Years are not forced to be non-overlapping
// at write time; resolution tie-breaks on the latest start date instead.
type FiscalYear struct {
	FiscalYearID string     `json:"fiscalYearID"`
	CompanyID    string     `json:"companyID"`
	Code         string     `json:"code"` // Unique per (company, code), e.g. "1403" or "2024"
	Name         string     `json:"name"`
	StartDate    time.Time  `json:"startDate"`
	EndDate      time.Time  `json:"endDate"` // Invariant: StartDate < EndDate
	IsCurrent    bool       `json:"isCurrent"`
	IsClosed     bool       `json:"isClosed"`
	ClosedAt     *time.Time `json:"closedAt"`
	ClosedBy     string     `json:"closedBy"`
	IsActive     bool       `json:"isActive"`
	AuditFields
}

// Validate checks the date-range invariant.
func (fy *FiscalYear) Validate() error {
	if !fy.StartDate.Before(fy.EndDate) {
		return &InvariantError{Invariant: "fiscal-year-range", Detail: "end date must be after start date"}
	}
	return nil
}

// Contains reports whether the given date falls inside [StartDate, EndDate].
func (fy *FiscalYear) Contains(date time.Time) bool {
	return !date.Before(fy.StartDate) && !date.After(fy.EndDate)
}

// Period subdivides a fiscal year. Its range must lie within the parent's.
type Period struct {
	PeriodID     string     `json:"periodID"`
	FiscalYearID string     `json:"fiscalYearID"`
	CompanyID    string     `json:"companyID"`
	Code         string     `json:"code"` // Unique per (company, fiscal year, code)
	Name         string     `json:"name"`
	StartDate    time.Time  `json:"startDate"`
	EndDate      time.Time  `json:"endDate"`
	IsClosed     bool       `json:"isClosed"`
	ClosedAt     *time.Time `json:"closedAt"`
	ClosedBy     string     `json:"closedBy"`
	AuditFields
}

// ValidateWithin checks the period's own range and its containment in the
// parent fiscal year.
func (p *Period) ValidateWithin(fy *FiscalYear) error {
	if !p.StartDate.Before(p.EndDate) {
		return &InvariantError{Invariant: "period-range", Detail: "period end date must be after start date"}
	}
	if p.StartDate.Before(fy.StartDate) || p.EndDate.After(fy.EndDate) {
		return &InvariantError{Invariant: "period-within-year", Detail: "period range must lie within the fiscal year"}
	}
	return nil
}
