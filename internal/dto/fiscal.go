package dto

import (
	"time"

	"github.com/parmiserp/ledger_engine/internal/core/domain"
)

// CreateFiscalYearRequest defines the data needed to create a fiscal year.
type CreateFiscalYearRequest struct {
	Code      string    `json:"code" binding:"required"`
	Name      string    `json:"name" binding:"required"`
	StartDate time.Time `json:"startDate" binding:"required" time_format:"2006-01-02"`
	EndDate   time.Time `json:"endDate" binding:"required" time_format:"2006-01-02"`
	IsCurrent bool      `json:"isCurrent"`
}

// UpdateFiscalYearRequest defines the data allowed for updating a fiscal year.
// Changing the date range revalidates every attached document date.
type UpdateFiscalYearRequest struct {
	Name      *string    `json:"name"`
	StartDate *time.Time `json:"startDate" time_format:"2006-01-02"`
	EndDate   *time.Time `json:"endDate" time_format:"2006-01-02"`
	IsCurrent *bool      `json:"isCurrent"`
	IsActive  *bool      `json:"isActive"`
}

// FiscalYearResponse defines the data returned for a fiscal year.
type FiscalYearResponse struct {
	FiscalYearID string     `json:"fiscalYearID"`
	CompanyID    string     `json:"companyID"`
	Code         string     `json:"code"`
	Name         string     `json:"name"`
	StartDate    time.Time  `json:"startDate"`
	EndDate      time.Time  `json:"endDate"`
	IsCurrent    bool       `json:"isCurrent"`
	IsClosed     bool       `json:"isClosed"`
	ClosedAt     *time.Time `json:"closedAt"`
	ClosedBy     string     `json:"closedBy,omitempty"`
	IsActive     bool       `json:"isActive"`
	CreatedAt    time.Time  `json:"createdAt"`
}

// ToFiscalYearResponse converts a domain.FiscalYear to its DTO.
func ToFiscalYearResponse(fy *domain.FiscalYear) FiscalYearResponse {
	return FiscalYearResponse{
		FiscalYearID: fy.FiscalYearID,
		CompanyID:    fy.CompanyID,
		Code:         fy.Code,
		Name:         fy.Name,
		StartDate:    fy.StartDate,
		EndDate:      fy.EndDate,
		IsCurrent:    fy.IsCurrent,
		IsClosed:     fy.IsClosed,
		ClosedAt:     fy.ClosedAt,
		ClosedBy:     fy.ClosedBy,
		IsActive:     fy.IsActive,
		CreatedAt:    fy.CreatedAt,
	}
}

// ToListFiscalYearResponse converts a slice of fiscal years to DTOs.
func ToListFiscalYearResponse(years []domain.FiscalYear) []FiscalYearResponse {
	res := make([]FiscalYearResponse, len(years))
	for i, fy := range years {
		res[i] = ToFiscalYearResponse(&fy)
	}
	return res
}

// CreatePeriodRequest defines the data needed to create a period inside a
// fiscal year.
type CreatePeriodRequest struct {
	Code      string    `json:"code" binding:"required"`
	Name      string    `json:"name" binding:"required"`
	StartDate time.Time `json:"startDate" binding:"required" time_format:"2006-01-02"`
	EndDate   time.Time `json:"endDate" binding:"required" time_format:"2006-01-02"`
}

// PeriodResponse defines the data returned for a period.
type PeriodResponse struct {
	PeriodID     string     `json:"periodID"`
	FiscalYearID string     `json:"fiscalYearID"`
	Code         string     `json:"code"`
	Name         string     `json:"name"`
	StartDate    time.Time  `json:"startDate"`
	EndDate      time.Time  `json:"endDate"`
	IsClosed     bool       `json:"isClosed"`
	ClosedAt     *time.Time `json:"closedAt"`
}

// ToPeriodResponse converts a domain.Period to its DTO.
func ToPeriodResponse(p *domain.Period) PeriodResponse {
	return PeriodResponse{
		PeriodID:     p.PeriodID,
		FiscalYearID: p.FiscalYearID,
		Code:         p.Code,
		Name:         p.Name,
		StartDate:    p.StartDate,
		EndDate:      p.EndDate,
		IsClosed:     p.IsClosed,
		ClosedAt:     p.ClosedAt,
	}
}

// ToListPeriodResponse converts a slice of periods to DTOs.
func ToListPeriodResponse(periods []domain.Period) []PeriodResponse {
	res := make([]PeriodResponse, len(periods))
	for i, p := range periods {
		res[i] = ToPeriodResponse(&p)
	}
	return res
}

// ResolveFiscalYearParams defines the query for resolving a fiscal year from a date.
type ResolveFiscalYearParams struct {
	Date time.Time `form:"date" binding:"required" time_format:"2006-01-02"`
}
