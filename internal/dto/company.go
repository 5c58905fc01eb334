package dto

import (
	"time"

	"github.com/parmiserp/ledger_engine/internal/core/domain"
)

// CreateCompanyRequest defines the data needed to create a company.
type CreateCompanyRequest struct {
	Name        string `json:"name" binding:"required"`
	LegalName   string `json:"legalName"`
	TaxNumber   string `json:"taxNumber"`
	Description string `json:"description"`
}

// UpdateCompanyRequest defines the data allowed for updating a company.
type UpdateCompanyRequest struct {
	Name        *string `json:"name"`
	LegalName   *string `json:"legalName"`
	TaxNumber   *string `json:"taxNumber"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"isActive"`
}

// CompanyResponse defines the data returned for a company.
type CompanyResponse struct {
	CompanyID   string    `json:"companyID"`
	Name        string    `json:"name"`
	LegalName   string    `json:"legalName"`
	TaxNumber   string    `json:"taxNumber"`
	Description string    `json:"description"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ToCompanyResponse converts a domain.Company to its DTO.
func ToCompanyResponse(c *domain.Company) CompanyResponse {
	return CompanyResponse{
		CompanyID:   c.CompanyID,
		Name:        c.Name,
		LegalName:   c.LegalName,
		TaxNumber:   c.TaxNumber,
		Description: c.Description,
		IsActive:    c.IsActive,
		CreatedAt:   c.CreatedAt,
	}
}

// ToListCompanyResponse converts a slice of companies to DTOs.
func ToListCompanyResponse(companies []domain.Company) []CompanyResponse {
	res := make([]CompanyResponse, len(companies))
	for i, c := range companies {
		res[i] = ToCompanyResponse(&c)
	}
	return res
}

// ListCompaniesParams defines query parameters for listing companies.
type ListCompaniesParams struct {
	Limit  int `form:"limit,default=20"`
	Offset int `form:"offset,default=0"`
}
