package models

// Company is the DB representation of a tenant.
type Company struct {
	CompanyID   string `db:"company_id"`
	Name        string `db:"name"`
	LegalName   string `db:"legal_name"`
	TaxNumber   string `db:"tax_number"`
	Description string `db:"description"`
	IsActive    bool   `db:"is_active"`
	AuditFields
}
