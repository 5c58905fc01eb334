package domain

// Company is the tenant that owns every other entity. Engine calls always
// take the company ID explicitly; nothing is read from ambient state.
type Company struct {
	CompanyID   string `json:"companyID"`
	Name        string `json:"name"`
	LegalName   string `json:"legalName"`
	TaxNumber   string `json:"taxNumber"`
	Description string `json:"description"`
	IsActive    bool   `json:"isActive"`
	AuditFields
}
