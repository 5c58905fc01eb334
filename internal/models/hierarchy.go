package models

// CategoryNode is the DB representation of a categorization tree node.
// (company_id, code) is unique.
type CategoryNode struct {
	NodeID          string  `db:"node_id"`
	CompanyID       string  `db:"company_id"`
	Code            string  `db:"code"`
	Name            string  `db:"name"`
	NameEn          string  `db:"name_en"`
	ParentNodeID    *string `db:"parent_node_id"`
	DetailAccountID *string `db:"detail_account_id"`
	Depth           int     `db:"depth"`
	SortOrder       int     `db:"sort_order"`
	Description     string  `db:"description"`
	IsActive        bool    `db:"is_active"`
	AuditFields
}
