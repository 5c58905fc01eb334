package domain

// MaxHierarchyDepth bounds the parent walk used for cycle detection. It is far
// deeper than any realistic categorization tree.
const MaxHierarchyDepth = 100

// CategoryNode is one node of the categorization tree layered over detail
// accounts. The tree is independent of the account DAG and is used only for
// reporting-level grouping; posting validity never consults it.
type CategoryNode struct {
	NodeID          string  `json:"nodeID"`
	CompanyID       string  `json:"companyID"`
	Code            string  `json:"code"` // Unique per (company, code)
	Name            string  `json:"name"`
	NameEn          string  `json:"nameEn"`
	ParentNodeID    *string `json:"parentNodeID"`    // Nil for roots
	DetailAccountID *string `json:"detailAccountID"` // Optional link to a tier-3 account
	Depth           int     `json:"depth"`           // 1 for roots, parent.Depth+1 otherwise; derived
	SortOrder       int     `json:"sortOrder"`
	Description     string  `json:"description"`
	IsActive        bool    `json:"isActive"`
	AuditFields
}

// IsRoot reports whether the node has no parent.
func (n *CategoryNode) IsRoot() bool {
	return n.ParentNodeID == nil || *n.ParentNodeID == ""
}
