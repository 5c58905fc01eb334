package mapping

import (
	"github.com/parmiserp/ledger_engine/internal/core/domain"
	"github.com/parmiserp/ledger_engine/internal/models"
)

// ToModelCategoryNode converts a domain CategoryNode to a model CategoryNode
func ToModelCategoryNode(d domain.CategoryNode) models.CategoryNode {
	return models.CategoryNode{
		NodeID:          d.NodeID,
		CompanyID:       d.CompanyID,
		Code:            d.Code,
		Name:            d.Name,
		NameEn:          d.NameEn,
		ParentNodeID:    d.ParentNodeID,
		DetailAccountID: d.DetailAccountID,
		Depth:           d.Depth,
		SortOrder:       d.SortOrder,
		Description:     d.Description,
		IsActive:        d.IsActive,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainCategoryNode converts a model CategoryNode to a domain CategoryNode
func ToDomainCategoryNode(m models.CategoryNode) domain.CategoryNode {
	return domain.CategoryNode{
		NodeID:          m.NodeID,
		CompanyID:       m.CompanyID,
		Code:            m.Code,
		Name:            m.Name,
		NameEn:          m.NameEn,
		ParentNodeID:    m.ParentNodeID,
		DetailAccountID: m.DetailAccountID,
		Depth:           m.Depth,
		SortOrder:       m.SortOrder,
		Description:     m.Description,
		IsActive:        m.IsActive,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainCategoryNodeSlice converts a slice of model nodes to domain nodes
func ToDomainCategoryNodeSlice(ms []models.CategoryNode) []domain.CategoryNode {
	ds := make([]domain.CategoryNode, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainCategoryNode(m)
	}
	return ds
}
