package dto

import (
	"time"

	"github.com/parmiserp/ledger_engine/internal/core/domain"
)

// CreateCategoryNodeRequest defines the data needed to create a category node.
type CreateCategoryNodeRequest struct {
	Code            string  `json:"code" binding:"required"`
	Name            string  `json:"name" binding:"required"`
	NameEn          string  `json:"nameEn"`
	ParentNodeID    *string `json:"parentNodeID"`    // Nil creates a root
	DetailAccountID *string `json:"detailAccountID"` // Optional tier-3 account link
	SortOrder       int     `json:"sortOrder"`
	Description     string  `json:"description"`
}

// UpdateCategoryNodeRequest defines the data allowed for updating a node.
// A non-nil ParentNodeID reparents the node; depth is recomputed for the
// whole moved subtree.
type UpdateCategoryNodeRequest struct {
	Name            *string `json:"name"`
	NameEn          *string `json:"nameEn"`
	ParentNodeID    *string `json:"parentNodeID"`
	DetailAccountID *string `json:"detailAccountID"`
	SortOrder       *int    `json:"sortOrder"`
	Description     *string `json:"description"`
	IsActive        *bool   `json:"isActive"`
}

// CategoryNodeResponse defines the data returned for a category node.
type CategoryNodeResponse struct {
	NodeID          string    `json:"nodeID"`
	CompanyID       string    `json:"companyID"`
	Code            string    `json:"code"`
	Name            string    `json:"name"`
	NameEn          string    `json:"nameEn"`
	ParentNodeID    *string   `json:"parentNodeID"`
	DetailAccountID *string   `json:"detailAccountID"`
	Depth           int       `json:"depth"`
	SortOrder       int       `json:"sortOrder"`
	Description     string    `json:"description"`
	IsActive        bool      `json:"isActive"`
	CreatedAt       time.Time `json:"createdAt"`
	LastUpdatedAt   time.Time `json:"lastUpdatedAt"`
}

// ToCategoryNodeResponse converts a domain.CategoryNode to its DTO.
func ToCategoryNodeResponse(n *domain.CategoryNode) CategoryNodeResponse {
	return CategoryNodeResponse{
		NodeID:          n.NodeID,
		CompanyID:       n.CompanyID,
		Code:            n.Code,
		Name:            n.Name,
		NameEn:          n.NameEn,
		ParentNodeID:    n.ParentNodeID,
		DetailAccountID: n.DetailAccountID,
		Depth:           n.Depth,
		SortOrder:       n.SortOrder,
		Description:     n.Description,
		IsActive:        n.IsActive,
		CreatedAt:       n.CreatedAt,
		LastUpdatedAt:   n.LastUpdatedAt,
	}
}

// ToListCategoryNodeResponse converts a slice of nodes to DTOs.
func ToListCategoryNodeResponse(nodes []domain.CategoryNode) []CategoryNodeResponse {
	res := make([]CategoryNodeResponse, len(nodes))
	for i, n := range nodes {
		res[i] = ToCategoryNodeResponse(&n)
	}
	return res
}

// ListCategoryNodesParams defines query parameters for listing nodes.
type ListCategoryNodesParams struct {
	ParentNodeID *string `form:"parentNodeID"` // Absent lists the whole tree, empty string lists roots
}
