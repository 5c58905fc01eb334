package services

import (
	"context"

	"github.com/parmiserp/ledger_engine/internal/core/domain"
	"github.com/parmiserp/ledger_engine/internal/dto"
)

// HierarchyReaderSvc defines read operations for the categorization tree
type HierarchyReaderSvc interface {
	// GetNodeByID retrieves a category node by its ID.
	GetNodeByID(ctx context.Context, companyID string, nodeID string) (*domain.CategoryNode, error)

	// ListNodes retrieves the tree or one parent's children, per the params.
	ListNodes(ctx context.Context, companyID string, params dto.ListCategoryNodesParams) ([]domain.CategoryNode, error)
}

// HierarchyWriterSvc defines write operations for the categorization tree
type HierarchyWriterSvc interface {
	// CreateNode persists a new category node under the given parent, rejecting
	// placements that would form a cycle.
	CreateNode(ctx context.Context, companyID string, req dto.CreateCategoryNodeRequest, userID string) (*domain.CategoryNode, error)

	// UpdateNode updates a node; a parent change recomputes depth for the whole
	// moved subtree.
	UpdateNode(ctx context.Context, companyID string, nodeID string, req dto.UpdateCategoryNodeRequest, userID string) (*domain.CategoryNode, error)

	// DeleteNode removes a leaf node. Nodes with children cannot be deleted.
	DeleteNode(ctx context.Context, companyID string, nodeID string, userID string) error
}

// HierarchySvcFacade combines all categorization tree service interfaces
type HierarchySvcFacade interface {
	HierarchyReaderSvc
	HierarchyWriterSvc
}
