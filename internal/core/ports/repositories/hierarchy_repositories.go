package repositories

import (
	"context"

	"github.com/parmiserp/ledger_engine/internal/core/domain"
)

// HierarchyReader defines read operations for category nodes
type HierarchyReader interface {
	// FindNodeByID retrieves a category node by its ID within a company
	FindNodeByID(ctx context.Context, companyID string, nodeID string) (*domain.CategoryNode, error)

	// FindNodeByCode retrieves a category node by its code within a company
	FindNodeByCode(ctx context.Context, companyID string, code string) (*domain.CategoryNode, error)

	// ListNodesByParent retrieves the direct children of a node; a nil parent lists roots
	ListNodesByParent(ctx context.Context, companyID string, parentNodeID *string) ([]domain.CategoryNode, error)

	// ListNodesByCompany retrieves all category nodes for a company
	ListNodesByCompany(ctx context.Context, companyID string) ([]domain.CategoryNode, error)

	// HasChildren reports whether the node has at least one child
	HasChildren(ctx context.Context, companyID string, nodeID string) (bool, error)
}

// HierarchyWriter defines write operations for category nodes
type HierarchyWriter interface {
	// SaveNode persists a new category node
	SaveNode(ctx context.Context, node *domain.CategoryNode) error

	// UpdateNode updates an existing category node
	UpdateNode(ctx context.Context, node *domain.CategoryNode) error

	// ReparentNode writes the moved node and the recomputed depths of its
	// subtree in one transaction; failure leaves the tree untouched
	ReparentNode(ctx context.Context, node *domain.CategoryNode, depthByNodeID map[string]int, userID string) error

	// DeleteNode removes a category node permanently
	DeleteNode(ctx context.Context, companyID string, nodeID string) error
}

// HierarchyRepositoryFacade combines all category node repository capabilities
type HierarchyRepositoryFacade interface {
	HierarchyReader
	HierarchyWriter
}
