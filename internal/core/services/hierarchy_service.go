package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/parmiserp/ledger_engine/internal/apperrors"
	"github.com/parmiserp/ledger_engine/internal/core/domain"
	portsrepo "github.com/parmiserp/ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/parmiserp/ledger_engine/internal/core/ports/services"
	"github.com/parmiserp/ledger_engine/internal/dto"
)

// hierarchyService implements the HierarchySvcFacade interface
type hierarchyService struct {
	BaseService
	hierarchyRepo portsrepo.HierarchyRepositoryFacade
	accountRepo   portsrepo.AccountReader
}

// NewHierarchyService creates a new categorization tree service
func NewHierarchyService(repo portsrepo.HierarchyRepositoryFacade, accountRepo portsrepo.AccountReader) portssvc.HierarchySvcFacade {
	return &hierarchyService{hierarchyRepo: repo, accountRepo: accountRepo}
}

var _ portssvc.HierarchySvcFacade = (*hierarchyService)(nil)

func (s *hierarchyService) GetNodeByID(ctx context.Context, companyID string, nodeID string) (*domain.CategoryNode, error) {
	node, err := s.hierarchyRepo.FindNodeByID(ctx, companyID, nodeID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find category node", slog.String("node_id", nodeID))
		}
		return nil, err
	}
	return node, nil
}

func (s *hierarchyService) ListNodes(ctx context.Context, companyID string, params dto.ListCategoryNodesParams) ([]domain.CategoryNode, error) {
	var nodes []domain.CategoryNode
	var err error
	if params.ParentNodeID != nil {
		parentID := params.ParentNodeID
		if *parentID == "" {
			parentID = nil // empty string selects the roots
		}
		nodes, err = s.hierarchyRepo.ListNodesByParent(ctx, companyID, parentID)
	} else {
		nodes, err = s.hierarchyRepo.ListNodesByCompany(ctx, companyID)
	}
	if err != nil {
		s.LogError(ctx, err, "Failed to list category nodes", slog.String("company_id", companyID))
		return nil, fmt.Errorf("failed to list category nodes: %w", err)
	}
	if nodes == nil {
		nodes = []domain.CategoryNode{}
	}
	return nodes, nil
}

// validateDetailAccount checks that a linked account exists and is tier 3.
func (s *hierarchyService) validateDetailAccount(ctx context.Context, companyID string, detailAccountID string) error {
	account, err := s.accountRepo.FindAccountByID(ctx, companyID, detailAccountID)
	if err != nil {
		return fmt.Errorf("linked detail account: %w", err)
	}
	if account.Tier != domain.TierDetail {
		return fmt.Errorf("category nodes may only link to detail (tier-3) accounts: %w", apperrors.ErrValidation)
	}
	return nil
}

func (s *hierarchyService) CreateNode(ctx context.Context, companyID string, req dto.CreateCategoryNodeRequest, userID string) (*domain.CategoryNode, error) {
	depth := 1
	if req.ParentNodeID != nil && *req.ParentNodeID != "" {
		parent, err := s.hierarchyRepo.FindNodeByID(ctx, companyID, *req.ParentNodeID)
		if err != nil {
			return nil, fmt.Errorf("parent node: %w", err)
		}
		depth = parent.Depth + 1
		if depth > domain.MaxHierarchyDepth {
			return nil, fmt.Errorf("category tree depth limit of %d exceeded: %w", domain.MaxHierarchyDepth, apperrors.ErrValidation)
		}
	} else {
		req.ParentNodeID = nil
	}

	if req.DetailAccountID != nil && *req.DetailAccountID != "" {
		if err := s.validateDetailAccount(ctx, companyID, *req.DetailAccountID); err != nil {
			return nil, err
		}
	}

	now := time.Now()
	node := domain.CategoryNode{
		NodeID:          uuid.NewString(),
		CompanyID:       companyID,
		Code:            req.Code,
		Name:            req.Name,
		NameEn:          req.NameEn,
		ParentNodeID:    req.ParentNodeID,
		DetailAccountID: req.DetailAccountID,
		Depth:           depth,
		SortOrder:       req.SortOrder,
		Description:     req.Description,
		IsActive:        true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.hierarchyRepo.SaveNode(ctx, &node); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("category node code %q already exists in company: %w", req.Code, err)
		}
		s.LogError(ctx, err, "Failed to save category node", slog.String("code", req.Code))
		return nil, err
	}

	s.LogInfo(ctx, "Category node created", slog.String("node_id", node.NodeID), slog.Int("depth", node.Depth))
	return &node, nil
}

// checkNoCycle walks up the parent chain from candidateParent and fails when
// the chain reaches nodeID or exceeds the depth bound. The bound also covers
// parent chains corrupted into a loop that does not include nodeID.
func (s *hierarchyService) checkNoCycle(ctx context.Context, companyID string, nodeID string, candidateParentID string) error {
	currentID := candidateParentID
	for steps := 0; steps < domain.MaxHierarchyDepth; steps++ {
		if currentID == nodeID {
			return fmt.Errorf("node cannot be moved under its own descendant: %w", apperrors.ErrValidation)
		}
		current, err := s.hierarchyRepo.FindNodeByID(ctx, companyID, currentID)
		if err != nil {
			return fmt.Errorf("ancestor node %s: %w", currentID, err)
		}
		if current.IsRoot() {
			return nil
		}
		currentID = *current.ParentNodeID
	}
	return fmt.Errorf("parent chain exceeds the depth limit of %d: %w", domain.MaxHierarchyDepth, apperrors.ErrValidation)
}

// recomputeSubtreeDepths walks the subtree rooted at node breadth first and
// returns the new depth of every member, the moved node included.
func (s *hierarchyService) recomputeSubtreeDepths(ctx context.Context, companyID string, node *domain.CategoryNode, newDepth int) (map[string]int, error) {
	depths := map[string]int{node.NodeID: newDepth}
	type frontierEntry struct {
		nodeID string
		depth  int
	}
	frontier := []frontierEntry{{node.NodeID, newDepth}}

	for len(frontier) > 0 {
		entry := frontier[0]
		frontier = frontier[1:]

		if entry.depth > domain.MaxHierarchyDepth {
			return nil, fmt.Errorf("move would push subtree past the depth limit of %d: %w", domain.MaxHierarchyDepth, apperrors.ErrValidation)
		}

		children, err := s.hierarchyRepo.ListNodesByParent(ctx, companyID, &entry.nodeID)
		if err != nil {
			return nil, err
		}
		for _, child := range children {
			depths[child.NodeID] = entry.depth + 1
			frontier = append(frontier, frontierEntry{child.NodeID, entry.depth + 1})
		}
	}
	return depths, nil
}

func (s *hierarchyService) UpdateNode(ctx context.Context, companyID string, nodeID string, req dto.UpdateCategoryNodeRequest, userID string) (*domain.CategoryNode, error) {
	node, err := s.hierarchyRepo.FindNodeByID(ctx, companyID, nodeID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		node.Name = *req.Name
	}
	if req.NameEn != nil {
		node.NameEn = *req.NameEn
	}
	if req.SortOrder != nil {
		node.SortOrder = *req.SortOrder
	}
	if req.Description != nil {
		node.Description = *req.Description
	}
	if req.IsActive != nil {
		node.IsActive = *req.IsActive
	}
	if req.DetailAccountID != nil {
		if *req.DetailAccountID == "" {
			node.DetailAccountID = nil
		} else {
			if err := s.validateDetailAccount(ctx, companyID, *req.DetailAccountID); err != nil {
				return nil, err
			}
			node.DetailAccountID = req.DetailAccountID
		}
	}

	var depthUpdates map[string]int
	if req.ParentNodeID != nil {
		newParentID := req.ParentNodeID
		if *newParentID == "" {
			newParentID = nil // move to root
		}

		newDepth := 1
		if newParentID != nil {
			if *newParentID == nodeID {
				return nil, fmt.Errorf("node cannot be its own parent: %w", apperrors.ErrValidation)
			}
			if err := s.checkNoCycle(ctx, companyID, nodeID, *newParentID); err != nil {
				return nil, err
			}
			parent, err := s.hierarchyRepo.FindNodeByID(ctx, companyID, *newParentID)
			if err != nil {
				return nil, fmt.Errorf("parent node: %w", err)
			}
			newDepth = parent.Depth + 1
		}

		node.ParentNodeID = newParentID
		if newDepth != node.Depth {
			depthUpdates, err = s.recomputeSubtreeDepths(ctx, companyID, node, newDepth)
			if err != nil {
				return nil, err
			}
			node.Depth = newDepth
		}
	}

	node.LastUpdatedAt = time.Now()
	node.LastUpdatedBy = userID

	if len(depthUpdates) > 0 {
		// One transaction for the move and the cascade: a failed cascade rolls
		// the parent change back, so every node keeps depth(parent)+1.
		if err := s.hierarchyRepo.ReparentNode(ctx, node, depthUpdates, userID); err != nil {
			s.LogError(ctx, err, "Failed to reparent category node", slog.String("node_id", nodeID))
			return nil, err
		}
		s.LogInfo(ctx, "Category node reparented",
			slog.String("node_id", nodeID),
			slog.Int("subtree_size", len(depthUpdates)))
		return node, nil
	}

	if err := s.hierarchyRepo.UpdateNode(ctx, node); err != nil {
		s.LogError(ctx, err, "Failed to update category node", slog.String("node_id", nodeID))
		return nil, err
	}
	return node, nil
}

func (s *hierarchyService) DeleteNode(ctx context.Context, companyID string, nodeID string, userID string) error {
	if _, err := s.hierarchyRepo.FindNodeByID(ctx, companyID, nodeID); err != nil {
		return err
	}

	hasChildren, err := s.hierarchyRepo.HasChildren(ctx, companyID, nodeID)
	if err != nil {
		return err
	}
	if hasChildren {
		return fmt.Errorf("category node has children and cannot be deleted: %w", apperrors.ErrConflict)
	}

	if err := s.hierarchyRepo.DeleteNode(ctx, companyID, nodeID); err != nil {
		s.LogError(ctx, err, "Failed to delete category node", slog.String("node_id", nodeID))
		return err
	}
	s.LogInfo(ctx, "Category node deleted", slog.String("node_id", nodeID))
	return nil
}
