package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/parmiserp/ledger_engine/internal/apperrors"
	"github.com/parmiserp/ledger_engine/internal/core/domain"
	portsrepo "github.com/parmiserp/ledger_engine/internal/core/ports/repositories"
	"github.com/parmiserp/ledger_engine/internal/models"
	"github.com/parmiserp/ledger_engine/internal/utils/mapping"
)

const nodeColumns = `node_id, company_id, code, name, name_en, parent_node_id, detail_account_id, depth, sort_order,
		description, is_active, created_at, created_by, last_updated_at, last_updated_by`

type PgxHierarchyRepository struct {
	BaseRepository
}

// newPgxHierarchyRepository creates a new repository for categorization tree data.
func newPgxHierarchyRepository(pool *pgxpool.Pool) portsrepo.HierarchyRepositoryFacade {
	return &PgxHierarchyRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.HierarchyRepositoryFacade = (*PgxHierarchyRepository)(nil)

func scanCategoryNode(row rowScanner) (models.CategoryNode, error) {
	var m models.CategoryNode
	err := row.Scan(
		&m.NodeID,
		&m.CompanyID,
		&m.Code,
		&m.Name,
		&m.NameEn,
		&m.ParentNodeID,
		&m.DetailAccountID,
		&m.Depth,
		&m.SortOrder,
		&m.Description,
		&m.IsActive,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func (r *PgxHierarchyRepository) SaveNode(ctx context.Context, node *domain.CategoryNode) error {
	m := mapping.ToModelCategoryNode(*node)

	query := `
		INSERT INTO category_nodes (` + nodeColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.NodeID,
		m.CompanyID,
		m.Code,
		m.Name,
		m.NameEn,
		m.ParentNodeID,
		m.DetailAccountID,
		m.Depth,
		m.SortOrder,
		m.Description,
		m.IsActive,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: category node code %s already exists in company %s", apperrors.ErrDuplicate, m.Code, m.CompanyID)
		}
		return fmt.Errorf("failed to save category node %s: %w", m.NodeID, err)
	}
	return nil
}

func (r *PgxHierarchyRepository) FindNodeByID(ctx context.Context, companyID string, nodeID string) (*domain.CategoryNode, error) {
	query := `
		SELECT ` + nodeColumns + `
		FROM category_nodes
		WHERE company_id = $1 AND node_id = $2;
	`
	m, err := scanCategoryNode(r.Pool.QueryRow(ctx, query, companyID, nodeID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find category node by ID %s: %w", nodeID, err)
	}
	d := mapping.ToDomainCategoryNode(m)
	return &d, nil
}

func (r *PgxHierarchyRepository) FindNodeByCode(ctx context.Context, companyID string, code string) (*domain.CategoryNode, error) {
	query := `
		SELECT ` + nodeColumns + `
		FROM category_nodes
		WHERE company_id = $1 AND code = $2;
	`
	m, err := scanCategoryNode(r.Pool.QueryRow(ctx, query, companyID, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find category node by code %s: %w", code, err)
	}
	d := mapping.ToDomainCategoryNode(m)
	return &d, nil
}

func (r *PgxHierarchyRepository) listNodes(ctx context.Context, query string, args ...any) ([]domain.CategoryNode, error) {
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query category nodes: %w", err)
	}
	defer rows.Close()

	nodes := []domain.CategoryNode{}
	for rows.Next() {
		m, err := scanCategoryNode(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category node row: %w", err)
		}
		nodes = append(nodes, mapping.ToDomainCategoryNode(m))
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating category node rows: %w", rows.Err())
	}
	return nodes, nil
}

func (r *PgxHierarchyRepository) ListNodesByParent(ctx context.Context, companyID string, parentNodeID *string) ([]domain.CategoryNode, error) {
	if parentNodeID == nil {
		query := `
			SELECT ` + nodeColumns + `
			FROM category_nodes
			WHERE company_id = $1 AND parent_node_id IS NULL
			ORDER BY sort_order, code;
		`
		return r.listNodes(ctx, query, companyID)
	}
	query := `
		SELECT ` + nodeColumns + `
		FROM category_nodes
		WHERE company_id = $1 AND parent_node_id = $2
		ORDER BY sort_order, code;
	`
	return r.listNodes(ctx, query, companyID, *parentNodeID)
}

func (r *PgxHierarchyRepository) ListNodesByCompany(ctx context.Context, companyID string) ([]domain.CategoryNode, error) {
	query := `
		SELECT ` + nodeColumns + `
		FROM category_nodes
		WHERE company_id = $1
		ORDER BY depth, sort_order, code;
	`
	return r.listNodes(ctx, query, companyID)
}

func (r *PgxHierarchyRepository) HasChildren(ctx context.Context, companyID string, nodeID string) (bool, error) {
	var exists bool
	err := r.Pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM category_nodes WHERE company_id = $1 AND parent_node_id = $2);`,
		companyID, nodeID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check children of category node %s: %w", nodeID, err)
	}
	return exists, nil
}

const updateNodeQuery = `
	UPDATE category_nodes
	SET name = $3, name_en = $4, parent_node_id = $5, detail_account_id = $6, depth = $7,
	    sort_order = $8, description = $9, is_active = $10, last_updated_at = $11, last_updated_by = $12
	WHERE company_id = $1 AND node_id = $2;
`

func (r *PgxHierarchyRepository) updateNodeRow(ctx context.Context, execer pgxExecer, node *domain.CategoryNode) error {
	m := mapping.ToModelCategoryNode(*node)

	cmdTag, err := execer.Exec(ctx, updateNodeQuery,
		m.CompanyID,
		m.NodeID,
		m.Name,
		m.NameEn,
		m.ParentNodeID,
		m.DetailAccountID,
		m.Depth,
		m.SortOrder,
		m.Description,
		m.IsActive,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to execute update category node %s: %w", m.NodeID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxHierarchyRepository) UpdateNode(ctx context.Context, node *domain.CategoryNode) error {
	return r.updateNodeRow(ctx, r.Pool, node)
}

// ReparentNode writes the moved node and the recomputed depths of its subtree
// in one transaction, so a reader never sees a half-cascaded tree and a failed
// cascade rolls the move back too.
func (r *PgxHierarchyRepository) ReparentNode(ctx context.Context, node *domain.CategoryNode, depthByNodeID map[string]int, userID string) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	if err := r.updateNodeRow(ctx, tx, node); err != nil {
		return err
	}

	query := `
		UPDATE category_nodes
		SET depth = $3, last_updated_at = $4, last_updated_by = $5
		WHERE company_id = $1 AND node_id = $2;
	`
	now := time.Now()
	batch := &pgx.Batch{}
	nodeIDs := make([]string, 0, len(depthByNodeID))
	for nodeID, depth := range depthByNodeID {
		batch.Queue(query, node.CompanyID, nodeID, depth, now, userID)
		nodeIDs = append(nodeIDs, nodeID)
	}

	br := tx.SendBatch(ctx, batch)
	var batchErr error
	for i := 0; i < batch.Len(); i++ {
		ct, err := br.Exec()
		if err != nil {
			if batchErr == nil {
				batchErr = fmt.Errorf("failed to update depth of category node %s: %w", nodeIDs[i], err)
			}
		} else if ct.RowsAffected() == 0 {
			if batchErr == nil {
				batchErr = fmt.Errorf("%w: category node %s not found during depth cascade", apperrors.ErrNotFound, nodeIDs[i])
			}
		}
	}
	if err := br.Close(); err != nil && batchErr == nil {
		batchErr = fmt.Errorf("failed to close depth update batch: %w", err)
	}
	if batchErr != nil {
		return batchErr
	}

	return r.Commit(ctx, tx)
}

func (r *PgxHierarchyRepository) DeleteNode(ctx context.Context, companyID string, nodeID string) error {
	cmdTag, err := r.Pool.Exec(ctx,
		`DELETE FROM category_nodes WHERE company_id = $1 AND node_id = $2;`,
		companyID, nodeID)
	if err != nil {
		return fmt.Errorf("failed to delete category node %s: %w", nodeID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
