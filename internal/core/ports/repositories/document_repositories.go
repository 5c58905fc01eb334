package repositories

import (
	"context"
	"time"

	"github.com/parmiserp/ledger_engine/internal/core/domain"
)

// DocumentReader defines read operations for documents
type DocumentReader interface {
	// FindDocumentByID retrieves a document and its lines by ID within a company
	FindDocumentByID(ctx context.Context, companyID string, documentID string) (*domain.Document, error)

	// FindDocumentLines retrieves the lines of a document ordered by line number
	FindDocumentLines(ctx context.Context, companyID string, documentID string) ([]domain.DocumentLine, error)

	// ListDocuments retrieves documents for a company ordered by document date then
	// creation time, using token based pagination
	ListDocuments(ctx context.Context, companyID string, fiscalYearID *string, status *domain.DocumentStatus, limit int, nextToken string) ([]domain.Document, string, error)
}

// DocumentWriter defines write operations for documents in draft state
type DocumentWriter interface {
	// CreateDocument persists a new draft document and its lines, assigning the next
	// document number of the company atomically
	CreateDocument(ctx context.Context, document *domain.Document) error

	// UpdateDocumentHeader updates header fields of a draft document
	UpdateDocumentHeader(ctx context.Context, document *domain.Document) error

	// ReplaceLines atomically replaces the full line set of a draft document and
	// refreshes the stored totals
	ReplaceLines(ctx context.Context, companyID string, documentID string, lines []domain.DocumentLine, userID string) error

	// DeleteDocument removes a draft document and its lines permanently
	DeleteDocument(ctx context.Context, companyID string, documentID string) error
}

// DocumentLifecycleOps defines the state transitions of a document. Each transition
// runs in a single transaction with the document row locked.
type DocumentLifecycleOps interface {
	// PostDocument re-reads the stored lines under the document row lock,
	// verifies they are exactly the validated set and still balanced, re-checks
	// the referenced accounts are active, then moves the document from draft to
	// posted and applies the balance effects. A line set that changed since
	// validation yields ErrConflict.
	PostDocument(ctx context.Context, companyID string, documentID string, validatedLineIDs []string, postedBy string, now time.Time) (*domain.Document, error)

	// MarkLocked moves a posted document to locked
	MarkLocked(ctx context.Context, companyID string, documentID string, lockedBy string, now time.Time) error

	// MarkCancelled moves a draft document to cancelled
	MarkCancelled(ctx context.Context, companyID string, documentID string, userID string, now time.Time) error

	// SaveReversal persists the reversing document directly in posted state, applies
	// its balance effects, and marks the original document as reversed with the
	// cross links set, all in one transaction
	SaveReversal(ctx context.Context, reversing *domain.Document, originalDocumentID string) error
}

// DocumentRepositoryFacade combines all document repository capabilities
type DocumentRepositoryFacade interface {
	DocumentReader
	DocumentWriter
	DocumentLifecycleOps
	TransactionManager
}
