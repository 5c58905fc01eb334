package services

import (
	"context"

	"github.com/parmiserp/ledger_engine/internal/core/domain"
	"github.com/parmiserp/ledger_engine/internal/dto"
)

// DocumentReaderSvc defines read operations for documents
type DocumentReaderSvc interface {
	// GetDocumentByID retrieves a document with its lines.
	GetDocumentByID(ctx context.Context, companyID string, documentID string) (*domain.Document, error)

	// ListDocuments retrieves a token-paginated list of documents.
	ListDocuments(ctx context.Context, companyID string, params dto.ListDocumentsParams) (*dto.ListDocumentsResponse, error)
}

// DocumentWriterSvc defines draft-state write operations for documents
type DocumentWriterSvc interface {
	// CreateDocument persists a new draft document, resolving the fiscal year
	// from the document date when none is given and assigning the next
	// per-company document number.
	CreateDocument(ctx context.Context, companyID string, req dto.CreateDocumentRequest, creatorUserID string) (*domain.Document, error)

	// UpdateDocument updates header fields of a draft document.
	UpdateDocument(ctx context.Context, companyID string, documentID string, req dto.UpdateDocumentRequest, userID string) (*domain.Document, error)

	// ReplaceLines swaps the full line set of a draft document atomically.
	ReplaceLines(ctx context.Context, companyID string, documentID string, req dto.ReplaceDocumentLinesRequest, userID string) (*domain.Document, error)

	// DeleteDocument removes a draft document permanently.
	DeleteDocument(ctx context.Context, companyID string, documentID string, userID string) error
}

// DocumentLifecycleSvc defines the document state transitions
type DocumentLifecycleSvc interface {
	// PostDocument runs the posting validation and moves a draft to posted.
	PostDocument(ctx context.Context, companyID string, documentID string, userID string) (*domain.Document, error)

	// LockDocument moves a posted document to locked.
	LockDocument(ctx context.Context, companyID string, documentID string, userID string) (*domain.Document, error)

	// CancelDocument moves a draft document to cancelled.
	CancelDocument(ctx context.Context, companyID string, documentID string, userID string) (*domain.Document, error)

	// ReverseDocument creates and posts a compensating document with mirrored
	// lines and marks the original as reversed.
	ReverseDocument(ctx context.Context, companyID string, documentID string, userID string) (*domain.Document, error)
}

// DocumentSvcFacade combines all document-related service interfaces
// This is a facade for clients that need access to all operations
type DocumentSvcFacade interface {
	DocumentReaderSvc
	DocumentWriterSvc
	DocumentLifecycleSvc
}
