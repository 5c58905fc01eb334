package dto

import (
	"time"

	"github.com/parmiserp/ledger_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateDocumentLineRequest defines one line of a document being created or
// whose lines are being replaced.
type CreateDocumentLineRequest struct {
	GeneralAccountID string          `json:"generalAccountID" binding:"required"`
	SubAccountID     *string         `json:"subAccountID"`
	DetailAccountID  *string         `json:"detailAccountID"`
	Description      string          `json:"description"`
	Debit            decimal.Decimal `json:"debit"`
	Credit           decimal.Decimal `json:"credit"`
	SortOrder        int             `json:"sortOrder"`
}

// CreateDocumentRequest defines the data needed to create a draft document.
// FiscalYearID is optional; when absent the year is resolved from DocumentDate.
type CreateDocumentRequest struct {
	DocumentType    domain.DocumentType         `json:"documentType" binding:"required,oneof=MANUAL AUTOMATIC OPENING CLOSING ADJUSTMENT"`
	DocumentDate    time.Time                   `json:"documentDate" binding:"required" time_format:"2006-01-02"`
	FiscalYearID    *string                     `json:"fiscalYearID"`
	PeriodID        *string                     `json:"periodID"`
	Description     string                      `json:"description"`
	ReferenceNumber string                      `json:"referenceNumber"`
	ReferenceType   string                      `json:"referenceType"`
	ReferenceID     *string                     `json:"referenceID"`
	Lines           []CreateDocumentLineRequest `json:"lines"` // May be empty at draft stage
}

// UpdateDocumentRequest defines the header fields editable while in draft.
type UpdateDocumentRequest struct {
	DocumentDate    *time.Time `json:"documentDate" time_format:"2006-01-02"`
	Description     *string    `json:"description"`
	ReferenceNumber *string    `json:"referenceNumber"`
	ReferenceType   *string    `json:"referenceType"`
	ReferenceID     *string    `json:"referenceID"`
}

// ReplaceDocumentLinesRequest carries the full replacement line set for a
// draft document.
type ReplaceDocumentLinesRequest struct {
	Lines []CreateDocumentLineRequest `json:"lines" binding:"required"`
}

// DocumentLineResponse defines the data returned for a document line.
type DocumentLineResponse struct {
	LineID           string          `json:"lineID"`
	LineNumber       int             `json:"lineNumber"`
	GeneralAccountID string          `json:"generalAccountID"`
	SubAccountID     *string         `json:"subAccountID"`
	DetailAccountID  *string         `json:"detailAccountID"`
	Description      string          `json:"description"`
	Debit            decimal.Decimal `json:"debit"`
	Credit           decimal.Decimal `json:"credit"`
	SortOrder        int             `json:"sortOrder"`
}

// DocumentResponse defines the data returned for a document header.
type DocumentResponse struct {
	DocumentID      string                 `json:"documentID"`
	CompanyID       string                 `json:"companyID"`
	DocumentNumber  int64                  `json:"documentNumber"`
	DocumentType    domain.DocumentType    `json:"documentType"`
	DocumentDate    time.Time              `json:"documentDate"`
	FiscalYearID    string                 `json:"fiscalYearID"`
	PeriodID        *string                `json:"periodID"`
	Description     string                 `json:"description"`
	ReferenceNumber string                 `json:"referenceNumber"`
	ReferenceType   string                 `json:"referenceType"`
	ReferenceID     *string                `json:"referenceID"`
	TotalDebit      decimal.Decimal        `json:"totalDebit"`
	TotalCredit     decimal.Decimal        `json:"totalCredit"`
	Status          domain.DocumentStatus  `json:"status"`
	PostedAt        *time.Time             `json:"postedAt"`
	PostedBy        string                 `json:"postedBy,omitempty"`
	LockedAt        *time.Time             `json:"lockedAt"`
	LockedBy        string                 `json:"lockedBy,omitempty"`
	ReversedByID    *string                `json:"reversedByID"`
	ReversalOfID    *string                `json:"reversalOfID"`
	CreatedAt       time.Time              `json:"createdAt"`
	CreatedBy       string                 `json:"createdBy"`
	Lines           []DocumentLineResponse `json:"lines,omitempty"`
}

// ToDocumentLineResponse converts a domain.DocumentLine to its DTO.
func ToDocumentLineResponse(l *domain.DocumentLine) DocumentLineResponse {
	return DocumentLineResponse{
		LineID:           l.LineID,
		LineNumber:       l.LineNumber,
		GeneralAccountID: l.GeneralAccountID,
		SubAccountID:     l.SubAccountID,
		DetailAccountID:  l.DetailAccountID,
		Description:      l.Description,
		Debit:            l.Debit,
		Credit:           l.Credit,
		SortOrder:        l.SortOrder,
	}
}

// ToDocumentLineResponses converts a slice of lines to DTOs.
func ToDocumentLineResponses(lines []domain.DocumentLine) []DocumentLineResponse {
	res := make([]DocumentLineResponse, len(lines))
	for i, l := range lines {
		res[i] = ToDocumentLineResponse(&l)
	}
	return res
}

// ToDocumentResponse converts a domain.Document to its DTO, lines included.
func ToDocumentResponse(d *domain.Document) DocumentResponse {
	return DocumentResponse{
		DocumentID:      d.DocumentID,
		CompanyID:       d.CompanyID,
		DocumentNumber:  d.DocumentNumber,
		DocumentType:    d.DocumentType,
		DocumentDate:    d.DocumentDate,
		FiscalYearID:    d.FiscalYearID,
		PeriodID:        d.PeriodID,
		Description:     d.Description,
		ReferenceNumber: d.ReferenceNumber,
		ReferenceType:   d.ReferenceType,
		ReferenceID:     d.ReferenceID,
		TotalDebit:      d.TotalDebit,
		TotalCredit:     d.TotalCredit,
		Status:          d.Status,
		PostedAt:        d.PostedAt,
		PostedBy:        d.PostedBy,
		LockedAt:        d.LockedAt,
		LockedBy:        d.LockedBy,
		ReversedByID:    d.ReversedByID,
		ReversalOfID:    d.ReversalOfID,
		CreatedAt:       d.CreatedAt,
		CreatedBy:       d.CreatedBy,
		Lines:           ToDocumentLineResponses(d.Lines),
	}
}

// ToListDocumentResponse converts a slice of documents to DTOs.
func ToListDocumentResponse(docs []domain.Document) []DocumentResponse {
	res := make([]DocumentResponse, len(docs))
	for i, d := range docs {
		res[i] = ToDocumentResponse(&d)
	}
	return res
}

// ListDocumentsParams defines query parameters for listing documents.
type ListDocumentsParams struct {
	FiscalYearID *string                `form:"fiscalYearID"`
	Status       *domain.DocumentStatus `form:"status" binding:"omitempty,oneof=DRAFT POSTED LOCKED REVERSED CANCELLED"`
	Limit        int                    `form:"limit,default=20"`
	NextToken    string                 `form:"nextToken"`
}

// ListDocumentsResponse wraps a page of documents with the continuation token.
type ListDocumentsResponse struct {
	Documents []DocumentResponse `json:"documents"`
	NextToken string             `json:"nextToken,omitempty"`
}
