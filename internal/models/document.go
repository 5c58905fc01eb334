package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Document is the DB representation of a financial document header.
// (company_id, document_number) is unique.
type Document struct {
	DocumentID      string          `db:"document_id"`
	CompanyID       string          `db:"company_id"`
	DocumentNumber  int64           `db:"document_number"`
	DocumentType    string          `db:"document_type"`
	DocumentDate    time.Time       `db:"document_date"`
	FiscalYearID    string          `db:"fiscal_year_id"`
	PeriodID        *string         `db:"period_id"`
	Description     string          `db:"description"`
	ReferenceNumber string          `db:"reference_number"`
	ReferenceType   string          `db:"reference_type"`
	ReferenceID     *string         `db:"reference_id"`
	TotalDebit      decimal.Decimal `db:"total_debit"`
	TotalCredit     decimal.Decimal `db:"total_credit"`
	Status          string          `db:"status"`
	PostedAt        *time.Time      `db:"posted_at"`
	PostedBy        string          `db:"posted_by"`
	LockedAt        *time.Time      `db:"locked_at"`
	LockedBy        string          `db:"locked_by"`
	ReversedByID    *string         `db:"reversed_by_id"`
	ReversalOfID    *string         `db:"reversal_of_id"`
	AuditFields
}

// DocumentLine is the DB representation of a document line.
// (company_id, document_id, line_number) is unique.
type DocumentLine struct {
	LineID           string          `db:"line_id"`
	DocumentID       string          `db:"document_id"`
	CompanyID        string          `db:"company_id"`
	LineNumber       int             `db:"line_number"`
	GeneralAccountID string          `db:"general_account_id"`
	SubAccountID     *string         `db:"sub_account_id"`
	DetailAccountID  *string         `db:"detail_account_id"`
	Description      string          `db:"description"`
	Debit            decimal.Decimal `db:"debit"`
	Credit           decimal.Decimal `db:"credit"`
	SortOrder        int             `db:"sort_order"`
	AuditFields
}
