package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DocumentType classifies how a financial document came to exist.
type DocumentType string

const (
	DocManual     DocumentType = "MANUAL"     // entered by an operator
	DocAutomatic  DocumentType = "AUTOMATIC"  // generated by another module (inventory, sales, ...)
	DocOpening    DocumentType = "OPENING"    // opening entry of a fiscal year
	DocClosing    DocumentType = "CLOSING"    // closing entry of a fiscal year
	DocAdjustment DocumentType = "ADJUSTMENT" // period-end adjustment
)

// DocumentStatus is the workflow state of a financial document.
type DocumentStatus string

const (
	Draft     DocumentStatus = "DRAFT"
	Posted    DocumentStatus = "POSTED"
	Locked    DocumentStatus = "LOCKED"
	Reversed  DocumentStatus = "REVERSED"
	Cancelled DocumentStatus = "CANCELLED"
)

// Document is the header of a double-entry financial document. Lines may only
// change while the document is in Draft; the draft->posted transition asserts
// the balance invariant and freezes them.
type Document struct {
	DocumentID      string         `json:"documentID"`
	CompanyID       string         `json:"companyID"`
	DocumentNumber  int64          `json:"documentNumber"` // Sequential per tenant, assigned at creation
	DocumentType    DocumentType   `json:"documentType"`
	DocumentDate    time.Time      `json:"documentDate"`
	FiscalYearID    string         `json:"fiscalYearID"` // Resolved from DocumentDate when not set explicitly
	PeriodID        *string        `json:"periodID"`     // Optional period reference
	Description     string         `json:"description"`
	ReferenceNumber string         `json:"referenceNumber"` // External reference (invoice number, ...)
	ReferenceType   string         `json:"referenceType"`   // e.g. "INVENTORY_RECEIPT"
	ReferenceID     *string        `json:"referenceID"`     // ID of the referenced record
	TotalDebit      decimal.Decimal `json:"totalDebit"`
	TotalCredit     decimal.Decimal `json:"totalCredit"`
	Status          DocumentStatus `json:"status"`
	PostedAt        *time.Time     `json:"postedAt"`
	PostedBy        string         `json:"postedBy"`
	LockedAt        *time.Time     `json:"lockedAt"`
	LockedBy        string         `json:"lockedBy"`
	ReversedByID    *string        `json:"reversedByID"` // The compensating document, once reversed
	ReversalOfID    *string        `json:"reversalOfID"` // Set on the compensating document itself
	AuditFields
	Lines []DocumentLine `json:"lines,omitempty"` // Often loaded separately
}

// IsBalanced reports whether total debits equal total credits exactly.
func (d *Document) IsBalanced() bool {
	return d.TotalDebit.Equal(d.TotalCredit)
}

// CanEditLines reports whether line mutation is currently permitted.
func (d *Document) CanEditLines() bool {
	return d.Status == Draft
}

// DocumentLine is a single line of a document, referencing an account triple.
// The tier-1 account is required; tier-2 and tier-3 are optional but must be
// reachable through the relation graph when present.
type DocumentLine struct {
	LineID           string          `json:"lineID"`
	DocumentID       string          `json:"documentID"`
	CompanyID        string          `json:"companyID"`
	LineNumber       int             `json:"lineNumber"` // Sequential within the document
	GeneralAccountID string          `json:"generalAccountID"`
	SubAccountID     *string         `json:"subAccountID"`
	DetailAccountID  *string         `json:"detailAccountID"`
	Description      string          `json:"description"`
	Debit            decimal.Decimal `json:"debit"`
	Credit           decimal.Decimal `json:"credit"`
	SortOrder        int             `json:"sortOrder"`
	AuditFields
}

// Validate enforces the debit-xor-credit invariant: exactly one side positive,
// the other exactly zero.
func (l *DocumentLine) Validate() error {
	if l.GeneralAccountID == "" {
		return &InvariantError{Invariant: "line-account", Detail: "a general (tier-1) account is required on every line"}
	}
	if l.Debit.IsNegative() || l.Credit.IsNegative() {
		return &InvariantError{Invariant: "line-amount", Detail: "debit and credit amounts must not be negative"}
	}
	debitSet := l.Debit.IsPositive()
	creditSet := l.Credit.IsPositive()
	if debitSet && creditSet {
		return &InvariantError{Invariant: "debit-xor-credit", Detail: "a line must be either debit or credit, not both"}
	}
	if !debitSet && !creditSet {
		return &InvariantError{Invariant: "debit-xor-credit", Detail: "a line must have either a debit or a credit amount"}
	}
	return nil
}
