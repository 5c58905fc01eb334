package mapping

import (
	"github.com/parmiserp/ledger_engine/internal/core/domain"
	"github.com/parmiserp/ledger_engine/internal/models"
)

// ToModelDocument converts a domain Document to a model Document
func ToModelDocument(d domain.Document) models.Document {
	return models.Document{
		DocumentID:      d.DocumentID,
		CompanyID:       d.CompanyID,
		DocumentNumber:  d.DocumentNumber,
		DocumentType:    string(d.DocumentType),
		DocumentDate:    d.DocumentDate,
		FiscalYearID:    d.FiscalYearID,
		PeriodID:        d.PeriodID,
		Description:     d.Description,
		ReferenceNumber: d.ReferenceNumber,
		ReferenceType:   d.ReferenceType,
		ReferenceID:     d.ReferenceID,
		TotalDebit:      d.TotalDebit,
		TotalCredit:     d.TotalCredit,
		Status:          string(d.Status),
		PostedAt:        d.PostedAt,
		PostedBy:        d.PostedBy,
		LockedAt:        d.LockedAt,
		LockedBy:        d.LockedBy,
		ReversedByID:    d.ReversedByID,
		ReversalOfID:    d.ReversalOfID,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainDocument converts a model Document to a domain Document
func ToDomainDocument(m models.Document) domain.Document {
	return domain.Document{
		DocumentID:      m.DocumentID,
		CompanyID:       m.CompanyID,
		DocumentNumber:  m.DocumentNumber,
		DocumentType:    domain.DocumentType(m.DocumentType),
		DocumentDate:    m.DocumentDate,
		FiscalYearID:    m.FiscalYearID,
		PeriodID:        m.PeriodID,
		Description:     m.Description,
		ReferenceNumber: m.ReferenceNumber,
		ReferenceType:   m.ReferenceType,
		ReferenceID:     m.ReferenceID,
		TotalDebit:      m.TotalDebit,
		TotalCredit:     m.TotalCredit,
		Status:          domain.DocumentStatus(m.Status),
		PostedAt:        m.PostedAt,
		PostedBy:        m.PostedBy,
		LockedAt:        m.LockedAt,
		LockedBy:        m.LockedBy,
		ReversedByID:    m.ReversedByID,
		ReversalOfID:    m.ReversalOfID,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelDocumentLine converts a domain DocumentLine to a model DocumentLine
func ToModelDocumentLine(d domain.DocumentLine) models.DocumentLine {
	return models.DocumentLine{
		LineID:           d.LineID,
		DocumentID:       d.DocumentID,
		CompanyID:        d.CompanyID,
		LineNumber:       d.LineNumber,
		GeneralAccountID: d.GeneralAccountID,
		SubAccountID:     d.SubAccountID,
		DetailAccountID:  d.DetailAccountID,
		Description:      d.Description,
		Debit:            d.Debit,
		Credit:           d.Credit,
		SortOrder:        d.SortOrder,
		AuditFields:      ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainDocumentLine converts a model DocumentLine to a domain DocumentLine
func ToDomainDocumentLine(m models.DocumentLine) domain.DocumentLine {
	return domain.DocumentLine{
		LineID:           m.LineID,
		DocumentID:       m.DocumentID,
		CompanyID:        m.CompanyID,
		LineNumber:       m.LineNumber,
		GeneralAccountID: m.GeneralAccountID,
		SubAccountID:     m.SubAccountID,
		DetailAccountID:  m.DetailAccountID,
		Description:      m.Description,
		Debit:            m.Debit,
		Credit:           m.Credit,
		SortOrder:        m.SortOrder,
		AuditFields:      ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainDocumentLineSlice converts a slice of model lines to domain lines
func ToDomainDocumentLineSlice(ms []models.DocumentLine) []domain.DocumentLine {
	ds := make([]domain.DocumentLine, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainDocumentLine(m)
	}
	return ds
}
