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
	"github.com/parmiserp/ledger_engine/internal/utils/accounting"
)

// documentService implements the DocumentSvcFacade interface
type documentService struct {
	BaseService
	documentRepo portsrepo.DocumentRepositoryFacade
	accountRepo  portsrepo.AccountReader
	accountSvc   portssvc.AccountHierarchySvc
	fiscalSvc    portssvc.FiscalReaderSvc
}

// NewDocumentService creates a new document service
func NewDocumentService(
	repo portsrepo.DocumentRepositoryFacade,
	accountRepo portsrepo.AccountReader,
	accountSvc portssvc.AccountHierarchySvc,
	fiscalSvc portssvc.FiscalReaderSvc,
) portssvc.DocumentSvcFacade {
	return &documentService{
		documentRepo: repo,
		accountRepo:  accountRepo,
		accountSvc:   accountSvc,
		fiscalSvc:    fiscalSvc,
	}
}

var _ portssvc.DocumentSvcFacade = (*documentService)(nil)

func (s *documentService) GetDocumentByID(ctx context.Context, companyID string, documentID string) (*domain.Document, error) {
	doc, err := s.documentRepo.FindDocumentByID(ctx, companyID, documentID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find document", slog.String("document_id", documentID))
		}
		return nil, err
	}
	return doc, nil
}

func (s *documentService) ListDocuments(ctx context.Context, companyID string, params dto.ListDocumentsParams) (*dto.ListDocumentsResponse, error) {
	docs, nextToken, err := s.documentRepo.ListDocuments(ctx, companyID, params.FiscalYearID, params.Status, params.Limit, params.NextToken)
	if err != nil {
		s.LogError(ctx, err, "Failed to list documents", slog.String("company_id", companyID))
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	return &dto.ListDocumentsResponse{
		Documents: dto.ToListDocumentResponse(docs),
		NextToken: nextToken,
	}, nil
}

// resolveFiscalYearForDate picks the fiscal year for a document. An explicit
// year must exist, be open and contain the date; otherwise the year is
// resolved from the date.
func (s *documentService) resolveFiscalYearForDate(ctx context.Context, companyID string, explicitID *string, date time.Time) (*domain.FiscalYear, error) {
	var fy *domain.FiscalYear
	var err error
	if explicitID != nil && *explicitID != "" {
		fy, err = s.fiscalSvc.GetFiscalYearByID(ctx, companyID, *explicitID)
		if err != nil {
			return nil, fmt.Errorf("fiscal year: %w", err)
		}
		if !fy.Contains(date) {
			return nil, fmt.Errorf("document date %s is outside fiscal year %s: %w",
				date.Format("2006-01-02"), fy.Code, apperrors.ErrValidation)
		}
	} else {
		fy, err = s.fiscalSvc.ResolveFiscalYear(ctx, companyID, date)
		if err != nil {
			return nil, err
		}
	}
	if fy.IsClosed {
		return nil, fmt.Errorf("fiscal year %s is closed: %w", fy.Code, apperrors.ErrConflict)
	}
	return fy, nil
}

// buildLines converts line requests into domain lines, enforcing the
// per-line structural invariants.
func (s *documentService) buildLines(companyID string, documentID string, reqLines []dto.CreateDocumentLineRequest, userID string, now time.Time) ([]domain.DocumentLine, error) {
	lines := make([]domain.DocumentLine, len(reqLines))
	for i, rl := range reqLines {
		line := domain.DocumentLine{
			LineID:           uuid.NewString(),
			DocumentID:       documentID,
			CompanyID:        companyID,
			LineNumber:       i + 1,
			GeneralAccountID: rl.GeneralAccountID,
			SubAccountID:     rl.SubAccountID,
			DetailAccountID:  rl.DetailAccountID,
			Description:      rl.Description,
			Debit:            rl.Debit,
			Credit:           rl.Credit,
			SortOrder:        rl.SortOrder,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     userID,
				LastUpdatedAt: now,
				LastUpdatedBy: userID,
			},
		}
		if err := line.Validate(); err != nil {
			return nil, fmt.Errorf("line %d: %s: %w", i+1, err.Error(), apperrors.ErrValidation)
		}
		lines[i] = line
	}
	return lines, nil
}

func (s *documentService) CreateDocument(ctx context.Context, companyID string, req dto.CreateDocumentRequest, creatorUserID string) (*domain.Document, error) {
	fy, err := s.resolveFiscalYearForDate(ctx, companyID, req.FiscalYearID, req.DocumentDate)
	if err != nil {
		return nil, err
	}

	if req.PeriodID != nil && *req.PeriodID != "" {
		periods, err := s.fiscalSvc.ListPeriods(ctx, companyID, fy.FiscalYearID)
		if err != nil {
			return nil, err
		}
		found := false
		for _, p := range periods {
			if p.PeriodID == *req.PeriodID {
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("period does not belong to fiscal year %s: %w", fy.Code, apperrors.ErrValidation)
		}
	}

	now := time.Now()
	documentID := uuid.NewString()
	lines, err := s.buildLines(companyID, documentID, req.Lines, creatorUserID, now)
	if err != nil {
		return nil, err
	}
	debitTotal, creditTotal := accounting.ComputeTotals(lines)

	doc := domain.Document{
		DocumentID:      documentID,
		CompanyID:       companyID,
		DocumentType:    req.DocumentType,
		DocumentDate:    req.DocumentDate,
		FiscalYearID:    fy.FiscalYearID,
		PeriodID:        req.PeriodID,
		Description:     req.Description,
		ReferenceNumber: req.ReferenceNumber,
		ReferenceType:   req.ReferenceType,
		ReferenceID:     req.ReferenceID,
		TotalDebit:      debitTotal,
		TotalCredit:     creditTotal,
		Status:          domain.Draft,
		Lines:           lines,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	// The repository assigns the per-company document number inside the
	// insert transaction.
	if err := s.documentRepo.CreateDocument(ctx, &doc); err != nil {
		s.LogError(ctx, err, "Failed to create document", slog.String("company_id", companyID))
		return nil, err
	}

	s.LogInfo(ctx, "Document created",
		slog.String("document_id", doc.DocumentID),
		slog.Int64("document_number", doc.DocumentNumber),
		slog.String("fiscal_year_id", doc.FiscalYearID))
	return &doc, nil
}

func (s *documentService) UpdateDocument(ctx context.Context, companyID string, documentID string, req dto.UpdateDocumentRequest, userID string) (*domain.Document, error) {
	doc, err := s.documentRepo.FindDocumentByID(ctx, companyID, documentID)
	if err != nil {
		return nil, err
	}
	if doc.Status != domain.Draft {
		return nil, fmt.Errorf("only draft documents can be edited (status %s): %w", doc.Status, apperrors.ErrConflict)
	}

	if req.DocumentDate != nil && !req.DocumentDate.Equal(doc.DocumentDate) {
		doc.DocumentDate = *req.DocumentDate
		// A date change re-resolves the fiscal year.
		fy, err := s.resolveFiscalYearForDate(ctx, companyID, nil, doc.DocumentDate)
		if err != nil {
			return nil, err
		}
		if fy.FiscalYearID != doc.FiscalYearID {
			doc.FiscalYearID = fy.FiscalYearID
			doc.PeriodID = nil
		}
	}
	if req.Description != nil {
		doc.Description = *req.Description
	}
	if req.ReferenceNumber != nil {
		doc.ReferenceNumber = *req.ReferenceNumber
	}
	if req.ReferenceType != nil {
		doc.ReferenceType = *req.ReferenceType
	}
	if req.ReferenceID != nil {
		doc.ReferenceID = req.ReferenceID
	}
	doc.LastUpdatedAt = time.Now()
	doc.LastUpdatedBy = userID

	if err := s.documentRepo.UpdateDocumentHeader(ctx, doc); err != nil {
		s.LogError(ctx, err, "Failed to update document header", slog.String("document_id", documentID))
		return nil, err
	}
	return doc, nil
}

func (s *documentService) ReplaceLines(ctx context.Context, companyID string, documentID string, req dto.ReplaceDocumentLinesRequest, userID string) (*domain.Document, error) {
	doc, err := s.documentRepo.FindDocumentByID(ctx, companyID, documentID)
	if err != nil {
		return nil, err
	}
	if !doc.CanEditLines() {
		return nil, fmt.Errorf("lines are frozen once a document leaves draft (status %s): %w", doc.Status, apperrors.ErrConflict)
	}

	now := time.Now()
	lines, err := s.buildLines(companyID, documentID, req.Lines, userID, now)
	if err != nil {
		return nil, err
	}

	if err := s.documentRepo.ReplaceLines(ctx, companyID, documentID, lines, userID); err != nil {
		s.LogError(ctx, err, "Failed to replace document lines", slog.String("document_id", documentID))
		return nil, err
	}

	doc.Lines = lines
	doc.TotalDebit, doc.TotalCredit = accounting.ComputeTotals(lines)
	s.LogInfo(ctx, "Document lines replaced",
		slog.String("document_id", documentID),
		slog.Int("line_count", len(lines)))
	return doc, nil
}

func (s *documentService) DeleteDocument(ctx context.Context, companyID string, documentID string, userID string) error {
	doc, err := s.documentRepo.FindDocumentByID(ctx, companyID, documentID)
	if err != nil {
		return err
	}
	if doc.Status != domain.Draft {
		return fmt.Errorf("only draft documents can be deleted (status %s): %w", doc.Status, apperrors.ErrConflict)
	}
	if err := s.documentRepo.DeleteDocument(ctx, companyID, documentID); err != nil {
		s.LogError(ctx, err, "Failed to delete document", slog.String("document_id", documentID))
		return err
	}
	s.LogInfo(ctx, "Document deleted", slog.String("document_id", documentID))
	return nil
}

// validateForPosting runs the full posting validation against the given lines:
// at least one line, debit-xor-credit per line, exact balance, every account
// triple resolvable and every referenced account active.
func (s *documentService) validateForPosting(ctx context.Context, companyID string, lines []domain.DocumentLine) error {
	if err := accounting.ValidateDocumentBalance(lines); err != nil {
		return fmt.Errorf("%s: %w", err.Error(), apperrors.ErrValidation)
	}

	accountIDs := make([]string, 0, len(lines))
	seen := make(map[string]bool)
	collect := func(id string) {
		if id != "" && !seen[id] {
			seen[id] = true
			accountIDs = append(accountIDs, id)
		}
	}
	for _, line := range lines {
		collect(line.GeneralAccountID)
		if line.SubAccountID != nil {
			collect(*line.SubAccountID)
		}
		if line.DetailAccountID != nil {
			collect(*line.DetailAccountID)
		}
	}
	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, companyID, accountIDs)
	if err != nil {
		return err
	}
	for _, id := range accountIDs {
		account, ok := accounts[id]
		if !ok {
			return fmt.Errorf("account %s not found in company: %w", id, apperrors.ErrNotFound)
		}
		if !account.IsActive {
			return fmt.Errorf("account %s (%s) is disabled and cannot take new postings: %w",
				account.Code, id, apperrors.ErrValidation)
		}
	}

	for _, line := range lines {
		if err := s.accountSvc.ResolvePath(ctx, companyID, line.GeneralAccountID, line.SubAccountID, line.DetailAccountID); err != nil {
			return fmt.Errorf("line %d: %w", line.LineNumber, err)
		}
	}
	return nil
}

func (s *documentService) PostDocument(ctx context.Context, companyID string, documentID string, userID string) (*domain.Document, error) {
	doc, err := s.documentRepo.FindDocumentByID(ctx, companyID, documentID)
	if err != nil {
		return nil, err
	}
	if doc.Status != domain.Draft {
		return nil, fmt.Errorf("only draft documents can be posted (status %s): %w", doc.Status, apperrors.ErrConflict)
	}

	fy, err := s.fiscalSvc.GetFiscalYearByID(ctx, companyID, doc.FiscalYearID)
	if err != nil {
		return nil, err
	}
	if fy.IsClosed {
		return nil, fmt.Errorf("fiscal year %s is closed: %w", fy.Code, apperrors.ErrConflict)
	}

	if err := s.validateForPosting(ctx, companyID, doc.Lines); err != nil {
		s.LogInfo(ctx, "Posting rejected",
			slog.String("document_id", documentID),
			slog.String("reason", err.Error()))
		return nil, err
	}

	// The repository re-checks the draft status, the line set and the balance
	// under a row lock, so neither two concurrent posts nor a line edit racing
	// this validation can slip through.
	validatedLineIDs := make([]string, len(doc.Lines))
	for i, line := range doc.Lines {
		validatedLineIDs[i] = line.LineID
	}
	posted, err := s.documentRepo.PostDocument(ctx, companyID, documentID, validatedLineIDs, userID, time.Now())
	if err != nil {
		if !errors.Is(err, apperrors.ErrConflict) && !errors.Is(err, apperrors.ErrValidation) {
			s.LogError(ctx, err, "Failed to post document", slog.String("document_id", documentID))
		}
		return nil, err
	}

	s.LogInfo(ctx, "Document posted",
		slog.String("document_id", documentID),
		slog.Int64("document_number", posted.DocumentNumber),
		slog.String("total", posted.TotalDebit.String()))
	return posted, nil
}

func (s *documentService) LockDocument(ctx context.Context, companyID string, documentID string, userID string) (*domain.Document, error) {
	if err := s.documentRepo.MarkLocked(ctx, companyID, documentID, userID, time.Now()); err != nil {
		if !errors.Is(err, apperrors.ErrConflict) && !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to lock document", slog.String("document_id", documentID))
		}
		return nil, err
	}
	s.LogInfo(ctx, "Document locked", slog.String("document_id", documentID))
	return s.documentRepo.FindDocumentByID(ctx, companyID, documentID)
}

func (s *documentService) CancelDocument(ctx context.Context, companyID string, documentID string, userID string) (*domain.Document, error) {
	if err := s.documentRepo.MarkCancelled(ctx, companyID, documentID, userID, time.Now()); err != nil {
		if !errors.Is(err, apperrors.ErrConflict) && !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to cancel document", slog.String("document_id", documentID))
		}
		return nil, err
	}
	s.LogInfo(ctx, "Document cancelled", slog.String("document_id", documentID))
	return s.documentRepo.FindDocumentByID(ctx, companyID, documentID)
}

func (s *documentService) ReverseDocument(ctx context.Context, companyID string, documentID string, userID string) (*domain.Document, error) {
	original, err := s.documentRepo.FindDocumentByID(ctx, companyID, documentID)
	if err != nil {
		return nil, err
	}
	if original.Status != domain.Posted {
		return nil, fmt.Errorf("only posted documents can be reversed (status %s): %w", original.Status, apperrors.ErrConflict)
	}

	fy, err := s.fiscalSvc.GetFiscalYearByID(ctx, companyID, original.FiscalYearID)
	if err != nil {
		return nil, err
	}
	if fy.IsClosed {
		return nil, fmt.Errorf("fiscal year %s is closed: %w", fy.Code, apperrors.ErrConflict)
	}

	now := time.Now()
	reversingID := uuid.NewString()
	lines := make([]domain.DocumentLine, len(original.Lines))
	for i, line := range original.Lines {
		lines[i] = domain.DocumentLine{
			LineID:           uuid.NewString(),
			DocumentID:       reversingID,
			CompanyID:        companyID,
			LineNumber:       line.LineNumber,
			GeneralAccountID: line.GeneralAccountID,
			SubAccountID:     line.SubAccountID,
			DetailAccountID:  line.DetailAccountID,
			Description:      line.Description,
			Debit:            line.Credit, // mirrored amounts
			Credit:           line.Debit,
			SortOrder:        line.SortOrder,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     userID,
				LastUpdatedAt: now,
				LastUpdatedBy: userID,
			},
		}
	}

	reversing := domain.Document{
		DocumentID:      reversingID,
		CompanyID:       companyID,
		DocumentType:    original.DocumentType,
		DocumentDate:    original.DocumentDate,
		FiscalYearID:    original.FiscalYearID,
		PeriodID:        original.PeriodID,
		Description:     fmt.Sprintf("Reversal of document #%d", original.DocumentNumber),
		ReferenceNumber: original.ReferenceNumber,
		ReferenceType:   original.ReferenceType,
		ReferenceID:     original.ReferenceID,
		TotalDebit:      original.TotalCredit,
		TotalCredit:     original.TotalDebit,
		Status:          domain.Posted,
		PostedAt:        &now,
		PostedBy:        userID,
		ReversalOfID:    &original.DocumentID,
		Lines:           lines,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.documentRepo.SaveReversal(ctx, &reversing, original.DocumentID); err != nil {
		if !errors.Is(err, apperrors.ErrConflict) {
			s.LogError(ctx, err, "Failed to save reversal", slog.String("document_id", documentID))
		}
		return nil, err
	}

	s.LogInfo(ctx, "Document reversed",
		slog.String("original_document_id", documentID),
		slog.String("reversing_document_id", reversingID))
	return &reversing, nil
}
