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
	"github.com/parmiserp/ledger_engine/internal/utils/accounting"
	"github.com/parmiserp/ledger_engine/internal/utils/mapping"
	"github.com/parmiserp/ledger_engine/internal/utils/pagination"
	"github.com/shopspring/decimal"
)

const documentColumns = `document_id, company_id, document_number, document_type, document_date, fiscal_year_id, period_id,
		description, reference_number, reference_type, reference_id, total_debit, total_credit, status,
		posted_at, posted_by, locked_at, locked_by, reversed_by_id, reversal_of_id,
		created_at, created_by, last_updated_at, last_updated_by`

const lineColumns = `line_id, document_id, company_id, line_number, general_account_id, sub_account_id, detail_account_id,
		description, debit, credit, sort_order, created_at, created_by, last_updated_at, last_updated_by`

type PgxDocumentRepository struct {
	BaseRepository
	accountRepo portsrepo.AccountRepositoryTransactionSupport
}

// newPgxDocumentRepository creates a new repository for document data. The
// account repository is needed to lock and adjust account balances inside
// posting transactions.
func newPgxDocumentRepository(pool *pgxpool.Pool, accountRepo portsrepo.AccountRepositoryTransactionSupport) portsrepo.DocumentRepositoryFacade {
	return &PgxDocumentRepository{BaseRepository{Pool: pool}, accountRepo}
}

var _ portsrepo.DocumentRepositoryFacade = (*PgxDocumentRepository)(nil)

func scanDocument(row rowScanner) (models.Document, error) {
	var m models.Document
	err := row.Scan(
		&m.DocumentID,
		&m.CompanyID,
		&m.DocumentNumber,
		&m.DocumentType,
		&m.DocumentDate,
		&m.FiscalYearID,
		&m.PeriodID,
		&m.Description,
		&m.ReferenceNumber,
		&m.ReferenceType,
		&m.ReferenceID,
		&m.TotalDebit,
		&m.TotalCredit,
		&m.Status,
		&m.PostedAt,
		&m.PostedBy,
		&m.LockedAt,
		&m.LockedBy,
		&m.ReversedByID,
		&m.ReversalOfID,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func scanDocumentLine(row rowScanner) (models.DocumentLine, error) {
	var m models.DocumentLine
	err := row.Scan(
		&m.LineID,
		&m.DocumentID,
		&m.CompanyID,
		&m.LineNumber,
		&m.GeneralAccountID,
		&m.SubAccountID,
		&m.DetailAccountID,
		&m.Description,
		&m.Debit,
		&m.Credit,
		&m.SortOrder,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// nextDocumentNumberInTx increments and returns the per-company document
// counter. The counter row update serializes concurrent callers, so two
// documents of one company can never share a number.
func (r *PgxDocumentRepository) nextDocumentNumberInTx(ctx context.Context, tx pgx.Tx, companyID string) (int64, error) {
	var number int64
	err := tx.QueryRow(ctx, `
		INSERT INTO document_counters (company_id, last_number)
		VALUES ($1, 1)
		ON CONFLICT (company_id) DO UPDATE SET last_number = document_counters.last_number + 1
		RETURNING last_number;
	`, companyID).Scan(&number)
	if err != nil {
		return 0, fmt.Errorf("failed to assign document number for company %s: %w", companyID, err)
	}
	return number, nil
}

func (r *PgxDocumentRepository) insertLinesInTx(ctx context.Context, tx pgx.Tx, lines []domain.DocumentLine) error {
	if len(lines) == 0 {
		return nil
	}

	query := `
		INSERT INTO document_lines (` + lineColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);
	`
	batch := &pgx.Batch{}
	for _, line := range lines {
		m := mapping.ToModelDocumentLine(line)
		batch.Queue(query,
			m.LineID, m.DocumentID, m.CompanyID, m.LineNumber, m.GeneralAccountID, m.SubAccountID, m.DetailAccountID,
			m.Description, m.Debit, m.Credit, m.SortOrder, m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy)
	}
	br := tx.SendBatch(ctx, batch)
	var batchErr error
	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil && batchErr == nil {
			batchErr = fmt.Errorf("failed to insert document line %d: %w", lines[i].LineNumber, err)
		}
	}
	if err := br.Close(); err != nil && batchErr == nil {
		batchErr = fmt.Errorf("failed to close line insert batch: %w", err)
	}
	return batchErr
}

func (r *PgxDocumentRepository) insertDocumentInTx(ctx context.Context, tx pgx.Tx, doc *domain.Document) error {
	m := mapping.ToModelDocument(*doc)

	query := `
		INSERT INTO documents (` + documentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24);
	`
	_, err := tx.Exec(ctx, query,
		m.DocumentID, m.CompanyID, m.DocumentNumber, m.DocumentType, m.DocumentDate, m.FiscalYearID, m.PeriodID,
		m.Description, m.ReferenceNumber, m.ReferenceType, m.ReferenceID, m.TotalDebit, m.TotalCredit, m.Status,
		m.PostedAt, m.PostedBy, m.LockedAt, m.LockedBy, m.ReversedByID, m.ReversalOfID,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: document %s already exists", apperrors.ErrDuplicate, m.DocumentID)
		}
		return fmt.Errorf("failed to insert document %s: %w", m.DocumentID, err)
	}
	return nil
}

func (r *PgxDocumentRepository) CreateDocument(ctx context.Context, document *domain.Document) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	number, err := r.nextDocumentNumberInTx(ctx, tx, document.CompanyID)
	if err != nil {
		return err
	}
	document.DocumentNumber = number

	if err := r.insertDocumentInTx(ctx, tx, document); err != nil {
		return err
	}
	if err := r.insertLinesInTx(ctx, tx, document.Lines); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

func (r *PgxDocumentRepository) FindDocumentByID(ctx context.Context, companyID string, documentID string) (*domain.Document, error) {
	query := `
		SELECT ` + documentColumns + `
		FROM documents
		WHERE company_id = $1 AND document_id = $2;
	`
	m, err := scanDocument(r.Pool.QueryRow(ctx, query, companyID, documentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find document by ID %s: %w", documentID, err)
	}

	doc := mapping.ToDomainDocument(m)
	lines, err := r.FindDocumentLines(ctx, companyID, documentID)
	if err != nil {
		return nil, err
	}
	doc.Lines = lines
	return &doc, nil
}

func (r *PgxDocumentRepository) FindDocumentLines(ctx context.Context, companyID string, documentID string) ([]domain.DocumentLine, error) {
	query := `
		SELECT ` + lineColumns + `
		FROM document_lines
		WHERE company_id = $1 AND document_id = $2
		ORDER BY line_number;
	`
	rows, err := r.Pool.Query(ctx, query, companyID, documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query lines of document %s: %w", documentID, err)
	}
	defer rows.Close()

	lines := []domain.DocumentLine{}
	for rows.Next() {
		m, err := scanDocumentLine(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan document line row: %w", err)
		}
		lines = append(lines, mapping.ToDomainDocumentLine(m))
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating document line rows: %w", rows.Err())
	}
	return lines, nil
}

func (r *PgxDocumentRepository) ListDocuments(ctx context.Context, companyID string, fiscalYearID *string, status *domain.DocumentStatus, limit int, nextToken string) ([]domain.Document, string, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT ` + documentColumns + `
		FROM documents
		WHERE company_id = $1
		  AND ($2::text IS NULL OR fiscal_year_id = $2)
		  AND ($3::text IS NULL OR status = $3)
	`
	args := []any{companyID, fiscalYearID, status}

	if nextToken != "" {
		tokenDate, tokenCreatedAt, err := pagination.DecodeToken(nextToken)
		if err != nil {
			return nil, "", fmt.Errorf("invalid pagination token: %w", apperrors.ErrValidation)
		}
		query += ` AND (document_date, created_at) < ($4, $5)`
		args = append(args, tokenDate, tokenCreatedAt)
	}

	// Fetch one extra row to learn whether another page exists.
	query += fmt.Sprintf(` ORDER BY document_date DESC, created_at DESC LIMIT $%d;`, len(args)+1)
	args = append(args, limit+1)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, "", fmt.Errorf("failed to query documents for company %s: %w", companyID, err)
	}
	defer rows.Close()

	docs := []domain.Document{}
	for rows.Next() {
		m, err := scanDocument(rows)
		if err != nil {
			return nil, "", fmt.Errorf("failed to scan document row: %w", err)
		}
		docs = append(docs, mapping.ToDomainDocument(m))
	}
	if rows.Err() != nil {
		return nil, "", fmt.Errorf("error iterating document rows: %w", rows.Err())
	}

	var newNextToken string
	if len(docs) > limit {
		docs = docs[:limit]
		last := docs[len(docs)-1]
		newNextToken = pagination.EncodeToken(last.DocumentDate, last.CreatedAt)
	}
	return docs, newNextToken, nil
}

func (r *PgxDocumentRepository) UpdateDocumentHeader(ctx context.Context, document *domain.Document) error {
	m := mapping.ToModelDocument(*document)

	query := `
		UPDATE documents
		SET document_date = $3, fiscal_year_id = $4, period_id = $5, description = $6,
		    reference_number = $7, reference_type = $8, reference_id = $9,
		    last_updated_at = $10, last_updated_by = $11
		WHERE company_id = $1 AND document_id = $2 AND status = 'DRAFT';
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		m.CompanyID, m.DocumentID, m.DocumentDate, m.FiscalYearID, m.PeriodID, m.Description,
		m.ReferenceNumber, m.ReferenceType, m.ReferenceID, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to execute update document %s: %w", m.DocumentID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return r.classifyMissedUpdate(ctx, m.CompanyID, m.DocumentID, domain.Draft)
	}
	return nil
}

// classifyMissedUpdate distinguishes a missing document from one in the wrong
// state after a guarded update matched no rows.
func (r *PgxDocumentRepository) classifyMissedUpdate(ctx context.Context, companyID string, documentID string, wanted domain.DocumentStatus) error {
	var status string
	err := r.Pool.QueryRow(ctx,
		`SELECT status FROM documents WHERE company_id = $1 AND document_id = $2;`,
		companyID, documentID).Scan(&status)
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to check status of document %s: %w", documentID, err)
	}
	return fmt.Errorf("document is %s, expected %s: %w", status, wanted, apperrors.ErrConflict)
}

func (r *PgxDocumentRepository) ReplaceLines(ctx context.Context, companyID string, documentID string, lines []domain.DocumentLine, userID string) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	// Lock the header so a concurrent post cannot slip between the status
	// check and the line swap.
	var status string
	err = tx.QueryRow(ctx,
		`SELECT status FROM documents WHERE company_id = $1 AND document_id = $2 FOR UPDATE;`,
		companyID, documentID).Scan(&status)
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to lock document %s: %w", documentID, err)
	}
	if domain.DocumentStatus(status) != domain.Draft {
		return fmt.Errorf("document is %s, lines are frozen: %w", status, apperrors.ErrConflict)
	}

	if _, err := tx.Exec(ctx,
		`DELETE FROM document_lines WHERE company_id = $1 AND document_id = $2;`,
		companyID, documentID); err != nil {
		return fmt.Errorf("failed to clear lines of document %s: %w", documentID, err)
	}
	if err := r.insertLinesInTx(ctx, tx, lines); err != nil {
		return err
	}

	debitTotal, creditTotal := accounting.ComputeTotals(lines)
	if _, err := tx.Exec(ctx, `
		UPDATE documents
		SET total_debit = $3, total_credit = $4, last_updated_at = $5, last_updated_by = $6
		WHERE company_id = $1 AND document_id = $2;
	`, companyID, documentID, debitTotal, creditTotal, time.Now(), userID); err != nil {
		return fmt.Errorf("failed to refresh totals of document %s: %w", documentID, err)
	}

	return r.Commit(ctx, tx)
}

func (r *PgxDocumentRepository) DeleteDocument(ctx context.Context, companyID string, documentID string) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	if _, err := tx.Exec(ctx,
		`DELETE FROM document_lines WHERE company_id = $1 AND document_id = $2;`,
		companyID, documentID); err != nil {
		return fmt.Errorf("failed to delete lines of document %s: %w", documentID, err)
	}

	cmdTag, err := tx.Exec(ctx,
		`DELETE FROM documents WHERE company_id = $1 AND document_id = $2 AND status = 'DRAFT';`,
		companyID, documentID)
	if err != nil {
		return fmt.Errorf("failed to delete document %s: %w", documentID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return r.classifyMissedUpdate(ctx, companyID, documentID, domain.Draft)
	}

	return r.Commit(ctx, tx)
}

// collectBalanceChanges spreads each line's signed effect over every account
// of its triple. Each tier carries its own rollup of the same lines, so the
// general, subsidiary and detail balances all move.
func collectBalanceChanges(lines []domain.DocumentLine, accounts map[string]domain.Account) (map[string]decimal.Decimal, error) {
	changes := make(map[string]decimal.Decimal)
	apply := func(accountID string, line domain.DocumentLine) error {
		account, ok := accounts[accountID]
		if !ok {
			return fmt.Errorf("%w: account %s missing from lock set", apperrors.ErrNotFound, accountID)
		}
		effect, err := accounting.SignedEffect(line, account.AccountType)
		if err != nil {
			return err
		}
		changes[accountID] = changes[accountID].Add(effect)
		return nil
	}

	for _, line := range lines {
		if err := apply(line.GeneralAccountID, line); err != nil {
			return nil, err
		}
		if line.SubAccountID != nil && *line.SubAccountID != "" {
			if err := apply(*line.SubAccountID, line); err != nil {
				return nil, err
			}
		}
		if line.DetailAccountID != nil && *line.DetailAccountID != "" {
			if err := apply(*line.DetailAccountID, line); err != nil {
				return nil, err
			}
		}
	}
	return changes, nil
}

func sameLineSet(lines []domain.DocumentLine, lineIDs []string) bool {
	if len(lines) != len(lineIDs) {
		return false
	}
	ids := make(map[string]bool, len(lineIDs))
	for _, id := range lineIDs {
		ids[id] = true
	}
	for _, line := range lines {
		if !ids[line.LineID] {
			return false
		}
	}
	return true
}

func lineAccountIDs(lines []domain.DocumentLine) []string {
	seen := make(map[string]bool)
	ids := []string{}
	collect := func(id string) {
		if id != "" && !seen[id] {
			seen[id] = true
			ids = append(ids, id)
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
	return ids
}

// PostDocument moves a draft to posted in one transaction: the header is
// locked, the draft status, line set and balance invariant re-checked, the
// referenced accounts locked in a stable order and their running balances
// adjusted. Lines that changed after the caller validated them fail the post,
// since the stored set would not have passed path validation.
func (r *PgxDocumentRepository) PostDocument(ctx context.Context, companyID string, documentID string, validatedLineIDs []string, postedBy string, now time.Time) (*domain.Document, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	query := `
		SELECT ` + documentColumns + `
		FROM documents
		WHERE company_id = $1 AND document_id = $2
		FOR UPDATE;
	`
	m, err := scanDocument(tx.QueryRow(ctx, query, companyID, documentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to lock document %s: %w", documentID, err)
	}
	doc := mapping.ToDomainDocument(m)
	if doc.Status != domain.Draft {
		return nil, fmt.Errorf("document is %s, only drafts can be posted: %w", doc.Status, apperrors.ErrConflict)
	}

	lines, err := r.findLinesInTx(ctx, tx, companyID, documentID)
	if err != nil {
		return nil, err
	}
	if !sameLineSet(lines, validatedLineIDs) {
		return nil, fmt.Errorf("document lines changed while posting: %w", apperrors.ErrConflict)
	}
	if err := accounting.ValidateDocumentBalance(lines); err != nil {
		return nil, fmt.Errorf("%s: %w", err.Error(), apperrors.ErrValidation)
	}

	accounts, err := r.accountRepo.FindAccountsByIDsForUpdate(ctx, tx, companyID, lineAccountIDs(lines))
	if err != nil {
		return nil, err
	}
	for id, account := range accounts {
		if !account.IsActive {
			return nil, fmt.Errorf("account %s (%s) is disabled and cannot take new postings: %w",
				account.Code, id, apperrors.ErrValidation)
		}
	}
	balanceChanges, err := collectBalanceChanges(lines, accounts)
	if err != nil {
		return nil, err
	}

	debitTotal, creditTotal := accounting.ComputeTotals(lines)
	if _, err := tx.Exec(ctx, `
		UPDATE documents
		SET status = 'POSTED', total_debit = $3, total_credit = $4,
		    posted_at = $5, posted_by = $6, last_updated_at = $5, last_updated_by = $6
		WHERE company_id = $1 AND document_id = $2;
	`, companyID, documentID, debitTotal, creditTotal, now, postedBy); err != nil {
		return nil, fmt.Errorf("failed to mark document %s posted: %w", documentID, err)
	}

	if err := r.accountRepo.UpdateAccountBalancesInTx(ctx, tx, balanceChanges, postedBy); err != nil {
		return nil, err
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}

	doc.Status = domain.Posted
	doc.TotalDebit = debitTotal
	doc.TotalCredit = creditTotal
	doc.PostedAt = &now
	doc.PostedBy = postedBy
	doc.LastUpdatedAt = now
	doc.LastUpdatedBy = postedBy
	doc.Lines = lines
	return &doc, nil
}

func (r *PgxDocumentRepository) findLinesInTx(ctx context.Context, tx pgx.Tx, companyID string, documentID string) ([]domain.DocumentLine, error) {
	query := `
		SELECT ` + lineColumns + `
		FROM document_lines
		WHERE company_id = $1 AND document_id = $2
		ORDER BY line_number;
	`
	rows, err := tx.Query(ctx, query, companyID, documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query lines of document %s in transaction: %w", documentID, err)
	}
	defer rows.Close()

	lines := []domain.DocumentLine{}
	for rows.Next() {
		m, err := scanDocumentLine(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan document line row: %w", err)
		}
		lines = append(lines, mapping.ToDomainDocumentLine(m))
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating document line rows: %w", rows.Err())
	}
	return lines, nil
}

func (r *PgxDocumentRepository) MarkLocked(ctx context.Context, companyID string, documentID string, lockedBy string, now time.Time) error {
	cmdTag, err := r.Pool.Exec(ctx, `
		UPDATE documents
		SET status = 'LOCKED', locked_at = $3, locked_by = $4, last_updated_at = $3, last_updated_by = $4
		WHERE company_id = $1 AND document_id = $2 AND status = 'POSTED';
	`, companyID, documentID, now, lockedBy)
	if err != nil {
		return fmt.Errorf("failed to lock document %s: %w", documentID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return r.classifyMissedUpdate(ctx, companyID, documentID, domain.Posted)
	}
	return nil
}

func (r *PgxDocumentRepository) MarkCancelled(ctx context.Context, companyID string, documentID string, userID string, now time.Time) error {
	cmdTag, err := r.Pool.Exec(ctx, `
		UPDATE documents
		SET status = 'CANCELLED', last_updated_at = $3, last_updated_by = $4
		WHERE company_id = $1 AND document_id = $2 AND status = 'DRAFT';
	`, companyID, documentID, now, userID)
	if err != nil {
		return fmt.Errorf("failed to cancel document %s: %w", documentID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return r.classifyMissedUpdate(ctx, companyID, documentID, domain.Draft)
	}
	return nil
}

// SaveReversal writes the compensating document in posted state, applies its
// balance effects and flips the original to reversed, all atomically. The
// original is locked first; a concurrent second reversal fails on the status
// guard.
func (r *PgxDocumentRepository) SaveReversal(ctx context.Context, reversing *domain.Document, originalDocumentID string) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	var status string
	err = tx.QueryRow(ctx,
		`SELECT status FROM documents WHERE company_id = $1 AND document_id = $2 FOR UPDATE;`,
		reversing.CompanyID, originalDocumentID).Scan(&status)
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to lock document %s: %w", originalDocumentID, err)
	}
	if domain.DocumentStatus(status) != domain.Posted {
		return fmt.Errorf("document is %s, only posted documents can be reversed: %w", status, apperrors.ErrConflict)
	}

	number, err := r.nextDocumentNumberInTx(ctx, tx, reversing.CompanyID)
	if err != nil {
		return err
	}
	reversing.DocumentNumber = number

	if err := r.insertDocumentInTx(ctx, tx, reversing); err != nil {
		return err
	}
	if err := r.insertLinesInTx(ctx, tx, reversing.Lines); err != nil {
		return err
	}

	accounts, err := r.accountRepo.FindAccountsByIDsForUpdate(ctx, tx, reversing.CompanyID, lineAccountIDs(reversing.Lines))
	if err != nil {
		return err
	}
	balanceChanges, err := collectBalanceChanges(reversing.Lines, accounts)
	if err != nil {
		return err
	}
	if err := r.accountRepo.UpdateAccountBalancesInTx(ctx, tx, balanceChanges, reversing.PostedBy); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, `
		UPDATE documents
		SET status = 'REVERSED', reversed_by_id = $3, last_updated_at = $4, last_updated_by = $5
		WHERE company_id = $1 AND document_id = $2;
	`, reversing.CompanyID, originalDocumentID, reversing.DocumentID, time.Now(), reversing.PostedBy); err != nil {
		return fmt.Errorf("failed to mark document %s reversed: %w", originalDocumentID, err)
	}

	return r.Commit(ctx, tx)
}
