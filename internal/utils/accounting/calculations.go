package accounting

import (
	"fmt"

	"github.com/parmiserp/ledger_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SignedEffect applies the correct sign to a document line's amount based on
// the account classification. This is used in both services and repositories
// so the balance arithmetic stays consistent.
//
// DEBIT to ASSET/EXPENSE -> positive
// CREDIT to ASSET/EXPENSE -> negative
// DEBIT to LIABILITY/EQUITY/REVENUE -> negative
// CREDIT to LIABILITY/EQUITY/REVENUE -> positive
func SignedEffect(line domain.DocumentLine, accountType domain.AccountType) (decimal.Decimal, error) {
	amount := line.Debit
	isDebit := line.Debit.IsPositive()
	if !isDebit {
		amount = line.Credit
	}

	switch accountType {
	case domain.Asset, domain.Expense:
		if !isDebit {
			amount = amount.Neg()
		}
	case domain.Liability, domain.Equity, domain.Revenue:
		if isDebit {
			amount = amount.Neg()
		}
	default:
		return decimal.Zero, fmt.Errorf("unknown account type '%s' encountered for account ID %s", accountType, line.GeneralAccountID)
	}
	return amount, nil
}

// ComputeTotals sums the debit and credit sides of a set of lines.
func ComputeTotals(lines []domain.DocumentLine) (debitTotal, creditTotal decimal.Decimal) {
	debitTotal = decimal.Zero
	creditTotal = decimal.Zero
	for _, line := range lines {
		debitTotal = debitTotal.Add(line.Debit)
		creditTotal = creditTotal.Add(line.Credit)
	}
	return debitTotal, creditTotal
}

// ValidateDocumentBalance checks that a set of lines can be posted: at least
// one line, every line holds the debit-xor-credit invariant, and the two sides
// sum to exactly the same decimal quantity. No tolerance is applied.
func ValidateDocumentBalance(lines []domain.DocumentLine) error {
	if len(lines) == 0 {
		return &domain.InvariantError{Invariant: "document-lines", Detail: "document must have at least one line"}
	}
	for i := range lines {
		if err := lines[i].Validate(); err != nil {
			return fmt.Errorf("line %d: %w", lines[i].LineNumber, err)
		}
	}
	debitTotal, creditTotal := ComputeTotals(lines)
	if !debitTotal.Equal(creditTotal) {
		return &domain.InvariantError{
			Invariant: "balanced-document",
			Detail:    fmt.Sprintf("total debit %s does not equal total credit %s", debitTotal.String(), creditTotal.String()),
		}
	}
	return nil
}
