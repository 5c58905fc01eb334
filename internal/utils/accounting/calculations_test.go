package accounting_test

import (
	"testing"

	"github.com/parmiserp/ledger_engine/internal/core/domain"
	"github.com/parmiserp/ledger_engine/internal/utils/accounting"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func debitLine(amount int64) domain.DocumentLine {
	return domain.DocumentLine{
		GeneralAccountID: "acc_debit",
		LineNumber:       1,
		Debit:            decimal.NewFromInt(amount),
	}
}

func creditLine(amount int64) domain.DocumentLine {
	return domain.DocumentLine{
		GeneralAccountID: "acc_credit",
		LineNumber:       2,
		Credit:           decimal.NewFromInt(amount),
	}
}

func TestSignedEffect(t *testing.T) {
	tests := []struct {
		name        string
		line        domain.DocumentLine
		accountType domain.AccountType
		want        int64
	}{
		{"debit to asset is positive", debitLine(100), domain.Asset, 100},
		{"credit to asset is negative", creditLine(100), domain.Asset, -100},
		{"debit to expense is positive", debitLine(75), domain.Expense, 75},
		{"credit to expense is negative", creditLine(75), domain.Expense, -75},
		{"debit to liability is negative", debitLine(40), domain.Liability, -40},
		{"credit to liability is positive", creditLine(40), domain.Liability, 40},
		{"debit to equity is negative", debitLine(10), domain.Equity, -10},
		{"credit to equity is positive", creditLine(10), domain.Equity, 10},
		{"debit to revenue is negative", debitLine(60), domain.Revenue, -60},
		{"credit to revenue is positive", creditLine(60), domain.Revenue, 60},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := accounting.SignedEffect(tt.line, tt.accountType)
			require.NoError(t, err)
			assert.True(t, got.Equal(decimal.NewFromInt(tt.want)),
				"got %s, want %d", got.String(), tt.want)
		})
	}
}

func TestSignedEffect_UnknownType(t *testing.T) {
	_, err := accounting.SignedEffect(debitLine(1), domain.AccountType("CONTRA"))
	assert.Error(t, err)
}

func TestComputeTotals(t *testing.T) {
	lines := []domain.DocumentLine{
		debitLine(100),
		creditLine(60),
		creditLine(40),
	}

	debitTotal, creditTotal := accounting.ComputeTotals(lines)

	assert.True(t, debitTotal.Equal(decimal.NewFromInt(100)))
	assert.True(t, creditTotal.Equal(decimal.NewFromInt(100)))
}

func TestComputeTotals_Empty(t *testing.T) {
	debitTotal, creditTotal := accounting.ComputeTotals(nil)

	assert.True(t, debitTotal.IsZero())
	assert.True(t, creditTotal.IsZero())
}

func TestValidateDocumentBalance(t *testing.T) {
	tests := []struct {
		name    string
		lines   []domain.DocumentLine
		wantErr bool
		errMsg  string
	}{
		{
			name:    "balanced split",
			lines:   []domain.DocumentLine{debitLine(100), creditLine(60), creditLine(40)},
			wantErr: false,
		},
		{
			name:    "no lines",
			lines:   nil,
			wantErr: true,
			errMsg:  "at least one line",
		},
		{
			name:    "unbalanced totals",
			lines:   []domain.DocumentLine{debitLine(100), creditLine(90)},
			wantErr: true,
			errMsg:  "does not equal",
		},
		{
			name: "line with both sides",
			lines: []domain.DocumentLine{
				{GeneralAccountID: "acc_1", LineNumber: 1, Debit: decimal.NewFromInt(50), Credit: decimal.NewFromInt(50)},
			},
			wantErr: true,
			errMsg:  "not both",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := accounting.ValidateDocumentBalance(tt.lines)
			if tt.wantErr {
				assert.Error(t, err)
				if tt.errMsg != "" {
					assert.Contains(t, err.Error(), tt.errMsg)
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

// Sub-cent precision must balance exactly, with no tolerance applied.
func TestValidateDocumentBalance_DecimalPrecision(t *testing.T) {
	exact := []domain.DocumentLine{
		{GeneralAccountID: "acc_1", LineNumber: 1, Debit: decimal.RequireFromString("0.0001")},
		{GeneralAccountID: "acc_2", LineNumber: 2, Credit: decimal.RequireFromString("0.0001")},
	}
	assert.NoError(t, accounting.ValidateDocumentBalance(exact))

	off := []domain.DocumentLine{
		{GeneralAccountID: "acc_1", LineNumber: 1, Debit: decimal.RequireFromString("100.0001")},
		{GeneralAccountID: "acc_2", LineNumber: 2, Credit: decimal.RequireFromString("100.0002")},
	}
	assert.Error(t, accounting.ValidateDocumentBalance(off))
}
