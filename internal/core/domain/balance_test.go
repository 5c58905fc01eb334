package domain_test

import (
	"testing"

	"github.com/parmiserp/ledger_engine/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCloseBalance(t *testing.T) {
	tests := []struct {
		name    string
		opening int64
		debit   int64
		credit  int64
		side    domain.NormalBalance
		want    int64
	}{
		{"debit-normal grows with debits", 500, 300, 100, domain.DebitBalance, 700},
		{"debit-normal shrinks with credits", 500, 0, 600, domain.DebitBalance, -100},
		{"credit-normal grows with credits", 200, 50, 150, domain.CreditBalance, 300},
		{"credit-normal shrinks with debits", 200, 250, 0, domain.CreditBalance, -50},
		{"zero activity keeps the opening", 42, 0, 0, domain.DebitBalance, 42},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := domain.CloseBalance(
				decimal.NewFromInt(tt.opening),
				decimal.NewFromInt(tt.debit),
				decimal.NewFromInt(tt.credit),
				tt.side,
			)
			assert.True(t, got.Equal(decimal.NewFromInt(tt.want)),
				"got %s, want %d", got.String(), tt.want)
		})
	}
}
