package domain_test

import (
	"testing"

	"github.com/parmiserp/ledger_engine/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func TestNormalBalanceFor(t *testing.T) {
	tests := []struct {
		accountType domain.AccountType
		want        domain.NormalBalance
		wantOK      bool
	}{
		{domain.Asset, domain.DebitBalance, true},
		{domain.Expense, domain.DebitBalance, true},
		{domain.Liability, domain.CreditBalance, true},
		{domain.Equity, domain.CreditBalance, true},
		{domain.Revenue, domain.CreditBalance, true},
		{domain.AccountType("CONTRA"), "", false},
		{domain.AccountType(""), "", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.accountType), func(t *testing.T) {
			got, ok := domain.NormalBalanceFor(tt.accountType)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAccount_Validate(t *testing.T) {
	tests := []struct {
		name    string
		account domain.Account
		wantErr bool
	}{
		{
			name: "asset on debit side",
			account: domain.Account{
				AccountType:   domain.Asset,
				NormalBalance: domain.DebitBalance,
				Tier:          domain.TierGeneral,
			},
			wantErr: false,
		},
		{
			name: "revenue on credit side",
			account: domain.Account{
				AccountType:   domain.Revenue,
				NormalBalance: domain.CreditBalance,
				Tier:          domain.TierDetail,
			},
			wantErr: false,
		},
		{
			name: "liability forced onto debit side",
			account: domain.Account{
				AccountType:   domain.Liability,
				NormalBalance: domain.DebitBalance,
				Tier:          domain.TierGeneral,
			},
			wantErr: true,
		},
		{
			name: "expense forced onto credit side",
			account: domain.Account{
				AccountType:   domain.Expense,
				NormalBalance: domain.CreditBalance,
				Tier:          domain.TierSubsidiary,
			},
			wantErr: true,
		},
		{
			name: "unknown classification",
			account: domain.Account{
				AccountType:   domain.AccountType("CONTRA"),
				NormalBalance: domain.DebitBalance,
				Tier:          domain.TierGeneral,
			},
			wantErr: true,
		},
		{
			name: "tier out of range",
			account: domain.Account{
				AccountType:   domain.Asset,
				NormalBalance: domain.DebitBalance,
				Tier:          domain.AccountTier(4),
			},
			wantErr: true,
		},
		{
			name: "tier zero",
			account: domain.Account{
				AccountType:   domain.Asset,
				NormalBalance: domain.DebitBalance,
				Tier:          domain.AccountTier(0),
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.account.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
