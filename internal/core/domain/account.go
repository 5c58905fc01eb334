package domain

import (
	"github.com/shopspring/decimal"
)

// AccountType defines the fundamental accounting classification of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Revenue   AccountType = "REVENUE"
	Expense   AccountType = "EXPENSE"
)

// NormalBalance is the side on which an account is expected to carry its balance.
type NormalBalance string

const (
	DebitBalance  NormalBalance = "DEBIT"
	CreditBalance NormalBalance = "CREDIT"
)

// AccountTier is the level of an account within the chart of accounts.
type AccountTier int16

const (
	TierGeneral    AccountTier = 1 // top-level (general ledger) account
	TierSubsidiary AccountTier = 2 // subsidiary account, linked to one or more general accounts
	TierDetail     AccountTier = 3 // detail account, linked to one or more subsidiary accounts
)

// NormalBalanceFor returns the normal balance side dictated by a classification.
func NormalBalanceFor(accountType AccountType) (NormalBalance, bool) {
	switch accountType {
	case Asset, Expense:
		return DebitBalance, true
	case Liability, Equity, Revenue:
		return CreditBalance, true
	default:
		return "", false
	}
}

// Account represents one node of the chart of accounts. The three tiers share
// this single type; tier-2 and tier-3 accounts participate in AccountRelation
// rows instead of carrying a parent pointer, so the hierarchy is a DAG.
type Account struct {
	AccountID      string          `json:"accountID"`   // Primary Key (UUID)
	CompanyID      string          `json:"companyID"`   // Owning tenant (Not Null)
	Code           string          `json:"code"`        // Unique per (company, code)
	Name           string          `json:"name"`        // Primary display name
	NameEn         string          `json:"nameEn"`      // Optional secondary-language name
	AccountType    AccountType     `json:"accountType"` // Classification, immutable after creation
	NormalBalance  NormalBalance   `json:"normalBalance"`
	Tier           AccountTier     `json:"tier"` // 1, 2 or 3, immutable after creation
	OpeningBalance decimal.Decimal `json:"openingBalance"`
	CurrentBalance decimal.Decimal `json:"currentBalance"` // Derived, never edited directly
	Description    string          `json:"description"`
	IsSystem       bool            `json:"isSystem"` // System-generated accounts cannot be deleted
	IsActive       bool            `json:"isActive"` // Soft-retire flag; disabled accounts stay referenceable
	AuditFields
}

// Validate checks the classification/normal-balance/tier invariants.
func (a *Account) Validate() error {
	expected, ok := NormalBalanceFor(a.AccountType)
	if !ok {
		return &InvariantError{Invariant: "classification", Detail: "unknown account type " + string(a.AccountType)}
	}
	if a.NormalBalance != expected {
		return &InvariantError{
			Invariant: "normal-balance",
			Detail:    string(a.AccountType) + " accounts must carry a " + string(expected) + " normal balance",
		}
	}
	if a.Tier < TierGeneral || a.Tier > TierDetail {
		return &InvariantError{Invariant: "tier", Detail: "account tier must be 1, 2 or 3"}
	}
	return nil
}

// AccountRelation is one edge of the account DAG: a tier-2 account linked to a
// tier-1 account, or a tier-3 account linked to a tier-2 account. A lower
// account with more than one relation is "floating".
type AccountRelation struct {
	RelationID     string      `json:"relationID"`
	CompanyID      string      `json:"companyID"`
	LowerAccountID string      `json:"lowerAccountID"` // The tier-2 or tier-3 endpoint
	UpperAccountID string      `json:"upperAccountID"` // The tier-1 or tier-2 endpoint
	LowerTier      AccountTier `json:"lowerTier"`      // Tier of the lower endpoint (2 or 3)
	IsPrimary      bool        `json:"isPrimary"`      // The first relation created for a lower account
	Notes          string      `json:"notes"`
	AuditFields
}
