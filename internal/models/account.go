package models

import (
	"github.com/shopspring/decimal"
)

// AccountType mirrors domain.AccountType for DB storage.
type AccountType string

// NormalBalance mirrors domain.NormalBalance for DB storage.
type NormalBalance string

// Account is the DB representation of a chart-of-accounts node.
type Account struct {
	AccountID      string          `db:"account_id"`
	CompanyID      string          `db:"company_id"`
	Code           string          `db:"code"`
	Name           string          `db:"name"`
	NameEn         string          `db:"name_en"`
	AccountType    AccountType     `db:"account_type"`
	NormalBalance  NormalBalance   `db:"normal_balance"`
	Tier           int16           `db:"tier"`
	OpeningBalance decimal.Decimal `db:"opening_balance"`
	CurrentBalance decimal.Decimal `db:"current_balance"`
	Description    string          `db:"description"`
	IsSystem       bool            `db:"is_system"`
	IsActive       bool            `db:"is_active"`
	AuditFields
}

// AccountRelation is the DB representation of one DAG edge. Uniqueness is
// enforced on (lower_account_id, upper_account_id).
type AccountRelation struct {
	RelationID     string `db:"relation_id"`
	CompanyID      string `db:"company_id"`
	LowerAccountID string `db:"lower_account_id"`
	UpperAccountID string `db:"upper_account_id"`
	LowerTier      int16  `db:"lower_tier"`
	IsPrimary      bool   `db:"is_primary"`
	Notes          string `db:"notes"`
	AuditFields
}
