package dto

import (
	"time"

	"github.com/parmiserp/ledger_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest defines the data needed to create a new account.
type CreateAccountRequest struct {
	Code           string             `json:"code" binding:"required"`
	Name           string             `json:"name" binding:"required"`
	NameEn         string             `json:"nameEn"` // Optional
	AccountType    domain.AccountType `json:"accountType" binding:"required,oneof=ASSET LIABILITY EQUITY REVENUE EXPENSE"`
	Tier           domain.AccountTier `json:"tier" binding:"required,min=1,max=3"`
	OpeningBalance decimal.Decimal    `json:"openingBalance"`
	Description    string             `json:"description"` // Optional
	IsSystem       bool               `json:"isSystem"`
}

// UpdateAccountRequest defines the data allowed for updating an account.
// Classification and tier are immutable and deliberately absent here.
// Use pointers to distinguish between zero-value updates and fields not provided.
type UpdateAccountRequest struct {
	Name        *string `json:"name"`
	NameEn      *string `json:"nameEn"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"isActive"`
}

// AccountResponse defines the data returned for an account.
// Mirrors domain.Account.
type AccountResponse struct {
	AccountID      string               `json:"accountID"`
	CompanyID      string               `json:"companyID"`
	Code           string               `json:"code"`
	Name           string               `json:"name"`
	NameEn         string               `json:"nameEn"`
	AccountType    domain.AccountType   `json:"accountType"`
	NormalBalance  domain.NormalBalance `json:"normalBalance"`
	Tier           domain.AccountTier   `json:"tier"`
	OpeningBalance decimal.Decimal      `json:"openingBalance"`
	CurrentBalance decimal.Decimal      `json:"currentBalance"`
	Description    string               `json:"description"`
	IsSystem       bool                 `json:"isSystem"`
	IsActive       bool                 `json:"isActive"`
	CreatedAt      time.Time            `json:"createdAt"`
	CreatedBy      string               `json:"createdBy"`
	LastUpdatedAt  time.Time            `json:"lastUpdatedAt"`
	LastUpdatedBy  string               `json:"lastUpdatedBy"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:      acc.AccountID,
		CompanyID:      acc.CompanyID,
		Code:           acc.Code,
		Name:           acc.Name,
		NameEn:         acc.NameEn,
		AccountType:    acc.AccountType,
		NormalBalance:  acc.NormalBalance,
		Tier:           acc.Tier,
		OpeningBalance: acc.OpeningBalance,
		CurrentBalance: acc.CurrentBalance,
		Description:    acc.Description,
		IsSystem:       acc.IsSystem,
		IsActive:       acc.IsActive,
		CreatedAt:      acc.CreatedAt,
		CreatedBy:      acc.CreatedBy,
		LastUpdatedAt:  acc.LastUpdatedAt,
		LastUpdatedBy:  acc.LastUpdatedBy,
	}
}

// ToListAccountResponse converts a slice of domain.Account to a slice of AccountResponse DTOs
func ToListAccountResponse(accounts []domain.Account) []AccountResponse {
	res := make([]AccountResponse, len(accounts))
	for i, acc := range accounts {
		res[i] = ToAccountResponse(&acc)
	}
	return res
}

// ListAccountsParams defines query parameters for listing accounts.
type ListAccountsParams struct {
	Tier   *domain.AccountTier `form:"tier" binding:"omitempty,min=1,max=3"`
	Limit  int                 `form:"limit,default=20"`
	Offset int                 `form:"offset,default=0"`
}

// ListAccountsResponse wraps the list of accounts.
type ListAccountsResponse struct {
	Accounts []AccountResponse `json:"accounts"`
}

// LinkAccountsRequest defines the data needed to attach a lower account to an
// upper account in the chart hierarchy.
type LinkAccountsRequest struct {
	UpperAccountID string `json:"upperAccountID" binding:"required"`
	Notes          string `json:"notes"`
}

// ReplaceRelationsRequest defines the full replacement parent set for a lower
// account. The first ID becomes the primary relation.
type ReplaceRelationsRequest struct {
	UpperAccountIDs []string `json:"upperAccountIDs" binding:"required,min=1,dive,required"`
}

// AccountRelationResponse defines the data returned for one relation edge.
type AccountRelationResponse struct {
	RelationID     string             `json:"relationID"`
	LowerAccountID string             `json:"lowerAccountID"`
	UpperAccountID string             `json:"upperAccountID"`
	LowerTier      domain.AccountTier `json:"lowerTier"`
	IsPrimary      bool               `json:"isPrimary"`
	Notes          string             `json:"notes"`
	CreatedAt      time.Time          `json:"createdAt"`
}

// ToAccountRelationResponse converts a domain.AccountRelation to its DTO.
func ToAccountRelationResponse(rel *domain.AccountRelation) AccountRelationResponse {
	return AccountRelationResponse{
		RelationID:     rel.RelationID,
		LowerAccountID: rel.LowerAccountID,
		UpperAccountID: rel.UpperAccountID,
		LowerTier:      rel.LowerTier,
		IsPrimary:      rel.IsPrimary,
		Notes:          rel.Notes,
		CreatedAt:      rel.CreatedAt,
	}
}

// ToListAccountRelationResponse converts a slice of relations to DTOs.
func ToListAccountRelationResponse(rels []domain.AccountRelation) []AccountRelationResponse {
	res := make([]AccountRelationResponse, len(rels))
	for i, rel := range rels {
		res[i] = ToAccountRelationResponse(&rel)
	}
	return res
}

// ResolvePathRequest defines an account triple to validate against the
// relation graph.
type ResolvePathRequest struct {
	GeneralAccountID string  `json:"generalAccountID" binding:"required"`
	SubAccountID     *string `json:"subAccountID"`
	DetailAccountID  *string `json:"detailAccountID"`
}

// ResolvePathResponse reports the outcome of a path resolution.
type ResolvePathResponse struct {
	Valid  bool   `json:"valid"`
	Reason string `json:"reason,omitempty"` // Set when Valid is false
}
