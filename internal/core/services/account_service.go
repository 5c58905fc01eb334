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
)

// accountService implements the AccountSvcFacade interface
type accountService struct {
	BaseService
	accountRepo portsrepo.AccountRepositoryFacade
}

// NewAccountService creates a new account service
func NewAccountService(repo portsrepo.AccountRepositoryFacade) portssvc.AccountSvcFacade {
	return &accountService{accountRepo: repo}
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

func (s *accountService) CreateAccount(ctx context.Context, companyID string, req dto.CreateAccountRequest, creatorUserID string) (*domain.Account, error) {
	normalBalance, ok := domain.NormalBalanceFor(req.AccountType)
	if !ok {
		err := fmt.Errorf("unknown account type %q: %w", req.AccountType, apperrors.ErrValidation)
		s.LogError(ctx, err, "Rejected account with invalid classification", slog.String("account_type", string(req.AccountType)))
		return nil, err
	}
	if req.Tier < domain.TierGeneral || req.Tier > domain.TierDetail {
		return nil, fmt.Errorf("account tier must be 1, 2 or 3: %w", apperrors.ErrValidation)
	}

	now := time.Now()
	account := domain.Account{
		AccountID:      uuid.NewString(),
		CompanyID:      companyID,
		Code:           req.Code,
		Name:           req.Name,
		NameEn:         req.NameEn,
		AccountType:    req.AccountType,
		NormalBalance:  normalBalance,
		Tier:           req.Tier,
		OpeningBalance: req.OpeningBalance,
		CurrentBalance: req.OpeningBalance,
		Description:    req.Description,
		IsSystem:       req.IsSystem,
		IsActive:       true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}
	if err := account.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", err.Error(), apperrors.ErrValidation)
	}

	if err := s.accountRepo.SaveAccount(ctx, &account); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("account code %q already exists in company: %w", req.Code, err)
		}
		s.LogError(ctx, err, "Failed to save account", slog.String("account_code", req.Code))
		return nil, err
	}

	s.LogInfo(ctx, "Account created", slog.String("account_id", account.AccountID), slog.String("code", account.Code))
	return &account, nil
}

func (s *accountService) GetAccountByID(ctx context.Context, companyID string, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, companyID, accountID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find account by ID", slog.String("account_id", accountID))
		}
		return nil, err
	}
	return account, nil
}

func (s *accountService) GetAccountByCode(ctx context.Context, companyID string, code string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByCode(ctx, companyID, code)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find account by code", slog.String("code", code))
		}
		return nil, err
	}
	return account, nil
}

func (s *accountService) ListAccounts(ctx context.Context, companyID string, params dto.ListAccountsParams) ([]domain.Account, error) {
	accounts, err := s.accountRepo.ListAccounts(ctx, companyID, params.Tier, params.Limit, params.Offset)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts", slog.String("company_id", companyID))
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	if accounts == nil {
		accounts = []domain.Account{}
	}
	return accounts, nil
}

func (s *accountService) UpdateAccount(ctx context.Context, companyID string, accountID string, req dto.UpdateAccountRequest, userID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, companyID, accountID)
	if err != nil {
		return nil, err
	}

	// Classification, normal balance and tier stay as created.
	if req.Name != nil {
		account.Name = *req.Name
	}
	if req.NameEn != nil {
		account.NameEn = *req.NameEn
	}
	if req.Description != nil {
		account.Description = *req.Description
	}
	if req.IsActive != nil {
		account.IsActive = *req.IsActive
	}
	account.LastUpdatedAt = time.Now()
	account.LastUpdatedBy = userID

	if err := s.accountRepo.UpdateAccount(ctx, account); err != nil {
		s.LogError(ctx, err, "Failed to update account", slog.String("account_id", accountID))
		return nil, err
	}
	return account, nil
}

func (s *accountService) DeactivateAccount(ctx context.Context, companyID string, accountID string, userID string) error {
	if err := s.accountRepo.DeactivateAccount(ctx, companyID, accountID, userID); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to deactivate account", slog.String("account_id", accountID))
		}
		return err
	}
	s.LogInfo(ctx, "Account deactivated", slog.String("account_id", accountID))
	return nil
}

func (s *accountService) DeleteAccount(ctx context.Context, companyID string, accountID string, userID string) error {
	account, err := s.accountRepo.FindAccountByID(ctx, companyID, accountID)
	if err != nil {
		return err
	}
	if account.IsSystem {
		return fmt.Errorf("system accounts cannot be deleted: %w", apperrors.ErrConflict)
	}

	childCount, err := s.accountRepo.CountRelationsAsUpper(ctx, companyID, accountID)
	if err != nil {
		return err
	}
	if childCount > 0 {
		return fmt.Errorf("account has %d attached child accounts: %w", childCount, apperrors.ErrConflict)
	}

	referenced, err := s.accountRepo.HasLineReferences(ctx, companyID, accountID)
	if err != nil {
		return err
	}
	if referenced {
		return fmt.Errorf("account is referenced by document lines: %w", apperrors.ErrConflict)
	}

	if err := s.accountRepo.DeleteAccount(ctx, companyID, accountID); err != nil {
		s.LogError(ctx, err, "Failed to delete account", slog.String("account_id", accountID))
		return err
	}
	s.LogInfo(ctx, "Account deleted", slog.String("account_id", accountID))
	return nil
}

// validateLinkPair checks the structural rules of one lower/upper pair.
func (s *accountService) validateLinkPair(lower, upper *domain.Account) error {
	if lower.Tier != domain.TierSubsidiary && lower.Tier != domain.TierDetail {
		return fmt.Errorf("only tier-2 and tier-3 accounts can be attached to a parent: %w", apperrors.ErrValidation)
	}
	if upper.Tier != lower.Tier-1 {
		return fmt.Errorf("parent must be exactly one tier above the child (child tier %d, parent tier %d): %w",
			lower.Tier, upper.Tier, apperrors.ErrValidation)
	}
	if lower.AccountType != upper.AccountType {
		return fmt.Errorf("child classification %s does not match parent classification %s: %w",
			lower.AccountType, upper.AccountType, apperrors.ErrValidation)
	}
	return nil
}

func (s *accountService) LinkAccounts(ctx context.Context, companyID string, lowerAccountID string, req dto.LinkAccountsRequest, userID string) (*domain.AccountRelation, error) {
	lower, err := s.accountRepo.FindAccountByID(ctx, companyID, lowerAccountID)
	if err != nil {
		return nil, fmt.Errorf("child account: %w", err)
	}
	// Scoping both lookups by company makes a cross-tenant link indistinguishable
	// from a missing account.
	upper, err := s.accountRepo.FindAccountByID(ctx, companyID, req.UpperAccountID)
	if err != nil {
		return nil, fmt.Errorf("parent account: %w", err)
	}

	if err := s.validateLinkPair(lower, upper); err != nil {
		return nil, err
	}

	existing, err := s.accountRepo.ListRelationsByLower(ctx, companyID, lowerAccountID)
	if err != nil {
		return nil, err
	}
	for _, rel := range existing {
		if rel.UpperAccountID == req.UpperAccountID {
			return nil, fmt.Errorf("accounts are already linked: %w", apperrors.ErrDuplicate)
		}
	}

	now := time.Now()
	relation := domain.AccountRelation{
		RelationID:     uuid.NewString(),
		CompanyID:      companyID,
		LowerAccountID: lowerAccountID,
		UpperAccountID: req.UpperAccountID,
		LowerTier:      lower.Tier,
		IsPrimary:      len(existing) == 0, // first link becomes the primary relation
		Notes:          req.Notes,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.accountRepo.SaveRelation(ctx, &relation); err != nil {
		s.LogError(ctx, err, "Failed to save account relation",
			slog.String("lower_account_id", lowerAccountID),
			slog.String("upper_account_id", req.UpperAccountID))
		return nil, err
	}

	s.LogInfo(ctx, "Accounts linked",
		slog.String("lower_account_id", lowerAccountID),
		slog.String("upper_account_id", req.UpperAccountID),
		slog.Bool("is_primary", relation.IsPrimary))
	return &relation, nil
}

func (s *accountService) ReplaceRelations(ctx context.Context, companyID string, lowerAccountID string, req dto.ReplaceRelationsRequest, userID string) ([]domain.AccountRelation, error) {
	lower, err := s.accountRepo.FindAccountByID(ctx, companyID, lowerAccountID)
	if err != nil {
		return nil, fmt.Errorf("child account: %w", err)
	}

	existing, err := s.accountRepo.ListRelationsByLower(ctx, companyID, lowerAccountID)
	if err != nil {
		return nil, err
	}
	currentPrimaryUpper := ""
	for _, rel := range existing {
		if rel.IsPrimary {
			currentPrimaryUpper = rel.UpperAccountID
			break
		}
	}

	seen := make(map[string]bool, len(req.UpperAccountIDs))
	now := time.Now()
	relations := make([]domain.AccountRelation, 0, len(req.UpperAccountIDs))
	for _, upperID := range req.UpperAccountIDs {
		if seen[upperID] {
			return nil, fmt.Errorf("parent %s listed more than once: %w", upperID, apperrors.ErrValidation)
		}
		seen[upperID] = true

		upper, err := s.accountRepo.FindAccountByID(ctx, companyID, upperID)
		if err != nil {
			return nil, fmt.Errorf("parent account %s: %w", upperID, err)
		}
		if err := s.validateLinkPair(lower, upper); err != nil {
			return nil, err
		}

		relations = append(relations, domain.AccountRelation{
			RelationID:     uuid.NewString(),
			CompanyID:      companyID,
			LowerAccountID: lowerAccountID,
			UpperAccountID: upperID,
			LowerTier:      lower.Tier,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     userID,
				LastUpdatedAt: now,
				LastUpdatedBy: userID,
			},
		})
	}

	// The current primary keeps its flag when its parent survives the
	// replacement; only when it is gone does the first entry take over.
	primaryUpper := ""
	if currentPrimaryUpper != "" && seen[currentPrimaryUpper] {
		primaryUpper = currentPrimaryUpper
	} else if len(req.UpperAccountIDs) > 0 {
		primaryUpper = req.UpperAccountIDs[0]
	}
	for i := range relations {
		relations[i].IsPrimary = relations[i].UpperAccountID == primaryUpper
	}

	if err := s.accountRepo.ReplaceRelationsForLower(ctx, companyID, lowerAccountID, relations); err != nil {
		s.LogError(ctx, err, "Failed to replace account relations", slog.String("lower_account_id", lowerAccountID))
		return nil, err
	}

	s.LogInfo(ctx, "Account relations replaced",
		slog.String("lower_account_id", lowerAccountID),
		slog.Int("relation_count", len(relations)))
	return relations, nil
}

func (s *accountService) ListUppers(ctx context.Context, companyID string, lowerAccountID string) ([]domain.AccountRelation, error) {
	if _, err := s.accountRepo.FindAccountByID(ctx, companyID, lowerAccountID); err != nil {
		return nil, err
	}
	rels, err := s.accountRepo.ListRelationsByLower(ctx, companyID, lowerAccountID)
	if err != nil {
		return nil, err
	}
	if rels == nil {
		rels = []domain.AccountRelation{}
	}
	return rels, nil
}

func (s *accountService) ListLowers(ctx context.Context, companyID string, upperAccountID string) ([]domain.AccountRelation, error) {
	if _, err := s.accountRepo.FindAccountByID(ctx, companyID, upperAccountID); err != nil {
		return nil, err
	}
	rels, err := s.accountRepo.ListRelationsByUpper(ctx, companyID, upperAccountID)
	if err != nil {
		return nil, err
	}
	if rels == nil {
		rels = []domain.AccountRelation{}
	}
	return rels, nil
}

// ResolvePath validates an account triple against the relation graph. The
// tier-2 account is optional; a tier-3 account without a tier-2 account is
// accepted when any subsidiary connects the two.
func (s *accountService) ResolvePath(ctx context.Context, companyID string, generalAccountID string, subAccountID *string, detailAccountID *string) error {
	general, err := s.accountRepo.FindAccountByID(ctx, companyID, generalAccountID)
	if err != nil {
		return fmt.Errorf("general account: %w", err)
	}
	if general.Tier != domain.TierGeneral {
		return fmt.Errorf("account %s is not a general (tier-1) account: %w", generalAccountID, apperrors.ErrValidation)
	}

	var sub *domain.Account
	if subAccountID != nil && *subAccountID != "" {
		sub, err = s.accountRepo.FindAccountByID(ctx, companyID, *subAccountID)
		if err != nil {
			return fmt.Errorf("subsidiary account: %w", err)
		}
		if sub.Tier != domain.TierSubsidiary {
			return fmt.Errorf("account %s is not a subsidiary (tier-2) account: %w", *subAccountID, apperrors.ErrValidation)
		}
		rel, err := s.accountRepo.FindRelation(ctx, companyID, *subAccountID, generalAccountID)
		if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			return err
		}
		if rel == nil {
			return fmt.Errorf("subsidiary account %s is not attached to general account %s: %w",
				*subAccountID, generalAccountID, apperrors.ErrValidation)
		}
	}

	if detailAccountID != nil && *detailAccountID != "" {
		detail, err := s.accountRepo.FindAccountByID(ctx, companyID, *detailAccountID)
		if err != nil {
			return fmt.Errorf("detail account: %w", err)
		}
		if detail.Tier != domain.TierDetail {
			return fmt.Errorf("account %s is not a detail (tier-3) account: %w", *detailAccountID, apperrors.ErrValidation)
		}

		if sub != nil {
			rel, err := s.accountRepo.FindRelation(ctx, companyID, *detailAccountID, sub.AccountID)
			if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
				return err
			}
			if rel == nil {
				return fmt.Errorf("detail account %s is not attached to subsidiary account %s: %w",
					*detailAccountID, sub.AccountID, apperrors.ErrValidation)
			}
		} else {
			reachable, err := s.accountRepo.ExistsPathGeneralToDetail(ctx, companyID, generalAccountID, *detailAccountID)
			if err != nil {
				return err
			}
			if !reachable {
				return fmt.Errorf("detail account %s is not reachable from general account %s: %w",
					*detailAccountID, generalAccountID, apperrors.ErrValidation)
			}
		}
	}

	return nil
}
