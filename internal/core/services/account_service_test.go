package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/parmiserp/ledger_engine/internal/apperrors"
	"github.com/parmiserp/ledger_engine/internal/core/domain"
	portssvc "github.com/parmiserp/ledger_engine/internal/core/ports/services"
	"github.com/parmiserp/ledger_engine/internal/core/services"
	"github.com/parmiserp/ledger_engine/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// MockAccountRepository is a mock type for the AccountRepositoryFacade interface
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, companyID string, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, companyID, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountByCode(ctx context.Context, companyID string, code string) (*domain.Account, error) {
	args := m.Called(ctx, companyID, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountsByIDs(ctx context.Context, companyID string, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, companyID, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccounts(ctx context.Context, companyID string, tier *domain.AccountTier, limit int, offset int) ([]domain.Account, error) {
	args := m.Called(ctx, companyID, tier, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account *domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) UpdateAccount(ctx context.Context, account *domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) DeactivateAccount(ctx context.Context, companyID string, accountID string, userID string) error {
	args := m.Called(ctx, companyID, accountID, userID)
	return args.Error(0)
}

func (m *MockAccountRepository) DeleteAccount(ctx context.Context, companyID string, accountID string) error {
	args := m.Called(ctx, companyID, accountID)
	return args.Error(0)
}

func (m *MockAccountRepository) SaveRelation(ctx context.Context, relation *domain.AccountRelation) error {
	args := m.Called(ctx, relation)
	return args.Error(0)
}

func (m *MockAccountRepository) FindRelation(ctx context.Context, companyID string, lowerAccountID string, upperAccountID string) (*domain.AccountRelation, error) {
	args := m.Called(ctx, companyID, lowerAccountID, upperAccountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountRelation), args.Error(1)
}

func (m *MockAccountRepository) ListRelationsByLower(ctx context.Context, companyID string, lowerAccountID string) ([]domain.AccountRelation, error) {
	args := m.Called(ctx, companyID, lowerAccountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AccountRelation), args.Error(1)
}

func (m *MockAccountRepository) ListRelationsByUpper(ctx context.Context, companyID string, upperAccountID string) ([]domain.AccountRelation, error) {
	args := m.Called(ctx, companyID, upperAccountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AccountRelation), args.Error(1)
}

func (m *MockAccountRepository) ReplaceRelationsForLower(ctx context.Context, companyID string, lowerAccountID string, relations []domain.AccountRelation) error {
	args := m.Called(ctx, companyID, lowerAccountID, relations)
	return args.Error(0)
}

func (m *MockAccountRepository) ExistsPathGeneralToDetail(ctx context.Context, companyID string, generalAccountID string, detailAccountID string) (bool, error) {
	args := m.Called(ctx, companyID, generalAccountID, detailAccountID)
	return args.Bool(0), args.Error(1)
}

func (m *MockAccountRepository) CountRelationsAsUpper(ctx context.Context, companyID string, accountID string) (int64, error) {
	args := m.Called(ctx, companyID, accountID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAccountRepository) HasLineReferences(ctx context.Context, companyID string, accountID string) (bool, error) {
	args := m.Called(ctx, companyID, accountID)
	return args.Bool(0), args.Error(1)
}

func (m *MockAccountRepository) FindAccountsByIDsForUpdate(ctx context.Context, tx pgx.Tx, companyID string, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, tx, companyID, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) UpdateAccountBalancesInTx(ctx context.Context, tx pgx.Tx, balanceChanges map[string]decimal.Decimal, userID string) error {
	args := m.Called(ctx, tx, balanceChanges, userID)
	return args.Error(0)
}

func (m *MockAccountRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(pgx.Tx), args.Error(1)
}

func (m *MockAccountRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockAccountRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

// --- Test Suite Setup ---

type AccountServiceTestSuite struct {
	suite.Suite
	mockRepo  *MockAccountRepository
	service   portssvc.AccountSvcFacade
	companyID string
	userID    string
}

func (suite *AccountServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockAccountRepository)
	suite.service = services.NewAccountService(suite.mockRepo)
	suite.companyID = uuid.NewString()
	suite.userID = uuid.NewString()
}

func (suite *AccountServiceTestSuite) newAccount(tier domain.AccountTier, accountType domain.AccountType) *domain.Account {
	normalBalance, _ := domain.NormalBalanceFor(accountType)
	return &domain.Account{
		AccountID:     uuid.NewString(),
		CompanyID:     suite.companyID,
		Code:          uuid.NewString()[:8],
		Name:          "test account",
		AccountType:   accountType,
		NormalBalance: normalBalance,
		Tier:          tier,
		IsActive:      true,
	}
}

// --- Create ---

func (suite *AccountServiceTestSuite) TestCreateAccount_Success() {
	ctx := context.Background()
	req := dto.CreateAccountRequest{
		Code:        "1101",
		Name:        "Cash",
		AccountType: domain.Asset,
		Tier:        domain.TierGeneral,
	}

	suite.mockRepo.On("SaveAccount", ctx, mock.AnythingOfType("*domain.Account")).Return(nil).Once()

	created, err := suite.service.CreateAccount(ctx, suite.companyID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(created)
	suite.NotEmpty(created.AccountID)
	suite.Equal(suite.companyID, created.CompanyID)
	// An asset account must land on the debit side; the service derives it.
	suite.Equal(domain.DebitBalance, created.NormalBalance)
	suite.True(created.IsActive)
	suite.Equal(suite.userID, created.CreatedBy)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestCreateAccount_DerivesCreditSideForRevenue() {
	ctx := context.Background()
	req := dto.CreateAccountRequest{
		Code:        "4101",
		Name:        "Sales",
		AccountType: domain.Revenue,
		Tier:        domain.TierGeneral,
	}

	suite.mockRepo.On("SaveAccount", ctx, mock.AnythingOfType("*domain.Account")).Return(nil).Once()

	created, err := suite.service.CreateAccount(ctx, suite.companyID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.CreditBalance, created.NormalBalance)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_UnknownClassification() {
	ctx := context.Background()
	req := dto.CreateAccountRequest{
		Code:        "9999",
		Name:        "Bogus",
		AccountType: domain.AccountType("CONTRA"),
		Tier:        domain.TierGeneral,
	}

	created, err := suite.service.CreateAccount(ctx, suite.companyID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(created)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveAccount")
}

func (suite *AccountServiceTestSuite) TestCreateAccount_DuplicateCode() {
	ctx := context.Background()
	req := dto.CreateAccountRequest{
		Code:        "1101",
		Name:        "Cash",
		AccountType: domain.Asset,
		Tier:        domain.TierGeneral,
	}

	suite.mockRepo.On("SaveAccount", ctx, mock.AnythingOfType("*domain.Account")).Return(apperrors.ErrDuplicate).Once()

	created, err := suite.service.CreateAccount(ctx, suite.companyID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
	suite.Nil(created)
}

// --- Update ---

func (suite *AccountServiceTestSuite) TestUpdateAccount_KeepsClassificationAndTier() {
	ctx := context.Background()
	existing := suite.newAccount(domain.TierGeneral, domain.Liability)
	newName := "Accounts Payable"

	suite.mockRepo.On("FindAccountByID", ctx, suite.companyID, existing.AccountID).Return(existing, nil).Once()
	suite.mockRepo.On("UpdateAccount", ctx, mock.AnythingOfType("*domain.Account")).Return(nil).Once()

	updated, err := suite.service.UpdateAccount(ctx, suite.companyID, existing.AccountID, dto.UpdateAccountRequest{Name: &newName}, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(newName, updated.Name)
	suite.Equal(domain.Liability, updated.AccountType)
	suite.Equal(domain.CreditBalance, updated.NormalBalance)
	suite.Equal(domain.TierGeneral, updated.Tier)
	suite.Equal(suite.userID, updated.LastUpdatedBy)
}

// --- Delete ---

func (suite *AccountServiceTestSuite) TestDeleteAccount_SystemAccountRejected() {
	ctx := context.Background()
	account := suite.newAccount(domain.TierGeneral, domain.Asset)
	account.IsSystem = true

	suite.mockRepo.On("FindAccountByID", ctx, suite.companyID, account.AccountID).Return(account, nil).Once()

	err := suite.service.DeleteAccount(ctx, suite.companyID, account.AccountID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockRepo.AssertNotCalled(suite.T(), "DeleteAccount")
}

func (suite *AccountServiceTestSuite) TestDeleteAccount_WithChildrenRejected() {
	ctx := context.Background()
	account := suite.newAccount(domain.TierGeneral, domain.Asset)

	suite.mockRepo.On("FindAccountByID", ctx, suite.companyID, account.AccountID).Return(account, nil).Once()
	suite.mockRepo.On("CountRelationsAsUpper", ctx, suite.companyID, account.AccountID).Return(int64(2), nil).Once()

	err := suite.service.DeleteAccount(ctx, suite.companyID, account.AccountID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
}

func (suite *AccountServiceTestSuite) TestDeleteAccount_ReferencedByLinesRejected() {
	ctx := context.Background()
	account := suite.newAccount(domain.TierDetail, domain.Asset)

	suite.mockRepo.On("FindAccountByID", ctx, suite.companyID, account.AccountID).Return(account, nil).Once()
	suite.mockRepo.On("CountRelationsAsUpper", ctx, suite.companyID, account.AccountID).Return(int64(0), nil).Once()
	suite.mockRepo.On("HasLineReferences", ctx, suite.companyID, account.AccountID).Return(true, nil).Once()

	err := suite.service.DeleteAccount(ctx, suite.companyID, account.AccountID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
}

func (suite *AccountServiceTestSuite) TestDeleteAccount_Success() {
	ctx := context.Background()
	account := suite.newAccount(domain.TierDetail, domain.Expense)

	suite.mockRepo.On("FindAccountByID", ctx, suite.companyID, account.AccountID).Return(account, nil).Once()
	suite.mockRepo.On("CountRelationsAsUpper", ctx, suite.companyID, account.AccountID).Return(int64(0), nil).Once()
	suite.mockRepo.On("HasLineReferences", ctx, suite.companyID, account.AccountID).Return(false, nil).Once()
	suite.mockRepo.On("DeleteAccount", ctx, suite.companyID, account.AccountID).Return(nil).Once()

	err := suite.service.DeleteAccount(ctx, suite.companyID, account.AccountID, suite.userID)

	suite.Require().NoError(err)
	suite.mockRepo.AssertExpectations(suite.T())
}

// --- Linking ---

func (suite *AccountServiceTestSuite) TestLinkAccounts_FirstLinkIsPrimary() {
	ctx := context.Background()
	general := suite.newAccount(domain.TierGeneral, domain.Asset)
	sub := suite.newAccount(domain.TierSubsidiary, domain.Asset)

	suite.mockRepo.On("FindAccountByID", ctx, suite.companyID, sub.AccountID).Return(sub, nil).Once()
	suite.mockRepo.On("FindAccountByID", ctx, suite.companyID, general.AccountID).Return(general, nil).Once()
	suite.mockRepo.On("ListRelationsByLower", ctx, suite.companyID, sub.AccountID).Return([]domain.AccountRelation{}, nil).Once()
	suite.mockRepo.On("SaveRelation", ctx, mock.AnythingOfType("*domain.AccountRelation")).Return(nil).Once()

	relation, err := suite.service.LinkAccounts(ctx, suite.companyID, sub.AccountID,
		dto.LinkAccountsRequest{UpperAccountID: general.AccountID}, suite.userID)

	suite.Require().NoError(err)
	suite.True(relation.IsPrimary)
	suite.Equal(domain.TierSubsidiary, relation.LowerTier)
}

func (suite *AccountServiceTestSuite) TestLinkAccounts_SecondLinkIsNotPrimary() {
	ctx := context.Background()
	general := suite.newAccount(domain.TierGeneral, domain.Asset)
	sub := suite.newAccount(domain.TierSubsidiary, domain.Asset)
	existing := []domain.AccountRelation{{
		RelationID:     uuid.NewString(),
		LowerAccountID: sub.AccountID,
		UpperAccountID: uuid.NewString(),
		IsPrimary:      true,
	}}

	suite.mockRepo.On("FindAccountByID", ctx, suite.companyID, sub.AccountID).Return(sub, nil).Once()
	suite.mockRepo.On("FindAccountByID", ctx, suite.companyID, general.AccountID).Return(general, nil).Once()
	suite.mockRepo.On("ListRelationsByLower", ctx, suite.companyID, sub.AccountID).Return(existing, nil).Once()
	suite.mockRepo.On("SaveRelation", ctx, mock.AnythingOfType("*domain.AccountRelation")).Return(nil).Once()

	relation, err := suite.service.LinkAccounts(ctx, suite.companyID, sub.AccountID,
		dto.LinkAccountsRequest{UpperAccountID: general.AccountID}, suite.userID)

	suite.Require().NoError(err)
	suite.False(relation.IsPrimary)
}

func (suite *AccountServiceTestSuite) TestLinkAccounts_ClassificationMismatchRejected() {
	ctx := context.Background()
	general := suite.newAccount(domain.TierGeneral, domain.Asset)
	sub := suite.newAccount(domain.TierSubsidiary, domain.Expense)

	suite.mockRepo.On("FindAccountByID", ctx, suite.companyID, sub.AccountID).Return(sub, nil).Once()
	suite.mockRepo.On("FindAccountByID", ctx, suite.companyID, general.AccountID).Return(general, nil).Once()

	relation, err := suite.service.LinkAccounts(ctx, suite.companyID, sub.AccountID,
		dto.LinkAccountsRequest{UpperAccountID: general.AccountID}, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(relation)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveRelation")
}

func (suite *AccountServiceTestSuite) TestLinkAccounts_TierGapRejected() {
	ctx := context.Background()
	general := suite.newAccount(domain.TierGeneral, domain.Asset)
	detail := suite.newAccount(domain.TierDetail, domain.Asset)

	suite.mockRepo.On("FindAccountByID", ctx, suite.companyID, detail.AccountID).Return(detail, nil).Once()
	suite.mockRepo.On("FindAccountByID", ctx, suite.companyID, general.AccountID).Return(general, nil).Once()

	// Detail accounts attach to subsidiaries, never directly to generals.
	_, err := suite.service.LinkAccounts(ctx, suite.companyID, detail.AccountID,
		dto.LinkAccountsRequest{UpperAccountID: general.AccountID}, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *AccountServiceTestSuite) TestLinkAccounts_AlreadyLinkedRejected() {
	ctx := context.Background()
	general := suite.newAccount(domain.TierGeneral, domain.Asset)
	sub := suite.newAccount(domain.TierSubsidiary, domain.Asset)
	existing := []domain.AccountRelation{{
		LowerAccountID: sub.AccountID,
		UpperAccountID: general.AccountID,
		IsPrimary:      true,
	}}

	suite.mockRepo.On("FindAccountByID", ctx, suite.companyID, sub.AccountID).Return(sub, nil).Once()
	suite.mockRepo.On("FindAccountByID", ctx, suite.companyID, general.AccountID).Return(general, nil).Once()
	suite.mockRepo.On("ListRelationsByLower", ctx, suite.companyID, sub.AccountID).Return(existing, nil).Once()

	_, err := suite.service.LinkAccounts(ctx, suite.companyID, sub.AccountID,
		dto.LinkAccountsRequest{UpperAccountID: general.AccountID}, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
}

func (suite *AccountServiceTestSuite) TestReplaceRelations_FirstEntryBecomesPrimary() {
	ctx := context.Background()
	sub := suite.newAccount(domain.TierSubsidiary, domain.Asset)
	generalA := suite.newAccount(domain.TierGeneral, domain.Asset)
	generalB := suite.newAccount(domain.TierGeneral, domain.Asset)

	suite.mockRepo.On("FindAccountByID", ctx, suite.companyID, sub.AccountID).Return(sub, nil).Once()
	suite.mockRepo.On("ListRelationsByLower", ctx, suite.companyID, sub.AccountID).
		Return([]domain.AccountRelation{}, nil).Once()
	suite.mockRepo.On("FindAccountByID", ctx, suite.companyID, generalA.AccountID).Return(generalA, nil).Once()
	suite.mockRepo.On("FindAccountByID", ctx, suite.companyID, generalB.AccountID).Return(generalB, nil).Once()
	suite.mockRepo.On("ReplaceRelationsForLower", ctx, suite.companyID, sub.AccountID, mock.AnythingOfType("[]domain.AccountRelation")).Return(nil).Once()

	relations, err := suite.service.ReplaceRelations(ctx, suite.companyID, sub.AccountID,
		dto.ReplaceRelationsRequest{UpperAccountIDs: []string{generalA.AccountID, generalB.AccountID}}, suite.userID)

	suite.Require().NoError(err)
	suite.Require().Len(relations, 2)
	suite.True(relations[0].IsPrimary)
	suite.False(relations[1].IsPrimary)
}

func (suite *AccountServiceTestSuite) TestReplaceRelations_SameSetKeepsPrimary() {
	ctx := context.Background()
	sub := suite.newAccount(domain.TierSubsidiary, domain.Asset)
	generalA := suite.newAccount(domain.TierGeneral, domain.Asset)
	generalB := suite.newAccount(domain.TierGeneral, domain.Asset)
	existing := []domain.AccountRelation{
		{LowerAccountID: sub.AccountID, UpperAccountID: generalA.AccountID, IsPrimary: true},
		{LowerAccountID: sub.AccountID, UpperAccountID: generalB.AccountID},
	}

	suite.mockRepo.On("FindAccountByID", ctx, suite.companyID, sub.AccountID).Return(sub, nil).Once()
	suite.mockRepo.On("ListRelationsByLower", ctx, suite.companyID, sub.AccountID).Return(existing, nil).Once()
	suite.mockRepo.On("FindAccountByID", ctx, suite.companyID, generalA.AccountID).Return(generalA, nil).Once()
	suite.mockRepo.On("FindAccountByID", ctx, suite.companyID, generalB.AccountID).Return(generalB, nil).Once()
	suite.mockRepo.On("ReplaceRelationsForLower", ctx, suite.companyID, sub.AccountID, mock.AnythingOfType("[]domain.AccountRelation")).Return(nil).Once()

	// Same parent set, listed in a different order. The primary flag must stay
	// on the surviving parent rather than follow the request order.
	relations, err := suite.service.ReplaceRelations(ctx, suite.companyID, sub.AccountID,
		dto.ReplaceRelationsRequest{UpperAccountIDs: []string{generalB.AccountID, generalA.AccountID}}, suite.userID)

	suite.Require().NoError(err)
	suite.Require().Len(relations, 2)
	suite.False(relations[0].IsPrimary)
	suite.Equal(generalA.AccountID, relations[1].UpperAccountID)
	suite.True(relations[1].IsPrimary)
}

func (suite *AccountServiceTestSuite) TestReplaceRelations_PrimaryFallsBackWhenParentDropped() {
	ctx := context.Background()
	sub := suite.newAccount(domain.TierSubsidiary, domain.Asset)
	generalA := suite.newAccount(domain.TierGeneral, domain.Asset)
	generalB := suite.newAccount(domain.TierGeneral, domain.Asset)
	existing := []domain.AccountRelation{
		{LowerAccountID: sub.AccountID, UpperAccountID: generalA.AccountID, IsPrimary: true},
	}

	suite.mockRepo.On("FindAccountByID", ctx, suite.companyID, sub.AccountID).Return(sub, nil).Once()
	suite.mockRepo.On("ListRelationsByLower", ctx, suite.companyID, sub.AccountID).Return(existing, nil).Once()
	suite.mockRepo.On("FindAccountByID", ctx, suite.companyID, generalB.AccountID).Return(generalB, nil).Once()
	suite.mockRepo.On("ReplaceRelationsForLower", ctx, suite.companyID, sub.AccountID, mock.AnythingOfType("[]domain.AccountRelation")).Return(nil).Once()

	relations, err := suite.service.ReplaceRelations(ctx, suite.companyID, sub.AccountID,
		dto.ReplaceRelationsRequest{UpperAccountIDs: []string{generalB.AccountID}}, suite.userID)

	suite.Require().NoError(err)
	suite.Require().Len(relations, 1)
	suite.True(relations[0].IsPrimary)
}

func (suite *AccountServiceTestSuite) TestReplaceRelations_DuplicateParentRejected() {
	ctx := context.Background()
	sub := suite.newAccount(domain.TierSubsidiary, domain.Asset)
	general := suite.newAccount(domain.TierGeneral, domain.Asset)

	suite.mockRepo.On("FindAccountByID", ctx, suite.companyID, sub.AccountID).Return(sub, nil).Once()
	suite.mockRepo.On("ListRelationsByLower", ctx, suite.companyID, sub.AccountID).
		Return([]domain.AccountRelation{}, nil).Once()
	suite.mockRepo.On("FindAccountByID", ctx, suite.companyID, general.AccountID).Return(general, nil).Once()

	_, err := suite.service.ReplaceRelations(ctx, suite.companyID, sub.AccountID,
		dto.ReplaceRelationsRequest{UpperAccountIDs: []string{general.AccountID, general.AccountID}}, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "ReplaceRelationsForLower")
}

// --- Path resolution ---

func (suite *AccountServiceTestSuite) TestResolvePath_FullTripleValid() {
	ctx := context.Background()
	general := suite.newAccount(domain.TierGeneral, domain.Asset)
	sub := suite.newAccount(domain.TierSubsidiary, domain.Asset)
	detail := suite.newAccount(domain.TierDetail, domain.Asset)

	suite.mockRepo.On("FindAccountByID", ctx, suite.companyID, general.AccountID).Return(general, nil).Once()
	suite.mockRepo.On("FindAccountByID", ctx, suite.companyID, sub.AccountID).Return(sub, nil).Once()
	suite.mockRepo.On("FindAccountByID", ctx, suite.companyID, detail.AccountID).Return(detail, nil).Once()
	suite.mockRepo.On("FindRelation", ctx, suite.companyID, sub.AccountID, general.AccountID).
		Return(&domain.AccountRelation{}, nil).Once()
	suite.mockRepo.On("FindRelation", ctx, suite.companyID, detail.AccountID, sub.AccountID).
		Return(&domain.AccountRelation{}, nil).Once()

	err := suite.service.ResolvePath(ctx, suite.companyID, general.AccountID, &sub.AccountID, &detail.AccountID)

	suite.Require().NoError(err)
}

func (suite *AccountServiceTestSuite) TestResolvePath_DetachedSubRejected() {
	ctx := context.Background()
	general := suite.newAccount(domain.TierGeneral, domain.Asset)
	sub := suite.newAccount(domain.TierSubsidiary, domain.Asset)

	suite.mockRepo.On("FindAccountByID", ctx, suite.companyID, general.AccountID).Return(general, nil).Once()
	suite.mockRepo.On("FindAccountByID", ctx, suite.companyID, sub.AccountID).Return(sub, nil).Once()
	suite.mockRepo.On("FindRelation", ctx, suite.companyID, sub.AccountID, general.AccountID).
		Return(nil, apperrors.ErrNotFound).Once()

	err := suite.service.ResolvePath(ctx, suite.companyID, general.AccountID, &sub.AccountID, nil)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *AccountServiceTestSuite) TestResolvePath_DetailWithoutSubUsesGraphReachability() {
	ctx := context.Background()
	general := suite.newAccount(domain.TierGeneral, domain.Asset)
	detail := suite.newAccount(domain.TierDetail, domain.Asset)

	suite.mockRepo.On("FindAccountByID", ctx, suite.companyID, general.AccountID).Return(general, nil).Once()
	suite.mockRepo.On("FindAccountByID", ctx, suite.companyID, detail.AccountID).Return(detail, nil).Once()
	suite.mockRepo.On("ExistsPathGeneralToDetail", ctx, suite.companyID, general.AccountID, detail.AccountID).
		Return(true, nil).Once()

	err := suite.service.ResolvePath(ctx, suite.companyID, general.AccountID, nil, &detail.AccountID)

	suite.Require().NoError(err)
}

func (suite *AccountServiceTestSuite) TestResolvePath_WrongTierRejected() {
	ctx := context.Background()
	sub := suite.newAccount(domain.TierSubsidiary, domain.Asset)

	suite.mockRepo.On("FindAccountByID", ctx, suite.companyID, sub.AccountID).Return(sub, nil).Once()

	err := suite.service.ResolvePath(ctx, suite.companyID, sub.AccountID, nil, nil)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func TestAccountServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AccountServiceTestSuite))
}
