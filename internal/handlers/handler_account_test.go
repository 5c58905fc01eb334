package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/parmiserp/ledger_engine/internal/apperrors"
	"github.com/parmiserp/ledger_engine/internal/core/domain"
	portssvc "github.com/parmiserp/ledger_engine/internal/core/ports/services"
	"github.com/parmiserp/ledger_engine/internal/dto"
	"github.com/parmiserp/ledger_engine/internal/handlers"
	"github.com/parmiserp/ledger_engine/internal/middleware"
	"github.com/parmiserp/ledger_engine/internal/platform/config"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock AccountService ---

type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) GetAccountByID(ctx context.Context, companyID string, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, companyID, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) GetAccountByCode(ctx context.Context, companyID string, code string) (*domain.Account, error) {
	args := m.Called(ctx, companyID, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) ListAccounts(ctx context.Context, companyID string, params dto.ListAccountsParams) ([]domain.Account, error) {
	args := m.Called(ctx, companyID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountService) CreateAccount(ctx context.Context, companyID string, req dto.CreateAccountRequest, creatorUserID string) (*domain.Account, error) {
	args := m.Called(ctx, companyID, req, creatorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) UpdateAccount(ctx context.Context, companyID string, accountID string, req dto.UpdateAccountRequest, userID string) (*domain.Account, error) {
	args := m.Called(ctx, companyID, accountID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) DeactivateAccount(ctx context.Context, companyID string, accountID string, userID string) error {
	args := m.Called(ctx, companyID, accountID, userID)
	return args.Error(0)
}

func (m *MockAccountService) DeleteAccount(ctx context.Context, companyID string, accountID string, userID string) error {
	args := m.Called(ctx, companyID, accountID, userID)
	return args.Error(0)
}

func (m *MockAccountService) LinkAccounts(ctx context.Context, companyID string, lowerAccountID string, req dto.LinkAccountsRequest, userID string) (*domain.AccountRelation, error) {
	args := m.Called(ctx, companyID, lowerAccountID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountRelation), args.Error(1)
}

func (m *MockAccountService) ReplaceRelations(ctx context.Context, companyID string, lowerAccountID string, req dto.ReplaceRelationsRequest, userID string) ([]domain.AccountRelation, error) {
	args := m.Called(ctx, companyID, lowerAccountID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AccountRelation), args.Error(1)
}

func (m *MockAccountService) ListUppers(ctx context.Context, companyID string, lowerAccountID string) ([]domain.AccountRelation, error) {
	args := m.Called(ctx, companyID, lowerAccountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AccountRelation), args.Error(1)
}

func (m *MockAccountService) ListLowers(ctx context.Context, companyID string, upperAccountID string) ([]domain.AccountRelation, error) {
	args := m.Called(ctx, companyID, upperAccountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AccountRelation), args.Error(1)
}

func (m *MockAccountService) ResolvePath(ctx context.Context, companyID string, generalAccountID string, subAccountID *string, detailAccountID *string) error {
	args := m.Called(ctx, companyID, generalAccountID, subAccountID, detailAccountID)
	return args.Error(0)
}

// --- Test Suite Setup ---

type AccountHandlerTestSuite struct {
	suite.Suite
	router      *gin.Engine
	mockService *MockAccountService
	companyID   string
	userID      string
}

func (suite *AccountHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.mockService = new(MockAccountService)
	suite.companyID = uuid.NewString()
	suite.userID = uuid.NewString()

	suite.router = gin.New()
	suite.router.Use(middleware.ActorMiddleware())

	services := &portssvc.ServiceContainer{Account: suite.mockService}
	handlers.RegisterRoutes(suite.router, &config.Config{}, services)
}

func (suite *AccountHandlerTestSuite) performRequest(method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		suite.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", suite.userID)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *AccountHandlerTestSuite) accountsPath(suffix string) string {
	return fmt.Sprintf("/api/v1/companies/%s/accounts%s", suite.companyID, suffix)
}

// --- Tests ---

func (suite *AccountHandlerTestSuite) TestCreateAccount_Created() {
	account := &domain.Account{
		AccountID:     uuid.NewString(),
		CompanyID:     suite.companyID,
		Code:          "1101",
		Name:          "Cash",
		AccountType:   domain.Asset,
		NormalBalance: domain.DebitBalance,
		Tier:          domain.TierGeneral,
		IsActive:      true,
	}
	reqBody := dto.CreateAccountRequest{
		Code:        "1101",
		Name:        "Cash",
		AccountType: domain.Asset,
		Tier:        domain.TierGeneral,
	}

	suite.mockService.On("CreateAccount", mock.Anything, suite.companyID, mock.AnythingOfType("dto.CreateAccountRequest"), suite.userID).
		Return(account, nil).Once()

	w := suite.performRequest(http.MethodPost, suite.accountsPath(""), reqBody)

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.AccountResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(account.AccountID, resp.AccountID)
	suite.Equal(domain.DebitBalance, resp.NormalBalance)
	suite.mockService.AssertExpectations(suite.T())
}

func (suite *AccountHandlerTestSuite) TestCreateAccount_ValidationErrorReturns400() {
	reqBody := dto.CreateAccountRequest{
		Code:        "9999",
		Name:        "Bogus",
		AccountType: domain.AccountType("CONTRA"),
		Tier:        domain.TierGeneral,
	}

	suite.mockService.On("CreateAccount", mock.Anything, suite.companyID, mock.AnythingOfType("dto.CreateAccountRequest"), suite.userID).
		Return(nil, fmt.Errorf("unknown account type: %w", apperrors.ErrValidation)).Once()

	w := suite.performRequest(http.MethodPost, suite.accountsPath(""), reqBody)

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *AccountHandlerTestSuite) TestCreateAccount_DuplicateReturns409() {
	reqBody := dto.CreateAccountRequest{
		Code:        "1101",
		Name:        "Cash",
		AccountType: domain.Asset,
		Tier:        domain.TierGeneral,
	}

	suite.mockService.On("CreateAccount", mock.Anything, suite.companyID, mock.AnythingOfType("dto.CreateAccountRequest"), suite.userID).
		Return(nil, apperrors.ErrDuplicate).Once()

	w := suite.performRequest(http.MethodPost, suite.accountsPath(""), reqBody)

	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *AccountHandlerTestSuite) TestGetAccount_NotFoundReturns404() {
	accountID := uuid.NewString()

	suite.mockService.On("GetAccountByID", mock.Anything, suite.companyID, accountID).
		Return(nil, apperrors.ErrNotFound).Once()

	w := suite.performRequest(http.MethodGet, suite.accountsPath("/"+accountID), nil)

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *AccountHandlerTestSuite) TestLinkAccounts_DuplicateReturns409() {
	lowerID := uuid.NewString()
	reqBody := dto.LinkAccountsRequest{UpperAccountID: uuid.NewString()}

	suite.mockService.On("LinkAccounts", mock.Anything, suite.companyID, lowerID, mock.AnythingOfType("dto.LinkAccountsRequest"), suite.userID).
		Return(nil, fmt.Errorf("accounts are already linked: %w", apperrors.ErrDuplicate)).Once()

	w := suite.performRequest(http.MethodPost, suite.accountsPath("/"+lowerID+"/relations"), reqBody)

	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *AccountHandlerTestSuite) TestResolvePath_InvalidPathStillReturns200() {
	generalID := uuid.NewString()
	subID := uuid.NewString()
	reqBody := dto.ResolvePathRequest{GeneralAccountID: generalID, SubAccountID: &subID}

	suite.mockService.On("ResolvePath", mock.Anything, suite.companyID, generalID, &subID, (*string)(nil)).
		Return(fmt.Errorf("subsidiary account is not attached: %w", apperrors.ErrValidation)).Once()

	w := suite.performRequest(http.MethodPost,
		fmt.Sprintf("/api/v1/companies/%s/resolve-path", suite.companyID), reqBody)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.ResolvePathResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.False(resp.Valid)
	suite.NotEmpty(resp.Reason)
}

func (suite *AccountHandlerTestSuite) TestResolvePath_ValidPath() {
	generalID := uuid.NewString()
	reqBody := dto.ResolvePathRequest{GeneralAccountID: generalID}

	suite.mockService.On("ResolvePath", mock.Anything, suite.companyID, generalID, (*string)(nil), (*string)(nil)).
		Return(nil).Once()

	w := suite.performRequest(http.MethodPost,
		fmt.Sprintf("/api/v1/companies/%s/resolve-path", suite.companyID), reqBody)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.ResolvePathResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.True(resp.Valid)
	suite.Empty(resp.Reason)
}

func (suite *AccountHandlerTestSuite) TestDeactivateAccount_NoContent() {
	accountID := uuid.NewString()

	suite.mockService.On("DeactivateAccount", mock.Anything, suite.companyID, accountID, suite.userID).
		Return(nil).Once()

	w := suite.performRequest(http.MethodPost, suite.accountsPath("/"+accountID+"/deactivate"), nil)

	suite.Equal(http.StatusNoContent, w.Code)
}

func TestAccountHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(AccountHandlerTestSuite))
}
