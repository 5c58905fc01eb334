package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/parmiserp/ledger_engine/internal/apperrors"
	"github.com/parmiserp/ledger_engine/internal/core/domain"
	portssvc "github.com/parmiserp/ledger_engine/internal/core/ports/services"
	"github.com/parmiserp/ledger_engine/internal/core/services"
	"github.com/parmiserp/ledger_engine/internal/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// MockHierarchyRepository is a mock type for the HierarchyRepositoryFacade interface
type MockHierarchyRepository struct {
	mock.Mock
}

func (m *MockHierarchyRepository) FindNodeByID(ctx context.Context, companyID string, nodeID string) (*domain.CategoryNode, error) {
	args := m.Called(ctx, companyID, nodeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CategoryNode), args.Error(1)
}

func (m *MockHierarchyRepository) FindNodeByCode(ctx context.Context, companyID string, code string) (*domain.CategoryNode, error) {
	args := m.Called(ctx, companyID, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CategoryNode), args.Error(1)
}

func (m *MockHierarchyRepository) ListNodesByParent(ctx context.Context, companyID string, parentNodeID *string) ([]domain.CategoryNode, error) {
	args := m.Called(ctx, companyID, parentNodeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CategoryNode), args.Error(1)
}

func (m *MockHierarchyRepository) ListNodesByCompany(ctx context.Context, companyID string) ([]domain.CategoryNode, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CategoryNode), args.Error(1)
}

func (m *MockHierarchyRepository) HasChildren(ctx context.Context, companyID string, nodeID string) (bool, error) {
	args := m.Called(ctx, companyID, nodeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockHierarchyRepository) SaveNode(ctx context.Context, node *domain.CategoryNode) error {
	args := m.Called(ctx, node)
	return args.Error(0)
}

func (m *MockHierarchyRepository) UpdateNode(ctx context.Context, node *domain.CategoryNode) error {
	args := m.Called(ctx, node)
	return args.Error(0)
}

func (m *MockHierarchyRepository) ReparentNode(ctx context.Context, node *domain.CategoryNode, depthByNodeID map[string]int, userID string) error {
	args := m.Called(ctx, node, depthByNodeID, userID)
	return args.Error(0)
}

func (m *MockHierarchyRepository) DeleteNode(ctx context.Context, companyID string, nodeID string) error {
	args := m.Called(ctx, companyID, nodeID)
	return args.Error(0)
}

// --- Test Suite Setup ---

type HierarchyServiceTestSuite struct {
	suite.Suite
	mockRepo        *MockHierarchyRepository
	mockAccountRepo *MockAccountRepository
	service         portssvc.HierarchySvcFacade
	companyID       string
	userID          string
}

func (suite *HierarchyServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockHierarchyRepository)
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.service = services.NewHierarchyService(suite.mockRepo, suite.mockAccountRepo)
	suite.companyID = uuid.NewString()
	suite.userID = uuid.NewString()
}

func (suite *HierarchyServiceTestSuite) newNode(parentID *string, depth int) *domain.CategoryNode {
	return &domain.CategoryNode{
		NodeID:       uuid.NewString(),
		CompanyID:    suite.companyID,
		Code:         uuid.NewString()[:8],
		Name:         "test node",
		ParentNodeID: parentID,
		Depth:        depth,
		IsActive:     true,
	}
}

// --- Create ---

func (suite *HierarchyServiceTestSuite) TestCreateNode_RootDepthIsOne() {
	ctx := context.Background()
	req := dto.CreateCategoryNodeRequest{Code: "OPEX", Name: "Operating expenses"}

	suite.mockRepo.On("SaveNode", ctx, mock.AnythingOfType("*domain.CategoryNode")).Return(nil).Once()

	node, err := suite.service.CreateNode(ctx, suite.companyID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(1, node.Depth)
	suite.Nil(node.ParentNodeID)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *HierarchyServiceTestSuite) TestCreateNode_ChildDepthFollowsParent() {
	ctx := context.Background()
	parent := suite.newNode(nil, 2)
	req := dto.CreateCategoryNodeRequest{Code: "OPEX-IT", Name: "IT expenses", ParentNodeID: &parent.NodeID}

	suite.mockRepo.On("FindNodeByID", ctx, suite.companyID, parent.NodeID).Return(parent, nil).Once()
	suite.mockRepo.On("SaveNode", ctx, mock.AnythingOfType("*domain.CategoryNode")).Return(nil).Once()

	node, err := suite.service.CreateNode(ctx, suite.companyID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(3, node.Depth)
}

func (suite *HierarchyServiceTestSuite) TestCreateNode_DepthLimitEnforced() {
	ctx := context.Background()
	parent := suite.newNode(nil, domain.MaxHierarchyDepth)
	req := dto.CreateCategoryNodeRequest{Code: "DEEP", Name: "Too deep", ParentNodeID: &parent.NodeID}

	suite.mockRepo.On("FindNodeByID", ctx, suite.companyID, parent.NodeID).Return(parent, nil).Once()

	node, err := suite.service.CreateNode(ctx, suite.companyID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(node)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveNode")
}

func (suite *HierarchyServiceTestSuite) TestCreateNode_NonDetailAccountLinkRejected() {
	ctx := context.Background()
	account := &domain.Account{
		AccountID:   uuid.NewString(),
		CompanyID:   suite.companyID,
		AccountType: domain.Expense,
		Tier:        domain.TierSubsidiary,
	}
	req := dto.CreateCategoryNodeRequest{Code: "OPEX", Name: "Operating expenses", DetailAccountID: &account.AccountID}

	suite.mockAccountRepo.On("FindAccountByID", ctx, suite.companyID, account.AccountID).Return(account, nil).Once()

	_, err := suite.service.CreateNode(ctx, suite.companyID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

// --- Reparent ---

func (suite *HierarchyServiceTestSuite) TestUpdateNode_SelfParentRejected() {
	ctx := context.Background()
	node := suite.newNode(nil, 1)

	suite.mockRepo.On("FindNodeByID", ctx, suite.companyID, node.NodeID).Return(node, nil).Once()

	_, err := suite.service.UpdateNode(ctx, suite.companyID, node.NodeID,
		dto.UpdateCategoryNodeRequest{ParentNodeID: &node.NodeID}, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "UpdateNode")
}

func (suite *HierarchyServiceTestSuite) TestUpdateNode_MoveUnderOwnDescendantRejected() {
	ctx := context.Background()
	// root -> child; moving root under child closes a loop.
	root := suite.newNode(nil, 1)
	child := suite.newNode(&root.NodeID, 2)

	suite.mockRepo.On("FindNodeByID", ctx, suite.companyID, root.NodeID).Return(root, nil).Once()
	suite.mockRepo.On("FindNodeByID", ctx, suite.companyID, child.NodeID).Return(child, nil).Once()

	_, err := suite.service.UpdateNode(ctx, suite.companyID, root.NodeID,
		dto.UpdateCategoryNodeRequest{ParentNodeID: &child.NodeID}, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "UpdateNode")
}

func (suite *HierarchyServiceTestSuite) TestUpdateNode_CorruptParentChainBounded() {
	ctx := context.Background()
	node := suite.newNode(nil, 1)
	// Two nodes pointing at each other form a loop that never reaches node.
	loopA := suite.newNode(nil, 2)
	loopB := suite.newNode(&loopA.NodeID, 3)
	loopA.ParentNodeID = &loopB.NodeID

	suite.mockRepo.On("FindNodeByID", ctx, suite.companyID, node.NodeID).Return(node, nil).Once()
	suite.mockRepo.On("FindNodeByID", ctx, suite.companyID, loopA.NodeID).Return(loopA, nil)
	suite.mockRepo.On("FindNodeByID", ctx, suite.companyID, loopB.NodeID).Return(loopB, nil)

	_, err := suite.service.UpdateNode(ctx, suite.companyID, node.NodeID,
		dto.UpdateCategoryNodeRequest{ParentNodeID: &loopA.NodeID}, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *HierarchyServiceTestSuite) TestUpdateNode_ReparentCascadesDepths() {
	ctx := context.Background()
	// moving "moved" (depth 1, with one child at depth 2) under "newParent" (depth 2)
	moved := suite.newNode(nil, 1)
	child := suite.newNode(&moved.NodeID, 2)
	newParent := suite.newNode(nil, 2)

	suite.mockRepo.On("FindNodeByID", ctx, suite.companyID, moved.NodeID).Return(moved, nil).Once()
	// cycle walk up from newParent, which is a root
	suite.mockRepo.On("FindNodeByID", ctx, suite.companyID, newParent.NodeID).Return(newParent, nil).Twice()
	suite.mockRepo.On("ListNodesByParent", ctx, suite.companyID, &moved.NodeID).Return([]domain.CategoryNode{*child}, nil).Once()
	suite.mockRepo.On("ListNodesByParent", ctx, suite.companyID, &child.NodeID).Return([]domain.CategoryNode{}, nil).Once()
	// The move and its cascade go to the repository as one operation.
	suite.mockRepo.On("ReparentNode", ctx, mock.AnythingOfType("*domain.CategoryNode"),
		map[string]int{moved.NodeID: 3, child.NodeID: 4}, suite.userID).Return(nil).Once()

	updated, err := suite.service.UpdateNode(ctx, suite.companyID, moved.NodeID,
		dto.UpdateCategoryNodeRequest{ParentNodeID: &newParent.NodeID}, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(3, updated.Depth)
	suite.Equal(newParent.NodeID, *updated.ParentNodeID)
	suite.mockRepo.AssertNotCalled(suite.T(), "UpdateNode")
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *HierarchyServiceTestSuite) TestUpdateNode_FailedReparentLeavesNoPartialWrite() {
	ctx := context.Background()
	moved := suite.newNode(nil, 1)
	newParent := suite.newNode(nil, 2)

	suite.mockRepo.On("FindNodeByID", ctx, suite.companyID, moved.NodeID).Return(moved, nil).Once()
	suite.mockRepo.On("FindNodeByID", ctx, suite.companyID, newParent.NodeID).Return(newParent, nil).Twice()
	suite.mockRepo.On("ListNodesByParent", ctx, suite.companyID, &moved.NodeID).Return([]domain.CategoryNode{}, nil).Once()
	suite.mockRepo.On("ReparentNode", ctx, mock.AnythingOfType("*domain.CategoryNode"),
		map[string]int{moved.NodeID: 3}, suite.userID).Return(assert.AnError).Once()

	_, err := suite.service.UpdateNode(ctx, suite.companyID, moved.NodeID,
		dto.UpdateCategoryNodeRequest{ParentNodeID: &newParent.NodeID}, suite.userID)

	suite.Require().Error(err)
	// No separate node write happens outside the transactional reparent.
	suite.mockRepo.AssertNotCalled(suite.T(), "UpdateNode")
}

func (suite *HierarchyServiceTestSuite) TestUpdateNode_MoveToRoot() {
	ctx := context.Background()
	parentID := uuid.NewString()
	node := suite.newNode(&parentID, 2)
	rootMarker := ""

	suite.mockRepo.On("FindNodeByID", ctx, suite.companyID, node.NodeID).Return(node, nil).Once()
	suite.mockRepo.On("ListNodesByParent", ctx, suite.companyID, &node.NodeID).Return([]domain.CategoryNode{}, nil).Once()
	suite.mockRepo.On("ReparentNode", ctx, mock.AnythingOfType("*domain.CategoryNode"),
		map[string]int{node.NodeID: 1}, suite.userID).Return(nil).Once()

	updated, err := suite.service.UpdateNode(ctx, suite.companyID, node.NodeID,
		dto.UpdateCategoryNodeRequest{ParentNodeID: &rootMarker}, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(1, updated.Depth)
	suite.Nil(updated.ParentNodeID)
}

// --- Delete ---

func (suite *HierarchyServiceTestSuite) TestDeleteNode_WithChildrenRejected() {
	ctx := context.Background()
	node := suite.newNode(nil, 1)

	suite.mockRepo.On("FindNodeByID", ctx, suite.companyID, node.NodeID).Return(node, nil).Once()
	suite.mockRepo.On("HasChildren", ctx, suite.companyID, node.NodeID).Return(true, nil).Once()

	err := suite.service.DeleteNode(ctx, suite.companyID, node.NodeID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockRepo.AssertNotCalled(suite.T(), "DeleteNode")
}

func (suite *HierarchyServiceTestSuite) TestDeleteNode_Success() {
	ctx := context.Background()
	node := suite.newNode(nil, 1)

	suite.mockRepo.On("FindNodeByID", ctx, suite.companyID, node.NodeID).Return(node, nil).Once()
	suite.mockRepo.On("HasChildren", ctx, suite.companyID, node.NodeID).Return(false, nil).Once()
	suite.mockRepo.On("DeleteNode", ctx, suite.companyID, node.NodeID).Return(nil).Once()

	err := suite.service.DeleteNode(ctx, suite.companyID, node.NodeID, suite.userID)

	suite.Require().NoError(err)
	suite.mockRepo.AssertExpectations(suite.T())
}

func TestHierarchyServiceTestSuite(t *testing.T) {
	suite.Run(t, new(HierarchyServiceTestSuite))
}
