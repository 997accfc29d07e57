package handlers_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/finhealth/savings_app/internal/apperrors"
	"github.com/finhealth/savings_app/internal/core/domain"
	portssvc "github.com/finhealth/savings_app/internal/core/ports/services"
	"github.com/finhealth/savings_app/internal/dto"
	"github.com/finhealth/savings_app/internal/handlers"
	"github.com/finhealth/savings_app/internal/middleware"
)

// --- Mock LedgerService ---
type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) Deposit(ctx context.Context, ownerUserID string, amount decimal.Decimal) (*domain.LedgerEntry, error) {
	args := m.Called(ctx, ownerUserID, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerEntry), args.Error(1)
}

func (m *MockLedgerService) Withdraw(ctx context.Context, ownerUserID string, amount decimal.Decimal) (*domain.LedgerEntry, error) {
	args := m.Called(ctx, ownerUserID, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerEntry), args.Error(1)
}

func (m *MockLedgerService) RecordIncome(ctx context.Context, ownerUserID string, amount decimal.Decimal) (*domain.LedgerEntry, error) {
	args := m.Called(ctx, ownerUserID, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerEntry), args.Error(1)
}

func (m *MockLedgerService) RecordExpense(ctx context.Context, ownerUserID string, amount decimal.Decimal) (*domain.LedgerEntry, error) {
	args := m.Called(ctx, ownerUserID, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerEntry), args.Error(1)
}

func (m *MockLedgerService) GetBalance(ctx context.Context, ownerUserID string) (decimal.Decimal, error) {
	args := m.Called(ctx, ownerUserID)
	if args.Get(0) == nil {
		return decimal.Decimal{}, args.Error(1)
	}
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockLedgerService) ListEntries(ctx context.Context, ownerUserID string, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error) {
	args := m.Called(ctx, ownerUserID, limit, nextToken)
	var entries []domain.LedgerEntry
	if args.Get(0) != nil {
		entries = args.Get(0).([]domain.LedgerEntry)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return entries, token, args.Error(2)
}

// Ensure mock implements the interface
var _ portssvc.LedgerSvcFacade = (*MockLedgerService)(nil)

// --- Test Suite ---
type LedgerHandlerTestSuite struct {
	suite.Suite
	router            *gin.Engine
	mockLedgerService *MockLedgerService
	jwtSecret         string
	userID            string
}

// generateTestToken creates a dummy JWT for testing.
func (suite *LedgerHandlerTestSuite) generateTestToken(userID string) string {
	claims := jwt.RegisteredClaims{
		Issuer:    "savings-test",
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(suite.jwtSecret))
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return signed
}

func (suite *LedgerHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	handlers.RegisterCustomValidators()
	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"
	suite.userID = "user-1"

	suite.router.Use(middleware.AuthMiddleware(suite.jwtSecret))

	suite.mockLedgerService = new(MockLedgerService)

	v1 := suite.router.Group("/api/v1")
	handlers.RegisterLedgerRoutes(v1, suite.mockLedgerService)
}

// performRequest runs an authenticated request against the test router.
func (suite *LedgerHandlerTestSuite) performRequest(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(suite.userID))

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *LedgerHandlerTestSuite) sampleEntry(kind domain.EntryKind, amount, balanceAfter string) *domain.LedgerEntry {
	return &domain.LedgerEntry{
		EntryID:      7,
		AccountID:    "acct-1",
		Kind:         kind,
		Amount:       decimal.RequireFromString(amount),
		BalanceAfter: decimal.RequireFromString(balanceAfter),
		CreatedAt:    time.Now().UTC(),
		CreatedBy:    suite.userID,
	}
}

func (suite *LedgerHandlerTestSuite) TestDepositSuccess() {
	entry := suite.sampleEntry(domain.EntryDeposit, "100.50", "100.50")
	suite.mockLedgerService.On("Deposit", mock.Anything, suite.userID, mock.MatchedBy(func(d decimal.Decimal) bool {
		return d.Equal(decimal.RequireFromString("100.50"))
	})).Return(entry, nil).Once()

	w := suite.performRequest(http.MethodPost, "/api/v1/ledger/deposit", `{"amount": "100.50"}`)

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.EntryResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(int64(7), resp.EntryID)
	suite.Equal(domain.EntryDeposit, resp.Kind)
	suite.True(resp.BalanceAfter.Equal(decimal.RequireFromString("100.50")))
	suite.mockLedgerService.AssertExpectations(suite.T())
}

func (suite *LedgerHandlerTestSuite) TestDepositRejectsBadPayload() {
	cases := []string{
		`{"amount": "-5"}`,
		`{"amount": "0"}`,
		`{}`,
		`not json`,
	}
	for _, body := range cases {
		w := suite.performRequest(http.MethodPost, "/api/v1/ledger/deposit", body)
		suite.Equal(http.StatusBadRequest, w.Code, "payload: %s", body)
	}
	suite.mockLedgerService.AssertNotCalled(suite.T(), "Deposit")
}

func (suite *LedgerHandlerTestSuite) TestDepositRequiresAuth() {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/ledger/deposit", strings.NewReader(`{"amount": "10"}`))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *LedgerHandlerTestSuite) TestWithdrawInsufficientFunds() {
	suite.mockLedgerService.On("Withdraw", mock.Anything, suite.userID, mock.AnythingOfType("decimal.Decimal")).
		Return(nil, fmt.Errorf("balance 50, requested 60: %w", apperrors.ErrInsufficientFunds)).Once()

	w := suite.performRequest(http.MethodPost, "/api/v1/ledger/withdraw", `{"amount": "60"}`)

	suite.Equal(http.StatusPaymentRequired, w.Code)
	suite.mockLedgerService.AssertExpectations(suite.T())
}

func (suite *LedgerHandlerTestSuite) TestWithdrawMissingAccount() {
	suite.mockLedgerService.On("Withdraw", mock.Anything, suite.userID, mock.AnythingOfType("decimal.Decimal")).
		Return(nil, apperrors.ErrNotFound).Once()

	w := suite.performRequest(http.MethodPost, "/api/v1/ledger/withdraw", `{"amount": "60"}`)

	suite.Equal(http.StatusNotFound, w.Code)
	suite.mockLedgerService.AssertExpectations(suite.T())
}

func (suite *LedgerHandlerTestSuite) TestWithdrawContention() {
	suite.mockLedgerService.On("Withdraw", mock.Anything, suite.userID, mock.AnythingOfType("decimal.Decimal")).
		Return(nil, apperrors.ErrContention).Once()

	w := suite.performRequest(http.MethodPost, "/api/v1/ledger/withdraw", `{"amount": "60"}`)

	suite.Equal(http.StatusConflict, w.Code)
	suite.mockLedgerService.AssertExpectations(suite.T())
}

func (suite *LedgerHandlerTestSuite) TestWithdrawStorageUnavailable() {
	suite.mockLedgerService.On("Withdraw", mock.Anything, suite.userID, mock.AnythingOfType("decimal.Decimal")).
		Return(nil, apperrors.ErrStorageUnavailable).Once()

	w := suite.performRequest(http.MethodPost, "/api/v1/ledger/withdraw", `{"amount": "60"}`)

	suite.Equal(http.StatusServiceUnavailable, w.Code)
	suite.mockLedgerService.AssertExpectations(suite.T())
}

func (suite *LedgerHandlerTestSuite) TestRecordIncomeSuccess() {
	entry := suite.sampleEntry(domain.EntryIncome, "3000", "100.50")
	suite.mockLedgerService.On("RecordIncome", mock.Anything, suite.userID, mock.AnythingOfType("decimal.Decimal")).
		Return(entry, nil).Once()

	w := suite.performRequest(http.MethodPost, "/api/v1/ledger/income", `{"amount": "3000"}`)

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.EntryResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(domain.EntryIncome, resp.Kind)
	// Informational entries leave the balance alone.
	suite.True(resp.BalanceAfter.Equal(decimal.RequireFromString("100.50")))
	suite.mockLedgerService.AssertExpectations(suite.T())
}

func (suite *LedgerHandlerTestSuite) TestGetBalance() {
	suite.mockLedgerService.On("GetBalance", mock.Anything, suite.userID).
		Return(decimal.RequireFromString("59.75"), nil).Once()

	w := suite.performRequest(http.MethodGet, "/api/v1/ledger/balance", "")

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.BalanceResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.True(resp.Balance.Equal(decimal.RequireFromString("59.75")))
	suite.mockLedgerService.AssertExpectations(suite.T())
}

func (suite *LedgerHandlerTestSuite) TestListEntries() {
	entries := []domain.LedgerEntry{*suite.sampleEntry(domain.EntryDeposit, "100.50", "100.50")}
	next := "cursor-abc"
	suite.mockLedgerService.On("ListEntries", mock.Anything, suite.userID, 2, (*string)(nil)).
		Return(entries, &next, nil).Once()

	w := suite.performRequest(http.MethodGet, "/api/v1/ledger/entries?limit=2", "")

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.ListEntriesResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Require().Len(resp.Entries, 1)
	suite.Require().NotNil(resp.NextToken)
	suite.Equal("cursor-abc", *resp.NextToken)
	suite.mockLedgerService.AssertExpectations(suite.T())
}

func (suite *LedgerHandlerTestSuite) TestListEntriesRejectsOversizedLimit() {
	w := suite.performRequest(http.MethodGet, "/api/v1/ledger/entries?limit=500", "")
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockLedgerService.AssertNotCalled(suite.T(), "ListEntries")
}

func TestLedgerHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(LedgerHandlerTestSuite))
}
