package services_test

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/finhealth/savings_app/internal/apperrors"
	"github.com/finhealth/savings_app/internal/core/domain"
	portsrepo "github.com/finhealth/savings_app/internal/core/ports/repositories"
	portssvc "github.com/finhealth/savings_app/internal/core/ports/services"
	"github.com/finhealth/savings_app/internal/core/services"
	"github.com/finhealth/savings_app/internal/middleware"
)

// fakeLedgerStore is an in-memory LedgerRepository. Atomically holds a
// single mutex for the whole unit, which models row locking closely enough
// for the service-level concurrency tests: units on the same store serialize.
type fakeLedgerStore struct {
	mu       sync.Mutex
	accounts map[string]*domain.Account // keyed by owner user ID
	entries  []domain.LedgerEntry
	nextID   int64
}

func newFakeLedgerStore() *fakeLedgerStore {
	return &fakeLedgerStore{accounts: make(map[string]*domain.Account), nextID: 1}
}

func (f *fakeLedgerStore) Atomically(ctx context.Context, fn func(tx portsrepo.LedgerTx) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	// Snapshot for rollback on failure inside fn.
	savedAccounts := make(map[string]*domain.Account, len(f.accounts))
	for owner, acct := range f.accounts {
		copied := *acct
		savedAccounts[owner] = &copied
	}
	savedEntries := len(f.entries)
	savedNextID := f.nextID

	if err := fn(&fakeLedgerTx{store: f}); err != nil {
		f.accounts = savedAccounts
		f.entries = f.entries[:savedEntries]
		f.nextID = savedNextID
		return err
	}
	return nil
}

func (f *fakeLedgerStore) FindAccountByOwner(ctx context.Context, ownerUserID string) (*domain.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	acct, ok := f.accounts[ownerUserID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	copied := *acct
	return &copied, nil
}

func (f *fakeLedgerStore) ListEntries(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	before := int64(1<<62 - 1)
	if nextToken != nil {
		parsed, err := strconv.ParseInt(*nextToken, 10, 64)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid pagination token: %w", apperrors.ErrValidation)
		}
		before = parsed
	}

	var page []domain.LedgerEntry
	for i := len(f.entries) - 1; i >= 0 && len(page) < limit; i-- {
		e := f.entries[i]
		if e.AccountID == accountID && e.EntryID < before {
			page = append(page, e)
		}
	}
	var token *string
	if len(page) == limit {
		t := strconv.FormatInt(page[len(page)-1].EntryID, 10)
		token = &t
	}
	return page, token, nil
}

func (f *fakeLedgerStore) FindEntriesByAccount(ctx context.Context, accountID string) ([]domain.LedgerEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.LedgerEntry
	for _, e := range f.entries {
		if e.AccountID == accountID {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakeLedgerTx struct {
	store *fakeLedgerStore
}

func (t *fakeLedgerTx) GetOrCreateAccountForUpdate(ctx context.Context, ownerUserID, currencyCode, creatorUserID string, now time.Time) (*domain.Account, error) {
	if acct, ok := t.store.accounts[ownerUserID]; ok {
		copied := *acct
		return &copied, nil
	}
	acct := &domain.Account{
		AccountID:    uuid.NewString(),
		OwnerUserID:  ownerUserID,
		CurrencyCode: currencyCode,
		Balance:      decimal.Zero,
		Version:      1,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}
	t.store.accounts[ownerUserID] = acct
	copied := *acct
	return &copied, nil
}

func (t *fakeLedgerTx) FindAccountForUpdate(ctx context.Context, ownerUserID string) (*domain.Account, error) {
	acct, ok := t.store.accounts[ownerUserID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	copied := *acct
	return &copied, nil
}

func (t *fakeLedgerTx) UpdateAccountBalance(ctx context.Context, accountID string, newBalance decimal.Decimal, userID string, now time.Time) error {
	for _, acct := range t.store.accounts {
		if acct.AccountID == accountID {
			acct.Balance = newBalance
			acct.Version++
			acct.LastUpdatedAt = now
			acct.LastUpdatedBy = userID
			return nil
		}
	}
	return apperrors.ErrNotFound
}

func (t *fakeLedgerTx) AppendEntry(ctx context.Context, entry domain.LedgerEntry) (*domain.LedgerEntry, error) {
	entry.EntryID = t.store.nextID
	t.store.nextID++
	t.store.entries = append(t.store.entries, entry)
	copied := entry
	return &copied, nil
}

var _ portsrepo.LedgerRepository = (*fakeLedgerStore)(nil)
var _ portsrepo.LedgerTx = (*fakeLedgerTx)(nil)

// flakyLedgerRepo wraps a LedgerRepository and fails the first n Atomically
// calls with ErrContention before delegating.
type flakyLedgerRepo struct {
	inner    portsrepo.LedgerRepository
	failures int
	calls    int
}

func (r *flakyLedgerRepo) Atomically(ctx context.Context, fn func(tx portsrepo.LedgerTx) error) error {
	r.calls++
	if r.calls <= r.failures {
		return apperrors.ErrContention
	}
	return r.inner.Atomically(ctx, fn)
}

func (r *flakyLedgerRepo) FindAccountByOwner(ctx context.Context, ownerUserID string) (*domain.Account, error) {
	return r.inner.FindAccountByOwner(ctx, ownerUserID)
}

func (r *flakyLedgerRepo) ListEntries(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error) {
	return r.inner.ListEntries(ctx, accountID, limit, nextToken)
}

func (r *flakyLedgerRepo) FindEntriesByAccount(ctx context.Context, accountID string) ([]domain.LedgerEntry, error) {
	return r.inner.FindEntriesByAccount(ctx, accountID)
}

type LedgerServiceTestSuite struct {
	suite.Suite
	store *fakeLedgerStore
	svc   portssvc.LedgerSvcFacade
	ctx   context.Context
}

func (suite *LedgerServiceTestSuite) SetupTest() {
	suite.store = newFakeLedgerStore()
	suite.svc = services.NewLedgerService(suite.store, services.LedgerConfig{
		CurrencyCode: "USD",
		MaxTxnAmount: decimal.NewFromInt(1000000),
		MaxRetries:   3,
	})
	suite.ctx = context.Background()
}

func (suite *LedgerServiceTestSuite) TestDepositCreatesAccount() {
	entry, err := suite.svc.Deposit(suite.ctx, "owner-1", decimal.RequireFromString("100.50"))
	suite.Require().NoError(err)
	suite.Require().NotNil(entry)
	suite.Equal(domain.EntryDeposit, entry.Kind)
	suite.True(entry.Amount.Equal(decimal.RequireFromString("100.50")))
	suite.True(entry.BalanceAfter.Equal(decimal.RequireFromString("100.50")))
	suite.NotZero(entry.EntryID)

	balance, err := suite.svc.GetBalance(suite.ctx, "owner-1")
	suite.Require().NoError(err)
	suite.True(balance.Equal(decimal.RequireFromString("100.50")))

	acct := suite.store.accounts["owner-1"]
	suite.Require().NotNil(acct)
	suite.Equal("USD", acct.CurrencyCode)
	suite.Equal(int64(2), acct.Version) // 1 at creation, bumped by the balance write
}

func (suite *LedgerServiceTestSuite) TestWithdrawReducesBalance() {
	_, err := suite.svc.Deposit(suite.ctx, "owner-1", decimal.NewFromInt(100))
	suite.Require().NoError(err)

	entry, err := suite.svc.Withdraw(suite.ctx, "owner-1", decimal.RequireFromString("40.25"))
	suite.Require().NoError(err)
	suite.Equal(domain.EntryWithdrawal, entry.Kind)
	suite.True(entry.BalanceAfter.Equal(decimal.RequireFromString("59.75")))

	balance, err := suite.svc.GetBalance(suite.ctx, "owner-1")
	suite.Require().NoError(err)
	suite.True(balance.Equal(decimal.RequireFromString("59.75")))
}

func (suite *LedgerServiceTestSuite) TestWithdrawToExactlyZero() {
	_, err := suite.svc.Deposit(suite.ctx, "owner-1", decimal.NewFromInt(100))
	suite.Require().NoError(err)

	entry, err := suite.svc.Withdraw(suite.ctx, "owner-1", decimal.NewFromInt(100))
	suite.Require().NoError(err)
	suite.True(entry.BalanceAfter.IsZero())
}

func (suite *LedgerServiceTestSuite) TestWithdrawInsufficientFunds() {
	_, err := suite.svc.Deposit(suite.ctx, "owner-1", decimal.NewFromInt(50))
	suite.Require().NoError(err)

	_, err = suite.svc.Withdraw(suite.ctx, "owner-1", decimal.RequireFromString("50.01"))
	suite.Require().ErrorIs(err, apperrors.ErrInsufficientFunds)

	// The failed attempt left no trace: balance unchanged, no entry appended.
	balance, err := suite.svc.GetBalance(suite.ctx, "owner-1")
	suite.Require().NoError(err)
	suite.True(balance.Equal(decimal.NewFromInt(50)))
	suite.Len(suite.store.entries, 1)
}

func (suite *LedgerServiceTestSuite) TestWithdrawFromMissingAccount() {
	_, err := suite.svc.Withdraw(suite.ctx, "nobody", decimal.NewFromInt(10))
	suite.Require().ErrorIs(err, apperrors.ErrNotFound)
	suite.Empty(suite.store.accounts)
}

func (suite *LedgerServiceTestSuite) TestInvalidAmounts() {
	cases := []struct {
		name   string
		amount decimal.Decimal
	}{
		{"zero", decimal.Zero},
		{"negative", decimal.NewFromInt(-5)},
		{"three decimal places", decimal.RequireFromString("1.005")},
		{"over the cap", decimal.RequireFromString("1000000.01")},
	}
	for _, tc := range cases {
		suite.Run(tc.name, func() {
			_, err := suite.svc.Deposit(suite.ctx, "owner-1", tc.amount)
			suite.Require().ErrorIs(err, apperrors.ErrInvalidAmount)
		})
	}
	suite.Empty(suite.store.entries)
}

func (suite *LedgerServiceTestSuite) TestMissingOwner() {
	_, err := suite.svc.Deposit(suite.ctx, "", decimal.NewFromInt(10))
	suite.Require().ErrorIs(err, apperrors.ErrValidation)
}

func (suite *LedgerServiceTestSuite) TestIncomeAndExpenseDoNotMoveMoney() {
	_, err := suite.svc.Deposit(suite.ctx, "owner-1", decimal.NewFromInt(100))
	suite.Require().NoError(err)

	income, err := suite.svc.RecordIncome(suite.ctx, "owner-1", decimal.NewFromInt(2500))
	suite.Require().NoError(err)
	suite.Equal(domain.EntryIncome, income.Kind)
	suite.True(income.BalanceAfter.Equal(decimal.NewFromInt(100)))

	expense, err := suite.svc.RecordExpense(suite.ctx, "owner-1", decimal.RequireFromString("42.99"))
	suite.Require().NoError(err)
	suite.Equal(domain.EntryExpense, expense.Kind)
	suite.True(expense.BalanceAfter.Equal(decimal.NewFromInt(100)))

	balance, err := suite.svc.GetBalance(suite.ctx, "owner-1")
	suite.Require().NoError(err)
	suite.True(balance.Equal(decimal.NewFromInt(100)))
	suite.Len(suite.store.entries, 3)
}

func (suite *LedgerServiceTestSuite) TestIncomeCreatesAccountLazily() {
	_, err := suite.svc.RecordIncome(suite.ctx, "owner-1", decimal.NewFromInt(500))
	suite.Require().NoError(err)

	balance, err := suite.svc.GetBalance(suite.ctx, "owner-1")
	suite.Require().NoError(err)
	suite.True(balance.IsZero())
}

func (suite *LedgerServiceTestSuite) TestGetBalanceMissingAccount() {
	_, err := suite.svc.GetBalance(suite.ctx, "nobody")
	suite.Require().ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *LedgerServiceTestSuite) TestConcurrentWithdrawalsNeverOverdraw() {
	_, err := suite.svc.Deposit(suite.ctx, "owner-1", decimal.NewFromInt(100))
	suite.Require().NoError(err)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = suite.svc.Withdraw(suite.ctx, "owner-1", decimal.NewFromInt(60))
		}(i)
	}
	wg.Wait()

	// Exactly one of the two withdrawals fits in the balance.
	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			suite.Require().ErrorIs(err, apperrors.ErrInsufficientFunds)
		}
	}
	suite.Equal(1, succeeded)

	balance, err := suite.svc.GetBalance(suite.ctx, "owner-1")
	suite.Require().NoError(err)
	suite.True(balance.Equal(decimal.NewFromInt(40)))
}

func (suite *LedgerServiceTestSuite) TestReplayMatchesBalance() {
	amounts := []string{"100.00", "25.50", "0.01", "9999.99"}
	for _, a := range amounts {
		_, err := suite.svc.Deposit(suite.ctx, "owner-1", decimal.RequireFromString(a))
		suite.Require().NoError(err)
	}
	_, err := suite.svc.Withdraw(suite.ctx, "owner-1", decimal.RequireFromString("125.49"))
	suite.Require().NoError(err)
	_, err = suite.svc.RecordIncome(suite.ctx, "owner-1", decimal.NewFromInt(3000))
	suite.Require().NoError(err)
	_, err = suite.svc.RecordExpense(suite.ctx, "owner-1", decimal.RequireFromString("19.99"))
	suite.Require().NoError(err)

	acct, err := suite.store.FindAccountByOwner(suite.ctx, "owner-1")
	suite.Require().NoError(err)
	entries, err := suite.store.FindEntriesByAccount(suite.ctx, acct.AccountID)
	suite.Require().NoError(err)

	suite.True(domain.ReplayBalance(entries).Equal(acct.Balance),
		"replayed balance %s should equal stored balance %s", domain.ReplayBalance(entries), acct.Balance)
}

func (suite *LedgerServiceTestSuite) TestContentionRetriedThenSucceeds() {
	flaky := &flakyLedgerRepo{inner: suite.store, failures: 2}
	svc := services.NewLedgerService(flaky, services.LedgerConfig{CurrencyCode: "USD", MaxRetries: 3})

	entry, err := svc.Deposit(suite.ctx, "owner-1", decimal.NewFromInt(10))
	suite.Require().NoError(err)
	suite.True(entry.BalanceAfter.Equal(decimal.NewFromInt(10)))
	suite.Equal(3, flaky.calls)
}

func (suite *LedgerServiceTestSuite) TestContentionExhaustsRetries() {
	flaky := &flakyLedgerRepo{inner: suite.store, failures: 100}
	svc := services.NewLedgerService(flaky, services.LedgerConfig{CurrencyCode: "USD", MaxRetries: 3})

	_, err := svc.Deposit(suite.ctx, "owner-1", decimal.NewFromInt(10))
	suite.Require().ErrorIs(err, apperrors.ErrContention)
	suite.Equal(3, flaky.calls)
}

// recordingLogHandler collects log records for assertions on log output.
type recordingLogHandler struct {
	mu      sync.Mutex
	records []slog.Record
}

func (h *recordingLogHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *recordingLogHandler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = append(h.records, r)
	return nil
}

func (h *recordingLogHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h *recordingLogHandler) WithGroup(string) slog.Handler      { return h }

func (h *recordingLogHandler) countMessage(msg string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := 0
	for _, r := range h.records {
		if r.Message == msg {
			n++
		}
	}
	return n
}

func (suite *LedgerServiceTestSuite) TestContentionLogsOneWarnPerRetry() {
	flaky := &flakyLedgerRepo{inner: suite.store, failures: 100}
	svc := services.NewLedgerService(flaky, services.LedgerConfig{CurrencyCode: "USD", MaxRetries: 3})

	rec := &recordingLogHandler{}
	ctx := middleware.WithLogger(context.Background(), slog.New(rec))

	_, err := svc.Deposit(ctx, "owner-1", decimal.NewFromInt(10))
	suite.Require().ErrorIs(err, apperrors.ErrContention)

	// Three attempts mean two retries: the final failure is surfaced to the
	// caller, not logged as a retry.
	suite.Equal(2, rec.countMessage("Ledger operation lost a lock conflict, retrying"))
}

func (suite *LedgerServiceTestSuite) TestListEntriesPagination() {
	for i := 1; i <= 5; i++ {
		_, err := suite.svc.Deposit(suite.ctx, "owner-1", decimal.NewFromInt(int64(i)))
		suite.Require().NoError(err)
	}

	page1, token, err := suite.svc.ListEntries(suite.ctx, "owner-1", 2, nil)
	suite.Require().NoError(err)
	suite.Require().Len(page1, 2)
	suite.Require().NotNil(token)
	// Newest first.
	suite.True(page1[0].Amount.Equal(decimal.NewFromInt(5)))
	suite.True(page1[1].Amount.Equal(decimal.NewFromInt(4)))

	page2, token, err := suite.svc.ListEntries(suite.ctx, "owner-1", 2, token)
	suite.Require().NoError(err)
	suite.Require().Len(page2, 2)
	suite.True(page2[0].Amount.Equal(decimal.NewFromInt(3)))
	suite.Require().NotNil(token)

	page3, token, err := suite.svc.ListEntries(suite.ctx, "owner-1", 2, token)
	suite.Require().NoError(err)
	suite.Require().Len(page3, 1)
	suite.Nil(token)
}

func (suite *LedgerServiceTestSuite) TestListEntriesClampsLimit() {
	_, err := suite.svc.Deposit(suite.ctx, "owner-1", decimal.NewFromInt(1))
	suite.Require().NoError(err)

	// Non-positive and oversized limits are clamped, not rejected.
	entries, _, err := suite.svc.ListEntries(suite.ctx, "owner-1", 0, nil)
	suite.Require().NoError(err)
	suite.Len(entries, 1)

	entries, _, err = suite.svc.ListEntries(suite.ctx, "owner-1", 10000, nil)
	suite.Require().NoError(err)
	suite.Len(entries, 1)
}

func (suite *LedgerServiceTestSuite) TestListEntriesMissingAccount() {
	_, _, err := suite.svc.ListEntries(suite.ctx, "nobody", 10, nil)
	suite.Require().ErrorIs(err, apperrors.ErrNotFound)
}

func TestLedgerServiceTestSuite(t *testing.T) {
	suite.Run(t, new(LedgerServiceTestSuite))
}
