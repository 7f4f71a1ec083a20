// Package mocks provides hand-rolled test doubles for the usecase
// interfaces. Defaults are backed by an in-memory store whose transactions
// serialize on a single mutex, which is enough to exercise the engine's
// locking discipline under the race detector.
package mocks

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/bankcore/internal/domain"
	"github.com/iho/bankcore/internal/usecase"
)

// Snapshotter lets a store participate in mock transaction rollback.
type Snapshotter interface {
	Snapshot() any
	Restore(snapshot any)
}

// MockTransaction is a transaction handle tied to the manager's lock.
// Rollback restores attached stores to their state at Begin.
type MockTransaction struct {
	mgr   *MockTransactionManager
	snaps []any
	done  bool

	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error
}

func (t *MockTransaction) Commit(ctx context.Context) error {
	if t.CommitFunc != nil {
		return t.CommitFunc(ctx)
	}
	t.release(false)
	return nil
}

func (t *MockTransaction) Rollback(ctx context.Context) error {
	if t.RollbackFunc != nil {
		return t.RollbackFunc(ctx)
	}
	t.release(true)
	return nil
}

func (t *MockTransaction) release(restore bool) {
	if t.mgr == nil || t.done {
		return
	}
	t.done = true
	if restore {
		for i, store := range t.mgr.stores {
			store.Restore(t.snaps[i])
		}
	}
	t.mgr.mu.Unlock()
}

// MockTransactionManager serializes transactions on one mutex, standing in
// for the database's row locks.
type MockTransactionManager struct {
	mu     sync.Mutex
	stores []Snapshotter

	BeginFunc func(ctx context.Context) (usecase.Transaction, error)
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

// Attach enrolls a store in rollback. Only writes made between Begin and
// Commit are covered; attach before starting any transactions.
func (m *MockTransactionManager) Attach(stores ...Snapshotter) {
	m.stores = append(m.stores, stores...)
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	m.mu.Lock()
	tx := &MockTransaction{mgr: m, snaps: make([]any, len(m.stores))}
	for i, store := range m.stores {
		tx.snaps[i] = store.Snapshot()
	}
	return tx, nil
}

// MockAccountRepository is a mock implementation of AccountRepository.
type MockAccountRepository struct {
	mu       sync.RWMutex
	accounts map[string]*domain.Account

	CreateFunc            func(ctx context.Context, account *domain.Account) error
	GetByIDFunc           func(ctx context.Context, id string) (*domain.Account, error)
	GetByNumberFunc       func(ctx context.Context, number string) (*domain.Account, error)
	GetByIDForUpdateFunc  func(ctx context.Context, tx usecase.Transaction, id string) (*domain.Account, error)
	GetByIDsForUpdateFunc func(ctx context.Context, tx usecase.Transaction, ids []string) ([]*domain.Account, error)
	UpdateBalanceFunc     func(ctx context.Context, tx usecase.Transaction, id string, balance decimal.Decimal, expectedVersion int64, updatedAt time.Time) error
	ListFunc              func(ctx context.Context, limit, offset int) ([]*domain.Account, error)
}

func NewMockAccountRepository() *MockAccountRepository {
	return &MockAccountRepository{accounts: make(map[string]*domain.Account)}
}

// Seed installs an account directly into the backing map.
func (m *MockAccountRepository) Seed(account *domain.Account) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[account.ID] = account
}

// Balance returns the current balance of a seeded account.
func (m *MockAccountRepository) Balance(id string) decimal.Decimal {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if acc, ok := m.accounts[id]; ok {
		return acc.Balance
	}
	return decimal.Zero
}

func (m *MockAccountRepository) Create(ctx context.Context, account *domain.Account) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, account)
	}
	m.Seed(account)
	return nil
}

func (m *MockAccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if acc, ok := m.accounts[id]; ok {
		cp := *acc
		return &cp, nil
	}
	return nil, domain.ErrAccountNotFound
}

func (m *MockAccountRepository) GetByNumber(ctx context.Context, number string) (*domain.Account, error) {
	if m.GetByNumberFunc != nil {
		return m.GetByNumberFunc(ctx, number)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, acc := range m.accounts {
		if acc.Number == number {
			cp := *acc
			return &cp, nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

func (m *MockAccountRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Account, error) {
	if m.GetByIDForUpdateFunc != nil {
		return m.GetByIDForUpdateFunc(ctx, tx, id)
	}
	return m.GetByID(ctx, id)
}

func (m *MockAccountRepository) GetByIDsForUpdate(ctx context.Context, tx usecase.Transaction, ids []string) ([]*domain.Account, error) {
	if m.GetByIDsForUpdateFunc != nil {
		return m.GetByIDsForUpdateFunc(ctx, tx, ids)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	accounts := make([]*domain.Account, 0, len(ids))
	for _, id := range ids {
		if acc, ok := m.accounts[id]; ok {
			cp := *acc
			accounts = append(accounts, &cp)
		}
	}
	return accounts, nil
}

func (m *MockAccountRepository) UpdateBalance(ctx context.Context, tx usecase.Transaction, id string, balance decimal.Decimal, expectedVersion int64, updatedAt time.Time) error {
	if m.UpdateBalanceFunc != nil {
		return m.UpdateBalanceFunc(ctx, tx, id, balance, expectedVersion, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	acc, ok := m.accounts[id]
	if !ok {
		return domain.ErrAccountNotFound
	}
	if acc.Version != expectedVersion {
		return domain.ErrVersionConflict
	}
	acc.Balance = balance
	acc.Version++
	acc.UpdatedAt = updatedAt
	return nil
}

// Snapshot copies the backing map for transaction rollback.
func (m *MockAccountRepository) Snapshot() any {
	m.mu.RLock()
	defer m.mu.RUnlock()
	snap := make(map[string]*domain.Account, len(m.accounts))
	for id, acc := range m.accounts {
		cp := *acc
		snap[id] = &cp
	}
	return snap
}

// Restore replaces the backing map with an earlier snapshot.
func (m *MockAccountRepository) Restore(snapshot any) {
	snap, ok := snapshot.(map[string]*domain.Account)
	if !ok {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts = snap
}

func (m *MockAccountRepository) List(ctx context.Context, limit, offset int) ([]*domain.Account, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	accounts := make([]*domain.Account, 0, len(m.accounts))
	for _, acc := range m.accounts {
		cp := *acc
		accounts = append(accounts, &cp)
	}
	return accounts, nil
}

// MockCardRepository is a mock implementation of CardRepository.
type MockCardRepository struct {
	mu    sync.RWMutex
	cards map[string]*domain.Card

	GetByIDFunc          func(ctx context.Context, id string) (*domain.Card, error)
	GetByIDForUpdateFunc func(ctx context.Context, tx usecase.Transaction, id string) (*domain.Card, error)
	UpdateLimitsFunc     func(ctx context.Context, id string, daily, monthly decimal.Decimal, updatedAt time.Time) (*domain.Card, error)
}

func NewMockCardRepository() *MockCardRepository {
	return &MockCardRepository{cards: make(map[string]*domain.Card)}
}

func (m *MockCardRepository) Seed(card *domain.Card) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cards[card.ID] = card
}

func (m *MockCardRepository) Create(ctx context.Context, card *domain.Card) error {
	m.Seed(card)
	return nil
}

func (m *MockCardRepository) GetByID(ctx context.Context, id string) (*domain.Card, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if card, ok := m.cards[id]; ok {
		cp := *card
		return &cp, nil
	}
	return nil, domain.ErrCardNotFound
}

func (m *MockCardRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Card, error) {
	if m.GetByIDForUpdateFunc != nil {
		return m.GetByIDForUpdateFunc(ctx, tx, id)
	}
	return m.GetByID(ctx, id)
}

func (m *MockCardRepository) UpdateLimits(ctx context.Context, id string, daily, monthly decimal.Decimal, updatedAt time.Time) (*domain.Card, error) {
	if m.UpdateLimitsFunc != nil {
		return m.UpdateLimitsFunc(ctx, id, daily, monthly, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	card, ok := m.cards[id]
	if !ok {
		return nil, domain.ErrCardNotFound
	}
	card.DailyLimit = daily
	card.SpendingLimit = monthly
	card.UpdatedAt = updatedAt
	cp := *card
	return &cp, nil
}

// MockTransactionRepository is a mock implementation of
// TransactionRepository.
type MockTransactionRepository struct {
	mu   sync.RWMutex
	txns map[string]*domain.Transaction

	CreateFunc       func(ctx context.Context, txn *domain.Transaction) error
	UpdateStatusFunc func(ctx context.Context, tx usecase.Transaction, id string, status domain.TransactionStatus, committedAt *time.Time) error
}

func NewMockTransactionRepository() *MockTransactionRepository {
	return &MockTransactionRepository{txns: make(map[string]*domain.Transaction)}
}

// Status returns the recorded status of a transaction.
func (m *MockTransactionRepository) Status(id string) (domain.TransactionStatus, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if txn, ok := m.txns[id]; ok {
		return txn.Status, true
	}
	return "", false
}

func (m *MockTransactionRepository) Create(ctx context.Context, txn *domain.Transaction) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, txn)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *txn
	m.txns[txn.ID] = &cp
	return nil
}

func (m *MockTransactionRepository) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if txn, ok := m.txns[id]; ok {
		cp := *txn
		return &cp, nil
	}
	return nil, domain.ErrTransactionNotFound
}

func (m *MockTransactionRepository) UpdateStatus(ctx context.Context, tx usecase.Transaction, id string, status domain.TransactionStatus, committedAt *time.Time) error {
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(ctx, tx, id, status, committedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	txn, ok := m.txns[id]
	if !ok {
		return domain.ErrTransactionNotFound
	}
	txn.Status = status
	txn.CommittedAt = committedAt
	return nil
}

func (m *MockTransactionRepository) MarkFailed(ctx context.Context, id string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	txn, ok := m.txns[id]
	if !ok {
		return domain.ErrTransactionNotFound
	}
	if txn.Status == domain.TransactionStatusPending {
		txn.Status = domain.TransactionStatusFailed
	}
	return nil
}

func (m *MockTransactionRepository) FailStalePending(ctx context.Context, olderThan time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, txn := range m.txns {
		if txn.Status == domain.TransactionStatusPending && txn.CreatedAt.Before(olderThan) {
			txn.Status = domain.TransactionStatusFailed
			n++
		}
	}
	return n, nil
}

func (m *MockTransactionRepository) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Transaction
	for _, txn := range m.txns {
		if (txn.SourceAccountID != nil && *txn.SourceAccountID == accountID) ||
			(txn.DestinationAccountID != nil && *txn.DestinationAccountID == accountID) {
			cp := *txn
			out = append(out, &cp)
		}
	}
	return out, nil
}

// MockPostingRepository is a mock implementation of PostingRepository.
type MockPostingRepository struct {
	mu       sync.RWMutex
	postings []*domain.Posting

	CreateFunc func(ctx context.Context, tx usecase.Transaction, posting *domain.Posting) error
}

func NewMockPostingRepository() *MockPostingRepository {
	return &MockPostingRepository{}
}

func (m *MockPostingRepository) Create(ctx context.Context, tx usecase.Transaction, posting *domain.Posting) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, posting)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *posting
	m.postings = append(m.postings, &cp)
	return nil
}

func (m *MockPostingRepository) ListByTransaction(ctx context.Context, transactionID string) ([]*domain.Posting, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Posting
	for _, p := range m.postings {
		if p.TransactionID == transactionID {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *MockPostingRepository) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Posting, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Posting
	for _, p := range m.postings {
		if p.AccountID == accountID {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

// Sum returns the sum of all recorded posting amounts.
func (m *MockPostingRepository) Sum() decimal.Decimal {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sum := decimal.Zero
	for _, p := range m.postings {
		sum = sum.Add(p.Amount)
	}
	return sum
}

// MockReservationRepository is a mock implementation of
// ReservationRepository.
type MockReservationRepository struct {
	mu           sync.RWMutex
	reservations map[string]*domain.Reservation

	WindowSpendFunc func(ctx context.Context, tx usecase.Transaction, cardID string, since, now time.Time) (decimal.Decimal, error)
}

func NewMockReservationRepository() *MockReservationRepository {
	return &MockReservationRepository{reservations: make(map[string]*domain.Reservation)}
}

func (m *MockReservationRepository) Create(ctx context.Context, tx usecase.Transaction, r *domain.Reservation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *r
	m.reservations[r.ID] = &cp
	return nil
}

func (m *MockReservationRepository) GetByID(ctx context.Context, id string) (*domain.Reservation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if r, ok := m.reservations[id]; ok {
		cp := *r
		return &cp, nil
	}
	return nil, domain.ErrReservationNotFound
}

func (m *MockReservationRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Reservation, error) {
	return m.GetByID(ctx, id)
}

func (m *MockReservationRepository) UpdateStatus(ctx context.Context, tx usecase.Transaction, id string, status domain.ReservationStatus, transactionID *string, updatedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.reservations[id]
	if !ok {
		return domain.ErrReservationNotFound
	}
	r.Status = status
	r.TransactionID = transactionID
	r.UpdatedAt = updatedAt
	return nil
}

// WindowSpend sums committed reservations inside the window plus active
// unexpired reservations, mirroring the SQL implementation.
func (m *MockReservationRepository) WindowSpend(ctx context.Context, tx usecase.Transaction, cardID string, since, now time.Time) (decimal.Decimal, error) {
	if m.WindowSpendFunc != nil {
		return m.WindowSpendFunc(ctx, tx, cardID, since, now)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	sum := decimal.Zero
	for _, r := range m.reservations {
		if r.CardID != cardID {
			continue
		}
		switch r.Status {
		case domain.ReservationStatusCommitted:
			if !r.CreatedAt.Before(since) {
				sum = sum.Add(r.Amount)
			}
		case domain.ReservationStatusActive:
			if !r.Expired(now) {
				sum = sum.Add(r.Amount)
			}
		}
	}
	return sum, nil
}

func (m *MockReservationRepository) ReleaseExpired(ctx context.Context, now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, r := range m.reservations {
		if r.Status == domain.ReservationStatusActive && r.Expired(now) {
			r.Status = domain.ReservationStatusReleased
			n++
		}
	}
	return n, nil
}

// MockChallengeRepository is a mock implementation of ChallengeRepository.
type MockChallengeRepository struct {
	mu         sync.RWMutex
	challenges map[string]*domain.Challenge
}

func NewMockChallengeRepository() *MockChallengeRepository {
	return &MockChallengeRepository{challenges: make(map[string]*domain.Challenge)}
}

func (m *MockChallengeRepository) Create(ctx context.Context, challenge *domain.Challenge) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *challenge
	m.challenges[challenge.ID] = &cp
	return nil
}

func (m *MockChallengeRepository) GetByID(ctx context.Context, id string) (*domain.Challenge, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if c, ok := m.challenges[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, domain.ErrChallengeNotFound
}

func (m *MockChallengeRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Challenge, error) {
	return m.GetByID(ctx, id)
}

func (m *MockChallengeRepository) Update(ctx context.Context, tx usecase.Transaction, id string, status domain.ChallengeStatus, attempts int, updatedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.challenges[id]
	if !ok {
		return domain.ErrChallengeNotFound
	}
	c.Status = status
	c.Attempts = attempts
	c.UpdatedAt = updatedAt
	return nil
}

func (m *MockChallengeRepository) DeleteFinished(ctx context.Context, before time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, c := range m.challenges {
		finished := c.Status == domain.ChallengeStatusConsumed ||
			c.Status == domain.ChallengeStatusExpired ||
			c.Status == domain.ChallengeStatusFailed
		if finished && c.UpdatedAt.Before(before) {
			delete(m.challenges, id)
			n++
		}
	}
	return n, nil
}

// MockOutboxRepository is a mock implementation of OutboxRepository.
type MockOutboxRepository struct {
	mu     sync.RWMutex
	events []*domain.OutboxEvent
}

func NewMockOutboxRepository() *MockOutboxRepository {
	return &MockOutboxRepository{}
}

func (m *MockOutboxRepository) Create(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *event
	m.events = append(m.events, &cp)
	return nil
}

func (m *MockOutboxRepository) GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.OutboxEvent
	for _, e := range m.events {
		if !e.Published {
			cp := *e
			out = append(out, &cp)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (m *MockOutboxRepository) MarkPublished(ctx context.Context, id string, publishedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.events {
		if e.ID == id {
			e.Published = true
			e.PublishedAt = &publishedAt
			return nil
		}
	}
	return errors.New("event not found")
}

func (m *MockOutboxRepository) DeletePublished(ctx context.Context, before time.Time) error {
	return nil
}

// Count returns the number of recorded events.
func (m *MockOutboxRepository) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.events)
}

// MockAuditRepository is a mock implementation of AuditRepository.
type MockAuditRepository struct {
	mu   sync.RWMutex
	logs []*domain.AuditLog
}

func NewMockAuditRepository() *MockAuditRepository {
	return &MockAuditRepository{}
}

func (m *MockAuditRepository) Create(ctx context.Context, log *domain.AuditLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logs = append(m.logs, log)
	return nil
}

func (m *MockAuditRepository) CreateTx(ctx context.Context, tx usecase.Transaction, log *domain.AuditLog) error {
	return m.Create(ctx, log)
}

func (m *MockAuditRepository) List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]*domain.AuditLog(nil), m.logs...), nil
}

// MockLedgerRepository is a mock implementation of LedgerRepository.
type MockLedgerRepository struct {
	PostingSumFunc func(ctx context.Context) (decimal.Decimal, error)
}

func (m *MockLedgerRepository) PostingSum(ctx context.Context) (decimal.Decimal, error) {
	if m.PostingSumFunc != nil {
		return m.PostingSumFunc(ctx)
	}
	return decimal.Zero, nil
}

// MockIDGenerator generates sequential test IDs.
type MockIDGenerator struct {
	mu      sync.Mutex
	counter int
	prefix  string

	GenerateFunc func() string
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{prefix: "id-"}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	return m.prefix + pad(m.counter)
}

func pad(n int) string {
	const digits = "0123456789"
	buf := [8]byte{'0', '0', '0', '0', '0', '0', '0', '0'}
	for i := 7; i >= 0 && n > 0; i-- {
		buf[i] = digits[n%10]
		n /= 10
	}
	return string(buf[:])
}

// MockRetrier retries version conflicts until they resolve, like the real
// retrier does for serialization failures.
type MockRetrier struct {
	MaxAttempts int
}

func (m *MockRetrier) Retry(ctx context.Context, operation func() error) error {
	attempts := m.MaxAttempts
	if attempts <= 0 {
		attempts = 100
	}

	var err error
	for i := 0; i < attempts; i++ {
		err = operation()
		if err == nil || !errors.Is(err, domain.ErrVersionConflict) {
			return err
		}
	}
	return err
}

// MockIdempotencyStore is an in-memory IdempotencyStore.
type MockIdempotencyStore struct {
	mu      sync.Mutex
	records map[string]*usecase.IdempotencyRecord
}

func NewMockIdempotencyStore() *MockIdempotencyStore {
	return &MockIdempotencyStore{records: make(map[string]*usecase.IdempotencyRecord)}
}

func (m *MockIdempotencyStore) Begin(ctx context.Context, key, payloadHash string, ttl time.Duration) (bool, *usecase.IdempotencyRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if rec, ok := m.records[key]; ok {
		cp := *rec
		return true, &cp, nil
	}
	m.records[key] = &usecase.IdempotencyRecord{PayloadHash: payloadHash, InFlight: true}
	return false, nil, nil
}

func (m *MockIdempotencyStore) Finish(ctx context.Context, key string, record *usecase.IdempotencyRecord, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *record
	m.records[key] = &cp
	return nil
}

func (m *MockIdempotencyStore) Abandon(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.records, key)
	return nil
}

// MockCache is an in-memory Cache.
type MockCache struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMockCache() *MockCache {
	return &MockCache{values: make(map[string]string)}
}

func (m *MockCache) Get(ctx context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if v, ok := m.values[key]; ok {
		return v, nil
	}
	return "", errors.New("cache miss")
}

func (m *MockCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

// MockCodeDeliverer captures delivered codes.
type MockCodeDeliverer struct {
	mu    sync.Mutex
	Codes []string

	DeliverFunc func(ctx context.Context, code, destination string) error
}

func (m *MockCodeDeliverer) Deliver(ctx context.Context, code, destination string) error {
	if m.DeliverFunc != nil {
		return m.DeliverFunc(ctx, code, destination)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Codes = append(m.Codes, code)
	return nil
}

// LastCode returns the most recently delivered code.
func (m *MockCodeDeliverer) LastCode() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Codes) == 0 {
		return ""
	}
	return m.Codes[len(m.Codes)-1]
}

// MockIssueRateLimiter is a configurable IssueRateLimiter.
type MockIssueRateLimiter struct {
	AllowFunc func(ctx context.Context, subject string) (bool, error)
}

func (m *MockIssueRateLimiter) Allow(ctx context.Context, subject string) (bool, error) {
	if m.AllowFunc != nil {
		return m.AllowFunc(ctx, subject)
	}
	return true, nil
}
