package service

import (
	"context"
	"time"

	"neurocoin/events"
	"neurocoin/models"

	"github.com/stretchr/testify/mock"
)

// MockBalanceRepository is a mock implementation of BalanceRepository
type MockBalanceRepository struct {
	mock.Mock
}

func (m *MockBalanceRepository) GetByUserID(ctx context.Context, userID int64) (*models.BalanceRecord, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BalanceRecord), args.Error(1)
}

func (m *MockBalanceRepository) GetOrCreate(ctx context.Context, userID int64, startingBalance int64) (*models.BalanceRecord, bool, error) {
	args := m.Called(ctx, userID, startingBalance)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*models.BalanceRecord), args.Bool(1), args.Error(2)
}

func (m *MockBalanceRepository) LockForUpdate(ctx context.Context, userIDs ...int64) error {
	callArgs := make([]interface{}, 0, len(userIDs)+1)
	callArgs = append(callArgs, ctx)
	for _, id := range userIDs {
		callArgs = append(callArgs, id)
	}
	args := m.Called(callArgs...)
	return args.Error(0)
}

func (m *MockBalanceRepository) Adjust(ctx context.Context, userID int64, walletDelta, bankDelta int64) (*models.BalanceRecord, error) {
	args := m.Called(ctx, userID, walletDelta, bankDelta)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BalanceRecord), args.Error(1)
}

func (m *MockBalanceRepository) GetTopByTotal(ctx context.Context, limit int) ([]*models.BalanceRecord, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.BalanceRecord), args.Error(1)
}

// MockListingRepository is a mock implementation of ListingRepository
type MockListingRepository struct {
	mock.Mock
}

func (m *MockListingRepository) Create(ctx context.Context, listing *models.Listing) error {
	args := m.Called(ctx, listing)
	return args.Error(0)
}

func (m *MockListingRepository) GetByID(ctx context.Context, id string) (*models.Listing, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Listing), args.Error(1)
}

func (m *MockListingRepository) GetByIDForUpdate(ctx context.Context, id string) (*models.Listing, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Listing), args.Error(1)
}

func (m *MockListingRepository) MarkSold(ctx context.Context, id string, buyerID int64) (bool, error) {
	args := m.Called(ctx, id, buyerID)
	return args.Bool(0), args.Error(1)
}

func (m *MockListingRepository) MarkCancelled(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockListingRepository) GetActive(ctx context.Context, limit int) ([]*models.Listing, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Listing), args.Error(1)
}

// MockAuditRepository is a mock implementation of AuditRepository
type MockAuditRepository struct {
	mock.Mock
}

func (m *MockAuditRepository) Record(ctx context.Context, entry *models.AuditEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockAuditRepository) Query(ctx context.Context, filter models.AuditFilter) (*models.AuditPage, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AuditPage), args.Error(1)
}

func (m *MockAuditRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

// MockSweepRunRepository is a mock implementation of SweepRunRepository
type MockSweepRunRepository struct {
	mock.Mock
}

func (m *MockSweepRunRepository) GetByDate(ctx context.Context, date time.Time) (*models.SweepRun, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SweepRun), args.Error(1)
}

func (m *MockSweepRunRepository) Create(ctx context.Context, run *models.SweepRun) error {
	args := m.Called(ctx, run)
	return args.Error(0)
}

func (m *MockSweepRunRepository) GetLatest(ctx context.Context) (*models.SweepRun, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SweepRun), args.Error(1)
}

// MockEventPublisher is a mock implementation of EventPublisher for testing
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(event events.Event) {
	m.Called(event)
}

// RecordingEventPublisher captures published events in order. Handy when a
// test cares about what was staged rather than setting per-event expectations.
type RecordingEventPublisher struct {
	Events []events.Event
}

func (p *RecordingEventPublisher) Publish(event events.Event) {
	p.Events = append(p.Events, event)
}

// MockUnitOfWork is a unit of work backed by mock repositories. Transaction
// boundaries are recorded instead of hitting a database.
type MockUnitOfWork struct {
	Balances  *MockBalanceRepository
	Listings  *MockListingRepository
	Audits    *MockAuditRepository
	Publisher *RecordingEventPublisher

	Began      bool
	Committed  bool
	RolledBack bool
	BeginErr   error
	CommitErr  error
}

// NewMockUnitOfWork creates a mock unit of work with fresh mock repositories
func NewMockUnitOfWork() *MockUnitOfWork {
	return &MockUnitOfWork{
		Balances:  &MockBalanceRepository{},
		Listings:  &MockListingRepository{},
		Audits:    &MockAuditRepository{},
		Publisher: &RecordingEventPublisher{},
	}
}

func (u *MockUnitOfWork) Begin(ctx context.Context) error {
	if u.BeginErr != nil {
		return u.BeginErr
	}
	u.Began = true
	return nil
}

func (u *MockUnitOfWork) Commit() error {
	if u.CommitErr != nil {
		return u.CommitErr
	}
	u.Committed = true
	return nil
}

func (u *MockUnitOfWork) Rollback() error {
	if !u.Committed {
		u.RolledBack = true
	}
	return nil
}

func (u *MockUnitOfWork) BalanceRepository() BalanceRepository { return u.Balances }
func (u *MockUnitOfWork) ListingRepository() ListingRepository { return u.Listings }
func (u *MockUnitOfWork) AuditRepository() AuditRepository     { return u.Audits }
func (u *MockUnitOfWork) EventBus() EventPublisher             { return u.Publisher }

// MockUnitOfWorkFactory hands out a fixed unit of work
type MockUnitOfWorkFactory struct {
	UoW *MockUnitOfWork
}

func (f *MockUnitOfWorkFactory) Create() UnitOfWork {
	return f.UoW
}
