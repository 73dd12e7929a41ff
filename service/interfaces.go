package service

import (
	"context"
	"time"

	"neurocoin/events"
	"neurocoin/models"
)

// BalanceRepository defines the interface for balance record data access
type BalanceRepository interface {
	// GetByUserID retrieves a balance record, or nil if the user has none
	GetByUserID(ctx context.Context, userID int64) (*models.BalanceRecord, error)

	// GetOrCreate retrieves a balance record, creating one with the starting
	// balance if absent. The second return reports whether a row was created.
	GetOrCreate(ctx context.Context, userID int64, startingBalance int64) (*models.BalanceRecord, bool, error)

	// LockForUpdate takes row locks on the given users in a fixed global order
	LockForUpdate(ctx context.Context, userIDs ...int64) error

	// Adjust applies wallet and bank deltas atomically, failing if either
	// balance would go negative
	Adjust(ctx context.Context, userID int64, walletDelta, bankDelta int64) (*models.BalanceRecord, error)

	// GetTopByTotal returns the richest users by wallet + bank
	GetTopByTotal(ctx context.Context, limit int) ([]*models.BalanceRecord, error)
}

// ListingRepository defines the interface for marketplace listing data access
type ListingRepository interface {
	// Create creates a new listing
	Create(ctx context.Context, listing *models.Listing) error

	// GetByID retrieves a listing by its ID
	GetByID(ctx context.Context, id string) (*models.Listing, error)

	// GetByIDForUpdate retrieves a listing and takes a row lock on it
	GetByIDForUpdate(ctx context.Context, id string) (*models.Listing, error)

	// MarkSold transitions an active listing to sold. Returns false if the
	// listing was not active.
	MarkSold(ctx context.Context, id string, buyerID int64) (bool, error)

	// MarkCancelled transitions an active listing to cancelled. Returns false
	// if the listing was not active.
	MarkCancelled(ctx context.Context, id string) (bool, error)

	// GetActive returns currently active listings, newest first
	GetActive(ctx context.Context, limit int) ([]*models.Listing, error)
}

// AuditRepository defines the interface for the append-only audit trail
type AuditRepository interface {
	// Record appends an audit entry
	Record(ctx context.Context, entry *models.AuditEntry) error

	// Query returns a page of audit entries matching the filter, newest first
	Query(ctx context.Context, filter models.AuditFilter) (*models.AuditPage, error)

	// DeleteOlderThan removes entries created before the cutoff and returns
	// the number deleted
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// SweepRunRepository defines the interface for retention sweep bookkeeping
type SweepRunRepository interface {
	// GetByDate retrieves the sweep run for a specific date, or nil
	GetByDate(ctx context.Context, date time.Time) (*models.SweepRun, error)

	// Create records a completed sweep run
	Create(ctx context.Context, run *models.SweepRun) error

	// GetLatest returns the most recent sweep run, or nil
	GetLatest(ctx context.Context) (*models.SweepRun, error)
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(event events.Event)
}

// UnitOfWork defines the interface for transactional repository operations
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction
	Commit() error

	// Rollback rolls back the transaction
	Rollback() error

	// Repository getters
	BalanceRepository() BalanceRepository
	ListingRepository() ListingRepository
	AuditRepository() AuditRepository
	EventBus() EventPublisher
}

// UnitOfWorkFactory defines the interface for creating UnitOfWork instances
type UnitOfWorkFactory interface {
	// Create creates a new UnitOfWork instance
	Create() UnitOfWork
}

// BalanceService defines the interface for account and balance operations
type BalanceService interface {
	// GetBalance returns a user's balance, zero-valued if no account exists yet
	GetBalance(ctx context.Context, userID int64) (*models.BalanceRecord, error)

	// Deposit moves amount from wallet to bank
	Deposit(ctx context.Context, guildID, userID int64, amount int64) (*models.BalanceRecord, error)

	// Withdraw moves amount from bank to wallet
	Withdraw(ctx context.Context, guildID, userID int64, amount int64) (*models.BalanceRecord, error)

	// GetLeaderboard returns the richest users by total holdings
	GetLeaderboard(ctx context.Context, limit int) ([]*models.BalanceRecord, error)
}

// TransferService defines the interface for peer-to-peer transfers
type TransferService interface {
	// Transfer moves amount from one user's wallet to another's
	Transfer(ctx context.Context, guildID, fromUserID, toUserID int64, amount int64) (*models.TransferReceipt, error)
}

// MarketplaceService defines the interface for marketplace operations
type MarketplaceService interface {
	// CreateListing puts an item up for sale
	CreateListing(ctx context.Context, guildID, sellerID int64, itemRef string, price int64) (*models.Listing, error)

	// CancelListing withdraws an active listing; only the seller may cancel
	CancelListing(ctx context.Context, guildID, sellerID int64, listingID string) error

	// Purchase buys an active listing, settling buyer debit and seller credit
	// in one transaction
	Purchase(ctx context.Context, guildID, buyerID int64, listingID string) (*models.PurchaseReceipt, error)

	// GetActiveListings returns currently active listings
	GetActiveListings(ctx context.Context, limit int) ([]*models.Listing, error)
}

// WagerService defines the interface for game wagers
type WagerService interface {
	// Play debits the stake, resolves the named game, and credits any payout
	Play(ctx context.Context, guildID, userID int64, game string, stake int64, params map[string]string) (*models.WagerOutcome, error)

	// Games returns the names of all registered games
	Games() []string
}

// AuditService defines the interface for audit trail access
type AuditService interface {
	// Query returns a page of audit entries matching the filter
	Query(ctx context.Context, filter models.AuditFilter) (*models.AuditPage, error)

	// Sweep deletes entries older than the retention period, at most once per
	// day, and returns the run record (nil if already performed today)
	Sweep(ctx context.Context) (*models.SweepRun, error)
}
