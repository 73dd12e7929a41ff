package service

import (
	"context"
	"fmt"

	"neurocoin/config"
	"neurocoin/events"
	"neurocoin/models"
)

// balanceService implements the BalanceService interface
type balanceService struct {
	balanceRepo BalanceRepository
	uowFactory  UnitOfWorkFactory
}

// NewBalanceService creates a new balance service
func NewBalanceService(balanceRepo BalanceRepository, uowFactory UnitOfWorkFactory) BalanceService {
	return &balanceService{
		balanceRepo: balanceRepo,
		uowFactory:  uowFactory,
	}
}

// GetBalance returns a user's balance. A user with no account yet gets a
// zero-valued record rather than an error.
func (s *balanceService) GetBalance(ctx context.Context, userID int64) (*models.BalanceRecord, error) {
	if userID == 0 {
		return nil, ErrInvalidUser
	}

	record, err := s.balanceRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get balance: %w", err)
	}
	if record == nil {
		return &models.BalanceRecord{UserID: userID}, nil
	}
	return record, nil
}

// Deposit moves amount from wallet to bank
func (s *balanceService) Deposit(ctx context.Context, guildID, userID int64, amount int64) (*models.BalanceRecord, error) {
	return s.move(ctx, guildID, userID, amount, models.AuditEventDeposit)
}

// Withdraw moves amount from bank to wallet
func (s *balanceService) Withdraw(ctx context.Context, guildID, userID int64, amount int64) (*models.BalanceRecord, error) {
	return s.move(ctx, guildID, userID, amount, models.AuditEventWithdraw)
}

// move shifts amount between wallet and bank in the direction the event type
// implies, atomically within one transaction
func (s *balanceService) move(ctx context.Context, guildID, userID int64, amount int64, eventType models.AuditEventType) (*models.BalanceRecord, error) {
	if userID == 0 {
		return nil, ErrInvalidUser
	}
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	var walletDelta, bankDelta int64
	if eventType == models.AuditEventDeposit {
		walletDelta, bankDelta = -amount, amount
	} else {
		walletDelta, bankDelta = amount, -amount
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	before, created, err := uow.BalanceRepository().GetOrCreate(ctx, userID, config.Get().StartingBalance)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	if created {
		uow.EventBus().Publish(events.AccountCreatedEvent{UserID: userID})
	}

	after, err := uow.BalanceRepository().Adjust(ctx, userID, walletDelta, bankDelta)
	if err != nil {
		return nil, err
	}

	stageBalanceChange(uow, before, after, eventType)
	stageAudit(uow, &models.AuditEntry{
		GuildID:   guildID,
		EventType: eventType,
		Severity:  models.AuditSeverityInfo,
		ActorID:   userID,
		Amount:    int64Ptr(amount),
		Details: map[string]any{
			"wallet": after.Wallet,
			"bank":   after.Bank,
		},
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return after, nil
}

// GetLeaderboard returns the richest users by total holdings
func (s *balanceService) GetLeaderboard(ctx context.Context, limit int) ([]*models.BalanceRecord, error) {
	if limit <= 0 {
		limit = 10
	}
	records, err := s.balanceRepo.GetTopByTotal(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get leaderboard: %w", err)
	}
	return records, nil
}
