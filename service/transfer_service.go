package service

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"neurocoin/config"
	"neurocoin/events"
	"neurocoin/models"
)

// transferService implements the TransferService interface
type transferService struct {
	uowFactory  UnitOfWorkFactory
	rateLimiter *RateLimiter
	fraudGuard  *FraudGuard
}

// NewTransferService creates a new transfer service
func NewTransferService(uowFactory UnitOfWorkFactory, rateLimiter *RateLimiter, fraudGuard *FraudGuard) TransferService {
	return &transferService{
		uowFactory:  uowFactory,
		rateLimiter: rateLimiter,
		fraudGuard:  fraudGuard,
	}
}

// Transfer moves amount from the sender's wallet to the recipient's wallet.
// Either both balance mutations commit or neither does.
func (s *transferService) Transfer(ctx context.Context, guildID, fromUserID, toUserID int64, amount int64) (*models.TransferReceipt, error) {
	if fromUserID == 0 || toUserID == 0 {
		return nil, ErrInvalidUser
	}
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if fromUserID == toUserID {
		return nil, ErrSelfTransfer
	}

	cfg := config.Get()
	if !s.rateLimiter.Allow(RateClassTransfer, fromUserID, cfg.TransferRateLimit) {
		return nil, ErrRateLimited
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	balanceRepo := uow.BalanceRepository()

	// Both accounts must exist before the row locks are taken. Creation runs
	// in ascending user ID order too, so the insert locks taken by two
	// first-contact transfers in opposite directions cannot deadlock.
	firstID, secondID := fromUserID, toUserID
	if secondID < firstID {
		firstID, secondID = secondID, firstID
	}
	for _, userID := range []int64{firstID, secondID} {
		_, created, err := balanceRepo.GetOrCreate(ctx, userID, cfg.StartingBalance)
		if err != nil {
			return nil, fmt.Errorf("failed to get account %d: %w", userID, err)
		}
		if created {
			uow.EventBus().Publish(events.AccountCreatedEvent{UserID: userID})
		}
	}

	// Lock both rows in ascending user ID order so concurrent transfers
	// between the same pair cannot deadlock
	if err := balanceRepo.LockForUpdate(ctx, fromUserID, toUserID); err != nil {
		return nil, fmt.Errorf("failed to lock accounts: %w", err)
	}

	senderAfter, err := balanceRepo.Adjust(ctx, fromUserID, -amount, 0)
	if err != nil {
		return nil, err
	}
	recipientAfter, err := balanceRepo.Adjust(ctx, toUserID, amount, 0)
	if err != nil {
		return nil, err
	}

	// Old values are derived from the adjusted rows rather than the pre-lock
	// reads, which can be stale under concurrent mutation
	senderBefore := &models.BalanceRecord{UserID: fromUserID, Wallet: senderAfter.Wallet + amount, Bank: senderAfter.Bank}
	recipientBefore := &models.BalanceRecord{UserID: toUserID, Wallet: recipientAfter.Wallet - amount, Bank: recipientAfter.Bank}
	stageBalanceChange(uow, senderBefore, senderAfter, models.AuditEventTransfer)
	stageBalanceChange(uow, recipientBefore, recipientAfter, models.AuditEventTransfer)
	stageAudit(uow, &models.AuditEntry{
		GuildID:   guildID,
		EventType: models.AuditEventTransfer,
		Severity:  models.AuditSeverityInfo,
		ActorID:   fromUserID,
		TargetID:  int64Ptr(toUserID),
		Amount:    int64Ptr(amount),
		Details: map[string]any{
			"sender_wallet":    senderAfter.Wallet,
			"recipient_wallet": recipientAfter.Wallet,
		},
	})

	// Anomalously large transfers go through, but leave a warning behind
	if s.fraudGuard.IsAnomalous(amount) {
		log.WithFields(log.Fields{
			"from":   fromUserID,
			"to":     toUserID,
			"amount": amount,
		}).Warn("transfer amount exceeds fraud flag threshold")

		stageAudit(uow, &models.AuditEntry{
			GuildID:   guildID,
			EventType: models.AuditEventTransferFlagged,
			Severity:  models.AuditSeverityWarning,
			ActorID:   fromUserID,
			TargetID:  int64Ptr(toUserID),
			Amount:    int64Ptr(amount),
			Details: map[string]any{
				"threshold": s.fraudGuard.threshold,
			},
		})
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &models.TransferReceipt{
		FromUserID:   fromUserID,
		ToUserID:     toUserID,
		Amount:       amount,
		SenderWallet: senderAfter.Wallet,
		Timestamp:    time.Now().UTC(),
	}, nil
}
