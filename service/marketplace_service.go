package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"neurocoin/config"
	"neurocoin/events"
	"neurocoin/models"
)

// marketplaceService implements the MarketplaceService interface
type marketplaceService struct {
	listingRepo ListingRepository
	uowFactory  UnitOfWorkFactory
	rateLimiter *RateLimiter
}

// NewMarketplaceService creates a new marketplace service
func NewMarketplaceService(listingRepo ListingRepository, uowFactory UnitOfWorkFactory, rateLimiter *RateLimiter) MarketplaceService {
	return &marketplaceService{
		listingRepo: listingRepo,
		uowFactory:  uowFactory,
		rateLimiter: rateLimiter,
	}
}

// CreateListing puts an item up for sale
func (s *marketplaceService) CreateListing(ctx context.Context, guildID, sellerID int64, itemRef string, price int64) (*models.Listing, error) {
	if sellerID == 0 {
		return nil, ErrInvalidUser
	}
	cfg := config.Get()
	if price < models.MinListingPrice || price > cfg.MaxListingPrice {
		return nil, ErrInvalidPrice
	}

	listing := &models.Listing{
		ID:       uuid.New().String(),
		SellerID: sellerID,
		ItemRef:  itemRef,
		Price:    price,
		Status:   models.ListingStatusActive,
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	if err := uow.ListingRepository().Create(ctx, listing); err != nil {
		return nil, fmt.Errorf("failed to create listing: %w", err)
	}

	stageAudit(uow, &models.AuditEntry{
		GuildID:   guildID,
		EventType: models.AuditEventListingCreated,
		Severity:  models.AuditSeverityInfo,
		ActorID:   sellerID,
		Amount:    int64Ptr(price),
		Details: map[string]any{
			"listing_id": listing.ID,
			"item_ref":   itemRef,
		},
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return listing, nil
}

// CancelListing withdraws an active listing. Only the seller may cancel.
func (s *marketplaceService) CancelListing(ctx context.Context, guildID, sellerID int64, listingID string) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	listing, err := uow.ListingRepository().GetByIDForUpdate(ctx, listingID)
	if err != nil {
		return fmt.Errorf("failed to get listing: %w", err)
	}
	if listing == nil || listing.Status != models.ListingStatusActive {
		return ErrListingUnavailable
	}
	if listing.SellerID != sellerID {
		return ErrNotListingOwner
	}

	cancelled, err := uow.ListingRepository().MarkCancelled(ctx, listingID)
	if err != nil {
		return fmt.Errorf("failed to cancel listing: %w", err)
	}
	if !cancelled {
		return ErrListingUnavailable
	}

	stageAudit(uow, &models.AuditEntry{
		GuildID:   guildID,
		EventType: models.AuditEventListingCancel,
		Severity:  models.AuditSeverityInfo,
		ActorID:   sellerID,
		Amount:    int64Ptr(listing.Price),
		Details: map[string]any{
			"listing_id": listing.ID,
			"item_ref":   listing.ItemRef,
		},
	})

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Purchase buys an active listing. The buyer debit, seller credit and the
// active -> sold transition commit as one transaction; any failure after the
// debit rolls the whole settlement back, so the buyer is never charged for an
// item they did not receive.
func (s *marketplaceService) Purchase(ctx context.Context, guildID, buyerID int64, listingID string) (*models.PurchaseReceipt, error) {
	if buyerID == 0 {
		return nil, ErrInvalidUser
	}
	cfg := config.Get()

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	// The row lock serializes concurrent buyers of the same listing
	listing, err := uow.ListingRepository().GetByIDForUpdate(ctx, listingID)
	if err != nil {
		return nil, fmt.Errorf("failed to get listing: %w", err)
	}
	if listing == nil || listing.Status != models.ListingStatusActive {
		return nil, ErrListingUnavailable
	}
	if listing.SellerID == buyerID {
		return nil, ErrSelfPurchase
	}
	if listing.Price < models.MinListingPrice || listing.Price > cfg.MaxListingPrice {
		return nil, ErrInvalidPrice
	}

	if !s.rateLimiter.Allow(RateClassPurchase, buyerID, cfg.PurchaseRateLimit) {
		return nil, ErrRateLimited
	}

	balanceRepo := uow.BalanceRepository()

	// Accounts are created in ascending user ID order, same as the row
	// locks, so first-contact settlements cannot deadlock on insert locks
	firstID, secondID := buyerID, listing.SellerID
	if secondID < firstID {
		firstID, secondID = secondID, firstID
	}
	for _, userID := range []int64{firstID, secondID} {
		_, created, err := balanceRepo.GetOrCreate(ctx, userID, cfg.StartingBalance)
		if err != nil {
			return nil, fmt.Errorf("failed to get account %d: %w", userID, err)
		}
		if created && userID == buyerID {
			uow.EventBus().Publish(events.AccountCreatedEvent{UserID: buyerID})
		}
	}

	if err := balanceRepo.LockForUpdate(ctx, buyerID, listing.SellerID); err != nil {
		return nil, fmt.Errorf("failed to lock accounts: %w", err)
	}

	buyerAfter, err := balanceRepo.Adjust(ctx, buyerID, -listing.Price, 0)
	if err != nil {
		return nil, err
	}

	fee := int64(math.Round(float64(listing.Price) * cfg.MarketFeeRate))
	sellerCredit := listing.Price - fee

	sellerAfter, err := balanceRepo.Adjust(ctx, listing.SellerID, sellerCredit, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to credit seller: %v", ErrSettlementFailed, err)
	}

	// Old values derive from the adjusted rows; the pre-lock reads can be
	// stale under concurrent mutation
	buyerBefore := &models.BalanceRecord{UserID: buyerID, Wallet: buyerAfter.Wallet + listing.Price, Bank: buyerAfter.Bank}
	sellerBefore := &models.BalanceRecord{UserID: listing.SellerID, Wallet: sellerAfter.Wallet - sellerCredit, Bank: sellerAfter.Bank}

	sold, err := uow.ListingRepository().MarkSold(ctx, listingID, buyerID)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to mark listing sold: %v", ErrSettlementFailed, err)
	}
	if !sold {
		return nil, ErrListingUnavailable
	}

	stageBalanceChange(uow, buyerBefore, buyerAfter, models.AuditEventPurchase)
	stageBalanceChange(uow, sellerBefore, sellerAfter, models.AuditEventPurchase)
	uow.EventBus().Publish(events.ListingSoldEvent{
		ListingID: listing.ID,
		SellerID:  listing.SellerID,
		BuyerID:   buyerID,
		Price:     listing.Price,
		Fee:       fee,
	})
	stageAudit(uow, &models.AuditEntry{
		GuildID:   guildID,
		EventType: models.AuditEventPurchase,
		Severity:  models.AuditSeverityInfo,
		ActorID:   buyerID,
		TargetID:  int64Ptr(listing.SellerID),
		Amount:    int64Ptr(listing.Price),
		Details: map[string]any{
			"listing_id":    listing.ID,
			"item_ref":      listing.ItemRef,
			"fee":           fee,
			"seller_credit": sellerCredit,
		},
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &models.PurchaseReceipt{
		ListingID:    listing.ID,
		BuyerID:      buyerID,
		SellerID:     listing.SellerID,
		ItemRef:      listing.ItemRef,
		Price:        listing.Price,
		Fee:          fee,
		SellerCredit: sellerCredit,
		SettledAt:    time.Now().UTC(),
	}, nil
}

// GetActiveListings returns currently active listings, newest first
func (s *marketplaceService) GetActiveListings(ctx context.Context, limit int) ([]*models.Listing, error) {
	if limit <= 0 {
		limit = 50
	}
	listings, err := s.listingRepo.GetActive(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get listings: %w", err)
	}
	return listings, nil
}
