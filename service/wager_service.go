package service

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"neurocoin/config"
	"neurocoin/events"
	"neurocoin/games"
	"neurocoin/models"
)

// wagerService implements the WagerService interface
type wagerService struct {
	uowFactory UnitOfWorkFactory
	registry   *games.Registry

	// rngMu guards rng; rand.Rand is not safe for concurrent use
	rngMu sync.Mutex
	rng   *rand.Rand
}

// NewWagerService creates a new wager service. The RNG is injected so tests
// can seed it for deterministic outcomes.
func NewWagerService(uowFactory UnitOfWorkFactory, registry *games.Registry, rng *rand.Rand) WagerService {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &wagerService{
		uowFactory: uowFactory,
		registry:   registry,
		rng:        rng,
	}
}

// Play debits the stake, resolves the game, and credits any payout. All three
// happen in one transaction: a stake is never taken without its resolution
// committing alongside it.
func (s *wagerService) Play(ctx context.Context, guildID, userID int64, game string, stake int64, params map[string]string) (*models.WagerOutcome, error) {
	if userID == 0 {
		return nil, ErrInvalidUser
	}

	cfg := config.Get()
	if stake < cfg.WagerMinBet || stake > cfg.WagerMaxBet {
		return nil, ErrInvalidStake
	}

	g, ok := s.registry.Get(game)
	if !ok {
		return nil, ErrUnknownGame
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	balanceRepo := uow.BalanceRepository()

	before, created, err := balanceRepo.GetOrCreate(ctx, userID, cfg.StartingBalance)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	if created {
		uow.EventBus().Publish(events.AccountCreatedEvent{UserID: userID})
	}

	if _, err := balanceRepo.Adjust(ctx, userID, -stake, 0); err != nil {
		return nil, err
	}

	s.rngMu.Lock()
	result, err := g.Resolve(s.rng, params)
	s.rngMu.Unlock()
	if err != nil {
		return nil, err
	}

	payout := int64(math.Round(float64(stake) * result.Multiplier))

	after, err := balanceRepo.Adjust(ctx, userID, payout, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to credit payout: %w", err)
	}

	netChange := payout - stake

	severity := models.AuditSeverityInfo
	if payout > 0 {
		severity = models.AuditSeveritySuccess
	}

	stageBalanceChange(uow, before, after, models.AuditEventWager)
	uow.EventBus().Publish(events.WagerResolvedEvent{
		UserID:    userID,
		Game:      game,
		Stake:     stake,
		Payout:    payout,
		NetChange: netChange,
	})
	stageAudit(uow, &models.AuditEntry{
		GuildID:   guildID,
		EventType: models.AuditEventWager,
		Severity:  severity,
		ActorID:   userID,
		Amount:    int64Ptr(stake),
		Details: map[string]any{
			"game":       game,
			"multiplier": result.Multiplier,
			"payout":     payout,
			"net_change": netChange,
		},
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &models.WagerOutcome{
		Game:       game,
		UserID:     userID,
		Stake:      stake,
		Multiplier: result.Multiplier,
		Payout:     payout,
		NetChange:  netChange,
		NewWallet:  after.Wallet,
		Details:    result.Details,
		PlayedAt:   time.Now().UTC(),
	}, nil
}

// Games returns the names of all registered games
func (s *wagerService) Games() []string {
	return s.registry.Names()
}
