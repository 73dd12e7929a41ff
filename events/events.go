package events

import (
	"context"
	"sync"

	"neurocoin/models"

	log "github.com/sirupsen/logrus"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeBalanceChange  EventType = "balance_change"
	EventTypeAccountCreated EventType = "account_created"
	EventTypeAuditRecorded  EventType = "audit_recorded"
	EventTypeListingSold    EventType = "listing_sold"
	EventTypeWagerResolved  EventType = "wager_resolved"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// BalanceChangeEvent represents a balance change that occurred. Consumed by
// the notification layer to push balance-changed updates to clients.
type BalanceChangeEvent struct {
	UserID    int64
	OldWallet int64
	NewWallet int64
	OldBank   int64
	NewBank   int64
	Reason    models.AuditEventType
}

func (e BalanceChangeEvent) Type() EventType {
	return EventTypeBalanceChange
}

// AccountCreatedEvent represents the lazy creation of a balance record
type AccountCreatedEvent struct {
	UserID int64
}

func (e AccountCreatedEvent) Type() EventType {
	return EventTypeAccountCreated
}

// AuditEvent carries an audit entry to be appended by the audit recorder.
// The append is best-effort: a failed write never affects the economic
// operation that produced the entry.
type AuditEvent struct {
	Entry *models.AuditEntry
}

func (e AuditEvent) Type() EventType {
	return EventTypeAuditRecorded
}

// ListingSoldEvent represents a completed marketplace settlement
type ListingSoldEvent struct {
	ListingID string
	SellerID  int64
	BuyerID   int64
	Price     int64
	Fee       int64
}

func (e ListingSoldEvent) Type() EventType {
	return EventTypeListingSold
}

// WagerResolvedEvent represents a completed play of a wagering game
type WagerResolvedEvent struct {
	UserID    int64
	Game      string
	Stake     int64
	Payout    int64
	NetChange int64
}

func (e WagerResolvedEvent) Type() EventType {
	return EventTypeWagerResolved
}

// Handler is a function that handles events
type Handler func(ctx context.Context, event Event)

// Bus manages event subscriptions and dispatching
type Bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
}

// NewBus creates a new event bus
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[EventType][]Handler),
	}
}

// Subscribe adds a handler for a specific event type
func (b *Bus) Subscribe(eventType EventType, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.handlers[eventType] == nil {
		b.handlers[eventType] = make([]Handler, 0)
	}
	b.handlers[eventType] = append(b.handlers[eventType], handler)

	log.WithFields(log.Fields{
		"eventType":    eventType,
		"handlerCount": len(b.handlers[eventType]),
	}).Debug("Subscribed handler to event type")
}

// Emit publishes an event to all registered handlers
func (b *Bus) Emit(ctx context.Context, event Event) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers[event.Type()]))
	copy(handlers, b.handlers[event.Type()])
	b.mu.RUnlock()

	// Call handlers asynchronously to avoid blocking
	for i, handler := range handlers {
		go func(h Handler, handlerIndex int) {
			defer func() {
				if r := recover(); r != nil {
					log.WithFields(log.Fields{
						"eventType":    event.Type(),
						"handlerIndex": handlerIndex,
						"panic":        r,
					}).Error("Event handler panicked")
				}
			}()
			h(ctx, event)
		}(handler, i)
	}
}

// A transactional event bus for holding pending events coupled to the Unit of Work.
// Flushes to the underlying event bus.
type TransactionalBus struct {
	real    *Bus
	pending []Event // stashed until Flush
}

func NewTransactionalBus(real *Bus) *TransactionalBus {
	return &TransactionalBus{real: real}
}

func (b *TransactionalBus) Publish(e Event) {
	b.pending = append(b.pending, e)
}

// called after successful DB commit
func (b *TransactionalBus) Flush(ctx context.Context) error {
	// Use background context for event emission so handler work is not tied
	// to the lifetime of the request that opened the transaction
	eventCtx := context.Background()

	for _, ev := range b.pending {
		b.real.Emit(eventCtx, ev)
	}
	b.pending = nil
	return nil
}

// called after db rollback or to clear state.
func (b *TransactionalBus) Discard() {
	b.pending = nil
}
