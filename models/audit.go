package models

import (
	"time"
)

// AuditEventType represents the kind of economic event an audit entry records
type AuditEventType string

const (
	AuditEventTransfer        AuditEventType = "transfer"
	AuditEventTransferFlagged AuditEventType = "transfer_flagged"
	AuditEventPurchase        AuditEventType = "purchase"
	AuditEventListingCreated  AuditEventType = "listing_created"
	AuditEventListingCancel   AuditEventType = "listing_cancelled"
	AuditEventWager           AuditEventType = "wager"
	AuditEventDeposit         AuditEventType = "deposit"
	AuditEventWithdraw        AuditEventType = "withdraw"
	AuditEventAccountCreated  AuditEventType = "account_created"
)

// AuditSeverity classifies an audit entry for dashboard filtering
type AuditSeverity string

const (
	AuditSeverityInfo    AuditSeverity = "info"
	AuditSeverityWarning AuditSeverity = "warning"
	AuditSeverityDanger  AuditSeverity = "danger"
	AuditSeveritySuccess AuditSeverity = "success"
)

// AuditEntry is an immutable record of a balance-affecting event
type AuditEntry struct {
	ID        int64          `db:"id"`
	GuildID   int64          `db:"guild_id"`
	EventType AuditEventType `db:"event_type"`
	Severity  AuditSeverity  `db:"severity"`
	ActorID   int64          `db:"actor_id"`
	TargetID  *int64         `db:"target_id"`
	Amount    *int64         `db:"amount"`
	Details   map[string]any `db:"details"`
	CreatedAt time.Time      `db:"created_at"`
}

// AuditFilter selects audit entries for paginated queries. Nil fields match
// everything.
type AuditFilter struct {
	GuildID   *int64
	EventType *AuditEventType
	Severity  *AuditSeverity
	ActorID   *int64
	From      *time.Time
	To        *time.Time
	Page      int
	Limit     int
}

// AuditPage is one page of audit entries, newest first
type AuditPage struct {
	Entries    []*AuditEntry
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}
