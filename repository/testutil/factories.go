package testutil

import (
	"time"

	"github.com/google/uuid"

	"neurocoin/models"
)

// CreateTestListing creates an active test listing with default values
func CreateTestListing(sellerID int64, price int64) *models.Listing {
	now := time.Now()
	return &models.Listing{
		ID:        uuid.New().String(),
		SellerID:  sellerID,
		ItemRef:   "item:test-sword",
		Price:     price,
		Status:    models.ListingStatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// CreateTestAuditEntry creates a test audit entry with default values
func CreateTestAuditEntry(guildID, actorID int64, eventType models.AuditEventType) *models.AuditEntry {
	amount := int64(100)
	return &models.AuditEntry{
		GuildID:   guildID,
		EventType: eventType,
		Severity:  models.AuditSeverityInfo,
		ActorID:   actorID,
		Amount:    &amount,
		Details: map[string]any{
			"test": true,
		},
	}
}

// CreateTestSweepRun creates a test sweep run for the given date
func CreateTestSweepRun(runDate time.Time, deleted int64) *models.SweepRun {
	return &models.SweepRun{
		RunDate:        runDate,
		EntriesDeleted: deleted,
		ExecutionSummary: map[string]interface{}{
			"retention_days": 90,
		},
	}
}
