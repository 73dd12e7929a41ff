package service

import (
	"neurocoin/events"
	"neurocoin/models"
)

// stageAudit publishes an audit entry on the unit of work's transactional bus.
// This is the single entry point for audit writes from economic operations:
// the entry is appended by the audit recorder after the transaction commits,
// and discarded with the rest of the pending events on rollback.
func stageAudit(uow UnitOfWork, entry *models.AuditEntry) {
	uow.EventBus().Publish(events.AuditEvent{Entry: entry})
}

// stageBalanceChange publishes a balance change event for the transition
// between two snapshots of the same record
func stageBalanceChange(uow UnitOfWork, before, after *models.BalanceRecord, reason models.AuditEventType) {
	uow.EventBus().Publish(events.BalanceChangeEvent{
		UserID:    after.UserID,
		OldWallet: before.Wallet,
		NewWallet: after.Wallet,
		OldBank:   before.Bank,
		NewBank:   after.Bank,
		Reason:    reason,
	})
}

func int64Ptr(v int64) *int64 {
	return &v
}
