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

// AuditRecorder implements the AuditService interface. It is also the audit
// recorder: it subscribes to the event bus and appends every staged audit
// entry after the transaction that produced it commits. Writes are best
// effort; a failure is logged as an operational error and dropped, never
// surfaced to the economic operation.
type AuditRecorder struct {
	auditRepo AuditRepository
	sweepRepo SweepRunRepository
}

// NewAuditRecorder creates a new audit recorder
func NewAuditRecorder(auditRepo AuditRepository, sweepRepo SweepRunRepository) *AuditRecorder {
	return &AuditRecorder{
		auditRepo: auditRepo,
		sweepRepo: sweepRepo,
	}
}

// Register subscribes the recorder to staged audit events on the bus
func (s *AuditRecorder) Register(bus *events.Bus) {
	bus.Subscribe(events.EventTypeAuditRecorded, func(ctx context.Context, event events.Event) {
		auditEvent, ok := event.(events.AuditEvent)
		if !ok || auditEvent.Entry == nil {
			return
		}
		if err := s.auditRepo.Record(ctx, auditEvent.Entry); err != nil {
			log.WithFields(log.Fields{
				"event_type": auditEvent.Entry.EventType,
				"actor_id":   auditEvent.Entry.ActorID,
			}).WithError(err).Error("failed to record audit entry")
		}
	})
}

// Query returns a page of audit entries matching the filter, newest first
func (s *AuditRecorder) Query(ctx context.Context, filter models.AuditFilter) (*models.AuditPage, error) {
	page, err := s.auditRepo.Query(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit log: %w", err)
	}
	return page, nil
}

// Sweep deletes audit entries older than the retention window, at most once
// per UTC day. Returns nil without error when today's sweep already ran.
func (s *AuditRecorder) Sweep(ctx context.Context) (*models.SweepRun, error) {
	cfg := config.Get()
	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	existing, err := s.sweepRepo.GetByDate(ctx, today)
	if err != nil {
		return nil, fmt.Errorf("failed to check sweep history: %w", err)
	}
	if existing != nil {
		return nil, nil
	}

	cutoff := now.AddDate(0, 0, -cfg.AuditRetentionDays)
	deleted, err := s.auditRepo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to delete expired audit entries: %w", err)
	}

	run := &models.SweepRun{
		RunDate:        today,
		EntriesDeleted: deleted,
		ExecutionSummary: map[string]interface{}{
			"cutoff":         cutoff.Format(time.RFC3339),
			"retention_days": cfg.AuditRetentionDays,
		},
	}

	// The unique constraint on run_date makes a concurrent duplicate fail
	// here rather than sweep twice
	if err := s.sweepRepo.Create(ctx, run); err != nil {
		return nil, fmt.Errorf("failed to record sweep run: %w", err)
	}

	return run, nil
}

// StartSweepWorker runs the retention sweep daily at the configured UTC hour.
// The returned function stops the worker.
func (s *AuditRecorder) StartSweepWorker(ctx context.Context) func() {
	stopChan := make(chan struct{})
	sweepHour := config.Get().SweepHourUTC

	calculateNextRun := func() time.Duration {
		now := time.Now().UTC()
		next := time.Date(now.Year(), now.Month(), now.Day(), sweepHour, 0, 0, 0, time.UTC)
		if now.After(next) || now.Equal(next) {
			next = next.Add(24 * time.Hour)
		}
		return next.Sub(now)
	}

	go func() {
		log.Infof("Audit sweep worker started, next run at %02d:00 UTC", sweepHour)

		for {
			waitDuration := calculateNextRun()
			log.Infof("Audit sweep worker waiting %v until next run", waitDuration)

			select {
			case <-ctx.Done():
				log.Info("Audit sweep worker shutting down (context cancelled)...")
				return
			case <-stopChan:
				log.Info("Audit sweep worker shutting down (stop requested)...")
				return
			case <-time.After(waitDuration):
				run, err := s.Sweep(ctx)
				if err != nil {
					// The economy engine keeps running; the sweep retries tomorrow
					log.WithError(err).Error("audit retention sweep failed")
					continue
				}
				if run != nil {
					log.WithFields(log.Fields{
						"entries_deleted": run.EntriesDeleted,
						"run_date":        run.RunDate.Format("2006-01-02"),
					}).Info("Audit retention sweep completed")
				}
			}
		}
	}()

	return func() {
		close(stopChan)
	}
}
