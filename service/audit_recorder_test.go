package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"neurocoin/events"
	"neurocoin/models"
)

func TestAuditRecorder_RecordsStagedEntries(t *testing.T) {
	auditRepo := &MockAuditRepository{}
	sweepRepo := &MockSweepRunRepository{}
	recorder := NewAuditRecorder(auditRepo, sweepRepo)

	bus := events.NewBus()
	recorder.Register(bus)

	entry := &models.AuditEntry{
		GuildID:   7,
		EventType: models.AuditEventTransfer,
		Severity:  models.AuditSeverityInfo,
		ActorID:   1,
	}

	recorded := make(chan struct{})
	auditRepo.On("Record", mock.Anything, entry).Run(func(args mock.Arguments) {
		close(recorded)
	}).Return(nil)

	bus.Emit(context.Background(), events.AuditEvent{Entry: entry})

	select {
	case <-recorded:
	case <-time.After(2 * time.Second):
		t.Fatal("audit entry was never recorded")
	}
	auditRepo.AssertExpectations(t)
}

func TestAuditRecorder_WriteFailureIsSwallowed(t *testing.T) {
	auditRepo := &MockAuditRepository{}
	recorder := NewAuditRecorder(auditRepo, &MockSweepRunRepository{})

	bus := events.NewBus()
	recorder.Register(bus)

	attempted := make(chan struct{})
	auditRepo.On("Record", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		close(attempted)
	}).Return(assert.AnError)

	// A failed write must not panic or propagate anywhere
	bus.Emit(context.Background(), events.AuditEvent{Entry: &models.AuditEntry{ActorID: 1}})

	select {
	case <-attempted:
	case <-time.After(2 * time.Second):
		t.Fatal("audit write was never attempted")
	}
}

func TestAuditRecorder_Query(t *testing.T) {
	ctx := context.Background()
	auditRepo := &MockAuditRepository{}
	recorder := NewAuditRecorder(auditRepo, &MockSweepRunRepository{})

	guildID := int64(7)
	filter := models.AuditFilter{GuildID: &guildID, Page: 1, Limit: 25}
	page := &models.AuditPage{
		Entries:    []*models.AuditEntry{{ID: 1, GuildID: 7}},
		Total:      1,
		Page:       1,
		Limit:      25,
		TotalPages: 1,
	}
	auditRepo.On("Query", ctx, filter).Return(page, nil)

	got, err := recorder.Query(ctx, filter)
	require.NoError(t, err)
	assert.Equal(t, page, got)
}

func TestAuditRecorder_Sweep(t *testing.T) {
	ctx := context.Background()
	auditRepo := &MockAuditRepository{}
	sweepRepo := &MockSweepRunRepository{}
	recorder := NewAuditRecorder(auditRepo, sweepRepo)

	sweepRepo.On("GetByDate", ctx, mock.AnythingOfType("time.Time")).Return(nil, nil)
	auditRepo.On("DeleteOlderThan", ctx, mock.AnythingOfType("time.Time")).Return(int64(42), nil)
	sweepRepo.On("Create", ctx, mock.AnythingOfType("*models.SweepRun")).Return(nil)

	run, err := recorder.Sweep(ctx)
	require.NoError(t, err)
	require.NotNil(t, run)
	assert.Equal(t, int64(42), run.EntriesDeleted)
	assert.Equal(t, 90, run.ExecutionSummary["retention_days"])

	// The cutoff honors the 90 day retention default
	cutoff := auditRepo.Calls[0].Arguments.Get(1).(time.Time)
	expected := time.Now().UTC().AddDate(0, 0, -90)
	assert.WithinDuration(t, expected, cutoff, time.Minute)
}

func TestAuditRecorder_Sweep_OncePerDay(t *testing.T) {
	ctx := context.Background()
	auditRepo := &MockAuditRepository{}
	sweepRepo := &MockSweepRunRepository{}
	recorder := NewAuditRecorder(auditRepo, sweepRepo)

	existing := &models.SweepRun{ID: 1, RunDate: time.Now().UTC().Truncate(24 * time.Hour)}
	sweepRepo.On("GetByDate", ctx, mock.AnythingOfType("time.Time")).Return(existing, nil)

	run, err := recorder.Sweep(ctx)
	require.NoError(t, err)
	assert.Nil(t, run)
	auditRepo.AssertNotCalled(t, "DeleteOlderThan", mock.Anything, mock.Anything)
}
