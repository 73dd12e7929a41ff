package repository

import (
	"context"
	"testing"
	"time"

	"neurocoin/models"
	"neurocoin/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditRepository_Record(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewAuditRepository(testDB.DB)
	ctx := context.Background()

	entry := testutil.CreateTestAuditEntry(7, 1, models.AuditEventTransfer)
	entry.TargetID = new(int64)
	*entry.TargetID = 2

	err := repo.Record(ctx, entry)
	require.NoError(t, err)
	assert.NotZero(t, entry.ID)
	assert.False(t, entry.CreatedAt.IsZero())
}

func TestAuditRepository_Query(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewAuditRepository(testDB.DB)
	ctx := context.Background()

	// Guild 7: three transfers by user 1, one wager by user 2.
	// Guild 8: one purchase.
	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Record(ctx, testutil.CreateTestAuditEntry(7, 1, models.AuditEventTransfer)))
	}
	require.NoError(t, repo.Record(ctx, testutil.CreateTestAuditEntry(7, 2, models.AuditEventWager)))
	require.NoError(t, repo.Record(ctx, testutil.CreateTestAuditEntry(8, 3, models.AuditEventPurchase)))

	guild7 := int64(7)

	t.Run("filter by guild", func(t *testing.T) {
		page, err := repo.Query(ctx, models.AuditFilter{GuildID: &guild7, Page: 1, Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, int64(4), page.Total)
		assert.Len(t, page.Entries, 4)
	})

	t.Run("filter by guild and type", func(t *testing.T) {
		eventType := models.AuditEventTransfer
		page, err := repo.Query(ctx, models.AuditFilter{GuildID: &guild7, EventType: &eventType, Page: 1, Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, int64(3), page.Total)
		for _, e := range page.Entries {
			assert.Equal(t, models.AuditEventTransfer, e.EventType)
		}
	})

	t.Run("filter by actor", func(t *testing.T) {
		actor := int64(2)
		page, err := repo.Query(ctx, models.AuditFilter{ActorID: &actor, Page: 1, Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, int64(1), page.Total)
		assert.Equal(t, models.AuditEventWager, page.Entries[0].EventType)
	})

	t.Run("no filter matches everything", func(t *testing.T) {
		page, err := repo.Query(ctx, models.AuditFilter{Page: 1, Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, int64(5), page.Total)
	})

	t.Run("newest first", func(t *testing.T) {
		page, err := repo.Query(ctx, models.AuditFilter{Page: 1, Limit: 10})
		require.NoError(t, err)
		for i := 1; i < len(page.Entries); i++ {
			prev, cur := page.Entries[i-1], page.Entries[i]
			if prev.CreatedAt.Equal(cur.CreatedAt) {
				assert.Greater(t, prev.ID, cur.ID)
			} else {
				assert.True(t, prev.CreatedAt.After(cur.CreatedAt))
			}
		}
	})

	t.Run("pagination", func(t *testing.T) {
		first, err := repo.Query(ctx, models.AuditFilter{Page: 1, Limit: 2})
		require.NoError(t, err)
		assert.Len(t, first.Entries, 2)
		assert.Equal(t, int64(5), first.Total)
		assert.Equal(t, 3, first.TotalPages)

		third, err := repo.Query(ctx, models.AuditFilter{Page: 3, Limit: 2})
		require.NoError(t, err)
		assert.Len(t, third.Entries, 1)
		assert.NotEqual(t, first.Entries[0].ID, third.Entries[0].ID)
	})

	t.Run("date range", func(t *testing.T) {
		future := time.Now().UTC().Add(time.Hour)
		page, err := repo.Query(ctx, models.AuditFilter{From: &future, Page: 1, Limit: 10})
		require.NoError(t, err)
		assert.Zero(t, page.Total)

		past := time.Now().UTC().Add(-time.Hour)
		page, err = repo.Query(ctx, models.AuditFilter{From: &past, To: &future, Page: 1, Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, int64(5), page.Total)
	})
}

func TestAuditRepository_DeleteOlderThan(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewAuditRepository(testDB.DB)
	ctx := context.Background()

	// Two entries aged past the retention window, one fresh
	old := time.Now().UTC().AddDate(0, 0, -120)
	for i := 0; i < 2; i++ {
		_, err := testDB.DB.Pool.Exec(ctx, `
			INSERT INTO audit_log (guild_id, event_type, severity, actor_id, details, created_at)
			VALUES (7, 'transfer', 'info', 1, '{}', $1)
		`, old)
		require.NoError(t, err)
	}
	require.NoError(t, repo.Record(ctx, testutil.CreateTestAuditEntry(7, 1, models.AuditEventTransfer)))

	cutoff := time.Now().UTC().AddDate(0, 0, -90)
	deleted, err := repo.DeleteOlderThan(ctx, cutoff)
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	page, err := repo.Query(ctx, models.AuditFilter{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)

	// A second sweep finds nothing left to delete
	deleted, err = repo.DeleteOlderThan(ctx, cutoff)
	require.NoError(t, err)
	assert.Zero(t, deleted)
}
