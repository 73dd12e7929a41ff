package repository

import (
	"context"
	"sync"
	"testing"

	"neurocoin/repository/testutil"
	"neurocoin/service"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBalanceRepository_GetOrCreate(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewBalanceRepository(testDB.DB)
	ctx := context.Background()

	t.Run("creates on first reference", func(t *testing.T) {
		record, created, err := repo.GetOrCreate(ctx, 100, 500)
		require.NoError(t, err)
		assert.True(t, created)
		assert.Equal(t, int64(100), record.UserID)
		assert.Equal(t, int64(500), record.Wallet)
		assert.Zero(t, record.Bank)
		assert.False(t, record.CreatedAt.IsZero())
	})

	t.Run("returns existing on second reference", func(t *testing.T) {
		record, created, err := repo.GetOrCreate(ctx, 100, 9999)
		require.NoError(t, err)
		assert.False(t, created)
		// The starting balance does not overwrite an existing record
		assert.Equal(t, int64(500), record.Wallet)
	})
}

func TestBalanceRepository_GetByUserID(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewBalanceRepository(testDB.DB)
	ctx := context.Background()

	record, err := repo.GetByUserID(ctx, 404)
	require.NoError(t, err)
	assert.Nil(t, record)

	_, _, err = repo.GetOrCreate(ctx, 404, 0)
	require.NoError(t, err)

	record, err = repo.GetByUserID(ctx, 404)
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, int64(404), record.UserID)
}

func TestBalanceRepository_Adjust(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewBalanceRepository(testDB.DB)
	ctx := context.Background()

	_, _, err := repo.GetOrCreate(ctx, 1, 1000)
	require.NoError(t, err)

	t.Run("applies both deltas atomically", func(t *testing.T) {
		record, err := repo.Adjust(ctx, 1, -300, 300)
		require.NoError(t, err)
		assert.Equal(t, int64(700), record.Wallet)
		assert.Equal(t, int64(300), record.Bank)
	})

	t.Run("rejects wallet going negative", func(t *testing.T) {
		_, err := repo.Adjust(ctx, 1, -800, 0)
		assert.ErrorIs(t, err, service.ErrInsufficientFunds)

		// The rejected adjust changed nothing
		record, err := repo.GetByUserID(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(700), record.Wallet)
		assert.Equal(t, int64(300), record.Bank)
	})

	t.Run("rejects bank going negative", func(t *testing.T) {
		_, err := repo.Adjust(ctx, 1, 0, -301)
		assert.ErrorIs(t, err, service.ErrInsufficientFunds)
	})

	t.Run("missing record is invalid user", func(t *testing.T) {
		_, err := repo.Adjust(ctx, 999, -10, 0)
		assert.ErrorIs(t, err, service.ErrInvalidUser)
	})

	t.Run("exact drain to zero is allowed", func(t *testing.T) {
		record, err := repo.Adjust(ctx, 1, -700, -300)
		require.NoError(t, err)
		assert.Zero(t, record.Wallet)
		assert.Zero(t, record.Bank)
	})
}

func TestBalanceRepository_Adjust_ConcurrentDebits(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewBalanceRepository(testDB.DB)
	ctx := context.Background()

	// Wallet of 500 can absorb exactly five debits of 100
	_, _, err := repo.GetOrCreate(ctx, 7, 500)
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make(chan error, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.Adjust(ctx, 7, -100, 0)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var succeeded, rejected int
	for err := range results {
		if err == nil {
			succeeded++
		} else {
			require.ErrorIs(t, err, service.ErrInsufficientFunds)
			rejected++
		}
	}
	assert.Equal(t, 5, succeeded)
	assert.Equal(t, 5, rejected)

	record, err := repo.GetByUserID(ctx, 7)
	require.NoError(t, err)
	assert.Zero(t, record.Wallet, "wallet never goes negative under concurrent debits")
}

func TestBalanceRepository_GetTopByTotal(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewBalanceRepository(testDB.DB)
	ctx := context.Background()

	for _, seed := range []struct {
		userID int64
		wallet int64
	}{{1, 100}, {2, 900}, {3, 500}, {4, 0}} {
		_, _, err := repo.GetOrCreate(ctx, seed.userID, seed.wallet)
		require.NoError(t, err)
	}
	// User 3 also banks some, taking the lead
	_, err := repo.Adjust(ctx, 3, 0, 600)
	require.NoError(t, err)

	top, err := repo.GetTopByTotal(ctx, 2)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, int64(3), top[0].UserID)
	assert.Equal(t, int64(2), top[1].UserID)

	// Zero-total users never chart
	all, err := repo.GetTopByTotal(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestBalanceRepository_LockForUpdate(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewBalanceRepository(testDB.DB)
	ctx := context.Background()

	_, _, err := repo.GetOrCreate(ctx, 1, 100)
	require.NoError(t, err)
	_, _, err = repo.GetOrCreate(ctx, 2, 100)
	require.NoError(t, err)

	// Lock both rows inside a transaction and mutate while holding the locks
	err = testDB.DB.WithTransaction(ctx, func(tx pgx.Tx) error {
		txRepo := newBalanceRepositoryWithTx(tx)
		if err := txRepo.LockForUpdate(ctx, 2, 1); err != nil {
			return err
		}
		if _, err := txRepo.Adjust(ctx, 1, -50, 0); err != nil {
			return err
		}
		_, err := txRepo.Adjust(ctx, 2, 50, 0)
		return err
	})
	require.NoError(t, err)

	sender, err := repo.GetByUserID(ctx, 1)
	require.NoError(t, err)
	recipient, err := repo.GetByUserID(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(50), sender.Wallet)
	assert.Equal(t, int64(150), recipient.Wallet)
}
