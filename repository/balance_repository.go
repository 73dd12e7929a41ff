package repository

import (
	"context"
	"fmt"

	"neurocoin/database"
	"neurocoin/models"
	"neurocoin/service"

	"github.com/jackc/pgx/v5"
)

// BalanceRepository implements the BalanceRepository interface
type BalanceRepository struct {
	q queryable
}

// NewBalanceRepository creates a new balance repository
func NewBalanceRepository(db *database.DB) *BalanceRepository {
	return &BalanceRepository{q: db.Pool}
}

// newBalanceRepositoryWithTx creates a new balance repository with a transaction
func newBalanceRepositoryWithTx(tx queryable) *BalanceRepository {
	return &BalanceRepository{q: tx}
}

// GetByUserID retrieves a balance record, or nil if the user has none yet
func (r *BalanceRepository) GetByUserID(ctx context.Context, userID int64) (*models.BalanceRecord, error) {
	query := `
		SELECT user_id, wallet, bank, created_at, updated_at
		FROM balances
		WHERE user_id = $1
	`

	var record models.BalanceRecord
	err := r.q.QueryRow(ctx, query, userID).Scan(
		&record.UserID,
		&record.Wallet,
		&record.Bank,
		&record.CreatedAt,
		&record.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get balance for user %d: %w", userID, wrapStorageErr(err))
	}

	return &record, nil
}

// GetOrCreate retrieves a balance record, lazily inserting the zero record on
// first reference. Created reports whether a new record was inserted.
func (r *BalanceRepository) GetOrCreate(ctx context.Context, userID int64, startingBalance int64) (record *models.BalanceRecord, created bool, err error) {
	query := `
		INSERT INTO balances (user_id, wallet, bank)
		VALUES ($1, $2, 0)
		ON CONFLICT (user_id) DO NOTHING
		RETURNING user_id, wallet, bank, created_at, updated_at
	`

	var rec models.BalanceRecord
	err = r.q.QueryRow(ctx, query, userID, startingBalance).Scan(
		&rec.UserID,
		&rec.Wallet,
		&rec.Bank,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	)
	if err == nil {
		return &rec, true, nil
	}
	if err != pgx.ErrNoRows {
		return nil, false, fmt.Errorf("failed to create balance for user %d: %w", userID, wrapStorageErr(err))
	}

	// Record already existed; read it back
	existing, err := r.GetByUserID(ctx, userID)
	if err != nil {
		return nil, false, err
	}
	if existing == nil {
		return nil, false, fmt.Errorf("balance for user %d vanished during creation", userID)
	}
	return existing, false, nil
}

// LockForUpdate acquires row locks on the given users' balance records in
// ascending user order. Locking in a fixed global order prevents deadlock
// between compound operations running in opposite directions.
func (r *BalanceRepository) LockForUpdate(ctx context.Context, userIDs ...int64) error {
	query := `
		SELECT user_id FROM balances
		WHERE user_id = ANY($1)
		ORDER BY user_id
		FOR UPDATE
	`

	rows, err := r.q.Query(ctx, query, userIDs)
	if err != nil {
		return fmt.Errorf("failed to lock balance rows: %w", wrapStorageErr(err))
	}
	rows.Close()

	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to lock balance rows: %w", err)
	}

	return nil
}

// Adjust applies wallet and bank deltas to one record as a single atomic
// unit. The update only matches when neither resulting field would go
// negative, so a zero row count means either a missing record or
// insufficient funds; callers distinguish the two by re-reading.
func (r *BalanceRepository) Adjust(ctx context.Context, userID int64, walletDelta, bankDelta int64) (*models.BalanceRecord, error) {
	query := `
		UPDATE balances
		SET wallet = wallet + $1, bank = bank + $2, updated_at = NOW()
		WHERE user_id = $3
		  AND wallet + $1 >= 0
		  AND bank + $2 >= 0
		RETURNING user_id, wallet, bank, created_at, updated_at
	`

	var record models.BalanceRecord
	err := r.q.QueryRow(ctx, query, walletDelta, bankDelta, userID).Scan(
		&record.UserID,
		&record.Wallet,
		&record.Bank,
		&record.CreatedAt,
		&record.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		existing, getErr := r.GetByUserID(ctx, userID)
		if getErr != nil {
			return nil, fmt.Errorf("failed to check balance after rejected adjust: %w", getErr)
		}
		if existing == nil {
			return nil, fmt.Errorf("balance record for user %d not found: %w", userID, service.ErrInvalidUser)
		}
		return nil, fmt.Errorf("adjust of (%d, %d) for user %d rejected: %w", walletDelta, bankDelta, userID, service.ErrInsufficientFunds)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to adjust balance for user %d: %w", userID, wrapStorageErr(err))
	}

	return &record, nil
}

// GetTopByTotal returns the richest users by combined wallet and bank balance
func (r *BalanceRepository) GetTopByTotal(ctx context.Context, limit int) ([]*models.BalanceRecord, error) {
	query := `
		SELECT user_id, wallet, bank, created_at, updated_at
		FROM balances
		WHERE wallet + bank > 0
		ORDER BY wallet + bank DESC
		LIMIT $1
	`

	rows, err := r.q.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get top balances: %w", wrapStorageErr(err))
	}
	defer rows.Close()

	var records []*models.BalanceRecord
	for rows.Next() {
		var record models.BalanceRecord
		err := rows.Scan(
			&record.UserID,
			&record.Wallet,
			&record.Bank,
			&record.CreatedAt,
			&record.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan balance record: %w", err)
		}
		records = append(records, &record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate balance records: %w", err)
	}

	return records, nil
}
