package repository

import (
	"context"
	"fmt"

	"neurocoin/database"
	"neurocoin/models"

	"github.com/jackc/pgx/v5"
)

// ListingRepository implements the ListingRepository interface
type ListingRepository struct {
	q queryable
}

// NewListingRepository creates a new listing repository
func NewListingRepository(db *database.DB) *ListingRepository {
	return &ListingRepository{q: db.Pool}
}

// newListingRepositoryWithTx creates a new listing repository with a transaction
func newListingRepositoryWithTx(tx queryable) *ListingRepository {
	return &ListingRepository{q: tx}
}

const listingColumns = `id, seller_id, item_ref, price, status, buyer_id, settled_at, created_at, updated_at`

func scanListing(row pgx.Row) (*models.Listing, error) {
	var listing models.Listing
	err := row.Scan(
		&listing.ID,
		&listing.SellerID,
		&listing.ItemRef,
		&listing.Price,
		&listing.Status,
		&listing.BuyerID,
		&listing.SettledAt,
		&listing.CreatedAt,
		&listing.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &listing, nil
}

// Create inserts a new active listing
func (r *ListingRepository) Create(ctx context.Context, listing *models.Listing) error {
	query := `
		INSERT INTO listings (id, seller_id, item_ref, price, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at
	`

	err := r.q.QueryRow(ctx, query,
		listing.ID,
		listing.SellerID,
		listing.ItemRef,
		listing.Price,
		listing.Status,
	).Scan(&listing.CreatedAt, &listing.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create listing %s: %w", listing.ID, wrapStorageErr(err))
	}

	return nil
}

// GetByID retrieves a listing by its ID, or nil if it does not exist
func (r *ListingRepository) GetByID(ctx context.Context, id string) (*models.Listing, error) {
	query := `SELECT ` + listingColumns + ` FROM listings WHERE id = $1`

	listing, err := scanListing(r.q.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get listing %s: %w", id, wrapStorageErr(err))
	}

	return listing, nil
}

// GetByIDForUpdate retrieves a listing and locks its row for the duration of
// the enclosing transaction
func (r *ListingRepository) GetByIDForUpdate(ctx context.Context, id string) (*models.Listing, error) {
	query := `SELECT ` + listingColumns + ` FROM listings WHERE id = $1 FOR UPDATE`

	listing, err := scanListing(r.q.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock listing %s: %w", id, wrapStorageErr(err))
	}

	return listing, nil
}

// MarkSold transitions a listing from active to sold, recording the buyer and
// settlement time. Returns false when the listing was not active, which is
// what guarantees a listing sells at most once.
func (r *ListingRepository) MarkSold(ctx context.Context, id string, buyerID int64) (bool, error) {
	query := `
		UPDATE listings
		SET status = $1, buyer_id = $2, settled_at = NOW(), updated_at = NOW()
		WHERE id = $3 AND status = $4
	`

	result, err := r.q.Exec(ctx, query, models.ListingStatusSold, buyerID, id, models.ListingStatusActive)
	if err != nil {
		return false, fmt.Errorf("failed to mark listing %s sold: %w", id, wrapStorageErr(err))
	}

	return result.RowsAffected() > 0, nil
}

// MarkCancelled transitions a listing from active to cancelled. Returns false
// when the listing was not active.
func (r *ListingRepository) MarkCancelled(ctx context.Context, id string) (bool, error) {
	query := `
		UPDATE listings
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = $3
	`

	result, err := r.q.Exec(ctx, query, models.ListingStatusCancelled, id, models.ListingStatusActive)
	if err != nil {
		return false, fmt.Errorf("failed to cancel listing %s: %w", id, wrapStorageErr(err))
	}

	return result.RowsAffected() > 0, nil
}

// GetActive returns active listings, newest first
func (r *ListingRepository) GetActive(ctx context.Context, limit int) ([]*models.Listing, error) {
	query := `
		SELECT ` + listingColumns + `
		FROM listings
		WHERE status = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.q.Query(ctx, query, models.ListingStatusActive, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get active listings: %w", wrapStorageErr(err))
	}
	defer rows.Close()

	var listings []*models.Listing
	for rows.Next() {
		listing, err := scanListing(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan listing: %w", err)
		}
		listings = append(listings, listing)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate listings: %w", err)
	}

	return listings, nil
}
