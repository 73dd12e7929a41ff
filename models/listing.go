package models

import "time"

// ListingStatus represents the lifecycle state of a marketplace listing
type ListingStatus string

const (
	ListingStatusActive    ListingStatus = "active"
	ListingStatusSold      ListingStatus = "sold"
	ListingStatusCancelled ListingStatus = "cancelled"
)

// Listing price bounds in NRC
const (
	MinListingPrice int64 = 1
	MaxListingPrice int64 = 10_000_000
)

// Listing represents a marketplace listing. A listing transitions
// active -> sold exactly once, or active -> cancelled by the seller.
type Listing struct {
	ID        string        `db:"id"`
	SellerID  int64         `db:"seller_id"`
	ItemRef   string        `db:"item_ref"`
	Price     int64         `db:"price"`
	Status    ListingStatus `db:"status"`
	BuyerID   *int64        `db:"buyer_id"`
	SettledAt *time.Time    `db:"settled_at"`
	CreatedAt time.Time     `db:"created_at"`
	UpdatedAt time.Time     `db:"updated_at"`
}
