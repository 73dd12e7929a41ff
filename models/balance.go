package models

import (
	"time"
)

// BalanceRecord holds a user's NeuroCoin balances. Wallet is the liquid,
// immediately spendable partition; Bank is the protected partition. Both are
// integer NRC and never go negative.
type BalanceRecord struct {
	UserID    int64     `db:"user_id"`
	Wallet    int64     `db:"wallet"`
	Bank      int64     `db:"bank"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Total returns the combined wallet and bank balance.
func (b *BalanceRecord) Total() int64 {
	return b.Wallet + b.Bank
}

// TransferReceipt is returned to the caller after a successful peer-to-peer
// transfer.
type TransferReceipt struct {
	FromUserID   int64
	ToUserID     int64
	Amount       int64
	SenderWallet int64
	Timestamp    time.Time
}

// PurchaseReceipt is returned to the caller after a successful marketplace
// settlement.
type PurchaseReceipt struct {
	ListingID    string
	BuyerID      int64
	SellerID     int64
	ItemRef      string
	Price        int64
	Fee          int64
	SellerCredit int64
	SettledAt    time.Time
}
