package service

import "errors"

// Error taxonomy for economic operations. All of these are expected,
// recoverable outcomes: validation failures never mutate the ledger, and
// callers match them with errors.Is.
var (
	// ErrInvalidAmount indicates a transfer amount that is not a positive integer
	ErrInvalidAmount = errors.New("amount must be a positive integer")

	// ErrInvalidStake indicates a wager stake outside the configured bet range
	ErrInvalidStake = errors.New("stake is outside the allowed bet range")

	// ErrInvalidPrice indicates a listing price outside the allowed range
	ErrInvalidPrice = errors.New("price is outside the allowed range")

	// ErrSelfTransfer indicates an attempt to transfer NRC to oneself
	ErrSelfTransfer = errors.New("cannot transfer to yourself")

	// ErrSelfPurchase indicates an attempt to buy one's own listing
	ErrSelfPurchase = errors.New("cannot purchase your own listing")

	// ErrRateLimited indicates the actor exceeded the operation rate for the window
	ErrRateLimited = errors.New("rate limit exceeded, try again later")

	// ErrInsufficientFunds indicates a balance would go negative
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrListingUnavailable indicates the listing does not exist or is no longer active
	ErrListingUnavailable = errors.New("listing is not available")

	// ErrNotListingOwner indicates an attempt to cancel someone else's listing
	ErrNotListingOwner = errors.New("only the seller can cancel a listing")

	// ErrSettlementFailed indicates a purchase failed after the buyer debit and
	// was rolled back; the buyer keeps their funds
	ErrSettlementFailed = errors.New("settlement failed, buyer refunded")

	// ErrInvalidUser indicates an empty or unusable user ID
	ErrInvalidUser = errors.New("invalid user")

	// ErrUnknownGame indicates a wager against a game that is not registered
	ErrUnknownGame = errors.New("unknown game")

	// ErrStorageUnavailable indicates the record store could not be reached;
	// the outcome of an in-flight mutation is unknown and callers may retry
	// with backoff
	ErrStorageUnavailable = errors.New("storage unavailable")
)
