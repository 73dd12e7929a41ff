package models

import "time"

// WagerOutcome represents the resolved result of a single play (returned to
// the caller). Payout is stake * multiplier rounded to whole NRC; NetChange
// is payout minus stake.
type WagerOutcome struct {
	Game       string
	UserID     int64
	Stake      int64
	Multiplier float64
	Payout     int64
	NetChange  int64
	NewWallet  int64
	Details    map[string]any
	PlayedAt   time.Time
}

// Won reports whether the play paid anything out.
func (o *WagerOutcome) Won() bool {
	return o.Payout > 0
}
