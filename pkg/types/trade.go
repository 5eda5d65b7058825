package types

import (
	"time"

	"github.com/google/uuid"
)

// Side represents the direction of a trade.
type Side int

const (
	SideBuy Side = iota
	SideSell
)

func (s Side) String() string {
	switch s {
	case SideBuy:
		return "BUY"
	case SideSell:
		return "SELL"
	default:
		return "UNKNOWN"
	}
}

// Trade is one executed paper trade. Records are append-only: once a trade
// is written to a portfolio's log it is never mutated.
type Trade struct {
	ID                uuid.UUID `json:"id"`
	Timestamp         time.Time `json:"timestamp"`
	Symbol            string    `json:"symbol"`
	Side              Side      `json:"side"`
	Price             float64   `json:"price"`
	Quantity          float64   `json:"quantity"`
	NotionalValue     float64   `json:"notional_value"`
	Fee               float64   `json:"fee"`
	ProfitLoss        float64   `json:"profit_loss"`         // realized P&L, sells only
	ProfitLossPercent float64   `json:"profit_loss_percent"` // realized P&L vs cost basis, sells only
	BalanceAfter      float64   `json:"balance_after"`
	Reason            string    `json:"reason"`
}
