package portfolio

import (
	"time"

	"github.com/google/uuid"

	"github.com/arunisean/paperbot/internal/errors"
	"github.com/arunisean/paperbot/pkg/types"
)

// Quantities within this distance of zero close the position. Exact float
// equality would leave dust positions behind.
const quantityEpsilon = 1e-9

// Position is one open holding, owned by exactly one portfolio.
type Position struct {
	Symbol              string    `json:"symbol"`
	Quantity            float64   `json:"quantity"`
	AveragePrice        float64   `json:"average_price"` // weighted-average cost basis
	CurrentPrice        float64   `json:"current_price"`
	UnrealizedPL        float64   `json:"unrealized_pl"`
	UnrealizedPLPercent float64   `json:"unrealized_pl_percent"`
	OpenedAt            time.Time `json:"opened_at"`
}

// TradeObserver is notified after every applied trade. No retries, no
// buffering: observers run inline on the applying goroutine.
type TradeObserver func(trade types.Trade)

// Portfolio tracks cash and per-symbol positions for one simulated account.
// Mutation goes through ApplyTrade only; not safe for concurrent use.
type Portfolio struct {
	ID          uuid.UUID            `json:"id"`
	OwnerID     string               `json:"owner_id"`
	CashBalance float64              `json:"cash_balance"`
	Positions   map[string]*Position `json:"positions"`
	TotalValue  float64              `json:"total_value"`
	Currency    string               `json:"currency"`
	TradeLog    []types.Trade        `json:"trade_log"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`

	observer TradeObserver
}

// Open creates a fresh virtual portfolio for an owner
func Open(ownerID string, initialBalance float64, currency string) (*Portfolio, error) {
	if initialBalance <= 0 {
		return nil, errors.NewValidationError("initial_balance", "must be positive")
	}
	if currency == "" {
		currency = "USDT"
	}

	now := time.Now()
	return &Portfolio{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		CashBalance: initialBalance,
		Positions:   make(map[string]*Position),
		TotalValue:  initialBalance,
		Currency:    currency,
		TradeLog:    make([]types.Trade, 0),
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// SetObserver installs the trade-applied callback. A nil observer is a no-op.
func (p *Portfolio) SetObserver(fn TradeObserver) {
	p.observer = fn
}

// ApplyTrade executes one buy or sell against the portfolio and appends it to
// the trade log. On rejection (insufficient funds or position) the portfolio
// is left untouched.
func (p *Portfolio) ApplyTrade(ts time.Time, symbol string, side types.Side, quantity, price, feeRate float64, reason string) (*types.Trade, error) {
	if quantity <= 0 {
		return nil, errors.NewValidationError("quantity", "must be positive")
	}
	if price <= 0 {
		return nil, errors.NewValidationError("price", "must be positive")
	}
	if feeRate < 0 {
		return nil, errors.NewValidationError("fee_rate", "must not be negative")
	}

	notional := quantity * price
	fee := notional * feeRate

	trade := types.Trade{
		ID:            uuid.New(),
		Timestamp:     ts,
		Symbol:        symbol,
		Side:          side,
		Price:         price,
		Quantity:      quantity,
		NotionalValue: notional,
		Fee:           fee,
		Reason:        reason,
	}

	switch side {
	case types.SideBuy:
		cost := notional + fee
		if p.CashBalance < cost {
			return nil, &errors.InsufficientFundsError{
				Symbol:    symbol,
				Required:  cost,
				Available: p.CashBalance,
			}
		}

		p.CashBalance -= cost

		pos, exists := p.Positions[symbol]
		if !exists {
			pos = &Position{
				Symbol:       symbol,
				AveragePrice: price,
				OpenedAt:     ts,
			}
			p.Positions[symbol] = pos
		} else {
			pos.AveragePrice = (pos.AveragePrice*pos.Quantity + notional) / (pos.Quantity + quantity)
		}
		pos.Quantity += quantity

	case types.SideSell:
		pos, exists := p.Positions[symbol]
		if !exists || pos.Quantity+quantityEpsilon < quantity {
			held := 0.0
			if exists {
				held = pos.Quantity
			}
			return nil, &errors.InsufficientPositionError{
				Symbol:    symbol,
				Requested: quantity,
				Held:      held,
			}
		}

		trade.ProfitLoss = (price-pos.AveragePrice)*quantity - fee
		trade.ProfitLossPercent = (price - pos.AveragePrice) / pos.AveragePrice * 100

		p.CashBalance += notional - fee

		pos.Quantity -= quantity
		if pos.Quantity <= quantityEpsilon {
			delete(p.Positions, symbol)
		}

	default:
		return nil, errors.NewValidationError("side", "must be buy or sell")
	}

	p.markPrice(symbol, price)
	p.recomputeTotalValue()
	p.UpdatedAt = ts

	trade.BalanceAfter = p.CashBalance
	p.TradeLog = append(p.TradeLog, trade)

	if p.observer != nil {
		p.observer(trade)
	}

	return &trade, nil
}

// MarkPrice updates the mark price for a symbol and refreshes valuations.
// Unknown symbols are ignored.
func (p *Portfolio) MarkPrice(symbol string, price float64) {
	p.markPrice(symbol, price)
	p.recomputeTotalValue()
}

func (p *Portfolio) markPrice(symbol string, price float64) {
	pos, exists := p.Positions[symbol]
	if !exists {
		return
	}
	pos.CurrentPrice = price
	pos.UnrealizedPL = (price - pos.AveragePrice) * pos.Quantity
	if pos.AveragePrice > 0 {
		pos.UnrealizedPLPercent = (price - pos.AveragePrice) / pos.AveragePrice * 100
	}
}

func (p *Portfolio) recomputeTotalValue() {
	total := p.CashBalance
	for _, pos := range p.Positions {
		total += pos.Quantity * pos.CurrentPrice
	}
	p.TotalValue = total
}

// Position returns the open position for a symbol, or nil when flat.
func (p *Portfolio) Position(symbol string) *Position {
	return p.Positions[symbol]
}
