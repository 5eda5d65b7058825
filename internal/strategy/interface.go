package strategy

import (
	"github.com/arunisean/paperbot/pkg/types"
)

// Strategy decides the trades for a full bar series. The backtest engine
// invokes Execute exactly once per run with the complete, time-ascending
// series; the returned trades must already be in chronological order.
type Strategy interface {
	// Execute analyzes the series and returns the trades it executed
	Execute(bars []types.MarketBar) ([]types.Trade, error)

	// Name returns the name of the strategy
	Name() string
}

// Func adapts a plain function to the Strategy interface.
type Func func(bars []types.MarketBar) ([]types.Trade, error)

func (f Func) Execute(bars []types.MarketBar) ([]types.Trade, error) {
	return f(bars)
}

func (f Func) Name() string {
	return "func"
}
