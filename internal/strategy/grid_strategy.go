package strategy

import (
	"fmt"

	"github.com/arunisean/paperbot/internal/grid"
	"github.com/arunisean/paperbot/internal/portfolio"
	"github.com/arunisean/paperbot/pkg/config"
	"github.com/arunisean/paperbot/pkg/types"
)

// lot is one grid purchase waiting to be sold at a higher level.
type lot struct {
	levelPrice float64
	quantity   float64
}

// GridStrategy trades a single symbol against evenly spaced price levels.
// Each bar is scored by the stateless grid signal calculator; fills go
// through the virtual portfolio so funds and inventory stay honest.
type GridStrategy struct {
	cfg       config.GridConfig
	symbol    string
	feeRate   float64
	portfolio *portfolio.Portfolio

	lots []lot
}

// NewGridStrategy creates a grid strategy bound to a portfolio
func NewGridStrategy(cfg config.GridConfig, symbol string, port *portfolio.Portfolio, feeRate float64) (*GridStrategy, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if symbol == "" {
		return nil, fmt.Errorf("symbol is required")
	}
	if port == nil {
		return nil, fmt.Errorf("portfolio is required")
	}

	return &GridStrategy{
		cfg:       cfg,
		symbol:    symbol,
		feeRate:   feeRate,
		portfolio: port,
	}, nil
}

// Name returns the name of the strategy
func (gs *GridStrategy) Name() string {
	return "grid"
}

// Execute walks the series once and returns every applied trade in
// chronological order. Rejected trades (not enough cash or inventory for a
// level) are skipped, not fatal; a signal computation error aborts the run.
func (gs *GridStrategy) Execute(bars []types.MarketBar) ([]types.Trade, error) {
	var trades []types.Trade

	for _, bar := range bars {
		if bar.Symbol != gs.symbol {
			continue
		}

		result, err := grid.ComputeSignal(gs.cfg, bar.Close)
		if err != nil {
			return nil, fmt.Errorf("grid signal at %s: %w", bar.Timestamp.Format("2006-01-02 15:04:05"), err)
		}

		gs.portfolio.MarkPrice(gs.symbol, bar.Close)

		if result.Range.IsOutOfRange {
			// Price escaped the grid; hold until it returns.
			continue
		}

		switch result.Signal.Action {
		case grid.ActionBuy:
			if trade := gs.tryBuy(bar, result.Signal); trade != nil {
				trades = append(trades, *trade)
			}
		case grid.ActionSell:
			if trade := gs.trySell(bar, result.Signal); trade != nil {
				trades = append(trades, *trade)
			}
		}
	}

	return trades, nil
}

func (gs *GridStrategy) tryBuy(bar types.MarketBar, signal grid.Signal) *types.Trade {
	// One open lot per level; re-buy only after the level's lot was sold.
	for _, l := range gs.lots {
		if l.levelPrice == signal.Price {
			return nil
		}
	}

	reason := fmt.Sprintf("grid buy at level %.4f", signal.Price)
	trade, err := gs.portfolio.ApplyTrade(bar.Timestamp, gs.symbol, types.SideBuy,
		signal.Quantity, signal.Price, gs.feeRate, reason)
	if err != nil {
		// Not enough cash for this level; skip and keep scanning.
		return nil
	}

	gs.lots = append(gs.lots, lot{levelPrice: signal.Price, quantity: signal.Quantity})
	return trade
}

func (gs *GridStrategy) trySell(bar types.MarketBar, signal grid.Signal) *types.Trade {
	// Sell the oldest lot bought below this level.
	idx := -1
	for i, l := range gs.lots {
		if l.levelPrice < signal.Price {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}

	sold := gs.lots[idx]
	reason := fmt.Sprintf("grid sell at level %.4f (bought %.4f)", signal.Price, sold.levelPrice)
	trade, err := gs.portfolio.ApplyTrade(bar.Timestamp, gs.symbol, types.SideSell,
		sold.quantity, signal.Price, gs.feeRate, reason)
	if err != nil {
		return nil
	}

	gs.lots = append(gs.lots[:idx], gs.lots[idx+1:]...)
	return trade
}

// OpenLots returns the number of grid lots currently held.
func (gs *GridStrategy) OpenLots() int {
	return len(gs.lots)
}
