package backtest

import (
	"fmt"
	"log"

	"github.com/arunisean/paperbot/internal/errors"
	"github.com/arunisean/paperbot/internal/market"
	"github.com/arunisean/paperbot/internal/monitoring"
	"github.com/arunisean/paperbot/internal/strategy"
	"github.com/arunisean/paperbot/pkg/config"
	"github.com/arunisean/paperbot/pkg/types"
)

// Engine runs strategies against resolved bar series and folds their trades
// into an equity curve and performance report. One engine instance owns one
// series cache; runs on the same instance with identical parameters reuse
// the resolved series.
type Engine struct {
	generator *market.Generator
	cache     *market.SeriesCache
	replay    []types.MarketBar
}

// NewEngine creates a backtest engine backed by the given generator
func NewEngine(generator *market.Generator) *Engine {
	return &Engine{
		generator: generator,
		cache:     market.NewSeriesCache(),
	}
}

// WithReplayData injects a pre-resolved bar series for the "replay" data
// source and returns the engine for chaining.
func (e *Engine) WithReplayData(bars []types.MarketBar) *Engine {
	e.replay = bars
	return e
}

// ClearCache drops all memoized series.
func (e *Engine) ClearCache() {
	e.cache.Clear()
}

// Run executes one backtest: resolve bars, invoke the strategy exactly once
// over the full series, then fold the returned trades into balance, equity
// curve and summary statistics. A strategy error aborts the whole run.
func (e *Engine) Run(cfg config.BacktestConfig, strat strategy.Strategy) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if strat == nil {
		return nil, errors.NewValidationError("strategy", "is required")
	}

	bars, err := e.resolveBars(cfg)
	if err != nil {
		monitoring.RecordError("data_source")
		return nil, err
	}

	trades, err := strat.Execute(bars)
	if err != nil {
		monitoring.RecordError("strategy")
		return nil, errors.WrapError(err, errors.ErrorCategoryStrategy, "engine", "execute strategy")
	}

	result := &Result{
		Period:       Period{Start: cfg.StartDate, End: cfg.EndDate},
		StartBalance: cfg.InitialBalance,
		Trades:       make([]types.Trade, 0, len(trades)),
		EquityCurve:  make([]types.EquityPoint, 0, len(trades)),
	}

	// Trades are trusted to be chronological already; no reordering.
	balance := cfg.InitialBalance
	peak := cfg.InitialBalance
	maxDrawdown := 0.0

	for _, trade := range trades {
		balance += trade.ProfitLoss
		if balance > peak {
			peak = balance
		}

		drawdown := (peak - balance) / peak * 100
		if drawdown > maxDrawdown {
			maxDrawdown = drawdown
		}

		trade.BalanceAfter = balance
		result.Trades = append(result.Trades, trade)
		result.EquityCurve = append(result.EquityCurve, types.EquityPoint{
			Timestamp:      trade.Timestamp,
			Balance:        balance,
			PortfolioValue: balance,
			DrawdownPct:    drawdown,
		})

		monitoring.RecordTrade(trade.Symbol, trade.Side.String())

		if trade.ProfitLoss > 0 {
			result.WinningTrades++
		} else if trade.ProfitLoss < 0 {
			result.LosingTrades++
		}
	}

	result.EndBalance = balance
	result.TotalReturnPct = (balance - cfg.InitialBalance) / cfg.InitialBalance * 100
	result.TotalTrades = len(result.Trades)
	result.MaxDrawdownPct = maxDrawdown
	if result.TotalTrades > 0 {
		result.WinRatePct = float64(result.WinningTrades) / float64(result.TotalTrades) * 100
	}
	result.SharpeRatio = CalculateSharpeRatio(result.EquityCurve)
	result.Metrics = ComputeMetrics(result.Trades, cfg.InitialBalance, balance)

	monitoring.RecordBacktestRun()
	monitoring.SetLastBalance(balance)

	return result, nil
}

// resolveBars returns the bar series for the run, memoized per engine
// instance by symbols, interval and source.
func (e *Engine) resolveBars(cfg config.BacktestConfig) ([]types.MarketBar, error) {
	key := market.CacheKey(cfg.Symbols, cfg.Interval, cfg.DataSource)
	if cached, ok := e.cache.Get(key); ok {
		return cached, nil
	}

	var bars []types.MarketBar
	var err error

	switch cfg.DataSource {
	case config.DataSourceGenerated:
		bars, err = e.generator.Generate(cfg.Generator, cfg.Symbols, cfg.StartDate, cfg.EndDate, cfg.Interval)
	case config.DataSourceHistorical:
		log.Printf("⚠️ No historical data loader available, falling back to generated data")
		bars, err = e.generator.Generate(cfg.Generator, cfg.Symbols, cfg.StartDate, cfg.EndDate, cfg.Interval)
	case config.DataSourceReplay:
		if len(e.replay) == 0 {
			return nil, fmt.Errorf("replay data source selected but no replay data injected")
		}
		bars = e.replay
	default:
		return nil, &errors.UnknownDataSourceError{Source: cfg.DataSource}
	}
	if err != nil {
		return nil, err
	}

	e.cache.Set(key, bars)
	return bars, nil
}
