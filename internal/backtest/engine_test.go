package backtest

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arunisean/paperbot/internal/errors"
	"github.com/arunisean/paperbot/internal/market"
	"github.com/arunisean/paperbot/internal/strategy"
	"github.com/arunisean/paperbot/pkg/config"
	"github.com/arunisean/paperbot/pkg/types"
)

func testRunConfig() config.BacktestConfig {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return config.BacktestConfig{
		StartDate:      start,
		EndDate:        start.Add(24 * time.Hour),
		Symbols:        []string{"BTCUSDT"},
		Interval:       time.Hour,
		InitialBalance: 10000.0,
		FeeRate:        0.001,
		DataSource:     config.DataSourceGenerated,
		Generator: config.GeneratorConfig{
			Volatility: 0.02,
			Trend:      config.TrendSideways,
			BasePrice:  100.0,
		},
	}
}

// tradesWithPnL builds a chronological trade list from a P&L sequence
func tradesWithPnL(pnls ...float64) []types.Trade {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	trades := make([]types.Trade, 0, len(pnls))
	for i, pnl := range pnls {
		trades = append(trades, types.Trade{
			Timestamp:  start.Add(time.Duration(i) * time.Hour),
			Symbol:     "BTCUSDT",
			Side:       types.SideSell,
			ProfitLoss: pnl,
		})
	}
	return trades
}

// stubStrategy returns fixed trades and records the series it was given
type stubStrategy struct {
	trades      []types.Trade
	invocations int
	seenBars    [][]types.MarketBar
}

func (s *stubStrategy) Execute(bars []types.MarketBar) ([]types.Trade, error) {
	s.invocations++
	s.seenBars = append(s.seenBars, bars)
	return s.trades, nil
}

func (s *stubStrategy) Name() string { return "stub" }

// TestRun_Summary tests the trade fold and summary statistics
func TestRun_Summary(t *testing.T) {
	engine := NewEngine(market.NewGeneratorWithSeed(42))
	strat := &stubStrategy{trades: tradesWithPnL(10, 5, -3, 2, -1, -1)}

	result, err := engine.Run(testRunConfig(), strat)

	require.NoError(t, err)
	assert.Equal(t, 1, strat.invocations)
	assert.Equal(t, 10000.0, result.StartBalance)
	assert.Equal(t, 10012.0, result.EndBalance)
	assert.InDelta(t, 0.12, result.TotalReturnPct, 1e-9)
	assert.Equal(t, 6, result.TotalTrades)
	assert.Equal(t, 3, result.WinningTrades)
	assert.Equal(t, 3, result.LosingTrades)
	assert.InDelta(t, 50.0, result.WinRatePct, 1e-9)

	// Peak was 10015 after the second trade; trough 10012
	assert.InDelta(t, (10015.0-10012.0)/10015.0*100, result.MaxDrawdownPct, 1e-9)

	require.Len(t, result.EquityCurve, 6)
	assert.Equal(t, 10010.0, result.EquityCurve[0].Balance)
	assert.Equal(t, 10015.0, result.EquityCurve[1].Balance)
	assert.Equal(t, 10012.0, result.EquityCurve[5].Balance)

	// Trades are annotated with the running balance
	assert.Equal(t, 10010.0, result.Trades[0].BalanceAfter)
	assert.Equal(t, 10012.0, result.Trades[5].BalanceAfter)
}

// TestRun_Metrics tests the post-processed performance statistics
func TestRun_Metrics(t *testing.T) {
	engine := NewEngine(market.NewGeneratorWithSeed(42))
	strat := &stubStrategy{trades: tradesWithPnL(10, 5, -3, 2, -1, -1)}

	result, err := engine.Run(testRunConfig(), strat)

	require.NoError(t, err)
	m := result.Metrics
	assert.InDelta(t, 12.0, m.TotalProfitLoss, 1e-9)
	assert.InDelta(t, 2.0, m.Expectancy, 1e-9)
	assert.InDelta(t, 17.0/3.0, m.AverageProfitPerTrade, 1e-9)
	assert.InDelta(t, -5.0/3.0, m.AverageLossPerTrade, 1e-9)
	assert.Equal(t, 10.0, m.LargestWin)
	assert.Equal(t, -3.0, m.LargestLoss)
	assert.Equal(t, 2, m.ConsecutiveWins)
	assert.Equal(t, 2, m.ConsecutiveLosses) // the trailing -1,-1
	assert.InDelta(t, 17.0/5.0, m.ProfitFactor, 1e-9)
}

// TestRun_NoTrades tests explicit zero defaults on an empty run
func TestRun_NoTrades(t *testing.T) {
	engine := NewEngine(market.NewGeneratorWithSeed(42))
	strat := &stubStrategy{}

	result, err := engine.Run(testRunConfig(), strat)

	require.NoError(t, err)
	assert.Equal(t, 10000.0, result.EndBalance)
	assert.Equal(t, 0.0, result.TotalReturnPct)
	assert.Equal(t, 0, result.TotalTrades)
	assert.Equal(t, 0.0, result.WinRatePct)
	assert.Equal(t, 0.0, result.MaxDrawdownPct)
	assert.Equal(t, 0.0, result.SharpeRatio)
	assert.Equal(t, 0.0, result.Metrics.Expectancy)
	assert.Empty(t, result.EquityCurve)
}

// TestRun_SeriesCache tests that repeated runs reuse the resolved series
func TestRun_SeriesCache(t *testing.T) {
	engine := NewEngine(market.NewGeneratorWithSeed(42))
	strat := &stubStrategy{}
	cfg := testRunConfig()

	_, err := engine.Run(cfg, strat)
	require.NoError(t, err)
	_, err = engine.Run(cfg, strat)
	require.NoError(t, err)

	// Without the cache the second run would regenerate from an advanced
	// RNG state and produce a different series.
	require.Len(t, strat.seenBars, 2)
	assert.Equal(t, strat.seenBars[0], strat.seenBars[1])
}

// TestRun_HistoricalFallsBack tests the historical source warning path
func TestRun_HistoricalFallsBack(t *testing.T) {
	engine := NewEngine(market.NewGeneratorWithSeed(42))
	strat := &stubStrategy{}
	cfg := testRunConfig()
	cfg.DataSource = config.DataSourceHistorical

	_, err := engine.Run(cfg, strat)

	require.NoError(t, err)
	require.Len(t, strat.seenBars, 1)
	assert.NotEmpty(t, strat.seenBars[0]) // generated data stood in
}

// TestRun_ReplaySource tests that injected bars reach the strategy untouched
func TestRun_ReplaySource(t *testing.T) {
	replay := []types.MarketBar{
		{Timestamp: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), Symbol: "BTCUSDT", Close: 100, Source: "replay"},
		{Timestamp: time.Date(2024, 1, 1, 1, 0, 0, 0, time.UTC), Symbol: "BTCUSDT", Close: 101, Source: "replay"},
	}
	engine := NewEngine(market.NewGeneratorWithSeed(42)).WithReplayData(replay)
	strat := &stubStrategy{}
	cfg := testRunConfig()
	cfg.DataSource = config.DataSourceReplay

	_, err := engine.Run(cfg, strat)

	require.NoError(t, err)
	require.Len(t, strat.seenBars, 1)
	assert.Equal(t, replay, strat.seenBars[0])
}

// TestRun_ReplayWithoutData tests the misconfiguration error
func TestRun_ReplayWithoutData(t *testing.T) {
	engine := NewEngine(market.NewGeneratorWithSeed(42))
	cfg := testRunConfig()
	cfg.DataSource = config.DataSourceReplay

	_, err := engine.Run(cfg, &stubStrategy{})
	assert.Error(t, err)
}

// TestRun_InvalidConfig tests fail-fast run validation
func TestRun_InvalidConfig(t *testing.T) {
	engine := NewEngine(market.NewGeneratorWithSeed(42))

	cfg := testRunConfig()
	cfg.DataSource = "quantum"
	_, err := engine.Run(cfg, &stubStrategy{})
	assert.True(t, errors.IsValidation(err))

	cfg = testRunConfig()
	cfg.InitialBalance = 0
	_, err = engine.Run(cfg, &stubStrategy{})
	assert.True(t, errors.IsValidation(err))

	_, err = engine.Run(testRunConfig(), nil)
	assert.True(t, errors.IsValidation(err))
}

// TestRun_StrategyErrorAbortsRun tests that a throwing strategy fails the run
func TestRun_StrategyErrorAbortsRun(t *testing.T) {
	engine := NewEngine(market.NewGeneratorWithSeed(42))
	failing := strategy.Func(func(bars []types.MarketBar) ([]types.Trade, error) {
		return nil, fmt.Errorf("strategy blew up")
	})

	result, err := engine.Run(testRunConfig(), failing)

	assert.Nil(t, result)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "strategy blew up")
}
