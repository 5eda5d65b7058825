package portfolio

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arunisean/paperbot/internal/errors"
	"github.com/arunisean/paperbot/pkg/types"
)

var tradeTime = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

// TestOpen tests portfolio creation
func TestOpen(t *testing.T) {
	port, err := Open("user-1", 10000.0, "USDT")

	require.NoError(t, err)
	assert.Equal(t, "user-1", port.OwnerID)
	assert.Equal(t, 10000.0, port.CashBalance)
	assert.Equal(t, 10000.0, port.TotalValue)
	assert.Equal(t, "USDT", port.Currency)
	assert.Empty(t, port.Positions)
	assert.Empty(t, port.TradeLog)
}

// TestOpen_InvalidBalance tests rejection of non-positive balances
func TestOpen_InvalidBalance(t *testing.T) {
	_, err := Open("user-1", 0, "USDT")
	assert.True(t, errors.IsValidation(err))

	_, err = Open("user-1", -100, "USDT")
	assert.True(t, errors.IsValidation(err))
}

// TestApplyTrade_Buy tests a simple buy with fee
func TestApplyTrade_Buy(t *testing.T) {
	port, _ := Open("user-1", 10000.0, "USDT")

	trade, err := port.ApplyTrade(tradeTime, "BTCUSDT", types.SideBuy, 1.0, 100.0, 0.001, "test buy")

	require.NoError(t, err)
	assert.Equal(t, 100.0, trade.NotionalValue)
	assert.InDelta(t, 0.1, trade.Fee, 1e-9)
	assert.InDelta(t, 9899.9, port.CashBalance, 1e-9)

	pos := port.Position("BTCUSDT")
	require.NotNil(t, pos)
	assert.Equal(t, 1.0, pos.Quantity)
	assert.Equal(t, 100.0, pos.AveragePrice)
	assert.Equal(t, tradeTime, pos.OpenedAt)

	// totalValue = cash + position at current price
	assert.InDelta(t, 9999.9, port.TotalValue, 1e-9)
	assert.Len(t, port.TradeLog, 1)
}

// TestApplyTrade_WeightedAverageCostBasis tests avg price across multiple buys
func TestApplyTrade_WeightedAverageCostBasis(t *testing.T) {
	port, _ := Open("user-1", 10000.0, "USDT")

	_, err := port.ApplyTrade(tradeTime, "BTCUSDT", types.SideBuy, 1.0, 100.0, 0, "")
	require.NoError(t, err)
	_, err = port.ApplyTrade(tradeTime.Add(time.Hour), "BTCUSDT", types.SideBuy, 1.0, 200.0, 0, "")
	require.NoError(t, err)

	pos := port.Position("BTCUSDT")
	require.NotNil(t, pos)
	assert.Equal(t, 2.0, pos.Quantity)
	assert.Equal(t, 150.0, pos.AveragePrice)
}

// TestApplyTrade_InsufficientFunds tests buy rejection with untouched state
func TestApplyTrade_InsufficientFunds(t *testing.T) {
	port, _ := Open("user-1", 100.0, "USDT")

	_, err := port.ApplyTrade(tradeTime, "BTCUSDT", types.SideBuy, 10.0, 20.0, 0, "")

	var fundsErr *errors.InsufficientFundsError
	require.ErrorAs(t, err, &fundsErr)
	assert.Equal(t, 200.0, fundsErr.Required)
	assert.Equal(t, 100.0, fundsErr.Available)

	assert.Equal(t, 100.0, port.CashBalance)
	assert.Empty(t, port.Positions)
	assert.Empty(t, port.TradeLog)
}

// TestApplyTrade_SellRealizedPL tests realized P&L accounting on partial sell
func TestApplyTrade_SellRealizedPL(t *testing.T) {
	port, _ := Open("user-1", 10000.0, "USDT")

	_, err := port.ApplyTrade(tradeTime, "BTCUSDT", types.SideBuy, 2.0, 100.0, 0, "")
	require.NoError(t, err)

	trade, err := port.ApplyTrade(tradeTime.Add(time.Hour), "BTCUSDT", types.SideSell, 1.0, 150.0, 0, "")
	require.NoError(t, err)

	assert.Equal(t, 50.0, trade.ProfitLoss)
	assert.Equal(t, 50.0, trade.ProfitLossPercent)
	assert.Equal(t, 9950.0, port.CashBalance)

	pos := port.Position("BTCUSDT")
	require.NotNil(t, pos)
	assert.Equal(t, 1.0, pos.Quantity)
	assert.Equal(t, 100.0, pos.AveragePrice) // sells never move the cost basis
}

// TestApplyTrade_SellFeeReducesPL tests that the fee comes out of realized P&L
func TestApplyTrade_SellFeeReducesPL(t *testing.T) {
	port, _ := Open("user-1", 10000.0, "USDT")

	_, err := port.ApplyTrade(tradeTime, "BTCUSDT", types.SideBuy, 1.0, 100.0, 0, "")
	require.NoError(t, err)

	trade, err := port.ApplyTrade(tradeTime.Add(time.Hour), "BTCUSDT", types.SideSell, 1.0, 150.0, 0.01, "")
	require.NoError(t, err)

	// (150-100)*1 - 1.5 fee
	assert.InDelta(t, 48.5, trade.ProfitLoss, 1e-9)
}

// TestApplyTrade_RoundTrip tests that buy+sell at the same price restores cash exactly
func TestApplyTrade_RoundTrip(t *testing.T) {
	port, _ := Open("user-1", 10000.0, "USDT")

	_, err := port.ApplyTrade(tradeTime, "BTCUSDT", types.SideBuy, 2.0, 100.0, 0, "")
	require.NoError(t, err)

	_, err = port.ApplyTrade(tradeTime.Add(time.Hour), "BTCUSDT", types.SideSell, 2.0, 100.0, 0, "")
	require.NoError(t, err)

	assert.Equal(t, 10000.0, port.CashBalance)
	assert.Nil(t, port.Position("BTCUSDT"))
}

// TestApplyTrade_InsufficientPosition tests sell rejection
func TestApplyTrade_InsufficientPosition(t *testing.T) {
	port, _ := Open("user-1", 10000.0, "USDT")

	// No position at all
	_, err := port.ApplyTrade(tradeTime, "BTCUSDT", types.SideSell, 1.0, 100.0, 0, "")
	var posErr *errors.InsufficientPositionError
	require.ErrorAs(t, err, &posErr)
	assert.Equal(t, 0.0, posErr.Held)

	// More than held
	_, err = port.ApplyTrade(tradeTime, "BTCUSDT", types.SideBuy, 1.0, 100.0, 0, "")
	require.NoError(t, err)

	_, err = port.ApplyTrade(tradeTime, "BTCUSDT", types.SideSell, 2.0, 100.0, 0, "")
	require.ErrorAs(t, err, &posErr)
	assert.Equal(t, 2.0, posErr.Requested)
	assert.Equal(t, 1.0, posErr.Held)

	// Position untouched by the rejected sell
	assert.Equal(t, 1.0, port.Position("BTCUSDT").Quantity)
}

// TestApplyTrade_EpsilonClosure tests that float dust does not leave positions behind
func TestApplyTrade_EpsilonClosure(t *testing.T) {
	port, _ := Open("user-1", 10000.0, "USDT")

	_, err := port.ApplyTrade(tradeTime, "BTCUSDT", types.SideBuy, 0.3, 100.0, 0, "")
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err = port.ApplyTrade(tradeTime.Add(time.Duration(i+1)*time.Hour), "BTCUSDT", types.SideSell, 0.1, 100.0, 0, "")
		require.NoError(t, err)
	}

	assert.Nil(t, port.Position("BTCUSDT"))
}

// TestApplyTrade_Validation tests rejection of malformed trade parameters
func TestApplyTrade_Validation(t *testing.T) {
	port, _ := Open("user-1", 10000.0, "USDT")

	_, err := port.ApplyTrade(tradeTime, "BTCUSDT", types.SideBuy, 0, 100.0, 0, "")
	assert.True(t, errors.IsValidation(err))

	_, err = port.ApplyTrade(tradeTime, "BTCUSDT", types.SideBuy, 1.0, 0, 0, "")
	assert.True(t, errors.IsValidation(err))

	_, err = port.ApplyTrade(tradeTime, "BTCUSDT", types.SideBuy, 1.0, 100.0, -0.1, "")
	assert.True(t, errors.IsValidation(err))
}

// TestObserver tests that every applied trade reaches the observer
func TestObserver(t *testing.T) {
	port, _ := Open("user-1", 10000.0, "USDT")

	var seen []types.Trade
	port.SetObserver(func(trade types.Trade) {
		seen = append(seen, trade)
	})

	_, err := port.ApplyTrade(tradeTime, "BTCUSDT", types.SideBuy, 1.0, 100.0, 0, "")
	require.NoError(t, err)
	_, err = port.ApplyTrade(tradeTime.Add(time.Hour), "BTCUSDT", types.SideSell, 1.0, 110.0, 0, "")
	require.NoError(t, err)

	require.Len(t, seen, 2)
	assert.Equal(t, types.SideBuy, seen[0].Side)
	assert.Equal(t, types.SideSell, seen[1].Side)

	// Rejected trades never reach the observer
	_, err = port.ApplyTrade(tradeTime, "BTCUSDT", types.SideSell, 1.0, 100.0, 0, "")
	require.Error(t, err)
	assert.Len(t, seen, 2)
}
