package backtest

import (
	"time"

	"github.com/arunisean/paperbot/pkg/types"
)

// Period is the simulated time window of a run.
type Period struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Metrics holds the post-processed performance statistics of a run.
type Metrics struct {
	TotalProfitLoss       float64 `json:"total_profit_loss"`
	AverageProfitPerTrade float64 `json:"average_profit_per_trade"`
	AverageLossPerTrade   float64 `json:"average_loss_per_trade"`
	LargestWin            float64 `json:"largest_win"`
	LargestLoss           float64 `json:"largest_loss"`
	ConsecutiveWins       int     `json:"consecutive_wins"`
	ConsecutiveLosses     int     `json:"consecutive_losses"`
	ProfitFactor          float64 `json:"profit_factor"`
	Expectancy            float64 `json:"expectancy"`
}

// Result is the aggregate report of one backtest run. Produced once at the
// end of a run and read-only afterward; every field serializes to JSON.
type Result struct {
	Period         Period              `json:"period"`
	StartBalance   float64             `json:"start_balance"`
	EndBalance     float64             `json:"end_balance"`
	TotalReturnPct float64             `json:"total_return_pct"`
	TotalTrades    int                 `json:"total_trades"`
	WinningTrades  int                 `json:"winning_trades"`
	LosingTrades   int                 `json:"losing_trades"`
	WinRatePct     float64             `json:"win_rate_pct"`
	MaxDrawdownPct float64             `json:"max_drawdown_pct"`
	SharpeRatio    float64             `json:"sharpe_ratio"`
	Trades         []types.Trade       `json:"trades"`
	EquityCurve    []types.EquityPoint `json:"equity_curve"`
	Metrics        Metrics             `json:"metrics"`
}
