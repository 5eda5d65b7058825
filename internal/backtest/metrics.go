package backtest

import (
	"math"

	"github.com/arunisean/paperbot/pkg/types"
)

// Annualization factor for the Sharpe ratio. Steps are treated as
// daily-equivalent regardless of the actual interval.
const annualizationPeriods = 252

// CalculateSharpeRatio computes the annualized Sharpe ratio from per-step
// simple returns between consecutive equity points. Returns 0 when there
// are fewer than 2 points or the return deviation is 0.
func CalculateSharpeRatio(curve []types.EquityPoint) float64 {
	if len(curve) < 2 {
		return 0
	}

	returns := make([]float64, 0, len(curve)-1)
	for i := 1; i < len(curve); i++ {
		if curve[i-1].Balance > 0 {
			ret := (curve[i].Balance - curve[i-1].Balance) / curve[i-1].Balance
			returns = append(returns, ret)
		}
	}

	if len(returns) == 0 {
		return 0
	}

	avgReturn := 0.0
	for _, r := range returns {
		avgReturn += r
	}
	avgReturn /= float64(len(returns))

	variance := 0.0
	for _, r := range returns {
		variance += math.Pow(r-avgReturn, 2)
	}
	variance /= float64(len(returns))
	stdDev := math.Sqrt(variance)

	if stdDev == 0 || stdDev < 1e-10 {
		return 0
	}

	return avgReturn / stdDev * math.Sqrt(annualizationPeriods)
}

// ComputeMetrics post-processes the final trade list into performance
// statistics. Degenerate inputs (no trades, no losses) yield 0, never NaN.
func ComputeMetrics(trades []types.Trade, initialBalance, finalBalance float64) Metrics {
	m := Metrics{
		TotalProfitLoss: finalBalance - initialBalance,
	}

	grossProfit := 0.0
	grossLoss := 0.0
	winCount := 0
	lossCount := 0

	winStreak := 0
	lossStreak := 0

	for _, trade := range trades {
		pnl := trade.ProfitLoss

		switch {
		case pnl > 0:
			grossProfit += pnl
			winCount++
			if pnl > m.LargestWin {
				m.LargestWin = pnl
			}
			winStreak++
			lossStreak = 0
		case pnl < 0:
			grossLoss += math.Abs(pnl)
			lossCount++
			if pnl < m.LargestLoss {
				m.LargestLoss = pnl
			}
			lossStreak++
			winStreak = 0
		default:
			// Zero P&L counts as neither a win nor a loss; both streaks reset.
			winStreak = 0
			lossStreak = 0
		}

		if winStreak > m.ConsecutiveWins {
			m.ConsecutiveWins = winStreak
		}
		if lossStreak > m.ConsecutiveLosses {
			m.ConsecutiveLosses = lossStreak
		}
	}

	if winCount > 0 {
		m.AverageProfitPerTrade = grossProfit / float64(winCount)
	}
	if lossCount > 0 {
		m.AverageLossPerTrade = -grossLoss / float64(lossCount)
	}

	if grossLoss > 0 {
		m.ProfitFactor = grossProfit / grossLoss
	}

	if len(trades) > 0 {
		m.Expectancy = m.TotalProfitLoss / float64(len(trades))
	}

	return m
}
