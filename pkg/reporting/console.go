package reporting

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/arunisean/paperbot/internal/backtest"
)

// DefaultConsoleReporter implements console output functionality
type DefaultConsoleReporter struct{}

// NewDefaultConsoleReporter creates a new console reporter
func NewDefaultConsoleReporter() *DefaultConsoleReporter {
	return &DefaultConsoleReporter{}
}

// OutputResults prints the backtest summary to console
func (r *DefaultConsoleReporter) OutputResults(result *backtest.Result) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetTitle("BACKTEST RESULTS")
	t.SetStyle(table.StyleRounded)

	t.AppendRows([]table.Row{
		{"📅 Period", fmt.Sprintf("%s → %s",
			result.Period.Start.Format("2006-01-02"),
			result.Period.End.Format("2006-01-02"))},
		{"💰 Initial Balance", fmt.Sprintf("$%.2f", result.StartBalance)},
		{"💰 Final Balance", fmt.Sprintf("$%.2f", result.EndBalance)},
		{"📈 Total Return", fmt.Sprintf("%.2f%%", result.TotalReturnPct)},
		{"📉 Max Drawdown", fmt.Sprintf("%.2f%%", result.MaxDrawdownPct)},
		{"📊 Sharpe Ratio", fmt.Sprintf("%.2f", result.SharpeRatio)},
	})

	t.AppendSeparator()

	t.AppendRows([]table.Row{
		{"🔄 Total Trades", fmt.Sprintf("%d", result.TotalTrades)},
		{"✅ Winning Trades", fmt.Sprintf("%d (%.1f%%)", result.WinningTrades, result.WinRatePct)},
		{"❌ Losing Trades", fmt.Sprintf("%d", result.LosingTrades)},
		{"💹 Profit Factor", fmt.Sprintf("%.2f", result.Metrics.ProfitFactor)},
		{"💹 Expectancy", fmt.Sprintf("$%.4f", result.Metrics.Expectancy)},
		{"🏆 Largest Win", fmt.Sprintf("$%.2f", result.Metrics.LargestWin)},
		{"💥 Largest Loss", fmt.Sprintf("$%.2f", result.Metrics.LargestLoss)},
		{"🔥 Max Win Streak", fmt.Sprintf("%d", result.Metrics.ConsecutiveWins)},
		{"🧊 Max Loss Streak", fmt.Sprintf("%d", result.Metrics.ConsecutiveLosses)},
	})

	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, WidthMin: 18, WidthMax: 18, Align: text.AlignLeft},
		{Number: 2, WidthMin: 25, WidthMax: 40, Align: text.AlignLeft},
	})

	t.Render()
	fmt.Println()
}

// OutputTrades prints the trade list to console. A limit of 0 prints all.
func (r *DefaultConsoleReporter) OutputTrades(result *backtest.Result, limit int) {
	if len(result.Trades) == 0 {
		fmt.Println("No trades executed.")
		return
	}

	trades := result.Trades
	if limit > 0 && len(trades) > limit {
		trades = trades[len(trades)-limit:]
		fmt.Printf("Showing last %d of %d trades:\n", limit, len(result.Trades))
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetTitle("TRADES")
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"Time", "Side", "Symbol", "Qty", "Price", "Fee", "P&L", "Balance"})

	for _, trade := range trades {
		t.AppendRow(table.Row{
			trade.Timestamp.Format("2006-01-02 15:04"),
			trade.Side.String(),
			trade.Symbol,
			fmt.Sprintf("%.6f", trade.Quantity),
			fmt.Sprintf("$%.4f", trade.Price),
			fmt.Sprintf("$%.4f", trade.Fee),
			fmt.Sprintf("$%.4f", trade.ProfitLoss),
			fmt.Sprintf("$%.2f", trade.BalanceAfter),
		})
	}

	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
		{Number: 6, Align: text.AlignRight},
		{Number: 7, Align: text.AlignRight},
		{Number: 8, Align: text.AlignRight},
	})

	t.Render()
	fmt.Println()
}
