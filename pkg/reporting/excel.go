package reporting

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/arunisean/paperbot/internal/backtest"
)

// DefaultExcelReporter implements Excel output functionality
type DefaultExcelReporter struct{}

// NewDefaultExcelReporter creates a new Excel reporter
func NewDefaultExcelReporter() *DefaultExcelReporter {
	return &DefaultExcelReporter{}
}

// WriteResultXLSX writes the backtest result to an Excel workbook with
// Summary, Trades and Equity sheets.
func (r *DefaultExcelReporter) WriteResultXLSX(result *backtest.Result, path string) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	fx := excelize.NewFile()
	defer fx.Close()

	const summarySheet = "Summary"
	const tradesSheet = "Trades"
	const equitySheet = "Equity"

	fx.SetSheetName(fx.GetSheetName(0), summarySheet)
	fx.NewSheet(tradesSheet)
	fx.NewSheet(equitySheet)

	headerStyle, err := fx.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
	})
	if err != nil {
		return err
	}

	if err := r.writeSummarySheet(fx, summarySheet, result, headerStyle); err != nil {
		return err
	}
	if err := r.writeTradesSheet(fx, tradesSheet, result, headerStyle); err != nil {
		return err
	}
	if err := r.writeEquitySheet(fx, equitySheet, result, headerStyle); err != nil {
		return err
	}

	return fx.SaveAs(path)
}

func (r *DefaultExcelReporter) writeSummarySheet(fx *excelize.File, sheet string, result *backtest.Result, headerStyle int) error {
	rows := [][]interface{}{
		{"Metric", "Value"},
		{"Period Start", result.Period.Start.Format("2006-01-02 15:04:05")},
		{"Period End", result.Period.End.Format("2006-01-02 15:04:05")},
		{"Initial Balance", result.StartBalance},
		{"Final Balance", result.EndBalance},
		{"Total Return %", result.TotalReturnPct},
		{"Max Drawdown %", result.MaxDrawdownPct},
		{"Sharpe Ratio", result.SharpeRatio},
		{"Total Trades", result.TotalTrades},
		{"Winning Trades", result.WinningTrades},
		{"Losing Trades", result.LosingTrades},
		{"Win Rate %", result.WinRatePct},
		{"Profit Factor", result.Metrics.ProfitFactor},
		{"Expectancy", result.Metrics.Expectancy},
		{"Average Profit Per Trade", result.Metrics.AverageProfitPerTrade},
		{"Average Loss Per Trade", result.Metrics.AverageLossPerTrade},
		{"Largest Win", result.Metrics.LargestWin},
		{"Largest Loss", result.Metrics.LargestLoss},
		{"Max Consecutive Wins", result.Metrics.ConsecutiveWins},
		{"Max Consecutive Losses", result.Metrics.ConsecutiveLosses},
	}

	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := fx.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}

	return fx.SetCellStyle(sheet, "A1", "B1", headerStyle)
}

func (r *DefaultExcelReporter) writeTradesSheet(fx *excelize.File, sheet string, result *backtest.Result, headerStyle int) error {
	header := []interface{}{"Timestamp", "Symbol", "Side", "Price", "Quantity", "Notional", "Fee", "P&L", "P&L %", "Balance After", "Reason"}
	if err := fx.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}

	for i, trade := range result.Trades {
		row := []interface{}{
			trade.Timestamp.Format("2006-01-02 15:04:05"),
			trade.Symbol,
			trade.Side.String(),
			trade.Price,
			trade.Quantity,
			trade.NotionalValue,
			trade.Fee,
			trade.ProfitLoss,
			trade.ProfitLossPercent,
			trade.BalanceAfter,
			trade.Reason,
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := fx.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}

	return fx.SetCellStyle(sheet, "A1", "K1", headerStyle)
}

func (r *DefaultExcelReporter) writeEquitySheet(fx *excelize.File, sheet string, result *backtest.Result, headerStyle int) error {
	header := []interface{}{"Timestamp", "Balance", "Portfolio Value", "Drawdown %"}
	if err := fx.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}

	for i, point := range result.EquityCurve {
		row := []interface{}{
			point.Timestamp.Format("2006-01-02 15:04:05"),
			point.Balance,
			point.PortfolioValue,
			point.DrawdownPct,
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := fx.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}

	return fx.SetCellStyle(sheet, "A1", "D1", headerStyle)
}
