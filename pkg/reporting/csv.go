package reporting

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/arunisean/paperbot/internal/backtest"
)

// WriteTradesCSV exports the trade list to a CSV file
func WriteTradesCSV(result *backtest.Result, path string) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{"timestamp", "symbol", "side", "price", "quantity", "notional", "fee", "profit_loss", "balance_after", "reason"}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, trade := range result.Trades {
		row := []string{
			trade.Timestamp.Format("2006-01-02 15:04:05"),
			trade.Symbol,
			trade.Side.String(),
			strconv.FormatFloat(trade.Price, 'f', -1, 64),
			strconv.FormatFloat(trade.Quantity, 'f', -1, 64),
			strconv.FormatFloat(trade.NotionalValue, 'f', -1, 64),
			strconv.FormatFloat(trade.Fee, 'f', -1, 64),
			strconv.FormatFloat(trade.ProfitLoss, 'f', -1, 64),
			strconv.FormatFloat(trade.BalanceAfter, 'f', -1, 64),
			trade.Reason,
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write trade row: %w", err)
		}
	}

	return nil
}
