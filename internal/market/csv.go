package market

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/arunisean/paperbot/pkg/types"
)

// Expected replay CSV layout: timestamp,open,high,low,close,volume with a
// header row. Timestamps use "2006-01-02 15:04:05".
const (
	csvMinColumns = 6
	csvDateFormat = "2006-01-02 15:04:05"
)

// LoadCSV reads a replay bar series for one symbol from a CSV file.
// Malformed rows are skipped with a warning rather than aborting the load.
func LoadCSV(filename, symbol string) ([]types.MarketBar, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open replay file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // tolerate ragged rows, the column check below skips them

	// Skip header
	if _, err := reader.Read(); err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	var bars []types.MarketBar

	lineNum := 1
	for {
		record, err := reader.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, fmt.Errorf("error reading CSV at line %d: %w", lineNum, err)
		}
		lineNum++

		if len(record) < csvMinColumns {
			log.Printf("⚠️ Insufficient columns at line %d (expected %d, got %d), skipping",
				lineNum, csvMinColumns, len(record))
			continue
		}

		timestamp, err := time.Parse(csvDateFormat, record[0])
		if err != nil {
			log.Printf("⚠️ Invalid timestamp %q at line %d, skipping: %v", record[0], lineNum, err)
			continue
		}

		values := make([]float64, 5)
		ok := true
		for i := 0; i < 5; i++ {
			v, err := strconv.ParseFloat(record[i+1], 64)
			if err != nil {
				log.Printf("⚠️ Invalid number %q at line %d, skipping: %v", record[i+1], lineNum, err)
				ok = false
				break
			}
			values[i] = v
		}
		if !ok {
			continue
		}

		bars = append(bars, types.MarketBar{
			Timestamp: timestamp,
			Symbol:    symbol,
			Open:      values[0],
			High:      values[1],
			Low:       values[2],
			Close:     values[3],
			Volume:    values[4],
			Source:    "replay",
		})
	}

	if len(bars) == 0 {
		return nil, fmt.Errorf("no usable rows in replay file %s", filename)
	}

	return bars, nil
}
