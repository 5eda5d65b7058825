package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/arunisean/paperbot/internal/errors"
)

// Data source names understood by the backtest engine.
const (
	DataSourceGenerated  = "generated"
	DataSourceHistorical = "historical" // no real loader exists; falls back to generated data
	DataSourceReplay     = "replay"     // caller-injected bar series
)

// BacktestConfig describes one backtest run. All fields are strongly typed
// and validated up front; nothing is coerced from loose input.
type BacktestConfig struct {
	StartDate      time.Time       `json:"start_date"`
	EndDate        time.Time       `json:"end_date"`
	Symbols        []string        `json:"symbols"`
	Interval       time.Duration   `json:"interval"`
	InitialBalance float64         `json:"initial_balance"`
	FeeRate        float64         `json:"fee_rate"`
	DataSource     string          `json:"data_source"`
	Generator      GeneratorConfig `json:"generator"`
}

// Validate performs fail-fast validation of the run configuration
func (bc *BacktestConfig) Validate() error {
	if len(bc.Symbols) == 0 {
		return errors.NewValidationError("symbols", "at least one symbol is required")
	}
	for _, s := range bc.Symbols {
		if s == "" {
			return errors.NewValidationError("symbols", "symbol must not be empty")
		}
	}

	if bc.Interval <= 0 {
		return errors.NewValidationError("interval",
			fmt.Sprintf("must be positive, got %s", bc.Interval))
	}

	if !bc.EndDate.After(bc.StartDate) {
		return errors.NewValidationError("end_date",
			fmt.Sprintf("must be after start_date (%s)", bc.StartDate.Format(time.RFC3339)))
	}

	if bc.InitialBalance <= 0 {
		return errors.NewValidationError("initial_balance",
			fmt.Sprintf("must be positive, got %f", bc.InitialBalance))
	}

	if bc.FeeRate < 0 || bc.FeeRate > 0.1 {
		return errors.NewValidationError("fee_rate",
			fmt.Sprintf("must be within [0,0.1], got %f", bc.FeeRate))
	}

	switch bc.DataSource {
	case DataSourceGenerated, DataSourceHistorical, DataSourceReplay:
	default:
		return errors.NewValidationError("data_source",
			fmt.Sprintf("must be %q, %q or %q, got %q",
				DataSourceGenerated, DataSourceHistorical, DataSourceReplay, bc.DataSource))
	}

	if bc.DataSource != DataSourceReplay {
		if err := bc.Generator.Validate(); err != nil {
			return err
		}
	}

	return nil
}

// backtestConfigJSON mirrors BacktestConfig with the interval as a string
// ("1h", "5m") so config files stay human-editable.
type backtestConfigJSON struct {
	StartDate      time.Time       `json:"start_date"`
	EndDate        time.Time       `json:"end_date"`
	Symbols        []string        `json:"symbols"`
	Interval       string          `json:"interval"`
	InitialBalance float64         `json:"initial_balance"`
	FeeRate        float64         `json:"fee_rate"`
	DataSource     string          `json:"data_source"`
	Generator      GeneratorConfig `json:"generator"`
}

// LoadBacktestConfig loads and validates a backtest configuration from a JSON file
func LoadBacktestConfig(filename string) (*BacktestConfig, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var raw backtestConfigJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	interval, err := time.ParseDuration(raw.Interval)
	if err != nil {
		return nil, errors.NewValidationError("interval",
			fmt.Sprintf("invalid duration %q: %v", raw.Interval, err))
	}

	cfg := &BacktestConfig{
		StartDate:      raw.StartDate,
		EndDate:        raw.EndDate,
		Symbols:        raw.Symbols,
		Interval:       interval,
		InitialBalance: raw.InitialBalance,
		FeeRate:        raw.FeeRate,
		DataSource:     raw.DataSource,
		Generator:      raw.Generator,
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}
