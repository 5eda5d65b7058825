package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/arunisean/paperbot/internal/errors"
)

// GridConfig represents the configuration for the grid signal calculator
type GridConfig struct {
	// Grid Parameters
	LowerBound float64 `json:"lower_bound"` // Minimum price for grid operation
	UpperBound float64 `json:"upper_bound"` // Maximum price for grid operation
	GridCount  int     `json:"grid_count"`  // Number of grid intervals (levels = GridCount+1)

	// Position Sizing
	InvestmentPerGrid float64 `json:"investment_per_grid"` // Quote amount committed per grid level
}

// Validate performs fail-fast validation of the grid configuration. Any
// violation produces a ValidationError and no partial results.
func (gc *GridConfig) Validate() error {
	if gc.LowerBound <= 0 {
		return errors.NewValidationError("lower_bound",
			fmt.Sprintf("must be positive, got %f", gc.LowerBound))
	}

	if gc.UpperBound <= gc.LowerBound {
		return errors.NewValidationError("upper_bound",
			fmt.Sprintf("must be greater than lower_bound (%f), got %f", gc.LowerBound, gc.UpperBound))
	}

	if gc.GridCount < 2 {
		return errors.NewValidationError("grid_count",
			fmt.Sprintf("must be at least 2, got %d", gc.GridCount))
	}

	if gc.InvestmentPerGrid <= 0 {
		return errors.NewValidationError("investment_per_grid",
			fmt.Sprintf("must be positive, got %f", gc.InvestmentPerGrid))
	}

	return nil
}

// GridSpacing returns the price distance between adjacent grid levels.
func (gc *GridConfig) GridSpacing() float64 {
	return (gc.UpperBound - gc.LowerBound) / float64(gc.GridCount)
}

// LoadGridConfig loads and validates a grid configuration from a JSON file
func LoadGridConfig(filename string) (*GridConfig, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg GridConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// ToJSON converts the grid configuration to an indented JSON string
func (gc *GridConfig) ToJSON() (string, error) {
	data, err := json.MarshalIndent(gc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal config to JSON: %w", err)
	}
	return string(data), nil
}
