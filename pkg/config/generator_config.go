package config

import (
	"fmt"

	"github.com/arunisean/paperbot/internal/errors"
)

// Trend biases the synthetic random walk.
type Trend string

const (
	TrendBullish  Trend = "bullish"
	TrendBearish  Trend = "bearish"
	TrendSideways Trend = "sideways"
	TrendRandom   Trend = "random"
)

// PriceRange is a hard clamp applied to the generated price path.
type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// GeneratorConfig drives the synthetic market data generator. It is consumed
// once per backtest run and never persisted.
type GeneratorConfig struct {
	Volatility       float64     `json:"volatility"`        // fraction in [0,1]
	Trend            Trend       `json:"trend"`             // bullish, bearish, sideways, random
	BasePrice        float64     `json:"base_price"`        // starting price, must be positive
	PriceRange       *PriceRange `json:"price_range"`       // optional hard clamp
	IncludeNoise     bool        `json:"include_noise"`     // widen high/low beyond the open-close body
	EventProbability float64     `json:"event_probability"` // per-step spike chance, 0 disables
}

// Validate performs fail-fast validation of the generator configuration
func (gc *GeneratorConfig) Validate() error {
	if gc.Volatility < 0 || gc.Volatility > 1 {
		return errors.NewValidationError("volatility",
			fmt.Sprintf("must be within [0,1], got %f", gc.Volatility))
	}

	switch gc.Trend {
	case TrendBullish, TrendBearish, TrendSideways, TrendRandom:
	default:
		return errors.NewValidationError("trend",
			fmt.Sprintf("must be bullish, bearish, sideways or random, got %q", gc.Trend))
	}

	if gc.BasePrice <= 0 {
		return errors.NewValidationError("base_price",
			fmt.Sprintf("must be positive, got %f", gc.BasePrice))
	}

	if gc.PriceRange != nil {
		if gc.PriceRange.Min <= 0 {
			return errors.NewValidationError("price_range.min",
				fmt.Sprintf("must be positive, got %f", gc.PriceRange.Min))
		}
		if gc.PriceRange.Max <= gc.PriceRange.Min {
			return errors.NewValidationError("price_range.max",
				fmt.Sprintf("must be greater than min (%f), got %f", gc.PriceRange.Min, gc.PriceRange.Max))
		}
	}

	if gc.EventProbability < 0 || gc.EventProbability > 1 {
		return errors.NewValidationError("event_probability",
			fmt.Sprintf("must be within [0,1], got %f", gc.EventProbability))
	}

	return nil
}
