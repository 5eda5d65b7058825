package market

import (
	"math/rand"
	"time"

	"github.com/arunisean/paperbot/internal/errors"
	"github.com/arunisean/paperbot/pkg/config"
	"github.com/arunisean/paperbot/pkg/types"
)

// Volume band for synthetic bars.
const (
	minVolume = 1_000_000.0
	maxVolume = 6_000_000.0
)

// Per-step drift applied for bullish/bearish trends; the random trend draws
// a fresh value in [-trendDrift, trendDrift] every step.
const trendDrift = 0.0001

// Generator produces synthetic OHLCV series from a random walk. It is a pure
// function of its configuration and seed: two generators seeded identically
// emit identical series.
type Generator struct {
	rng *rand.Rand
}

// NewGenerator creates a generator seeded from the wall clock
func NewGenerator() *Generator {
	return NewGeneratorWithSeed(time.Now().UnixNano())
}

// NewGeneratorWithSeed creates a deterministic generator for the given seed
func NewGeneratorWithSeed(seed int64) *Generator {
	return &Generator{rng: rand.New(rand.NewSource(seed))}
}

// Generate emits one bar per symbol per interval step from start to end
// inclusive, strictly time-ascending. All requested symbols share the same
// synthetic price path.
func (g *Generator) Generate(cfg config.GeneratorConfig, symbols []string, start, end time.Time, interval time.Duration) ([]types.MarketBar, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(symbols) == 0 {
		return nil, errors.NewValidationError("symbols", "at least one symbol is required")
	}
	if interval <= 0 {
		return nil, errors.NewValidationError("interval", "must be positive")
	}
	if end.Before(start) {
		return nil, errors.NewValidationError("end", "must not be before start")
	}

	steps := int(end.Sub(start)/interval) + 1
	bars := make([]types.MarketBar, 0, steps*len(symbols))

	currentPrice := cfg.BasePrice

	for ts := start; !ts.After(end); ts = ts.Add(interval) {
		open := currentPrice

		change := currentPrice * (g.trendFactor(cfg.Trend) + (g.rng.Float64()-0.5)*cfg.Volatility)
		if cfg.EventProbability > 0 && g.rng.Float64() < cfg.EventProbability {
			// Discontinuous jump replaces the regular step.
			change = currentPrice * (g.rng.Float64() - 0.5) * cfg.Volatility * 5
		}

		next := clamp(currentPrice+change, cfg.PriceRange)

		high := open
		low := open
		if next > high {
			high = next
		}
		if next < low {
			low = next
		}

		if cfg.IncludeNoise {
			high += high * g.rng.Float64() * cfg.Volatility * 0.5
			low -= low * g.rng.Float64() * cfg.Volatility * 0.5
			if low < 0 {
				low = 0
			}
		}

		close := low + g.rng.Float64()*(high-low)
		close = clamp(close, cfg.PriceRange)
		if close < low {
			low = close
		}
		if close > high {
			high = close
		}

		volume := minVolume + g.rng.Float64()*(maxVolume-minVolume)

		for _, symbol := range symbols {
			bars = append(bars, types.MarketBar{
				Timestamp: ts,
				Symbol:    symbol,
				Open:      open,
				High:      high,
				Low:       low,
				Close:     close,
				Volume:    volume,
				Source:    "synthetic",
			})
		}

		currentPrice = close
	}

	return bars, nil
}

func (g *Generator) trendFactor(trend config.Trend) float64 {
	switch trend {
	case config.TrendBullish:
		return trendDrift
	case config.TrendBearish:
		return -trendDrift
	case config.TrendRandom:
		return (g.rng.Float64() - 0.5) * 2 * trendDrift
	default: // sideways
		return 0
	}
}

func clamp(price float64, r *config.PriceRange) float64 {
	if r == nil {
		return price
	}
	if price < r.Min {
		return r.Min
	}
	if price > r.Max {
		return r.Max
	}
	return price
}
