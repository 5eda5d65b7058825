package grid

import (
	"math"

	"github.com/arunisean/paperbot/internal/errors"
	"github.com/arunisean/paperbot/pkg/config"
)

// A level only fires a signal when the current price is within this fraction
// of the grid spacing.
const triggerFraction = 0.1

// Action is what a grid level wants done at the current price.
type Action int

const (
	ActionNone Action = iota
	ActionBuy
	ActionSell
)

func (a Action) String() string {
	switch a {
	case ActionBuy:
		return "BUY"
	case ActionSell:
		return "SELL"
	default:
		return "NONE"
	}
}

// Level is one grid price level, recomputed on every invocation.
type Level struct {
	Price   float64 `json:"price"`
	Action  Action  `json:"action"`
	Filled  bool    `json:"filled"`
	OrderID string  `json:"order_id,omitempty"`
}

// Signal is the trading decision for the current price.
type Signal struct {
	Action   Action  `json:"action"`
	Price    float64 `json:"price"`
	Quantity float64 `json:"quantity"`
}

// Range position names.
const (
	PositionBelow  = "below"
	PositionWithin = "within"
	PositionAbove  = "above"
)

// RangeStatus reports whether the current price sits inside the grid bounds.
// Informational only; the signal is computed regardless.
type RangeStatus struct {
	IsOutOfRange bool   `json:"is_out_of_range"`
	Position     string `json:"position"`
}

// Result is the full output of one signal computation.
type Result struct {
	Levels  []Level     `json:"levels"`
	Signal  Signal      `json:"signal"`
	Range   RangeStatus `json:"range"`
	Spacing float64     `json:"spacing"`
}

// ComputeSignal derives the grid levels for the configured price range and
// decides buy/sell/none from the proximity of the current price to the
// nearest level. Stateless: identical input yields identical output.
func ComputeSignal(cfg config.GridConfig, currentPrice float64) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if currentPrice <= 0 {
		return nil, errors.NewValidationError("current_price", "must be positive")
	}

	spacing := cfg.GridSpacing()

	levels := make([]Level, 0, cfg.GridCount+1)
	for i := 0; i <= cfg.GridCount; i++ {
		price := cfg.LowerBound + float64(i)*spacing

		action := ActionNone
		if price < currentPrice {
			action = ActionBuy
		} else if price > currentPrice {
			action = ActionSell
		}

		levels = append(levels, Level{Price: price, Action: action})
	}

	// Nearest level wins; first one on ties, scanning in ascending price order.
	nearest := 0
	minDistance := math.Abs(levels[0].Price - currentPrice)
	for i := 1; i < len(levels); i++ {
		if d := math.Abs(levels[i].Price - currentPrice); d < minDistance {
			minDistance = d
			nearest = i
		}
	}

	signal := Signal{Action: ActionNone}
	if minDistance <= triggerFraction*spacing {
		level := levels[nearest]
		signal = Signal{
			Action:   level.Action,
			Price:    level.Price,
			Quantity: cfg.InvestmentPerGrid / level.Price,
		}
	}

	status := RangeStatus{Position: PositionWithin}
	if currentPrice < cfg.LowerBound {
		status = RangeStatus{IsOutOfRange: true, Position: PositionBelow}
	} else if currentPrice > cfg.UpperBound {
		status = RangeStatus{IsOutOfRange: true, Position: PositionAbove}
	}

	return &Result{
		Levels:  levels,
		Signal:  signal,
		Range:   status,
		Spacing: spacing,
	}, nil
}
