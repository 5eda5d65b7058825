package types

import "time"

// MarketBar is one OHLCV record for a symbol at a point in time.
type MarketBar struct {
	Timestamp time.Time `json:"timestamp"`
	Symbol    string    `json:"symbol"`
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
	Volume    float64   `json:"volume"`
	Source    string    `json:"source"`
}

// EquityPoint is one sample of account equity during a backtest run.
type EquityPoint struct {
	Timestamp      time.Time `json:"timestamp"`
	Balance        float64   `json:"balance"`
	PortfolioValue float64   `json:"portfolio_value"`
	DrawdownPct    float64   `json:"drawdown_pct"`
}
