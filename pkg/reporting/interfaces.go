package reporting

import (
	"github.com/arunisean/paperbot/internal/backtest"
)

// Package reporting provides output generation for backtest results

// ConsoleReporter defines interface for console output
type ConsoleReporter interface {
	OutputResults(result *backtest.Result)
	OutputTrades(result *backtest.Result, limit int)
}

// FileReporter defines interface for file output
type FileReporter interface {
	WriteTradesCSV(result *backtest.Result, path string) error
	WriteResultJSON(result *backtest.Result, path string) error
	WriteResultXLSX(result *backtest.Result, path string) error
}

// Reporter combines all reporting interfaces
type Reporter interface {
	ConsoleReporter
	FileReporter
}
