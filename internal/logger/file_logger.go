package logger

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/arunisean/paperbot/pkg/types"
)

// Logger writes a per-run simulation log file.
type Logger struct {
	symbol   string
	interval string
	logFile  *os.File
	logger   *log.Logger
	mu       sync.Mutex
	logDir   string
}

// LogLevel represents different types of log entries
type LogLevel string

const (
	LogLevelInfo    LogLevel = "INFO"
	LogLevelWarning LogLevel = "WARN"
	LogLevelError   LogLevel = "ERROR"
	LogLevelTrade   LogLevel = "TRADE"
)

// NewLogger creates a new file logger for the specified symbol and interval
func NewLogger(symbol, interval string) (*Logger, error) {
	logDir := "logs"
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	timestamp := time.Now().Format("2006-01-02")
	filename := fmt.Sprintf("%s_%s_%s.log", symbol, interval, timestamp)
	logPath := filepath.Join(logDir, filename)

	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	l := &Logger{
		symbol:   symbol,
		interval: interval,
		logFile:  file,
		logger:   log.New(file, "", 0),
		logDir:   logDir,
	}

	l.writeSessionHeader()

	return l, nil
}

func (l *Logger) writeSessionHeader() {
	l.mu.Lock()
	defer l.mu.Unlock()

	header := fmt.Sprintf(`
================================================================================
🚀 PAPER TRADING SESSION STARTED
================================================================================
Symbol: %s | Interval: %s
Started: %s
================================================================================
`, l.symbol, l.interval, time.Now().Format("2006-01-02 15:04:05"))

	l.logger.Print(header)
}

// Log writes a formatted log entry with the specified level
func (l *Logger) Log(level LogLevel, format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	timestamp := time.Now().Format("2006-01-02 15:04:05")
	message := fmt.Sprintf(format, args...)
	l.logger.Println(fmt.Sprintf("[%s] [%s] %s", timestamp, level, message))
}

// Info logs an info message
func (l *Logger) Info(format string, args ...interface{}) {
	l.Log(LogLevelInfo, format, args...)
}

// Warning logs a warning message
func (l *Logger) Warning(format string, args ...interface{}) {
	l.Log(LogLevelWarning, format, args...)
}

// Error logs an error message
func (l *Logger) Error(format string, args ...interface{}) {
	l.Log(LogLevelError, format, args...)
}

// LogTrade logs one applied trade
func (l *Logger) LogTrade(trade types.Trade) {
	l.Log(LogLevelTrade, "%s %s %.8f @ $%.4f | notional $%.2f | fee $%.4f | P&L $%.4f | balance $%.2f | %s",
		trade.Side, trade.Symbol, trade.Quantity, trade.Price,
		trade.NotionalValue, trade.Fee, trade.ProfitLoss, trade.BalanceAfter, trade.Reason)
}

// Close flushes and closes the underlying log file
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.logFile != nil {
		return l.logFile.Close()
	}
	return nil
}
