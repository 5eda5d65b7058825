package monitoring

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Simulation metrics
	backtestsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "paperbot_backtests_total",
			Help: "Total number of backtest runs completed",
		},
	)

	tradesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "paperbot_trades_total",
			Help: "Total number of simulated trades applied",
		},
		[]string{"symbol", "side"},
	)

	lastBalance = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "paperbot_last_balance",
			Help: "Final balance of the most recent backtest run",
		},
	)

	// Error metrics
	errorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "paperbot_errors_total",
			Help: "Total number of simulation errors",
		},
		[]string{"type"},
	)
)

func init() {
	// Register metrics
	prometheus.MustRegister(backtestsTotal)
	prometheus.MustRegister(tradesTotal)
	prometheus.MustRegister(lastBalance)
	prometheus.MustRegister(errorsTotal)
}

// RecordBacktestRun records a completed backtest run
func RecordBacktestRun() {
	backtestsTotal.Inc()
}

// RecordTrade records an applied trade metric
func RecordTrade(symbol, side string) {
	tradesTotal.WithLabelValues(symbol, side).Inc()
}

// SetLastBalance updates the last-run balance gauge
func SetLastBalance(balance float64) {
	lastBalance.Set(balance)
}

// RecordError records an error metric
func RecordError(errorType string) {
	errorsTotal.WithLabelValues(errorType).Inc()
}

// StartMetricsServer serves the Prometheus endpoint on the given port.
// Blocks; run it on its own goroutine.
func StartMetricsServer(port int) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return http.ListenAndServe(fmt.Sprintf(":%d", port), mux)
}
