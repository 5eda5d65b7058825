package monitoring

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"
)

var startTime = time.Now()

// HealthChecker reports liveness for the simulation process.
type HealthChecker struct {
	mu          sync.RWMutex
	lastRun     time.Time
	lastBalance float64
	runs        int
	errors      []string
}

type HealthStatus struct {
	Status      string    `json:"status"`
	Timestamp   time.Time `json:"timestamp"`
	LastRun     time.Time `json:"last_run"`
	LastBalance float64   `json:"last_balance"`
	Runs        int       `json:"runs"`
	Uptime      string    `json:"uptime"`
	Errors      []string  `json:"errors,omitempty"`
}

func NewHealthChecker() *HealthChecker {
	return &HealthChecker{
		errors: make([]string, 0),
	}
}

// RecordRun notes a completed backtest run
func (h *HealthChecker) RecordRun(balance float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.lastRun = time.Now()
	h.lastBalance = balance
	h.runs++
}

// RecordError notes a failed operation
func (h *HealthChecker) RecordError(msg string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.errors = append(h.errors, msg)
}

func (h *HealthChecker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	status := "healthy"
	if len(h.errors) > 0 {
		status = "unhealthy"
		w.WriteHeader(http.StatusInternalServerError)
	}

	health := HealthStatus{
		Status:      status,
		Timestamp:   time.Now(),
		LastRun:     h.lastRun,
		LastBalance: h.lastBalance,
		Runs:        h.runs,
		Uptime:      time.Since(startTime).String(),
		Errors:      h.errors,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(health)
}
