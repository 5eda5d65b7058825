package main

import (
	"fmt"
	"net/http"

	"github.com/arunisean/paperbot/internal/monitoring"
)

// serveHealth exposes the health checker on its own port. Blocks.
func serveHealth(port int, checker *monitoring.HealthChecker) error {
	mux := http.NewServeMux()
	mux.Handle("/health", checker)
	return http.ListenAndServe(fmt.Sprintf(":%d", port), mux)
}
