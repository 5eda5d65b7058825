package config

import (
	"os"
	"strconv"
)

// Config holds process-level settings read from the environment. The CLI
// loads a .env file first, so everything here can come from either place.
type Config struct {
	Environment string
	LogLevel    string

	Monitoring struct {
		Enabled        bool
		PrometheusPort int
		HealthPort     int
	}

	Output struct {
		Dir string
	}
}

func Load() *Config {
	cfg := &Config{
		Environment: getEnv("ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
	}

	cfg.Monitoring.Enabled = getEnvBool("MONITORING_ENABLED", false)
	cfg.Monitoring.PrometheusPort = getEnvInt("PROMETHEUS_PORT", 8080)
	cfg.Monitoring.HealthPort = getEnvInt("HEALTH_PORT", 8081)
	cfg.Output.Dir = getEnv("OUTPUT_DIR", "results")

	return cfg
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			return parsed
		}
	}
	return defaultVal
}
