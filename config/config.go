package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// RunMode selects the update channel for market data: live mode arms push
// subscriptions, backfill mode pages through history with pull queries.
type RunMode string

const (
	RunModeLive     RunMode = "live"
	RunModeBackfill RunMode = "backfill"
)

var DebugMode = os.Getenv("DEBUG") == "true"

const (
	productionHTTPEndpoint = "https://app.nash.io/api"
	productionWSEndpoint   = "wss://app.nash.io/api/socket"
	sandboxHTTPEndpoint    = "https://app.sandbox.nash.io/api"
	sandboxWSEndpoint      = "wss://app.sandbox.nash.io/api/socket"
)

type Config struct {
	Mode    RunMode
	Sandbox bool

	APIKey    string
	APISecret string

	HTTPEndpoint string
	WSEndpoint   string

	MetricsAddr string
}

// Load reads the configuration from the environment. A .env file is loaded
// first when present, so tests and local runs don't need exported variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	conf := &Config{
		Mode:        RunMode(getEnv("NASH_RUN_MODE", string(RunModeLive))),
		Sandbox:     os.Getenv("NASH_SANDBOX") == "true",
		APIKey:      os.Getenv("NASH_API_KEY"),
		APISecret:   os.Getenv("NASH_API_SECRET"),
		MetricsAddr: getEnv("METRICS_ADDR", ":8080"),
	}

	if conf.Mode != RunModeLive && conf.Mode != RunModeBackfill {
		return nil, fmt.Errorf("unknown run mode %q (expected %q or %q)", conf.Mode, RunModeLive, RunModeBackfill)
	}

	if conf.Sandbox {
		conf.HTTPEndpoint = getEnv("NASH_HTTP_ENDPOINT", sandboxHTTPEndpoint)
		conf.WSEndpoint = getEnv("NASH_WS_ENDPOINT", sandboxWSEndpoint)
	} else {
		conf.HTTPEndpoint = getEnv("NASH_HTTP_ENDPOINT", productionHTTPEndpoint)
		conf.WSEndpoint = getEnv("NASH_WS_ENDPOINT", productionWSEndpoint)
	}

	return conf, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
