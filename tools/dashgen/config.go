package main

import "errors"

// KnownMetrics is the set of metric names exported by vinted-notifier
// plus recording rule names referenced in dashboards and alerts.
var KnownMetrics = map[string]bool{
	// HTTP metrics.
	"vinted_http_request_duration_seconds": true,
	"vinted_http_requests_total":           true,

	// Health metrics.
	"vinted_healthz_up": true,
	"vinted_readyz_up":  true,

	// Polling metrics.
	"vinted_fetch_items_total":    true,
	"vinted_fetch_errors_total":   true,
	"vinted_new_items_total":      true,
	"vinted_run_duration_seconds": true,

	// Delivery metrics.
	"vinted_notify_chunks_total":   true,
	"vinted_notify_failures_total": true,

	// Recording rules.
	"vinted:http_requests:rate5m":   true,
	"vinted:http_errors:rate5m":     true,
	"vinted:fetch_errors:rate5m":    true,
	"vinted:new_items:rate1h":       true,
	"vinted:notify_failures:rate5m": true,

	// Standard Prometheus metrics referenced in dashboards.
	"up":                         true,
	"process_start_time_seconds": true,
}

// Config controls which artifacts the generator produces and where they go.
type Config struct {
	OutputDir        string
	DashboardEnabled bool
	RulesEnabled     bool
}

// DefaultConfig returns a Config that generates all artifacts into ../../deploy
// (relative to tools/dashgen/).
func DefaultConfig() Config {
	return Config{
		OutputDir:        "../../deploy",
		DashboardEnabled: true,
		RulesEnabled:     true,
	}
}

// Validate checks that the config is usable.
func (c Config) Validate() error {
	if c.OutputDir == "" {
		return errors.New("output directory must be set")
	}
	if !c.DashboardEnabled && !c.RulesEnabled {
		return errors.New("at least one of dashboard or rules must be enabled")
	}
	return nil
}
