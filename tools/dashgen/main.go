// Command dashgen generates the Grafana dashboard and Prometheus rule
// artifacts under deploy/ from Go builders, so panels and alerts stay in
// sync with the metrics the notifier actually exports.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/vinted-tools/vinted-notifier/tools/dashgen/dashboards"
	"github.com/vinted-tools/vinted-notifier/tools/dashgen/rules"
	"github.com/vinted-tools/vinted-notifier/tools/dashgen/validate"
)

const generatedHeader = "# Code generated by tools/dashgen. DO NOT EDIT.\n"

func main() {
	validateOnly := flag.Bool("validate", false, "validate generated artifacts without writing files")
	outputDir := flag.String("output", "", "override output directory")
	flag.Parse()

	cfg := DefaultConfig()
	if *outputDir != "" {
		cfg.OutputDir = *outputDir
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	if err := run(cfg, *validateOnly); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg Config, validateOnly bool) error {
	dash, err := dashboards.BuildOverview().Build()
	if err != nil {
		return fmt.Errorf("building dashboard: %w", err)
	}

	result := validate.Dashboard(dash, KnownMetrics)
	for _, w := range result.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}
	if !result.Ok() {
		for _, e := range result.Errors {
			fmt.Fprintf(os.Stderr, "error: %s\n", e)
		}
		return fmt.Errorf("dashboard validation failed with %d errors", len(result.Errors))
	}

	ruleExprs := ruleExpressions()
	ruleResult := validate.Rules(ruleExprs, KnownMetrics)
	if !ruleResult.Ok() {
		for _, e := range ruleResult.Errors {
			fmt.Fprintf(os.Stderr, "error: %s\n", e)
		}
		return fmt.Errorf("rule validation failed with %d errors", len(ruleResult.Errors))
	}

	if validateOnly {
		fmt.Println("validation passed")
		return nil
	}

	if cfg.DashboardEnabled {
		if err := writeDashboard(cfg.OutputDir, dash); err != nil {
			return err
		}
	}
	if cfg.RulesEnabled {
		if err := writeRules(cfg.OutputDir); err != nil {
			return err
		}
	}
	return nil
}

func ruleExpressions() []string {
	var exprs []string
	for _, group := range rules.RecordingRules().Spec.Groups {
		for _, rule := range group.Rules {
			exprs = append(exprs, rule.Expr)
		}
	}
	for _, group := range rules.AlertRules().Spec.Groups {
		for _, rule := range group.Rules {
			exprs = append(exprs, rule.Expr)
		}
	}
	return exprs
}

func writeDashboard(outputDir string, dash any) error {
	data, err := json.MarshalIndent(dash, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling dashboard: %w", err)
	}
	data = append(data, '\n')

	path := filepath.Join(outputDir, "grafana", "data", "vinted-notifier-overview.json")
	return writeFile(path, data)
}

func writeRules(outputDir string) error {
	recording, err := yaml.Marshal(rules.RecordingRules())
	if err != nil {
		return fmt.Errorf("marshaling recording rules: %w", err)
	}
	recording = append([]byte(generatedHeader), recording...)

	alerts, err := yaml.Marshal(rules.AlertRules())
	if err != nil {
		return fmt.Errorf("marshaling alert rules: %w", err)
	}
	alerts = append([]byte(generatedHeader), alerts...)

	promDir := filepath.Join(outputDir, "prometheus")
	if err := writeFile(filepath.Join(promDir, "vinted-notifier-recording-rules.yaml"), recording); err != nil {
		return err
	}
	return writeFile(filepath.Join(promDir, "vinted-notifier-alerts.yaml"), alerts)
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil { //nolint:gosec // generated artifacts are world-readable
		return fmt.Errorf("writing %s: %w", path, err)
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}
