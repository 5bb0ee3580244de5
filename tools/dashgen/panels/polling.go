package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// FetchRate returns a timeseries panel showing the rate of items fetched
// from Vinted.
func FetchRate() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Items Fetched").
		Description("Rate of items fetched across all profiles").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(TSWidth).
		WithTarget(PromQuery(`sum(rate(vinted_fetch_items_total{job="vinted-notifier"}[5m]))`, "items/s", "A")).
		FillOpacity(10).
		LineWidth(2).
		Legend(TableLegend("mean", "max")).
		Tooltip(MultiTooltip()).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}

// FetchErrors returns a timeseries panel showing failed profile fetches
// broken down by reason.
func FetchErrors() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Fetch Errors").
		Description("Failed profile fetches per second by reason").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(TSWidth).
		WithTarget(PromQuery(
			`sum(rate(vinted_fetch_errors_total{job="vinted-notifier"}[5m])) by (reason)`,
			"{{reason}}", "A",
		)).
		FillOpacity(10).
		LineWidth(2).
		Legend(TableLegend("mean", "max")).
		Tooltip(MultiTooltip()).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}

// RunDurationP95 returns a timeseries panel showing the p95 duration of
// full notification runs.
func RunDurationP95() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Run Duration (p95)").
		Description("95th percentile duration of full polling runs").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(TSWidth).
		WithTarget(PromQuery(
			`histogram_quantile(0.95, sum(rate(vinted_run_duration_seconds_bucket{job="vinted-notifier"}[15m])) by (le))`,
			"p95", "A",
		)).
		Unit("s").
		FillOpacity(10).
		LineWidth(2).
		Thresholds(ThresholdsGreenYellowRed(30, 120)).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}
