package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/stat"
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// ChunkRate returns a timeseries panel showing webhook chunk sends per second.
func ChunkRate() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Webhook Chunks").
		Description("Discord webhook chunk sends per second").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(TSWidth).
		WithTarget(PromQuery(`sum(rate(vinted_notify_chunks_total{job="vinted-notifier"}[5m]))`, "chunks/s", "A")).
		FillOpacity(10).
		LineWidth(2).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}

// NotifyFailures returns a stat panel showing failed webhook sends in the
// past 24 hours.
func NotifyFailures() *stat.PanelBuilder {
	return stat.NewPanelBuilder().
		Title("Delivery Failures (24h)").
		Description("Failed Discord webhook sends in the last 24 hours").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(TSWidth).
		WithTarget(PromQuery(`increase(vinted_notify_failures_total{job="vinted-notifier"}[24h])`, "", "A")).
		Thresholds(ThresholdsGreenYellowRed(1, 5)).
		ColorScheme(ColorSchemeThresholds()).
		ColorMode(common.BigValueColorModeBackground).
		GraphMode(common.BigValueGraphModeArea)
}
