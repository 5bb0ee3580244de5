// Package dashboards assembles Grafana dashboard definitions from panel builders.
package dashboards

import (
	"github.com/grafana/grafana-foundation-sdk/go/dashboard"

	"github.com/vinted-tools/vinted-notifier/tools/dashgen/panels"
)

// BuildOverview constructs the Vinted Notifier Overview dashboard with all
// metric rows.
func BuildOverview() *dashboard.DashboardBuilder {
	b := dashboard.NewDashboardBuilder("Vinted Notifier Overview").
		Uid("vinted-notifier-overview").
		Tags([]string{"vinted", "vinted-notifier"}).
		Refresh("30s").
		Time("now-6h", "now").
		Timezone("browser").
		Editable().
		Tooltip(dashboard.DashboardCursorSyncCrosshair).
		WithVariable(datasourceVar())

	// Row 1: Overview.
	b.WithRow(dashboard.NewRowBuilder("Overview").
		WithPanel(panels.HealthzStat()).
		WithPanel(panels.ReadyzStat()).
		WithPanel(panels.NewItemsToday()).
		WithPanel(panels.UptimeStat()))

	// Row 2: HTTP.
	b.WithRow(dashboard.NewRowBuilder("HTTP").
		WithPanel(panels.RequestRate()).
		WithPanel(panels.LatencyPercentiles()).
		WithPanel(panels.ErrorRate()))

	// Row 3: Polling.
	b.WithRow(dashboard.NewRowBuilder("Polling").
		WithPanel(panels.FetchRate()).
		WithPanel(panels.FetchErrors()).
		WithPanel(panels.RunDurationP95()))

	// Row 4: Delivery.
	b.WithRow(dashboard.NewRowBuilder("Delivery").
		WithPanel(panels.ChunkRate()).
		WithPanel(panels.NotifyFailures()))

	return b
}

func datasourceVar() *dashboard.DatasourceVariableBuilder {
	return dashboard.NewDatasourceVariableBuilder("datasource").
		Label("Datasource").
		Type("prometheus")
}
