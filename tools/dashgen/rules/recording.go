package rules

// RecordingRules returns a PrometheusRule CR containing pre-computed rate
// expressions used by dashboards and alert rules.
func RecordingRules() PrometheusRule {
	return PrometheusRule{
		APIVersion: "monitoring.coreos.com/v1",
		Kind:       "PrometheusRule",
		Metadata: PrometheusRuleMetadata{
			Name: "vinted-notifier-recording-rules",
			Labels: map[string]string{
				"prometheus": "system-rules-prometheus",
			},
		},
		Spec: PrometheusRuleSpec{
			Groups: []RuleGroup{
				{
					Name: "vinted-notifier-recording",
					Rules: []Rule{
						{
							Record: "vinted:http_requests:rate5m",
							Expr:   `sum(rate(vinted_http_requests_total[5m]))`,
						},
						{
							Record: "vinted:http_errors:rate5m",
							Expr:   `sum(rate(vinted_http_requests_total{status=~"5.."}[5m]))`,
						},
						{
							Record: "vinted:fetch_errors:rate5m",
							Expr:   `sum(rate(vinted_fetch_errors_total[5m]))`,
						},
						{
							Record: "vinted:new_items:rate1h",
							Expr:   `rate(vinted_new_items_total[1h])`,
						},
						{
							Record: "vinted:notify_failures:rate5m",
							Expr:   `rate(vinted_notify_failures_total[5m])`,
						},
					},
				},
			},
		},
	}
}
