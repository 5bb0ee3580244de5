package rules

// AlertRules returns a PrometheusRule CR containing alert rules for
// vinted-notifier operational monitoring.
func AlertRules() PrometheusRule {
	return PrometheusRule{
		APIVersion: "monitoring.coreos.com/v1",
		Kind:       "PrometheusRule",
		Metadata: PrometheusRuleMetadata{
			Name: "vinted-notifier-alerts",
			Labels: map[string]string{
				"prometheus": "system-rules-prometheus",
			},
		},
		Spec: PrometheusRuleSpec{
			Groups: []RuleGroup{
				{
					Name: "vinted-notifier-alerts",
					Rules: []Rule{
						{
							Alert: "VintedNotifierDown",
							Expr:  `absent(up{job="vinted-notifier"})`,
							For:   "5m",
							Labels: map[string]string{
								"severity": "critical",
							},
							Annotations: map[string]string{
								"summary":     "Vinted notifier is down",
								"description": "The vinted-notifier job has been absent for more than 5 minutes.",
							},
						},
						{
							Alert: "VintedNotifierReadinessDown",
							Expr:  `vinted_readyz_up == 0`,
							For:   "5m",
							Labels: map[string]string{
								"severity": "critical",
							},
							Annotations: map[string]string{
								"summary":     "Vinted notifier readiness check is failing",
								"description": "The readiness probe has been reporting not-ready for more than 5 minutes. The history store may be unreachable.",
							},
						},
						{
							Alert: "VintedNotifierHighErrorRate",
							Expr:  `vinted:http_errors:rate5m / vinted:http_requests:rate5m > 0.05`,
							For:   "5m",
							Labels: map[string]string{
								"severity": "warning",
							},
							Annotations: map[string]string{
								"summary":     "High HTTP error rate on vinted-notifier",
								"description": "More than 5% of HTTP requests are returning 5xx errors over the last 5 minutes.",
							},
						},
						{
							Alert: "VintedNotifierFetchErrors",
							Expr:  `vinted:fetch_errors:rate5m > 0`,
							For:   "30m",
							Labels: map[string]string{
								"severity": "warning",
							},
							Annotations: map[string]string{
								"summary":     "Profile fetches are failing",
								"description": "Item fetches from Vinted have been failing for more than 30 minutes. The feed layout may have changed or polling is being blocked.",
							},
						},
						{
							Alert: "VintedNotifierNotifyFailures",
							Expr:  `increase(vinted_notify_failures_total[15m]) > 0`,
							For:   "1m",
							Labels: map[string]string{
								"severity": "warning",
							},
							Annotations: map[string]string{
								"summary":     "Notification delivery failures detected",
								"description": "One or more Discord webhook sends have failed. New items in the failed chunks were not announced.",
							},
						},
					},
				},
			},
		},
	}
}
