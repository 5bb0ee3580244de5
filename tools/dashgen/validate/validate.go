// Package validate checks generated dashboards and rules for PromQL syntax
// errors and references to metrics the application does not export. Catching
// a typoed metric name here beats discovering an empty panel in Grafana.
package validate

import (
	"encoding/json"
	"fmt"

	"github.com/grafana/grafana-foundation-sdk/go/dashboard"
	"github.com/prometheus/prometheus/promql/parser"
)

// Result collects validation findings. Errors fail validation; warnings are
// advisory.
type Result struct {
	Errors   []string
	Warnings []string
}

// Ok reports whether validation passed.
func (r Result) Ok() bool {
	return len(r.Errors) == 0
}

func (r *Result) errorf(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// Dashboard validates every query expression in a built dashboard: each must
// parse as PromQL and reference only metrics present in known.
func Dashboard(dash dashboard.Dashboard, known map[string]bool) Result {
	var result Result

	data, err := json.Marshal(dash)
	if err != nil {
		result.errorf("marshaling dashboard: %v", err)
		return result
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		result.errorf("re-parsing dashboard JSON: %v", err)
		return result
	}

	for _, expr := range collectExprs(doc) {
		Expr(expr, known, &result)
	}
	return result
}

// Rules validates the expressions of a set of rule groups. Recording rule
// names are added to known so later rules may reference earlier ones.
func Rules(exprs []string, known map[string]bool) Result {
	var result Result
	for _, expr := range exprs {
		Expr(expr, known, &result)
	}
	return result
}

// Expr validates a single PromQL expression against the known metric set.
func Expr(expr string, known map[string]bool, result *Result) {
	node, err := parser.ParseExpr(expr)
	if err != nil {
		result.errorf("invalid PromQL %q: %v", expr, err)
		return
	}

	parser.Inspect(node, func(n parser.Node, _ []parser.Node) error {
		vs, ok := n.(*parser.VectorSelector)
		if !ok {
			return nil
		}
		// Selectors like {job="x"} with no metric name are legal.
		if vs.Name != "" && !known[vs.Name] {
			result.errorf("expression %q references unknown metric %q", expr, vs.Name)
		}
		return nil
	})
}

// collectExprs walks arbitrary JSON and gathers every string under an
// "expr" key. The dashboard schema nests targets differently per panel
// type; walking the serialized form sidesteps that.
func collectExprs(doc any) []string {
	var exprs []string
	switch v := doc.(type) {
	case map[string]any:
		for key, val := range v {
			if key == "expr" {
				if s, ok := val.(string); ok && s != "" {
					exprs = append(exprs, s)
					continue
				}
			}
			exprs = append(exprs, collectExprs(val)...)
		}
	case []any:
		for _, item := range v {
			exprs = append(exprs, collectExprs(item)...)
		}
	}
	return exprs
}
