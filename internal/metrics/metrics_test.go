package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCountersIncrement(t *testing.T) {
	before := testutil.ToFloat64(FetchItemsTotal)
	FetchItemsTotal.Inc()
	assert.InDelta(t, before+1, testutil.ToFloat64(FetchItemsTotal), 0.001)
}

func TestFetchErrorsLabelled(t *testing.T) {
	c := FetchErrorsTotal.WithLabelValues("unavailable")
	before := testutil.ToFloat64(c)
	c.Inc()
	assert.InDelta(t, before+1, testutil.ToFloat64(c), 0.001)
}
