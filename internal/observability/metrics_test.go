package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func expectValue(t *testing.T, name string, c prometheus.Collector, want float64) {
	t.Helper()
	if got := testutil.ToFloat64(c); got != want {
		t.Errorf("%s: expected %v, got %v", name, want, got)
	}
}

func TestMetrics_RecordRun(t *testing.T) {
	m := NewMetrics("test", prometheus.NewRegistry())

	m.RecordRun(RunStats{Tokens: 4, Considered: 4, Degenerate: 3, Retained: 1, Edges: 6, Paths: 6, Seconds: 0.2}, 1700000000)

	expectValue(t, "runs success", m.RunsTotal.WithLabelValues("success"), 1)
	expectValue(t, "degenerate triples", m.TriplesTotal.WithLabelValues("degenerate"), 3)
	expectValue(t, "retained triples", m.TriplesTotal.WithLabelValues("retained"), 1)
	expectValue(t, "paths", m.PathsEmitted, 6)
	expectValue(t, "edges", m.EdgesMaterialized, 6)
	expectValue(t, "tokens", m.TokensLoaded, 4)
	expectValue(t, "last success", m.LastSuccessfulRun, 1700000000)
}

func TestMetrics_RecordFailure(t *testing.T) {
	m := NewMetrics("test", prometheus.NewRegistry())

	m.RecordFailure(false)
	m.RecordFailure(true)

	expectValue(t, "runs failure", m.RunsTotal.WithLabelValues("failure"), 2)
	expectValue(t, "worker failures", m.WorkerFailures, 1)
}

func TestMetrics_RecordPools(t *testing.T) {
	m := NewMetrics("test", prometheus.NewRegistry())

	m.RecordPools(map[string]int{"sushiswap_v2": 500, "meshswap": 120})

	expectValue(t, "sushiswap pools", m.PoolsLoaded.WithLabelValues("sushiswap_v2"), 500)
	expectValue(t, "meshswap pools", m.PoolsLoaded.WithLabelValues("meshswap"), 120)
}
