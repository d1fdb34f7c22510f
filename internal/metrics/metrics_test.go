package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveScan(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveScan("ok", 0.5, 3)
	m.ObserveScan("error", 0.1, 0)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.ScansTotal.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ScansTotal.WithLabelValues("error")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.SignalsCollected))
}

func TestNilMetricsAreNoOps(t *testing.T) {
	var m *Metrics
	m.ObserveScan("ok", 1, 1)
	m.ObserveAlert("ok")
}
