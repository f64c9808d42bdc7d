package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_ObserveForward(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.ObserveForward(ResultSent)
	m.ObserveForward(ResultSent)
	m.ObserveForward(ResultDeduplicated)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Forwards.WithLabelValues(ResultSent)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Forwards.WithLabelValues(ResultDeduplicated)))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.Forwards.WithLabelValues(ResultFailed)))
}

func TestMetrics_ObserveNotification(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.ObserveNotification(4)
	m.ObserveNotification(2)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Notifications))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.CurrentLayer))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveForward(ResultFailed)
		m.ObserveNotification(1)
	})
}
