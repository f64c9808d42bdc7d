package observability

import (
	"github.com/aretw0/layerdisplay/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Forward outcomes, used as the "result" label.
const (
	ResultSent         = "sent"
	ResultDeduplicated = "deduplicated"
	ResultFailed       = "failed"
	ResultUnavailable  = "unavailable"
)

// Metrics groups the collectors exported by a node.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	Forwards      *prometheus.CounterVec
	CurrentLayer  prometheus.Gauge
	Notifications prometheus.Counter
}

// NewMetrics creates the collectors and registers them on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Forwards: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "layerdisplay_forward_total",
				Help: "Layer forward attempts by outcome",
			},
			[]string{"result"},
		),
		CurrentLayer: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "layerdisplay_current_layer",
			Help: "Layer currently shown on this node",
		}),
		Notifications: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "layerdisplay_notifications_total",
			Help: "Display observer notifications delivered",
		}),
	}
	reg.MustRegister(m.Forwards, m.CurrentLayer, m.Notifications)
	return m
}

// ObserveForward counts one forward attempt.
func (m *Metrics) ObserveForward(result string) {
	if m == nil {
		return
	}
	m.Forwards.WithLabelValues(result).Inc()
}

// ObserveNotification records a delivered display notification showing layer.
func (m *Metrics) ObserveNotification(layer domain.Layer) {
	if m == nil {
		return
	}
	m.Notifications.Inc()
	m.CurrentLayer.Set(float64(layer))
}
