package swipe

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ytget/anchorswipe/internal/model"
)

// Metrics counts transitions and drags. A nil *Metrics records nothing.
type Metrics struct {
	transitions *prometheus.CounterVec
	drags       *prometheus.CounterVec
	settle      *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them on reg
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "anchorswipe_transitions_total",
			Help: "Transitions by state name, from label, requested label and result",
		}, []string{"name", "from", "to", "result"}),
		drags: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "anchorswipe_drag_deltas_total",
			Help: "Drag deltas applied by state name",
		}, []string{"name"}),
		settle: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "anchorswipe_settle_duration_seconds",
			Help:    "Time from transition start to completion, veto or cancellation",
			Buckets: []float64{0.01, 0.05, 0.1, 0.2, 0.3, 0.5, 1, 2},
		}, []string{"name", "result"}),
	}

	for _, c := range []prometheus.Collector{m.transitions, m.drags, m.settle} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) observeTransition(name string, from, to model.StateLabel, result model.Result, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.transitions.WithLabelValues(sanitizeName(name), from.String(), to.String(), result.String()).Inc()
	m.settle.WithLabelValues(sanitizeName(name), result.String()).Observe(elapsed.Seconds())
}

func (m *Metrics) observeDrag(name string) {
	if m == nil {
		return
	}
	m.drags.WithLabelValues(sanitizeName(name)).Inc()
}

func sanitizeName(name string) string {
	if name == "" {
		return "unknown"
	}
	return name
}
