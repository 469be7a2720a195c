package nodebalance

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	resultSelected  = "selected"
	resultBusy      = "busy"
	resultFailed    = "failed"
	resultApplied   = "applied"
	resultDuplicate = "duplicate"
	resultNotFound  = "not_found"

	operationAdd      = "add"
	operationRemove   = "remove"
	operationOverride = "override"
)

// Metrics holds the Prometheus collectors shared by selectors. A nil
// *Metrics records nothing.
type Metrics struct {
	selections *prometheus.CounterVec
	operations *prometheus.CounterVec
	nodes      *prometheus.GaugeVec
}

// NewMetrics creates the collectors and registers them with reg. reg may be
// nil, in which case nothing is registered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		selections: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "nodebalance_selections_total",
			Help: "Total number of node selections attempted, by outcome.",
		}, []string{"strategy", "result"}),
		operations: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "nodebalance_registry_operations_total",
			Help: "Total number of roster operations attempted, by outcome.",
		}, []string{"strategy", "operation", "result"}),
		nodes: promauto.With(reg).NewGaugeVec(prometheus.GaugeOpts{
			Name: "nodebalance_nodes",
			Help: "Number of nodes currently registered.",
		}, []string{"strategy"}),
	}
}

func (m *Metrics) selection(s Strategy, result string) {
	if m == nil {
		return
	}
	m.selections.WithLabelValues(s.String(), result).Inc()
}

func (m *Metrics) operation(s Strategy, op, result string) {
	if m == nil {
		return
	}
	m.operations.WithLabelValues(s.String(), op, result).Inc()
}

func (m *Metrics) nodesDelta(s Strategy, delta float64) {
	if m == nil {
		return
	}
	m.nodes.WithLabelValues(s.String()).Add(delta)
}
