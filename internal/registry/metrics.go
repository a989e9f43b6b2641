package registry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "modulegrid"

// metrics holds the registry's Prometheus collectors.
type metrics struct {
	registrations   *prometheus.CounterVec
	lookups         *prometheus.CounterVec
	unregistrations *prometheus.CounterVec
	factories       prometheus.Gauge
}

// newMetrics creates the collectors and registers them on reg. A nil reg
// leaves them unregistered, which keeps independent registries (tests, for
// one) from colliding on the default registerer.
func newMetrics(reg prometheus.Registerer) *metrics {
	factory := promauto.With(reg)

	return &metrics{
		registrations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "registry",
			Name:      "registrations_total",
			Help:      "Module registration attempts by namespace and result.",
		}, []string{"namespace", "result"}),

		lookups: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "registry",
			Name:      "lookups_total",
			Help:      "FindModule calls by namespace and result.",
		}, []string{"namespace", "result"}),

		unregistrations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "registry",
			Name:      "unregistrations_total",
			Help:      "UnregisterModule calls by namespace and result.",
		}, []string{"namespace", "result"}),

		factories: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: "registry",
			Name:      "factories",
			Help:      "Number of factories currently registered.",
		}),
	}
}

// result labels
const (
	resultOK       = "ok"
	resultNotFound = "not_found"
	resultError    = "error"
	resultSkipped  = "skipped"
	resultReplaced = "replaced"
	resultConflict = "conflict"
)
