package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

//Metrics collects counters and gauges describing what the smart house registry does
type Metrics struct {
	registry   *prometheus.Registry
	operations *prometheus.CounterVec
	rooms      prometheus.Gauge
	devices    prometheus.Gauge
}

//New creates a Metrics instance with its own registry
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "smarthouse_operations_total",
				Help: "Number of store operations by name and outcome.",
			},
			[]string{"operation", "outcome"},
		),
		rooms: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "smarthouse_rooms",
				Help: "Current number of rooms.",
			},
		),
		devices: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "smarthouse_devices",
				Help: "Current number of devices.",
			},
		),
	}

	m.registry.MustRegister(m.operations)
	m.registry.MustRegister(m.rooms)
	m.registry.MustRegister(m.devices)

	return m
}

//Observe counts one invocation of an operation with the given outcome. A nil Metrics
//ignores the observation.
func (m *Metrics) Observe(operation, outcome string) {
	if m == nil {
		return
	}
	m.operations.WithLabelValues(operation, outcome).Inc()
}

//SetCounts updates the room and device gauges
func (m *Metrics) SetCounts(rooms, devices int) {
	if m == nil {
		return
	}
	m.rooms.Set(float64(rooms))
	m.devices.Set(float64(devices))
}

//Handler returns an http.Handler that serves the metrics in the prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
