// Package metrics holds the adapter's request counters. The registry is
// private to the process and exposed over the web surface's /metrics
// endpoint; nothing here is required for the protocol path to function.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics bundles the adapter's counters around a private registry.
type Metrics struct {
	registry *prometheus.Registry

	ToolCalls        *prometheus.CounterVec
	ResourceReads    prometheus.Counter
	ResourceListings prometheus.Counter
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		ToolCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "slack_mcp",
			Name:      "tool_calls_total",
			Help:      "Tool invocations by tool name.",
		}, []string{"tool"}),
		ResourceReads: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "slack_mcp",
			Name:      "resource_reads_total",
			Help:      "Resource read requests.",
		}),
		ResourceListings: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "slack_mcp",
			Name:      "resource_listings_total",
			Help:      "Resource listing requests.",
		}),
	}
	m.registry.MustRegister(m.ToolCalls, m.ResourceReads, m.ResourceListings)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
