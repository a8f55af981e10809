package http

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics are the Prometheus collectors of the graph server.
type Metrics struct {
	Requests       *prometheus.CounterVec
	RenderDuration *prometheus.HistogramVec
	GraphNodes     prometheus.Gauge
	GraphEdges     prometheus.Gauge
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "storyviz_graph_requests_total",
				Help: "Total number of graph requests by format",
			},
			[]string{"format"},
		),
		RenderDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "storyviz_render_duration_seconds",
				Help:    "Duration of graph rendering",
				Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12),
			},
			[]string{"format"},
		),
		GraphNodes: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "storyviz_graph_nodes",
			Help: "Number of nodes in the served graph",
		}),
		GraphEdges: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "storyviz_graph_edges",
			Help: "Number of edges in the served graph",
		}),
	}
	reg.MustRegister(m.Requests, m.RenderDuration, m.GraphNodes, m.GraphEdges)
	return m
}
