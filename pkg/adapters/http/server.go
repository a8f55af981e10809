// Package http serves a rendered story graph over HTTP.
package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aretw0/storyviz"
	"github.com/aretw0/storyviz/internal/presentation/graph"
	"github.com/aretw0/storyviz/internal/visualization"
)

// GraphResponse is the JSON form of a story graph.
type GraphResponse struct {
	Nodes []visualization.Node `json:"nodes"`
	Edges []visualization.Edge `json:"edges"`
}

// Server holds the graph being served.
type Server struct {
	Graph   *visualization.Graph
	Title   string
	Metrics *Metrics
	Logger  *slog.Logger
}

// NewHandler creates the HTTP handler for g. Metrics are exposed on /metrics
// from a registry private to the handler.
func NewHandler(g *visualization.Graph, title string, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	reg := prometheus.NewRegistry()
	s := &Server{
		Graph:   g,
		Title:   title,
		Metrics: NewMetrics(reg),
		Logger:  logger,
	}
	s.Metrics.GraphNodes.Set(float64(g.NodeCount()))
	s.Metrics.GraphEdges.Set(float64(g.EdgeCount()))

	r := chi.NewRouter()
	r.Get("/", s.render(graph.FormatHTML, "text/html; charset=utf-8"))
	r.Get("/graph.mmd", s.render(graph.FormatMermaid, "text/plain; charset=utf-8"))
	r.Get("/graph.md", s.render(graph.FormatMarkdown, "text/markdown; charset=utf-8"))
	r.Get("/graph.dot", s.render(graph.FormatDOT, "text/vnd.graphviz; charset=utf-8"))
	r.Get("/graph.json", s.GetGraph)
	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	return r
}

func (s *Server) render(format graph.Format, contentType string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		out, err := graph.Render(s.Graph, format, s.Title)
		s.Metrics.RenderDuration.WithLabelValues(string(format)).Observe(time.Since(start).Seconds())
		s.Metrics.Requests.WithLabelValues(string(format)).Inc()
		if err != nil {
			http.Error(w, "Render failed", http.StatusInternalServerError)
			s.Logger.Error("Render failed", "format", format, "error", err)
			return
		}
		w.Header().Set("Content-Type", contentType)
		if _, err := w.Write([]byte(out)); err != nil {
			s.Logger.Debug("Response write failed", "error", err)
		}
	}
}

// GetGraph handles the GET /graph.json request.
func (s *Server) GetGraph(w http.ResponseWriter, r *http.Request) {
	s.Metrics.Requests.WithLabelValues("json").Inc()
	resp := GraphResponse{Nodes: s.Graph.Nodes(), Edges: s.Graph.Edges()}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.Logger.Error("GetGraph response encode failed", "error", err)
	}
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{
		"app":     "storyviz-http",
		"version": strings.TrimSpace(storyviz.Version),
		"title":   s.Title,
		"nodes":   s.Graph.NodeCount(),
		"edges":   s.Graph.EdgeCount(),
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}
