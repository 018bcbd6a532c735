// Package metrics exposes Prometheus metrics and a /healthz endpoint for
// the chart engine.
package metrics

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the chart engine.
type Metrics struct {
	BarsAppended  prometheus.Counter
	BarsDropped   prometheus.Counter
	FramesTotal   prometheus.Counter
	ComputeDur    prometheus.Histogram
	RenderDur     prometheus.Histogram
	HitTestsTotal *prometheus.CounterVec // labels: kind
	RingOverflow  prometheus.Counter
	WSClients     prometheus.Gauge
	ReplayToggles prometheus.Counter
}

// NewMetrics registers and returns all Prometheus metrics.
func NewMetrics() *Metrics {
	m := &Metrics{
		BarsAppended: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "chartd_bars_appended_total",
			Help: "Bars appended to the pane history",
		}),
		BarsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "chartd_bars_dropped_total",
			Help: "Bars rejected at ingestion (invalid or out of order)",
		}),
		FramesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "chartd_frames_total",
			Help: "Frames rendered",
		}),
		ComputeDur: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "chartd_compute_duration_seconds",
			Help:    "Geometry+indicator+projection recompute latency",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05},
		}),
		RenderDur: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "chartd_render_duration_seconds",
			Help:    "Layered frame render latency",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25},
		}),
		HitTestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "chartd_hit_tests_total",
			Help: "Pointer hit-tests resolved (by hit kind)",
		}, []string{"kind"}),
		RingOverflow: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "chartd_ring_overflow_total",
			Help: "Feed ring buffer push overflows (dropped bars)",
		}),
		WSClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "chartd_ws_clients",
			Help: "Connected WebSocket clients",
		}),
		ReplayToggles: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "chartd_replay_toggles_total",
			Help: "Live/replay mode transitions",
		}),
	}

	prometheus.MustRegister(
		m.BarsAppended,
		m.BarsDropped,
		m.FramesTotal,
		m.ComputeDur,
		m.RenderDur,
		m.HitTestsTotal,
		m.RingOverflow,
		m.WSClients,
		m.ReplayToggles,
	)

	return m
}

// HealthStatus represents the system health.
type HealthStatus struct {
	mu sync.RWMutex

	FeedRunning bool      `json:"feed_running"`
	LastBarTime time.Time `json:"last_bar_time"`
	HistoryLen  int       `json:"history_len"`
	StartedAt   time.Time `json:"started_at"`
}

// NewHealthStatus returns a default health status.
func NewHealthStatus() *HealthStatus {
	return &HealthStatus{StartedAt: time.Now()}
}

func (h *HealthStatus) SetFeedRunning(v bool) {
	h.mu.Lock()
	h.FeedRunning = v
	h.mu.Unlock()
}

func (h *HealthStatus) SetLastBar(t time.Time, historyLen int) {
	h.mu.Lock()
	h.LastBarTime = t
	h.HistoryLen = historyLen
	h.mu.Unlock()
}

// ServeHTTP handles the /healthz endpoint.
func (h *HealthStatus) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	status := "healthy"
	code := http.StatusOK
	if !h.FeedRunning {
		status = "degraded"
		code = http.StatusServiceUnavailable
	}

	barAge := ""
	if !h.LastBarTime.IsZero() {
		barAge = time.Since(h.LastBarTime).Round(time.Millisecond).String()
	}

	out := struct {
		Status      string `json:"status"`
		Uptime      string `json:"uptime"`
		FeedRunning bool   `json:"feed_running"`
		LastBarTime string `json:"last_bar_time"`
		BarAge      string `json:"bar_age"`
		HistoryLen  int    `json:"history_len"`
	}{
		Status:      status,
		Uptime:      time.Since(h.StartedAt).Round(time.Second).String(),
		FeedRunning: h.FeedRunning,
		LastBarTime: h.LastBarTime.Format(time.RFC3339),
		BarAge:      barAge,
		HistoryLen:  h.HistoryLen,
	}

	w.Header().Set("Content-Type", "application/json")
	if code != http.StatusOK {
		w.WriteHeader(code)
	}
	json.NewEncoder(w).Encode(out)
}

// Server runs an HTTP server exposing /metrics and /healthz.
type Server struct {
	addr string
	srv  *http.Server
}

// NewServer creates a metrics and health server.
func NewServer(addr string, health *HealthStatus) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", health.ServeHTTP)

	return &Server{
		addr: addr,
		srv:  &http.Server{Addr: addr, Handler: mux},
	}
}

// Start launches the HTTP server in a goroutine.
func (s *Server) Start() {
	go func() {
		log.Printf("[metrics] server listening on %s", s.addr)
		if err := s.srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Printf("[metrics] server error: %v", err)
		}
	}()
}

// Stop gracefully shuts down the metrics server.
func (s *Server) Stop(ctx context.Context) {
	s.srv.Shutdown(ctx)
}
