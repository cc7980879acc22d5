package metrics

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/OldStager01/bikeshare-dashboard/internal/logger"
)

const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomeInvalid = "invalid"
)

// Metrics owns a private registry so tests and multiple servers never
// collide on the global one.
type Metrics struct {
	registry *prometheus.Registry

	rendersTotal      *prometheus.CounterVec
	renderDuration    *prometheus.HistogramVec
	stageDuration     *prometheus.HistogramVec
	filteredRows      prometheus.Histogram
	datasetRows       *prometheus.GaugeVec
	reloadsTotal      *prometheus.CounterVec
	segmentNotices    *prometheus.CounterVec
	httpRequestsTotal *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
	wsClients         prometheus.Gauge
}

var (
	instance *Metrics
	once     sync.Once
)

func Get() *Metrics {
	once.Do(func() {
		instance = New()
	})
	return instance
}

func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	m := &Metrics{
		registry: registry,
		rendersTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bikeshare_dashboard_renders_total",
			Help: "Dashboard recomputations by endpoint and outcome.",
		}, []string{"endpoint", "outcome"}),
		renderDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "bikeshare_dashboard_render_duration_seconds",
			Help:    "Duration of full dashboard recomputations.",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),
		stageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "bikeshare_pipeline_stage_duration_seconds",
			Help:    "Duration of individual pipeline stages.",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
		}, []string{"stage"}),
		filteredRows: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "bikeshare_filtered_rows",
			Help:    "Number of daily rows retained by the filter.",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12),
		}),
		datasetRows: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "bikeshare_dataset_rows",
			Help: "Rows in the loaded tables.",
		}, []string{"table"}),
		reloadsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bikeshare_dataset_reloads_total",
			Help: "Dataset reloads triggered by file changes.",
		}, []string{"outcome"}),
		segmentNotices: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bikeshare_segmentation_notices_total",
			Help: "Segmentation sections replaced by a notice.",
		}, []string{"section"}),
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bikeshare_http_requests_total",
			Help: "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "bikeshare_http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		wsClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "bikeshare_websocket_clients",
			Help: "Connected WebSocket clients.",
		}),
	}

	registry.MustRegister(
		m.rendersTotal,
		m.renderDuration,
		m.stageDuration,
		m.filteredRows,
		m.datasetRows,
		m.reloadsTotal,
		m.segmentNotices,
		m.httpRequestsTotal,
		m.httpDuration,
		m.wsClients,
	)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) ObserveRender(endpoint, outcome string, d time.Duration) {
	m.rendersTotal.WithLabelValues(endpoint, outcome).Inc()
	if outcome == OutcomeSuccess {
		m.renderDuration.WithLabelValues(endpoint).Observe(d.Seconds())
	}
}

func (m *Metrics) ObserveStage(stage string, d time.Duration) {
	m.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (m *Metrics) ObserveFilteredRows(n int) {
	m.filteredRows.Observe(float64(n))
}

func (m *Metrics) SetDatasetRows(table string, n int) {
	m.datasetRows.WithLabelValues(table).Set(float64(n))
}

func (m *Metrics) IncReload(outcome string) {
	m.reloadsTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) IncSegmentNotice(section string) {
	m.segmentNotices.WithLabelValues(section).Inc()
}

func (m *Metrics) ObserveHTTP(method, route string, status int, d time.Duration) {
	m.httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(route).Observe(d.Seconds())
}

func (m *Metrics) SetWebSocketClients(n int) {
	m.wsClients.Set(float64(n))
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// StartServer serves /metrics on its own port until ctx is cancelled.
func StartServer(ctx context.Context, port int) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Get().Handler())

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	logger.Infof("Prometheus metrics server listening on %s", srv.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Errorf("Prometheus server error: %v", err)
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	return srv
}
