// file: internal/metrics/metrics.go
// version: 2.0.0
// guid: 8e9f0a1b-2c3d-4e5f-6a7b-8c9d0e1f2a3b

package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	requestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "obodeflix",
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests by route and status",
	}, []string{"route", "status"})
	requestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "obodeflix",
		Name:      "http_request_duration_seconds",
		Help:      "Histogram of HTTP request durations by route",
		Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12), // 5ms up to ~20s
	}, []string{"route"})

	importsStarted = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "obodeflix",
		Name:      "imports_started_total",
		Help:      "Total number of episode import batches started",
	})
	importsFailed = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "obodeflix",
		Name:      "imports_failed_total",
		Help:      "Total number of episode import batches that stopped on an error",
	})
	importedEpisodes = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "obodeflix",
		Name:      "imported_episodes_total",
		Help:      "Total number of episodes created through the import wizard",
	})
	importDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "obodeflix",
		Name:      "import_duration_seconds",
		Help:      "Histogram of import batch durations in seconds",
		Buckets:   prometheus.ExponentialBuckets(0.05, 1.6, 10),
	})

	seriesGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "obodeflix",
		Name:      "series_total",
		Help:      "Current number of active series in the catalog",
	})
	seasonsGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "obodeflix",
		Name:      "seasons_total",
		Help:      "Current number of active seasons in the catalog",
	})
	episodesGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "obodeflix",
		Name:      "episodes_total",
		Help:      "Current number of active episodes in the catalog",
	})
	sseClientsGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "obodeflix",
		Name:      "sse_clients",
		Help:      "Number of currently connected SSE clients",
	})
	memoryAllocGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "obodeflix",
		Name:      "process_memory_alloc_bytes",
		Help:      "Current process memory allocation (runtime.Alloc)",
	})
	goroutinesGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "obodeflix",
		Name:      "process_goroutines",
		Help:      "Number of currently running goroutines",
	})
)

// Register initializes metrics with the global Prometheus registry (idempotent)
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(requestsTotal, requestDuration,
			importsStarted, importsFailed, importedEpisodes, importDuration,
			seriesGauge, seasonsGauge, episodesGauge, sseClientsGauge,
			memoryAllocGauge, goroutinesGauge)
	})
}

// HTTP helpers
func IncRequest(route, status string) { requestsTotal.WithLabelValues(route, status).Inc() }
func ObserveRequestDuration(route string, d time.Duration) {
	requestDuration.WithLabelValues(route).Observe(d.Seconds())
}

// Import lifecycle helpers
func IncImportStarted()  { importsStarted.Inc() }
func IncImportFailed()   { importsFailed.Inc() }
func AddImportedEpisodes(n int) { importedEpisodes.Add(float64(n)) }
func ObserveImportDuration(d time.Duration) { importDuration.Observe(d.Seconds()) }

// Gauges
func SetSeries(n int)     { seriesGauge.Set(float64(n)) }
func SetSeasons(n int)    { seasonsGauge.Set(float64(n)) }
func SetEpisodes(n int)   { episodesGauge.Set(float64(n)) }
func SetSSEClients(n int) { sseClientsGauge.Set(float64(n)) }
func SetMemoryAlloc(b uint64) { memoryAllocGauge.Set(float64(b)) }
func SetGoroutines(n int) { goroutinesGauge.Set(float64(n)) }
