package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "geoanalysis",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests processed",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "geoanalysis",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 10},
	}, []string{"method", "path"})

	operationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "geoanalysis",
		Subsystem: "analysis",
		Name:      "operation_duration_seconds",
		Help:      "Duration of an analysis operation",
		Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
	}, []string{"operation"})

	entitiesProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "geoanalysis",
		Subsystem: "analysis",
		Name:      "entities_processed_total",
		Help:      "Entities passed to analysis operations",
	}, []string{"operation"})

	rejectedRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "geoanalysis",
		Subsystem: "analysis",
		Name:      "rejected_total",
		Help:      "Analysis requests rejected by input validation",
	}, []string{"operation"})
)

func ObserveRequest(method, path, status string, d time.Duration) {
	httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	httpRequestDuration.WithLabelValues(method, path).Observe(d.Seconds())
}

func ObserveOperation(operation string, entities int, d time.Duration) {
	operationDuration.WithLabelValues(operation).Observe(d.Seconds())
	entitiesProcessed.WithLabelValues(operation).Add(float64(entities))
}

func ObserveRejected(operation string) {
	rejectedRequests.WithLabelValues(operation).Inc()
}

func Handler() http.Handler {
	return promhttp.Handler()
}
