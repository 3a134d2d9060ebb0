package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"route", "method", "status"},
	)

	// Recipes and tags
	RecipesWritten = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recipes_written_total",
			Help: "Recipe writes that were committed",
		},
		[]string{"op"}, // create|update|delete
	)
	TagsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "tags_created_total",
			Help: "Tags inserted, explicitly or while resolving recipe tags",
		},
	)

	// Worker queue
	WorkerQueueDepth = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "worker_queue_depth",
			Help: "Current worker queue depth",
		},
	)

	initOnce sync.Once
)

// Handler serves /metrics.
var Handler = promhttp.Handler

// Init registers the collectors with the default registry. Safe to call more
// than once.
func Init() {
	initOnce.Do(func() {
		prometheus.MustRegister(RequestsTotal)
		prometheus.MustRegister(RecipesWritten)
		prometheus.MustRegister(TagsCreated)
		prometheus.MustRegister(WorkerQueueDepth)
	})
}
