package couch

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Fetch results recorded by Metrics.Fetches.
const (
	fetchFound   = "found"
	fetchMissing = "missing"
	fetchError   = "error"
)

// Metrics counts document cache and fetch activity
type Metrics struct {
	CacheHits   prometheus.Counter
	CacheMisses prometheus.Counter
	Fetches     *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them on reg. A nil reg
// leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		CacheHits: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "gcouch",
			Name:      "document_cache_hits_total",
			Help:      "Document lookups served from the local cache.",
		}),
		CacheMisses: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "gcouch",
			Name:      "document_cache_misses_total",
			Help:      "Document lookups not found in the local cache.",
		}),
		Fetches: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gcouch",
			Name:      "document_fetches_total",
			Help:      "Remote document fetches by result.",
		}, []string{"result"}),
	}
}
