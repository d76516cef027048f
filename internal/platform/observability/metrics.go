package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ItemsFetched = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "newsroom_items_fetched_total",
		Help: "The total number of raw items fetched per source",
	}, []string{"source"})

	ItemsInserted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "newsroom_items_inserted_total",
		Help: "The total number of articles inserted per source",
	}, []string{"source"})

	ItemsDropped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "newsroom_items_dropped_total",
		Help: "Total number of dropped items by reason",
	}, []string{"reason"})

	SourceErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "newsroom_source_errors_total",
		Help: "Total number of failed source fetches",
	}, []string{"source"})

	CycleDurationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "newsroom_cycle_duration_seconds",
		Help:    "Duration in seconds of one full ingestion cycle",
		Buckets: []float64{1, 2, 5, 10, 20, 30, 60, 120, 300},
	})

	CyclesSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "newsroom_cycles_skipped_total",
		Help: "Total number of scheduled cycles skipped because one was still running",
	})

	APIListCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "newsroom_api_list_cache_hits_total",
		Help: "Total number of article list requests served from cache",
	})

	APIListCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "newsroom_api_list_cache_misses_total",
		Help: "Total number of article list requests that missed the cache",
	})
)
