package tasks

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	runsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "newsbrief_runs_total",
		Help: "Acquisition runs by trigger and outcome.",
	}, []string{"trigger", "status"})

	sourceErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "newsbrief_source_errors_total",
		Help: "Source fetch failures that degraded to an empty result.",
	}, []string{"source"})

	itemsFetchedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "newsbrief_items_fetched_total",
		Help: "Normalized items produced per source.",
	}, []string{"source"})

	runDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "newsbrief_run_duration_seconds",
		Help:    "Wall time of acquisition runs.",
		Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
	})

	collectionSize = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "newsbrief_collection_size",
		Help: "Items in the merged collection after the last run.",
	})
)
