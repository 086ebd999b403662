// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of dax-client-go.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package metrics exposes the client's Prometheus collectors: pool
// health per endpoint, cache effectiveness, and request latency. A
// process embedding this client can scrape prometheus.DefaultRegisterer
// directly, or the cmd/daxstats binary exposes it at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// EndpointSnapshot is the subset of a pool's per-endpoint bookkeeping
// that ObservePoolStats needs; it exists here (rather than importing
// the pool package's own stats type) so metrics stays a leaf package
// with no internal dependencies of its own.
type EndpointSnapshot struct {
	Open int
	Bad  int
}

var (
	PoolOpenConnections = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "dax_pool_connections_open",
			Help: "Connections currently open per endpoint",
		},
		[]string{"endpoint"},
	)

	PoolBadConnections = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "dax_pool_connections_bad",
			Help: "Connections currently quarantined per endpoint",
		},
		[]string{"endpoint"},
	)

	PoolExhaustedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dax_pool_exhausted_total",
			Help: "Times Get found an endpoint already at its connection cap",
		},
		[]string{"endpoint"},
	)

	// Cache counters are gauges, not counters: the cache package keeps
	// its own monotonic hit/miss/eviction totals internally (see
	// internal/cache), and ObserveCacheStats mirrors that snapshot here
	// rather than re-deriving deltas from repeated polls.
	CacheHits = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "dax_cache_hits",
			Help: "Metadata cache hits observed so far",
		},
		[]string{"cache"}, // "key_schema" or "attribute_list"
	)

	CacheMisses = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "dax_cache_misses",
			Help: "Metadata cache misses observed so far",
		},
		[]string{"cache"},
	)

	CacheEvictions = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "dax_cache_evictions",
			Help: "Metadata cache evictions observed so far",
		},
		[]string{"cache"},
	)

	CacheSize = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "dax_cache_size",
			Help: "Entries currently held by a metadata cache",
		},
		[]string{"cache"},
	)

	AuthFramesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dax_auth_frames_total",
			Help: "Authorize-connection frames sent, by outcome",
		},
		[]string{"outcome"}, // "ok" or "failed"
	)

	RequestDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dax_request_duration_seconds",
			Help:    "Request latency as observed by the client, per operation",
			Buckets: []float64{0.0005, 0.001, 0.002, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"operation"},
	)
)

// ObservePoolStats replaces the pool gauges wholesale from a snapshot,
// so a stale endpoint (one the pool has stopped tracking) doesn't keep
// reporting its last value forever.
func ObservePoolStats(stats map[string]EndpointSnapshot) {
	PoolOpenConnections.Reset()
	PoolBadConnections.Reset()
	for endpoint, s := range stats {
		PoolOpenConnections.WithLabelValues(endpoint).Set(float64(s.Open))
		PoolBadConnections.WithLabelValues(endpoint).Set(float64(s.Bad))
	}
}

// ObserveCacheStats mirrors one metadata cache's Stats() snapshot
// under the given cache label ("key_schema" or "attribute_list").
func ObserveCacheStats(cache string, size int, hits, misses, evicted uint64) {
	CacheSize.WithLabelValues(cache).Set(float64(size))
	CacheHits.WithLabelValues(cache).Set(float64(hits))
	CacheMisses.WithLabelValues(cache).Set(float64(misses))
	CacheEvictions.WithLabelValues(cache).Set(float64(evicted))
}
