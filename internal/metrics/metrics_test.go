// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of dax-client-go.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObservePoolStatsDropsStaleEndpoints(t *testing.T) {
	ObservePoolStats(map[string]EndpointSnapshot{"a:8111": {Open: 2, Bad: 1}})
	assert.Equal(t, float64(2), testutil.ToFloat64(PoolOpenConnections.WithLabelValues("a:8111")))
	assert.Equal(t, float64(1), testutil.ToFloat64(PoolBadConnections.WithLabelValues("a:8111")))

	ObservePoolStats(map[string]EndpointSnapshot{"b:8111": {Open: 1, Bad: 0}})
	assert.Equal(t, float64(0), testutil.ToFloat64(PoolOpenConnections.WithLabelValues("a:8111")))
	assert.Equal(t, float64(1), testutil.ToFloat64(PoolOpenConnections.WithLabelValues("b:8111")))
}

func TestObserveCacheStats(t *testing.T) {
	ObserveCacheStats("key_schema", 3, 10, 4, 1)
	assert.Equal(t, float64(3), testutil.ToFloat64(CacheSize.WithLabelValues("key_schema")))
	assert.Equal(t, float64(10), testutil.ToFloat64(CacheHits.WithLabelValues("key_schema")))
	assert.Equal(t, float64(4), testutil.ToFloat64(CacheMisses.WithLabelValues("key_schema")))
	assert.Equal(t, float64(1), testutil.ToFloat64(CacheEvictions.WithLabelValues("key_schema")))
}
