// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of dax-client-go.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package pool manages one set of connections per cluster endpoint:
// round-robin endpoint selection, a per-endpoint cap on concurrently
// open connections, and a background janitor that clears quarantined
// and idle connections.
package pool

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/nhr-fau/dax-client-go/internal/conn"
	"github.com/nhr-fau/dax-client-go/internal/daxerr"
	"github.com/nhr-fau/dax-client-go/internal/metrics"
	"github.com/nhr-fau/dax-client-go/pkg/log"
)

// janitorInterval is how often the background job sweeps every
// endpoint's connection table for bad or idle connections. This is
// unrelated to connection re-authentication, which is sampled on the
// request path instead of on a timer.
const janitorInterval = 30 * time.Second

// Options configures a Pool.
type Options struct {
	ConnOptions   conn.Options
	MaxPerHost    int           // default 10 if zero
	IdleTimeout   time.Duration // 0 disables idle eviction
}

// Pool is a round-robin connection pool over a fixed set of endpoints.
type Pool struct {
	endpoints []conn.Endpoint
	opts      Options

	mu    sync.Mutex
	table map[string][]*conn.Connection
	rr    atomic.Uint64
	closed bool

	scheduler gocron.Scheduler
}

// New builds a Pool over endpoints and starts its background janitor.
// Callers must call Close to release the scheduler and every open
// connection.
func New(endpoints []conn.Endpoint, opts Options) (*Pool, error) {
	if opts.MaxPerHost <= 0 {
		opts.MaxPerHost = 10
	}

	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, &daxerr.InvalidConfig{Reason: "could not start pool scheduler: " + err.Error()}
	}

	p := &Pool{
		endpoints: endpoints,
		opts:      opts,
		table:     make(map[string][]*conn.Connection),
		scheduler: s,
	}

	if _, err := s.NewJob(
		gocron.DurationJob(janitorInterval),
		gocron.NewTask(p.runJanitor),
	); err != nil {
		return nil, &daxerr.InvalidConfig{Reason: "could not register pool janitor: " + err.Error()}
	}
	s.Start()

	return p, nil
}

// Get returns a healthy connection to the next endpoint in round-robin
// order, reusing an already-open one when available or dialing a new
// one up to the per-host cap.
func (p *Pool) Get(ctx context.Context) (*conn.Connection, error) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, &daxerr.PoolClosed{}
	}
	if len(p.endpoints) == 0 {
		p.mu.Unlock()
		return nil, &daxerr.NoEndpoints{}
	}

	idx := p.rr.Add(1) - 1
	ep := p.endpoints[idx%uint64(len(p.endpoints))]
	key := ep.String()

	for _, c := range p.table[key] {
		if bad, _ := c.Bad(); !bad {
			p.mu.Unlock()
			return c, nil
		}
	}

	existing := len(p.table[key])
	p.mu.Unlock()

	if existing >= p.opts.MaxPerHost {
		metrics.PoolExhaustedTotal.WithLabelValues(key).Inc()
		return nil, &daxerr.PoolExhausted{Endpoint: key}
	}

	c, err := conn.Dial(ctx, ep, p.opts.ConnOptions)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		c.Close()
		return nil, &daxerr.PoolClosed{}
	}
	if len(p.table[key]) >= p.opts.MaxPerHost {
		p.mu.Unlock()
		c.Close()
		metrics.PoolExhaustedTotal.WithLabelValues(key).Inc()
		return nil, &daxerr.PoolExhausted{Endpoint: key}
	}
	p.table[key] = append(p.table[key], c)
	p.mu.Unlock()

	return c, nil
}

// runJanitor drops connections that are either marked bad or, when
// IdleTimeout is set, have sat unused longer than it. It never touches
// healthy, recently-used connections.
func (p *Pool) runJanitor() {
	p.mu.Lock()
	defer p.mu.Unlock()

	for key, conns := range p.table {
		kept := conns[:0]
		for _, c := range conns {
			bad, _ := c.Bad()
			idle := !bad && p.opts.IdleTimeout > 0 && time.Since(c.IdleSince()) > p.opts.IdleTimeout
			if bad || idle {
				log.Debug("dax: janitor closing connection to ", key, " (bad=", bad, " idle=", idle, ")")
				c.Close()
				continue
			}
			kept = append(kept, c)
		}
		p.table[key] = kept
	}
}

// Stats reports, per endpoint, how many connections are currently open
// and how many of those are marked bad.
type EndpointStats struct {
	Open int
	Bad  int
}

func (p *Pool) Stats() map[string]EndpointStats {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make(map[string]EndpointStats, len(p.table))
	for key, conns := range p.table {
		st := EndpointStats{Open: len(conns)}
		for _, c := range conns {
			if bad, _ := c.Bad(); bad {
				st.Bad++
			}
		}
		out[key] = st
	}
	snapshot := make(map[string]metrics.EndpointSnapshot, len(out))
	for key, st := range out {
		snapshot[key] = metrics.EndpointSnapshot{Open: st.Open, Bad: st.Bad}
	}
	metrics.ObservePoolStats(snapshot)
	return out
}

// Close shuts down the janitor and every open connection. Safe to call
// more than once.
func (p *Pool) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	table := p.table
	p.table = nil
	p.mu.Unlock()

	_ = p.scheduler.Shutdown()

	for _, conns := range table {
		for _, c := range conns {
			c.Close()
		}
	}
	return nil
}
