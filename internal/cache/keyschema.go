// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of dax-client-go.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package cache implements the two server-assisted metadata caches:
// KeySchemaCache (per-table key schema, time-based expiry) and
// AttributeListCache (id-keyed attribute-name lists, LRU eviction).
// KeySchemaCache keeps a map plus a doubly-linked list in insertion
// order; AttributeListCache keeps maps by id and by content hash and
// scans for the lowest access counter when it evicts.
package cache

import (
	"strings"
	"sync"
	"time"

	"github.com/nhr-fau/dax-client-go/internal/daxerr"
	"github.com/nhr-fau/dax-client-go/internal/schema"
)

// invalidKeyChars follows the PSR-16 cache-key character restriction:
// none of these may appear in a cache key, which here is always a
// table name.
const invalidKeyChars = "{}()/@:"

// KeySchemaStats is a point-in-time snapshot for diagnostics/metrics.
type KeySchemaStats struct {
	Size    int
	Hits    uint64
	Misses  uint64
	Evicted uint64
	Expired uint64
}

type keySchemaEntry struct {
	table      string
	schema     schema.KeySchema
	insertedAt time.Time

	next, prev *keySchemaEntry
}

// KeySchemaCache caches each table's key schema for ttl, evicting the
// oldest-inserted entry when a put would exceed capacity.
type KeySchemaCache struct {
	mu       sync.Mutex
	capacity int
	ttl      time.Duration
	entries  map[string]*keySchemaEntry
	head     *keySchemaEntry // most recently inserted
	tail     *keySchemaEntry // oldest

	hits, misses, evicted, expired uint64
}

// NewKeySchemaCache builds a cache bounded to capacity entries, each
// expiring ttl after insertion.
func NewKeySchemaCache(capacity int, ttl time.Duration) *KeySchemaCache {
	return &KeySchemaCache{
		capacity: capacity,
		ttl:      ttl,
		entries:  make(map[string]*keySchemaEntry),
	}
}

// ValidateTableName rejects empty keys and the PSR-16-derived
// character class; it is exported so callers can fail fast before
// attempting a Put.
func ValidateTableName(table string) error {
	if table == "" {
		return &daxerr.InvalidConfig{Reason: "cache key must not be empty"}
	}
	if strings.ContainsAny(table, invalidKeyChars) {
		return &daxerr.InvalidConfig{Reason: "cache key contains a reserved character"}
	}
	return nil
}

// Get returns the cached schema for table, or (zero, false) on a miss.
// An expired entry is deleted and counted as a miss.
func (c *KeySchemaCache) Get(table string) (schema.KeySchema, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[table]
	if !ok {
		c.misses++
		return schema.KeySchema{}, false
	}
	if time.Since(entry.insertedAt) > c.ttl {
		c.unlink(entry)
		delete(c.entries, table)
		c.expired++
		c.misses++
		return schema.KeySchema{}, false
	}
	c.hits++
	return entry.schema, true
}

// Put inserts or replaces the schema cached for table, evicting the
// oldest-inserted entry first if the cache is at capacity and table
// is a new key.
func (c *KeySchemaCache) Put(table string, s schema.KeySchema) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	if entry, ok := c.entries[table]; ok {
		entry.schema = s
		entry.insertedAt = now
		c.unlink(entry)
		c.insertFront(entry)
		return
	}

	if c.capacity > 0 && len(c.entries) >= c.capacity && c.tail != nil {
		oldest := c.tail
		c.unlink(oldest)
		delete(c.entries, oldest.table)
		c.evicted++
	}

	entry := &keySchemaEntry{table: table, schema: s, insertedAt: now}
	c.entries[table] = entry
	c.insertFront(entry)
}

// Delete removes the cached schema for table, if any.
func (c *KeySchemaCache) Delete(table string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if entry, ok := c.entries[table]; ok {
		c.unlink(entry)
		delete(c.entries, table)
	}
}

// Clear empties the cache.
func (c *KeySchemaCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*keySchemaEntry)
	c.head, c.tail = nil, nil
}

// Names returns the tables currently cached, in no particular order.
func (c *KeySchemaCache) Names() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	names := make([]string, 0, len(c.entries))
	for name := range c.entries {
		names = append(names, name)
	}
	return names
}

// Stats returns a snapshot of cache counters.
func (c *KeySchemaCache) Stats() KeySchemaStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	return KeySchemaStats{
		Size:    len(c.entries),
		Hits:    c.hits,
		Misses:  c.misses,
		Evicted: c.evicted,
		Expired: c.expired,
	}
}

func (c *KeySchemaCache) insertFront(e *keySchemaEntry) {
	e.next = c.head
	e.prev = nil
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

func (c *KeySchemaCache) unlink(e *keySchemaEntry) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		c.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		c.tail = e.prev
	}
	e.next, e.prev = nil, nil
}
