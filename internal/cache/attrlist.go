// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of dax-client-go.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
	"sync"
)

// AttributeListStats is a point-in-time snapshot for diagnostics/metrics.
type AttributeListStats struct {
	Size    int
	Hits    uint64
	Misses  uint64
	Evicted uint64
}

type attrListEntry struct {
	id     uint32
	names  []string
	hash   string
	access uint64
}

// AttributeListCache caches attribute-name lists by a monotone id,
// with an inverse index on the content hash so a repeated name set is
// recognized without re-assigning an id. Eviction is LRU by access
// counter, matching §4.6.
type AttributeListCache struct {
	mu       sync.Mutex
	capacity int
	byID     map[uint32]*attrListEntry
	byHash   map[string]uint32
	nextID   uint32
	counter  uint64

	hits, misses, evicted uint64
}

// NewAttributeListCache builds a cache bounded to capacity entries.
func NewAttributeListCache(capacity int) *AttributeListCache {
	return &AttributeListCache{
		capacity: capacity,
		byID:     make(map[uint32]*attrListEntry),
		byHash:   make(map[string]uint32),
	}
}

// HashNames computes the content hash used for inverse lookup: SHA-256
// over the names sorted and joined by '|'.
func HashNames(names []string) string {
	sorted := append([]string(nil), names...)
	sort.Strings(sorted)
	sum := sha256.Sum256([]byte(strings.Join(sorted, "|")))
	return hex.EncodeToString(sum[:])
}

// Get returns the name list cached under id, bumping its access
// counter on a hit.
func (c *AttributeListCache) Get(id uint32) ([]string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.byID[id]
	if !ok {
		c.misses++
		return nil, false
	}
	c.counter++
	entry.access = c.counter
	c.hits++
	return entry.names, true
}

// IDByNameHash returns the id previously assigned to this name-hash, if any.
func (c *AttributeListCache) IDByNameHash(hash string) (uint32, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	id, ok := c.byHash[hash]
	return id, ok
}

// PutByNames returns the id for this name set, assigning a fresh
// monotone id if the name-hash has not been seen before. Inserting a
// new id at capacity evicts the entry with the lowest access counter.
func (c *AttributeListCache) PutByNames(names []string) uint32 {
	hash := HashNames(names)

	c.mu.Lock()
	defer c.mu.Unlock()

	if id, ok := c.byHash[hash]; ok {
		c.counter++
		c.byID[id].access = c.counter
		return id
	}

	if c.capacity > 0 && len(c.byID) >= c.capacity {
		c.evictLRU()
	}

	c.nextID++
	id := c.nextID
	c.counter++
	entry := &attrListEntry{id: id, names: append([]string(nil), names...), hash: hash, access: c.counter}
	c.byID[id] = entry
	c.byHash[hash] = id
	return id
}

func (c *AttributeListCache) evictLRU() {
	var victim *attrListEntry
	for _, e := range c.byID {
		if victim == nil || e.access < victim.access {
			victim = e
		}
	}
	if victim == nil {
		return
	}
	delete(c.byID, victim.id)
	delete(c.byHash, victim.hash)
	c.evicted++
}

// Stats returns a snapshot of cache counters.
func (c *AttributeListCache) Stats() AttributeListStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	return AttributeListStats{
		Size:    len(c.byID),
		Hits:    c.hits,
		Misses:  c.misses,
		Evicted: c.evicted,
	}
}
