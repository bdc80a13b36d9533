// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package cache

import (
	"sync/atomic"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// LRU is a size-bounded backend. Entries expire after the ttl given at
// construction; the per-call ttl of Set is ignored because expirable.LRU has a
// single lifetime for all entries.
type LRU struct {
	lru *expirable.LRU[string, []byte]

	hits   atomic.Int64
	misses atomic.Int64
}

// NewLRU creates an LRU holding at most size identities.
func NewLRU(size int, ttl time.Duration) *LRU {
	return &LRU{lru: expirable.NewLRU[string, []byte](size, nil, ttl)}
}

func (l *LRU) Get(key string) ([]byte, bool) {
	v, ok := l.lru.Get(key)
	if !ok {
		l.misses.Add(1)
		return nil, false
	}
	l.hits.Add(1)
	return append([]byte(nil), v...), true
}

func (l *LRU) Set(key string, value []byte, _ time.Duration) {
	l.lru.Add(key, append([]byte(nil), value...))
}

func (l *LRU) Delete(key string) {
	l.lru.Remove(key)
}

// Len returns the number of live entries.
func (l *LRU) Len() int {
	return l.lru.Len()
}

// GetStats returns the lookup counters and the live entry count.
func (l *LRU) GetStats() Stats {
	return Stats{
		Hits:      l.hits.Load(),
		Misses:    l.misses.Load(),
		TotalKeys: int64(l.lru.Len()),
	}
}

// HitRate returns hits as a percentage of lookups.
func (l *LRU) HitRate() float64 {
	return hitRate(l.GetStats())
}

func (l *LRU) Close() error {
	l.lru.Purge()
	return nil
}
