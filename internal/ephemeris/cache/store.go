// Copyright 2025 Esteban Alvarez. All Rights Reserved.
//
// Created: October 2025
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cache

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/roussov/Solar-System-Live/internal/ephemeris/telemetry"
)

// Backend names the tier a CacheStore operation was ultimately served from or
// written to, surfaced to clients via the X-Horizons-Cache-Backend header.
const (
	BackendMemory = "memory"
	BackendShared = "shared"
)

// reconnectInterval is how often Store retries a down primary in the
// background, mirroring the teacher's "degrade individual operations to
// secondary but attempt asynchronous reconnection" requirement.
const reconnectInterval = 5 * time.Second

// Store is the two-tier CacheStore: an optional shared primary plus an
// always-present in-process secondary, generalizing core.Store's single
// authoritative map to a primary/secondary pair behind one interface.
type Store struct {
	primary   *RedisTier
	secondary *MemoryTier
	log       *telemetry.Logger

	live         atomic.Bool
	reconnecting atomic.Bool
	stopReconn   chan struct{}
}

// NewStore constructs a Store. primary may be nil, meaning "no REDIS_URL
// configured" — the store then degrades to secondary-only forever, per spec.
func NewStore(primary *RedisTier, log *telemetry.Logger) *Store {
	s := &Store{
		primary:    primary,
		secondary:  NewMemoryTier(),
		log:        log,
		stopReconn: make(chan struct{}),
	}
	if primary != nil {
		// Probe once at construction; if unreachable, degrade now and let the
		// background reconnect loop pick it back up later.
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := primary.client.Ping(ctx); err == nil {
			s.live.Store(true)
		} else if s.log != nil {
			s.log.RedisConnectFailed("primary", err)
		}
	}
	return s
}

// Backend reports which tier is currently authoritative: "shared" if a live
// primary is configured, "memory" otherwise. Probing is cheap (an atomic
// load), matching spec §4.4 step 1's "non-blocking" liveness probe.
func (s *Store) Backend() string {
	if s.primary != nil && s.live.Load() {
		return BackendShared
	}
	return BackendMemory
}

// Get tries the primary first; on a hit it mirrors the value into secondary.
// On primary failure it warns and falls back to secondary.
func (s *Store) Get(ctx context.Context, key string) (CacheRecord, bool) {
	if s.primary != nil && s.live.Load() {
		raw, err := s.primary.client.Get(ctx, key)
		switch {
		case err == nil:
			var rec CacheRecord
			if jsonErr := json.Unmarshal([]byte(raw), &rec); jsonErr == nil {
				s.secondary.Put(key, rec)
				return rec, true
			}
			// SerializationError: treat as no record, fall through to secondary.
		case err == ErrNotFound:
			// Legitimate miss on the primary; still consult secondary below in
			// case it holds a record the primary already evicted past its TTL.
		default:
			if s.log != nil {
				s.log.RedisReadFailed(key, err)
			}
			s.demote()
		}
	}
	return s.secondary.Get(key)
}

// Put always writes secondary; if the primary is live it also writes there
// with a TTL equal to staleUntil-cachedAt, so shared records disappear once
// they exceed the stale window.
func (s *Store) Put(ctx context.Context, key string, rec CacheRecord) {
	s.secondary.Put(key, rec)

	if s.primary == nil || !s.live.Load() {
		return
	}
	blob, err := json.Marshal(rec)
	if err != nil {
		return
	}
	ttl := rec.StaleUntil.Sub(rec.CachedAt)
	if err := s.primary.client.Set(ctx, key, string(blob), ttl); err != nil {
		if s.log != nil {
			s.log.RedisWriteFailed(key, err)
		}
		s.demote()
	}
}

// demote marks the primary as down and starts a background reconnect loop,
// unless one is already running. The guard is restartable (unlike a
// sync.Once) so every outage, not just the first, gets its own reconnect
// attempt. Failures never hold locks across reconnect attempts.
func (s *Store) demote() {
	if !s.live.CompareAndSwap(true, false) {
		return
	}
	if s.reconnecting.CompareAndSwap(false, true) {
		go s.startReconnectLoop()
	}
}

func (s *Store) startReconnectLoop() {
	defer s.reconnecting.Store(false)

	ticker := time.NewTicker(reconnectInterval)
	defer ticker.Stop()
	for {
		select {
		case <-s.stopReconn:
			return
		case <-ticker.C:
			if s.primary == nil {
				return
			}
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			err := s.primary.client.Ping(ctx)
			cancel()
			if err == nil {
				s.live.Store(true)
				if s.log != nil {
					s.log.RedisConnected("primary")
				}
				return
			}
		}
	}
}

// Close stops the background reconnect loop, if any. Safe to call even if a
// reconnect was never started.
func (s *Store) Close() {
	select {
	case <-s.stopReconn:
	default:
		close(s.stopReconn)
	}
}
