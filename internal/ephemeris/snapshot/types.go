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

// Package snapshot implements the SnapshotEngine: the sole authority over the
// cache key for one snapshot kind, combining the fresh/stale/frozen state
// machine, single-flight refresh coalescing, and a background pre-warmer.
package snapshot

import (
	"time"

	"github.com/roussov/Solar-System-Live/internal/ephemeris/cache"
)

// Cache state labels surfaced to HTTPFacade via SnapshotResult.CacheState and
// the X-Horizons-Cache response header.
const (
	StateHit    = "HIT"
	StateMiss   = "MISS"
	StateStale  = "STALE"
	StateFrozen = "FROZEN"
)

// Refresh reasons, recorded in log events and used only for diagnostics — the
// cache-state label a client sees never depends on which reason triggered it.
const (
	ReasonMiss              = "miss"
	ReasonManualRefresh     = "manual-refresh"
	ReasonStaleRevalidate   = "stale-revalidate"
	ReasonBackgroundPrewarm = "background-prewarm"
)

// Result is what HTTPFacade receives from a Get call: the snapshot plus every
// piece of cache-state metadata the HTTP contract exposes. Decoration never
// mutates the underlying CacheRecord.
type Result struct {
	Snapshot cache.Snapshot

	CacheState       string
	CacheBackend     string
	CacheAgeMs       int64
	CacheExpiresInMs int64
	CacheStale       bool
	FrozenSnapshot   bool
	FreezeReason     string

	RequestID   string
	GeneratedAt time.Time
}

// Options controls one Get call.
type Options struct {
	ForceRefresh  bool
	CorrelationID string
}
