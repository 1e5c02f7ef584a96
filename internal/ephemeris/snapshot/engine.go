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

package snapshot

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/roussov/Solar-System-Live/internal/ephemeris/cache"
	"github.com/roussov/Solar-System-Live/internal/ephemeris/catalog"
	"github.com/roussov/Solar-System-Live/internal/ephemeris/horizons"
	"github.com/roussov/Solar-System-Live/internal/ephemeris/telemetry"
)

// Default tunables, per spec §4.4 and §6's documented environment defaults.
const (
	DefaultTTL         = 120 * time.Second
	DefaultStaleWindow = DefaultTTL / 2
	minPrewarmInterval = 30 * time.Second
)

// Engine is the SnapshotEngine: it owns every cache key this service serves
// and is the only component allowed to write through CacheStore.
type Engine struct {
	store    *cache.Store
	provider horizons.Provider
	metrics  *telemetry.Metrics
	log      *telemetry.Logger

	ttl             time.Duration
	staleWindow     time.Duration
	prewarmInterval time.Duration

	now func() time.Time

	mu       sync.Mutex
	inflight map[catalog.Kind]*call

	stop chan struct{}
	wg   sync.WaitGroup
}

// Config controls Engine construction. PrewarmInterval of 0 disables the
// background ticker entirely (§6: "0 disables").
type Config struct {
	TTL             time.Duration
	StaleWindow     time.Duration
	PrewarmInterval time.Duration
}

// DefaultPrewarmInterval computes max(30s, 0.8*ttl), the documented default.
func DefaultPrewarmInterval(ttl time.Duration) time.Duration {
	eighty := time.Duration(float64(ttl) * 0.8)
	if eighty > minPrewarmInterval {
		return eighty
	}
	return minPrewarmInterval
}

// NewEngine constructs an Engine. A non-positive Config.TTL takes DefaultTTL;
// a non-positive StaleWindow takes TTL/2. PrewarmInterval is used as given: a
// zero or negative value leaves the pre-warmer disabled (see Start), so
// callers wanting the default pass DefaultPrewarmInterval(ttl) explicitly.
func NewEngine(store *cache.Store, provider horizons.Provider, metrics *telemetry.Metrics, log *telemetry.Logger, cfg Config) *Engine {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	staleWindow := cfg.StaleWindow
	if staleWindow <= 0 {
		staleWindow = ttl / 2
	}
	return &Engine{
		store:           store,
		provider:        provider,
		metrics:         metrics,
		log:             log,
		ttl:             ttl,
		staleWindow:     staleWindow,
		prewarmInterval: cfg.PrewarmInterval,
		now:             time.Now,
		inflight:        make(map[catalog.Kind]*call),
		stop:            make(chan struct{}),
	}
}

// TTL reports the configured freshness window, for callers (HTTPFacade) that
// surface it verbatim in a response header.
func (e *Engine) TTL() time.Duration { return e.ttl }

// Get implements both getPlanetsSnapshot and getProbesSnapshot — structurally
// identical paths over different catalog kinds, per spec §4.4.
func (e *Engine) Get(ctx context.Context, kind catalog.Kind, opts Options) (Result, error) {
	key := kind.Key()

	if opts.ForceRefresh {
		rec, err := e.coalesceRefresh(ctx, kind, opts.CorrelationID, ReasonManualRefresh)
		if err != nil {
			return e.frozenOrError(ctx, kind, key, opts, err)
		}
		return e.decorate(rec, StateMiss, opts), nil
	}

	rec, ok := e.store.Get(ctx, key)
	now := e.now()

	if ok {
		age := now.Sub(rec.CachedAt)
		switch {
		case now.Before(rec.ExpiresAt):
			e.metrics.RecordHit(e.store.Backend(), "fresh", age.Milliseconds())
			return e.decorate(rec, StateHit, opts), nil

		case now.Before(rec.StaleUntil):
			e.metrics.RecordHit(e.store.Backend(), "stale", age.Milliseconds())
			e.triggerAsyncRefresh(kind, opts.CorrelationID, ReasonStaleRevalidate)
			return e.decorate(rec, StateStale, opts), nil
		}
	}

	newRec, err := e.coalesceRefresh(ctx, kind, opts.CorrelationID, ReasonMiss)
	if err != nil {
		return e.frozenOrError(ctx, kind, key, opts, err)
	}
	return e.decorate(newRec, StateMiss, opts), nil
}

// frozenOrError implements the §7 frozen-fallback decision: if any record
// (even an expired one) exists in either tier, serve it as FROZEN; otherwise
// propagate the error for HTTPFacade to turn into a 500.
func (e *Engine) frozenOrError(ctx context.Context, kind catalog.Kind, key string, opts Options, refreshErr error) (Result, error) {
	rec, ok := e.store.Get(ctx, key)
	if !ok {
		if e.log != nil {
			e.log.RefreshFailed(opts.CorrelationID, kind.String(), refreshErr)
		}
		return Result{}, refreshErr
	}
	if e.log != nil {
		e.log.SnapshotFrozen(opts.CorrelationID, kind.String(), refreshErr.Error())
	}
	res := e.decorate(rec, StateFrozen, opts)
	res.FrozenSnapshot = true
	res.FreezeReason = refreshErr.Error()
	res.CacheExpiresInMs = 0
	res.CacheStale = true
	return res, nil
}

// triggerAsyncRefresh starts a stale-revalidate refresh in the background if
// none is already inflight for kind. The triggering request never waits on it.
func (e *Engine) triggerAsyncRefresh(kind catalog.Kind, correlationID, reason string) {
	e.mu.Lock()
	if _, exists := e.inflight[kind]; exists {
		e.mu.Unlock()
		return
	}
	e.mu.Unlock()

	go func() {
		_, _ = e.coalesceRefresh(context.Background(), kind, correlationID, reason)
	}()
}

// coalesceRefresh is the single-flight critical section: at most one refresh
// runs per kind; every other caller arriving while one is inflight waits on
// the same call and receives its result, success or failure alike.
func (e *Engine) coalesceRefresh(ctx context.Context, kind catalog.Kind, correlationID, reason string) (cache.CacheRecord, error) {
	e.mu.Lock()
	if existing, ok := e.inflight[kind]; ok {
		e.mu.Unlock()
		return existing.wait(ctx)
	}
	c := newCall()
	e.inflight[kind] = c
	e.mu.Unlock()

	go e.runRefresh(c, kind, correlationID, reason)

	return c.wait(ctx)
}

// runRefresh performs the actual fan-out and resolves c on every exit path,
// including a recovered panic, so the inflight entry is never stuck.
func (e *Engine) runRefresh(c *call, kind catalog.Kind, correlationID, reason string) {
	defer func() {
		if r := recover(); r != nil {
			c.resolve(cache.CacheRecord{}, fmt.Errorf("snapshot refresh panic: %v", r))
		}
		e.mu.Lock()
		delete(e.inflight, kind)
		e.mu.Unlock()
	}()

	rec, err := e.refresh(context.Background(), kind, correlationID, reason)
	c.resolve(rec, err)
}

// refresh implements the five-step procedure from spec §4.4.
func (e *Engine) refresh(ctx context.Context, kind catalog.Kind, correlationID, reason string) (cache.CacheRecord, error) {
	if e.log != nil {
		e.log.RefreshStarted(correlationID, kind.String(), reason)
	}

	bodies := catalog.List(kind)
	results := make([]horizons.StateVector, len(bodies))

	start := e.now()
	g, gctx := errgroup.WithContext(ctx)
	for i, b := range bodies {
		i, b := i, b
		g.Go(func() error {
			sv, err := e.provider.Fetch(gctx, b.ProviderID, b.Name, correlationID)
			if err != nil {
				return fmt.Errorf("fetch %s: %w", b.Name, err)
			}
			results[i] = sv
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return cache.CacheRecord{}, &UpstreamPartialFailure{Kind: kind.String(), Cause: err}
	}
	elapsed := e.now().Sub(start)
	e.metrics.ObserveFetchDuration(float64(elapsed.Milliseconds()))

	ts := e.now()
	if len(results) > 0 && !results[0].Timestamp.IsZero() {
		ts = results[0].Timestamp
	}

	snap := cache.Snapshot{
		Timestamp:      ts,
		Bodies:         results,
		ReferenceFrame: horizons.ReferenceFrame,
		DistanceUnit:   "AU",
		VelocityUnit:   "AU/day",
		ResponseTimeMs: elapsed.Milliseconds(),
		Partial:        len(results) != len(bodies),
	}

	cachedAt := e.now()
	rec := cache.NewRecord(snap, cachedAt, e.ttl, e.staleWindow)
	e.store.Put(ctx, kind.Key(), rec)
	e.metrics.RecordMiss(e.store.Backend(), reason)

	return rec, nil
}

// decorate builds the HTTPFacade-facing Result from a stored CacheRecord
// without mutating it, per the "decoration is pure" requirement in §4.4.
func (e *Engine) decorate(rec cache.CacheRecord, state string, opts Options) Result {
	now := e.now()
	age := now.Sub(rec.CachedAt)
	ageMs := age.Milliseconds()
	if ageMs < 0 {
		ageMs = 0
	}
	expiresIn := e.ttl.Milliseconds() - ageMs
	if expiresIn < 0 {
		expiresIn = 0
	}
	return Result{
		Snapshot:         rec.Snapshot,
		CacheState:       state,
		CacheBackend:     e.store.Backend(),
		CacheAgeMs:       ageMs,
		CacheExpiresInMs: expiresIn,
		CacheStale:       state == StateStale || state == StateFrozen,
		RequestID:        opts.CorrelationID,
		GeneratedAt:      now,
	}
}

// UpstreamPartialFailure is returned when any sub-fetch of a fan-out fails;
// per spec the whole refresh fails atomically and is never cached.
type UpstreamPartialFailure struct {
	Kind  string
	Cause error
}

func (e *UpstreamPartialFailure) Error() string {
	return fmt.Sprintf("upstream partial failure for %s catalog: %v", e.Kind, e.Cause)
}

func (e *UpstreamPartialFailure) Unwrap() error { return e.Cause }
