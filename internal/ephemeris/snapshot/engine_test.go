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
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roussov/Solar-System-Live/internal/ephemeris/cache"
	"github.com/roussov/Solar-System-Live/internal/ephemeris/catalog"
	"github.com/roussov/Solar-System-Live/internal/ephemeris/horizons"
	"github.com/roussov/Solar-System-Live/internal/ephemeris/telemetry"
)

// fakeProvider counts invocations and can be toggled to fail, modeling an
// upstream outage for frozen-fallback tests.
type fakeProvider struct {
	mu      sync.Mutex
	calls   int64
	failing bool
}

func (p *fakeProvider) Fetch(_ context.Context, _, bodyName, _ string) (horizons.StateVector, error) {
	atomic.AddInt64(&p.calls, 1)
	p.mu.Lock()
	failing := p.failing
	p.mu.Unlock()
	if failing {
		return horizons.StateVector{}, errors.New("simulated upstream outage")
	}
	return horizons.StateVector{Body: bodyName, X: 1, Y: 0, Z: 0, Frame: horizons.ReferenceFrame, Source: "test"}, nil
}

func (p *fakeProvider) callCount() int64 { return atomic.LoadInt64(&p.calls) }

func newTestEngine(provider horizons.Provider, ttl, stale time.Duration) *Engine {
	store := cache.NewStore(nil, nil)
	metrics := telemetry.NewMetrics(prometheusTestRegistry())
	return NewEngine(store, provider, metrics, nil, Config{TTL: ttl, StaleWindow: stale})
}

func TestEngine_ColdMissThenWarmHit(t *testing.T) {
	p := &fakeProvider{}
	e := newTestEngine(p, time.Minute, 30*time.Second)

	res, err := e.Get(context.Background(), catalog.Planets, Options{CorrelationID: "c1"})
	require.NoError(t, err)
	assert.Equal(t, StateMiss, res.CacheState)
	assert.Equal(t, int64(len(catalog.List(catalog.Planets))), p.callCount())

	res2, err := e.Get(context.Background(), catalog.Planets, Options{CorrelationID: "c2"})
	require.NoError(t, err)
	assert.Equal(t, StateHit, res2.CacheState)
	assert.Equal(t, int64(len(catalog.List(catalog.Planets))), p.callCount())
}

func TestEngine_SingleFlightUnderConcurrentMiss(t *testing.T) {
	p := &fakeProvider{}
	e := newTestEngine(p, time.Minute, 30*time.Second)

	const n = 20
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			_, _ = e.Get(context.Background(), catalog.Planets, Options{CorrelationID: "concurrent"})
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(len(catalog.List(catalog.Planets))), p.callCount())
}

func TestEngine_StaleTriggersAsyncRevalidate(t *testing.T) {
	p := &fakeProvider{}
	e := newTestEngine(p, time.Minute, 30*time.Second)

	fixedNow := time.Now()
	e.now = func() time.Time { return fixedNow }

	_, err := e.Get(context.Background(), catalog.Planets, Options{})
	require.NoError(t, err)
	firstCalls := p.callCount()

	e.now = func() time.Time { return fixedNow.Add(75 * time.Second) }
	res, err := e.Get(context.Background(), catalog.Planets, Options{})
	require.NoError(t, err)
	assert.Equal(t, StateStale, res.CacheState)

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) && p.callCount() == firstCalls {
		time.Sleep(time.Millisecond)
	}
	assert.Greater(t, p.callCount(), firstCalls)
}

func TestEngine_FrozenFallbackAfterUpstreamFailure(t *testing.T) {
	p := &fakeProvider{}
	e := newTestEngine(p, time.Minute, 30*time.Second)

	fixedNow := time.Now()
	e.now = func() time.Time { return fixedNow }
	_, err := e.Get(context.Background(), catalog.Planets, Options{})
	require.NoError(t, err)

	p.mu.Lock()
	p.failing = true
	p.mu.Unlock()

	e.now = func() time.Time { return fixedNow.Add(2 * time.Minute) }
	res, err := e.Get(context.Background(), catalog.Planets, Options{})
	require.NoError(t, err)
	assert.Equal(t, StateFrozen, res.CacheState)
	assert.True(t, res.FrozenSnapshot)
	assert.NotEmpty(t, res.FreezeReason)
	assert.Equal(t, int64(0), res.CacheExpiresInMs)
}

func TestEngine_ForceRefreshBypassesFreshRecord(t *testing.T) {
	p := &fakeProvider{}
	e := newTestEngine(p, time.Minute, 30*time.Second)

	_, err := e.Get(context.Background(), catalog.Planets, Options{})
	require.NoError(t, err)
	first := p.callCount()

	res, err := e.Get(context.Background(), catalog.Planets, Options{ForceRefresh: true})
	require.NoError(t, err)
	assert.Equal(t, StateMiss, res.CacheState)
	assert.Greater(t, p.callCount(), first)
}

func TestEngine_TickerLiveness(t *testing.T) {
	p := &fakeProvider{}
	store := cache.NewStore(nil, nil)
	metrics := telemetry.NewMetrics(prometheusTestRegistry())
	e := NewEngine(store, p, metrics, nil, Config{TTL: time.Second, StaleWindow: 500 * time.Millisecond, PrewarmInterval: 500 * time.Millisecond})

	ctx, cancel := context.WithCancel(context.Background())
	e.Start(ctx)
	time.Sleep(5 * time.Second)
	cancel()
	e.Close()

	perCycle := int64(len(catalog.List(catalog.Planets)) + len(catalog.List(catalog.Probes)))
	minCycles := int64(8) - 1
	assert.GreaterOrEqual(t, p.callCount(), minCycles*perCycle/2)
}
