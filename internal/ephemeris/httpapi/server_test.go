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

package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roussov/Solar-System-Live/internal/ephemeris/cache"
	"github.com/roussov/Solar-System-Live/internal/ephemeris/horizons"
	"github.com/roussov/Solar-System-Live/internal/ephemeris/snapshot"
	"github.com/roussov/Solar-System-Live/internal/ephemeris/telemetry"
)

type scriptedProvider struct {
	calls    int64
	status   int
	vectors  map[string]horizons.StateVector
}

func (p *scriptedProvider) Fetch(_ context.Context, _, bodyName, _ string) (horizons.StateVector, error) {
	atomic.AddInt64(&p.calls, 1)
	if p.status != 0 && p.status >= 300 {
		return horizons.StateVector{}, &horizons.UpstreamError{Kind: horizons.UpstreamUnavailable, Body: bodyName, Status: p.status}
	}
	if sv, ok := p.vectors[bodyName]; ok {
		return sv, nil
	}
	return horizons.StateVector{Body: bodyName, X: 0, Y: 0, Z: 0, Frame: horizons.ReferenceFrame, Source: "test"}, nil
}

func newTestServer(provider horizons.Provider, ttl time.Duration) *Server {
	store := cache.NewStore(nil, nil)
	metrics := telemetry.NewMetrics(prometheus.NewRegistry())
	engine := snapshot.NewEngine(store, provider, metrics, nil, snapshot.Config{TTL: ttl, StaleWindow: ttl / 2})
	return NewServer(engine, nil)
}

func TestHandlePlanets_ColdMiss(t *testing.T) {
	p := &scriptedProvider{vectors: map[string]horizons.StateVector{
		"earth": {Body: "earth", X: 1, Y: 0, Z: 0, Velocity: &[3]float64{0, 0.0172, 0}, Frame: horizons.ReferenceFrame},
	}}
	s := newTestServer(p, time.Minute)

	req := httptest.NewRequest(http.MethodGet, "/api/ephemeris/planets", nil)
	w := httptest.NewRecorder()
	s.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "MISS", w.Header().Get("X-Horizons-Cache"))

	var body planetsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

	var earth *bodyVector
	for i := range body.Bodies {
		if body.Bodies[i].Name == "earth" {
			earth = &body.Bodies[i]
		}
	}
	require.NotNil(t, earth)
	assert.Equal(t, 1.0, earth.XAU)
}

func TestHandlePlanets_WarmHit(t *testing.T) {
	p := &scriptedProvider{}
	s := newTestServer(p, time.Minute)

	req1 := httptest.NewRequest(http.MethodGet, "/api/ephemeris/planets", nil)
	w1 := httptest.NewRecorder()
	s.ServeHTTP(w1, req1)
	require.Equal(t, http.StatusOK, w1.Code)
	callsAfterFirst := atomic.LoadInt64(&p.calls)

	req2 := httptest.NewRequest(http.MethodGet, "/api/ephemeris/planets", nil)
	w2 := httptest.NewRecorder()
	s.ServeHTTP(w2, req2)

	assert.Equal(t, "HIT", w2.Header().Get("X-Horizons-Cache"))
	assert.Equal(t, callsAfterFirst, atomic.LoadInt64(&p.calls))
}

func TestHandlePlanets_ForcedRefresh(t *testing.T) {
	p := &scriptedProvider{}
	s := newTestServer(p, time.Minute)

	req1 := httptest.NewRequest(http.MethodGet, "/api/ephemeris/planets", nil)
	w1 := httptest.NewRecorder()
	s.ServeHTTP(w1, req1)
	require.Equal(t, http.StatusOK, w1.Code)

	req2 := httptest.NewRequest(http.MethodGet, "/api/ephemeris/planets", nil)
	req2.Header.Set("X-Refresh-Cache", "1")
	w2 := httptest.NewRecorder()
	s.ServeHTTP(w2, req2)

	assert.Equal(t, "MISS", w2.Header().Get("X-Horizons-Cache"))
}

func TestHandlePlanets_FrozenFallback(t *testing.T) {
	p := &scriptedProvider{}
	s := newTestServer(p, time.Minute)

	req1 := httptest.NewRequest(http.MethodGet, "/api/ephemeris/planets", nil)
	w1 := httptest.NewRecorder()
	s.ServeHTTP(w1, req1)
	require.Equal(t, http.StatusOK, w1.Code)

	p.status = 503

	req2 := httptest.NewRequest(http.MethodGet, "/api/ephemeris/planets", nil)
	req2.Header.Set("X-Refresh-Cache", "1")
	w2 := httptest.NewRecorder()
	s.ServeHTTP(w2, req2)

	require.Equal(t, http.StatusOK, w2.Code)
	assert.Equal(t, "FROZEN", w2.Header().Get("X-Horizons-Cache"))
	assert.Equal(t, "1", w2.Header().Get("X-Horizons-Frozen"))

	var body planetsResponse
	require.NoError(t, json.Unmarshal(w2.Body.Bytes(), &body))
	require.NotNil(t, body.Metadata.FrozenSnapshot)
	assert.True(t, *body.Metadata.FrozenSnapshot)
	assert.NotEmpty(t, body.Metadata.FreezeReason)
}

func TestHandleVoyagers_EarthRelativeEnrichment(t *testing.T) {
	p := &scriptedProvider{vectors: map[string]horizons.StateVector{
		"voyager1": {Body: "voyager1", X: 100, Y: 0, Z: 0, Frame: horizons.ReferenceFrame},
		"earth":    {Body: "earth", X: 1, Y: 0, Z: 0, Frame: horizons.ReferenceFrame},
	}}
	s := newTestServer(p, time.Minute)

	req := httptest.NewRequest(http.MethodGet, "/api/voyagers", nil)
	w := httptest.NewRecorder()
	s.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body probesResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

	var v1 *voyagerView
	for i := range body.Voyagers {
		if body.Voyagers[i].ID == "voyager1" {
			v1 = &body.Voyagers[i]
		}
	}
	require.NotNil(t, v1)
	assert.InDelta(t, 99, v1.DistanceFromEarth.AU, 1e-6)
}

func TestHandleHealth(t *testing.T) {
	p := &scriptedProvider{}
	s := newTestServer(p, time.Minute)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	s.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", w.Body.String())
}

func TestRequestIDMiddleware_GeneratesWhenAbsent(t *testing.T) {
	p := &scriptedProvider{}
	s := newTestServer(p, time.Minute)

	req := httptest.NewRequest(http.MethodGet, "/api/ephemeris/planets", nil)
	w := httptest.NewRecorder()
	s.ServeHTTP(w, req)

	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))
}
