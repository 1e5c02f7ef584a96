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

// Package httpapi is the HTTPFacade: routes, request tracing, cache-state
// headers, and error mapping over a SnapshotEngine.
package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/roussov/Solar-System-Live/internal/ephemeris/snapshot"
	"github.com/roussov/Solar-System-Live/internal/ephemeris/telemetry"
)

// RequestDeadline bounds a snapshot route end to end (spec §5 suggests 15s).
const RequestDeadline = 15 * time.Second

// Server wires a SnapshotEngine into an http.Handler.
type Server struct {
	engine *snapshot.Engine
	log    *telemetry.Logger
	mux    *http.ServeMux
}

// NewServer builds the route table. /metrics serves the default Prometheus
// registry via promhttp.Handler.
func NewServer(engine *snapshot.Engine, log *telemetry.Logger) *Server {
	s := &Server{engine: engine, log: log, mux: http.NewServeMux()}

	s.mux.HandleFunc("/api/ephemeris/planets", s.withMiddleware(s.handlePlanets))
	s.mux.HandleFunc("/api/ephemeris/planets/state-vectors", s.withMiddleware(s.handlePlanets))
	s.mux.HandleFunc("/api/voyagers", s.withMiddleware(s.handleVoyagers))
	s.mux.Handle("/metrics", promhttp.Handler())
	s.mux.HandleFunc("/", s.handleHealth)

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// wantsRefresh implements §4.6 step 2: ?refresh=1|true or header
// X-Refresh-Cache: 1|true forces a refresh. Query param wins if both are set.
func wantsRefresh(r *http.Request) bool {
	if v := r.URL.Query().Get("refresh"); v != "" {
		return isTruthy(v)
	}
	if v := r.Header.Get("X-Refresh-Cache"); v != "" {
		return isTruthy(v)
	}
	return false
}

func isTruthy(v string) bool {
	v = strings.ToLower(strings.TrimSpace(v))
	return v == "1" || v == "true"
}

func requestIDFrom(r *http.Request) string {
	id, _ := r.Context().Value(contextKeyRequestID).(string)
	return id
}

func setCacheHeaders(w http.ResponseWriter, res snapshot.Result, ttlMs int64, latency time.Duration) {
	w.Header().Set("X-Horizons-Cache", res.CacheState)
	w.Header().Set("X-Horizons-Cache-Backend", res.CacheBackend)
	w.Header().Set("X-Horizons-Cache-Age", itoa(res.CacheAgeMs))
	w.Header().Set("X-Horizons-TTL", itoa(ttlMs))
	w.Header().Set("X-Horizons-Cache-Stale", boolHeader(res.CacheStale))
	w.Header().Set("X-Horizons-Frozen", boolHeader(res.FrozenSnapshot))
	if latency > 0 {
		w.Header().Set("X-Horizons-Latency", itoa(latency.Milliseconds()))
	}
}

func boolHeader(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

func itoa(v int64) string {
	return strconv.FormatInt(v, 10)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message, requestID string) {
	writeJSON(w, status, errorResponse{Error: message, RequestID: requestID})
}
