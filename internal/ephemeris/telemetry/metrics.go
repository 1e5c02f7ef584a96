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

package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the three sinks the spec requires: two counters and a
// latency histogram, plus the per-hit age gauge. Global label cardinality is
// bounded (backend has 2 values, state/reason have at most 4), mirroring the
// "no unbounded label cardinality" discipline of telemetry/churn's own
// Prometheus counters.
type Metrics struct {
	CacheHits   *prometheus.CounterVec
	CacheMisses *prometheus.CounterVec
	FetchMs     prometheus.Histogram
	CacheAgeMs  *prometheus.GaugeVec
}

// NewMetrics constructs and registers the sinks against reg. Pass
// prometheus.NewRegistry() in tests to avoid collisions with the global
// default registry across parallel test binaries.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		CacheHits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cache_hits",
			Help: "Snapshot cache hits, by backend and freshness state.",
		}, []string{"backend", "state"}),
		CacheMisses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cache_misses",
			Help: "Snapshot cache misses that triggered a refresh, by backend and reason.",
		}, []string{"backend", "reason"}),
		FetchMs: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "fetch_duration_ms",
			Help:    "Upstream ephemeris fan-out duration in milliseconds.",
			Buckets: []float64{50, 100, 200, 400, 800, 1200, 2000, 4000, 8000},
		}),
		CacheAgeMs: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "cache_age_ms",
			Help: "Age in milliseconds of the record served on the most recent hit, by backend.",
		}, []string{"backend"}),
	}
	reg.MustRegister(m.CacheHits, m.CacheMisses, m.FetchMs, m.CacheAgeMs)
	return m
}

// RecordHit increments cache_hits{backend,state} and sets cache_age_ms{backend}.
func (m *Metrics) RecordHit(backend, state string, ageMs int64) {
	if m == nil {
		return
	}
	m.CacheHits.WithLabelValues(backend, state).Inc()
	m.CacheAgeMs.WithLabelValues(backend).Set(float64(ageMs))
}

// RecordMiss increments cache_misses{backend,reason}.
func (m *Metrics) RecordMiss(backend, reason string) {
	if m == nil {
		return
	}
	m.CacheMisses.WithLabelValues(backend, reason).Inc()
}

// ObserveFetchDuration records one fan-out's wall-clock duration.
func (m *Metrics) ObserveFetchDuration(ms float64) {
	if m == nil {
		return
	}
	m.FetchMs.Observe(ms)
}
