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

// Package cache implements the two-tier CacheStore: a shared, external
// primary store with an in-process secondary fallback. CacheRecord values
// are exclusively owned here; callers of Store.Get receive copies.
package cache

import (
	"time"

	"github.com/roussov/Solar-System-Live/internal/ephemeris/horizons"
)

// Snapshot is a coherent set of StateVectors produced by one fan-out cycle.
type Snapshot struct {
	Timestamp      time.Time              `json:"timestamp"`
	Bodies         []horizons.StateVector `json:"bodies"`
	ReferenceFrame string                 `json:"referenceFrame"`
	DistanceUnit   string                 `json:"distanceUnit"`
	VelocityUnit   string                 `json:"velocityUnit"`
	ResponseTimeMs int64                  `json:"responseTimeMs"`
	Partial        bool                   `json:"partial"`
}

// CacheRecord is the blob CacheStore persists: a snapshot plus the freshness
// bookkeeping the SnapshotEngine's state machine reads.
type CacheRecord struct {
	Snapshot   Snapshot  `json:"snapshot"`
	CachedAt   time.Time `json:"cachedAt"`
	ExpiresAt  time.Time `json:"expiresAt"`
	StaleUntil time.Time `json:"staleUntil"`
}

// NewRecord builds a CacheRecord with expiresAt/staleUntil derived from ttl
// and staleWindow, per spec: expiresAt = cachedAt + ttl, staleUntil =
// expiresAt + staleWindow.
func NewRecord(snap Snapshot, cachedAt time.Time, ttl, staleWindow time.Duration) CacheRecord {
	return CacheRecord{
		Snapshot:   snap,
		CachedAt:   cachedAt,
		ExpiresAt:  cachedAt.Add(ttl),
		StaleUntil: cachedAt.Add(ttl).Add(staleWindow),
	}
}
