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

// Package telemetry is the observability sink named in the spec: structured
// log events with ASCII identifier names, plus the three Prometheus metrics.
// Event names are asserted by tests, never their human-readable message.
package telemetry

import (
	"log/slog"
	"time"
)

// Logger emits the named events the spec requires. Wrapping *slog.Logger in
// named methods keeps call sites from typo-ing an event name inline, the way
// core.RecordAttempt/RecordAdmit/RecordRefund gave the teacher's hot path
// named recorders instead of ad-hoc counter math.
type Logger struct {
	base *slog.Logger
}

// NewLogger wraps base. A nil base falls back to slog.Default().
func NewLogger(base *slog.Logger) *Logger {
	if base == nil {
		base = slog.Default()
	}
	return &Logger{base: base}
}

// FetchOK logs horizons_fetch: a single successful upstream fetch.
func (l *Logger) FetchOK(correlationID, body string, elapsed time.Duration) {
	l.base.Info("upstream fetch ok",
		"event", "horizons_fetch",
		"correlation_id", correlationID,
		"body", body,
		"elapsed_ms", elapsed.Milliseconds(),
	)
}

// FetchError logs horizons_fetch_error: a single failed upstream fetch.
func (l *Logger) FetchError(correlationID, body string, status int, elapsed time.Duration, err error) {
	l.base.Warn("upstream fetch error",
		"event", "horizons_fetch_error",
		"correlation_id", correlationID,
		"body", body,
		"status", status,
		"elapsed_ms", elapsed.Milliseconds(),
		"error", err,
	)
}

// RefreshStarted logs ephemeris_refresh: a refresh cycle was triggered.
func (l *Logger) RefreshStarted(correlationID, kind, reason string) {
	l.base.Info("snapshot refresh started",
		"event", "ephemeris_refresh",
		"correlation_id", correlationID,
		"kind", kind,
		"reason", reason,
	)
}

// SnapshotFrozen logs ephemeris_snapshot_frozen: a refresh failed but a
// previous record exists, so a degraded snapshot is served.
func (l *Logger) SnapshotFrozen(correlationID, kind, freezeReason string) {
	l.base.Warn("serving frozen snapshot",
		"event", "ephemeris_snapshot_frozen",
		"correlation_id", correlationID,
		"kind", kind,
		"freeze_reason", freezeReason,
	)
}

// RefreshFailed logs ephemeris_refresh_failed: a refresh failed with no
// usable prior record to fall back to.
func (l *Logger) RefreshFailed(correlationID, kind string, err error) {
	l.base.Error("snapshot refresh failed",
		"event", "ephemeris_refresh_failed",
		"correlation_id", correlationID,
		"kind", kind,
		"error", err,
	)
}

// RedisConnected logs redis_connected: the shared store became reachable.
func (l *Logger) RedisConnected(addr string) {
	l.base.Info("redis connected",
		"event", "redis_connected",
		"addr", addr,
	)
}

// RedisConnectFailed logs redis_connect_failed: the shared store is unreachable.
func (l *Logger) RedisConnectFailed(addr string, err error) {
	l.base.Warn("redis connect failed",
		"event", "redis_connect_failed",
		"addr", addr,
		"error", err,
	)
}

// RedisReadFailed logs redis_read_failed: a primary-tier read fell back to secondary.
func (l *Logger) RedisReadFailed(key string, err error) {
	l.base.Warn("redis read failed",
		"event", "redis_read_failed",
		"key", key,
		"error", err,
	)
}

// RedisWriteFailed logs redis_write_failed: a primary-tier write did not apply.
func (l *Logger) RedisWriteFailed(key string, err error) {
	l.base.Warn("redis write failed",
		"event", "redis_write_failed",
		"key", key,
		"error", err,
	)
}

// RequestStarted logs, at debug level, that an HTTP request began. Mirrors
// the teacher pack's request-logging shape rather than the ephemeris event
// taxonomy above, since this is ambient HTTP-layer logging, not a domain
// event asserted by tests.
func (l *Logger) RequestStarted(requestID, method, path string) {
	l.base.Debug("request started",
		"request_id", requestID,
		"method", method,
		"path", path,
	)
}

// RequestCompleted logs, at debug level, that an HTTP request finished.
func (l *Logger) RequestCompleted(requestID, method, path string, status int, duration time.Duration) {
	l.base.Debug("request completed",
		"request_id", requestID,
		"method", method,
		"path", path,
		"status", status,
		"duration", duration.String(),
	)
}
