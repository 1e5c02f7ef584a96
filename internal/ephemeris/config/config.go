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

// Package config loads the environment-variable surface from spec §6, with
// safe fallback to defaults on an absent or malformed value.
package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/roussov/Solar-System-Live/internal/ephemeris/snapshot"
)

// Config holds the resolved, typed settings cmd/ephemeris-api wires up.
type Config struct {
	Port int

	CacheTTL         time.Duration
	CacheStaleWindow time.Duration
	PrewarmInterval  time.Duration

	RedisURL string // empty means memory-only
}

// Load reads environment variables, falling back to documented defaults for
// anything absent or unparseable. Malformed values are logged and ignored
// rather than aborting startup.
func Load(log *slog.Logger) Config {
	if log == nil {
		log = slog.Default()
	}

	cfg := Config{
		Port:             3000,
		CacheTTL:         snapshot.DefaultTTL,
		CacheStaleWindow: snapshot.DefaultStaleWindow,
	}
	cfg.PrewarmInterval = snapshot.DefaultPrewarmInterval(cfg.CacheTTL)

	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil && port > 0 {
			cfg.Port = port
		} else {
			log.Warn("ignoring malformed PORT", "value", v)
		}
	}

	if v := os.Getenv("CACHE_TTL_MS"); v != "" {
		if ms, err := strconv.ParseInt(v, 10, 64); err == nil && ms > 0 {
			cfg.CacheTTL = time.Duration(ms) * time.Millisecond
			cfg.CacheStaleWindow = cfg.CacheTTL / 2
			cfg.PrewarmInterval = snapshot.DefaultPrewarmInterval(cfg.CacheTTL)
		} else {
			log.Warn("ignoring malformed CACHE_TTL_MS", "value", v)
		}
	}

	if v := os.Getenv("CACHE_STALE_MS"); v != "" {
		if ms, err := strconv.ParseInt(v, 10, 64); err == nil && ms >= 0 {
			cfg.CacheStaleWindow = time.Duration(ms) * time.Millisecond
		} else {
			log.Warn("ignoring malformed CACHE_STALE_MS", "value", v)
		}
	}

	if v := os.Getenv("CACHE_WARM_INTERVAL_MS"); v != "" {
		if ms, err := strconv.ParseInt(v, 10, 64); err == nil && ms >= 0 {
			cfg.PrewarmInterval = time.Duration(ms) * time.Millisecond
		} else {
			log.Warn("ignoring malformed CACHE_WARM_INTERVAL_MS", "value", v)
		}
	}

	cfg.RedisURL = os.Getenv("REDIS_URL")

	return cfg
}
