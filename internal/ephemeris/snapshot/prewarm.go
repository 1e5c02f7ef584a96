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
	"time"

	"github.com/roussov/Solar-System-Live/internal/ephemeris/catalog"
)

// Start launches the background pre-warmer for both catalog kinds. It is a
// no-op if PrewarmInterval is non-positive (§6: "0 disables"). The ticker is
// stopped by Close and never blocks process shutdown, per §4.4.
func (e *Engine) Start(ctx context.Context) {
	if e.prewarmInterval <= 0 {
		return
	}
	for _, kind := range []catalog.Kind{catalog.Planets, catalog.Probes} {
		kind := kind
		e.wg.Add(1)
		go e.prewarmLoop(ctx, kind)
	}
}

func (e *Engine) prewarmLoop(ctx context.Context, kind catalog.Kind) {
	defer e.wg.Done()

	ticker := time.NewTicker(e.prewarmInterval)
	defer ticker.Stop()

	for {
		select {
		case <-e.stop:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			e.mu.Lock()
			_, exists := e.inflight[kind]
			e.mu.Unlock()
			if exists {
				continue
			}
			_, _ = e.coalesceRefresh(context.Background(), kind, "", ReasonBackgroundPrewarm)
		}
	}
}

// Close stops the pre-warmer and waits for its goroutines to exit. It does
// not touch CacheStore; callers that also own the store should close it
// separately.
func (e *Engine) Close() {
	select {
	case <-e.stop:
	default:
		close(e.stop)
	}
	e.wg.Wait()
}
