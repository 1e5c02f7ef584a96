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

	"github.com/roussov/Solar-System-Live/internal/ephemeris/cache"
)

// call is the explicit task primitive the design notes ask for in place of
// callback-style concurrency: a single resolved value, produced at most once,
// shared by every waiter regardless of how many arrived before it resolved.
type call struct {
	done   chan struct{}
	record cache.CacheRecord
	err    error
}

func newCall() *call {
	return &call{done: make(chan struct{})}
}

// resolve sets the call's result and wakes every waiter. Must be called
// exactly once, from a deferred recover-guarded path so a panicking refresh
// still clears the inflight entry (§5: "must clear the entry on all exit
// paths including panics").
func (c *call) resolve(record cache.CacheRecord, err error) {
	c.record = record
	c.err = err
	close(c.done)
}

// wait blocks until the call resolves or ctx is cancelled, whichever comes
// first. A cancelled waiter does not affect the underlying refresh, which
// keeps running for any other waiter and for the cache itself.
func (c *call) wait(ctx context.Context) (cache.CacheRecord, error) {
	select {
	case <-c.done:
		return c.record, c.err
	case <-ctx.Done():
		return cache.CacheRecord{}, ctx.Err()
	}
}

