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

package cache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roussov/Solar-System-Live/internal/ephemeris/horizons"
)

// fakeRedisClient is an in-memory stand-in for RedisClient, the same "fake
// the thin client interface" shape as the teacher's fake Redis/Kafka clients.
type fakeRedisClient struct {
	mu        sync.Mutex
	data      map[string]string
	failGet   bool
	failSet   bool
	failPing  bool
}

func newFakeRedisClient() *fakeRedisClient {
	return &fakeRedisClient{data: make(map[string]string)}
}

func (f *fakeRedisClient) Get(_ context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failGet {
		return "", errors.New("simulated redis outage")
	}
	v, ok := f.data[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (f *fakeRedisClient) Set(_ context.Context, key, value string, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failSet {
		return errors.New("simulated redis outage")
	}
	f.data[key] = value
	return nil
}

func (f *fakeRedisClient) Ping(_ context.Context) error {
	if f.failPing {
		return errors.New("simulated redis outage")
	}
	return nil
}

func sampleRecord() CacheRecord {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	snap := Snapshot{
		Timestamp:      now,
		Bodies:         []horizons.StateVector{{Body: "earth", X: 1, Y: 0, Z: 0}},
		ReferenceFrame: "J2000-ECLIPTIC",
		DistanceUnit:   "AU",
		VelocityUnit:   "AU/day",
	}
	return NewRecord(snap, now, 2*time.Minute, time.Minute)
}

func TestStore_MemoryOnlyWhenNoPrimary(t *testing.T) {
	s := NewStore(nil, nil)
	assert.Equal(t, BackendMemory, s.Backend())

	rec := sampleRecord()
	s.Put(context.Background(), "ephemeris:planets:v1", rec)

	got, ok := s.Get(context.Background(), "ephemeris:planets:v1")
	require.True(t, ok)
	assert.Equal(t, rec.Snapshot.Bodies[0].Body, got.Snapshot.Bodies[0].Body)
}

func TestStore_PrimaryHitMirrorsToSecondary(t *testing.T) {
	client := newFakeRedisClient()
	primary := NewRedisTier(client)
	s := NewStore(primary, nil)
	assert.Equal(t, BackendShared, s.Backend())

	rec := sampleRecord()
	s.Put(context.Background(), "ephemeris:planets:v1", rec)

	_, err := client.Get(context.Background(), "ephemeris:planets:v1")
	require.NoError(t, err)

	// Start from an empty secondary so only a primary hit can populate it.
	s.secondary = NewMemoryTier()
	_, ok := s.Get(context.Background(), "ephemeris:planets:v1")
	require.True(t, ok)

	got, ok := s.secondary.Get("ephemeris:planets:v1")
	require.True(t, ok)
	assert.Equal(t, rec.Snapshot.Bodies[0].Body, got.Snapshot.Bodies[0].Body)
}

func TestStore_PrimaryFailureDegradesToSecondary(t *testing.T) {
	client := newFakeRedisClient()
	primary := NewRedisTier(client)
	s := NewStore(primary, nil)

	rec := sampleRecord()
	s.secondary.Put("ephemeris:planets:v1", rec)

	client.failGet = true
	got, ok := s.Get(context.Background(), "ephemeris:planets:v1")
	require.True(t, ok)
	assert.Equal(t, rec.Snapshot.Bodies[0].Body, got.Snapshot.Bodies[0].Body)
	assert.Equal(t, BackendMemory, s.Backend())

	s.Close()
}

func TestStore_WriteFailureDoesNotPropagate(t *testing.T) {
	client := newFakeRedisClient()
	client.failSet = true
	primary := NewRedisTier(client)
	s := NewStore(primary, nil)

	assert.NotPanics(t, func() {
		s.Put(context.Background(), "ephemeris:planets:v1", sampleRecord())
	})

	got, ok := s.secondary.Get("ephemeris:planets:v1")
	assert.True(t, ok)
	assert.NotEmpty(t, got.Snapshot.Bodies)

	s.Close()
}
