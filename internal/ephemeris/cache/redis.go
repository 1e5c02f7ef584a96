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
	"time"

	redis "github.com/redis/go-redis/v9"
)

// ErrNotFound is returned by RedisClient.Get when the key is absent, mirroring
// redis.Nil without leaking the go-redis package into the RedisClient
// abstraction's callers.
var ErrNotFound = errors.New("cache: key not found")

// RedisClient abstracts the minimal surface RedisTier needs. This is the
// same "wrap the real client behind a small interface so tests can fake it"
// shape as the teacher's RedisEvaler (persistence/clients.go), narrowed from
// Eval to Get/Set/Ping since a cache blob needs no Lua scripting.
type RedisClient interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Ping(ctx context.Context) error
}

// GoRedisClient is a production RedisClient backed by github.com/redis/go-redis/v9.
type GoRedisClient struct {
	c *redis.Client
}

// NewGoRedisClient builds a client for url, a redis:// URL or, if that does not
// parse, a bare address (e.g. "127.0.0.1:6379"). It does not dial: dialing is
// lazy in go-redis; use Ping to verify connectivity.
func NewGoRedisClient(url string) (*GoRedisClient, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		opt = &redis.Options{Addr: url}
	}
	return &GoRedisClient{c: redis.NewClient(opt)}, nil
}

func (g *GoRedisClient) Get(ctx context.Context, key string) (string, error) {
	v, err := g.c.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	return v, err
}

func (g *GoRedisClient) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return g.c.Set(ctx, key, value, ttl).Err()
}

func (g *GoRedisClient) Ping(ctx context.Context) error {
	return g.c.Ping(ctx).Err()
}

// RedisTier is the primary (shared) tier of CacheStore. A nil *RedisTier is a
// valid value meaning "no shared store configured" — Store treats that as a
// permanent degrade to secondary-only, per spec §4.3.
type RedisTier struct {
	client RedisClient
}

// NewRedisTier wraps client as the primary tier.
func NewRedisTier(client RedisClient) *RedisTier {
	return &RedisTier{client: client}
}
