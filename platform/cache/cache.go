// Package cache provides a Redis-backed JSON cache.
// This is part of the platform layer and contains no business logic.
package cache

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrMiss is returned by Get when the key is absent.
var ErrMiss = errors.New("cache: miss")

// JSONCache stores JSON-encoded values under a key prefix.
type JSONCache struct {
	client *redis.Client
	prefix string
}

// NewRedisClient builds a client from a redis:// or rediss:// URL.
func NewRedisClient(redisURL string, tlsInsecure bool) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	if opts.TLSConfig != nil && tlsInsecure {
		opts.TLSConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec
	}
	return redis.NewClient(opts), nil
}

// New wraps client. Keys are stored as prefix + ":" + key.
func New(client *redis.Client, prefix string) *JSONCache {
	return &JSONCache{client: client, prefix: prefix}
}

func (c *JSONCache) key(k string) string {
	if c.prefix == "" {
		return k
	}
	return c.prefix + ":" + k
}

// Get decodes the value stored under key into dst.
func (c *JSONCache) Get(ctx context.Context, key string, dst any) error {
	raw, err := c.client.Get(ctx, c.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrMiss
	}
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("decode cached %s: %w", key, err)
	}
	return nil
}

// Set encodes value and stores it with ttl.
func (c *JSONCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return c.client.Set(ctx, c.key(key), raw, ttl).Err()
}

// Delete removes keys. Missing keys are not an error.
func (c *JSONCache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = c.key(k)
	}
	return c.client.Del(ctx, full...).Err()
}

// SetNX stores a marker under key only if it is absent. It reports whether
// the marker was written.
func (c *JSONCache) SetNX(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return c.client.SetNX(ctx, c.key(key), time.Now().UTC().Format(time.RFC3339), ttl).Result()
}

// Version returns the counter stored under versionKey, zero when absent.
func (c *JSONCache) Version(ctx context.Context, versionKey string) (int64, error) {
	v, err := c.client.Get(ctx, c.key(versionKey)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return v, err
}

// Bump increments versionKey and deletes keys in one transaction. Writers
// holding the previous version can no longer store through SetIfVersion.
func (c *JSONCache) Bump(ctx context.Context, versionKey string, keys ...string) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, c.key(versionKey))
		for _, k := range keys {
			pipe.Del(ctx, c.key(k))
		}
		return nil
	})
	return err
}

// SetIfVersion stores value only while versionKey still holds version. It
// reports false when the version moved on before or during the write.
func (c *JSONCache) SetIfVersion(ctx context.Context, versionKey string, version int64, key string, value any, ttl time.Duration) (bool, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return false, fmt.Errorf("encode %s: %w", key, err)
	}

	stored := false
	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, c.key(versionKey)).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != version {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, c.key(key), raw, ttl)
			return nil
		})
		if err != nil {
			return err
		}
		stored = true
		return nil
	}, c.key(versionKey))
	if errors.Is(err, redis.TxFailedErr) {
		return false, nil
	}
	return stored, err
}
