// Package cache stores calculated estimates in Redis so repeated
// recalculations of the same wizard state skip the engine.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const keyPrefix = "estimate:"

// KeyVersion is bumped whenever the cached response shape or the pricing
// rules change, so entries written by an older build are never served.
const KeyVersion = "v2"

// Options configures the Redis connection.
type Options struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration

	// MaxConnectTime bounds the connect retry loop.
	MaxConnectTime time.Duration
}

// Redis is a byte cache backed by a Redis server.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

// Connect dials Redis and retries the initial ping with exponential
// backoff.
func Connect(ctx context.Context, opts Options, logger *zap.Logger) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         opts.Addr,
		Password:     opts.Password,
		DB:           opts.DB,
		PoolSize:     20,
		MinIdleConns: 2,
	})

	retryPolicy := backoff.NewExponentialBackOff()
	retryPolicy.MaxElapsedTime = opts.MaxConnectTime
	if retryPolicy.MaxElapsedTime <= 0 {
		retryPolicy.MaxElapsedTime = 30 * time.Second
	}
	retryPolicy.MaxInterval = 5 * time.Second

	logger.Info("Connecting to Redis...", zap.String("addr", opts.Addr))

	err := backoff.RetryNotify(
		func() error {
			if err := client.Ping(ctx).Err(); err != nil {
				return fmt.Errorf("ping: %w", err)
			}
			return nil
		},
		backoff.WithContext(retryPolicy, ctx),
		func(err error, d time.Duration) {
			logger.Warn("Redis connection failed, retrying...",
				zap.Error(err),
				zap.Duration("retry_in", d),
			)
		},
	)
	if err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis at %s: %w", opts.Addr, err)
	}

	logger.Info("Connected to Redis", zap.String("addr", opts.Addr))
	return &Redis{client: client, ttl: opts.TTL}, nil
}

// Get returns the cached value of key. A missing key is not an error.
func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get %s: %w", key, err)
	}
	return data, true, nil
}

// Set stores value under key with the configured TTL.
func (r *Redis) Set(ctx context.Context, key string, value []byte) error {
	if err := r.client.Set(ctx, key, value, r.ttl).Err(); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// Ping checks that the Redis server is reachable.
func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close closes the Redis connection.
func (r *Redis) Close() error {
	if r.client == nil {
		return nil
	}
	return r.client.Close()
}

// Key derives a cache key from KeyVersion, the catalog fingerprint and the
// request. encoding/json sorts map keys, so equal requests share a key.
func Key(fingerprint string, request any) (string, error) {
	payload, err := json.Marshal(request)
	if err != nil {
		return "", fmt.Errorf("encode cache key: %w", err)
	}

	h := sha256.New()
	h.Write([]byte(fingerprint))
	h.Write([]byte{0})
	h.Write(payload)
	return keyPrefix + KeyVersion + ":" + hex.EncodeToString(h.Sum(nil)), nil
}
