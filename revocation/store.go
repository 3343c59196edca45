// Package revocation implements the token blocklist: a Redis-backed
// key-existence store with TTL used to invalidate specific jtis before
// their natural expiry. Entries self-expire, so the store never grows
// unbounded and needs no cleanup job.
package revocation

import (
	"context"
	"fmt"
	"sync"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/taskcollab/taskcollab/logger"
)

// keyPrefix namespaces blocklist entries in a shared Redis database.
const keyPrefix = "revoked:"

// Store is the revocation interface consumed by the bearer authenticator.
type Store interface {
	// Revoke records jti as revoked for ttl. Idempotent.
	Revoke(ctx context.Context, jti string, ttl time.Duration) error

	// IsRevoked reports whether jti is currently revoked.
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// RedisStore implements Store on go-redis. Set/get are independent,
// idempotent operations; no locking is needed across concurrent requests.
type RedisStore struct {
	rdb    *goredis.Client
	log    *logger.Logger
	closed bool
	mu     sync.Mutex
}

// New creates a Redis-backed revocation store.
func New(cfg Config, log *logger.Logger) (*RedisStore, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("revocation config: %w", err)
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	log.Info("Revocation store created", map[string]interface{}{
		"addr": cfg.Addr,
		"db":   cfg.DB,
	})

	return &RedisStore{rdb: rdb, log: log.WithComponent("revocation")}, nil
}

// Revoke implements Store.
func (s *RedisStore) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if err := s.rdb.Set(ctx, keyPrefix+jti, "", ttl).Err(); err != nil {
		return fmt.Errorf("revocation: revoke %s: %w", jti, err)
	}
	s.log.Debug("Token revoked", map[string]interface{}{
		"jti": jti,
		"ttl": ttl.String(),
	})
	return nil
}

// IsRevoked implements Store.
func (s *RedisStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := s.rdb.Exists(ctx, keyPrefix+jti).Result()
	if err != nil {
		return false, fmt.Errorf("revocation: lookup %s: %w", jti, err)
	}
	return n > 0, nil
}

// Ping verifies the Redis connection is alive.
func (s *RedisStore) Ping(ctx context.Context) error {
	if err := s.rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("revocation: ping: %w", err)
	}
	return nil
}

// Close closes the Redis connection. Safe to call multiple times.
func (s *RedisStore) Close() error {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.log.Info("Closing revocation store")
	s.closed = true
	return s.rdb.Close()
}
