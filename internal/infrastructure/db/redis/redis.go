// Package redis wires the Redis client backing the bulk upload dedup marks.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultTimeout = 5 * time.Second

// Config holds the connection settings, populated from REDIS_ADDR and
// REDIS_DB. Timeout bounds both the startup ping and per-command I/O.
type Config struct {
	Addr    string
	DB      int
	Timeout time.Duration
}

// Connect builds a client and verifies the server is reachable before the
// dedup store starts depending on it. Dedup lookups degrade to the database
// unique check when Redis fails later, so boot is the only hard gate.
func Connect(ctx context.Context, cfg Config) (*redis.Client, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	client := redis.NewClient(&redis.Options{
		Addr:        cfg.Addr,
		DB:          cfg.DB,
		DialTimeout: timeout,
		ReadTimeout: timeout,
	})

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return client, nil
}
