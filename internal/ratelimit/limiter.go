// Package ratelimit provides fixed-window request limiters. The in-memory
// limiter suits a single instance; the Redis limiter shares counters
// between instances.
package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Limiter decides whether one more request for key fits in the window
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

type window struct {
	count int
	start time.Time
}

// Memory is an in-process fixed-window limiter
type Memory struct {
	mu      sync.Mutex
	limit   int
	period  time.Duration
	clients map[string]*window
	now     func() time.Time
}

// NewMemory allows limit requests per key per period
func NewMemory(limit int, period time.Duration) *Memory {
	return &Memory{
		limit:   limit,
		period:  period,
		clients: make(map[string]*window),
		now:     time.Now,
	}
}

// Allow implements Limiter
func (m *Memory) Allow(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	w, ok := m.clients[key]
	if !ok || now.Sub(w.start) >= m.period {
		m.clients[key] = &window{count: 1, start: now}
		return true, nil
	}

	w.count++
	return w.count <= m.limit, nil
}

// Sweep drops windows that ended before now
func (m *Memory) Sweep() {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	for key, w := range m.clients {
		if now.Sub(w.start) >= m.period {
			delete(m.clients, key)
		}
	}
}

// StartSweeper removes stale windows every interval until ctx ends
func (m *Memory) StartSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Sweep()
		}
	}
}

// Redis counts requests with INCR on a per-window key that expires with the window
type Redis struct {
	client *redis.Client
	limit  int
	period time.Duration
	prefix string
	now    func() time.Time
}

// NewRedis parses a redis:// URL and verifies the server answers
func NewRedis(ctx context.Context, url string, limit int, period time.Duration) (*Redis, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return &Redis{
		client: client,
		limit:  limit,
		period: period,
		prefix: "ratelimit",
		now:    time.Now,
	}, nil
}

// Allow implements Limiter
func (r *Redis) Allow(ctx context.Context, key string) (bool, error) {
	windowKey := r.windowKey(key)

	pipe := r.client.TxPipeline()
	incr := pipe.Incr(ctx, windowKey)
	pipe.Expire(ctx, windowKey, r.period)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("rate limit incr: %w", err)
	}
	return incr.Val() <= int64(r.limit), nil
}

func (r *Redis) windowKey(key string) string {
	slot := r.now().UnixNano() / int64(r.period)
	return fmt.Sprintf("%s:%s:%d", r.prefix, key, slot)
}

// Ping reports whether Redis is reachable
func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close releases the connection pool
func (r *Redis) Close() error {
	return r.client.Close()
}
