// Package cache backs the catalog read path with a (operation, parameters)
// keyed response cache. Entries carry their own TTL because every catalog
// operation declares its own staleness window.
package cache

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
)

// Store is the minimal read/write interface for the catalog cache.
// Implementations must be safe for concurrent use.
type Store interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, v any, ttl time.Duration) error
}

type memItem struct {
	data      []byte
	expiresAt time.Time
}

// Memory is an in-process Store with per-entry expiry and optional NATS
// key-level invalidation. Values are stored JSON-encoded so the memory and
// Redis backends round-trip identically.
type Memory struct {
	mu    sync.RWMutex
	items map[string]memItem
}

// NewMemory creates a Memory store and wires up NATS invalidation when nc is
// non-nil. Publishing a key to subj evicts it; an empty payload or "ALL"
// clears everything.
func NewMemory(nc *nats.Conn, subj string) *Memory {
	c := &Memory{items: make(map[string]memItem)}
	if nc != nil && subj != "" {
		_, _ = nc.Subscribe(subj, func(m *nats.Msg) {
			key := string(m.Data)
			c.mu.Lock()
			defer c.mu.Unlock()
			if key == "" || strings.EqualFold(key, "ALL") {
				c.items = make(map[string]memItem)
				return
			}
			delete(c.items, key)
		})
	}
	return c
}

func (c *Memory) Get(_ context.Context, key string, dest any) (bool, error) {
	c.mu.RLock()
	it, ok := c.items[key]
	c.mu.RUnlock()
	if !ok {
		return false, nil
	}
	if time.Now().After(it.expiresAt) {
		c.mu.Lock()
		if cur, ok2 := c.items[key]; ok2 && time.Now().After(cur.expiresAt) {
			delete(c.items, key)
		}
		c.mu.Unlock()
		return false, nil
	}
	if err := json.Unmarshal(it.data, dest); err != nil {
		return false, err
	}
	return true, nil
}

func (c *Memory) Set(_ context.Context, key string, v any, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = time.Minute
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.items[key] = memItem{data: b, expiresAt: time.Now().Add(ttl)}
	c.mu.Unlock()
	return nil
}
