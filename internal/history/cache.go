package history

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tron-PC28/TRON-HASH-PC28/internal/pc28"
)

// Cache keeps the latest round result in Redis so display layers can read
// it without touching the daemon.
type Cache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewCache(c *redis.Client, ttl time.Duration) *Cache {
	return &Cache{Client: c, TTL: ttl}
}

const latestKey = "pc28:result:latest"

func issueKey(issue int64) string { return fmt.Sprintf("pc28:result:%d", issue) }

// SetLatest stores the result under both the latest key and its issue key.
func (c *Cache) SetLatest(ctx context.Context, r pc28.RoundResult) error {
	b, err := json.Marshal(r)
	if err != nil {
		return err
	}
	if err := c.Client.Set(ctx, latestKey, b, 0).Err(); err != nil {
		return err
	}
	return c.Client.Set(ctx, issueKey(r.Issue), b, c.TTL).Err()
}

// GetLatest reads the cached latest result; redis.Nil when none yet.
func (c *Cache) GetLatest(ctx context.Context) (pc28.RoundResult, error) {
	b, err := c.Client.Get(ctx, latestKey).Bytes()
	if err != nil {
		return pc28.RoundResult{}, err
	}
	var r pc28.RoundResult
	if err := json.Unmarshal(b, &r); err != nil {
		return pc28.RoundResult{}, err
	}
	return r, nil
}
