// README: Redis-backed cache of calculation responses keyed by calculation id.
package costcalc

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"loadapp/internal/types"
)

var ErrCalculationNotFound = errors.New("calculation not found")

const cacheTTL = 24 * time.Hour

// Cache retains finished breakdowns so the dashboard can re-fetch them by
// id. A nil Redis client turns the cache into an in-process map.
type Cache struct {
	client *redis.Client

	mu    sync.RWMutex
	local map[types.ID][]byte
}

func NewCache(client *redis.Client) *Cache {
	c := &Cache{client: client}
	if client == nil {
		c.local = make(map[types.ID][]byte)
	}
	return c
}

func (c *Cache) Put(ctx context.Context, resp *Response) error {
	payload, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	if c.client == nil {
		c.mu.Lock()
		c.local[resp.CalculationID] = payload
		c.mu.Unlock()
		return nil
	}
	return c.client.Set(ctx, cacheKey(resp.CalculationID), payload, cacheTTL).Err()
}

func (c *Cache) Get(ctx context.Context, id types.ID) (*Response, error) {
	var payload []byte
	if c.client == nil {
		c.mu.RLock()
		stored, ok := c.local[id]
		c.mu.RUnlock()
		if !ok {
			return nil, ErrCalculationNotFound
		}
		payload = stored
	} else {
		stored, err := c.client.Get(ctx, cacheKey(id)).Bytes()
		if errors.Is(err, redis.Nil) {
			return nil, ErrCalculationNotFound
		}
		if err != nil {
			return nil, err
		}
		payload = stored
	}

	var resp Response
	if err := json.Unmarshal(payload, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func cacheKey(id types.ID) string {
	return "loadapp:calc:" + id.String()
}
