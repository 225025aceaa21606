// internal/cache/cache.go
package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/soukhub/marketplace-backend/internal/config"
)

const cartCountTTL = 5 * time.Minute

func cartCountKey(clientID uuid.UUID) string {
	return fmt.Sprintf("cart_count:%s", clientID)
}

// Cache is a thin optional layer over Redis. A nil *Cache behaves like
// a permanent miss, so services work unchanged when Redis is not
// configured.
type Cache struct {
	rdb *redis.Client
}

func New(cfg config.RedisConfig) *Cache {
	if cfg.Addr == "" {
		return nil
	}

	return &Cache{
		rdb: redis.NewClient(&redis.Options{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		}),
	}
}

// GetCartCount returns the cached item count for a client's cart, with
// ok=false on miss or any Redis error.
func (c *Cache) GetCartCount(ctx context.Context, clientID uuid.UUID) (int64, bool) {
	if c == nil {
		return 0, false
	}

	val, err := c.rdb.Get(ctx, cartCountKey(clientID)).Result()
	if err != nil {
		return 0, false
	}

	count, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false
	}
	return count, true
}

func (c *Cache) SetCartCount(ctx context.Context, clientID uuid.UUID, count int64) {
	if c == nil {
		return
	}
	c.rdb.Set(ctx, cartCountKey(clientID), count, cartCountTTL)
}

// InvalidateCartCount is called after every cart mutation.
func (c *Cache) InvalidateCartCount(ctx context.Context, clientID uuid.UUID) {
	if c == nil {
		return
	}
	c.rdb.Del(ctx, cartCountKey(clientID))
}

func (c *Cache) Close() error {
	if c == nil {
		return nil
	}
	return c.rdb.Close()
}
