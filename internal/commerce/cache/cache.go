package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"vulnshop/internal/commerce"
	"vulnshop/internal/platform/redis"
)

const productsKey = "vulnshop:products:all"

// ProductCache is a best-effort Redis cache for the full product listing.
// Every miss or Redis failure falls through to the store; the cache never
// makes a request fail.
type ProductCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// New returns nil when no Redis client is configured, which disables
// caching at the call sites.
func New(client *redis.Client, ttl time.Duration, logger *slog.Logger) *ProductCache {
	if client == nil {
		return nil
	}
	return &ProductCache{client: client, ttl: ttl, logger: logger}
}

func (c *ProductCache) GetProducts(ctx context.Context) ([]commerce.Product, bool) {
	payload, err := c.client.Get(ctx, productsKey).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, false
	}
	if err != nil {
		c.logger.WarnContext(ctx, "product cache read failed", "error", err)
		return nil, false
	}

	var products []commerce.Product
	if err := json.Unmarshal(payload, &products); err != nil {
		c.logger.WarnContext(ctx, "product cache entry corrupt, dropping", "error", err)
		c.Invalidate(ctx)
		return nil, false
	}
	return products, true
}

func (c *ProductCache) SetProducts(ctx context.Context, products []commerce.Product) {
	payload, err := json.Marshal(products)
	if err != nil {
		c.logger.WarnContext(ctx, "product cache encode failed", "error", err)
		return
	}
	if err := c.client.Set(ctx, productsKey, payload, c.ttl).Err(); err != nil {
		c.logger.WarnContext(ctx, "product cache write failed", "error", err)
	}
}

func (c *ProductCache) Invalidate(ctx context.Context) {
	if err := c.client.Del(ctx, productsKey).Err(); err != nil {
		c.logger.WarnContext(ctx, "product cache invalidation failed", "error", err)
	}
}
