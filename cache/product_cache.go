package cache

import (
	"context"
	"encoding/json"
	"time"

	"marketplace-api/models"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const (
	productListKey  = "products:all"
	DefaultCacheTTL = 5 * time.Minute
)

// ProductCache caches the public product listing in Redis. Every
// catalog mutation and every stock decrement invalidates it.
type ProductCache struct {
	redis  *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewProductCache(client *redis.Client, logger *zap.Logger) *ProductCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductCache{
		redis:  client,
		ttl:    DefaultCacheTTL,
		logger: logger,
	}
}

// GetList retrieves the cached product listing, if present.
func (c *ProductCache) GetList(ctx context.Context) ([]models.Product, bool) {
	cached, err := c.redis.Get(ctx, productListKey).Result()
	if err != nil {
		return nil, false
	}

	var products []models.Product
	if err := json.Unmarshal([]byte(cached), &products); err != nil {
		c.logger.Warn("failed to unmarshal cached product list", zap.Error(err))
		return nil, false
	}
	return products, true
}

// SetListAsync caches the product listing without blocking the request.
func (c *ProductCache) SetListAsync(products []models.Product) {
	go func() {
		bgCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		jsonBytes, err := json.Marshal(products)
		if err != nil {
			c.logger.Warn("failed to marshal product list for cache", zap.Error(err))
			return
		}
		if err := c.redis.Set(bgCtx, productListKey, jsonBytes, c.ttl).Err(); err != nil {
			c.logger.Warn("failed to cache product list", zap.Error(err))
		}
	}()
}

// Invalidate drops the cached listing.
func (c *ProductCache) Invalidate(ctx context.Context) {
	if err := c.redis.Del(ctx, productListKey).Err(); err != nil {
		c.logger.Warn("failed to invalidate product cache", zap.Error(err))
	}
}
