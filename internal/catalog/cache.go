package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const productsKey = "catalog:products"

var ErrCacheMiss = errors.New("cache miss")

// CachedReader keeps the product list in redis for a short TTL between
// requests. Redis failures fall through to the wrapped reader.
type CachedReader struct {
	next    Reader
	client  *redis.Client
	baseTTL time.Duration
	logger  *zap.Logger
	sfg     singleflight.Group // Prevents cache stampede
}

func NewCachedReader(next Reader, client *redis.Client, ttl time.Duration, logger *zap.Logger) *CachedReader {
	return &CachedReader{
		next:    next,
		client:  client,
		baseTTL: ttl,
		logger:  logger,
	}
}

func (c *CachedReader) ListProducts(ctx context.Context) []domain.Product {
	v, _, _ := c.sfg.Do(productsKey, func() (interface{}, error) {
		products, err := c.get(ctx)
		if err == nil {
			return products, nil
		}
		if !errors.Is(err, ErrCacheMiss) {
			c.logger.Warn("catalog cache get error", zap.Error(err))
		}

		products = c.next.ListProducts(ctx)
		// an empty list usually means the source failed; don't pin it
		if len(products) > 0 {
			if errSet := c.set(ctx, products); errSet != nil {
				c.logger.Warn("catalog cache set error", zap.Error(errSet))
			}
		}
		return products, nil
	})

	return v.([]domain.Product)
}

// Invalidate drops the cached product list.
func (c *CachedReader) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, productsKey).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func (c *CachedReader) get(ctx context.Context) ([]domain.Product, error) {
	data, err := c.client.Get(ctx, productsKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var products []domain.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("unmarshal products failed: %w", err)
	}
	return products, nil
}

func (c *CachedReader) set(ctx context.Context, products []domain.Product) error {
	data, err := json.Marshal(products)
	if err != nil {
		return fmt.Errorf("marshal products failed: %w", err)
	}

	if err := c.client.Set(ctx, productsKey, data, c.ttl()).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

// ttl adds up to 20% jitter to the base TTL.
func (c *CachedReader) ttl() time.Duration {
	jitterRange := int64(c.baseTTL / 5)
	if jitterRange <= 0 {
		return c.baseTTL
	}
	return c.baseTTL + time.Duration(rand.Int63n(jitterRange))
}
