package cacheadapter

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"
)

const operation = "order_idempotency"

// KeyValueCache is satisfied by the platform redis cache.
type KeyValueCache interface {
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	GenerateKey(operation, key string) string
}

// OrderKeyCache maps (user, idempotency key) to an order id. Client keys are
// hashed so arbitrary input never reaches the redis keyspace verbatim.
type OrderKeyCache struct {
	cache KeyValueCache
}

func NewOrderKeyCache(cache KeyValueCache) *OrderKeyCache {
	return &OrderKeyCache{cache: cache}
}

func (c *OrderKeyCache) GetOrderID(ctx context.Context, userID int64, key string) (int64, bool, error) {
	value, err := c.cache.Get(ctx, c.cacheKey(userID, key))
	if err != nil {
		return 0, false, err
	}
	if value == "" {
		return 0, false, nil
	}
	orderID, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("corrupt cached order id %q: %w", value, err)
	}
	return orderID, true, nil
}

func (c *OrderKeyCache) SetOrderID(ctx context.Context, userID int64, key string, orderID int64, ttl time.Duration) error {
	return c.cache.Set(ctx, c.cacheKey(userID, key), strconv.FormatInt(orderID, 10), ttl)
}

func (c *OrderKeyCache) cacheKey(userID int64, key string) string {
	sum := sha256.Sum256([]byte(key))
	return c.cache.GenerateKey(operation, strconv.FormatInt(userID, 10)+":"+hex.EncodeToString(sum[:]))
}
