package cacheadapter

import (
	"context"
	"strings"
	"testing"
	"time"
)

type mapCache struct {
	values map[string]string
	ttls   map[string]time.Duration
}

func (m *mapCache) Set(_ context.Context, key string, value interface{}, ttl time.Duration) error {
	m.values[key] = value.(string)
	m.ttls[key] = ttl
	return nil
}

func (m *mapCache) Get(_ context.Context, key string) (string, error) {
	return m.values[key], nil
}

func (m *mapCache) GenerateKey(operation, key string) string {
	return "order-service:" + operation + ":" + key
}

func TestOrderKeyCacheRoundTripAndScoping(t *testing.T) {
	backing := &mapCache{values: map[string]string{}, ttls: map[string]time.Duration{}}
	cache := NewOrderKeyCache(backing)
	ctx := context.Background()

	if _, hit, err := cache.GetOrderID(ctx, 7, "checkout-1"); err != nil || hit {
		t.Fatalf("expected miss, got hit=%v err=%v", hit, err)
	}
	if err := cache.SetOrderID(ctx, 7, "checkout-1", 42, time.Hour); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	orderID, hit, err := cache.GetOrderID(ctx, 7, "checkout-1")
	if err != nil || !hit || orderID != 42 {
		t.Fatalf("expected hit 42, got %d hit=%v err=%v", orderID, hit, err)
	}
	if _, hit, _ := cache.GetOrderID(ctx, 8, "checkout-1"); hit {
		t.Fatalf("expected keys to be scoped per user")
	}

	for key, ttl := range backing.ttls {
		if strings.Contains(key, "checkout-1") {
			t.Fatalf("expected client key to be hashed, got %q", key)
		}
		if !strings.HasPrefix(key, "order-service:order_idempotency:7:") {
			t.Fatalf("unexpected key layout %q", key)
		}
		if ttl != time.Hour {
			t.Fatalf("expected ttl 1h, got %s", ttl)
		}
	}
}

func TestOrderKeyCacheRejectsCorruptValue(t *testing.T) {
	backing := &mapCache{values: map[string]string{}, ttls: map[string]time.Duration{}}
	cache := NewOrderKeyCache(backing)
	backing.values[cache.cacheKey(1, "k")] = "not-a-number"

	if _, _, err := cache.GetOrderID(context.Background(), 1, "k"); err == nil {
		t.Fatalf("expected corrupt value error")
	}
}
