package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fjod/go_catalog/internal/domain"
)

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{
		client:  client,
		baseTTL: 15 * time.Minute,
	}
}

// RedisCache is a read cache for items and bags. Writers invalidate,
// readers repopulate; TTL jitter spreads out mass expiry.
type RedisCache struct {
	client  *redis.Client
	baseTTL time.Duration
}

func (r *RedisCache) GetItem(ctx context.Context, itemID string) (*domain.Item, error) {
	var item domain.Item
	if err := r.get(ctx, itemKey(itemID), &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *RedisCache) SetItem(ctx context.Context, itemID string, item *domain.Item) error {
	return r.set(ctx, itemKey(itemID), item)
}

func (r *RedisCache) DeleteItem(ctx context.Context, itemID string) error {
	return r.delete(ctx, itemKey(itemID))
}

func (r *RedisCache) GetBag(ctx context.Context, userID string) (*domain.Bag, error) {
	var bag domain.Bag
	if err := r.get(ctx, bagKey(userID), &bag); err != nil {
		return nil, err
	}
	return &bag, nil
}

func (r *RedisCache) SetBag(ctx context.Context, userID string, bag *domain.Bag) error {
	return r.set(ctx, bagKey(userID), bag)
}

func (r *RedisCache) DeleteBag(ctx context.Context, userID string) error {
	return r.delete(ctx, bagKey(userID))
}

func (r *RedisCache) get(ctx context.Context, key string, dest interface{}) error {
	data, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrCacheMiss
	}
	if err != nil {
		return fmt.Errorf("redis get failed: %w", err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("unmarshal cached value failed: %w", err)
	}
	return nil
}

func (r *RedisCache) set(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal value failed: %w", err)
	}

	jitter := time.Duration(rand.Intn(5)) * time.Minute
	if err := r.client.Set(ctx, key, data, r.baseTTL+jitter).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (r *RedisCache) delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func itemKey(itemID string) string {
	return fmt.Sprintf("item:%s", itemID)
}

func bagKey(userID string) string {
	return fmt.Sprintf("bag:%s", userID)
}
