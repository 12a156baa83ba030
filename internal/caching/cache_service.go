package caching

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"jpashop/internal/models"

	"github.com/redis/go-redis/v9"
)

const orderKeyPrefix = "jpashop:orders:"

// OrderCache stores fully built order pages. Views hold only scalar and value
// fields, so a cached page never needs the store to be rendered again.
type OrderCache interface {
	GetOrderPage(ctx context.Context, key string) ([]models.OrderView, error)
	SetOrderPage(ctx context.Context, key string, views []models.OrderView) error
	InvalidateOrders(ctx context.Context) error
	Ping(ctx context.Context) error
}

type redisOrderCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisClient builds a client for addr, which may carry a redis:// or
// rediss:// scheme.
func NewRedisClient(addr, password string, db int) *redis.Client {
	parsedAddr := addr
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		parsedAddr = strings.TrimPrefix(strings.TrimPrefix(addr, "redis://"), "rediss://")
	}

	log.Printf("DEBUG: Creating Redis client with address: %s", parsedAddr)

	client := redis.NewClient(&redis.Options{
		Addr:     parsedAddr,
		Password: password,
		DB:       db,
	})

	if pingErr := client.Ping(context.Background()).Err(); pingErr != nil {
		log.Printf("WARN: Redis ping failed on initialization: %v (address: %s)", pingErr, parsedAddr)
	}
	return client
}

// NewRedisOrderCache caches pages for ttl. A zero ttl disables writes.
func NewRedisOrderCache(client *redis.Client, ttl time.Duration) OrderCache {
	return &redisOrderCache{client: client, ttl: ttl}
}

// OrderPageKey identifies one strategy/criteria/page combination.
func OrderPageKey(strategy string, search models.OrderSearch, page *models.Page) string {
	status := "*"
	if search.Status != nil {
		status = string(*search.Status)
	}
	member := "*"
	if search.MemberName != nil && strings.TrimSpace(*search.MemberName) != "" {
		member = url.QueryEscape(strings.TrimSpace(*search.MemberName))
	}
	window := "all"
	if page != nil {
		window = fmt.Sprintf("%d:%d", page.Offset, page.Limit)
	}
	return fmt.Sprintf("%s%s:%s:%s:%s", orderKeyPrefix, strategy, status, member, window)
}

func (r *redisOrderCache) GetOrderPage(ctx context.Context, key string) ([]models.OrderView, error) {
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // cache miss
		}
		return nil, err
	}

	var views []models.OrderView
	if err := json.Unmarshal(data, &views); err != nil {
		return nil, err
	}
	return views, nil
}

func (r *redisOrderCache) SetOrderPage(ctx context.Context, key string, views []models.OrderView) error {
	if r.ttl <= 0 {
		return nil
	}
	data, err := json.Marshal(views)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, data, r.ttl).Err()
}

func (r *redisOrderCache) InvalidateOrders(ctx context.Context) error {
	keys, err := r.client.Keys(ctx, orderKeyPrefix+"*").Result()
	if err != nil {
		return err
	}

	if len(keys) > 0 {
		return r.client.Del(ctx, keys...).Err()
	}
	return nil
}

func (r *redisOrderCache) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
