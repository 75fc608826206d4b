package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// TTL constants
const (
	TTLListings = 30 * time.Second // public listing pages (refresh often)
	TTLUser     = 5 * time.Minute  // profile rows (low change rate)
	TTLDefault  = 5 * time.Minute
)

// Cache key prefixes
const (
	PrefixListings = "listings:"
	PrefixUser     = "user:"
)

// Service is the Redis cache interface. All methods are safe to call with a
// missing backend; writes become no-ops and reads miss.
type Service interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error

	// Public listing pages
	GetListings(ctx context.Context, page, limit int) ([]byte, error)
	SetListings(ctx context.Context, page, limit int, data interface{}) error
	InvalidateListings(ctx context.Context) error

	// Profiles
	GetUser(ctx context.Context, userID string, dest interface{}) error
	SetUser(ctx context.Context, userID string, data interface{}) error
	InvalidateUser(ctx context.Context, userID string) error

	IsAvailable() bool
	Ping(ctx context.Context) error
}

type redisCache struct {
	client *redis.Client
}

// NewService creates a new cache service
func NewService(client *redis.Client) Service {
	return &redisCache{client: client}
}

func (c *redisCache) IsAvailable() bool {
	return c.client != nil
}

func (c *redisCache) Ping(ctx context.Context) error {
	if c.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	return c.client.Ping(ctx).Err()
}

func (c *redisCache) Get(ctx context.Context, key string, dest interface{}) error {
	if c.client == nil {
		return fmt.Errorf("redis not available")
	}

	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return err
	}

	return json.Unmarshal(data, dest)
}

func (c *redisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if c.client == nil {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	return c.client.Set(ctx, key, data, ttl).Err()
}

func (c *redisCache) Delete(ctx context.Context, keys ...string) error {
	if c.client == nil {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

func listingsKey(page, limit int) string {
	return fmt.Sprintf("%s%d:%d", PrefixListings, page, limit)
}

func (c *redisCache) GetListings(ctx context.Context, page, limit int) ([]byte, error) {
	if c.client == nil {
		return nil, fmt.Errorf("redis not available")
	}
	return c.client.Get(ctx, listingsKey(page, limit)).Bytes()
}

func (c *redisCache) SetListings(ctx context.Context, page, limit int, data interface{}) error {
	return c.Set(ctx, listingsKey(page, limit), data, TTLListings)
}

// InvalidateListings drops every cached listing page. Pages are keyed by
// page:limit so this has to scan the prefix.
func (c *redisCache) InvalidateListings(ctx context.Context) error {
	if c.client == nil {
		return nil
	}
	iter := c.client.Scan(ctx, 0, PrefixListings+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

func (c *redisCache) GetUser(ctx context.Context, userID string, dest interface{}) error {
	return c.Get(ctx, PrefixUser+userID, dest)
}

func (c *redisCache) SetUser(ctx context.Context, userID string, data interface{}) error {
	return c.Set(ctx, PrefixUser+userID, data, TTLUser)
}

func (c *redisCache) InvalidateUser(ctx context.Context, userID string) error {
	return c.Delete(ctx, PrefixUser+userID)
}
