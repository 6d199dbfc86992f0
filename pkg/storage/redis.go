package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "wastepredict:pref:"

// RedisStore implements Store on Redis so several service instances share
// the same preferences.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	mu     sync.RWMutex
}

// NewRedisStore connects to Redis and verifies the connection.
//
// Parameters:
//   - addr: Redis server address (e.g., "localhost:6379")
//   - password: Redis password (empty string for no auth)
//   - db: Redis database number (typically 0)
//   - ttl: Preference expiration (0 keeps preferences indefinitely)
func NewRedisStore(addr, password string, db int, ttl time.Duration) (*RedisStore, error) {
	if addr == "" {
		return nil, errors.New("redis address cannot be empty")
	}
	if db < 0 {
		return nil, errors.New("redis database number must be >= 0")
	}
	if ttl < 0 {
		return nil, errors.New("redis ttl must be >= 0")
	}

	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}

	return &RedisStore{
		client: client,
		ttl:    ttl,
	}, nil
}

func redisKey(key string) string {
	return redisKeyPrefix + key
}

// Put stores pref as JSON under "wastepredict:pref:{key}".
func (r *RedisStore) Put(ctx context.Context, pref Preference) error {
	if err := validateKey(pref.Key); err != nil {
		return err
	}

	data, err := json.Marshal(pref)
	if err != nil {
		return fmt.Errorf("failed to marshal preference: %w", err)
	}

	client, err := r.conn()
	if err != nil {
		return err
	}
	if err := client.Set(ctx, redisKey(pref.Key), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store preference in redis: %w", err)
	}

	return nil
}

// Get retrieves the preference stored under key. A missing key is reported
// with found=false and a nil error.
func (r *RedisStore) Get(ctx context.Context, key string) (Preference, bool, error) {
	if err := validateKey(key); err != nil {
		return Preference{}, false, err
	}

	client, err := r.conn()
	if err != nil {
		return Preference{}, false, err
	}

	data, err := client.Get(ctx, redisKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Preference{}, false, nil
		}
		return Preference{}, false, fmt.Errorf("failed to get preference from redis: %w", err)
	}

	var pref Preference
	if err := json.Unmarshal(data, &pref); err != nil {
		return Preference{}, false, fmt.Errorf("failed to unmarshal preference: %w", err)
	}

	return pref, true, nil
}

// Close closes the Redis client connection.
// It is safe to call multiple times.
func (r *RedisStore) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.client == nil {
		return nil
	}

	err := r.client.Close()
	r.client = nil
	if errors.Is(err, redis.ErrClosed) {
		return nil
	}

	return err
}

// Ping checks the Redis connection health.
func (r *RedisStore) Ping(ctx context.Context) error {
	client, err := r.conn()
	if err != nil {
		return err
	}
	return client.Ping(ctx).Err()
}

func (r *RedisStore) conn() (*redis.Client, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.client == nil {
		return nil, redis.ErrClosed
	}
	return r.client, nil
}
