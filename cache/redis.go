package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"

	"taxi-dashboard/config"
	"taxi-dashboard/dashboard"
)

const keyPrefix = "dashboard:session:"

// RedisStore keeps selections as JSON strings that expire after ttl of
// inactivity.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisClient connects to Redis and checks the connection.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	log.Println("Connected to Redis successfully.")
	return rdb, nil
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func sessionKey(sessionID string) string {
	return keyPrefix + sessionID
}

func (r *RedisStore) Get(ctx context.Context, sessionID string) (dashboard.Selection, error) {
	var sel dashboard.Selection
	key := sessionKey(sessionID)
	val, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return sel, ErrNotFound
	}
	if err != nil {
		return sel, fmt.Errorf("redis get %s: %w", key, err)
	}
	if err := json.Unmarshal([]byte(val), &sel); err != nil {
		return sel, fmt.Errorf("decoding selection %s: %w", key, err)
	}
	// A failed refresh shortens the session but does not fail the read
	if r.ttl > 0 {
		if err := r.client.Expire(ctx, key, r.ttl).Err(); err != nil {
			log.Printf("redis expire %s: %v", key, err)
		}
	}
	return sel, nil
}

func (r *RedisStore) Set(ctx context.Context, sessionID string, sel dashboard.Selection) error {
	b, err := json.Marshal(sel)
	if err != nil {
		return err
	}
	key := sessionKey(sessionID)
	if err := r.client.Set(ctx, key, string(b), r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (r *RedisStore) Delete(ctx context.Context, sessionID string) error {
	return r.client.Del(ctx, sessionKey(sessionID)).Err()
}
