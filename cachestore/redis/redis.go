// Package redis adapts the teacher's RedisCheckpointStore into a
// cachestore.CacheStore, keyed by collection name instead of checkpoint id.
package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/protoflo/protoflo/cachestore"
)

// Store implements cachestore.CacheStore using Redis.
type Store struct {
	client *redis.Client
	prefix string
}

// Options configures a Redis connection.
type Options struct {
	Addr     string
	Password string
	DB       int
	Prefix   string // Key prefix, default "protoflo:cache:"
}

// New creates a Store backed by a fresh Redis client.
func New(opts Options) *Store {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	prefix := opts.Prefix
	if prefix == "" {
		prefix = "protoflo:cache:"
	}

	return &Store{client: client, prefix: prefix}
}

func (s *Store) key(collection string) string {
	return fmt.Sprintf("%s%s", s.prefix, collection)
}

// Save stores collection, overwriting any prior value.
func (s *Store) Save(ctx context.Context, collection string, c *cachestore.Collection) error {
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal collection: %w", err)
	}

	if err := s.client.Set(ctx, s.key(collection), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save collection to redis: %w", err)
	}
	return nil
}

// Load retrieves a collection by name.
func (s *Store) Load(ctx context.Context, collection string) (*cachestore.Collection, error) {
	data, err := s.client.Get(ctx, s.key(collection)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, cachestore.ErrNotFound
		}
		return nil, fmt.Errorf("failed to load collection from redis: %w", err)
	}

	var c cachestore.Collection
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to unmarshal collection: %w", err)
	}
	return &c, nil
}

// Delete removes a collection.
func (s *Store) Delete(ctx context.Context, collection string) error {
	if err := s.client.Del(ctx, s.key(collection)).Err(); err != nil {
		return fmt.Errorf("failed to delete collection: %w", err)
	}
	return nil
}
