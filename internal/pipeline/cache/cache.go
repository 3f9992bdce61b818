// internal/pipeline/cache/cache.go
// Package cache stores per-source discovery results in redis so repeated
// searches for the same company/title skip paid API calls.
package cache

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	pkgerrors "connection-finder/internal/common/errors"
	"connection-finder/internal/models"
)

const keyPrefix = "people:"

// Cache wraps a redis client with TTL-bound people storage.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

func New(client *redis.Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = 168 * time.Hour
	}
	return &Cache{client: client, ttl: ttl}
}

// cacheQuery is the canonical key material. Fields are normalized so
// "Stripe"/"stripe " hash identically.
type cacheQuery struct {
	Company string `json:"company"`
	Title   string `json:"title"`
	Domain  string `json:"domain,omitempty"`
}

// Key builds the redis key for a source and query.
func Key(source string, q models.SearchQuery) string {
	canonical := cacheQuery{
		Company: strings.ToLower(strings.TrimSpace(q.Company)),
		Title:   strings.ToLower(strings.TrimSpace(q.Title)),
		Domain:  strings.ToLower(strings.TrimSpace(q.Domain)),
	}
	raw, _ := json.Marshal(canonical)
	sum := md5.Sum(raw)
	return keyPrefix + source + ":" + hex.EncodeToString(sum[:])
}

// Get returns the cached people for a source+query, or (nil, false) on a
// miss. A malformed payload is deleted and treated as a miss.
func (c *Cache) Get(ctx context.Context, source string, q models.SearchQuery) ([]models.Person, bool, error) {
	key := Key(source, q)
	raw, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, pkgerrors.NewCacheFailure(err)
	}

	var people []models.Person
	if err := json.Unmarshal(raw, &people); err != nil {
		c.client.Del(ctx, key)
		return nil, false, nil
	}
	return people, true, nil
}

// Set stores people for a source+query under the configured TTL.
func (c *Cache) Set(ctx context.Context, source string, q models.SearchQuery, people []models.Person) error {
	raw, err := json.Marshal(people)
	if err != nil {
		return pkgerrors.NewCacheFailure(err)
	}
	if err := c.client.Set(ctx, Key(source, q), raw, c.ttl).Err(); err != nil {
		return pkgerrors.NewCacheFailure(err)
	}
	return nil
}

// Clear removes cached entries. With an empty source it clears every
// entry under the people prefix.
func (c *Cache) Clear(ctx context.Context, source string) (int, error) {
	pattern := keyPrefix + "*"
	if source != "" {
		pattern = keyPrefix + source + ":*"
	}

	var deleted int
	iter := c.client.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return deleted, pkgerrors.NewCacheFailure(err)
		}
		deleted++
	}
	if err := iter.Err(); err != nil {
		return deleted, pkgerrors.NewCacheFailure(err)
	}
	return deleted, nil
}

// Stats counts entries per source prefix.
func (c *Cache) Stats(ctx context.Context) (map[string]int, error) {
	out := make(map[string]int)
	iter := c.client.Scan(ctx, 0, keyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		rest := strings.TrimPrefix(iter.Val(), keyPrefix)
		if idx := strings.IndexByte(rest, ':'); idx > 0 {
			out[rest[:idx]]++
		}
	}
	if err := iter.Err(); err != nil {
		return nil, pkgerrors.NewCacheFailure(err)
	}
	return out, nil
}
