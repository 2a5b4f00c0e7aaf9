// Package redis caches the vacancy snapshot so a filter interaction does not
// reload the warehouse on every request. Comments and identities are never
// cached: they always hit the store, which keeps a freshly posted comment
// visible to the next listing.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	"vacancyboard/internal/core/model"
	"vacancyboard/internal/core/ports"
)

const (
	snapshotKey = "vacancyboard:snapshot"
	keywordsKey = "vacancyboard:keywords"
)

// SnapshotCache is a read-through cache in front of a VacancyRepository.
type SnapshotCache struct {
	inner  ports.VacancyRepository
	client *redis.Client
	ttl    time.Duration
}

// Ensure the interface is met.
var _ ports.VacancyRepository = (*SnapshotCache)(nil)

// SnapshotCacheArgs are the mandatory arguments for the creation of a SnapshotCache.
type SnapshotCacheArgs struct {
	// Inner is the repository the cache fills from.
	Inner ports.VacancyRepository

	// Client is a connected redis client.
	Client *redis.Client

	// TTL bounds the staleness of the cached snapshot.
	TTL time.Duration
}

// NewSnapshotCache creates a new SnapshotCache.
func NewSnapshotCache(args SnapshotCacheArgs) (*SnapshotCache, error) {
	if args.Inner == nil {
		return nil, errors.New("nil inner repository passed to snapshot cache")
	}
	if args.Client == nil {
		return nil, errors.New("nil redis client passed to snapshot cache")
	}
	ttl := args.TTL
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &SnapshotCache{inner: args.Inner, client: args.Client, ttl: ttl}, nil
}

// NewClient parses redisURL and verifies connectivity.
func NewClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis.ParseURL(%q): %w", redisURL, err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return client, nil
}

// ListVacancies serves the cached snapshot and falls back to the warehouse on
// a miss. A broken cache entry degrades to a warehouse read instead of
// failing the request.
func (c *SnapshotCache) ListVacancies(ctx context.Context) ([]model.Vacancy, error) {
	payload, err := c.client.Get(ctx, snapshotKey).Bytes()
	if err == nil {
		var vacancies []model.Vacancy
		if err := json.Unmarshal(payload, &vacancies); err == nil {
			return vacancies, nil
		}
		log.WithField("key", snapshotKey).Warn("discarding undecodable cached snapshot")
	} else if err != redis.Nil {
		log.WithError(err).Warn("snapshot cache read failed, falling back to repository")
	}

	vacancies, err := c.inner.ListVacancies(ctx)
	if err != nil {
		return nil, err
	}
	c.store(ctx, snapshotKey, vacancies)
	return vacancies, nil
}

// GetVacancy always reads through to the repository: the detail view is
// cheap and must not show a stale posting.
func (c *SnapshotCache) GetVacancy(ctx context.Context, id string) (*model.Vacancy, error) {
	return c.inner.GetVacancy(ctx, id)
}

// ListKeywords serves the cached keyword list and falls back to the
// repository on a miss.
func (c *SnapshotCache) ListKeywords(ctx context.Context) ([]string, error) {
	payload, err := c.client.Get(ctx, keywordsKey).Bytes()
	if err == nil {
		var keywords []string
		if err := json.Unmarshal(payload, &keywords); err == nil {
			return keywords, nil
		}
	} else if err != redis.Nil {
		log.WithError(err).Warn("keyword cache read failed, falling back to repository")
	}

	keywords, err := c.inner.ListKeywords(ctx)
	if err != nil {
		return nil, err
	}
	c.store(ctx, keywordsKey, keywords)
	return keywords, nil
}

// Refresh reloads the snapshot and the keywords from the repository and
// replaces the cached copies. Used by the scheduled refresher.
func (c *SnapshotCache) Refresh(ctx context.Context) error {
	vacancies, err := c.inner.ListVacancies(ctx)
	if err != nil {
		return fmt.Errorf("error reloading vacancy snapshot: %w", err)
	}
	keywords, err := c.inner.ListKeywords(ctx)
	if err != nil {
		return fmt.Errorf("error reloading keywords: %w", err)
	}
	c.store(ctx, snapshotKey, vacancies)
	c.store(ctx, keywordsKey, keywords)
	return nil
}

// store writes one cache entry. Cache write failures are logged and
// swallowed: the repository remains the source of truth.
func (c *SnapshotCache) store(ctx context.Context, key string, value any) {
	payload, err := json.Marshal(value)
	if err != nil {
		log.WithError(err).WithField("key", key).Warn("could not encode cache entry")
		return
	}
	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		log.WithError(err).WithField("key", key).Warn("could not write cache entry")
	}
}
