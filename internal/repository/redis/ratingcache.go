package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/gigvault/escrowd/internal/domain"
	apperrors "github.com/gigvault/escrowd/pkg/errors"
)

const keyPrefix = "rating:"

// RatingCache implements repository.RatingCache using Redis.
type RatingCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRatingCache creates a new Redis-backed rating summary cache.
func NewRatingCache(client *redis.Client, ttl time.Duration) *RatingCache {
	return &RatingCache{
		client: client,
		ttl:    ttl,
	}
}

// Get retrieves a cached rating summary for a freelancer.
func (c *RatingCache) Get(ctx context.Context, freelancerID string) (*domain.RatingSummary, error) {
	key := keyPrefix + freelancerID

	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, apperrors.NotFound("rating summary", freelancerID)
		}
		return nil, fmt.Errorf("redis get rating summary: %w", err)
	}

	var summary domain.RatingSummary
	if err := json.Unmarshal(data, &summary); err != nil {
		return nil, fmt.Errorf("unmarshal rating summary: %w", err)
	}

	return &summary, nil
}

// Set caches a rating summary with the configured TTL.
func (c *RatingCache) Set(ctx context.Context, summary *domain.RatingSummary) error {
	key := keyPrefix + summary.FreelancerID

	data, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("marshal rating summary: %w", err)
	}

	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set rating summary: %w", err)
	}

	return nil
}

// Invalidate removes a freelancer's cached summary after a new rating lands.
func (c *RatingCache) Invalidate(ctx context.Context, freelancerID string) error {
	if err := c.client.Del(ctx, keyPrefix+freelancerID).Err(); err != nil {
		return fmt.Errorf("redis del rating summary: %w", err)
	}
	return nil
}
