// Package cache provides the Redis read-through cache for eligibility
// lookups, the one catalog query expensive enough and repeated enough to be
// worth caching.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"seatcheck/internal/catalog/models"
)

const eligibilityKeyPrefix = "catalog:eligibility:"

// Eligibility stores computed eligibility results keyed by the full query.
// A nil *Eligibility is a valid no-op cache for deployments without Redis.
type Eligibility struct {
	client *redis.Client
	ttl    time.Duration
}

// NewEligibility creates a Redis-backed eligibility cache.
func NewEligibility(client *redis.Client, ttl time.Duration) *Eligibility {
	return &Eligibility{client: client, ttl: ttl}
}

func key(q models.EligibilityQuery) string {
	return fmt.Sprintf("%s%d:%s:%s:%d", eligibilityKeyPrefix, q.Rank, q.Category, q.Quota, q.Limit)
}

// Get returns the cached result for q, or (nil, nil) on a miss. Redis errors
// surface so callers can decide to fall through; a cache must never turn a
// readable dataset into an error.
func (c *Eligibility) Get(ctx context.Context, q models.EligibilityQuery) (*models.EligibilityResult, error) {
	if c == nil || c.client == nil {
		return nil, nil
	}
	raw, err := c.client.Get(ctx, key(q)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var result models.EligibilityResult
	if err := json.Unmarshal(raw, &result); err != nil {
		// A corrupt entry is treated as a miss and overwritten on Set.
		return nil, nil
	}
	return &result, nil
}

// Set stores the result for q with the configured TTL.
func (c *Eligibility) Set(ctx context.Context, q models.EligibilityQuery, result *models.EligibilityResult) error {
	if c == nil || c.client == nil {
		return nil
	}
	raw, err := json.Marshal(result)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key(q), raw, c.ttl).Err()
}
