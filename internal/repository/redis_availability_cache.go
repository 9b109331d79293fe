package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"
	redisclient "github.com/iuriAvil4/SistemaGestaoDeEventos/pkg/redis"
	"github.com/iuriAvil4/SistemaGestaoDeEventos/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// RedisAvailabilityCache caches availability counts in Redis. Values are
// best-effort: a miss or a Redis outage falls back to storage, and every
// capacity movement invalidates the key rather than patching it.
type RedisAvailabilityCache struct {
	client *redisclient.Client
}

// NewRedisAvailabilityCache creates a new RedisAvailabilityCache
func NewRedisAvailabilityCache(client *redisclient.Client) *RedisAvailabilityCache {
	return &RedisAvailabilityCache{client: client}
}

func availabilityKey(ticketTypeID string) string {
	return "availability:ticket_type:" + ticketTypeID
}

// Get returns the cached availability, or found=false on a miss
func (c *RedisAvailabilityCache) Get(ctx context.Context, ticketTypeID string) (int, bool, error) {
	ctx, span := telemetry.StartSpan(ctx, "cache.redis.availability.get")
	defer span.End()

	span.SetAttributes(attribute.String("ticket_type_id", ticketTypeID))

	val, err := c.client.Get(ctx, availabilityKey(ticketTypeID)).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			span.SetAttributes(attribute.Bool("cache_hit", false))
			span.SetStatus(codes.Ok, "")
			return 0, false, nil
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return 0, false, fmt.Errorf("failed to get cached availability: %w", err)
	}

	available, err := strconv.Atoi(val)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return 0, false, fmt.Errorf("corrupt cached availability %q: %w", val, err)
	}

	span.SetAttributes(attribute.Bool("cache_hit", true))
	span.SetStatus(codes.Ok, "")
	return available, true, nil
}

// Set stores the availability with the given TTL
func (c *RedisAvailabilityCache) Set(ctx context.Context, ticketTypeID string, available int, ttl time.Duration) error {
	ctx, span := telemetry.StartSpan(ctx, "cache.redis.availability.set")
	defer span.End()

	span.SetAttributes(
		attribute.String("ticket_type_id", ticketTypeID),
		attribute.Int("available", available),
	)

	if err := c.client.Set(ctx, availabilityKey(ticketTypeID), available, ttl).Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to cache availability: %w", err)
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

// Invalidate drops the cached value after a capacity movement
func (c *RedisAvailabilityCache) Invalidate(ctx context.Context, ticketTypeID string) error {
	ctx, span := telemetry.StartSpan(ctx, "cache.redis.availability.invalidate")
	defer span.End()

	span.SetAttributes(attribute.String("ticket_type_id", ticketTypeID))

	if err := c.client.Del(ctx, availabilityKey(ticketTypeID)).Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to invalidate cached availability: %w", err)
	}

	span.SetStatus(codes.Ok, "")
	return nil
}
