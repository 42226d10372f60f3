package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const tenantNameKeyPrefix = "tenant:name:"

// RedisTenantNameCache implements domain.TenantNameCache using Redis
type RedisTenantNameCache struct {
	client *redis.Client
}

// NewRedisTenantNameCache creates a new Redis tenant name cache
func NewRedisTenantNameCache(client *redis.Client) *RedisTenantNameCache {
	return &RedisTenantNameCache{
		client: client,
	}
}

// GetTenantName retrieves a cached tenant name with OTel tracing
func (r *RedisTenantNameCache) GetTenantName(ctx context.Context, key string) (string, bool, error) {
	ctx, span := otel.Tracer("redis").Start(ctx, "redis.Get",
		trace.WithAttributes(attribute.String("cache.key", tenantNameKeyPrefix+key)),
	)
	defer span.End()

	name, err := r.client.Get(ctx, tenantNameKeyPrefix+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			span.SetAttributes(attribute.String("cache.result", "miss"))
			return "", false, nil
		}
		span.RecordError(err)
		return "", false, fmt.Errorf("redis get error: %w", err)
	}

	span.SetAttributes(attribute.String("cache.result", "hit"))
	return name, true, nil
}

// SetTenantName caches a tenant name with TTL and OTel tracing
func (r *RedisTenantNameCache) SetTenantName(ctx context.Context, key, name string, ttl time.Duration) error {
	ctx, span := otel.Tracer("redis").Start(ctx, "redis.Set",
		trace.WithAttributes(
			attribute.String("cache.key", tenantNameKeyPrefix+key),
			attribute.Int64("cache.ttl_seconds", int64(ttl.Seconds())),
		),
	)
	defer span.End()

	if err := r.client.Set(ctx, tenantNameKeyPrefix+key, name, ttl).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("redis set error: %w", err)
	}
	return nil
}
