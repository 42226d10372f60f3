package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/mansoorceksport/tenantpanel/internal/domain"
	"github.com/mansoorceksport/tenantpanel/internal/telemetry"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// TenantResolver turns a user's access token and tenant id into a tenant display name
type TenantResolver struct {
	client   domain.TenantClient
	cache    domain.TenantNameCache // optional
	cacheTTL time.Duration
	metrics  *telemetry.Metrics
	logger   *zap.Logger
	group    singleflight.Group
}

// NewTenantResolver creates a resolver. cache may be nil.
func NewTenantResolver(
	client domain.TenantClient,
	cache domain.TenantNameCache,
	cacheTTL time.Duration,
	metrics *telemetry.Metrics,
	logger *zap.Logger,
) *TenantResolver {
	return &TenantResolver{
		client:   client,
		cache:    cache,
		cacheTTL: cacheTTL,
		metrics:  metrics,
		logger:   logger,
	}
}

// ResolveTenantName returns the tenant's display name, or domain.UnknownTenant when
// either input is empty or the lookup does not succeed. It never fails.
func (s *TenantResolver) ResolveTenantName(ctx context.Context, accessToken, tenantID string) string {
	if accessToken == "" || tenantID == "" {
		s.record(telemetry.OutcomeMissingInput)
		return domain.UnknownTenant
	}

	key := tenantCacheKey(accessToken, tenantID)

	if s.cache != nil {
		name, ok, err := s.cache.GetTenantName(ctx, key)
		if err != nil {
			s.logger.Warn("tenant name cache read failed", zap.String("tenant_id", tenantID), zap.Error(err))
		} else if ok {
			s.record(telemetry.OutcomeCacheHit)
			return name
		}
	}

	// The shared fetch outlives any one caller; the tenant API client timeout bounds it.
	creds := domain.TenantCredentials{AccessToken: accessToken, TenantID: tenantID}
	shared := context.WithoutCancel(ctx)
	ch := s.group.DoChan(key, func() (interface{}, error) {
		return s.fetch(shared, creds, key), nil
	})

	select {
	case res := <-ch:
		return res.Val.(string)
	case <-ctx.Done():
		s.logger.Info("tenant lookup abandoned by caller", zap.String("tenant_id", tenantID), zap.Error(ctx.Err()))
		return domain.UnknownTenant
	}
}

func (s *TenantResolver) fetch(ctx context.Context, creds domain.TenantCredentials, key string) string {
	start := time.Now()
	resp, err := s.client.GetTenant(ctx, creds)
	if s.metrics != nil {
		s.metrics.TenantLookupDuration.Observe(time.Since(start).Seconds())
	}
	if err != nil {
		s.record(telemetry.OutcomeTransportError)
		s.logger.Warn("tenant lookup failed", zap.String("tenant_id", creds.TenantID), zap.Error(err))
		return domain.UnknownTenant
	}

	if !resp.OK() {
		s.record(telemetry.OutcomeNon2xx)
		s.logger.Info("tenant lookup returned non-success status",
			zap.String("tenant_id", creds.TenantID),
			zap.Int("status", resp.StatusCode))
		return domain.UnknownTenant
	}

	var tenant domain.Tenant
	if err := json.Unmarshal(resp.Body, &tenant); err != nil || tenant.Name == "" {
		s.record(telemetry.OutcomeDecodeError)
		s.logger.Warn("tenant lookup returned unusable body",
			zap.String("tenant_id", creds.TenantID),
			zap.Error(err))
		return domain.UnknownTenant
	}

	s.record(telemetry.OutcomeOK)

	if s.cache != nil {
		if err := s.cache.SetTenantName(ctx, key, tenant.Name, s.cacheTTL); err != nil {
			s.logger.Warn("tenant name cache write failed", zap.String("tenant_id", creds.TenantID), zap.Error(err))
		}
	}

	return tenant.Name
}

func (s *TenantResolver) record(outcome string) {
	if s.metrics != nil {
		s.metrics.TenantLookupsTotal.WithLabelValues(outcome).Inc()
	}
}

// tenantCacheKey scopes cached names to the token that was allowed to read them
func tenantCacheKey(accessToken, tenantID string) string {
	sum := sha256.Sum256([]byte(accessToken))
	return tenantID + ":" + hex.EncodeToString(sum[:])
}
