package tenantapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mansoorceksport/tenantpanel/internal/domain"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// maxBodyBytes caps how much of a tenant response is read
const maxBodyBytes = 1 << 20

// Config holds tenant API configuration
type Config struct {
	BaseURL string // e.g. https://api.thenile.dev/v2/databases/<db-id>
	Timeout time.Duration
}

// Client is a stateless client for the hosted tenant service.
// Caller identity travels with each call in domain.TenantCredentials.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a new tenant API client
func NewClient(cfg Config, logger *zap.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// GetTenant fetches the tenant named by creds.TenantID using creds.AccessToken.
// Any HTTP response is returned as-is; an error means the request never completed.
func (c *Client) GetTenant(ctx context.Context, creds domain.TenantCredentials) (*domain.TenantResponse, error) {
	endpoint := fmt.Sprintf("%s/tenants/%s", c.baseURL, url.PathEscape(creds.TenantID))

	ctx, span := otel.Tracer("tenantapi").Start(ctx, "tenantapi.GetTenant",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("tenant.id", creds.TenantID),
			attribute.String("http.method", http.MethodGet),
		),
	)
	defer span.End()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+creds.AccessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "request failed")
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	if resp.StatusCode >= 400 {
		span.SetStatus(codes.Error, fmt.Sprintf("HTTP %d", resp.StatusCode))
	}

	c.logger.Debug("tenant lookup response",
		zap.String("tenant_id", creds.TenantID),
		zap.Int("status", resp.StatusCode),
		zap.Int("body_bytes", len(body)))

	return &domain.TenantResponse{
		StatusCode: resp.StatusCode,
		Body:       body,
	}, nil
}
