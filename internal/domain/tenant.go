package domain

import (
	"context"
	"time"
)

// Tenant is an isolated customer context in the hosted database service
type Tenant struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// TenantCredentials carries the per-call authentication context for a tenant lookup.
// It is passed explicitly on every call; clients hold no caller identity.
type TenantCredentials struct {
	AccessToken string
	TenantID    string
}

// TenantResponse is the raw outcome of a tenant lookup
type TenantResponse struct {
	StatusCode int
	Body       []byte
}

// OK reports whether the status code is in the 2xx range
func (r *TenantResponse) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// TenantClient fetches the tenant identified by the credentials' tenant id
type TenantClient interface {
	GetTenant(ctx context.Context, creds TenantCredentials) (*TenantResponse, error)
}

// TenantNameCache stores resolved tenant display names.
// A miss is reported as ("", false, nil).
type TenantNameCache interface {
	GetTenantName(ctx context.Context, key string) (string, bool, error)
	SetTenantName(ctx context.Context, key, name string, ttl time.Duration) error
}
