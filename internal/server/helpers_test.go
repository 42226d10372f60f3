package server

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"firebase.google.com/go/v4/auth"
	"github.com/mansoorceksport/tenantpanel/internal/config"
)

// MockAuthClient implements service.IdentityVerifier for testing
type MockAuthClient struct {
	// Key: ID token posted by the widget
	// Value: *auth.Token (what VerifyIDToken returns)
	ValidTokens map[string]*auth.Token
}

func NewMockAuthClient() *MockAuthClient {
	return &MockAuthClient{
		ValidTokens: make(map[string]*auth.Token),
	}
}

func (m *MockAuthClient) VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error) {
	if token, ok := m.ValidTokens[idToken]; ok {
		return token, nil
	}
	return nil, fmt.Errorf("invalid mock token")
}

// AddMockUser registers a token that verifies as the given user
func (m *MockAuthClient) AddMockUser(idToken, uid, email, tenantID string) {
	m.ValidTokens[idToken] = &auth.Token{
		UID:      uid,
		Subject:  uid,
		Issuer:   "https://securetoken.google.com/test-project",
		Audience: "test-project",
		Expires:  time.Now().Add(time.Hour).Unix(),
		IssuedAt: time.Now().Unix(),
		Claims: map[string]interface{}{
			"email":     email,
			"name":      "Test User",
			"tenant_id": tenantID,
		},
	}
}

// fakeTenantAPI serves GET /tenants/{id} for the tokens it knows
type fakeTenantAPI struct {
	*httptest.Server
	calls atomic.Int32
}

func newFakeTenantAPI(t *testing.T, names map[string]string, token string) *fakeTenantAPI {
	t.Helper()
	api := &fakeTenantAPI{}
	mux := http.NewServeMux()
	mux.HandleFunc("/tenants/", func(w http.ResponseWriter, r *http.Request) {
		api.calls.Add(1)
		if r.Header.Get("Authorization") != "Bearer "+token {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		id := r.URL.Path[len("/tenants/"):]
		name, ok := names[id]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":"not found"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = fmt.Fprintf(w, `{"id":%q,"name":%q}`, id, name)
	})
	api.Server = httptest.NewServer(mux)
	t.Cleanup(api.Close)
	return api
}

func testConfig(tenantAPIURL string) *config.Config {
	cfg := &config.Config{}
	cfg.Server.AppURL = "http://localhost:3000"
	cfg.TenantAPI.BaseURL = tenantAPIURL
	cfg.TenantAPI.Timeout = 2 * time.Second
	cfg.Session.CookieName = "authData"
	cfg.Session.Secret = "test-secret-key-123"
	cfg.Session.TTL = time.Hour
	cfg.Redis.TenantNameTTL = time.Minute
	return cfg
}

func sessionCookie(resp *http.Response, name string) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}
