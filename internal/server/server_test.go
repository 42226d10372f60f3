package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/mansoorceksport/tenantpanel/internal/infrastructure/tenantapi"
	"github.com/mansoorceksport/tenantpanel/internal/repository"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestGoldenPath(t *testing.T) {
	// Setup infrastructure
	api := newFakeTenantAPI(t, map[string]string{"t1": "Acme"}, "id-token-1")

	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	mockAuth := NewMockAuthClient()
	mockAuth.AddMockUser("id-token-1", "user-1", "jane@example.com", "t1")

	cfg := testConfig(api.URL)

	app, err := NewApp(AppDependencies{
		Config:       cfg,
		Logger:       zap.NewNop(),
		TenantClient: tenantapi.NewClient(tenantapi.Config{BaseURL: api.URL}, zap.NewNop()),
		NameCache:    repository.NewRedisTenantNameCache(redisClient),
		Verifier:     mockAuth,
	})
	require.NoError(t, err)

	var cookie *http.Cookie

	t.Run("login page renders", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
		body, _ := io.ReadAll(resp.Body)
		assert.Contains(t, string(body), "Log in")
		assert.Contains(t, string(body), `action="/login/sso"`)
	})

	t.Run("sso completion sets cookie", func(t *testing.T) {
		form := url.Values{"id_token": {"id-token-1"}}
		req := httptest.NewRequest(http.MethodPost, "/login/sso", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.Header.Set("Accept", "application/json")

		resp, err := app.Test(req)
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]string
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "/settings", body["redirect"])

		cookie = sessionCookie(resp, cfg.Session.CookieName)
		require.NotNil(t, cookie)
		assert.True(t, cookie.HttpOnly)
	})

	t.Run("dashboard shows tenant name", func(t *testing.T) {
		require.NotNil(t, cookie)
		for i := 0; i < 2; i++ {
			req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
			req.AddCookie(&http.Cookie{Name: cookie.Name, Value: cookie.Value})
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, http.StatusOK, resp.StatusCode)

			body, _ := io.ReadAll(resp.Body)
			out := string(body)
			assert.Contains(t, out, `data-field="tenant-name">Acme<`)
			assert.Contains(t, out, `data-field="tenant-id">t1<`)
			assert.Contains(t, out, `data-field="email">jane@example.com<`)
			assert.Contains(t, out, `data-field="event">signIn<`)
		}
		// second render served from redis
		assert.Equal(t, int32(1), api.calls.Load())
	})

	t.Run("settings shows session summary", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/settings", nil)
		req.AddCookie(&http.Cookie{Name: cookie.Name, Value: cookie.Value})
		resp, err := app.Test(req)
		require.NoError(t, err)
		body, _ := io.ReadAll(resp.Body)
		assert.Contains(t, string(body), "jane@example.com")
		assert.Contains(t, string(body), "Acme")
	})

	t.Run("logout clears cookie", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/logout", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
		assert.Equal(t, "/", resp.Header.Get("Location"))
		cleared := sessionCookie(resp, cfg.Session.CookieName)
		require.NotNil(t, cleared)
		assert.Empty(t, cleared.Value)
	})
}

func TestDashboard_WithoutSession(t *testing.T) {
	api := newFakeTenantAPI(t, map[string]string{"t1": "Acme"}, "tok")
	app, err := NewApp(AppDependencies{
		Config:       testConfig(api.URL),
		TenantClient: tenantapi.NewClient(tenantapi.Config{BaseURL: api.URL}, zap.NewNop()),
	})
	require.NoError(t, err)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/dashboard", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), `data-field="tenant-name">none<`)
	assert.Equal(t, int32(0), api.calls.Load())
}

func TestSSO_Failures(t *testing.T) {
	api := newFakeTenantAPI(t, nil, "tok")
	client := tenantapi.NewClient(tenantapi.Config{BaseURL: api.URL}, zap.NewNop())

	post := func(t *testing.T, deps AppDependencies, token string) *http.Response {
		app, err := NewApp(deps)
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodPost, "/login/sso", strings.NewReader(`{"id_token":"`+token+`"}`))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		require.NoError(t, err)
		return resp
	}

	t.Run("unverified token is rejected", func(t *testing.T) {
		resp := post(t, AppDependencies{Config: testConfig(api.URL), TenantClient: client, Verifier: NewMockAuthClient()}, "forged")
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Nil(t, sessionCookie(resp, "authData"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "sign-in failed", body["error"])
	})

	t.Run("sso not configured", func(t *testing.T) {
		resp := post(t, AppDependencies{Config: testConfig(api.URL), TenantClient: client}, "anything")
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	})
}

func TestSSO_FormPostRedirects(t *testing.T) {
	api := newFakeTenantAPI(t, nil, "tok")
	mockAuth := NewMockAuthClient()
	mockAuth.AddMockUser("good", "user-1", "a@example.com", "")

	app, err := NewApp(AppDependencies{
		Config:       testConfig(api.URL),
		TenantClient: tenantapi.NewClient(tenantapi.Config{BaseURL: api.URL}, zap.NewNop()),
		Verifier:     mockAuth,
	})
	require.NoError(t, err)

	form := url.Values{"id_token": {"good"}, "tenant_id": {"t9"}}
	req := httptest.NewRequest(http.MethodPost, "/login/sso", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/settings", resp.Header.Get("Location"))
	assert.NotNil(t, sessionCookie(resp, "authData"))
}

func TestAssetsAndFragments(t *testing.T) {
	api := newFakeTenantAPI(t, nil, "tok")
	app, err := NewApp(AppDependencies{
		Config:       testConfig(api.URL),
		TenantClient: tenantapi.NewClient(tenantapi.Config{BaseURL: api.URL}, zap.NewNop()),
	})
	require.NoError(t, err)

	tests := []struct {
		name        string
		path        string
		status      int
		contentType string
		contains    string
	}{
		{name: "health", path: "/health", status: http.StatusOK, contentType: "application/json", contains: "healthy"},
		{name: "metrics", path: "/metrics", status: http.StatusOK, contains: "tenantpanel_tenant_lookup_duration_seconds"},
		{name: "static stylesheet", path: "/static/app.css", status: http.StatusOK, contentType: "text/css"},
		{name: "bundled icon", path: "/icons/sql", status: http.StatusOK, contentType: "image/svg+xml", contains: "<svg"},
		{name: "missing icon", path: "/icons/nope", status: http.StatusNotFound, contentType: "application/json"},
		{name: "registered card", path: "/docs/cards?root=postgres&file=./sql/select.mdx&icon=sql", status: http.StatusOK, contains: `href="/docs/postgres/sql/select"`},
		{name: "unregistered card", path: "/docs/cards?root=postgres&file=./sql/nope.mdx", status: http.StatusOK},
		{name: "sign-up page", path: "/sign-up", status: http.StatusOK, contains: "Sign up"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest(http.MethodGet, tt.path, nil))
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
			if tt.contentType != "" {
				assert.Contains(t, resp.Header.Get("Content-Type"), tt.contentType)
			}
			body, _ := io.ReadAll(resp.Body)
			if tt.contains != "" {
				assert.Contains(t, string(body), tt.contains)
			}
			if tt.name == "unregistered card" {
				assert.Empty(t, body)
			}
			assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
		})
	}
}

func TestSSO_ProviderErrorReachesPanel(t *testing.T) {
	api := newFakeTenantAPI(t, nil, "tok")
	cfg := testConfig(api.URL)
	app, err := NewApp(AppDependencies{
		Config:       cfg,
		TenantClient: tenantapi.NewClient(tenantapi.Config{BaseURL: api.URL}, zap.NewNop()),
		Verifier:     NewMockAuthClient(),
	})
	require.NoError(t, err)

	form := url.Values{"error": {"access_denied"}, "tenant_id": {"t1"}}
	req := httptest.NewRequest(http.MethodPost, "/login/sso", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	cookie := sessionCookie(resp, cfg.Session.CookieName)
	require.NotNil(t, cookie)

	req = httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: cookie.Name, Value: cookie.Value})
	resp, err = app.Test(req)
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), `id="auth-error"`)
	assert.Contains(t, string(body), "access_denied")
	assert.Contains(t, string(body), `data-field="tenant-name">none<`)
	assert.Equal(t, int32(0), api.calls.Load())
}
