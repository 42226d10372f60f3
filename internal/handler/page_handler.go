package handler

import (
	"context"
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/mansoorceksport/tenantpanel/internal/domain"
	"github.com/mansoorceksport/tenantpanel/internal/middleware"
	"github.com/mansoorceksport/tenantpanel/internal/view"
)

// TenantNameResolver resolves the display name of the signed-in user's tenant
type TenantNameResolver interface {
	ResolveTenantName(ctx context.Context, accessToken, tenantID string) string
}

// PageHandler renders the login, sign-up, dashboard and settings pages
type PageHandler struct {
	renderer *view.Renderer
	resolver TenantNameResolver
	appURL   string
}

// NewPageHandler creates a new page handler
func NewPageHandler(renderer *view.Renderer, resolver TenantNameResolver, appURL string) *PageHandler {
	return &PageHandler{
		renderer: renderer,
		resolver: resolver,
		appURL:   appURL,
	}
}

// Login handles GET / and GET /login
func (h *PageHandler) Login(c *fiber.Ctx) error {
	body := view.LoginData{
		AppURL:     h.appURL,
		SubmitPath: domain.RouteSSO,
		SignUpPath: domain.RouteSignUp,
		LoginPath:  domain.RouteLogin,
		Error:      c.Query("error"),
	}
	return sendHTML(c, func(w io.Writer) error {
		return h.renderer.Page(w, view.PageLogin, view.DefaultLayout("Log in"), body)
	})
}

// SignUp handles GET /sign-up
func (h *PageHandler) SignUp(c *fiber.Ctx) error {
	body := view.LoginData{
		AppURL:     h.appURL,
		SubmitPath: domain.RouteSSO,
		SignUpPath: domain.RouteSignUp,
		LoginPath:  domain.RouteLogin,
	}
	return sendHTML(c, func(w io.Writer) error {
		return h.renderer.Page(w, view.PageSignUp, view.DefaultLayout("Sign up"), body)
	})
}

// Dashboard handles GET /dashboard.
// The panel renders for any session state, including none at all.
func (h *PageHandler) Dashboard(c *fiber.Ctx) error {
	auth := middleware.GetAuthData(c)
	tenantName := h.resolver.ResolveTenantName(c.UserContext(), auth.AccessToken, auth.TenantID)

	panel, err := view.NewAuthPanelData(tenantName, auth)
	if err != nil {
		return err
	}
	return sendHTML(c, func(w io.Writer) error {
		return h.renderer.Page(w, view.PageDashboard, view.DefaultLayout("Authentication Data"), panel)
	})
}

// Settings handles GET /settings
func (h *PageHandler) Settings(c *fiber.Ctx) error {
	auth := middleware.GetAuthData(c)

	body := view.SettingsData{
		SignedIn:      auth.HasCredentials(),
		DashboardPath: domain.RouteDashboard,
		LogoutPath:    domain.RouteLogout,
		LoginPath:     domain.RouteLogin,
	}
	if body.SignedIn {
		body.TenantName = h.resolver.ResolveTenantName(c.UserContext(), auth.AccessToken, auth.TenantID)
		if auth.TokenData != nil {
			body.Email = auth.TokenData.Email
		}
	}

	return sendHTML(c, func(w io.Writer) error {
		return h.renderer.Page(w, view.PageSettings, view.DefaultLayout("Settings"), body)
	})
}
