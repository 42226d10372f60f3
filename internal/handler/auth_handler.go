package handler

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/mansoorceksport/tenantpanel/internal/domain"
	"github.com/mansoorceksport/tenantpanel/internal/middleware"
	"github.com/mansoorceksport/tenantpanel/internal/service"
	"github.com/mansoorceksport/tenantpanel/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// CookieConfig controls how the session cookie is written
type CookieConfig struct {
	Name   string
	Secure bool
}

// AuthHandler handles SSO completion and logout
type AuthHandler struct {
	sso      *service.SSOService
	sessions *service.SessionService
	cookie   CookieConfig
	metrics  *telemetry.Metrics
	logger   *zap.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(sso *service.SSOService, sessions *service.SessionService, cookie CookieConfig, metrics *telemetry.Metrics, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		sso:      sso,
		sessions: sessions,
		cookie:   cookie,
		metrics:  metrics,
		logger:   logger,
	}
}

type ssoRequest struct {
	IDToken  string `json:"id_token" form:"id_token"`
	TenantID string `json:"tenant_id" form:"tenant_id"`
	Error    string `json:"error" form:"error"`
}

// CompleteSSO handles POST /login/sso.
// A failed verification is final; the widget must start a new sign-in.
func (h *AuthHandler) CompleteSSO(c *fiber.Ctx) error {
	var req ssoRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	data, err := h.sso.Complete(c.UserContext(), service.SSOCompletion{
		IDToken:  req.IDToken,
		TenantID: req.TenantID,
		Error:    req.Error,
	})
	switch {
	case errors.Is(err, domain.ErrSSOUnavailable):
		h.recordLogin(c, telemetry.SSOResultUnavailable)
		return fiber.NewError(fiber.StatusServiceUnavailable, "single sign-on is not configured")
	case err != nil:
		h.recordLogin(c, telemetry.SSOResultRejected)
		// Keep the provider's error so the auth panel can display it
		if data.Error != "" {
			if err := h.setSession(c, data); err != nil {
				return err
			}
		}
		return fiber.NewError(fiber.StatusUnauthorized, "sign-in failed")
	}

	if err := h.setSession(c, data); err != nil {
		return err
	}
	h.recordLogin(c, telemetry.SSOResultOK)

	if acceptsJSON(c) {
		return c.JSON(fiber.Map{
			"redirect": domain.RouteSettings,
		})
	}
	return c.Redirect(domain.RouteSettings, fiber.StatusSeeOther)
}

// setSession writes the cookie and exposes the record to the tracing middleware
func (h *AuthHandler) setSession(c *fiber.Ctx, data domain.AuthCookieData) error {
	value, err := h.sessions.Encode(data)
	if err != nil {
		return fmt.Errorf("failed to issue session: %w", err)
	}

	c.Cookie(&fiber.Cookie{
		Name:     h.cookie.Name,
		Value:    value,
		Expires:  time.Now().Add(h.sessions.TTL()),
		HTTPOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: "Lax",
		Path:     "/",
	})
	c.Locals(middleware.AuthDataKey, data)
	return nil
}

// Logout handles POST /logout
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     h.cookie.Name,
		Value:    "",
		Expires:  time.Now().Add(-1 * time.Hour),
		HTTPOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: "Lax",
		Path:     "/",
	})
	return c.Redirect(domain.RouteHome, fiber.StatusSeeOther)
}

func (h *AuthHandler) recordLogin(c *fiber.Ctx, result string) {
	telemetry.AddSpanEvent(c, "sso.completed", attribute.String("result", result))
	if h.metrics != nil {
		h.metrics.SSOLoginsTotal.WithLabelValues(result).Inc()
	}
}

func acceptsJSON(c *fiber.Ctx) bool {
	return strings.Contains(c.Get(fiber.HeaderAccept), fiber.MIMEApplicationJSON)
}
