package domain

import (
	"github.com/golang-jwt/jwt/v5"
)

// UnknownTenant is displayed whenever a tenant name cannot be resolved
const UnknownTenant = "none"

// Fixed navigation targets
const (
	RouteHome      = "/"
	RouteLogin     = "/login"
	RouteSSO       = "/login/sso"
	RouteSignUp    = "/sign-up"
	RouteSettings  = "/settings"
	RouteDashboard = "/dashboard"
	RouteLogout    = "/logout"
)

// Session events recorded in AuthCookieData.Event
const (
	EventSignIn = "signIn"
)

// AuthCookieData is the snapshot of authentication state carried in the session cookie.
// Every field is optional; absent fields are omitted from the JSON form.
type AuthCookieData struct {
	AccessToken string     `json:"accessToken,omitempty"`
	TenantID    string     `json:"tenantId,omitempty"`
	TokenData   *TokenData `json:"tokenData,omitempty"`
	State       string     `json:"state,omitempty"`
	Event       string     `json:"event,omitempty"`
	Error       string     `json:"error,omitempty"`
}

// HasCredentials reports whether both the access token and tenant id are present
func (a AuthCookieData) HasCredentials() bool {
	return a.AccessToken != "" && a.TenantID != ""
}

// TokenData holds the decoded claims of the user's identity token
type TokenData struct {
	Sub        string           `json:"sub,omitempty"`
	Name       string           `json:"name,omitempty"`
	GivenName  string           `json:"given_name,omitempty"`
	FamilyName string           `json:"family_name,omitempty"`
	Email      string           `json:"email,omitempty"`
	Picture    string           `json:"picture,omitempty"`
	Iss        string           `json:"iss,omitempty"`
	Aud        jwt.ClaimStrings `json:"aud,omitempty"`
	Exp        int64            `json:"exp,omitempty"`
	Iat        int64            `json:"iat,omitempty"`
	Jti        string           `json:"jti,omitempty"`
}

// IdentityClaims is the claim set read from an identity token.
// Profile fields follow the OpenID Connect standard claim names.
type IdentityClaims struct {
	Name       string `json:"name,omitempty"`
	GivenName  string `json:"given_name,omitempty"`
	FamilyName string `json:"family_name,omitempty"`
	Email      string `json:"email,omitempty"`
	Picture    string `json:"picture,omitempty"`
	TenantID   string `json:"tenant_id,omitempty"`
	jwt.RegisteredClaims
}

// TokenData converts the claim set into its display form
func (c *IdentityClaims) TokenData() *TokenData {
	td := &TokenData{
		Sub:        c.Subject,
		Name:       c.Name,
		GivenName:  c.GivenName,
		FamilyName: c.FamilyName,
		Email:      c.Email,
		Picture:    c.Picture,
		Iss:        c.Issuer,
		Aud:        c.Audience,
		Jti:        c.ID,
	}
	if c.ExpiresAt != nil {
		td.Exp = c.ExpiresAt.Unix()
	}
	if c.IssuedAt != nil {
		td.Iat = c.IssuedAt.Unix()
	}
	return td
}

// SessionClaims wraps AuthCookieData as the payload of the signed session cookie
type SessionClaims struct {
	Data AuthCookieData `json:"data"`
	jwt.RegisteredClaims
}
