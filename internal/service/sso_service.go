package service

import (
	"context"
	"fmt"

	"firebase.google.com/go/v4/auth"
	"github.com/mansoorceksport/tenantpanel/internal/domain"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

// IdentityVerifier verifies ID tokens issued by the sign-in widget.
// Satisfied by the Firebase Auth client; tests provide a mock.
type IdentityVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

// SSOCompletion is what the sign-in widget posts back after authenticating
type SSOCompletion struct {
	IDToken  string
	TenantID string
	Error    string // set by the widget when the provider refused the sign-in
}

// SSOService turns a completed widget sign-in into session cookie data
type SSOService struct {
	verifier IdentityVerifier // nil when SSO is not configured
	logger   *zap.Logger
}

// NewSSOService creates a new SSO service. verifier may be nil.
func NewSSOService(verifier IdentityVerifier, logger *zap.Logger) *SSOService {
	return &SSOService{
		verifier: verifier,
		logger:   logger,
	}
}

// Complete verifies the widget's ID token and builds the session record.
// A provider-reported error yields ErrInvalidToken together with a record carrying that error.
func (s *SSOService) Complete(ctx context.Context, req SSOCompletion) (domain.AuthCookieData, error) {
	if s.verifier == nil {
		return domain.AuthCookieData{}, domain.ErrSSOUnavailable
	}
	if req.Error != "" {
		s.logger.Info("sso sign-in refused by provider", zap.String("error", req.Error))
		// Still returned so the failure can be shown on the auth panel
		return domain.AuthCookieData{
			TenantID: req.TenantID,
			State:    ulid.Make().String(),
			Event:    domain.EventSignIn,
			Error:    req.Error,
		}, fmt.Errorf("%w: provider error %s", domain.ErrInvalidToken, req.Error)
	}
	if req.IDToken == "" {
		return domain.AuthCookieData{}, domain.ErrInvalidToken
	}

	token, err := s.verifier.VerifyIDToken(ctx, req.IDToken)
	if err != nil {
		s.logger.Info("sso token verification failed", zap.Error(err))
		return domain.AuthCookieData{}, fmt.Errorf("%w: %v", domain.ErrInvalidToken, err)
	}

	tokenData := tokenDataFromFirebase(token)

	tenantID := req.TenantID
	if tenantID == "" {
		tenantID, _ = token.Claims["tenant_id"].(string)
	}

	data := domain.AuthCookieData{
		AccessToken: req.IDToken,
		TenantID:    tenantID,
		TokenData:   tokenData,
		State:       ulid.Make().String(),
		Event:       domain.EventSignIn,
	}

	s.logger.Info("sso sign-in completed",
		zap.String("sub", tokenData.Sub),
		zap.String("tenant_id", tenantID),
		zap.String("session", data.State))

	return data, nil
}

// tokenDataFromFirebase maps a verified Firebase token onto the display claims
func tokenDataFromFirebase(token *auth.Token) *domain.TokenData {
	claim := func(key string) string {
		v, _ := token.Claims[key].(string)
		return v
	}

	sub := token.Subject
	if sub == "" {
		sub = token.UID
	}

	td := &domain.TokenData{
		Sub:        sub,
		Name:       claim("name"),
		GivenName:  claim("given_name"),
		FamilyName: claim("family_name"),
		Email:      claim("email"),
		Picture:    claim("picture"),
		Iss:        token.Issuer,
		Exp:        token.Expires,
		Iat:        token.IssuedAt,
		Jti:        claim("jti"),
	}
	if token.Audience != "" {
		td.Aud = []string{token.Audience}
	}
	return td
}
