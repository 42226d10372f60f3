package service

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/mansoorceksport/tenantpanel/internal/domain"
	"go.uber.org/zap"
)

// SessionService signs and reads the authentication data cookie
type SessionService struct {
	secret []byte
	ttl    time.Duration
	logger *zap.Logger
	now    func() time.Time
}

// NewSessionService creates a new session service
func NewSessionService(secret string, ttl time.Duration, logger *zap.Logger) *SessionService {
	return &SessionService{
		secret: []byte(secret),
		ttl:    ttl,
		logger: logger,
		now:    time.Now,
	}
}

// TTL returns how long an issued cookie stays valid
func (s *SessionService) TTL() time.Duration {
	return s.ttl
}

// Encode signs data into a cookie value
func (s *SessionService) Encode(data domain.AuthCookieData) (string, error) {
	now := s.now()
	claims := domain.SessionClaims{
		Data: data,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session: %w", err)
	}
	return signed, nil
}

// Decode verifies a cookie value and returns its payload
func (s *SessionService) Decode(value string) (domain.AuthCookieData, error) {
	claims := &domain.SessionClaims{}
	token, err := jwt.ParseWithClaims(value, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return domain.AuthCookieData{}, fmt.Errorf("%w: %v", domain.ErrInvalidSession, err)
	}
	if !token.Valid {
		return domain.AuthCookieData{}, domain.ErrInvalidSession
	}
	return claims.Data, nil
}

// Read returns the cookie's payload, or an empty record when the cookie is absent or
// unreadable. Missing token data is filled in from the access token when it is a JWT.
func (s *SessionService) Read(value string) domain.AuthCookieData {
	if value == "" {
		return domain.AuthCookieData{}
	}

	data, err := s.Decode(value)
	if err != nil {
		s.logger.Warn("discarding unreadable session cookie", zap.Error(err))
		return domain.AuthCookieData{}
	}

	if data.TokenData == nil && data.AccessToken != "" {
		data.TokenData = DecodeTokenData(data.AccessToken)
	}
	return data
}

// DecodeTokenData reads the claims of a JWT without verifying its signature.
// The result is for display only. Returns nil when token is not a JWT.
func DecodeTokenData(token string) *domain.TokenData {
	claims := &domain.IdentityClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil
	}
	return claims.TokenData()
}
