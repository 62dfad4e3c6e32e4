package auth

import (
	"errors"
	"fmt"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/spec-kit/blog-service/internal/domain"
)

// TokenKind distinguishes short-lived access tokens from refresh tokens.
type TokenKind string

const (
	TokenAccess  TokenKind = "access"
	TokenRefresh TokenKind = "refresh"
)

// Valid reports whether k is one of the two known kinds.
func (k TokenKind) Valid() bool {
	return k == TokenAccess || k == TokenRefresh
}

const (
	DefaultAccessTTL  = 300 * time.Second
	DefaultRefreshTTL = 3600 * time.Second
)

// Identity is the claim embedded in every token.
type Identity struct {
	SubjectID int64
	Email     string
}

// IdentityOf extracts the token claim from a persisted user.
func IdentityOf(user *domain.User) Identity {
	return Identity{SubjectID: user.ID, Email: user.Email}
}

// Claims describes JWT payload.
type Claims struct {
	Email     string    `json:"email"`
	SubjectID int64     `json:"sub"`
	Type      TokenKind `json:"type"`
	jwt.RegisteredClaims
}

// Identity returns the identity carried by the claims.
func (c *Claims) Identity() Identity {
	return Identity{SubjectID: c.SubjectID, Email: c.Email}
}

// TokenPair is returned after login and registration.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// TokenManager handles issuing and validating JWT tokens.
type TokenManager struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// TokenOption customizes a TokenManager.
type TokenOption func(*TokenManager)

// WithClock replaces the wall clock used for iat/exp.
func WithClock(now func() time.Time) TokenOption {
	return func(tm *TokenManager) {
		tm.now = now
	}
}

// NewTokenManager builds a new manager. Non-positive TTLs fall back to defaults.
func NewTokenManager(secret string, accessTTL, refreshTTL time.Duration, opts ...TokenOption) *TokenManager {
	if accessTTL <= 0 {
		accessTTL = DefaultAccessTTL
	}
	if refreshTTL <= 0 {
		refreshTTL = DefaultRefreshTTL
	}
	tm := &TokenManager{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(tm)
	}
	return tm
}

// TTL returns the lifetime of tokens of the given kind.
func (tm *TokenManager) TTL(kind TokenKind) time.Duration {
	if kind == TokenRefresh {
		return tm.refreshTTL
	}
	return tm.accessTTL
}

// Sign builds and signs a JWT of the given kind for id.
func (tm *TokenManager) Sign(id Identity, kind TokenKind) (string, error) {
	if !kind.Valid() {
		return "", fmt.Errorf("sign: unknown token kind %q", kind)
	}

	issuedAt := tm.now()
	claims := &Claims{
		Email:     id.Email,
		SubjectID: id.SubjectID,
		Type:      kind,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(tm.TTL(kind))),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(tm.secret)
}

// IssuePair signs an access and a refresh token for id.
func (tm *TokenManager) IssuePair(id Identity) (TokenPair, error) {
	access, err := tm.Sign(id, TokenAccess)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := tm.Sign(id, TokenRefresh)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// Verify validates signature and expiry and returns the claims.
func (tm *TokenManager) Verify(tokenStr string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return tm.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(tm.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || !claims.Type.Valid() {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Rotate exchanges a refresh token for a new access or refresh token.
// Access tokens never renew themselves.
func (tm *TokenManager) Rotate(tokenStr string, wantRefresh bool) (string, error) {
	claims, err := tm.Verify(tokenStr)
	if err != nil {
		return "", err
	}
	if claims.Type != TokenRefresh {
		return "", ErrWrongTokenKind
	}

	kind := TokenAccess
	if wantRefresh {
		kind = TokenRefresh
	}
	return tm.Sign(claims.Identity(), kind)
}
