package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Sentinel errors distinguishing expiry from every other verification failure.
var (
	ErrTokenExpired = errors.New("security: token expired")
	ErrTokenInvalid = errors.New("security: token invalid")
)

const tokenAudience = "user"

// TokenClaims carries the identifiers embedded in access and refresh tokens.
// Refresh tokens omit the user id; the session record resolves it.
type TokenClaims struct {
	UserID    string `json:"userId,omitempty"`
	SessionID string `json:"sessionId"`
	jwt.RegisteredClaims
}

// TokenCodec signs and verifies HS256 tokens using separate access and
// refresh secrets.
type TokenCodec struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

// NewTokenCodec constructs a codec from the provided secrets and lifetimes.
func NewTokenCodec(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) (*TokenCodec, error) {
	if accessSecret == "" || refreshSecret == "" {
		return nil, fmt.Errorf("token secrets are required")
	}
	if accessTTL <= 0 || refreshTTL <= 0 {
		return nil, fmt.Errorf("token lifetimes must be positive")
	}

	return &TokenCodec{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}, nil
}

// AccessTTL returns the configured access token lifetime.
func (c *TokenCodec) AccessTTL() time.Duration { return c.accessTTL }

// RefreshTTL returns the configured refresh token lifetime.
func (c *TokenCodec) RefreshTTL() time.Duration { return c.refreshTTL }

// SignAccess issues an access token bound to a user and session.
func (c *TokenCodec) SignAccess(userID, sessionID string, now time.Time) (string, error) {
	claims := TokenClaims{
		UserID:    userID,
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			Audience:  jwt.ClaimStrings{tokenAudience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.accessTTL)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.accessSecret)
	if err != nil {
		return "", fmt.Errorf("sign access token: %w", err)
	}
	return signed, nil
}

// SignRefresh issues a refresh token bound to a session only.
func (c *TokenCodec) SignRefresh(sessionID string, now time.Time) (string, error) {
	claims := TokenClaims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			Audience:  jwt.ClaimStrings{tokenAudience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.refreshTTL)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.refreshSecret)
	if err != nil {
		return "", fmt.Errorf("sign refresh token: %w", err)
	}
	return signed, nil
}

// VerifyAccess parses and validates an access token.
func (c *TokenCodec) VerifyAccess(token string) (*TokenClaims, error) {
	return c.verify(token, c.accessSecret)
}

// VerifyRefresh parses and validates a refresh token.
func (c *TokenCodec) VerifyRefresh(token string) (*TokenClaims, error) {
	return c.verify(token, c.refreshSecret)
}

func (c *TokenCodec) verify(token string, secret []byte) (*TokenClaims, error) {
	claims := &TokenClaims{}

	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return secret, nil
	}, jwt.WithAudience(tokenAudience))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	if !parsed.Valid || claims.SessionID == "" {
		return nil, ErrTokenInvalid
	}

	return claims, nil
}
