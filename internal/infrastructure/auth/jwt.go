// Package auth verifies the bearer tokens that bind checkout API callers to a
// tenant. Tokens are minted by the identity service; Issue exists for tooling
// and tests.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/erp/checkout/internal/infrastructure/config"
)

var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
	ErrTokenNotYetValid = errors.New("token is not yet valid")
	ErrMissingTenantID  = errors.New("missing tenant_id in claims")
)

// Claims are the claims a checkout caller's token must carry
type Claims struct {
	jwt.RegisteredClaims
	TenantID string `json:"tenant_id"`
	UserID   string `json:"user_id,omitempty"`
}

// Verifier validates HS256 tokens signed with the shared secret
type Verifier struct {
	secret []byte
	issuer string
	now    func() time.Time
}

// NewVerifier creates a verifier from the jwt config section
func NewVerifier(cfg config.JWTConfig) *Verifier {
	return &Verifier{secret: []byte(cfg.Secret), issuer: cfg.Issuer, now: time.Now}
}

// Verify parses token and returns its claims. The issuer is checked when one
// is configured.
func (v *Verifier) Verify(token string) (*Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(v.now),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return v.secret, nil
	}, opts...)
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, ErrExpiredToken
	case errors.Is(err, jwt.ErrTokenNotValidYet):
		return nil, ErrTokenNotYetValid
	case err != nil:
		return nil, ErrInvalidToken
	}
	if claims.TenantID == "" {
		return nil, ErrMissingTenantID
	}
	return claims, nil
}

// Issue signs a token for tenantID valid for ttl
func (v *Verifier) Issue(tenantID, userID string, ttl time.Duration) (string, error) {
	now := v.now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    v.issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		TenantID: tenantID,
		UserID:   userID,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
}
