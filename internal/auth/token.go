package auth

import (
	"errors"
	"fmt"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/farekit/transit-service/internal/config"
	"github.com/farekit/transit-service/internal/domain"
)

// ErrInvalidToken covers every verification failure: bad signature, wrong
// issuer or audience, malformed structure, expiry. Callers are not told which.
var ErrInvalidToken = errors.New("invalid token")

const signingKeyMinBytes = 32

// Codec issues and verifies the platform's bearer tokens. Immutable after
// construction; Issue and Parse are safe for concurrent use.
type Codec struct {
	key      []byte
	issuer   string
	audience string
	ttl      time.Duration
	now      func() time.Time
}

// NewCodec builds a codec from configuration. The key must be at least 256
// bits; a short or missing key is a construction error, not a runtime one.
func NewCodec(cfg config.AuthConfig) (*Codec, error) {
	if len(cfg.SigningKey) < signingKeyMinBytes {
		return nil, fmt.Errorf("signing key must be >= %d bytes, got %d", signingKeyMinBytes, len(cfg.SigningKey))
	}
	return &Codec{
		key:      cfg.SigningKey,
		issuer:   cfg.Issuer,
		audience: cfg.Audience,
		ttl:      cfg.AccessTokenTTL(),
		now:      time.Now,
	}, nil
}

// Claims is the token payload. Role is stored canonical (ROLE_*).
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// NormalizedRole canonicalizes the role claim once more on read, so tokens
// minted by older revisions with raw roles still extract uniformly.
func (c *Claims) NormalizedRole() domain.Role {
	return domain.NormalizeRole(c.Role)
}

// Issue signs a token for the subject. The role is canonicalized before it is
// embedded; each token carries a fresh jti.
func (tc *Codec) Issue(subject, role string) (string, time.Time, error) {
	now := tc.now()
	expiresAt := now.Add(tc.ttl)
	claims := &Claims{
		Role: string(domain.NormalizeRole(role)),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    tc.issuer,
			Audience:  jwt.ClaimStrings{tc.audience},
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(tc.key)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// Parse verifies signature, issuer, audience and expiry. Any failure maps to
// ErrInvalidToken; there is no partial-trust outcome.
func (tc *Codec) Parse(tokenStr string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return tc.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tc.issuer),
		jwt.WithAudience(tc.audience),
		jwt.WithTimeFunc(tc.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
