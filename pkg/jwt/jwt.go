package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Parse failures map onto these sentinels so callers never import the
// underlying jwt library to classify an error.
var (
	ErrTokenMalformed        = errors.New("token is malformed")
	ErrTokenExpired          = errors.New("token is expired")
	ErrTokenNotValidYet      = errors.New("token is not yet valid")
	ErrTokenInvalid          = errors.New("token is invalid")
	ErrTokenSignatureInvalid = errors.New("token signature is invalid")
)

// Manager generates and verifies bearer tokens for staff operators. The
// signing scheme is fixed at construction; see NewSymmetric and
// NewAsymmetric.
type Manager struct {
	signer  Signer
	issuer  string
	keyFunc jwt.Keyfunc
}

// Claims carries the registered claims plus an opaque payload map. The
// auth middleware reads the operator identity out of the payload.
type Claims struct {
	jwt.RegisteredClaims
	Payload map[string]interface{} `json:"payload"`
}

// Signer produces a signed compact token from a claims set.
type Signer interface {
	Sign(claims jwt.Claims) (string, error)
}

// Option mutates the claims before signing.
type Option func(*Claims)

// WithExpiresAt sets the token expiration time.
func WithExpiresAt(t time.Time) Option {
	return func(c *Claims) {
		c.ExpiresAt = jwt.NewNumericDate(t)
	}
}

// WithNotBefore sets the earliest time the token is accepted.
func WithNotBefore(t time.Time) Option {
	return func(c *Claims) {
		c.NotBefore = jwt.NewNumericDate(t)
	}
}

// Generate signs a token carrying the given payload.
func (m *Manager) Generate(payload map[string]interface{}, opts ...Option) (string, error) {
	now := time.Now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:   m.issuer,
			IssuedAt: jwt.NewNumericDate(now),
		},
		Payload: payload,
	}
	for _, opt := range opts {
		opt(claims)
	}
	return m.signer.Sign(claims)
}

// Parse verifies the token and returns its payload.
func (m *Manager) Parse(tokenString string) (map[string]interface{}, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, m.keyFunc)
	if err != nil {
		return nil, translateParseError(err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}
	return claims.Payload, nil
}

func translateParseError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return ErrTokenMalformed
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenNotValidYet):
		return ErrTokenNotValidYet
	case errors.Is(err, jwt.ErrSignatureInvalid):
		return ErrTokenSignatureInvalid
	default:
		return fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}
}
