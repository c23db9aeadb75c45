package jwt

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// hmacSigner signs tokens with a shared secret (HS256).
type hmacSigner struct {
	secret []byte
}

func (s *hmacSigner) Sign(claims jwt.Claims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// NewSymmetric builds a Manager around a shared HS256 secret. Verification
// rejects tokens signed with any non-HMAC method, so an attacker cannot
// downgrade the algorithm.
func NewSymmetric(secret []byte, issuer string) (*Manager, error) {
	if len(secret) == 0 {
		return nil, fmt.Errorf("jwt secret is required")
	}

	keyFunc := func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	}

	return &Manager{
		signer:  &hmacSigner{secret: secret},
		issuer:  issuer,
		keyFunc: keyFunc,
	}, nil
}
