package jwt

import (
	"crypto/rsa"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// rsaSigner signs tokens with an RSA private key (RS256).
type rsaSigner struct {
	privateKey *rsa.PrivateKey
}

func (s *rsaSigner) Sign(claims jwt.Claims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(s.privateKey)
}

// NewAsymmetric builds a Manager around an RSA key pair. The private key
// signs; only the public key is needed to verify, which lets other services
// check operator tokens without holding signing material.
func NewAsymmetric(privateKey *rsa.PrivateKey, publicKey *rsa.PublicKey, issuer string) (*Manager, error) {
	if privateKey == nil {
		return nil, fmt.Errorf("private key is required")
	}
	if publicKey == nil {
		return nil, fmt.Errorf("public key is required")
	}

	keyFunc := func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return publicKey, nil
	}

	return &Manager{
		signer:  &rsaSigner{privateKey: privateKey},
		issuer:  issuer,
		keyFunc: keyFunc,
	}, nil
}
