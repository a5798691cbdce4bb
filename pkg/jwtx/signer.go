package jwtx

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/rsa"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Supported signing algorithms.
const (
	AlgorithmRS256 = "RS256"
	AlgorithmES256 = "ES256"
	AlgorithmEdDSA = "EdDSA"
)

// Signer signs tokens with a single private key identified by kid.
type Signer struct {
	kid    string
	method jwt.SigningMethod
	key    crypto.Signer
}

// NewSigner picks the JWS algorithm from the key type: RSA keys sign RS256,
// P-256 keys ES256 and Ed25519 keys EdDSA.
func NewSigner(kid string, key crypto.Signer) (*Signer, error) {
	if kid == "" {
		return nil, errors.New("jwtx: signer kid is required")
	}

	var method jwt.SigningMethod
	switch k := key.(type) {
	case *rsa.PrivateKey:
		method = jwt.SigningMethodRS256
	case *ecdsa.PrivateKey:
		if k.Curve != elliptic.P256() {
			return nil, fmt.Errorf("jwtx: unsupported EC curve %s", k.Curve.Params().Name)
		}
		method = jwt.SigningMethodES256
	case ed25519.PrivateKey:
		method = jwt.SigningMethodEdDSA
	default:
		return nil, fmt.Errorf("jwtx: unsupported signing key %T", key)
	}

	return &Signer{kid: kid, method: method, key: key}, nil
}

func (s *Signer) KID() string { return s.kid }
func (s *Signer) Alg() string { return s.method.Alg() }

// Sign serializes claims and signs them, stamping kid into the header.
func (s *Signer) Sign(claims jwt.Claims) (string, error) {
	t := jwt.NewWithClaims(s.method, claims)
	t.Header["kid"] = s.kid
	signed, err := t.SignedString(s.key)
	if err != nil {
		return "", fmt.Errorf("jwtx: sign: %w", err)
	}
	return signed, nil
}

// PublicJWK is the verification key to publish in the JWKS.
func (s *Signer) PublicJWK() (JWK, error) {
	return NewJWK(s.kid, s.Alg(), s.key.Public())
}
