package jwtx

import (
	"crypto"
	"fmt"
	"math/rand/v2"

	"github.com/aussiebroadwan/uaa/pkg/cryptox"
)

// KeyManagerOptions configures NewKeyManager.
type KeyManagerOptions struct {
	// Algorithm is one of RS256, ES256 or EdDSA. Ignored for keys passed in
	// Keys, whose type decides the algorithm.
	Algorithm string

	Issuer   string
	Audience []string

	// RSABits defaults to 3072.
	RSABits int

	// NumKeys ephemeral keys are generated when Keys is empty. Clamped to
	// 1..10, default 2.
	NumKeys int

	// Keys are long lived signing keys loaded by the caller, keyed by kid.
	Keys map[string]crypto.Signer
}

// KeyManager owns the signing keys of this instance and the KeySet that
// publishes their public halves.
type KeyManager struct {
	signers  []*Signer
	keys     *KeySet
	verifier *Verifier
}

// NewKeyManager builds signers from opts.Keys, or generates in memory keys
// that die with the process when none are given.
func NewKeyManager(opts KeyManagerOptions) (*KeyManager, error) {
	if opts.Issuer == "" {
		return nil, fmt.Errorf("jwtx: issuer is required")
	}

	var signers []*Signer
	if len(opts.Keys) > 0 {
		for kid, key := range opts.Keys {
			s, err := NewSigner(kid, key)
			if err != nil {
				return nil, err
			}
			signers = append(signers, s)
		}
	} else {
		n := min(max(opts.NumKeys, 1), 10)
		if opts.NumKeys == 0 {
			n = 2
		}
		for range n {
			key, err := GenerateKey(opts.Algorithm, opts.RSABits)
			if err != nil {
				return nil, err
			}
			kid, err := cryptox.GenerateToken(cryptox.TokenSize128)
			if err != nil {
				return nil, err
			}
			s, err := NewSigner("uaa-"+kid, key)
			if err != nil {
				return nil, err
			}
			signers = append(signers, s)
		}
	}

	keys := NewKeySet()
	for _, s := range signers {
		j, err := s.PublicJWK()
		if err != nil {
			return nil, err
		}
		if err := keys.Add(j); err != nil {
			return nil, err
		}
	}

	return &KeyManager{
		signers: signers,
		keys:    keys,
		verifier: NewVerifier(keys, VerifyOptions{
			Issuer:   opts.Issuer,
			Audience: opts.Audience,
		}),
	}, nil
}

// GenerateKey creates a private key suitable for alg.
func GenerateKey(alg string, rsaBits int) (crypto.Signer, error) {
	switch alg {
	case AlgorithmRS256:
		if rsaBits == 0 {
			rsaBits = 3072
		}
		return cryptox.GenerateRSAKey(rsaBits)
	case AlgorithmES256:
		return cryptox.GenerateP256Key()
	case AlgorithmEdDSA, "":
		return cryptox.GenerateEd25519Key()
	default:
		return nil, fmt.Errorf("jwtx: unsupported algorithm %q", alg)
	}
}

// Signer returns one of the active signers. Spreading signatures across keys
// keeps any single key from carrying every token.
func (km *KeyManager) Signer() *Signer {
	if len(km.signers) == 1 {
		return km.signers[0]
	}
	return km.signers[rand.IntN(len(km.signers))] // #nosec G404
}

func (km *KeyManager) Verifier() *Verifier { return km.verifier }
func (km *KeyManager) KeySet() *KeySet     { return km.keys }

// IsReady reports whether at least one verification key is loaded.
func (km *KeyManager) IsReady() bool { return km.keys.Len() > 0 }
