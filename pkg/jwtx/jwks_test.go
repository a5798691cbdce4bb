package jwtx_test

import (
	"crypto"
	"encoding/json"
	"testing"

	"github.com/aussiebroadwan/uaa/pkg/cryptox"
	"github.com/aussiebroadwan/uaa/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

type equaler interface {
	Equal(crypto.PublicKey) bool
}

func TestJWK_RoundTrip(t *testing.T) {
	rsaKey, err := cryptox.GenerateRSAKey(2048)
	require.NoError(t, err)
	ecKey, err := cryptox.GenerateP256Key()
	require.NoError(t, err)
	edKey, err := cryptox.GenerateEd25519Key()
	require.NoError(t, err)

	cases := map[string]crypto.Signer{"RSA": rsaKey, "EC": ecKey, "OKP": edKey}
	for kty, key := range cases {
		t.Run(kty, func(t *testing.T) {
			j, err := jwtx.NewJWK("kid-1", "alg", key.Public())
			require.NoError(t, err)
			require.Equal(t, kty, j.Kty)
			require.Equal(t, "sig", j.Use)

			raw, err := json.Marshal(j)
			require.NoError(t, err)
			var back jwtx.JWK
			require.NoError(t, json.Unmarshal(raw, &back))

			pub, err := back.PublicKey()
			require.NoError(t, err)
			require.True(t, pub.(equaler).Equal(key.Public()))
		})
	}
}

func TestJWK_Unsupported(t *testing.T) {
	_, err := jwtx.JWK{Kty: "oct"}.PublicKey()
	require.Error(t, err)

	_, err = jwtx.JWK{Kty: "EC", Crv: "P-384"}.PublicKey()
	require.Error(t, err)
}

func TestKeySet_AddReplacesSameKid(t *testing.T) {
	a, err := cryptox.GenerateEd25519Key()
	require.NoError(t, err)
	b, err := cryptox.GenerateEd25519Key()
	require.NoError(t, err)

	ks := jwtx.NewKeySet()
	ja, err := jwtx.NewJWK("k", jwtx.AlgorithmEdDSA, a.Public())
	require.NoError(t, err)
	jb, err := jwtx.NewJWK("k", jwtx.AlgorithmEdDSA, b.Public())
	require.NoError(t, err)

	require.NoError(t, ks.Add(ja))
	require.NoError(t, ks.Add(jb))
	require.Equal(t, 1, ks.Len())
	require.Equal(t, jb, ks.JWKS().Keys[0])

	_, err = ks.Get("missing")
	require.ErrorIs(t, err, jwtx.ErrNoKey)
}
