package cryptox

import (
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPrivateKeyPEMRoundTrip(t *testing.T) {
	rsaKey, err := GenerateRSAKey(MinRSABits)
	require.NoError(t, err)
	ecKey, err := GenerateP256Key()
	require.NoError(t, err)
	edKey, err := GenerateEd25519Key()
	require.NoError(t, err)

	for _, key := range []any{rsaKey, ecKey, edKey} {
		var pemBytes []byte
		switch k := key.(type) {
		case *rsa.PrivateKey:
			pemBytes, err = EncodePrivateKeyPEM(k)
		case *ecdsa.PrivateKey:
			pemBytes, err = EncodePrivateKeyPEM(k)
		case ed25519.PrivateKey:
			pemBytes, err = EncodePrivateKeyPEM(k)
		}
		require.NoError(t, err)

		parsed, err := ParsePrivateKeyPEM(pemBytes)
		require.NoError(t, err)
		require.IsType(t, key, parsed)
	}
}

func TestParsePrivateKeyPEM_PKCS1(t *testing.T) {
	key, err := GenerateRSAKey(MinRSABits)
	require.NoError(t, err)

	legacy := pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key)})
	parsed, err := ParsePrivateKeyPEM(legacy)
	require.NoError(t, err)
	require.True(t, key.Equal(parsed))
}

func TestKeyErrors(t *testing.T) {
	_, err := GenerateRSAKey(1024)
	require.Error(t, err)

	_, err = ParsePrivateKeyPEM([]byte("garbage"))
	require.Error(t, err)

	_, err = ParsePrivateKeyPEM(pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: []byte{1}}))
	require.Error(t, err)
}
