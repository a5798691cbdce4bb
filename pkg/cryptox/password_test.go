package cryptox

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// cheap parameters so the suite stays fast
var testParams = Argon2Params{Memory: 64, Iterations: 1, Parallelism: 1}

func TestHash_PHCFormat(t *testing.T) {
	h := NewPasswordHasher("pepper", Argon2Params{})

	hash, err := h.Hash("s3cr3t")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(hash, "$argon2id$v=19$m=19456,t=2,p=1$"), hash)

	parts := strings.Split(hash, "$")
	require.Len(t, parts, 6)
	require.NotEmpty(t, parts[4], "salt")
	require.NotEmpty(t, parts[5], "hash")
	require.NotContains(t, hash, "s3cr3t")
}

func TestHash_UniqueSalts(t *testing.T) {
	h := NewPasswordHasher("pepper", testParams)

	a, err := h.Hash("same")
	require.NoError(t, err)
	b, err := h.Hash("same")
	require.NoError(t, err)

	require.NotEqual(t, a, b)
	require.NoError(t, h.Verify("same", a))
	require.NoError(t, h.Verify("same", b))
}

func TestVerify(t *testing.T) {
	h := NewPasswordHasher("pepper", testParams)
	hash, err := h.Hash("correct-password")
	require.NoError(t, err)

	tests := []struct {
		name  string
		plain string
		want  error
	}{
		{"match", "correct-password", nil},
		{"case difference", "Correct-Password", ErrPasswordMismatch},
		{"trailing space", "correct-password ", ErrPasswordMismatch},
		{"empty", "", ErrPasswordMismatch},
		{"very long", strings.Repeat("x", 4096), ErrPasswordMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := h.Verify(tt.plain, hash)
			if tt.want == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestVerify_PepperMatters(t *testing.T) {
	hash, err := NewPasswordHasher("pepper-a", testParams).Hash("pw")
	require.NoError(t, err)

	err = NewPasswordHasher("pepper-b", testParams).Verify("pw", hash)
	require.ErrorIs(t, err, ErrPasswordMismatch)
}

func TestVerify_CostParametersComeFromHash(t *testing.T) {
	old := NewPasswordHasher("pepper", testParams)
	hash, err := old.Hash("pw")
	require.NoError(t, err)

	current := NewPasswordHasher("pepper", Argon2Params{})
	require.NoError(t, current.Verify("pw", hash))
	require.True(t, current.NeedsRehash(hash))
	require.False(t, old.NeedsRehash(hash))
}

func TestVerify_LegacyBcrypt(t *testing.T) {
	h := NewPasswordHasher("pepper", testParams)

	legacy, err := bcrypt.GenerateFromPassword([]byte("legacy-secret"), bcrypt.MinCost)
	require.NoError(t, err)

	require.True(t, IsBcryptHash(string(legacy)))
	require.NoError(t, h.Verify("legacy-secret", string(legacy)))
	require.ErrorIs(t, h.Verify("other", string(legacy)), ErrPasswordMismatch)
	require.True(t, h.NeedsRehash(string(legacy)))
}

func TestVerify_InvalidFormats(t *testing.T) {
	h := NewPasswordHasher("pepper", testParams)

	for name, encoded := range map[string]string{
		"empty":           "",
		"plaintext":       "s3cr3t",
		"wrong algorithm": "$scrypt$v=19$m=19456,t=2,p=1$c2FsdA$aGFzaA",
		"missing parts":   "$argon2id$v=19$m=19456",
		"bad parameters":  "$argon2id$v=19$invalid$c2FsdA$aGFzaA",
		"bad salt":        "$argon2id$v=19$m=19456,t=2,p=1$!!!$aGFzaA",
		"bad hash":        "$argon2id$v=19$m=19456,t=2,p=1$c2FsdA$!!!",
		"wrong version":   "$argon2id$v=18$m=19456,t=2,p=1$c2FsdA$aGFzaA",
	} {
		t.Run(name, func(t *testing.T) {
			require.ErrorIs(t, h.Verify("s3cr3t", encoded), ErrUnsupportedHash)
		})
	}
}
