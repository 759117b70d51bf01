package cryptox

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	// Set up a temporary pepper file for testing
	pepperPath := filepath.Join(os.TempDir(), "identity-test-pepper")
	SetPepperPath(pepperPath)

	os.Remove(pepperPath)
	defer os.Remove(pepperPath)

	os.Exit(m.Run())
}

func TestHashSecret(t *testing.T) {
	tests := []struct {
		name   string
		secret string
	}{
		{"simple password", "password123"},
		{"complex password", "P@ssw0rd!#$%^&*()"},
		{"long password", strings.Repeat("a", 100)},
		{"empty secret", ""},
		{"short numeric code", "00042"},
		{"whitespace password", "   spaces   "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := HashSecret(tt.secret)
			require.NoError(t, err)
			require.NotEmpty(t, hash)

			require.True(t, strings.HasPrefix(hash, "$argon2id$v=19$"),
				"hash should be in PHC format")

			parts := strings.Split(hash, "$")
			require.Len(t, parts, 6, "PHC hash should have 6 parts")
			require.Equal(t, "argon2id", parts[1])
			require.Equal(t, "v=19", parts[2])
			require.Contains(t, parts[3], "m=", "should contain memory parameter")
			require.NotEmpty(t, parts[4], "salt should not be empty")
			require.NotEmpty(t, parts[5], "hash should not be empty")
		})
	}
}

func TestHashSecret_UniqueSalts(t *testing.T) {
	secret := "samepassword"

	hash1, err := HashSecret(secret)
	require.NoError(t, err)

	hash2, err := HashSecret(secret)
	require.NoError(t, err)

	require.NotEqual(t, hash1, hash2, "hashes should differ due to unique salts")

	// But both should verify the same secret
	require.NoError(t, VerifySecret(secret, hash1))
	require.NoError(t, VerifySecret(secret, hash2))
}

func TestVerifySecret_Success(t *testing.T) {
	tests := []struct {
		name   string
		secret string
	}{
		{"simple password", "password123"},
		{"numeric code with leading zeros", "00917"},
		{"long password", strings.Repeat("a", 100)},
		{"empty secret", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := HashSecret(tt.secret)
			require.NoError(t, err)

			require.NoError(t, VerifySecret(tt.secret, hash))
		})
	}
}

func TestVerifySecret_WrongSecret(t *testing.T) {
	hash, err := HashSecret("correct-password")
	require.NoError(t, err)

	tests := []struct {
		name  string
		wrong string
	}{
		{"completely wrong", "wrong-password"},
		{"case difference", "Correct-Password"},
		{"extra space", "correct-password "},
		{"empty secret", ""},
		{"truncated", "correct-passwor"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := VerifySecret(tt.wrong, hash)
			require.ErrorIs(t, err, ErrMismatch)
		})
	}
}

func TestVerifySecret_CodesAreExactStrings(t *testing.T) {
	// "00042" and "42" are numerically equal but must not verify as the
	// same code.
	hash, err := HashSecret("00042")
	require.NoError(t, err)

	require.NoError(t, VerifySecret("00042", hash))
	require.ErrorIs(t, VerifySecret("42", hash), ErrMismatch)
}

func TestVerifySecret_InvalidHashFormat(t *testing.T) {
	secret := "test-password"

	tests := []struct {
		name        string
		invalidHash string
	}{
		{"empty hash", ""},
		{"wrong algorithm", "$bcrypt$v=19$m=19456,t=2,p=1$c2FsdA$aGFzaA"},
		{"missing parts", "$argon2id$v=19$m=19456"},
		{"malformed parameters", "$argon2id$v=19$invalid$c2FsdA$aGFzaA"},
		{"invalid base64 salt", "$argon2id$v=19$m=19456,t=2,p=1$!!!invalid!!!$aGFzaA"},
		{"invalid base64 hash", "$argon2id$v=19$m=19456,t=2,p=1$c2FsdA$!!!invalid!!!"},
		{"wrong version", "$argon2id$v=18$m=19456,t=2,p=1$c2FsdA$aGFzaA"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Must return an error, never panic.
			err := VerifySecret(secret, tt.invalidHash)
			require.Error(t, err)
		})
	}
}
