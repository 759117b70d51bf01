package jwtx

import (
	"strings"
	"testing"
	"time"

	"github.com/crewlink/identity/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

const testIssuer = "identity-test"

func newTestSigner(t *testing.T, kid string) *EdDSASigner {
	t.Helper()

	pemKey, err := cryptox.GenerateEd25519Key()
	require.NoError(t, err)

	signer, err := NewSignerEdDSA(kid, pemKey)
	require.NoError(t, err)
	require.NoError(t, signer.Validate())

	return signer
}

func newTestVerifier(signer Signer) *EdDSAVerifier {
	keys := NewKeySet()
	keys.AddSigner(signer)
	return NewVerifierEdDSA(keys, testIssuer)
}

func TestSignVerifyRoundtrip(t *testing.T) {
	signer := newTestSigner(t, "k1")
	verifier := newTestVerifier(signer)

	claims := NewSessionClaims("a@x.com", testIssuer, DefaultSessionTTL, time.Now().UTC())
	token, err := signer.Sign(claims)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	got, err := verifier.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "a@x.com", got.Subject)
	require.Equal(t, testIssuer, got.Issuer)
	require.NotEmpty(t, got.ID, "jti should be set")
}

func TestVerifyExpiredToken(t *testing.T) {
	signer := newTestSigner(t, "k1")
	verifier := newTestVerifier(signer)

	// Issue a token whose whole validity window already lies in the past.
	issued := time.Now().UTC().Add(-2 * time.Hour)
	claims := NewSessionClaims("a@x.com", testIssuer, time.Hour, issued)

	token, err := signer.Sign(claims)
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	require.ErrorIs(t, err, ErrExpired)
}

func TestVerifyTamperedToken(t *testing.T) {
	signer := newTestSigner(t, "k1")
	verifier := newTestVerifier(signer)

	claims := NewSessionClaims("a@x.com", testIssuer, DefaultSessionTTL, time.Now().UTC())
	token, err := signer.Sign(claims)
	require.NoError(t, err)

	// Flip a byte in the payload segment; the signature no longer matches.
	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)

	payload := []byte(parts[1])
	if payload[0] == 'A' {
		payload[0] = 'B'
	} else {
		payload[0] = 'A'
	}
	tampered := parts[0] + "." + string(payload) + "." + parts[2]

	_, err = verifier.Verify(tampered)
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrExpired, "tampering must never surface as expiry")
}

func TestVerifyGarbageToken(t *testing.T) {
	signer := newTestSigner(t, "k1")
	verifier := newTestVerifier(signer)

	for _, bad := range []string{"", "not-a-jwt", "a.b.c"} {
		_, err := verifier.Verify(bad)
		require.Error(t, err)
		require.NotErrorIs(t, err, ErrExpired)
	}
}

func TestVerifyUnknownKid(t *testing.T) {
	signer := newTestSigner(t, "k1")
	other := newTestSigner(t, "k2")

	// Verifier only knows k2.
	verifier := newTestVerifier(other)

	claims := NewSessionClaims("a@x.com", testIssuer, DefaultSessionTTL, time.Now().UTC())
	token, err := signer.Sign(claims)
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	require.Error(t, err)
}

func TestVerifyIssuerMismatch(t *testing.T) {
	signer := newTestSigner(t, "k1")
	verifier := newTestVerifier(signer)

	claims := NewSessionClaims("a@x.com", "someone-else", DefaultSessionTTL, time.Now().UTC())
	token, err := signer.Sign(claims)
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	require.ErrorIs(t, err, ErrIssuer)
}

func TestKeySet(t *testing.T) {
	keys := NewKeySet()
	require.False(t, keys.IsReady())

	signer := newTestSigner(t, "k1")
	keys.AddSigner(signer)
	require.True(t, keys.IsReady())

	pub, err := keys.Get("k1")
	require.NoError(t, err)
	require.Equal(t, signer.Public(), pub)

	_, err = keys.Get("missing")
	require.ErrorIs(t, err, ErrNoKey)
}
