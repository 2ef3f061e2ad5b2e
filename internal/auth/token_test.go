package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fjod/go_catalog/internal/domain"
)

func TestVerify_RoundTrip(t *testing.T) {
	v := NewVerifier("test-secret")

	identity := domain.Identity{UserID: "user123", Username: "alice", Role: "customer"}
	token, err := v.Sign(identity, time.Hour)
	require.NoError(t, err)

	got, err := v.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, identity, got)
}

func TestVerify_MissingToken(t *testing.T) {
	v := NewVerifier("test-secret")

	_, err := v.Verify("")
	assert.ErrorIs(t, err, ErrMissingToken)
}

func TestVerify_Garbage(t *testing.T) {
	v := NewVerifier("test-secret")

	_, err := v.Verify("not.a.jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_WrongSecret(t *testing.T) {
	signer := NewVerifier("secret-a")
	verifier := NewVerifier("secret-b")

	token, err := signer.Sign(domain.Identity{UserID: "user123"}, time.Hour)
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_Expired(t *testing.T) {
	v := NewVerifier("test-secret")

	token, err := v.Sign(domain.Identity{UserID: "user123"}, -time.Minute)
	require.NoError(t, err)

	_, err = v.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_NoPrincipal(t *testing.T) {
	v := NewVerifier("test-secret")

	// Structurally valid token whose user claim carries no id.
	token, err := v.Sign(domain.Identity{}, time.Hour)
	require.NoError(t, err)

	_, err = v.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
