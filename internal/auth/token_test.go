package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndVerify(t *testing.T) {
	svc := NewTokenService("test-secret")

	token, err := svc.Issue("student@example.com", "student")
	require.NoError(t, err)

	identity, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "student@example.com", identity.Email)
	assert.Equal(t, "student", identity.Role)
}

func TestIssueWithoutRole(t *testing.T) {
	svc := NewTokenService("test-secret")

	token, err := svc.Issue("someone@example.com", "")
	require.NoError(t, err)

	identity, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "someone@example.com", identity.Email)
	assert.Empty(t, identity.Role)
}

func TestVerifyRejectsWrongKey(t *testing.T) {
	token, err := NewTokenService("secret-a").Issue("a@b.com", "")
	require.NoError(t, err)

	_, err = NewTokenService("secret-b").Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	svc := NewTokenService("test-secret")
	for _, bad := range []string{"", "not-a-token", "a.b.c"} {
		_, err := svc.Verify(bad)
		assert.ErrorIs(t, err, ErrInvalidToken)
	}
}

func TestVerifyRejectsExpired(t *testing.T) {
	secret := []byte("test-secret")
	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "a@b.com",
		"iat": time.Now().Add(-2 * time.Hour).Unix(),
		"exp": time.Now().Add(-time.Hour).Unix(),
	})
	tokenString, err := expired.SignedString(secret)
	require.NoError(t, err)

	_, err = NewTokenService("test-secret").Verify(tokenString)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsMissingSubject(t *testing.T) {
	secret := []byte("test-secret")
	noSub := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	tokenString, err := noSub.SignedString(secret)
	require.NoError(t, err)

	_, err = NewTokenService("test-secret").Verify(tokenString)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
