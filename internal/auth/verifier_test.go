package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Student-IshitaRane/LinkedIn-Hack/internal/domain"
)

const testSecret = "test-secret-at-least-16-chars"

func TestVerifier_RoundTrip(t *testing.T) {
	v := NewVerifier(testSecret)

	token, err := v.Sign("user-123", time.Hour)
	require.NoError(t, err)

	userID, err := v.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", userID)
}

func TestVerifier_WrongSecret(t *testing.T) {
	signer := NewVerifier("some-other-secret-entirely")
	token, err := signer.Sign("user-123", time.Hour)
	require.NoError(t, err)

	v := NewVerifier(testSecret)
	_, err = v.Verify(token)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestVerifier_ExpiredToken(t *testing.T) {
	v := NewVerifier(testSecret)

	token, err := v.Sign("user-123", -time.Minute)
	require.NoError(t, err)

	_, err = v.Verify(token)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestVerifier_GarbageToken(t *testing.T) {
	v := NewVerifier(testSecret)

	_, err := v.Verify("not.a.token")
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestVerifier_EmptyToken(t *testing.T) {
	v := NewVerifier(testSecret)

	_, err := v.Verify("")
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestVerifier_MissingUserID(t *testing.T) {
	// Token signed with the right secret but no id claim
	claims := jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	v := NewVerifier(testSecret)
	_, err = v.Verify(token)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestVerifier_RejectsNonHMACAlgorithm(t *testing.T) {
	// alg=none tokens must never verify
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		UserID: "user-123",
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	v := NewVerifier(testSecret)
	_, err = v.Verify(token)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}
