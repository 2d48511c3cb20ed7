package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

func TestIssueAndVerify(t *testing.T) {
	m := NewTokenManager("test-secret", time.Hour)

	token, exp, err := m.Issue("user-1", entity.RoleAdmin)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	claims, err := m.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, entity.RoleAdmin, claims.Role)
}

func TestVerifyRejectsOtherSecret(t *testing.T) {
	token, _, err := NewTokenManager("secret-a", time.Hour).Issue("user-1", entity.RoleAdmin)
	require.NoError(t, err)

	_, err = NewTokenManager("secret-b", time.Hour).Verify(token)

	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	m := NewTokenManager("test-secret", time.Minute)
	m.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, _, err := m.Issue("user-1", entity.RoleAdmin)
	require.NoError(t, err)

	m.now = time.Now
	_, err = m.Verify(token)

	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsNoneAlgorithm(t *testing.T) {
	claims := Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "user-1", Issuer: issuer}, Role: entity.RoleSuperAdmin}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewTokenManager("test-secret", time.Hour).Verify(token)

	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestBcryptHasher(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	digest, err := h.Hash("Str0ng!Passw0rd")
	require.NoError(t, err)

	assert.NotEqual(t, "Str0ng!Passw0rd", digest)
	assert.True(t, h.Verify("Str0ng!Passw0rd", digest))
	assert.False(t, h.Verify("wrong", digest))
}
