package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisabledWithoutPassword(t *testing.T) {
	s, err := NewService("", "", time.Hour)
	require.NoError(t, err)
	assert.False(t, s.Enabled())

	_, _, err = s.IssueToken("anything")
	assert.Error(t, err)
}

func TestIssueAndValidate(t *testing.T) {
	s, err := NewService("secret-pass", "signing-key", time.Hour)
	require.NoError(t, err)
	require.True(t, s.Enabled())

	_, _, err = s.IssueToken("wrong")
	assert.ErrorIs(t, err, ErrInvalidPassword)

	token, exp, err := s.IssueToken("secret-pass")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	claims, err := s.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "api", claims.Scope)
	assert.Equal(t, issuer, claims.Issuer)
}

func TestValidateRejectsForeignAndExpired(t *testing.T) {
	s, err := NewService("pw", "key-one", time.Hour)
	require.NoError(t, err)
	other, err := NewService("pw", "key-two", time.Hour)
	require.NoError(t, err)

	token, _, err := other.IssueToken("pw")
	require.NoError(t, err)
	_, err = s.ValidateToken(token)
	assert.Error(t, err)

	_, err = s.ValidateToken("garbage")
	assert.Error(t, err)

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		Scope: "api",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	})
	signed, err := expired.SignedString([]byte("key-one"))
	require.NoError(t, err)
	_, err = s.ValidateToken(signed)
	assert.EqualError(t, err, "token is expired or not active yet")
}
