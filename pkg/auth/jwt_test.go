package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAndVerifyToken(t *testing.T) {
	m := NewTokenManager("secret", time.Hour)

	token, err := m.CreateToken(42)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := m.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, 42, claims.UserID)
	assert.WithinDuration(t, time.Now(), claims.IssuedAt, 5*time.Second)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	token, err := NewTokenManager("secret-one", time.Hour).CreateToken(1)
	require.NoError(t, err)

	_, err = NewTokenManager("secret-two", time.Hour).VerifyToken(token)
	assert.Error(t, err)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	token, err := NewTokenManager("secret", -time.Minute).CreateToken(1)
	require.NoError(t, err)

	_, err = NewTokenManager("secret", time.Hour).VerifyToken(token)
	assert.Error(t, err)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	_, err := NewTokenManager("secret", time.Hour).VerifyToken("definitely.not.jwt")
	assert.Error(t, err)
}
