package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTManager_RoundTrip(t *testing.T) {
	m := NewJWTManager("secret", time.Hour)

	tok, err := m.GenerateToken(42, "answer@example.com")
	require.NoError(t, err)

	claims, err := m.ValidateToken(tok)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "answer@example.com", claims.Email)
	assert.Equal(t, "hifcm", claims.Issuer)
}

func TestJWTManager_WrongSecret(t *testing.T) {
	tok, err := NewJWTManager("secret", time.Hour).GenerateToken(42, "")
	require.NoError(t, err)

	_, err = NewJWTManager("other", time.Hour).ValidateToken(tok)
	assert.Error(t, err)
}

func TestJWTManager_Expired(t *testing.T) {
	m := NewJWTManager("secret", -time.Minute)
	tok, err := m.GenerateToken(42, "")
	require.NoError(t, err)

	_, err = m.ValidateToken(tok)
	assert.Error(t, err)
}

func TestJWTManager_MissingUser(t *testing.T) {
	m := NewJWTManager("secret", time.Hour)
	tok, err := m.GenerateToken(0, "nobody@example.com")
	require.NoError(t, err)

	_, err = m.ValidateToken(tok)
	assert.Error(t, err)
}
