package jwt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_AccessTokenRoundTrip(t *testing.T) {
	m := NewManager("secret", 15, 168)

	token, err := m.GenerateAccessToken("user-1", "donor@example.com", "Pat Donor")
	require.NoError(t, err)

	claims, err := m.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "donor@example.com", claims.Email)
	assert.Equal(t, "Pat Donor", claims.FullName)
	assert.Equal(t, "access", claims.Type)
}

func TestManager_RefreshTokenRoundTrip(t *testing.T) {
	m := NewManager("secret", 15, 168)

	token, err := m.GenerateRefreshToken("user-1")
	require.NoError(t, err)

	claims, err := m.ValidateRefreshToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "refresh", claims.Type)
}

func TestManager_TokenTypeMismatch(t *testing.T) {
	m := NewManager("secret", 15, 168)

	access, err := m.GenerateAccessToken("user-1", "donor@example.com", "Pat Donor")
	require.NoError(t, err)
	refresh, err := m.GenerateRefreshToken("user-1")
	require.NoError(t, err)

	_, err = m.ValidateRefreshToken(access)
	assert.Error(t, err)
	_, err = m.ValidateAccessToken(refresh)
	assert.Error(t, err)
}

func TestManager_WrongSecret(t *testing.T) {
	m := NewManager("secret", 15, 168)
	other := NewManager("different", 15, 168)

	token, err := m.GenerateAccessToken("user-1", "donor@example.com", "Pat Donor")
	require.NoError(t, err)

	_, err = other.ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestManager_ExpiredToken(t *testing.T) {
	// Zero-minute expiry produces an already-expired token.
	m := NewManager("secret", 0, 168)

	token, err := m.GenerateAccessToken("user-1", "donor@example.com", "Pat Donor")
	require.NoError(t, err)

	_, err = m.ValidateAccessToken(token)
	assert.Error(t, err)
}
