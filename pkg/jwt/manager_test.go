package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndVerifyAccessToken(t *testing.T) {
	m := NewManager("test-secret", 900, 86400)

	token, err := m.GenerateAccessToken(42, "alice", "ADMIN", "sess-1")
	require.NoError(t, err)

	claims, err := m.VerifyAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "ADMIN", claims.Role)
	assert.Equal(t, "sess-1", claims.SessionID)
	assert.NotEmpty(t, claims.ID)
}

func TestVerifyRefreshToken_RejectsAccessToken(t *testing.T) {
	m := NewManager("test-secret", 900, 86400)

	access, err := m.GenerateAccessToken(1, "bob", "USER", "")
	require.NoError(t, err)

	_, err = m.VerifyRefreshToken(access)
	assert.ErrorIs(t, err, ErrWrongType)

	refresh, jti, err := m.GenerateRefreshToken(1)
	require.NoError(t, err)
	claims, err := m.VerifyRefreshToken(refresh)
	require.NoError(t, err)
	assert.Equal(t, jti, claims.ID)
}

func TestVerifyToken_Expired(t *testing.T) {
	m := NewManager("test-secret", 60, 120)
	m.now = func() time.Time { return time.Now().Add(-time.Hour) }
	token, err := m.GenerateAccessToken(1, "bob", "USER", "")
	require.NoError(t, err)

	m.now = time.Now
	_, err = m.VerifyToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestVerifyToken_WrongSecret(t *testing.T) {
	token, err := NewManager("secret-a", 60, 120).GenerateAccessToken(1, "bob", "USER", "")
	require.NoError(t, err)

	_, err = NewManager("secret-b", 60, 120).VerifyToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyToken_Garbage(t *testing.T) {
	_, err := NewManager("s", 60, 120).VerifyToken("not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
