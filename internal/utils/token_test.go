package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRefreshTokenRoundTrip(t *testing.T) {
	tokens := NewTokenManager("access-secret", "refresh-secret", 15*time.Minute, 24*time.Hour)

	token, err := tokens.GenerateRefreshToken("user-1", time.Now())
	require.NoError(t, err)

	subject, err := tokens.ParseRefreshToken(token)
	require.NoError(t, err)
	require.Equal(t, "user-1", subject)
}

func TestParseRefreshTokenRejectsAccessToken(t *testing.T) {
	tokens := NewTokenManager("access-secret", "refresh-secret", 15*time.Minute, 24*time.Hour)

	access, err := tokens.GenerateAccessToken("user-1", []string{"student"}, time.Now())
	require.NoError(t, err)

	_, err = tokens.ParseRefreshToken(access)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRefreshTokenRejectsExpired(t *testing.T) {
	tokens := NewTokenManager("access-secret", "refresh-secret", 15*time.Minute, time.Minute)

	token, err := tokens.GenerateRefreshToken("user-1", time.Now().Add(-time.Hour))
	require.NoError(t, err)

	_, err = tokens.ParseRefreshToken(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("correct-horse")
	require.NoError(t, err)
	require.NotEqual(t, "correct-horse", hash)

	require.True(t, CheckPassword("correct-horse", hash))
	require.False(t, CheckPassword("wrong-horse", hash))
}
