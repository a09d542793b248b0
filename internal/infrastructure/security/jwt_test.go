package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidate(t *testing.T) {
	manager := NewTokenManager("access-secret", "refresh-secret")

	access, refresh, err := manager.Generate("user-123")
	require.NoError(t, err)
	assert.NotEqual(t, access, refresh)

	sub, err := manager.ValidateAccessToken(access)
	require.NoError(t, err)
	assert.Equal(t, "user-123", sub)

	sub, err = manager.ValidateRefreshToken(refresh)
	require.NoError(t, err)
	assert.Equal(t, "user-123", sub)
}

// Токены подписаны разными секретами и не взаимозаменяемы.
func TestTokensAreNotInterchangeable(t *testing.T) {
	manager := NewTokenManager("access-secret", "refresh-secret")

	access, refresh, err := manager.Generate("user-123")
	require.NoError(t, err)

	_, err = manager.ValidateAccessToken(refresh)
	assert.Error(t, err)

	_, err = manager.ValidateRefreshToken(access)
	assert.Error(t, err)
}

func TestValidateRejectsForeignSecret(t *testing.T) {
	manager := NewTokenManager("access-secret", "refresh-secret")
	other := NewTokenManager("wrong", "wrong")

	access, _, err := manager.Generate("user-123")
	require.NoError(t, err)

	_, err = other.ValidateAccessToken(access)
	assert.Error(t, err)
}

func TestValidateRejectsGarbage(t *testing.T) {
	manager := NewTokenManager("a", "r")

	_, err := manager.ValidateAccessToken("not.a.token")
	assert.Error(t, err)
}

func TestPasswordHasher(t *testing.T) {
	hasher := NewPasswordHasher()

	hash, err := hasher.Hash("correct horse battery staple")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse battery staple", hash)

	assert.NoError(t, hasher.Compare(hash, "correct horse battery staple"))
	assert.Error(t, hasher.Compare(hash, "wrong password"))
}
