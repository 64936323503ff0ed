package crypto

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTManager_RoundTrip(t *testing.T) {
	t.Parallel()
	manager := NewJWTManager([]byte("secret"), time.Hour)

	token := manager.Generate("player-1", "Alice")
	require.NotEmpty(t, token)

	id, name, err := manager.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "player-1", id)
	assert.Equal(t, "Alice", name)
}

func TestJWTManager_RejectsWrongKey(t *testing.T) {
	t.Parallel()
	manager := NewJWTManager([]byte("secret"), time.Hour)
	other := NewJWTManager([]byte("not-the-secret"), time.Hour)

	_, _, err := manager.Verify(other.Generate("player-1", "Alice"))
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTManager_RejectsExpiredToken(t *testing.T) {
	t.Parallel()
	manager := NewJWTManager([]byte("secret"), -time.Minute)

	_, _, err := manager.Verify(manager.Generate("player-1", "Alice"))
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTManager_RejectsGarbage(t *testing.T) {
	t.Parallel()
	manager := NewJWTManager([]byte("secret"), time.Hour)

	for _, token := range []string{"", "not.a.token", "aaaa.bbbb.cccc"} {
		_, _, err := manager.Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken, "token %q", token)
	}
}
