package credential

import (
	"testing"

	"github.com/99designs/keyring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func useMemoryKeyring(t *testing.T) {
	t.Helper()
	ring := keyring.NewArrayKeyring(nil)
	orig := openKeyring
	openKeyring = func() (keyring.Keyring, error) { return ring, nil }
	t.Cleanup(func() { openKeyring = orig })
}

func TestSetGetDelete(t *testing.T) {
	useMemoryKeyring(t)

	require.NoError(t, Set(TokenKey, "perm:abc"))

	got, err := Get(TokenKey)
	require.NoError(t, err)
	assert.Equal(t, "perm:abc", got)

	require.NoError(t, Delete(TokenKey))
	_, err = Get(TokenKey)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestResolveToken(t *testing.T) {
	useMemoryKeyring(t)

	token, err := ResolveToken("perm:explicit")
	require.NoError(t, err)
	assert.Equal(t, "perm:explicit", token)

	_, err = ResolveToken("")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, Set(TokenKey, "perm:stored"))
	token, err = ResolveToken("")
	require.NoError(t, err)
	assert.Equal(t, "perm:stored", token)
}
