package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetTokenStartsNewGeneration(t *testing.T) {
	s := NewStore()
	assert.False(t, s.Active())

	g1 := s.SetToken("one")
	g2 := s.SetToken("two")
	assert.Greater(t, g2, g1)
	assert.Equal(t, "two", s.Token())
}

func TestInvalidateActsOncePerGeneration(t *testing.T) {
	s := NewStore()
	gen := s.SetToken("tok")

	assert.True(t, s.Invalidate(gen), "first caller wins")
	assert.False(t, s.Invalidate(gen), "second caller with the same generation is a no-op")
	assert.False(t, s.Active())
}

func TestInvalidateIgnoresStaleGeneration(t *testing.T) {
	s := NewStore()
	old := s.SetToken("old")
	s.SetToken("new")

	assert.False(t, s.Invalidate(old))
	assert.Equal(t, "new", s.Token(), "a stale rejection cannot kill the fresh session")
}

func TestLogoutClearsUnconditionally(t *testing.T) {
	s := NewStore()
	s.SetToken("tok")
	before := s.Generation()

	s.Logout()
	assert.False(t, s.Active())
	assert.Greater(t, s.Generation(), before)
}

func TestTokenPersistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "token.json")

	require.NoError(t, SaveToken(path, "secret-token"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	token, err := LoadToken(path)
	require.NoError(t, err)
	assert.Equal(t, "secret-token", token)

	require.NoError(t, ClearToken(path))
	token, err = LoadToken(path)
	require.NoError(t, err)
	assert.Empty(t, token, "a missing file means unauthenticated, not an error")

	require.NoError(t, ClearToken(path), "clearing twice is fine")
}
