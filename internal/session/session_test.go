package session

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/investdesk/desk/internal/model"
)

func TestFileStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	store := NewFileStore(path)

	s, err := store.Get()
	require.NoError(t, err)
	assert.False(t, s.SignedIn())

	want := Session{AccessToken: "tok", User: &model.User{ID: "u1", Name: "Admin", Email: "a@b.co"}}
	require.NoError(t, store.Set(want))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	got, err := NewFileStore(path).Get()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestFileStore_Clear(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "session.json"))
	require.NoError(t, store.Clear(), "clearing an empty store")

	require.NoError(t, store.Set(Session{AccessToken: "tok"}))
	require.NoError(t, store.Clear())

	s, err := store.Get()
	require.NoError(t, err)
	assert.Equal(t, Session{}, s)
}

func TestFileStore_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := NewFileStore(path).Get()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing session")
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore(Session{AccessToken: "tok"})
	s, _ := store.Get()
	assert.True(t, s.SignedIn())

	require.NoError(t, store.Clear())
	s, _ = store.Get()
	assert.False(t, s.SignedIn())
}

func TestInspect(t *testing.T) {
	exp := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "admin-1",
		"name": "Ops Admin",
		"role": "superadmin",
		"exp":  exp.Unix(),
	})
	signed, err := tok.SignedString([]byte("any-key"))
	require.NoError(t, err)

	c, err := Inspect(signed)
	require.NoError(t, err)
	assert.Equal(t, "admin-1", c.Subject)
	assert.Equal(t, "Ops Admin", c.Name)
	assert.Equal(t, "superadmin", c.Role)
	assert.True(t, exp.Equal(c.ExpiresAt))
	assert.False(t, c.Expired(exp.Add(-time.Minute)))
	assert.True(t, c.Expired(exp.Add(time.Minute)))
}

func TestInspect_IDFallbackAndNoExpiry(t *testing.T) {
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"id": "legacy-7"})
	signed, err := tok.SignedString([]byte("k"))
	require.NoError(t, err)

	c, err := Inspect(signed)
	require.NoError(t, err)
	assert.Equal(t, "legacy-7", c.Subject)
	assert.False(t, c.Expired(time.Now()))
}

func TestInspect_Garbage(t *testing.T) {
	_, err := Inspect("not-a-jwt")
	assert.Error(t, err)
}
