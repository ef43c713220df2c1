package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// exerciseStore runs the behavior every Store must share.
func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	_, ok, err := s.Get(ctx, "appLanguage")
	require.NoError(t, err)
	assert.False(t, ok, "fresh store should miss")

	require.NoError(t, s.Set(ctx, "appLanguage", "hi"))
	require.NoError(t, s.Set(ctx, "translationCache", `{"Dashboard_hi":"डैशबोर्ड"}`))

	v, ok, err := s.Get(ctx, "appLanguage")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "hi", v)

	require.NoError(t, s.Set(ctx, "appLanguage", "ur"))
	v, _, err = s.Get(ctx, "appLanguage")
	require.NoError(t, err)
	assert.Equal(t, "ur", v, "later writes overwrite")

	v, _, err = s.Get(ctx, "translationCache")
	require.NoError(t, err)
	assert.Equal(t, `{"Dashboard_hi":"डैशबोर्ड"}`, v)
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()
	exerciseStore(t, s)
	assert.Equal(t, 2, s.Keys())
	assert.NoError(t, s.Close())
}

func TestFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.json")
	s, err := OpenFileStore(path)
	require.NoError(t, err)
	exerciseStore(t, s)
	require.NoError(t, s.Close())

	// Values survive reopening
	reopened, err := OpenFileStore(path)
	require.NoError(t, err)
	v, ok, err := reopened.Get(context.Background(), "appLanguage")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "ur", v)
}

func TestFileStore_MalformedFileReadsAsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	s, err := OpenFileStore(path)
	require.NoError(t, err)

	_, ok, err := s.Get(context.Background(), "appLanguage")
	require.NoError(t, err)
	assert.False(t, ok)

	// The next write replaces the broken file
	require.NoError(t, s.Set(context.Background(), "appLanguage", "bn"))
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"appLanguage":"bn"}`, string(raw))
}

func TestFileStore_RequiresPath(t *testing.T) {
	_, err := OpenFileStore("  ")
	assert.Error(t, err)
}

func TestSQLiteStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")
	s, err := OpenSQLiteStore(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	exerciseStore(t, s)

	ts, ok, err := s.UpdatedAt(context.Background(), "appLanguage")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.False(t, ts.IsZero())

	_, ok, err = s.UpdatedAt(context.Background(), "missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSQLiteStore_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")
	s, err := OpenSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, s.Set(context.Background(), "apiCallCount", "12"))
	require.NoError(t, s.Close())

	s, err = OpenSQLiteStore(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	v, ok, err := s.Get(context.Background(), "apiCallCount")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "12", v)
}

func TestSQLiteStore_RequiresPath(t *testing.T) {
	_, err := OpenSQLiteStore("")
	assert.Error(t, err)
}

func TestSQLiteStore_NilIsNotConfigured(t *testing.T) {
	var s *SQLiteStore
	_, _, err := s.Get(context.Background(), "k")
	assert.Error(t, err)
	assert.Error(t, s.Set(context.Background(), "k", "v"))
	assert.NoError(t, s.Close())
}
