package prefs

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erkantaylan/md-printer/internal/i18n"
)

var (
	_ i18n.Preferences = (*FileStore)(nil)
	_ i18n.Preferences = (*SQLiteStore)(nil)
	_ i18n.Preferences = (*MemoryStore)(nil)
)

func TestBackends(t *testing.T) {
	ctx := context.Background()
	for _, kind := range []string{BackendFile, BackendSQLite, BackendMemory} {
		t.Run(kind, func(t *testing.T) {
			store, err := Open(ctx, kind, t.TempDir())
			require.NoError(t, err)
			t.Cleanup(func() { _ = store.Close() })

			_, ok, err := store.Get(ctx, i18n.PreferenceKey)
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, store.Set(ctx, i18n.PreferenceKey, "ja"))
			require.NoError(t, store.Set(ctx, i18n.PreferenceKey, "en"))

			v, ok, err := store.Get(ctx, i18n.PreferenceKey)
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, "en", v)
		})
	}
}

func TestOpenUnknownBackend(t *testing.T) {
	_, err := Open(context.Background(), "redis", t.TempDir())
	assert.Error(t, err)
}

func TestFileStoreSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "preferences.json")

	require.NoError(t, NewFileStore(path).Set(ctx, i18n.PreferenceKey, "zh"))

	v, ok, err := NewFileStore(path).Get(ctx, i18n.PreferenceKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "zh", v)
}

func TestFileStoreCorruptFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "preferences.json")
	require.NoError(t, os.WriteFile(path, []byte("{oops"), 0o600))

	s := NewFileStore(path)
	_, _, err := s.Get(ctx, i18n.PreferenceKey)
	assert.Error(t, err)
	assert.Error(t, s.Set(ctx, i18n.PreferenceKey, "en"))
}

func TestSQLiteStoreSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "mdprinter.db")

	s, err := OpenSQLite(ctx, path)
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, i18n.PreferenceKey, "ko"))
	require.NoError(t, s.Close())

	s, err = OpenSQLite(ctx, path)
	require.NoError(t, err)
	defer s.Close()
	v, ok, err := s.Get(ctx, i18n.PreferenceKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "ko", v)
}
