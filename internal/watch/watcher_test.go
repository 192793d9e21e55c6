package watch

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestWatchFileDebounces(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.md")
	require.NoError(t, os.WriteFile(path, []byte("a"), 0o600))

	w, err := New(50 * time.Millisecond)
	require.NoError(t, err)
	defer w.Close()

	var calls atomic.Int32
	require.NoError(t, w.Watch(path, func() { calls.Add(1) }))

	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(path, []byte{byte('a' + i)}, 0o600))
	}
	waitFor(t, func() bool { return calls.Load() >= 1 })
	time.Sleep(200 * time.Millisecond)
	require.Less(t, calls.Load(), int32(5))
}

func TestWatchDirectory(t *testing.T) {
	dir := t.TempDir()

	w, err := New(20 * time.Millisecond)
	require.NoError(t, err)
	defer w.Close()

	var calls atomic.Int32
	require.NoError(t, w.Watch(dir, func() { calls.Add(1) }))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "en.json"), []byte(`{}`), 0o600))
	waitFor(t, func() bool { return calls.Load() >= 1 })
}

func TestWatchMissingPath(t *testing.T) {
	w, err := New(0)
	require.NoError(t, err)
	defer w.Close()

	require.Error(t, w.Watch(filepath.Join(t.TempDir(), "missing.md"), func() {}))
	require.NoError(t, w.Close())
}
