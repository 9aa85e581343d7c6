package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"
)

// start runs w in the background and returns a stop function that cancels
// it and waits for Run to return.
func start(t *testing.T, w *Watcher) (stop func()) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	select {
	case <-w.Ready():
	case err := <-done:
		cancel()
		t.Fatalf("Run returned early: %v", err)
	case <-time.After(5 * time.Second):
		cancel()
		t.Fatal("watcher never became ready")
	}
	return func() {
		cancel()
		require.NoError(t, <-done)
	}
}

func TestDebouncedChange(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "plate.yaml")
	require.NoError(t, os.WriteFile(path, []byte("rows: 8\n"), 0o644))

	calls := make(chan string, 10)
	w, err := New(path, 100*time.Millisecond, func(_ context.Context, p string) { calls <- p }, zaptest.NewLogger(t))
	require.NoError(t, err)
	stop := start(t, w)

	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(path, []byte("rows: 4\n"), 0o644))
	}

	select {
	case got := <-calls:
		assert.Equal(t, w.Path(), got)
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}

	select {
	case <-calls:
		t.Error("burst of writes reported more than once")
	case <-time.After(400 * time.Millisecond):
	}
	stop()
}

func TestIgnoresOtherFiles(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "plate.yaml")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	calls := make(chan string, 10)
	w, err := New(path, 50*time.Millisecond, func(_ context.Context, p string) { calls <- p }, nil)
	require.NoError(t, err)
	stop := start(t, w)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("x"), 0o644))

	select {
	case p := <-calls:
		t.Errorf("unexpected change for %s", p)
	case <-time.After(300 * time.Millisecond):
	}
	stop()
}

func TestReplacedByRename(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "plate.lisp")
	require.NoError(t, os.WriteFile(path, []byte("(sbs96)"), 0o644))

	calls := make(chan string, 10)
	w, err := New(path, 50*time.Millisecond, func(_ context.Context, p string) { calls <- p }, nil)
	require.NoError(t, err)
	stop := start(t, w)

	tmp := filepath.Join(dir, ".plate.lisp.swp")
	require.NoError(t, os.WriteFile(tmp, []byte("(sbs96 :rows 4)"), 0o644))
	require.NoError(t, os.Rename(tmp, path))

	select {
	case <-calls:
	case <-time.After(5 * time.Second):
		t.Fatal("rename over the file was not reported")
	}
	stop()
}

func TestRunTwice(t *testing.T) {
	defer goleak.VerifyNone(t)

	path := filepath.Join(t.TempDir(), "plate.yaml")
	w, err := New(path, 0, func(context.Context, string) {}, nil)
	require.NoError(t, err)
	stop := start(t, w)

	assert.ErrorIs(t, w.Run(context.Background()), ErrStarted)
	stop()
	assert.ErrorIs(t, w.Run(context.Background()), ErrStarted)
}

func TestNewMissingDirectory(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "nope", "plate.yaml"), 0, func(context.Context, string) {}, nil)
	assert.Error(t, err)
}

func TestDefaultDebounce(t *testing.T) {
	w, err := New(filepath.Join(t.TempDir(), "plate.yaml"), 0, func(context.Context, string) {}, nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultDebounce, w.debounce)
}
