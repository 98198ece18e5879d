package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func waitChange(t *testing.T, w *Watcher, timeout time.Duration) bool {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return w.Next(ctx) == nil
}

func TestWatcherDetectsWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "main.go")
	writeFile(t, path, "package main\n")

	w, err := New(path, WithDebounce(30*time.Millisecond))
	require.NoError(t, err)
	require.NoError(t, w.Start())
	defer w.Stop()

	writeFile(t, path, "package main\n\nfunc main() {}\n")
	require.True(t, waitChange(t, w, 2*time.Second))
}

func TestWatcherIgnoresSiblings(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main.go")
	writeFile(t, path, "package main\n")

	w, err := New(path, WithDebounce(20*time.Millisecond))
	require.NoError(t, err)
	require.NoError(t, w.Start())
	defer w.Stop()

	writeFile(t, filepath.Join(dir, "other.go"), "package main\n")
	require.False(t, waitChange(t, w, 200*time.Millisecond))
}

func TestWatcherCoalescesBursts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "main.go")
	writeFile(t, path, "v0")

	w, err := New(path, WithDebounce(100*time.Millisecond))
	require.NoError(t, err)
	require.NoError(t, w.Start())
	defer w.Stop()

	for i := 0; i < 5; i++ {
		writeFile(t, path, "v"+string(rune('1'+i)))
		time.Sleep(10 * time.Millisecond)
	}
	require.True(t, waitChange(t, w, 2*time.Second))
	require.False(t, waitChange(t, w, 300*time.Millisecond), "burst fires once")
}

func TestWatcherPolling(t *testing.T) {
	path := filepath.Join(t.TempDir(), "main.go")
	writeFile(t, path, "a")

	var removed atomic.Bool
	w, err := New(path,
		WithForcePoll(true),
		WithPollInterval(20*time.Millisecond),
		WithDebounce(10*time.Millisecond),
		WithOnError(func(err error) {
			if err == ErrFileRemoved {
				removed.Store(true)
			}
		}),
	)
	require.NoError(t, err)
	require.NoError(t, w.Start())
	defer w.Stop()
	require.True(t, w.IsPolling())

	writeFile(t, path, "abc")
	require.True(t, waitChange(t, w, 2*time.Second))

	require.NoError(t, os.Remove(path))
	require.Eventually(t, removed.Load, 2*time.Second, 10*time.Millisecond)
}

func TestWatcherStartTwice(t *testing.T) {
	w, err := New(filepath.Join(t.TempDir(), "x.go"))
	require.NoError(t, err)
	require.NoError(t, w.Start())
	defer w.Stop()
	require.ErrorIs(t, w.Start(), ErrAlreadyStarted)
	require.True(t, filepath.IsAbs(w.Path()))
}

func TestWatcherStopSilences(t *testing.T) {
	path := filepath.Join(t.TempDir(), "main.go")
	writeFile(t, path, "a")

	w, err := New(path, WithDebounce(50*time.Millisecond))
	require.NoError(t, err)
	require.NoError(t, w.Start())
	w.trigger()
	w.Stop()
	require.False(t, waitChange(t, w, 150*time.Millisecond))
}
