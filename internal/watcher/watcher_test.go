package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatchDeliversDebouncedBatch(t *testing.T) {
	dir := t.TempDir()

	tw, err := New(50 * time.Millisecond)
	require.NoError(t, err)
	defer tw.Close()
	require.NoError(t, tw.AddRecursive(dir))

	batches := make(chan []fsnotify.Event, 1)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	go func() {
		_ = tw.Watch(ctx, func(events []fsnotify.Event) {
			select {
			case batches <- events:
			default:
			}
		})
	}()

	// give the watch loop a moment to start
	time.Sleep(100 * time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("one"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.txt"), []byte("two"), 0o644))

	select {
	case batch := <-batches:
		assert.NotEmpty(t, batch)
	case <-ctx.Done():
		t.Fatal("no batch delivered before timeout")
	}
}

func TestWatchStopsOnCancel(t *testing.T) {
	dir := t.TempDir()

	tw, err := New(10 * time.Millisecond)
	require.NoError(t, err)
	defer tw.Close()
	require.NoError(t, tw.AddRecursive(dir))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- tw.Watch(ctx, func([]fsnotify.Event) {})
	}()

	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("watch did not stop after cancel")
	}
}
