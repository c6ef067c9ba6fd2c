package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"beginnings/internal/logging"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type countingReloader struct {
	calls atomic.Int32
	fired chan struct{}
}

func (c *countingReloader) Reload(context.Context) error {
	c.calls.Add(1)
	select {
	case c.fired <- struct{}{}:
	default:
	}
	return nil
}

func start(t *testing.T, files []string, r Reloader) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	w := &Watcher{Files: files, Reloader: r, Debounce: 50 * time.Millisecond, Logger: logging.Discard()}
	go func() { done <- w.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		require.NoError(t, <-done)
	})
	// Give the watcher time to register its directories.
	time.Sleep(100 * time.Millisecond)
}

func TestReloadsAfterBurst(t *testing.T) {
	dir := t.TempDir()
	openings := filepath.Join(dir, "openings.json")
	require.NoError(t, os.WriteFile(openings, []byte(`{}`), 0o644))

	r := &countingReloader{fired: make(chan struct{}, 1)}
	start(t, []string{openings}, r)

	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(openings, []byte(`{"_lastUpdated": "x"}`), 0o644))
	}

	select {
	case <-r.fired:
	case <-time.After(2 * time.Second):
		t.Fatal("expected a reload")
	}
	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, int32(1), r.calls.Load())
}

func TestIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	openings := filepath.Join(dir, "openings.json")
	require.NoError(t, os.WriteFile(openings, []byte(`{}`), 0o644))

	r := &countingReloader{fired: make(chan struct{}, 1)}
	start(t, []string{openings}, r)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hi"), 0o644))
	time.Sleep(200 * time.Millisecond)
	assert.Zero(t, r.calls.Load())
}
