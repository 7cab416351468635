package watch

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type suffixMatcher string

func (m suffixMatcher) Match(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), string(m))
}

func TestNew_Validation(t *testing.T) {
	_, err := New("", suffixMatcher(".jpg"), nil)
	require.Error(t, err)

	_, err = New(t.TempDir(), nil, nil)
	require.Error(t, err)
}

func TestRun_TriggersOnMatchingCreate(t *testing.T) {
	dir := t.TempDir()
	w, err := New(dir, suffixMatcher(".jpg"), nil)
	require.NoError(t, err)
	w.settle = 50 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	triggered := make(chan struct{}, 8)
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func(context.Context) error {
			triggered <- struct{}{}
			return nil
		})
	}()

	// Give the watcher a moment to register before writing.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "new.jpg"), []byte("x"), 0o644))

	select {
	case <-triggered:
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not trigger on matching file")
	}

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop on cancel")
	}
}

func TestRun_IgnoresNonMatchingFiles(t *testing.T) {
	dir := t.TempDir()
	w, err := New(dir, suffixMatcher(".jpg"), nil)
	require.NoError(t, err)
	w.settle = 50 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	triggered := make(chan struct{}, 8)
	go func() {
		_ = w.Run(ctx, func(context.Context) error { //nolint:errcheck // exits via cancel
			triggered <- struct{}{}
			return nil
		})
	}()

	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))

	select {
	case <-triggered:
		t.Fatal("watcher triggered on non-matching file")
	case <-time.After(300 * time.Millisecond):
	}
}

// A failing run is logged and the watch session keeps going.
func TestRun_SurvivesCallbackError(t *testing.T) {
	dir := t.TempDir()
	w, err := New(dir, suffixMatcher(".jpg"), nil)
	require.NoError(t, err)
	w.settle = 50 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	calls := make(chan int, 8)
	count := 0
	go func() {
		_ = w.Run(ctx, func(context.Context) error {
			count++
			calls <- count
			if count == 1 {
				return assert.AnError
			}
			return nil
		})
	}()

	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "one.jpg"), []byte("x"), 0o644))

	select {
	case <-calls:
	case <-time.After(5 * time.Second):
		t.Fatal("first run never happened")
	}

	require.NoError(t, os.WriteFile(filepath.Join(dir, "two.jpg"), []byte("x"), 0o644))
	select {
	case n := <-calls:
		assert.Equal(t, 2, n, "watcher stopped after a failing run")
	case <-time.After(5 * time.Second):
		t.Fatal("watcher stopped after a failing run")
	}
}
