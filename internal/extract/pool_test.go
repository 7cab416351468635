package extract

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/snapsort/internal/photo"
)

// fakeExtractor returns canned records and tracks concurrency.
type fakeExtractor struct {
	mu      sync.Mutex
	byPath  map[string]photo.Taken
	delay   time.Duration
	active  int32
	maxSeen int32
	calls   map[string]int
}

func newFakeExtractor(byPath map[string]photo.Taken) *fakeExtractor {
	return &fakeExtractor{byPath: byPath, calls: map[string]int{}}
}

func (f *fakeExtractor) Extract(path string) photo.Record {
	n := atomic.AddInt32(&f.active, 1)
	for {
		seen := atomic.LoadInt32(&f.maxSeen)
		if n <= seen || atomic.CompareAndSwapInt32(&f.maxSeen, seen, n) {
			break
		}
	}
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	atomic.AddInt32(&f.active, -1)

	f.mu.Lock()
	f.calls[path]++
	f.mu.Unlock()

	taken, ok := f.byPath[path]
	if !ok {
		taken = photo.Unreadable()
	}
	return photo.Record{Path: path, Taken: taken}
}

func TestNewPool_Validation(t *testing.T) {
	_, err := NewPool(nil, 4, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "extractor is required")

	_, err = NewPool(newFakeExtractor(nil), 0, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "concurrency must be at least 1")
}

func TestExtractAll_EmptyInput(t *testing.T) {
	pool, err := NewPool(newFakeExtractor(nil), 4, nil)
	require.NoError(t, err)

	records, err := pool.ExtractAll(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, records)
}

// Every input path yields exactly one record, failures included.
func TestExtractAll_TotalCorrespondence(t *testing.T) {
	byPath := map[string]photo.Taken{}
	var paths []string
	for i := 0; i < 50; i++ {
		path := fmt.Sprintf("photo-%02d.jpg", i)
		paths = append(paths, path)
		switch i % 3 {
		case 0:
			byPath[path] = photo.Known(int64(1000 + i))
		case 1:
			byPath[path] = photo.Unparsable()
			// case 2 left out: the fake degrades it to unreadable
		}
	}

	fake := newFakeExtractor(byPath)
	pool, err := NewPool(fake, 4, nil)
	require.NoError(t, err)

	records, err := pool.ExtractAll(context.Background(), paths)
	require.NoError(t, err)
	require.Len(t, records, len(paths))

	seen := map[string]int{}
	for _, rec := range records {
		seen[rec.Path]++
	}
	for _, path := range paths {
		assert.Equal(t, 1, seen[path], "path %s", path)
		assert.Equal(t, 1, fake.calls[path], "extract calls for %s", path)
	}
}

// The pool never runs more than the configured number of workers at once.
func TestExtractAll_BoundedConcurrency(t *testing.T) {
	fake := newFakeExtractor(nil)
	fake.delay = 5 * time.Millisecond

	pool, err := NewPool(fake, 3, nil)
	require.NoError(t, err)

	var paths []string
	for i := 0; i < 30; i++ {
		paths = append(paths, fmt.Sprintf("p%d.jpg", i))
	}

	_, err = pool.ExtractAll(context.Background(), paths)
	require.NoError(t, err)
	assert.LessOrEqual(t, atomic.LoadInt32(&fake.maxSeen), int32(3))
}

func TestExtractAll_CanceledContext(t *testing.T) {
	fake := newFakeExtractor(nil)
	fake.delay = 10 * time.Millisecond

	pool, err := NewPool(fake, 1, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var paths []string
	for i := 0; i < 10; i++ {
		paths = append(paths, fmt.Sprintf("p%d.jpg", i))
	}

	_, err = pool.ExtractAll(ctx, paths)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
