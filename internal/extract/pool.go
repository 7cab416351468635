// Package extract runs timestamp extraction over a batch of files with a
// bounded worker pool.
package extract

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/snapsort/internal/photo"
)

// Extractor produces a record for a single file. Implementations must be safe
// for concurrent use.
type Extractor interface {
	Extract(path string) photo.Record
}

// Pool dispatches extraction across a fixed number of workers.
type Pool struct {
	extractor   Extractor
	concurrency int
	logger      *zap.Logger
}

// NewPool creates a pool with the given worker count. logger may be nil.
func NewPool(extractor Extractor, concurrency int, logger *zap.Logger) (*Pool, error) {
	if extractor == nil {
		return nil, fmt.Errorf("extractor is required")
	}
	if concurrency < 1 {
		return nil, fmt.Errorf("concurrency must be at least 1, got %d", concurrency)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pool{
		extractor:   extractor,
		concurrency: concurrency,
		logger:      logger,
	}, nil
}

// ExtractAll extracts a record for every path. The returned slice holds
// exactly one record per input path in no particular order; callers restore
// ordering with an explicit sort. Per-file failures never abort the batch —
// they surface as sentinel records.
//
// All workers finish before ExtractAll returns, so the caller always sees the
// complete result set. Cancellation stops the dispatch of further paths and
// returns ctx.Err(); in-flight extractions still run to completion.
func (p *Pool) ExtractAll(ctx context.Context, paths []string) ([]photo.Record, error) {
	if len(paths) == 0 {
		return nil, nil
	}

	jobs := make(chan string)
	results := make(chan photo.Record, len(paths))

	var wg sync.WaitGroup
	for i := 0; i < p.concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range jobs {
				results <- p.extractor.Extract(path)
			}
		}()
	}

	var dispatchErr error
dispatch:
	for _, path := range paths {
		select {
		case jobs <- path:
		case <-ctx.Done():
			dispatchErr = ctx.Err()
			break dispatch
		}
	}
	close(jobs)
	wg.Wait()
	close(results)

	records := make([]photo.Record, 0, len(paths))
	for rec := range results {
		records = append(records, rec)
	}

	if dispatchErr != nil {
		return nil, fmt.Errorf("extraction canceled: %w", dispatchErr)
	}

	p.logger.Debug("extraction complete",
		zap.Int("files", len(records)),
		zap.Int("workers", p.concurrency))
	return records, nil
}
