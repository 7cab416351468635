// Package run ties the scan, extract, cluster, and sink stages into one
// pipeline invocation.
package run

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/snapsort/internal/archive"
	"github.com/fyrsmithlabs/snapsort/internal/cluster"
	"github.com/fyrsmithlabs/snapsort/internal/config"
	"github.com/fyrsmithlabs/snapsort/internal/exif"
	"github.com/fyrsmithlabs/snapsort/internal/extract"
	"github.com/fyrsmithlabs/snapsort/internal/photo"
	"github.com/fyrsmithlabs/snapsort/internal/report"
	"github.com/fyrsmithlabs/snapsort/internal/scan"
)

// Summary contains statistics from one pipeline run.
type Summary struct {
	Files      int           // Candidate files scanned
	Clusters   int           // Clusters produced
	Known      int           // Files with an extracted capture timestamp
	Unreadable int           // Files that were not decodable images
	Unparsable int           // Images with a missing or malformed timestamp
	ReportPath string        // Where the report landed
	Duration   time.Duration // Total pipeline time
}

// Runner executes the pipeline against a fixed configuration.
type Runner struct {
	cfg      *config.Config
	lister   *scan.Lister
	pool     *extract.Pool
	reporter *report.Writer
	packager *archive.Packager
	logger   *zap.Logger
}

// New builds a Runner from validated configuration. logger may be nil.
func New(cfg *config.Config, logger *zap.Logger) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	lister, err := scan.NewLister(cfg.Extensions, logger.Named("scan"))
	if err != nil {
		return nil, fmt.Errorf("create lister: %w", err)
	}

	extractor := exif.NewExtractor(logger.Named("exif"))
	pool, err := extract.NewPool(extractor, cfg.Concurrency, logger.Named("extract"))
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	return &Runner{
		cfg:      cfg,
		lister:   lister,
		pool:     pool,
		reporter: report.NewWriter(logger.Named("report")),
		packager: archive.NewPackager(logger.Named("archive")),
		logger:   logger,
	}, nil
}

// Once runs the full pipeline a single time: list candidate files, extract
// timestamps in parallel, sort, partition into clusters, write the report,
// and optionally package each cluster as a zip.
//
// Failing to enumerate the scan directory or to write the fallback report is
// fatal; everything per-file degrades to sentinel records and the run
// completes.
func (r *Runner) Once(ctx context.Context) (*Summary, error) {
	start := time.Now()

	paths, err := r.lister.List(r.cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", r.cfg.Path, err)
	}

	records, err := r.pool.ExtractAll(ctx, paths)
	if err != nil {
		return nil, err
	}

	cluster.Sort(records)
	clusters := cluster.Partition(records, r.cfg.ThresholdSeconds)

	reportPath, err := r.reporter.Write(clusters, r.cfg.Export, r.cfg.Path)
	if err != nil {
		return nil, err
	}

	if r.cfg.Package {
		if err := r.packager.Package(clusters, r.cfg.Path); err != nil {
			return nil, err
		}
	}

	summary := summarize(records, clusters, reportPath, time.Since(start))
	r.logger.Info("run complete",
		zap.Int("files", summary.Files),
		zap.Int("clusters", summary.Clusters),
		zap.Int("known", summary.Known),
		zap.Int("unreadable", summary.Unreadable),
		zap.Int("unparsable", summary.Unparsable),
		zap.Duration("duration", summary.Duration))
	return summary, nil
}

// summarize builds run statistics from the final record and cluster sets.
func summarize(records []photo.Record, clusters []cluster.Cluster, reportPath string, d time.Duration) *Summary {
	s := &Summary{
		Files:      len(records),
		Clusters:   len(clusters),
		ReportPath: reportPath,
		Duration:   d,
	}
	for _, rec := range records {
		switch rec.Taken.Kind() {
		case photo.KindUnreadable:
			s.Unreadable++
		case photo.KindUnparsable:
			s.Unparsable++
		default:
			s.Known++
		}
	}
	return s
}
