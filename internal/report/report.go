// Package report writes the per-run cluster report.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/snapsort/internal/cluster"
)

// DefaultName is the report filename used inside the scanned directory when
// no export path is given or the given one cannot be written.
const DefaultName = "result.txt"

// Writer renders a cluster list as a text report, one line per cluster.
type Writer struct {
	logger *zap.Logger
}

// NewWriter creates a report writer. logger may be nil.
func NewWriter(logger *zap.Logger) *Writer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Writer{logger: logger}
}

// Write renders clusters to exportPath, or to DefaultName inside scanDir when
// exportPath is empty. A failure at an explicit exportPath is recoverable: it
// is logged and the writer falls back to the default path. A failure at the
// fallback is returned to the caller and is fatal for the run.
//
// Write returns the path the report actually landed at.
func (w *Writer) Write(clusters []cluster.Cluster, exportPath, scanDir string) (string, error) {
	fallback := filepath.Join(scanDir, DefaultName)

	path := exportPath
	if path == "" {
		path = fallback
	}

	if err := w.writeFile(path, clusters); err != nil {
		if path == fallback {
			return "", fmt.Errorf("write report %s: %w", path, err)
		}
		w.logger.Warn("cannot write report, using default path",
			zap.String("path", path),
			zap.String("fallback", fallback),
			zap.Error(err))
		if err := w.writeFile(fallback, clusters); err != nil {
			return "", fmt.Errorf("write report %s: %w", fallback, err)
		}
		path = fallback
	}

	w.logger.Info("report written",
		zap.String("path", path),
		zap.Int("clusters", len(clusters)))
	return path, nil
}

// writeFile renders one line per cluster: the ordered member paths inside
// brackets, space-separated.
func (w *Writer) writeFile(path string, clusters []cluster.Cluster) error {
	var b strings.Builder
	for _, c := range clusters {
		fmt.Fprintf(&b, "[%s]\n", strings.Join(c.Paths(), " "))
	}
	return os.WriteFile(path, []byte(b.String()), 0o644)
}
