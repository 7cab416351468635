// Package scan enumerates candidate image files in a directory.
package scan

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// Lister produces the candidate file set for one scan directory. Listing is
// non-recursive: subdirectories are not descended into.
type Lister struct {
	extensions map[string]bool
	logger     *zap.Logger
}

// NewLister creates a Lister that accepts files with the given extensions.
// Matching is case-insensitive and each extension must include its leading
// dot. logger may be nil.
func NewLister(extensions []string, logger *zap.Logger) (*Lister, error) {
	if len(extensions) == 0 {
		return nil, fmt.Errorf("at least one extension is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	exts := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		if !strings.HasPrefix(ext, ".") {
			return nil, fmt.Errorf("extension %q must start with a dot", ext)
		}
		exts[strings.ToLower(ext)] = true
	}
	return &Lister{extensions: exts, logger: logger}, nil
}

// List returns the matching file paths directly under dir, joined with dir,
// in directory order. A directory that cannot be enumerated is a hard error;
// callers treat it as fatal for the run.
func (l *Lister) List(dir string) ([]string, error) {
	cleanDir := filepath.Clean(dir)

	// The *PathError already names the operation and path; wrapping it with
	// another "stat <dir>" prefix would just stutter.
	info, err := os.Stat(cleanDir)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", cleanDir)
	}

	l.logger.Info("scanning directory", zap.String("dir", cleanDir))

	entries, err := os.ReadDir(cleanDir)
	if err != nil {
		return nil, fmt.Errorf("read directory %s: %w", cleanDir, err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if !l.Match(entry.Name()) {
			continue
		}
		paths = append(paths, filepath.Join(cleanDir, entry.Name()))
	}

	l.logger.Info("found files", zap.Int("count", len(paths)))
	return paths, nil
}

// Match reports whether name carries one of the configured extensions.
func (l *Lister) Match(name string) bool {
	return l.extensions[strings.ToLower(filepath.Ext(name))]
}
