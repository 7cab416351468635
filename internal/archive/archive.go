// Package archive materializes clusters as per-cluster zip files.
package archive

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zip"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/snapsort/internal/cluster"
)

// PackagedDirName is the subdirectory of the scan directory that receives the
// archives.
const PackagedDirName = "packaged"

// Packager writes one deflate-compressed zip per cluster.
type Packager struct {
	logger *zap.Logger
}

// NewPackager creates a Packager. logger may be nil.
func NewPackager(logger *zap.Logger) *Packager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Packager{logger: logger}
}

// Package writes one archive per cluster under scanDir/packaged. Each archive
// is named after the basename of the cluster's anchor with a .zip suffix, and
// stores every member under its basename.
func (p *Packager) Package(clusters []cluster.Cluster, scanDir string) error {
	if len(clusters) == 0 {
		return nil
	}

	outDir := filepath.Join(scanDir, PackagedDirName)
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", outDir, err)
	}

	p.logger.Info("packaging clusters",
		zap.Int("clusters", len(clusters)),
		zap.String("dir", outDir))

	for _, c := range clusters {
		zipPath := filepath.Join(outDir, filepath.Base(c.Anchor().Path)+".zip")
		if err := p.writeZip(zipPath, c); err != nil {
			return fmt.Errorf("package cluster %s: %w", zipPath, err)
		}
	}
	return nil
}

// writeZip writes a single cluster archive.
func (p *Packager) writeZip(zipPath string, c cluster.Cluster) error {
	p.logger.Debug("creating archive", zap.String("path", zipPath))

	f, err := os.Create(zipPath)
	if err != nil {
		return fmt.Errorf("create archive: %w", err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	for _, rec := range c.Records {
		if err := p.addFile(zw, rec.Path); err != nil {
			zw.Close()
			return err
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("finalize archive: %w", err)
	}
	return f.Close()
}

// addFile stores one member under its basename using deflate.
func (p *Packager) addFile(zw *zip.Writer, path string) error {
	p.logger.Debug("inserting file", zap.String("path", path))

	src, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open member %s: %w", path, err)
	}
	defer src.Close()

	w, err := zw.CreateHeader(&zip.FileHeader{
		Name:   filepath.Base(path),
		Method: zip.Deflate,
	})
	if err != nil {
		return fmt.Errorf("add member %s: %w", path, err)
	}
	if _, err := io.Copy(w, src); err != nil {
		return fmt.Errorf("compress member %s: %w", path, err)
	}
	return nil
}
