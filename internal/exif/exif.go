// Package exif extracts capture timestamps from image files.
//
// Extraction is deliberately forgiving: every failure path resolves to one of
// the photo.Taken sentinel variants instead of an error, so a single bad file
// never aborts a batch.
package exif

import (
	"image"
	"os"
	"time"

	// Image formats recognized when deciding whether a file is readable.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	goexif "github.com/rwcarlsen/goexif/exif"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/snapsort/internal/photo"
)

// timeLayout is the EXIF DateTime format (tag 0x0132), e.g.
// "2024:06:01 14:03:59".
const timeLayout = "2006:01:02 15:04:05"

// Extractor reads the EXIF DateTime field from image files.
//
// EXIF DateTime carries no time zone, so the string is interpreted in the
// process's local zone. Absolute epoch values therefore depend on where the
// tool runs; relative gaps between photos from one camera do not, which is
// what clustering cares about.
type Extractor struct {
	logger *zap.Logger
}

// NewExtractor creates an Extractor. logger may be nil.
func NewExtractor(logger *zap.Logger) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{logger: logger}
}

// Extract returns a record for path. It never returns an error: files that
// cannot be decoded as images yield an unreadable record, images without a
// usable DateTime yield an unparsable one. Both cases are logged at warn.
// Extract is safe for concurrent use; it holds no shared mutable state.
func (e *Extractor) Extract(path string) photo.Record {
	if !e.decodable(path) {
		return photo.Record{Path: path, Taken: photo.Unreadable()}
	}

	unix, ok := e.dateTime(path)
	if !ok {
		return photo.Record{Path: path, Taken: photo.Unparsable()}
	}
	return photo.Record{Path: path, Taken: photo.Known(unix)}
}

// decodable reports whether path holds an image in a registered format.
func (e *Extractor) decodable(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		e.logger.Warn("cannot open file", zap.String("path", path), zap.Error(err))
		return false
	}
	defer f.Close()

	if _, _, err := image.DecodeConfig(f); err != nil {
		e.logger.Warn("not a readable image", zap.String("path", path), zap.Error(err))
		return false
	}
	return true
}

// dateTime reads and parses the EXIF DateTime tag from path.
func (e *Extractor) dateTime(path string) (int64, bool) {
	f, err := os.Open(path)
	if err != nil {
		e.logger.Warn("cannot reopen file", zap.String("path", path), zap.Error(err))
		return 0, false
	}
	defer f.Close()

	x, err := goexif.Decode(f)
	if err != nil {
		e.logger.Warn("no exif data", zap.String("path", path), zap.Error(err))
		return 0, false
	}

	tag, err := x.Get(goexif.DateTime)
	if err != nil {
		e.logger.Warn("exif DateTime missing", zap.String("path", path), zap.Error(err))
		return 0, false
	}

	s, err := tag.StringVal()
	if err != nil {
		e.logger.Warn("exif DateTime not a string", zap.String("path", path), zap.Error(err))
		return 0, false
	}

	// Naive local-time interpretation; see the Extractor doc comment.
	t, err := time.ParseInLocation(timeLayout, s, time.Local)
	if err != nil {
		e.logger.Warn("exif DateTime malformed",
			zap.String("path", path),
			zap.String("value", s),
			zap.Error(err))
		return 0, false
	}
	return t.Unix(), true
}
