// Package exiftest builds small JPEG fixtures with controlled EXIF payloads
// for tests.
package exiftest

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const dateTimeTag = 0x0132

// TIFFWithDateTime builds a minimal little-endian TIFF whose IFD0 carries a
// single ASCII DateTime entry. The value must be longer than four bytes so
// the entry uses the offset form; EXIF timestamps always are.
func TIFFWithDateTime(t *testing.T, value string) []byte {
	t.Helper()

	val := append([]byte(value), 0)
	require.Greater(t, len(val), 4, "inline values need a different layout")

	buf := new(bytes.Buffer)
	buf.WriteString("II")
	binary.Write(buf, binary.LittleEndian, uint16(42))
	binary.Write(buf, binary.LittleEndian, uint32(8)) // IFD0 offset

	binary.Write(buf, binary.LittleEndian, uint16(1)) // one entry
	binary.Write(buf, binary.LittleEndian, uint16(dateTimeTag))
	binary.Write(buf, binary.LittleEndian, uint16(2)) // ASCII
	binary.Write(buf, binary.LittleEndian, uint32(len(val)))
	binary.Write(buf, binary.LittleEndian, uint32(26)) // value offset: 8+2+12+4
	binary.Write(buf, binary.LittleEndian, uint32(0))  // no next IFD
	buf.Write(val)
	return buf.Bytes()
}

// PlainJPEG encodes a tiny JPEG with no EXIF segment.
func PlainJPEG(t *testing.T) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})

	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return buf.Bytes()
}

// JPEGWithDateTime encodes a tiny JPEG carrying an APP1 Exif segment whose
// DateTime holds value, spliced right after the SOI marker.
func JPEGWithDateTime(t *testing.T, value string) []byte {
	t.Helper()

	raw := PlainJPEG(t)
	payload := append([]byte("Exif\x00\x00"), TIFFWithDateTime(t, value)...)
	segLen := len(payload) + 2

	out := make([]byte, 0, len(raw)+segLen+2)
	out = append(out, raw[:2]...) // SOI
	out = append(out, 0xFF, 0xE1, byte(segLen>>8), byte(segLen&0xFF))
	out = append(out, payload...)
	out = append(out, raw[2:]...)
	return out
}

// WriteFile writes data into dir under name and returns the full path.
func WriteFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}
