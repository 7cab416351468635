// Package photo defines the records produced by timestamp extraction and
// consumed by clustering.
package photo

import "fmt"

// TakenKind classifies how a capture timestamp was (or was not) obtained.
type TakenKind int

const (
	// KindKnown means a capture timestamp was read from the file's metadata.
	KindKnown TakenKind = iota

	// KindUnreadable means the file could not be decoded as an image at all.
	KindUnreadable

	// KindUnparsable means the image decoded but the capture timestamp was
	// missing or malformed.
	KindUnparsable
)

// Taken is a tagged capture timestamp. The two failure kinds are explicit
// variants rather than magic epoch values, so a genuine photo taken near the
// epoch can never be mistaken for a failed extraction.
//
// For ordering purposes both failure kinds share a single synthetic epoch of
// zero: they sort together, below every real timestamp, and merge into one
// leading cluster with any genuinely epoch-zero records. That collapse is
// deliberate and matches the behavior clustering is specified against.
type Taken struct {
	kind TakenKind
	unix int64
}

// Known returns a Taken carrying a real capture timestamp in epoch seconds.
func Known(unix int64) Taken {
	return Taken{kind: KindKnown, unix: unix}
}

// Unreadable returns the variant for files that are not decodable images.
func Unreadable() Taken {
	return Taken{kind: KindUnreadable}
}

// Unparsable returns the variant for images with a missing or malformed
// capture timestamp.
func Unparsable() Taken {
	return Taken{kind: KindUnparsable}
}

// Kind returns the classification of this timestamp.
func (t Taken) Kind() TakenKind {
	return t.kind
}

// IsKnown reports whether a real capture timestamp was extracted.
func (t Taken) IsKnown() bool {
	return t.kind == KindKnown
}

// Epoch returns the value this timestamp sorts and clusters by: the real
// epoch seconds for Known, and zero for both failure variants.
func (t Taken) Epoch() int64 {
	if t.kind == KindKnown {
		return t.unix
	}
	return 0
}

// String implements fmt.Stringer for log output.
func (t Taken) String() string {
	switch t.kind {
	case KindUnreadable:
		return "unreadable"
	case KindUnparsable:
		return "unparsable"
	default:
		return fmt.Sprintf("%d", t.unix)
	}
}

// Record pairs a file path with its extracted capture timestamp. Records are
// immutable once created.
type Record struct {
	Path  string
	Taken Taken
}
