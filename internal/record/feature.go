// Package record provides the immutable sequence record and its windowing operations.
package record

import (
	"fmt"
	"strings"
)

// Strand is the orientation of a feature relative to the reference sequence.
type Strand int8

const (
	Forward Strand = 1
	Reverse Strand = -1
)

// ParseStrand parses "+", "-", "+1", "-1", "1".
func ParseStrand(s string) (Strand, error) {
	switch strings.TrimSpace(s) {
	case "+", "+1", "1":
		return Forward, nil
	case "-", "-1":
		return Reverse, nil
	}
	return 0, fmt.Errorf("invalid strand %q", s)
}

// String returns "+" or "-".
func (s Strand) String() string {
	if s == Reverse {
		return "-"
	}
	return "+"
}

// Feature is a labeled, directional span over sequence coordinates.
type Feature struct {
	Start  int    // 0-based, inclusive
	End    int    // 0-based, exclusive
	Strand Strand // +1 or -1
	Label  string // Display label (e.g., gene symbol)
	Color  string // Display-only, opaque to the core
}

// Len returns the span length.
func (f Feature) Len() int {
	return f.End - f.Start
}

// IsReverseStrand returns true if the feature is on the reverse strand.
func (f Feature) IsReverseStrand() bool {
	return f.Strand == Reverse
}

// Overlaps reports whether the feature shares at least one base with [start, end).
func (f Feature) Overlaps(start, end int) bool {
	return max(f.Start, start) < min(f.End, end)
}

// rebase clips the feature to [start, end) and shifts it to the window origin.
func (f Feature) rebase(start, end int) Feature {
	f.Start, f.End = Rebase(f.Start, f.End, start, end)
	return f
}
