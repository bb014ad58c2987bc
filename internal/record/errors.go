package record

import "fmt"

// InvalidFeatureError reports a feature that violates 0 <= start < end <= length.
type InvalidFeatureError struct {
	Index  int
	Label  string
	Start  int
	End    int
	SeqLen int
}

func (e *InvalidFeatureError) Error() string {
	return fmt.Sprintf("invalid feature %d (%q): span [%d, %d) not within sequence of length %d",
		e.Index, e.Label, e.Start, e.End, e.SeqLen)
}

// InvalidRangeError reports a crop window that is malformed or out of bounds.
type InvalidRangeError struct {
	Start  int
	End    int
	SeqLen int
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("invalid range [%d, %d) for sequence of length %d", e.Start, e.End, e.SeqLen)
}
