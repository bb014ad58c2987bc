// Package view composes full and detail views of a sequence record for rendering.
package view

import (
	"fmt"

	"github.com/inodb/vibe-seqview/internal/record"
)

// FullView is the whole-sequence drawable: the record's sequence and features as-is.
type FullView struct {
	Chrom    string
	Sequence string
	Features []record.Feature
}

// Len returns the sequence length.
func (v FullView) Len() int {
	return len(v.Sequence)
}

// TranslationWindow is a range over which amino-acid letters are overlaid.
type TranslationWindow struct {
	Start int
	End   int
}

// Len returns the window length in bases.
func (w TranslationWindow) Len() int {
	return w.End - w.Start
}

// DetailView is a cropped record plus its translation window in crop-local coordinates.
type DetailView struct {
	Crop        *record.Record
	WindowStart int // absolute
	WindowEnd   int // absolute, exclusive
	Translation TranslationWindow
}

// Highlight describes a rectangle over [Start, End] on the full view that links
// it to a detail crop.
type Highlight struct {
	Start      int
	End        int
	SeqLen     int
	FullHeight bool // spans the whole vertical extent of the plot
	Color      string
	Alpha      float64
}

// AminoAcid is one translated codon placed at crop-local coordinates.
type AminoAcid struct {
	Start  int
	End    int
	Letter byte
}

// InvalidTranslationWindowError reports a translation window outside the crop
// window or with zero or negative length.
type InvalidTranslationWindowError struct {
	Start       int
	End         int
	WindowStart int
	WindowEnd   int
}

func (e *InvalidTranslationWindowError) Error() string {
	return fmt.Sprintf("invalid translation window [%d, %d): must be non-empty and within crop window [%d, %d]",
		e.Start, e.End, e.WindowStart, e.WindowEnd)
}
