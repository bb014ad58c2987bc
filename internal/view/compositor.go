package view

import (
	"go.uber.org/zap"

	"github.com/inodb/vibe-seqview/internal/codon"
	"github.com/inodb/vibe-seqview/internal/record"
)

// HighlightStyle sets the fill used for highlight overlays.
type HighlightStyle struct {
	Color string
	Alpha float64
}

// DefaultHighlightStyle is a light grey band.
var DefaultHighlightStyle = HighlightStyle{Color: "#808080", Alpha: 0.1}

// Compositor builds full and detail views. It holds no per-request state and is
// safe for concurrent use once configured.
type Compositor struct {
	style  HighlightStyle
	logger *zap.Logger
}

// NewCompositor creates a compositor with the default highlight style.
func NewCompositor() *Compositor {
	return &Compositor{
		style:  DefaultHighlightStyle,
		logger: zap.NewNop(),
	}
}

// SetLogger sets the logger for debug messages.
func (c *Compositor) SetLogger(l *zap.Logger) {
	c.logger = l
}

// SetHighlightStyle sets the fill used by HighlightRegion.
func (c *Compositor) SetHighlightStyle(s HighlightStyle) {
	c.style = s
}

// BuildFullView returns the whole-sequence drawable for r.
func (c *Compositor) BuildFullView(r *record.Record) FullView {
	return FullView{
		Chrom:    r.Chrom(),
		Sequence: r.Sequence(),
		Features: r.Features(),
	}
}

// BuildDetailView crops r to [windowStart, windowEnd) and re-bases the
// translation window [translationStart, translationEnd) into the crop.
// Range errors from the crop are returned unchanged.
func (c *Compositor) BuildDetailView(r *record.Record, windowStart, windowEnd, translationStart, translationEnd int) (*DetailView, error) {
	crop, err := r.Crop(windowStart, windowEnd)
	if err != nil {
		return nil, err
	}

	if translationStart < windowStart || translationEnd > windowEnd || translationStart >= translationEnd {
		return nil, &InvalidTranslationWindowError{
			Start:       translationStart,
			End:         translationEnd,
			WindowStart: windowStart,
			WindowEnd:   windowEnd,
		}
	}

	ts, te := record.Rebase(translationStart, translationEnd, windowStart, windowEnd)

	c.logger.Debug("built detail view",
		zap.String("chrom", r.Chrom()),
		zap.Int("window_start", windowStart),
		zap.Int("window_end", windowEnd),
		zap.Int("feature_count", crop.FeatureCount()))

	return &DetailView{
		Crop:        crop,
		WindowStart: windowStart,
		WindowEnd:   windowEnd,
		Translation: TranslationWindow{Start: ts, End: te},
	}, nil
}

// HighlightRegion returns the overlay rectangle for [windowStart, windowEnd] on full.
func (c *Compositor) HighlightRegion(full FullView, windowStart, windowEnd int) Highlight {
	return Highlight{
		Start:      windowStart,
		End:        windowEnd,
		SeqLen:     full.Len(),
		FullHeight: true,
		Color:      c.style.Color,
		Alpha:      c.style.Alpha,
	}
}

// AminoAcids translates the codons inside the translation window.
// Forward reads left to right from the window start; Reverse reads the reverse
// complement from the window end. A trailing partial codon is dropped.
func (v *DetailView) AminoAcids(strand record.Strand) []AminoAcid {
	w := v.Translation
	seq := v.Crop.Sequence()[w.Start:w.End]
	if strand == record.Reverse {
		seq = codon.ReverseComplement(seq)
	}
	protein := codon.TranslateSequence(seq)
	if len(protein) == 0 {
		return nil
	}

	out := make([]AminoAcid, len(protein))
	for i := 0; i < len(protein); i++ {
		aa := AminoAcid{Start: w.Start + 3*i, End: w.Start + 3*i + 3, Letter: protein[i]}
		if strand == record.Reverse {
			aa.Start, aa.End = w.End-3*i-3, w.End-3*i
		}
		out[i] = aa
	}
	return out
}

var defaultCompositor = NewCompositor()

// BuildFullView builds a full view with the default compositor.
func BuildFullView(r *record.Record) FullView {
	return defaultCompositor.BuildFullView(r)
}

// BuildDetailView builds a detail view with the default compositor.
func BuildDetailView(r *record.Record, windowStart, windowEnd, translationStart, translationEnd int) (*DetailView, error) {
	return defaultCompositor.BuildDetailView(r, windowStart, windowEnd, translationStart, translationEnd)
}

// HighlightRegion builds a highlight with the default compositor.
func HighlightRegion(full FullView, windowStart, windowEnd int) Highlight {
	return defaultCompositor.HighlightRegion(full, windowStart, windowEnd)
}
