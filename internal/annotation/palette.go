package annotation

import "github.com/inodb/vibe-seqview/internal/record"

// Palette assigns default display colors by strand.
type Palette struct {
	Forward string
	Reverse string
}

// DefaultPalette is gold for forward and pink for reverse features.
var DefaultPalette = Palette{Forward: "#ffd700", Reverse: "#ffcccc"}

// Apply returns a copy of features with empty colors filled from the palette.
func (p Palette) Apply(features []record.Feature) []record.Feature {
	out := make([]record.Feature, len(features))
	for i, f := range features {
		if f.Color == "" {
			if f.IsReverseStrand() {
				f.Color = p.Reverse
			} else {
				f.Color = p.Forward
			}
		}
		out[i] = f
	}
	return out
}
