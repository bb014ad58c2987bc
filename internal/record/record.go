package record

import "slices"

// Record is an immutable reference sequence together with its annotated features.
// Windowing operations return new records and never modify the receiver.
type Record struct {
	chrom    string
	sequence string
	features []Feature
	idx      *index
}

// New validates features against the sequence and returns an immutable record.
// Feature order is kept as given; it is the rendering order.
func New(chrom, sequence string, features []Feature) (*Record, error) {
	n := len(sequence)
	for i, f := range features {
		if f.Start < 0 || f.Start >= f.End || f.End > n {
			return nil, &InvalidFeatureError{
				Index:  i,
				Label:  f.Label,
				Start:  f.Start,
				End:    f.End,
				SeqLen: n,
			}
		}
	}

	feats := slices.Clone(features)
	return &Record{
		chrom:    chrom,
		sequence: sequence,
		features: feats,
		idx:      buildIndex(feats),
	}, nil
}

// Chrom returns the chromosome identifier, empty for derived views without one.
func (r *Record) Chrom() string {
	return r.chrom
}

// Sequence returns the nucleotide sequence.
func (r *Record) Sequence() string {
	return r.sequence
}

// Len returns the sequence length.
func (r *Record) Len() int {
	return len(r.sequence)
}

// Features returns a copy of the features in insertion order.
func (r *Record) Features() []Feature {
	return slices.Clone(r.features)
}

// FeatureCount returns the number of features.
func (r *Record) FeatureCount() int {
	return len(r.features)
}

// Overlapping returns the features, in record coordinates and insertion order,
// that share at least one base with [start, end). Features that only touch a
// boundary are not returned.
func (r *Record) Overlapping(start, end int) []Feature {
	positions := r.idx.overlapping(start, end)
	if len(positions) == 0 {
		return nil
	}
	out := make([]Feature, len(positions))
	for i, p := range positions {
		out[i] = r.features[p]
	}
	return out
}

// Crop returns the record restricted to [start, end), with overlapping features
// clipped and re-based to the window origin.
func (r *Record) Crop(start, end int) (*Record, error) {
	n := len(r.sequence)
	if start < 0 || start >= end || end > n {
		return nil, &InvalidRangeError{Start: start, End: end, SeqLen: n}
	}

	overlaps := r.Overlapping(start, end)
	feats := make([]Feature, len(overlaps))
	for i, f := range overlaps {
		feats[i] = f.rebase(start, end)
	}

	return &Record{
		chrom:    r.chrom,
		sequence: r.sequence[start:end],
		features: feats,
		idx:      buildIndex(feats),
	}, nil
}

// Rebase maps an absolute coordinate range into a window starting at origin and
// ending at limit, using the same clipping as feature re-basing.
func Rebase(start, end, origin, limit int) (int, int) {
	return max(0, start-origin), min(limit, end) - origin
}
