package render

import (
	"bufio"
	"io"

	"github.com/goccy/go-json"

	"github.com/inodb/vibe-seqview/internal/codon"
	"github.com/inodb/vibe-seqview/internal/record"
	"github.com/inodb/vibe-seqview/internal/view"
)

// JSONRenderer writes one JSON document per view, newline-delimited.
type JSONRenderer struct {
	w   *bufio.Writer
	enc *json.Encoder
}

// NewJSONRenderer creates a new JSON renderer.
func NewJSONRenderer(w io.Writer) *JSONRenderer {
	bw := bufio.NewWriter(w)
	return &JSONRenderer{w: bw, enc: json.NewEncoder(bw)}
}

// FeatureDoc is the JSON form of a feature.
type FeatureDoc struct {
	Start  int    `json:"start"`
	End    int    `json:"end"`
	Strand int    `json:"strand"`
	Label  string `json:"label"`
	Color  string `json:"color,omitempty"`
}

// HighlightDoc is the JSON form of a highlight band.
type HighlightDoc struct {
	Start      int     `json:"start"`
	End        int     `json:"end"`
	FullHeight bool    `json:"full_height"`
	Color      string  `json:"color"`
	Alpha      float64 `json:"alpha"`
}

// AminoAcidDoc is one overlay letter.
type AminoAcidDoc struct {
	Start  int    `json:"start"`
	End    int    `json:"end"`
	Letter string `json:"letter"`
	Code   string `json:"code,omitempty"`
}

// RangeDoc is a half-open range.
type RangeDoc struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// ViewDoc is the document written for both full and detail views.
type ViewDoc struct {
	View        string         `json:"view"`
	Chrom       string         `json:"chrom,omitempty"`
	Length      int            `json:"length"`
	Sequence    string         `json:"sequence"`
	Features    []FeatureDoc   `json:"features"`
	Highlights  []HighlightDoc `json:"highlights,omitempty"`
	Window      *RangeDoc      `json:"window,omitempty"`
	Translation *RangeDoc      `json:"translation,omitempty"`
	AminoAcids  []AminoAcidDoc `json:"amino_acids,omitempty"`
}

// RenderFull writes the whole-sequence view document.
func (jr *JSONRenderer) RenderFull(full view.FullView, highlights []view.Highlight) error {
	doc := ViewDoc{
		View:     "full",
		Chrom:    full.Chrom,
		Length:   full.Len(),
		Sequence: full.Sequence,
		Features: featureDocs(full.Features),
	}
	for _, h := range highlights {
		doc.Highlights = append(doc.Highlights, HighlightDoc{
			Start: h.Start, End: h.End, FullHeight: h.FullHeight, Color: h.Color, Alpha: h.Alpha,
		})
	}
	return jr.enc.Encode(doc)
}

// RenderDetail writes the detail view document.
func (jr *JSONRenderer) RenderDetail(dv *view.DetailView, aminoAcids []view.AminoAcid) error {
	crop := dv.Crop
	doc := ViewDoc{
		View:        "detail",
		Chrom:       crop.Chrom(),
		Length:      crop.Len(),
		Sequence:    crop.Sequence(),
		Features:    featureDocs(crop.Features()),
		Window:      &RangeDoc{Start: dv.WindowStart, End: dv.WindowEnd},
		Translation: &RangeDoc{Start: dv.Translation.Start, End: dv.Translation.End},
	}
	for _, aa := range aminoAcids {
		doc.AminoAcids = append(doc.AminoAcids, AminoAcidDoc{
			Start:  aa.Start,
			End:    aa.End,
			Letter: string(aa.Letter),
			Code:   codon.AminoAcidSingleToThree[aa.Letter],
		})
	}
	return jr.enc.Encode(doc)
}

// Flush flushes any buffered data to the underlying writer.
func (jr *JSONRenderer) Flush() error {
	return jr.w.Flush()
}

func featureDocs(features []record.Feature) []FeatureDoc {
	docs := make([]FeatureDoc, len(features))
	for i, f := range features {
		docs[i] = FeatureDoc{
			Start:  f.Start,
			End:    f.End,
			Strand: int(f.Strand),
			Label:  f.Label,
			Color:  f.Color,
		}
	}
	return docs
}
