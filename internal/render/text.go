package render

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/inodb/vibe-seqview/internal/record"
	"github.com/inodb/vibe-seqview/internal/view"
)

// TextRenderer writes views as tab-delimited blocks: a header, one row per
// feature, the sequence and, for detail views, an aligned amino-acid line.
type TextRenderer struct {
	w       *bufio.Writer
	columns []string
}

// NewTextRenderer creates a new text renderer.
func NewTextRenderer(w io.Writer) *TextRenderer {
	return &TextRenderer{
		w:       bufio.NewWriter(w),
		columns: []string{"#Start", "End", "Strand", "Label", "Color"},
	}
}

// RenderFull writes the whole-sequence view and its highlight bands.
func (tr *TextRenderer) RenderFull(full view.FullView, highlights []view.Highlight) error {
	fmt.Fprintf(tr.w, "##view=full\n##chrom=%s\n##length=%d\n", dash(full.Chrom), full.Len())
	for _, h := range highlights {
		fmt.Fprintf(tr.w, "##highlight=%d-%d color=%s alpha=%s\n",
			h.Start, h.End, h.Color, strconv.FormatFloat(h.Alpha, 'g', -1, 64))
	}
	if err := tr.writeFeatures(full.Features); err != nil {
		return err
	}
	_, err := tr.w.WriteString("SEQ\t" + full.Sequence + "\n\n")
	return err
}

// RenderDetail writes a cropped view with its translation overlay.
func (tr *TextRenderer) RenderDetail(dv *view.DetailView, aminoAcids []view.AminoAcid) error {
	crop := dv.Crop
	fmt.Fprintf(tr.w, "##view=detail\n##chrom=%s\n##window=%d-%d\n##translation=%d-%d\n",
		dash(crop.Chrom()), dv.WindowStart, dv.WindowEnd, dv.Translation.Start, dv.Translation.End)
	if err := tr.writeFeatures(crop.Features()); err != nil {
		return err
	}
	if _, err := tr.w.WriteString("SEQ\t" + crop.Sequence() + "\n"); err != nil {
		return err
	}
	_, err := tr.w.WriteString("AA\t" + overlayLine(crop.Len(), aminoAcids) + "\n\n")
	return err
}

func (tr *TextRenderer) writeFeatures(features []record.Feature) error {
	if _, err := tr.w.WriteString(strings.Join(tr.columns, "\t") + "\n"); err != nil {
		return err
	}
	for _, f := range features {
		values := []string{
			strconv.Itoa(f.Start),
			strconv.Itoa(f.End),
			f.Strand.String(),
			dash(f.Label),
			dash(f.Color),
		}
		if _, err := tr.w.WriteString(strings.Join(values, "\t") + "\n"); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes any buffered data to the underlying writer.
func (tr *TextRenderer) Flush() error {
	return tr.w.Flush()
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
