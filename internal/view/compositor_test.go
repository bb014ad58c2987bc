package view

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/inodb/vibe-seqview/internal/record"
)

func fusionRecord(t *testing.T) *record.Record {
	t.Helper()
	r, err := record.New("12", strings.Repeat("ATGGCC", 166)+"ATGG", []record.Feature{
		{Start: 20, End: 500, Strand: record.Forward, Label: "Reference Sequence"},
		{Start: 400, End: 700, Strand: record.Reverse, Label: "Gene 1"},
		{Start: 600, End: 900, Strand: record.Forward, Label: "Gene 2"},
	})
	require.NoError(t, err)
	require.Equal(t, 1000, r.Len())
	return r
}

func TestBuildFullView_PassThrough(t *testing.T) {
	r := fusionRecord(t)
	full := BuildFullView(r)

	assert.Equal(t, "12", full.Chrom)
	assert.Equal(t, r.Sequence(), full.Sequence)
	assert.Equal(t, r.Features(), full.Features)
	assert.Equal(t, 1000, full.Len())
}

func TestBuildDetailView(t *testing.T) {
	r := fusionRecord(t)

	dv, err := BuildDetailView(r, 398, 428, 408, 423)
	require.NoError(t, err)

	assert.Equal(t, 398, dv.WindowStart)
	assert.Equal(t, 428, dv.WindowEnd)
	assert.Equal(t, TranslationWindow{Start: 10, End: 25}, dv.Translation)
	assert.Equal(t, 15, dv.Translation.Len())
	assert.Equal(t, 30, dv.Crop.Len())

	feats := dv.Crop.Features()
	require.Len(t, feats, 2)
	assert.Equal(t, "Gene 1", feats[1].Label)
	assert.Equal(t, 2, feats[1].Start)
	assert.Equal(t, 30, feats[1].End)
	assert.Equal(t, record.Reverse, feats[1].Strand)
}

func TestBuildDetailView_TranslationAtWindowEdges(t *testing.T) {
	r := fusionRecord(t)

	dv, err := BuildDetailView(r, 398, 428, 398, 428)
	require.NoError(t, err)
	assert.Equal(t, TranslationWindow{Start: 0, End: 30}, dv.Translation)
}

func TestBuildDetailView_PropagatesRangeError(t *testing.T) {
	r := fusionRecord(t)

	dv, err := BuildDetailView(r, 0, 1001, 10, 20)
	assert.Nil(t, dv)
	var re *record.InvalidRangeError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, 1001, re.End)
}

func TestBuildDetailView_InvalidTranslationWindow(t *testing.T) {
	r := fusionRecord(t)

	tests := []struct {
		name   string
		ts, te int
	}{
		{"starts before window", 397, 420},
		{"ends after window", 400, 429},
		{"empty", 410, 410},
		{"inverted", 420, 410},
		{"entirely outside", 500, 520},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dv, err := BuildDetailView(r, 398, 428, tt.ts, tt.te)
			assert.Nil(t, dv)
			var te *InvalidTranslationWindowError
			require.ErrorAs(t, err, &te)
			assert.Equal(t, tt.ts, te.Start)
			assert.Equal(t, tt.te, te.End)
			assert.Equal(t, 398, te.WindowStart)
			assert.Equal(t, 428, te.WindowEnd)
			assert.Contains(t, err.Error(), "[398, 428]")
		})
	}
}

func TestHighlightRegion(t *testing.T) {
	r := fusionRecord(t)
	full := BuildFullView(r)

	h := HighlightRegion(full, 398, 428)
	assert.Equal(t, 398, h.Start)
	assert.Equal(t, 428, h.End)
	assert.Equal(t, 1000, h.SeqLen)
	assert.True(t, h.FullHeight)
	assert.Equal(t, DefaultHighlightStyle.Color, h.Color)
	assert.InDelta(t, DefaultHighlightStyle.Alpha, h.Alpha, 1e-9)
}

func TestCompositor_HighlightStyle(t *testing.T) {
	c := NewCompositor()
	c.SetHighlightStyle(HighlightStyle{Color: "#ff0000", Alpha: 0.3})

	h := c.HighlightRegion(FullView{Sequence: "ACGT"}, 1, 3)
	assert.Equal(t, "#ff0000", h.Color)
	assert.InDelta(t, 0.3, h.Alpha, 1e-9)
}

func TestCompositor_LogsDetailView(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	c := NewCompositor()
	c.SetLogger(zap.New(core))

	_, err := c.BuildDetailView(fusionRecord(t), 398, 428, 408, 423)
	require.NoError(t, err)

	entries := logs.FilterMessage("built detail view").All()
	require.Len(t, entries, 1)
	assert.EqualValues(t, 2, entries[0].ContextMap()["feature_count"])
}

func TestAminoAcids_Forward(t *testing.T) {
	// Local sequence: NN ATG GCC TAA GG
	r, err := record.New("1", "NNATGGCCTAAGG", nil)
	require.NoError(t, err)

	dv, err := BuildDetailView(r, 0, 13, 2, 13)
	require.NoError(t, err)

	aas := dv.AminoAcids(record.Forward)
	require.Len(t, aas, 3, "trailing partial codon dropped")
	assert.Equal(t, AminoAcid{Start: 2, End: 5, Letter: 'M'}, aas[0])
	assert.Equal(t, AminoAcid{Start: 5, End: 8, Letter: 'A'}, aas[1])
	assert.Equal(t, AminoAcid{Start: 8, End: 11, Letter: '*'}, aas[2])
}

func TestAminoAcids_Reverse(t *testing.T) {
	// Reverse complement of TTACAT is ATGTAA: Met, Stop, read from the right.
	r, err := record.New("1", "GTTACATG", nil)
	require.NoError(t, err)

	dv, err := BuildDetailView(r, 0, 8, 1, 7)
	require.NoError(t, err)

	aas := dv.AminoAcids(record.Reverse)
	require.Len(t, aas, 2)
	assert.Equal(t, AminoAcid{Start: 4, End: 7, Letter: 'M'}, aas[0])
	assert.Equal(t, AminoAcid{Start: 1, End: 4, Letter: '*'}, aas[1])
}

func TestAminoAcids_ShortWindow(t *testing.T) {
	r, err := record.New("1", "ACGTACGT", nil)
	require.NoError(t, err)

	dv, err := BuildDetailView(r, 0, 8, 3, 5)
	require.NoError(t, err)
	assert.Empty(t, dv.AminoAcids(record.Forward))
}
