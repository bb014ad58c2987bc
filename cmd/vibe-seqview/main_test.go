package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/vibe-seqview/internal/render"
	"github.com/inodb/vibe-seqview/internal/view"
)

// execute runs the root command with a clean config and an isolated HOME.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	viper.Reset()

	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

// writeFixtures writes a 1000 bp chromosome 12 FASTA and the fusion feature TSV.
func writeFixtures(t *testing.T) (fastaPath, featuresPath string) {
	t.Helper()
	dir := t.TempDir()

	seq := strings.Repeat("ATGGCC", 166) + "ATGG"
	var wrapped strings.Builder
	wrapped.WriteString(">chr12 test\n")
	for i := 0; i < len(seq); i += 60 {
		wrapped.WriteString(strings.ToLower(seq[i:min(i+60, len(seq))]) + "\n")
	}
	fastaPath = filepath.Join(dir, "chr12.fa")
	require.NoError(t, os.WriteFile(fastaPath, []byte(wrapped.String()), 0644))

	featuresPath = filepath.Join(dir, "genes.tsv")
	require.NoError(t, os.WriteFile(featuresPath, []byte(
		"20\t500\t+\tReference Sequence\n"+
			"400\t700\t-\tGene 1\n"+
			"600\t900\t+\tGene 2\n"), 0644))
	return fastaPath, featuresPath
}

func TestView_JSON(t *testing.T) {
	fastaPath, featuresPath := writeFixtures(t)

	out, err := execute(t, "view",
		"--fasta", fastaPath, "--chrom", "chr12", "--features", featuresPath,
		"--window", "398:428", "--translate", "408:423", "-f", "json")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)

	var full render.ViewDoc
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &full))
	assert.Equal(t, "12", full.Chrom)
	assert.Equal(t, 1000, full.Length)
	require.Len(t, full.Features, 3)
	assert.Equal(t, "#ffcccc", full.Features[1].Color, "reverse strand palette color")
	require.Len(t, full.Highlights, 1)
	assert.Equal(t, 398, full.Highlights[0].Start)
	assert.Equal(t, 428, full.Highlights[0].End)

	var detail render.ViewDoc
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &detail))
	assert.Equal(t, 30, detail.Length)
	assert.Equal(t, &render.RangeDoc{Start: 10, End: 25}, detail.Translation)
	require.Len(t, detail.Features, 2)
	assert.Equal(t, "Gene 1", detail.Features[1].Label)
	assert.Equal(t, 2, detail.Features[1].Start)
	assert.Equal(t, 30, detail.Features[1].End)
	assert.Equal(t, -1, detail.Features[1].Strand)
	assert.Len(t, detail.AminoAcids, 5)
}

func TestView_TextToFile(t *testing.T) {
	fastaPath, featuresPath := writeFixtures(t)
	outPath := filepath.Join(t.TempDir(), "view.txt")

	_, err := execute(t, "view",
		"--fasta", fastaPath, "--chrom", "12", "--features", featuresPath,
		"--window", "398:428", "--window", "600-630", "-o", outPath)
	require.NoError(t, err)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	text := string(data)
	assert.Equal(t, 1, strings.Count(text, "##view=full"))
	assert.Equal(t, 2, strings.Count(text, "##view=detail"))
	assert.Contains(t, text, "##highlight=398-428")
	assert.Contains(t, text, "##highlight=600-630")
	assert.Contains(t, text, "##translation=0-30")
}

func TestView_InvalidWindow(t *testing.T) {
	fastaPath, featuresPath := writeFixtures(t)

	out, err := execute(t, "view",
		"--fasta", fastaPath, "--chrom", "12", "--features", featuresPath,
		"--window", "0:1001", "-f", "json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid range [0, 1001)")
	assert.Empty(t, out, "no partial output")
}

func TestView_InvalidTranslation(t *testing.T) {
	fastaPath, featuresPath := writeFixtures(t)

	_, err := execute(t, "view",
		"--fasta", fastaPath, "--chrom", "12", "--features", featuresPath,
		"--window", "398:428", "--translate", "390:420")
	var te *view.InvalidTranslationWindowError
	require.ErrorAs(t, err, &te)
}

func TestView_UsageErrors(t *testing.T) {
	fastaPath, featuresPath := writeFixtures(t)

	tests := []struct {
		name string
		args []string
	}{
		{"bad range", []string{"--window", "abc"}},
		{"unpaired translate", []string{"--window", "1:10", "--window", "20:30", "--translate", "1:4"}},
		{"two feature sources", []string{"--gff", featuresPath}},
		{"bad format", []string{"-f", "png"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"view", "--fasta", fastaPath, "--chrom", "12", "--features", featuresPath}, tt.args...)
			_, err := execute(t, args...)
			var ue *usageError
			assert.ErrorAs(t, err, &ue)
		})
	}
}

func TestPrep(t *testing.T) {
	fastaPath, _ := writeFixtures(t)
	outDir := t.TempDir()

	out, err := execute(t, "prep", "--chrom", "chr12", "--output", outDir, fastaPath)
	require.NoError(t, err)

	path := filepath.Join(outDir, "12.FASTA")
	assert.Equal(t, path, strings.TrimSpace(out))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Len(t, data, 1000)
	assert.True(t, strings.HasPrefix(string(data), "ATGGCC"))
}

func TestImportAndViewCatalog(t *testing.T) {
	fastaPath, featuresPath := writeFixtures(t)
	catalog := filepath.Join(t.TempDir(), "features.duckdb")

	out, err := execute(t, "import", "--catalog", catalog, "--chrom", "chr12", "--features", featuresPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 3 features for chromosome 12")

	// Unchanged source is skipped.
	out, err = execute(t, "import", "--catalog", catalog, "--chrom", "12", "--features", featuresPath)
	require.NoError(t, err)
	assert.NotContains(t, out, "Imported")

	out, err = execute(t, "view",
		"--fasta", fastaPath, "--chrom", "12", "--catalog", catalog,
		"--window", "398:428", "-f", "json")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	var detail render.ViewDoc
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &detail))
	require.Len(t, detail.Features, 2)
	assert.Equal(t, "Reference Sequence", detail.Features[0].Label)
}

func TestImport_List(t *testing.T) {
	_, featuresPath := writeFixtures(t)
	catalog := filepath.Join(t.TempDir(), "features.duckdb")

	_, err := execute(t, "import", "--catalog", catalog, "--chrom", "X", "--features", featuresPath)
	require.NoError(t, err)
	_, err = execute(t, "import", "--catalog", catalog, "--chrom", "chr2", "--features", featuresPath)
	require.NoError(t, err)

	out, err := execute(t, "import", "--catalog", catalog, "--list")
	require.NoError(t, err)
	assert.Equal(t, "2\nX\n", out)
}

func TestImport_RequiresChrom(t *testing.T) {
	_, featuresPath := writeFixtures(t)
	_, err := execute(t, "import", "--catalog", filepath.Join(t.TempDir(), "c.duckdb"), "--features", featuresPath)
	var ue *usageError
	require.ErrorAs(t, err, &ue)
	assert.Contains(t, err.Error(), "--chrom is required")
}

func TestImport_RequiresOneSource(t *testing.T) {
	_, err := execute(t, "import", "--catalog", filepath.Join(t.TempDir(), "c.duckdb"), "--chrom", "1")
	var ue *usageError
	assert.ErrorAs(t, err, &ue)
}

func TestConfigSetGet(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	viper.Reset()

	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"config", "set", "render.format", "json"})
	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "Set render.format = json")

	_, err := os.Stat(filepath.Join(home, ".vibe-seqview.yaml"))
	require.NoError(t, err)

	viper.Reset()
	out.Reset()
	root = newRootCmd()
	root.SetOut(&out)
	root.SetArgs([]string{"config", "get", "render.format"})
	require.NoError(t, root.Execute())
	assert.Equal(t, "json", strings.TrimSpace(out.String()))
}

func TestConfigSet_Validation(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
		want  string
	}{
		{"unknown key", "render.colour", "json", "unknown config key"},
		{"unknown format", "render.format", "png", "unknown render format"},
		{"bad strand", "translation.strand", "forward", "invalid strand"},
		{"alpha out of range", "highlight.alpha", "1.5", "alpha must be"},
		{"negative workers", "workers", "-2", "workers must be"},
		{"empty color", "colors.forward", " ", "color must not be empty"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, "config", "set", tt.key, tt.value)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
			var ue *usageError
			assert.ErrorAs(t, err, &ue)
		})
	}
}

func TestConfigSet_NormalizesValues(t *testing.T) {
	out, err := execute(t, "config", "set", "translation.strand", "-1")
	require.NoError(t, err)
	assert.Contains(t, out, "Set translation.strand = -")
	assert.Equal(t, "-", viper.GetString("translation.strand"))

	out, err = execute(t, "config", "set", "highlight.alpha", "0.25")
	require.NoError(t, err)
	assert.Contains(t, out, "Set highlight.alpha = 0.25")
}

func TestConfigGet_UnknownKey(t *testing.T) {
	_, err := execute(t, "config", "get", "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown config key")
}

func TestDetailRequests(t *testing.T) {
	reqs, err := detailRequests([]string{"398:428", "10-40"}, nil)
	require.NoError(t, err)
	assert.Equal(t, []view.DetailRequest{
		{WindowStart: 398, WindowEnd: 428, TranslationStart: 398, TranslationEnd: 428},
		{WindowStart: 10, WindowEnd: 40, TranslationStart: 10, TranslationEnd: 40},
	}, reqs)

	reqs, err = detailRequests([]string{"398:428"}, []string{"408:423"})
	require.NoError(t, err)
	assert.Equal(t, 408, reqs[0].TranslationStart)
	assert.Equal(t, 423, reqs[0].TranslationEnd)
}
