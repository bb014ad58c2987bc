package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/inodb/vibe-seqview/internal/annotation"
	"github.com/inodb/vibe-seqview/internal/duckdb"
	"github.com/inodb/vibe-seqview/internal/record"
)

// featureSource holds the mutually exclusive feature input flags.
type featureSource struct {
	tsv      string
	gff      string
	gffTypes []string
	catalog  string
}

func (fs *featureSource) addFlags(cmd *cobra.Command, withCatalog bool) {
	cmd.Flags().StringVar(&fs.tsv, "features", "", "Feature TSV: start, end, strand, label[, color] (0-based, half-open)")
	cmd.Flags().StringVar(&fs.gff, "gff", "", "Feature GFF file")
	cmd.Flags().StringSliceVar(&fs.gffTypes, "gff-type", nil, "GFF feature types to keep (default: all)")
	if withCatalog {
		cmd.Flags().StringVar(&fs.catalog, "catalog", "", "DuckDB feature catalog written by 'vibe-seqview import'")
	}
}

func (fs *featureSource) count() int {
	n := 0
	for _, s := range []string{fs.tsv, fs.gff, fs.catalog} {
		if s != "" {
			n++
		}
	}
	return n
}

// path returns the file the features come from.
func (fs *featureSource) path() string {
	if fs.tsv != "" {
		return fs.tsv
	}
	return fs.gff
}

// load reads features for chrom from whichever source was given.
// No source yields no features.
func (fs *featureSource) load(chrom string) ([]record.Feature, error) {
	if fs.count() > 1 {
		return nil, usagef("--features, --gff and --catalog are mutually exclusive")
	}

	switch {
	case fs.tsv != "":
		return annotation.LoadTSV(fs.tsv)
	case fs.gff != "":
		return annotation.LoadGFF(fs.gff, annotation.GFFOptions{Chrom: chrom, Types: fs.gffTypes})
	case fs.catalog != "":
		store, err := duckdb.Open(fs.catalog)
		if err != nil {
			return nil, fmt.Errorf("open catalog: %w", err)
		}
		defer store.Close()
		return store.Features(chrom)
	}
	return nil, nil
}

// parseRange parses "start:end" or "start-end" into integers.
func parseRange(s string) (int, int, error) {
	sep := ":"
	if !strings.Contains(s, sep) {
		sep = "-"
	}
	a, b, ok := strings.Cut(s, sep)
	if !ok {
		return 0, 0, usagef("invalid range %q: expected start:end", s)
	}
	start, err := strconv.Atoi(strings.TrimSpace(a))
	if err != nil {
		return 0, 0, usagef("invalid range %q: %v", s, err)
	}
	end, err := strconv.Atoi(strings.TrimSpace(b))
	if err != nil {
		return 0, 0, usagef("invalid range %q: %v", s, err)
	}
	return start, end, nil
}
