package annotation

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/biogo/biogo/io/featio"
	"github.com/biogo/biogo/io/featio/gff"
	"github.com/biogo/biogo/seq"

	"github.com/inodb/vibe-seqview/internal/fasta"
	"github.com/inodb/vibe-seqview/internal/record"
)

// GFF3 column positions.
const (
	fieldSeqid = iota
	fieldSource
	fieldType
	fieldStart
	fieldEnd
	fieldScore
	fieldStrand
	fieldPhase
	fieldAttributes
)

// GFFOptions selects which GFF records become features.
type GFFOptions struct {
	Chrom string   // normalized chromosome; records on other seqids are skipped
	Types []string // feature types to keep (e.g. "gene"); empty keeps all
}

type gffFilter struct {
	chrom string
	types map[string]bool
}

func newGFFFilter(opts GFFOptions) gffFilter {
	f := gffFilter{chrom: opts.Chrom, types: make(map[string]bool, len(opts.Types))}
	for _, t := range opts.Types {
		f.types[t] = true
	}
	return f
}

func (f gffFilter) keep(seqid, typ string) bool {
	if f.chrom != "" {
		chrom, err := fasta.NormalizeChrom(seqid)
		if err != nil || chrom != f.chrom {
			return false
		}
	}
	return len(f.types) == 0 || f.types[typ]
}

// LoadGFF loads features from a GFF file.
func LoadGFF(path string, opts GFFOptions) ([]record.Feature, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open GFF file: %w", err)
	}
	defer f.Close()

	return ParseGFF(f, opts)
}

// ParseGFF reads GFF2 or GFF3 records and converts them to 0-based half-open
// features. GFF3 is recognized by its version directive or by tag=value
// attributes. The label is the Name attribute, then ID, then the feature type.
func ParseGFF(reader io.Reader, opts GFFOptions) ([]record.Feature, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read GFF: %w", err)
	}
	if isGFF3(data) {
		return parseGFF3(bytes.NewReader(data), newGFFFilter(opts))
	}
	return parseGFF2(bytes.NewReader(data), newGFFFilter(opts))
}

// isGFF3 inspects the version directive, or else the attribute column of the
// first record.
func isGFF3(data []byte) bool {
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if v, ok := strings.CutPrefix(line, "##gff-version"); ok {
			return strings.HasPrefix(strings.TrimSpace(v), "3")
		}
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) <= fieldAttributes {
			return false
		}
		attrs := fields[fieldAttributes]
		return strings.Contains(attrs, "=") && !strings.Contains(attrs, `"`)
	}
	return false
}

// parseGFF2 reads GFF2 through biogo's reader.
func parseGFF2(reader io.Reader, filter gffFilter) ([]record.Feature, error) {
	var features []record.Feature
	sc := featio.NewScanner(gff.NewReader(reader))
	for sc.Next() {
		gf, ok := sc.Feat().(*gff.Feature)
		if !ok {
			continue
		}
		if !filter.keep(gf.SeqName, gf.Feature) {
			continue
		}

		strand := record.Forward
		if gf.FeatStrand == seq.Minus {
			strand = record.Reverse
		}

		features = append(features, record.Feature{
			Start:  gf.FeatStart,
			End:    gf.FeatEnd,
			Strand: strand,
			Label:  pickLabel(gf2Attr(gf.FeatAttributes, "Name"), gf2Attr(gf.FeatAttributes, "ID"), gf.Feature),
			Color:  gf2Attr(gf.FeatAttributes, "color"),
		})
	}
	if err := sc.Error(); err != nil {
		return nil, fmt.Errorf("scan GFF: %w", err)
	}

	return features, nil
}

func gf2Attr(attrs gff.Attributes, tag string) string {
	return strings.Trim(attrs.Get(tag), `"`)
}

// parseGFF3 reads GFF3 records column by column. Parsing stops at an embedded
// ##FASTA section.
func parseGFF3(reader io.Reader, filter gffFilter) ([]record.Feature, error) {
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var features []record.Feature
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "##FASTA" {
			break
		}
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Split(line, "\t")
		if len(fields) <= fieldAttributes {
			return nil, fmt.Errorf("line %d: expected 9 columns, got %d", lineNo, len(fields))
		}
		if !filter.keep(fields[fieldSeqid], fields[fieldType]) {
			continue
		}

		start, err := strconv.Atoi(fields[fieldStart])
		if err != nil {
			return nil, fmt.Errorf("line %d: parse start: %w", lineNo, err)
		}
		end, err := strconv.Atoi(fields[fieldEnd])
		if err != nil {
			return nil, fmt.Errorf("line %d: parse end: %w", lineNo, err)
		}

		strand := record.Forward
		switch fields[fieldStrand] {
		case "-":
			strand = record.Reverse
		case "+", ".", "?":
		default:
			return nil, fmt.Errorf("line %d: invalid strand %q", lineNo, fields[fieldStrand])
		}

		attrs, err := gff3Attributes(fields[fieldAttributes])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}

		features = append(features, record.Feature{
			Start:  start - 1,
			End:    end,
			Strand: strand,
			Label:  pickLabel(attrs["Name"], attrs["ID"], fields[fieldType]),
			Color:  attrs["color"],
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan GFF: %w", err)
	}

	return features, nil
}

// gff3Attributes decodes a "tag=value;tag=value" column. Multi-valued tags
// keep their first value.
func gff3Attributes(col string) (map[string]string, error) {
	attrs := make(map[string]string)
	if col == "." {
		return attrs, nil
	}
	for _, kv := range strings.Split(col, ";") {
		kv = strings.TrimSpace(kv)
		if kv == "" {
			continue
		}
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			return nil, fmt.Errorf("invalid attribute %q", kv)
		}
		v, _, _ = strings.Cut(v, ",")
		dv, err := url.PathUnescape(v)
		if err != nil {
			return nil, fmt.Errorf("decode attribute %s: %w", k, err)
		}
		attrs[k] = dv
	}
	return attrs, nil
}

func pickLabel(candidates ...string) string {
	for _, c := range candidates {
		if c != "" {
			return c
		}
	}
	return ""
}
