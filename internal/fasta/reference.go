package fasta

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Reference is a cleaned chromosome sequence: uppercase A, C, G, T or N, no
// header and no line breaks.
type Reference struct {
	Chrom    string
	Sequence string
}

// LoadReference reads a (optionally gzipped) FASTA file and returns the cleaned
// sequence for chrom. A single-record file is taken as is. In a multi-record
// file the record whose header ID normalizes to chrom is selected, and a
// missing or repeated match is an error.
func LoadReference(path, chrom string) (*Reference, error) {
	c, err := NormalizeChrom(chrom)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open FASTA file: %w", err)
	}
	defer f.Close()

	var reader io.Reader = f

	// Handle gzipped files
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("open gzip reader: %w", err)
		}
		defer gz.Close()
		reader = gz
	}

	seq, err := parseSequence(reader, c)
	if err != nil {
		return nil, err
	}
	return &Reference{Chrom: c, Sequence: seq}, nil
}

// ParseReference cleans FASTA content already in memory or on a stream, with
// the same record selection as LoadReference.
func ParseReference(r io.Reader, chrom string) (*Reference, error) {
	c, err := NormalizeChrom(chrom)
	if err != nil {
		return nil, err
	}
	seq, err := parseSequence(r, c)
	if err != nil {
		return nil, err
	}
	return &Reference{Chrom: c, Sequence: seq}, nil
}

// headerChrom returns the normalized chromosome of a ">id description" line,
// or "" when the ID is not a supported chromosome.
func headerChrom(line string) string {
	fields := strings.Fields(strings.TrimPrefix(line, ">"))
	if len(fields) == 0 {
		return ""
	}
	c, err := NormalizeChrom(fields[0])
	if err != nil {
		return ""
	}
	return c
}

// parseSequence selects the record for chrom, joins its lines, uppercases them
// and rejects symbols outside {A,C,G,T,N}.
func parseSequence(reader io.Reader, chrom string) (string, error) {
	scanner := bufio.NewScanner(reader)
	// Chromosome FASTA may be stored unwrapped.
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 512*1024*1024)

	var (
		seq strings.Builder
		// The first record is kept until a second header shows whether the
		// file needs selecting. Its symbol error is deferred for the same reason.
		firstErr     error
		firstMatched bool
		found        bool
		records      int
		keep         = true
	)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, ";") {
			continue
		}
		if strings.HasPrefix(line, ">") {
			records++
			match := headerChrom(line) == chrom
			switch {
			case records == 1:
				firstMatched = match
				found = match
			case records == 2 && !firstMatched:
				seq.Reset()
				firstErr = nil
				fallthrough
			default:
				if match && found {
					return "", fmt.Errorf("line %d: duplicate record for chromosome %s", lineNo, chrom)
				}
				found = found || match
			}
			keep = records == 1 || match
			continue
		}
		if !keep {
			continue
		}

		line = strings.ToUpper(line)
		if i := strings.IndexFunc(line, invalidBase); i >= 0 {
			err := fmt.Errorf("line %d: invalid nucleotide %q", lineNo, line[i])
			if records > 1 || firstMatched {
				return "", err
			}
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		seq.WriteString(line)
	}

	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("scan FASTA: %w", err)
	}
	if records > 1 && !found {
		return "", fmt.Errorf("no record for chromosome %s among %d records", chrom, records)
	}
	if firstErr != nil {
		return "", firstErr
	}
	if seq.Len() == 0 {
		return "", fmt.Errorf("no sequence found")
	}

	return seq.String(), nil
}

func invalidBase(r rune) bool {
	switch r {
	case 'A', 'C', 'G', 'T', 'N':
		return false
	}
	return true
}

// CleanedFileName returns the file name used for a cleaned chromosome, e.g. "12.FASTA".
func CleanedFileName(chrom string) string {
	return chrom + ".FASTA"
}

// WriteCleaned writes ref.Sequence to <dir>/<chrom>.FASTA with no header and no
// line breaks, and returns the path written.
func WriteCleaned(dir string, ref *Reference) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}

	path := filepath.Join(dir, CleanedFileName(ref.Chrom))
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(ref.Sequence), 0644); err != nil {
		return "", fmt.Errorf("write cleaned reference: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("rename cleaned reference: %w", err)
	}
	return path, nil
}
