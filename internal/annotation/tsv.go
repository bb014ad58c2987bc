// Package annotation loads feature spans from annotation files.
package annotation

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/inodb/vibe-seqview/internal/record"
)

// LoadTSV loads features from a tab-delimited file with columns
// start, end, strand, label and an optional color. Coordinates are 0-based, half-open.
func LoadTSV(path string) ([]record.Feature, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open features file: %w", err)
	}
	defer f.Close()

	return ParseTSV(f)
}

// ParseTSV parses tab-delimited feature rows. Blank lines and lines starting
// with '#' are skipped.
func ParseTSV(reader io.Reader) ([]record.Feature, error) {
	var features []record.Feature
	scanner := bufio.NewScanner(reader)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Split(line, "\t")
		if len(fields) < 4 {
			return nil, fmt.Errorf("line %d: expected at least 4 columns, got %d", lineNo, len(fields))
		}

		start, err := strconv.Atoi(strings.TrimSpace(fields[0]))
		if err != nil {
			return nil, fmt.Errorf("line %d: parse start: %w", lineNo, err)
		}
		end, err := strconv.Atoi(strings.TrimSpace(fields[1]))
		if err != nil {
			return nil, fmt.Errorf("line %d: parse end: %w", lineNo, err)
		}
		strand, err := record.ParseStrand(fields[2])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}

		f := record.Feature{
			Start:  start,
			End:    end,
			Strand: strand,
			Label:  strings.TrimSpace(fields[3]),
		}
		if len(fields) > 4 {
			f.Color = strings.TrimSpace(fields[4])
		}
		features = append(features, f)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan features: %w", err)
	}

	return features, nil
}
