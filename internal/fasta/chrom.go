// Package fasta turns chromosome FASTA files into cleaned reference sequences.
package fasta

import (
	"fmt"
	"strconv"
	"strings"
)

// NormalizeChrom returns the chromosome name without "chr" prefix and checks
// that it is one of 1-22, X or Y.
func NormalizeChrom(chrom string) (string, error) {
	c := strings.TrimSpace(chrom)
	if len(c) > 3 && strings.EqualFold(c[:3], "chr") {
		c = c[3:]
	}
	switch strings.ToUpper(c) {
	case "X":
		return "X", nil
	case "Y":
		return "Y", nil
	}
	n, err := strconv.Atoi(c)
	if err != nil || n < 1 || n > 22 || c != strconv.Itoa(n) {
		return "", fmt.Errorf("invalid chromosome %q: expected 1-22, X or Y", chrom)
	}
	return c, nil
}
