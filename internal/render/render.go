// Package render provides the rendering boundary for full and detail views.
// Renderers receive ready-made view data and never compute coordinates.
package render

import (
	"fmt"
	"io"
	"sort"

	"github.com/inodb/vibe-seqview/internal/view"
)

// Renderer draws views. Implementations must not modify the views they are given.
type Renderer interface {
	RenderFull(full view.FullView, highlights []view.Highlight) error
	RenderDetail(dv *view.DetailView, aminoAcids []view.AminoAcid) error
	Flush() error
}

// Factory creates a renderer writing to w.
type Factory func(w io.Writer) Renderer

var registry = map[string]Factory{
	"text": func(w io.Writer) Renderer { return NewTextRenderer(w) },
	"json": func(w io.Writer) Renderer { return NewJSONRenderer(w) },
}

// New returns the renderer registered under format.
func New(format string, w io.Writer) (Renderer, error) {
	f, ok := registry[format]
	if !ok {
		return nil, fmt.Errorf("unknown render format %q (available: %v)", format, Formats())
	}
	return f(w), nil
}

// Formats returns the registered format names, sorted.
func Formats() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// overlayLine places each amino-acid letter under the middle base of its codon.
func overlayLine(n int, aminoAcids []view.AminoAcid) string {
	line := make([]byte, n)
	for i := range line {
		line[i] = ' '
	}
	for _, aa := range aminoAcids {
		mid := aa.Start + 1
		if mid >= 0 && mid < n {
			line[mid] = aa.Letter
		}
	}
	return string(line)
}
