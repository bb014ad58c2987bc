package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/inodb/vibe-seqview/internal/annotation"
	"github.com/inodb/vibe-seqview/internal/fasta"
	"github.com/inodb/vibe-seqview/internal/record"
	"github.com/inodb/vibe-seqview/internal/render"
	"github.com/inodb/vibe-seqview/internal/view"
)

type viewOptions struct {
	fastaPath  string
	chrom      string
	windows    []string
	translates []string
	outputFile string
	features   featureSource
}

func newViewCmd() *cobra.Command {
	var opts viewOptions

	cmd := &cobra.Command{
		Use:   "view",
		Short: "Render the full sequence view and detail windows",
		Long: `Render a reference sequence with its features, one highlight band per detail
window, and each detail window cropped with an amino-acid translation overlay.

Coordinates are 0-based and half-open. Each --window may be paired with a
--translate range in the same absolute coordinates; without --translate the
whole window is translated.`,
		Example: `  vibe-seqview view --fasta 12.FASTA --chrom 12 --features genes.tsv --window 398:428 --translate 408:423
  vibe-seqview view --fasta chr12.fa.gz --chrom chr12 --gff genes.gff --gff-type gene --window 398:428 -f json
  vibe-seqview view --fasta 12.FASTA --chrom 12 --catalog features.duckdb --window 100:160 --window 398:428`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runView(cmd, &opts)
		},
	}

	cmd.Flags().StringVar(&opts.fastaPath, "fasta", "", "Reference FASTA file (optionally gzipped)")
	cmd.Flags().StringVar(&opts.chrom, "chrom", "", "Chromosome: 1-22, X or Y")
	cmd.Flags().StringArrayVar(&opts.windows, "window", nil, "Detail window start:end (repeatable)")
	cmd.Flags().StringArrayVar(&opts.translates, "translate", nil, "Translation window start:end for the matching --window")
	cmd.Flags().StringVarP(&opts.outputFile, "output", "o", "", "Output file (default: stdout)")
	cmd.Flags().StringP("format", "f", "text", "Output format: text, json")
	cmd.Flags().String("translate-strand", "+", "Reading direction of the overlay: + or -")
	cmd.Flags().Int("workers", 0, "Detail view workers (0 = number of CPUs)")
	opts.features.addFlags(cmd, true)

	_ = cmd.MarkFlagRequired("fasta")
	_ = cmd.MarkFlagRequired("chrom")
	_ = viper.BindPFlag("render.format", cmd.Flags().Lookup("format"))
	_ = viper.BindPFlag("translation.strand", cmd.Flags().Lookup("translate-strand"))
	_ = viper.BindPFlag("workers", cmd.Flags().Lookup("workers"))

	return cmd
}

func runView(cmd *cobra.Command, opts *viewOptions) error {
	reqs, err := detailRequests(opts.windows, opts.translates)
	if err != nil {
		return err
	}
	strand, err := record.ParseStrand(viper.GetString("translation.strand"))
	if err != nil {
		return usagef("--translate-strand: %v", err)
	}

	ref, err := fasta.LoadReference(opts.fastaPath, opts.chrom)
	if err != nil {
		return fmt.Errorf("load reference: %w", err)
	}
	logger.Info("loaded reference",
		zap.String("chrom", ref.Chrom),
		zap.Int("length", len(ref.Sequence)))

	feats, err := opts.features.load(ref.Chrom)
	if err != nil {
		return fmt.Errorf("load features: %w", err)
	}
	palette := annotation.Palette{
		Forward: viper.GetString("colors.forward"),
		Reverse: viper.GetString("colors.reverse"),
	}

	rec, err := record.New(ref.Chrom, ref.Sequence, palette.Apply(feats))
	if err != nil {
		return err
	}
	logger.Info("built sequence record", zap.Int("feature_count", rec.FeatureCount()))

	comp := view.NewCompositor()
	comp.SetLogger(logger)
	comp.SetHighlightStyle(view.HighlightStyle{
		Color: viper.GetString("highlight.color"),
		Alpha: viper.GetFloat64("highlight.alpha"),
	})

	// Build every detail view before writing anything so that a bad window
	// produces no output.
	results := comp.BuildDetailViews(rec, reqs, viper.GetInt("workers"))
	for _, res := range results {
		if res.Err != nil {
			return fmt.Errorf("window %d-%d: %w", res.Request.WindowStart, res.Request.WindowEnd, res.Err)
		}
	}

	full := comp.BuildFullView(rec)
	highlights := make([]view.Highlight, len(reqs))
	for i, req := range reqs {
		highlights[i] = comp.HighlightRegion(full, req.WindowStart, req.WindowEnd)
	}

	var out io.Writer = cmd.OutOrStdout()
	if opts.outputFile != "" {
		f, err := os.Create(opts.outputFile)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	renderer, err := render.New(viper.GetString("render.format"), out)
	if err != nil {
		return usagef("%v", err)
	}

	if err := renderer.RenderFull(full, highlights); err != nil {
		return fmt.Errorf("render full view: %w", err)
	}
	for _, res := range results {
		if err := renderer.RenderDetail(res.View, res.View.AminoAcids(strand)); err != nil {
			return fmt.Errorf("render detail view: %w", err)
		}
	}
	return renderer.Flush()
}

// detailRequests pairs each window with its translation range. Without any
// --translate, each window is translated in full.
func detailRequests(windows, translates []string) ([]view.DetailRequest, error) {
	if len(translates) > 0 && len(translates) != len(windows) {
		return nil, usagef("got %d --translate for %d --window", len(translates), len(windows))
	}

	reqs := make([]view.DetailRequest, len(windows))
	for i, w := range windows {
		ws, we, err := parseRange(w)
		if err != nil {
			return nil, err
		}
		ts, te := ws, we
		if len(translates) > 0 {
			if ts, te, err = parseRange(translates[i]); err != nil {
				return nil, err
			}
		}
		reqs[i] = view.DetailRequest{
			WindowStart:      ws,
			WindowEnd:        we,
			TranslationStart: ts,
			TranslationEnd:   te,
		}
	}
	return reqs, nil
}
