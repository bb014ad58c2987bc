package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/inodb/vibe-seqview/internal/fasta"
)

func newPrepCmd() *cobra.Command {
	var (
		chrom     string
		outputDir string
	)

	cmd := &cobra.Command{
		Use:   "prep [flags] <fasta>",
		Short: "Clean a chromosome FASTA into a header-less single-line sequence",
		Long: `Strip the header, join wrapped lines and uppercase a chromosome FASTA file,
writing <chrom>.FASTA to the output directory. Symbols other than A, C, G, T
and N are rejected. In a multi-record FASTA only the record whose header ID
matches --chrom (with or without "chr") is written.`,
		Example: `  vibe-seqview prep --chrom 12 chr12.fa
  vibe-seqview prep --chrom chrX --output Chromosome chrX.fa.gz
  vibe-seqview prep --chrom 7 GRCh38.primary_assembly.genome.fa.gz`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := fasta.LoadReference(args[0], chrom)
			if err != nil {
				return fmt.Errorf("load reference: %w", err)
			}
			path, err := fasta.WriteCleaned(outputDir, ref)
			if err != nil {
				return err
			}
			logger.Info("wrote cleaned reference",
				zap.String("chrom", ref.Chrom),
				zap.Int("length", len(ref.Sequence)),
				zap.String("path", path))
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}

	cmd.Flags().StringVar(&chrom, "chrom", "", "Chromosome: 1-22, X or Y")
	cmd.Flags().StringVarP(&outputDir, "output", "o", ".", "Output directory")
	_ = cmd.MarkFlagRequired("chrom")

	return cmd
}
