package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/inodb/vibe-seqview/internal/duckdb"
	"github.com/inodb/vibe-seqview/internal/fasta"
)

func newImportCmd() *cobra.Command {
	var (
		catalog string
		chrom   string
		force   bool
		list    bool
		src     featureSource
	)

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import features for one chromosome into a DuckDB catalog",
		Long: `Load features from a TSV or GFF file and store them, in file order, in a
DuckDB catalog that 'vibe-seqview view --catalog' reads. Re-importing an
unchanged file is skipped unless --force is given. With --list, print the
chromosomes the catalog holds features for and exit.`,
		Example: `  vibe-seqview import --catalog features.duckdb --chrom 12 --features genes.tsv
  vibe-seqview import --catalog features.duckdb --chrom X --gff genes.gff --gff-type gene
  vibe-seqview import --catalog features.duckdb --list`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if list {
				return listCatalog(cmd, catalog)
			}
			if chrom == "" {
				return usagef("--chrom is required")
			}
			c, err := fasta.NormalizeChrom(chrom)
			if err != nil {
				return usagef("%v", err)
			}
			if src.count() != 1 {
				return usagef("exactly one of --features or --gff is required")
			}

			fp, err := duckdb.StatFile(src.path())
			if err != nil {
				return fmt.Errorf("stat features file: %w", err)
			}

			store, err := duckdb.Open(catalog)
			if err != nil {
				return fmt.Errorf("open catalog: %w", err)
			}
			defer store.Close()

			if !force {
				current, err := store.ImportCurrent(c, fp)
				if err != nil {
					return err
				}
				if current {
					logger.Info("features unchanged, skipping import",
						zap.String("chrom", c), zap.String("source", fp.Path))
					return nil
				}
			}

			feats, err := src.load(c)
			if err != nil {
				return fmt.Errorf("load features: %w", err)
			}
			if err := store.ImportFeatures(c, fp, feats); err != nil {
				return fmt.Errorf("write features: %w", err)
			}

			logger.Info("imported features",
				zap.String("chrom", c),
				zap.Int("feature_count", len(feats)),
				zap.String("catalog", store.Path()))
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d features for chromosome %s\n", len(feats), c)
			return nil
		},
	}

	cmd.Flags().StringVar(&catalog, "catalog", "", "DuckDB catalog file")
	cmd.Flags().StringVar(&chrom, "chrom", "", "Chromosome: 1-22, X or Y")
	cmd.Flags().BoolVar(&force, "force", false, "Import even if the source file is unchanged")
	cmd.Flags().BoolVar(&list, "list", false, "List the chromosomes in the catalog")
	src.addFlags(cmd, false)
	_ = cmd.MarkFlagRequired("catalog")
	cmd.MarkFlagsMutuallyExclusive("list", "chrom")

	return cmd
}

func listCatalog(cmd *cobra.Command, catalog string) error {
	store, err := duckdb.Open(catalog)
	if err != nil {
		return fmt.Errorf("open catalog: %w", err)
	}
	defer store.Close()

	chroms, err := store.Chromosomes()
	if err != nil {
		return err
	}
	for _, c := range chroms {
		fmt.Fprintln(cmd.OutOrStdout(), c)
	}
	return nil
}
