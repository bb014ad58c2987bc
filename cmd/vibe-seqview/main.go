// Package main provides the vibe-seqview command-line tool.
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/inodb/vibe-seqview/internal/annotation"
	"github.com/inodb/vibe-seqview/internal/view"
)

// Exit codes
const (
	ExitSuccess = 0
	ExitError   = 1
	ExitUsage   = 2
)

// Version information (set at build time)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const configName = ".vibe-seqview"

var logger = zap.NewNop()

// usageError marks errors caused by bad command-line input.
type usageError struct{ msg string }

func (e *usageError) Error() string { return e.msg }

func usagef(format string, args ...any) error {
	return &usageError{msg: fmt.Sprintf(format, args...)}
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	root := newRootCmd()
	root.SetArgs(args)

	err := root.Execute()
	_ = logger.Sync()
	if err == nil {
		return ExitSuccess
	}

	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	var ue *usageError
	if errors.As(err, &ue) {
		return ExitUsage
	}
	return ExitError
}

func newRootCmd() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:   "vibe-seqview",
		Short: "Reference sequence and feature viewer",
		Long: `vibe-seqview shows a reference sequence with its annotated features and
zoomed detail windows with amino-acid translation overlays.`,
		Version:       fmt.Sprintf("%s (%s) built %s", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			l, err := newLogger(verbose)
			if err != nil {
				return fmt.Errorf("create logger: %w", err)
			}
			logger = l
			return nil
		},
	}
	root.PersistentFlags().BoolVar(&verbose, "verbose", false, "Enable debug logging")
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &usageError{msg: err.Error()}
	})

	root.AddCommand(newViewCmd())
	root.AddCommand(newPrepCmd())
	root.AddCommand(newImportCmd())
	root.AddCommand(newConfigCmd())

	cobra.OnInitialize(initConfig)
	return root
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// initConfig reads ~/.vibe-seqview.yaml and VIBE_SEQVIEW_* environment variables.
func initConfig() {
	setDefaults()

	if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(home)
	}
	viper.SetConfigName(configName)
	viper.SetConfigType("yaml")
	viper.SetEnvPrefix("VIBE_SEQVIEW")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// A missing config file is fine.
	_ = viper.ReadInConfig()
}

func setDefaults() {
	viper.SetDefault("render.format", "text")
	viper.SetDefault("colors.forward", annotation.DefaultPalette.Forward)
	viper.SetDefault("colors.reverse", annotation.DefaultPalette.Reverse)
	viper.SetDefault("highlight.color", view.DefaultHighlightStyle.Color)
	viper.SetDefault("highlight.alpha", view.DefaultHighlightStyle.Alpha)
	viper.SetDefault("translation.strand", "+")
	viper.SetDefault("workers", 0)
}

// defaultConfigPath returns ~/.vibe-seqview.yaml.
func defaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, configName+".yaml"), nil
}
