package main

import (
	"fmt"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/inodb/vibe-seqview/internal/record"
	"github.com/inodb/vibe-seqview/internal/render"
)

// configKeys maps every settable key to a parser returning the value stored
// in the config file.
var configKeys = map[string]func(string) (any, error){
	"render.format": func(v string) (any, error) {
		if !slices.Contains(render.Formats(), v) {
			return nil, fmt.Errorf("unknown render format %q (available: %v)", v, render.Formats())
		}
		return v, nil
	},
	"colors.forward":  parseColor,
	"colors.reverse":  parseColor,
	"highlight.color": parseColor,
	"highlight.alpha": func(v string) (any, error) {
		a, err := strconv.ParseFloat(v, 64)
		if err != nil || a < 0 || a > 1 {
			return nil, fmt.Errorf("alpha must be a number in [0, 1], got %q", v)
		}
		return a, nil
	},
	"translation.strand": func(v string) (any, error) {
		s, err := record.ParseStrand(v)
		if err != nil {
			return nil, err
		}
		return s.String(), nil
	},
	"workers": func(v string) (any, error) {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("workers must be a non-negative integer, got %q", v)
		}
		return n, nil
	},
}

func parseColor(v string) (any, error) {
	if strings.TrimSpace(v) == "" {
		return nil, fmt.Errorf("color must not be empty")
	}
	return v, nil
}

func knownConfigKeys() []string {
	keys := make([]string, 0, len(configKeys))
	for k := range configKeys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage vibe-seqview configuration",
		Long: `Show, get, or set configuration values. Config is stored in ~/.vibe-seqview.yaml.

Keys: ` + strings.Join(knownConfigKeys(), ", "),
		Example: `  vibe-seqview config                            # show all config
  vibe-seqview config set render.format json     # render JSON by default
  vibe-seqview config set translation.strand -1  # read overlays on the reverse strand
  vibe-seqview config get colors.reverse         # get a value`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigShow(cmd)
		},
	}

	cmd.AddCommand(newConfigSetCmd())
	cmd.AddCommand(newConfigGetCmd())

	return cmd
}

func newConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigSet(cmd, args[0], args[1])
		},
	}
}

func newConfigGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Get a configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigGet(cmd, args[0])
		},
	}
}

func runConfigShow(cmd *cobra.Command) error {
	out, err := yaml.Marshal(viper.AllSettings())
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if f := viper.ConfigFileUsed(); f != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "# Config file: %s\n", f)
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), "# No config file, showing defaults. Config file: ~/.vibe-seqview.yaml")
	}
	fmt.Fprint(cmd.OutOrStdout(), string(out))
	return nil
}

func runConfigSet(cmd *cobra.Command, key, value string) error {
	parse, ok := configKeys[key]
	if !ok {
		return usagef("unknown config key %q (available: %s)", key, strings.Join(knownConfigKeys(), ", "))
	}
	v, err := parse(value)
	if err != nil {
		return usagef("invalid value for %s: %v", key, err)
	}
	viper.Set(key, v)

	cfgFile := viper.ConfigFileUsed()
	if cfgFile == "" {
		if cfgFile, err = defaultConfigPath(); err != nil {
			return err
		}
	}

	if err := viper.WriteConfigAs(cfgFile); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %v in %s\n", key, v, cfgFile)
	return nil
}

func runConfigGet(cmd *cobra.Command, key string) error {
	if _, ok := configKeys[key]; !ok {
		return usagef("unknown config key %q (available: %s)", key, strings.Join(knownConfigKeys(), ", "))
	}
	fmt.Fprintln(cmd.OutOrStdout(), viper.Get(key))
	return nil
}
