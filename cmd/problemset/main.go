// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the problemset CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/problemset/internal/container"
	"github.com/pdiddy/problemset/internal/convert"
	"github.com/pdiddy/problemset/internal/logging"
	"github.com/pdiddy/problemset/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// logger is built once flags and config are known.
var logger = zap.NewNop()

// rootCmd is the base command for the problemset CLI.
var rootCmd = &cobra.Command{
	Use:   "problemset",
	Short: "Build typeset problem sets from an annotated textbook",
	Long: `problemset turns a semantically annotated HTML textbook into curated,
typeset homework. Extract numbered problems, worked examples, shared
instructions and answer keys into a content model once, then generate a
LaTeX (and optionally PDF) problem set for any selection of items.

Subcommands: extract, generate, convert, catalog, version.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := logging.New(viper.GetBool("debug"))
		if err != nil {
			return err
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./problemset.yaml or ~/.config/problemset/problemset.yaml)")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	rootCmd.PersistentFlags().String("runtime", "", "where pandoc runs: auto, host, docker, or podman")

	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("conversion.runtime", rootCmd.PersistentFlags().Lookup("runtime"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("problemset")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "problemset"))
		}
	}

	setDefaults()

	viper.SetEnvPrefix("PROBLEMSET")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func setDefaults() {
	viper.SetDefault("conversion.runtime", container.NameAuto)
	viper.SetDefault("conversion.pandoc_binary", "pandoc")
	viper.SetDefault("conversion.pandoc_image", "pandoc/core:latest")

	viper.SetDefault("extraction.output", "data/homework.json")
	viper.SetDefault("extraction.initial_section", "1.1")

	viper.SetDefault("generation.model_path", "data/homework.json")
	viper.SetDefault("generation.selection_path", "selection.yaml")
	viper.SetDefault("generation.output", "out/homework.pdf")
	viper.SetDefault("generation.style", string(types.StyleText))
	viper.SetDefault("generation.indent", convert.DefaultIndent)

	viper.SetDefault("typeset.binary", "latexmk")
	viper.SetDefault("typeset.engine", "-xelatex")

	viper.SetDefault("catalog.db_path", "data/catalog.db")
	viper.SetDefault("catalog.max_results", 20)
}

// bindFlags returns a PreRunE that ties each of the command's flags to a
// config key, so a flag given on the command line overrides file and env.
// Binding happens at run time because several commands share keys.
func bindFlags(keys map[string]string) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		for name, key := range keys {
			if err := viper.BindPFlag(key, cmd.Flags().Lookup(name)); err != nil {
				return fmt.Errorf("binding --%s: %w", name, err)
			}
		}
		return nil
	}
}

// loadConfig decodes the merged flag, env and file settings.
func loadConfig() (types.PipelineConfig, error) {
	var cfg types.PipelineConfig
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decoding configuration: %w", err)
	}
	return cfg, nil
}

// newConverter selects the runtime and verifies pandoc is usable there.
func newConverter(cfg types.ConversionConfig) (*convert.PandocConverter, error) {
	rt, err := container.Select(cfg.Runtime, cfg.PandocBinary)
	if err != nil {
		return nil, err
	}
	logger.Debug("selected runtime", zap.String("runtime", rt.Name()))
	return convert.NewPandocConverter(rt, cfg)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
