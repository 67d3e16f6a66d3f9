// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/problemset/internal/extract"
	"github.com/pdiddy/problemset/pkg/types"
)

var extractCmd = &cobra.Command{
	Use:   "extract [sources...]",
	Short: "Extract problems, examples and answers from annotated HTML",
	Long: `Extract walks one or more annotated textbook HTML files as a single
document and writes the content model (JSON) used by generate.

Problem lists are paired with the instruction blocks that precede them,
example solutions move into the answer overlay, and answer-key sections
fill the problem overlay by label.`,
	PreRunE: bindFlags(map[string]string{
		"output":            "extraction.output",
		"initial-section":   "extraction.initial_section",
		"restart-numbering": "extraction.restart_numbering",
	}),
	RunE: runExtract,
}

func runExtract(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if len(args) > 0 {
		cfg.Extraction.Sources = args
	}
	if err := types.Validate(cfg.Extraction); err != nil {
		return err
	}

	_, err = extract.New(cfg.Extraction, logger).Run(cmd.Context(), os.Stdout)
	return err
}

func init() {
	extractCmd.Flags().StringP("output", "o", "", "content model file to write")
	extractCmd.Flags().String("initial-section", "", "section label used before the first header")
	extractCmd.Flags().Bool("restart-numbering", false, "number every problem list from 1")

	rootCmd.AddCommand(extractCmd)
}
