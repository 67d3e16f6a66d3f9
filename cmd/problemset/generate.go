// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pdiddy/problemset/internal/generate"
	"github.com/pdiddy/problemset/internal/persist"
	"github.com/pdiddy/problemset/internal/typeset"
	"github.com/pdiddy/problemset/pkg/types"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a LaTeX problem set from a selection",
	Long: `Generate reads the content model and a YAML selection of
section -> kind -> numbers, converts every selected item with pandoc and
writes a LaTeX document next to the output path. With --pdf the document
is typeset with latexmk; with --preview the selection is listed as plain
text and nothing is converted.

Example selection:

  "1.5":
    problem: [3, 5, 7]
    example: [1]`,
	PreRunE: bindFlags(map[string]string{
		"model":            "generation.model_path",
		"selection":        "generation.selection_path",
		"output":           "generation.output",
		"style":            "generation.style",
		"title":            "generation.title",
		"merge-answer-key": "generation.merge_answer_key",
		"omit-answers":     "generation.omit_answers",
	}),
	RunE: runGenerate,
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := types.Validate(cfg.Generation); err != nil {
		return err
	}
	if cfg.Generation.SelectionPath == "" {
		return fmt.Errorf("selection file required: use --selection or generation.selection_path")
	}

	sel, err := persist.LoadSelection(cfg.Generation.SelectionPath)
	if err != nil {
		return err
	}

	preview, _ := cmd.Flags().GetBool("preview")
	if preview {
		gen := generate.New(cfg.Generation, nil, logger)
		model, err := gen.Load()
		if err != nil {
			return err
		}
		return gen.Preview(gen.Resolve(model, sel), os.Stdout)
	}

	if err := types.Validate(cfg.Conversion); err != nil {
		return err
	}
	conv, err := newConverter(cfg.Conversion)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	texPath, err := generate.New(cfg.Generation, conv, logger).Run(ctx, sel, os.Stdout)
	if err != nil {
		return err
	}

	pdf, _ := cmd.Flags().GetBool("pdf")
	if !pdf {
		return nil
	}
	ts := typeset.New(cfg.Typeset)
	if !ts.Available() {
		logger.Warn("typesetter not found; LaTeX source kept", zap.String("binary", cfg.Typeset.Binary), zap.String("tex", texPath))
		return nil
	}
	report, err := ts.Typeset(ctx, texPath, cfg.Generation.Output, os.Stdout)
	if err != nil {
		return err
	}
	if !report.Succeeded {
		logger.Warn("typesetting failed", zap.String("tex", texPath), zap.Int("status", report.ExitCode))
	}
	return nil
}

func init() {
	generateCmd.Flags().String("model", "", "content model file")
	generateCmd.Flags().StringP("selection", "s", "", "YAML selection file")
	generateCmd.Flags().StringP("output", "o", "", "output PDF path; the .tex is written beside it")
	generateCmd.Flags().String("style", "", "math style for items: textstyle or displaystyle")
	generateCmd.Flags().String("title", "", "document title")
	generateCmd.Flags().Bool("merge-answer-key", false, "merge the .key.json answer model before resolving")
	generateCmd.Flags().Bool("omit-answers", false, "leave out the answer-key section")
	generateCmd.Flags().Bool("pdf", false, "typeset the document with latexmk")
	generateCmd.Flags().Bool("preview", false, "list the selected items as plain text and exit")

	rootCmd.AddCommand(generateCmd)
}
