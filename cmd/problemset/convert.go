// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/problemset/internal/convert"
	"github.com/pdiddy/problemset/pkg/types"
)

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert one HTML fragment from stdin to LaTeX",
	Long: `Convert reads an HTML fragment on stdin, runs it through the same
conversion pipeline generate uses (sanitize, protect math, pandoc, restore,
clean up, restyle math, format part labels) and prints the LaTeX.`,
	RunE: runConvert,
}

func runConvert(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := types.Validate(cfg.Conversion); err != nil {
		return err
	}

	style, _ := cmd.Flags().GetString("style")
	block, _ := cmd.Flags().GetBool("block")
	indent, _ := cmd.Flags().GetString("indent")
	noSanitize, _ := cmd.Flags().GetBool("no-sanitize")
	noBreak, _ := cmd.Flags().GetBool("no-break")

	opts := convert.Options{
		Style:    types.MathStyle(style),
		Inline:   !block,
		Indent:   indent,
		Sanitize: !noSanitize,
		NoBreak:  noBreak,
	}
	if opts.Style != types.StyleText && opts.Style != types.StyleDisplay {
		return fmt.Errorf("unsupported style %q: use textstyle or displaystyle", style)
	}

	input, err := io.ReadAll(os.Stdin)
	if err != nil {
		return fmt.Errorf("reading stdin: %w", err)
	}

	conv, err := newConverter(cfg.Conversion)
	if err != nil {
		return err
	}
	out, err := convert.NewEngine(conv, opts).Latexify(string(input))
	if err != nil {
		return err
	}
	fmt.Fprint(os.Stdout, out)
	return nil
}

func init() {
	convertCmd.Flags().String("style", string(types.StyleText), "math style: textstyle or displaystyle")
	convertCmd.Flags().Bool("block", false, "block orientation: set styled math in display boundaries")
	convertCmd.Flags().String("indent", convert.DefaultIndent, "indent placed before part labels")
	convertCmd.Flags().Bool("no-sanitize", false, "skip the HTML sanitizer")
	convertCmd.Flags().Bool("no-break", false, "box inline display-style math")

	rootCmd.AddCommand(convertCmd)
}
