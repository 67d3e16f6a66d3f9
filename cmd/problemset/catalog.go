// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pdiddy/problemset/internal/catalog"
	"github.com/pdiddy/problemset/internal/persist"
	"github.com/pdiddy/problemset/pkg/types"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Index and search the content model",
	Long: `Catalog keeps a SQLite full-text index of an extracted content model so
problems and examples can be found by their text. Search results can be
written straight out as a selection file for generate.`,
}

// --- index subcommand ---

var catalogIndexCmd = &cobra.Command{
	Use:   "index",
	Short: "Index a content model",
	PreRunE: bindFlags(map[string]string{
		"model": "generation.model_path",
	}),
	RunE: runCatalogIndex,
}

func runCatalogIndex(cmd *cobra.Command, args []string) error {
	cfg, store, err := openCatalog()
	if err != nil {
		return err
	}
	defer store.Close()

	model, err := persist.LoadModel(cfg.Generation.ModelPath)
	if err != nil {
		return err
	}

	summary, err := store.Index(cmd.Context(), model, os.Stdout)
	if err != nil {
		return err
	}
	if summary.Failed > 0 {
		return fmt.Errorf("%d section(s) failed indexing", summary.Failed)
	}
	return nil
}

// --- search subcommand ---

var catalogSearchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the catalog by text and filters",
	Long: `Search finds items by full-text query, section, kind, or whether an
answer is available. Use --export to write the hits as a selection file.`,
	RunE: runCatalogSearch,
}

func runCatalogSearch(cmd *cobra.Command, args []string) error {
	_, store, err := openCatalog()
	if err != nil {
		return err
	}
	defer store.Close()

	opts, err := queryOptsFromFlags(cmd, args)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	if path, _ := cmd.Flags().GetString("export"); path != "" {
		sel, err := store.ExportSelection(ctx, opts, path)
		if err != nil {
			return err
		}
		fmt.Printf("Exported %d items to %s\n", len(sel.Triples()), path)
		return nil
	}

	results, err := store.Search(ctx, opts)
	if err != nil {
		return err
	}
	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatSearchOutput(results, jsonOutput)
}

func formatSearchOutput(results []catalog.Result, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	if len(results) == 0 {
		fmt.Println("No results found.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-10s  %-9s  %-3s  %s\n", "Label", "Kind", "Ans", "Text")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 90))

	for _, r := range results {
		text := r.Text
		if len(text) > 64 {
			text = text[:61] + "..."
		}
		answered := ""
		if r.HasAnswer {
			answered = "yes"
		}
		fmt.Fprintf(os.Stdout, "%-10s  %-9s  %-3s  %s\n", r.Label(), r.Kind, answered, text)
	}

	fmt.Fprintf(os.Stdout, "\n%d results\n", len(results))
	return nil
}

// --- shared helpers ---

func openCatalog() (types.PipelineConfig, *catalog.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return cfg, nil, err
	}
	if dbPath, _ := catalogCmd.PersistentFlags().GetString("db"); dbPath != "" {
		cfg.Catalog.DBPath = dbPath
	}
	if err := types.Validate(cfg.Catalog); err != nil {
		return cfg, nil, err
	}
	store, err := catalog.NewStore(cfg.Catalog)
	if err != nil {
		return cfg, nil, err
	}
	if !store.FullText() {
		logger.Debug("sqlite built without fts5; using substring search", zap.String("db", cfg.Catalog.DBPath))
	}
	return cfg, store, nil
}

func queryOptsFromFlags(cmd *cobra.Command, args []string) (catalog.QueryOptions, error) {
	section, _ := cmd.Flags().GetString("section")
	kind, _ := cmd.Flags().GetString("kind")
	answered, _ := cmd.Flags().GetBool("answered")
	limit, _ := cmd.Flags().GetInt("limit")

	opts := catalog.QueryOptions{
		Query:        strings.Join(args, " "),
		Section:      section,
		AnsweredOnly: answered,
		MaxResults:   limit,
	}
	if kind != "" {
		k, err := types.ParseFolderKind(kind)
		if err != nil {
			return opts, err
		}
		opts.Kind = k
	}
	return opts, nil
}

func init() {
	catalogCmd.PersistentFlags().String("db", "", "catalog database file")

	catalogIndexCmd.Flags().String("model", "", "content model file to index")

	catalogSearchCmd.Flags().String("section", "", "filter by section label")
	catalogSearchCmd.Flags().String("kind", "", "filter by kind: problem, example, or reference")
	catalogSearchCmd.Flags().Bool("answered", false, "only items with an answer")
	catalogSearchCmd.Flags().Int("limit", 0, "maximum results (0 = use default)")
	catalogSearchCmd.Flags().Bool("json", false, "output results as JSON")
	catalogSearchCmd.Flags().String("export", "", "write the hits as a selection file")

	catalogCmd.AddCommand(catalogIndexCmd)
	catalogCmd.AddCommand(catalogSearchCmd)

	rootCmd.AddCommand(catalogCmd)
}
