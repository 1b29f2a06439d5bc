package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"apidoc/internal/adapter/analyzer"
	"apidoc/internal/usecase"
)

var (
	searchText   string
	searchTopK   int
	searchFormat string
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search stored comments by keyword",
	Long: `Search the text, tags and documented symbol names of stored comments.

Examples:
  apidoc search -q "retry policy"
  apidoc search -q parse --top-k 3 --format json`,
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().StringVarP(&searchText, "query", "q", "", "search query (required)")
	searchCmd.Flags().IntVarP(&searchTopK, "top-k", "k", 0, "number of results (default from config)")
	searchCmd.Flags().StringVarP(&searchFormat, "format", "f", "text", "output format: json, yaml or text")
	searchCmd.MarkFlagRequired("query")
}

func runSearch(cmd *cobra.Command, args []string) error {
	format, err := outputFormat(searchFormat)
	if err != nil {
		return err
	}

	st, err := openExistingStore()
	if err != nil {
		return err
	}
	defer st.Close()

	topK := GetConfig().Output.TopK
	if searchTopK > 0 {
		topK = searchTopK
	}

	searchUC := usecase.NewSearchUseCase(st, analyzer.NewTokenizer())
	scored, err := searchUC.Search(searchText, topK)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	results := make([]usecase.SearchResult, 0, len(scored))
	for _, sc := range scored {
		results = append(results, usecase.ToSearchResult(sc))
	}

	out := cmd.OutOrStdout()
	if format != "text" {
		return writeStructured(out, format, results)
	}

	if len(results) == 0 {
		fmt.Fprintln(out, "No results found.")
		return nil
	}
	fmt.Fprintf(out, "Found %d results for: %s\n\n", len(results), searchText)
	for i, r := range results {
		symbol := ""
		if r.Symbol != "" {
			symbol = fmt.Sprintf(" %s %s", r.SymbolKind, r.Symbol)
		}
		fmt.Fprintf(out, "--- [%d] %s:L%d%s (score: %.2f) ---\n", i+1, r.Path, r.StartLine, symbol, r.Score)
		summary := r.Summary
		if len(summary) > 300 {
			summary = summary[:300] + "..."
		}
		if summary != "" {
			fmt.Fprintln(out, summary)
		}
		fmt.Fprintln(out)
	}
	return nil
}
