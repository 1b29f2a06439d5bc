package cli

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"apidoc/internal/domain"
)

var (
	showErrors bool
	showFormat string
)

var showCmd = &cobra.Command{
	Use:   "show [path]",
	Short: "Show stored comments",
	Long: `Show the parsed comments stored for a file, or with --errors every stored
comment that failed to parse.

Examples:
  apidoc show src/api.js
  apidoc show --errors --format text`,
	Args: cobra.MaximumNArgs(1),
	RunE: runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().BoolVar(&showErrors, "errors", false, "list every comment that failed to parse")
	showCmd.Flags().StringVarP(&showFormat, "format", "f", "", "output format: json, yaml or text (default from config)")
}

// shownComment pairs a stored comment with the path of its file.
type shownComment struct {
	Path    string            `json:"path" yaml:"path"`
	Comment domain.DocComment `json:"comment" yaml:"comment"`
}

func runShow(cmd *cobra.Command, args []string) error {
	if len(args) == 0 && !showErrors {
		return fmt.Errorf("a file path or --errors is required")
	}
	format, err := outputFormat(showFormat)
	if err != nil {
		return err
	}

	st, err := openExistingStore()
	if err != nil {
		return err
	}
	defer st.Close()

	docs, err := st.ListDocs()
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].Path < docs[j].Path })

	var target string
	if len(args) > 0 {
		target, err = filepath.Abs(args[0])
		if err != nil {
			return fmt.Errorf("invalid path: %w", err)
		}
	}

	var shown []shownComment
	found := target == ""
	for _, doc := range docs {
		if target != "" && doc.Path != target {
			continue
		}
		found = true
		comments, err := st.GetCommentsByDoc(doc.ID)
		if err != nil {
			return fmt.Errorf("failed to read comments of %s: %w", doc.Path, err)
		}
		for _, c := range comments {
			if showErrors && c.Result.OK() {
				continue
			}
			shown = append(shown, shownComment{Path: doc.Path, Comment: c})
		}
	}
	if !found {
		return fmt.Errorf("no stored comments for %s", target)
	}

	out := cmd.OutOrStdout()
	if format != "text" {
		if shown == nil {
			shown = []shownComment{}
		}
		return writeStructured(out, format, shown)
	}

	if len(shown) == 0 {
		fmt.Fprintln(out, "No comments found.")
		return nil
	}
	for _, s := range shown {
		writeCommentText(out, s)
	}
	return nil
}

func writeCommentText(w io.Writer, s shownComment) {
	c := s.Comment
	header := fmt.Sprintf("--- %s:L%d-%d", s.Path, c.StartLine, c.EndLine)
	if c.SymbolName != "" {
		header += fmt.Sprintf(" %s %s", c.SymbolKind, c.SymbolName)
	}
	fmt.Fprintln(w, header+" ---")
	if c.Result.Error != nil {
		// Error lines are relative to the comment.
		fmt.Fprintf(w, "error at file line %d: %s\n", c.StartLine+c.Result.Error.Line-1, c.Result.Error.Message)
	} else {
		writeResultText(w, c.Result)
	}
	fmt.Fprintln(w)
}
