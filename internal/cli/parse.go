package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"apidoc/internal/adapter/docparser"
)

var parseFormat string

var parseCmd = &cobra.Command{
	Use:   "parse [file|-]",
	Short: "Parse a single doc comment",
	Long: `Parse one /** ... */ comment read from a file, or from standard input when
the argument is "-" or missing, and print the result. The exit status is 1
when the comment does not parse.

Examples:
  apidoc parse comment.txt
  echo '/** Returns the id. */' | apidoc parse --format text`,
	Args: cobra.MaximumNArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)
	parseCmd.Flags().StringVarP(&parseFormat, "format", "f", "", "output format: json, yaml or text (default from config)")
}

func runParse(cmd *cobra.Command, args []string) error {
	format, err := outputFormat(parseFormat)
	if err != nil {
		return err
	}

	var data []byte
	if len(args) == 0 || args[0] == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(args[0])
	}
	if err != nil {
		return fmt.Errorf("failed to read comment: %w", err)
	}

	// Files usually end with a newline that is not part of the comment.
	text := strings.TrimRight(string(data), "\r\n")
	result := docparser.NewParser().Parse(text)

	out := cmd.OutOrStdout()
	if format == "text" {
		writeResultText(out, result)
	} else if err := writeStructured(out, format, result); err != nil {
		return fmt.Errorf("failed to write result: %w", err)
	}

	if result.Error != nil {
		return fmt.Errorf("comment does not parse: %w", result.Error)
	}
	return nil
}
