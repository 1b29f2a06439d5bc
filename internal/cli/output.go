package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"apidoc/config"
	"apidoc/internal/adapter/store"
	"apidoc/internal/domain"
)

// outputFormat returns the flag value if set, otherwise the configured one.
func outputFormat(flag string) (string, error) {
	format := flag
	if format == "" {
		format = GetConfig().Output.Format
	}
	switch format {
	case "json", "yaml", "text":
		return format, nil
	default:
		return "", fmt.Errorf("unknown format %q (want json, yaml or text)", format)
	}
}

// writeStructured prints v as indented JSON or YAML.
func writeStructured(w io.Writer, format string, v any) error {
	switch format {
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		out, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(out))
		return err
	}
}

// writeResultText prints a parse result in a compact human-readable form.
func writeResultText(w io.Writer, result domain.ParserResult) {
	if result.Error != nil {
		fmt.Fprintf(w, "error: %s\n", result.Error)
		return
	}
	if len(result.Parts) == 0 {
		fmt.Fprintln(w, "(empty comment)")
		return
	}
	for _, part := range result.Parts {
		switch part.Kind {
		case domain.PartTag:
			line := "@" + part.Name
			if part.Type != "" {
				line += " {" + part.Type + "}"
			}
			if part.Text != "" {
				line += " " + indentContinuation(part.Text, "    ")
			}
			fmt.Fprintln(w, line)
		case domain.PartCode:
			fmt.Fprintf(w, "```%s\n%s\n```\n", part.Lang, part.Text)
		default:
			fmt.Fprintln(w, part.Text)
		}
	}
}

func indentContinuation(text, indent string) string {
	return strings.ReplaceAll(text, "\n", "\n"+indent)
}

// openExistingStore opens the comment database of the root directory,
// failing when no extraction has been run there yet.
func openExistingStore() (*store.BoltStore, error) {
	dbPath := config.DBPath(GetRootDir())
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("no comment database found. Run 'apidoc extract' first")
	}
	st, err := store.NewBoltStore(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open comment store: %w", err)
	}
	return st, nil
}
