package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"apidoc/config"
	"apidoc/internal/adapter/analyzer"
	"apidoc/internal/adapter/cache"
	"apidoc/internal/adapter/docparser"
	"apidoc/internal/adapter/fs"
	"apidoc/internal/adapter/memstore"
	"apidoc/internal/adapter/store"
	"apidoc/internal/port"
	"apidoc/internal/usecase"
)

var (
	extractDryRun  bool
	extractNoBar   bool
	extractRebuild bool
)

var extractCmd = &cobra.Command{
	Use:   "extract [path]",
	Short: "Extract and parse doc comments from a source tree",
	Long: `Extract every /** ... */ comment from the files under a directory, parse
each one and store the results in .apidoc/docs.db within that directory.
Files that have not changed since the last run are skipped.

Examples:
  apidoc extract .                 # Extract from the current directory
  apidoc extract ./src --dry-run   # Parse everything without writing a database`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)
	extractCmd.Flags().BoolVar(&extractDryRun, "dry-run", false, "parse into memory without touching the database")
	extractCmd.Flags().BoolVar(&extractNoBar, "no-progress", false, "disable the progress bar")
	extractCmd.Flags().BoolVar(&extractRebuild, "rebuild", false, "discard stored comments and extract everything again")
}

func runExtract(cmd *cobra.Command, args []string) error {
	path := GetRootDir()
	if len(args) > 0 {
		var err error
		path, err = filepath.Abs(args[0])
		if err != nil {
			return fmt.Errorf("invalid path: %w", err)
		}
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("path does not exist: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("path is not a directory: %s", path)
	}

	cfg := GetConfig()
	log := GetLogger()

	var st port.DocStore
	var bolt *store.BoltStore
	dbPath := config.DBPath(path)
	if extractDryRun {
		st = memstore.NewMemoryStore()
	} else {
		if err := config.EnsureDataDir(path); err != nil {
			return fmt.Errorf("failed to create %s directory: %w", config.DataDir, err)
		}
		bolt, err = store.NewBoltStore(dbPath)
		if err != nil {
			return fmt.Errorf("failed to open comment store: %w", err)
		}
		defer bolt.Close()
		if err := prepareStore(bolt, cfg, extractRebuild); err != nil {
			return err
		}
		st = bolt
	}

	parseCache := cache.NewParseCache(cfg.Parse.CacheSize, time.Duration(cfg.Parse.CacheTTLMinutes)*time.Minute)
	parser := cache.NewCachedParser(docparser.NewParser(), parseCache)

	extractUC := usecase.NewExtractUseCase(
		st,
		fs.NewWalker(cfg.Extract.Includes, cfg.Extract.Excludes),
		analyzer.NewDocBlockExtractor(),
		parser,
		analyzer.NewTokenizer(),
		usecase.WithWorkers(cfg.Extract.Workers),
		usecase.WithMaxBytes(cfg.Extract.MaxBytes),
		usecase.WithLogger(log),
	)

	fmt.Printf("Scanning %s...\n", path)

	var progress usecase.ProgressFunc
	if !extractNoBar {
		progress = newProgressBar()
	}

	result, err := extractUC.Extract(cmd.Context(), path, progress)
	if err != nil {
		return fmt.Errorf("extraction failed: %w", err)
	}

	if bolt != nil {
		// Record schema and config hash after a successful run.
		if err := bolt.Migrate(cfg); err != nil {
			return fmt.Errorf("failed to update schema info: %w", err)
		}
	}

	hits, misses := parser.Stats()
	log.Debug("parse cache", "hits", hits, "misses", misses)

	fmt.Printf("\nExtraction complete (run %s):\n", result.RunID)
	fmt.Printf("  Files indexed:  %d\n", result.FilesIndexed)
	fmt.Printf("  Files skipped:  %d (unchanged)\n", result.FilesSkipped)
	fmt.Printf("  Files deleted:  %d (removed)\n", result.FilesDeleted)
	fmt.Printf("  Comments:       %d\n", result.Comments)
	fmt.Printf("  Parse errors:   %d\n", result.ParseErrors)

	if len(result.Errors) > 0 {
		fmt.Printf("\nWarnings:\n")
		for _, e := range result.Errors {
			fmt.Printf("  - %s\n", e)
		}
	}

	if extractDryRun {
		fmt.Println("\nDry run: nothing was written.")
	} else {
		fmt.Printf("\nComments stored at: %s\n", dbPath)
	}
	return nil
}

// prepareStore migrates the schema or clears stale data before a run.
func prepareStore(st *store.BoltStore, cfg *config.Config, rebuild bool) error {
	migration, err := st.CheckMigration(cfg)
	if err != nil {
		return fmt.Errorf("failed to check migration: %w", err)
	}

	switch {
	case rebuild || migration.NeedsRebuild:
		reason := migration.Reason
		if rebuild {
			reason = "requested"
		}
		fmt.Printf("Rebuild required: %s\n", reason)
		fmt.Println("Clearing stored comments...")
		if err := st.Clear(); err != nil {
			return fmt.Errorf("failed to clear store: %w", err)
		}
	case migration.NeedsMigration:
		fmt.Printf("Running schema migration: %s\n", migration.Reason)
		if err := st.Migrate(cfg); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

// newProgressBar returns a progress callback that lazily creates a bar once
// the number of files is known.
func newProgressBar() usecase.ProgressFunc {
	var bar *progressbar.ProgressBar
	var barMu sync.Mutex
	var startTime time.Time

	return func(processed, total int, currentFile string) {
		barMu.Lock()
		defer barMu.Unlock()

		if bar == nil {
			startTime = time.Now()
			bar = progressbar.NewOptions(total,
				progressbar.OptionEnableColorCodes(true),
				progressbar.OptionShowBytes(false),
				progressbar.OptionSetWidth(40),
				progressbar.OptionShowCount(),
				progressbar.OptionSetDescription("[cyan]Extracting[reset]"),
				progressbar.OptionSetTheme(progressbar.Theme{
					Saucer:        "[green]=[reset]",
					SaucerHead:    "[green]>[reset]",
					SaucerPadding: " ",
					BarStart:      "[",
					BarEnd:        "]",
				}),
				progressbar.OptionOnCompletion(func() {
					fmt.Println()
				}),
			)
		}

		bar.Set(processed)

		if processed > 0 {
			elapsed := time.Since(startTime)
			rate := float64(processed) / elapsed.Seconds()
			remaining := total - processed
			if rate > 0 {
				eta := time.Duration(float64(remaining)/rate) * time.Second
				bar.Describe(fmt.Sprintf("[cyan]Extracting[reset] ETA: %s", formatDuration(eta)))
			}
		}
	}
}

// formatDuration formats a duration in a human-readable way.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return "<1s"
	}
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		m := int(d.Minutes())
		s := int(d.Seconds()) % 60
		return fmt.Sprintf("%dm%ds", m, s)
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	return fmt.Sprintf("%dh%dm", h, m)
}
