package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var runsLimit int

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List past extraction runs",
	RunE:  runRuns,
}

func init() {
	rootCmd.AddCommand(runsCmd)
	runsCmd.Flags().IntVarP(&runsLimit, "limit", "n", 10, "number of runs to show (0 = all)")
}

func runRuns(cmd *cobra.Command, args []string) error {
	st, err := openExistingStore()
	if err != nil {
		return err
	}
	defer st.Close()

	runs, err := st.ListRuns()
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}
	if runsLimit > 0 && len(runs) > runsLimit {
		runs = runs[:runsLimit]
	}

	stats, err := st.GetStats()
	if err != nil {
		return fmt.Errorf("failed to read stats: %w", err)
	}

	terms, err := st.AllTerms()
	if err != nil {
		return fmt.Errorf("failed to read terms: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Stored: %d files, %d comments, %d parse errors, %d search terms\n\n",
		stats.TotalDocs, stats.TotalComments, stats.ParseErrors, len(terms))
	for _, r := range runs {
		fmt.Fprintf(out, "%s  %s  indexed=%d skipped=%d deleted=%d comments=%d errors=%d (%s)\n",
			r.StartedAt.Local().Format("2006-01-02 15:04:05"), r.ID,
			r.FilesIndexed, r.FilesSkipped, r.FilesDeleted, r.Comments, r.ParseErrors,
			formatDuration(r.FinishedAt.Sub(r.StartedAt)))
	}
	return nil
}
