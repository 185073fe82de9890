package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/linkian209/travel-time-anaylsis/config"
	"github.com/linkian209/travel-time-anaylsis/history"
	"github.com/linkian209/travel-time-anaylsis/storage"
)

var (
	historyYear   int
	historyDBPath string
	historyLatest bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded runs from the SQLite history",
	Long: `List the runs recorded by previous invocations, newest first.

Each run shows the year, the files involved, and the per-month totals that
were written to the results workbook.`,
	Example: `
  # All recorded runs
  traveltime history

  # Runs for one year from a specific database
  traveltime history --year 2018 --db ./traveltime.db

  # Only the newest run of every year
  traveltime history --latest
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath, err := resolveDBPath(historyDBPath)
		if err != nil {
			return err
		}

		store, err := storage.OpenSQLite(dbPath)
		if err != nil {
			return err
		}
		defer store.Close()

		var runs []history.Run
		if historyLatest {
			runs, err = store.LatestRuns()
		} else {
			runs, err = store.ListRuns(historyYear)
		}
		if err != nil {
			return err
		}
		printRuns(cmd.OutOrStdout(), runs)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().IntVar(&historyYear, "year", 0, "Only show runs for this year")
	historyCmd.Flags().StringVar(&historyDBPath, "db", "", "Path to the SQLite run history (default from history.db)")
	historyCmd.Flags().BoolVar(&historyLatest, "latest", false, "Only show the newest run of every year")

	historyCmd.MarkFlagsMutuallyExclusive("year", "latest")
}

// resolveDBPath prefers an explicit --db value over history.db.
func resolveDBPath(flagValue string) (string, error) {
	if strings.TrimSpace(flagValue) != "" {
		return flagValue, nil
	}
	cfg, err := config.LoadAndValidate()
	if err != nil {
		return "", err
	}
	return cfg.History.DB, nil
}

func printRuns(out io.Writer, runs []history.Run) {
	if len(runs) == 0 {
		fmt.Fprintln(out, "No runs recorded.")
		return
	}
	for _, run := range runs {
		fmt.Fprintf(out, "Run %d: %d (%s -> %s) at %s\n",
			run.ID,
			run.Year,
			run.TimesheetFile,
			run.ResultsFile,
			run.CreatedAt.Local().Format("2006-01-02 15:04:05"),
		)
		for _, month := range run.Months {
			fmt.Fprintf(out, "  %-10s Hours:%d Days:%d %v\n", month.Month, month.TotalHours, month.TotalDays, month.DaysWorked)
		}
		fmt.Fprintf(out, "  %-10s Hours:%d Days:%d\n", "Total", run.TotalHours(), run.TotalDays())
	}
}
