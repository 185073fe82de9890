package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/linkian209/travel-time-anaylsis/config"
	"github.com/linkian209/travel-time-anaylsis/history"
	"github.com/linkian209/travel-time-anaylsis/importer"
	"github.com/linkian209/travel-time-anaylsis/output"
	"github.com/linkian209/travel-time-anaylsis/storage"
)

type reportOptions struct {
	TimesheetPath string
	ResultsPath   string
	Format        string
	Parallel      bool
	Workers       int
	RecordHistory bool
	DBPath        string
}

func runReport(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadAndValidate()
	if err != nil {
		return err
	}
	return startReport(cmd, cfg, args)
}

// startReport leaves usage enabled until both inputs are usable.
func startReport(cmd *cobra.Command, cfg *config.Config, args []string) error {
	options := resolveReportOptions(cmd, cfg, args[0], args[1])
	if err := checkTimesheetFile(options.TimesheetPath); err != nil {
		return err
	}
	wb, err := importer.OpenWorkbook(options.TimesheetPath, options.Format)
	if err != nil {
		return err
	}
	defer wb.Close()
	if err := prepareResultsFile(cmd.OutOrStdout(), options.ResultsPath, cfg.Results.PlaceholderText); err != nil {
		return err
	}

	// Arguments are valid from here on; failures are no longer usage errors.
	cmd.SilenceUsage = true
	return buildReport(cmd.OutOrStdout(), cfg, options, wb)
}

func resolveReportOptions(cmd *cobra.Command, cfg *config.Config, timesheetPath, resultsPath string) reportOptions {
	options := reportOptions{
		TimesheetPath: timesheetPath,
		ResultsPath:   resultsPath,
		Format:        reportFormat,
		Parallel:      cfg.Scan.Parallel,
		Workers:       cfg.Scan.Workers,
		RecordHistory: cfg.History.Enabled,
		DBPath:        cfg.History.DB,
	}
	if cmd.Flags().Changed("parallel") {
		options.Parallel = reportParallel
	}
	if cmd.Flags().Changed("workers") {
		options.Workers = reportWorkers
	}
	if reportNoHistory {
		options.RecordHistory = false
	}
	if reportDBPath != "" {
		options.DBPath = reportDBPath
	}
	return options
}

func checkTimesheetFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("timesheet file not found: %s", path)
		}
		return fmt.Errorf("stat timesheet file: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("timesheet path is a directory: %s", path)
	}
	return nil
}

func prepareResultsFile(out io.Writer, path, placeholder string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	fmt.Fprintf(out, "%s does not exist! Creating...\n", path)
	if _, err := output.EnsureResultsFile(path, placeholder); err != nil {
		return err
	}
	return nil
}

// buildReport scans the whole timesheet before touching the results file,
// so a failing sheet leaves the results untouched.
func buildReport(out io.Writer, cfg *config.Config, options reportOptions, wb importer.Workbook) error {
	fmt.Fprintln(out, "Timesheet loaded. Data crunching beginning.")
	result, err := importer.Run(wb, cfg.ToLayout(), importer.RunOptions{
		Parallel: options.Parallel,
		Workers:  options.Workers,
		Out:      out,
	})
	if err != nil {
		return err
	}

	fmt.Fprintln(out, "Timesheet read complete! Beginning results reporting...")
	results, err := output.OpenResults(options.ResultsPath, cfg.ResultsOptions())
	if err != nil {
		return err
	}
	defer results.Close()

	months := result.Aggregates()
	if err := output.WriteReport(results, result.Year, months); err != nil {
		return err
	}
	if err := results.Save(); err != nil {
		return err
	}

	if options.RecordHistory {
		run := history.NewRun(result.Year, options.TimesheetPath, options.ResultsPath, months)
		id, err := recordRun(options.DBPath, run)
		if err != nil {
			return fmt.Errorf("results saved but history was not recorded: %w", err)
		}
		fmt.Fprintf(out, "Run %d recorded in %s\n", id, options.DBPath)
	}

	fmt.Fprintln(out, "Done!")
	return nil
}

func recordRun(dbPath string, run history.Run) (int64, error) {
	store, err := storage.OpenSQLite(dbPath)
	if err != nil {
		return 0, err
	}
	defer store.Close()

	return store.RecordRun(run)
}
