package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/linkian209/travel-time-anaylsis/config"
	"github.com/linkian209/travel-time-anaylsis/output"
	"github.com/linkian209/travel-time-anaylsis/storage"
)

var (
	exportFormat string
	exportMode   string
	exportOutput string
	exportDBPath string
	exportYear   int
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export recorded run history to CSV/Excel",
	Long: `Export recorded run history from SQLite.

Modes:
- monthly: one row per recorded month of every run
- yearly: per-year totals of the newest run, with the same day/hour percentages as the results page

Output format can be selected explicitly via --format or inferred from --output extension.`,
	Example: `
  # Export all recorded months to CSV
  traveltime export --mode monthly --output ./months.csv

  # Export yearly totals to Excel
  traveltime export --mode yearly --output ./years.xlsx

  # Force Excel format independent of extension
  traveltime export --mode monthly --format excel --db ./traveltime.db --output ./months.out
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		format := exportFormat
		if strings.TrimSpace(format) == "" {
			format = detectExportFormat(exportOutput)
		}

		cfg, err := config.LoadAndValidate()
		if err != nil {
			return err
		}
		dbPath := exportDBPath
		if strings.TrimSpace(dbPath) == "" {
			dbPath = cfg.History.DB
		}

		store, err := storage.OpenSQLite(dbPath)
		if err != nil {
			return err
		}
		defer store.Close()

		runs, err := store.ListRuns(exportYear)
		if err != nil {
			return err
		}

		mode := strings.TrimSpace(strings.ToLower(exportMode))
		switch mode {
		case "", "monthly":
			writer, writerErr := output.WriterForFormat(format)
			if writerErr != nil {
				return writerErr
			}
			if err := writer.Write(exportOutput, runs); err != nil {
				return err
			}
			fmt.Printf("Export completed. Runs: %d, Mode: monthly, Format: %s, File: %s\n", len(runs), format, exportOutput)
		case "yearly":
			summaries := output.BuildYearSummaries(runs, cfg.ResultsOptions())
			if err := output.WriteYearSummaries(exportOutput, format, summaries); err != nil {
				return err
			}
			fmt.Printf("Export completed. Years: %d, Mode: yearly, Format: %s, File: %s\n", len(summaries), format, exportOutput)
		default:
			return fmt.Errorf("unsupported export mode: %s (supported: monthly, yearly)", exportMode)
		}
		return nil
	},
}

func detectExportFormat(path string) string {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	switch ext {
	case "csv":
		return "csv"
	case "xlsx", "xlsm", "xls":
		return "excel"
	default:
		return "csv"
	}
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVar(&exportMode, "mode", "monthly", "Export mode: monthly|yearly")
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "", "Output format: csv|excel (optional, inferred from output extension)")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file path")
	exportCmd.Flags().StringVar(&exportDBPath, "db", "", "Path to the SQLite run history (default from history.db)")
	exportCmd.Flags().IntVar(&exportYear, "year", 0, "Only export runs for this year")

	_ = exportCmd.MarkFlagRequired("output")
}
