package cmd

import "github.com/spf13/cobra"

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage traveltime configuration file values.",
	Long: `Create, edit, display, and delete the traveltime configuration file.

The configuration describes the timesheet layout and run options:
- layout.* (sheet names, year cell, PO column, day columns, sentinels, markers)
- results.days_in_year / results.hours_in_year / results.placeholder_text
- scan.parallel / scan.workers
- history.enabled / history.db

Every key can also be set from the environment, e.g. TRAVELTIME_SCAN_WORKERS=8.`,
	Example: `
  # Create default config in $HOME/.traveltime.yaml
  traveltime config create

  # Show active config and source file
  traveltime config show

  # Open active config in editor (creates example if missing)
  traveltime config edit

  # Delete active config file
  traveltime config delete
`,
}

func init() {
	rootCmd.AddCommand(configCmd)
}
