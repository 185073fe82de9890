/*
Copyright © 2025 riad@rsworld.eu

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/linkian209/travel-time-anaylsis/config"
)

var cfgFile string

var (
	reportDBPath    string
	reportNoHistory bool
	reportParallel  bool
	reportWorkers   int
	reportFormat    string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "traveltime <timesheet> <results>",
	Short: "Total out-of-town hours and days from a timesheet into a yearly results workbook.",
	Long: `
**********************************************
*            TRAVEL TIME ANALYSIS            *
**********************************************

Reads a timesheet workbook with one sheet per month, totals the hours and
distinct days booked on out-of-town PO rows, and writes the totals into a
per-year page of a results workbook. A missing results workbook is created.

Supported timesheet formats:
- Excel: .xlsx, .xlsm
- Legacy Excel: .xls

Every run is recorded in a local SQLite history database unless disabled.
`,
	Example: `
  # Total a timesheet into results.xlsx
  traveltime Timesheet2018.xlsx results.xlsx

  # Scan month sheets concurrently
  traveltime Timesheet2018.xlsx results.xlsx --parallel --workers 4

  # Run without recording history
  traveltime Timesheet2018.xlsx results.xlsx --no-history

  # Show recorded runs for 2018
  traveltime history --year 2018

  # Export yearly totals
  traveltime export --mode yearly --output ./years.csv
`,
	Args: validateReportArgs,
	RunE: runReport,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	config.SetDefaults()

	rootCmd.PersistentFlags().StringVar(&cfgFile, "configFile", "", "Config file override (default discovery: $HOME/.traveltime.yaml, then ./.traveltime.yaml)")

	rootCmd.Flags().StringVar(&reportDBPath, "db", "", "Path to the SQLite run history (default from history.db)")
	rootCmd.Flags().BoolVar(&reportNoHistory, "no-history", false, "Do not record this run in the history database")
	rootCmd.Flags().BoolVar(&reportParallel, "parallel", false, "Scan month sheets concurrently")
	rootCmd.Flags().IntVar(&reportWorkers, "workers", 0, "Maximum concurrent sheet scans with --parallel (default from scan.workers)")
	rootCmd.Flags().StringVarP(&reportFormat, "format", "f", "", "Timesheet format: excel|xls (optional, inferred from extension when omitted)")
}

// initConfig reads in .env, config file and ENV variables if set.
func initConfig() {
	_ = godotenv.Load()

	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".traveltime" (without extension).
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".traveltime")
	}

	viper.SetEnvPrefix(config.EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	// The config file is optional; defaults cover the standard timesheet.
	if err := viper.ReadInConfig(); err != nil && cfgFile != "" {
		fmt.Fprintf(os.Stderr, "Could not read config file %s: %v\n", cfgFile, err)
	}
}

func validateReportArgs(cmd *cobra.Command, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("expected a timesheet path and a results path, got %d argument(s)", len(args))
	}
	return nil
}
