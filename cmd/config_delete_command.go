package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/linkian209/travel-time-anaylsis/config"
)

var configDeleteHistory bool

var configDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete the active configuration file.",
	Long: `Delete the configuration file currently selected by traveltime.

The run history database named under history.db is kept unless --history is
given. If no configuration file is active, the command returns an error.`,
	Example: `
  # Delete active config
  traveltime config delete

  # Delete config at a custom path
  traveltime --configFile ./custom-traveltime.yaml config delete

  # Delete the config and the history database it points at
  traveltime config delete --history
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath := viper.ConfigFileUsed()
		if configPath == "" {
			return fmt.Errorf("no configuration file found")
		}

		cfg, err := config.LoadAndValidate()
		if err != nil && configDeleteHistory {
			return fmt.Errorf("resolve history database from %s: %w", configPath, err)
		}
		return deleteConfig(cmd.OutOrStdout(), configPath, cfg, configDeleteHistory)
	},
}

// deleteConfig removes the config file and, with withHistory, the history
// database cfg points at. A missing database is not an error.
func deleteConfig(out io.Writer, configPath string, cfg *config.Config, withHistory bool) error {
	if err := os.Remove(configPath); err != nil {
		return fmt.Errorf("error deleting configuration file: %w", err)
	}
	fmt.Fprintf(out, "Configuration file successfully deleted: %s\n", configPath)

	if cfg == nil || cfg.History.DB == "" {
		return nil
	}
	if !withHistory {
		if _, err := os.Stat(cfg.History.DB); err == nil {
			fmt.Fprintf(out, "Run history kept in %s\n", cfg.History.DB)
		}
		return nil
	}

	if err := os.Remove(cfg.History.DB); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("delete history database: %w", err)
	}
	fmt.Fprintf(out, "History database deleted: %s\n", cfg.History.DB)
	return nil
}

func init() {
	configCmd.AddCommand(configDeleteCmd)

	configDeleteCmd.Flags().BoolVar(&configDeleteHistory, "history", false, "Also delete the history database named in the config")
}
