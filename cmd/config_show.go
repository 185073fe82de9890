package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/linkian209/travel-time-anaylsis/config"
)

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show active configuration values.",
	Long: `Display the effective configuration as YAML and the resolved config file path.

Values come from the config file, TRAVELTIME_* environment variables and
built-in defaults. This command validates the configuration before printing values.`,
	Example: `
  # Show active configuration
  traveltime config show
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		out := cmd.OutOrStdout()
		if configPath := viper.ConfigFileUsed(); configPath != "" {
			fmt.Fprintln(out, "Config file loaded from:", configPath)
		} else {
			fmt.Fprintln(out, "No config file loaded, using defaults.")
		}
		fmt.Fprintln(out, "Configuration:")
		return writeConfigYAML(out, cfg)
	},
}

func writeConfigYAML(out io.Writer, cfg *config.Config) error {
	encoder := yaml.NewEncoder(out)
	encoder.SetIndent(2)
	if err := encoder.Encode(cfg); err != nil {
		return fmt.Errorf("render config: %w", err)
	}
	return encoder.Close()
}

func init() {
	configCmd.AddCommand(configShowCmd)
}
