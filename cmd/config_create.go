package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/linkian209/travel-time-anaylsis/config"
)

var configCreateForce bool

var configCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a configuration file from the example template.",
	Long: `Create a new configuration file from the same example template used by "config edit".

If a configuration file is already in use, no new file is written unless --force is given.`,
	Example: `
  # Create default config at $HOME/.traveltime.yaml
  traveltime config create

  # Reset an existing config to the template
  traveltime config create --force
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return saveDefaultConfig(configCreateForce)
	},
}

func saveDefaultConfig(force bool) error {
	configPath, err := resolveConfigEditPath(cfgFile, viper.ConfigFileUsed())
	if err != nil {
		return err
	}

	if force {
		if err := os.WriteFile(configPath, []byte(config.ExampleYAML()), 0o600); err != nil {
			return fmt.Errorf("overwriting config file failed: %w", err)
		}
		fmt.Printf("Config file reset to template at: %s\n", configPath)
		return nil
	}

	created, err := ensureConfigFileWithTemplate(configPath)
	if err != nil {
		return err
	}

	if created {
		fmt.Printf("New config file created at: %s\n", configPath)
		return nil
	}

	fmt.Printf("Config file already exists at: %s\n", configPath)
	return nil
}

func init() {
	configCmd.AddCommand(configCreateCmd)

	configCreateCmd.Flags().BoolVar(&configCreateForce, "force", false, "Overwrite an existing config file with the template")
}
