package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/linkian209/travel-time-anaylsis/config"
)

var configEditEditor string

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Open the active config in an editor.",
	Long: `Open the active traveltime config file in your editor.

Editor selection order:
1) --editor
2) $VISUAL
3) $EDITOR
4) vi

If no config file exists yet, this command creates one with an example template first.
After the editor exits, the content is validated as traveltime YAML config.`,
	Example: `
  # Edit active config
  traveltime config edit

  # Edit with a specific editor
  traveltime config edit --editor "code --wait"
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, err := resolveConfigEditPath(cfgFile, viper.ConfigFileUsed())
		if err != nil {
			return err
		}

		created, err := ensureConfigFileWithTemplate(configPath)
		if err != nil {
			return err
		}
		if created {
			fmt.Printf("No config file found. Created example config at: %s\n", configPath)
		}

		editor := configEditEditor
		if strings.TrimSpace(editor) == "" {
			editor = resolveEditorValue(os.Getenv("VISUAL"), os.Getenv("EDITOR"))
		}
		editorCommand, err := buildEditorCommand(editor, configPath)
		if err != nil {
			return err
		}
		editorCommand.Stdin = os.Stdin
		editorCommand.Stdout = os.Stdout
		editorCommand.Stderr = os.Stderr
		if err := editorCommand.Run(); err != nil {
			return fmt.Errorf("opening editor failed: %w", err)
		}

		cfg, err := validateEditedConfig(configPath)
		if err != nil {
			return err
		}

		fmt.Printf("Configuration saved and validated: %s\n", configPath)
		fmt.Print(summarizeLayout(cfg))
		return nil
	},
}

func validateEditedConfig(path string) (*config.Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading edited config failed: %w", err)
	}
	cfg, err := config.ValidateYAMLContent(content)
	if err != nil {
		return nil, fmt.Errorf("config validation failed in %s: %w", path, err)
	}
	return cfg, nil
}

// summarizeLayout describes where the next run will look for out-of-town rows.
func summarizeLayout(cfg *config.Config) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Month rows from row %d, out-of-town markers: %s\n", cfg.Layout.StartRow, strings.Join(cfg.Layout.Markers, ", "))
	fmt.Fprintf(&b, "Year read from %s!%s, %d end-of-data labels\n", cfg.Layout.YearSheet, strings.ToUpper(cfg.Layout.YearCell), len(cfg.Layout.Sentinels))
	if cfg.History.Enabled {
		fmt.Fprintf(&b, "Runs recorded in %s\n", cfg.History.DB)
	} else {
		fmt.Fprintln(&b, "Run history disabled")
	}
	return b.String()
}

func resolveConfigEditPath(configFileFlag, configFileUsed string) (string, error) {
	if strings.TrimSpace(configFileFlag) != "" {
		return configFileFlag, nil
	}
	if strings.TrimSpace(configFileUsed) != "" {
		return configFileUsed, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".traveltime.yaml"), nil
}

func ensureConfigFileWithTemplate(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return false, nil
	}
	if !os.IsNotExist(err) {
		return false, fmt.Errorf("checking config file failed: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("creating config directory failed: %w", err)
	}
	if err := os.WriteFile(path, []byte(config.ExampleYAML()), 0o600); err != nil {
		return false, fmt.Errorf("creating example config failed: %w", err)
	}

	return true, nil
}

func resolveEditorValue(visual, editor string) string {
	if strings.TrimSpace(visual) != "" {
		return visual
	}
	if strings.TrimSpace(editor) != "" {
		return editor
	}
	return "vi"
}

func buildEditorCommand(editorValue, configPath string) (*exec.Cmd, error) {
	fields := strings.Fields(strings.TrimSpace(editorValue))
	if len(fields) == 0 {
		return nil, fmt.Errorf("editor command is empty")
	}

	args := append(fields[1:], configPath)
	return exec.Command(fields[0], args...), nil
}

func init() {
	configCmd.AddCommand(configEditCmd)

	configEditCmd.Flags().StringVar(&configEditEditor, "editor", "", "Editor command (overrides $VISUAL and $EDITOR)")
}
