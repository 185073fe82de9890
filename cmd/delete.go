package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/linkian209/travel-time-anaylsis/storage"
)

var (
	deleteDBPath string
	deleteFile   bool
)

var (
	deletePromptInput  io.Reader = os.Stdin
	deletePromptOutput io.Writer = os.Stdout
)

var deleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete recorded run history",
	Long: `Destructive history cleanup command.

By default every recorded run is removed and the database schema is kept.
With --file the complete SQLite database file is deleted instead.
Before deletion, an interactive security prompt requires typing exactly "Y".`,
	Example: `
  # Remove all recorded runs (requires interactive confirmation)
  traveltime delete --db ./traveltime.db

  # Delete the complete SQLite file
  traveltime delete --file
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath, err := resolveDBPath(deleteDBPath)
		if err != nil {
			return err
		}

		target := "all recorded runs in " + dbPath
		if deleteFile {
			target = "database file " + dbPath
		}
		confirmed, err := confirmDeletePrompt(deletePromptInput, deletePromptOutput, target)
		if err != nil {
			return err
		}
		if !confirmed {
			return fmt.Errorf("delete aborted: confirmation was not 'Y'")
		}

		if deleteFile {
			if err := removeDatabaseFile(dbPath); err != nil {
				return err
			}
			fmt.Printf("Deleted database file: %s\n", dbPath)
			return nil
		}

		deleted, err := deleteAllRuns(dbPath)
		if err != nil {
			return err
		}
		fmt.Printf("Deleted %d recorded run(s) from %s\n", deleted, dbPath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)

	deleteCmd.Flags().StringVar(&deleteDBPath, "db", "", "Path to the SQLite run history (default from history.db)")
	deleteCmd.Flags().BoolVar(&deleteFile, "file", false, "Delete the complete database file instead of its runs")
}

func deleteAllRuns(dbPath string) (int64, error) {
	if _, err := os.Stat(dbPath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, fmt.Errorf("database file not found: %s", dbPath)
		}
		return 0, fmt.Errorf("stat database file: %w", err)
	}

	store, err := storage.OpenSQLite(dbPath)
	if err != nil {
		return 0, err
	}
	defer store.Close()

	return store.DeleteAllRuns()
}

func confirmDeletePrompt(input io.Reader, output io.Writer, target string) (bool, error) {
	if input == nil {
		return false, fmt.Errorf("delete confirmation input is not available")
	}

	if output == nil {
		output = io.Discard
	}

	if _, err := fmt.Fprintf(output, "Delete %s? Type Y to confirm: ", target); err != nil {
		return false, fmt.Errorf("write delete confirmation prompt: %w", err)
	}

	line, err := bufio.NewReader(input).ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) {
			line = strings.TrimSpace(line)
			return line == "Y", nil
		}
		return false, fmt.Errorf("read delete confirmation: %w", err)
	}
	return strings.TrimSpace(line) == "Y", nil
}

func removeDatabaseFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("database file not found: %s", path)
		}
		return fmt.Errorf("stat database file: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("database path is a directory: %s", path)
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("delete database file: %w", err)
	}
	return nil
}
