package cmd

import (
	"fmt"
	"os"

	"github.com/ptstack/ptstack/internal/storage"
	"github.com/spf13/cobra"
)

var importExercisesCmd = &cobra.Command{
	Use:   "import-exercises [file]",
	Short: "Import a TOML exercise catalog file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("Failed to read file: %w", err)
		}

		st := storage.NewStorage()
		count, err := st.ImportExercises(data)
		if err != nil {
			return fmt.Errorf("Failed to import exercises: %w", err)
		}

		fmt.Printf("✅ Imported %d exercises\n", count)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importExercisesCmd)
}
