package cmd

import (
	"fmt"
	"os"

	"github.com/ptstack/ptstack/internal/storage"
	"github.com/spf13/cobra"
)

var newVersionCmd = &cobra.Command{
	Use:   "new-version [program-name] [file]",
	Short: "Add a new (inactive) version of a program from a TOML definition",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[1])
		if err != nil {
			return fmt.Errorf("Failed to read file: %w", err)
		}

		st := storage.NewStorage()
		version, err := st.CreateVersion(args[0], data)
		if err != nil {
			return fmt.Errorf("Failed to create version: %w", err)
		}

		fmt.Printf("✅ Created version %d of '%s' (inactive, use activate-version to switch)\n", version, args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(newVersionCmd)
}
