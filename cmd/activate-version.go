package cmd

import (
	"fmt"
	"strconv"

	"github.com/ptstack/ptstack/internal/storage"
	"github.com/spf13/cobra"
)

var activateVersionCmd = &cobra.Command{
	Use:   "activate-version [program-name] [version-number]",
	Short: "Make a version the program's single active version",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		versionNumber, err := strconv.Atoi(args[1])
		if err != nil || versionNumber < 1 {
			return fmt.Errorf("Invalid version number. Must be a positive integer")
		}

		st := storage.NewStorage()
		if err := st.ActivateVersion(args[0], versionNumber); err != nil {
			return fmt.Errorf("Failed to activate version: %w", err)
		}

		fmt.Printf("✅ Version %d of '%s' is now active\n", versionNumber, args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(activateVersionCmd)
}
