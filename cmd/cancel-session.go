package cmd

import (
	"fmt"

	"github.com/ptstack/ptstack/internal/utils"
	"github.com/spf13/cobra"
)

var cancelSessionCmd = &cobra.Command{
	Use:   "cancel-session",
	Short: "Discard the current training session without saving it",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !utils.SessionExists() {
			return fmt.Errorf("No active session")
		}

		if err := utils.ClearSessionState(); err != nil {
			return fmt.Errorf("Failed to clear session: %w", err)
		}

		fmt.Println("🗑  Session discarded")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cancelSessionCmd)
}
