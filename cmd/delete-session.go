package cmd

import (
	"fmt"

	"github.com/ptstack/ptstack/internal/storage"
	"github.com/spf13/cobra"
)

var deleteSessionCmd = &cobra.Command{
	Use:   "delete-session [session-id]",
	Short: "Soft-delete a saved session (recoverable with restore-session)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st := storage.NewStorage()

		if err := st.SoftDeleteSession(args[0]); err != nil {
			return fmt.Errorf("Failed to delete session: %w", err)
		}

		fmt.Printf("🗑  Session %s deleted\n", args[0])
		return nil
	},
}

var restoreSessionCmd = &cobra.Command{
	Use:   "restore-session [session-id]",
	Short: "Recover a soft-deleted session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st := storage.NewStorage()

		if err := st.RestoreSession(args[0]); err != nil {
			return fmt.Errorf("Failed to restore session: %w", err)
		}

		fmt.Printf("✅ Session %s restored\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(deleteSessionCmd)
	rootCmd.AddCommand(restoreSessionCmd)
}
