package cmd

import (
	"fmt"

	"github.com/ptstack/ptstack/internal/storage"
	"github.com/ptstack/ptstack/internal/utils"
	"github.com/spf13/cobra"
)

var endSessionCmd = &cobra.Command{
	Use:   "end-session",
	Short: "End the current training session and commit it to the database",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !utils.SessionExists() {
			return fmt.Errorf("No active session")
		}

		state, err := utils.LoadSessionState()
		if err != nil {
			return fmt.Errorf("Failed to load session: %w", err)
		}

		st := storage.NewStorage()

		session, err := st.SaveSession(state)
		if err != nil {
			return fmt.Errorf("Failed to save session: %w", err)
		}

		if err := utils.ClearSessionState(); err != nil {
			return fmt.Errorf("Failed to clear session: %w", err)
		}

		fmt.Printf("✅ Session %s saved\n", session.ID)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(endSessionCmd)
}
