package cmd

import (
	"fmt"

	"github.com/ptstack/ptstack/internal/storage"
	"github.com/spf13/cobra"
)

var initDBCmd = &cobra.Command{
	Use:   "init-db",
	Short: "Create the database schema if it does not exist",
	RunE: func(cmd *cobra.Command, args []string) error {
		// NewStorage runs the schema migration.
		st := storage.NewStorage()
		if err := st.DB.Ping(); err != nil {
			return fmt.Errorf("Failed to reach database: %w", err)
		}

		fmt.Println("✅ Database initialized")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initDBCmd)
}
