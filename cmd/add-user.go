package cmd

import (
	"fmt"

	"github.com/ptstack/ptstack/internal/storage"
	"github.com/spf13/cobra"
)

var (
	newUserName string
	newUserRole string
)

var addUserCmd = &cobra.Command{
	Use:   "add-user",
	Short: "Register a new member or trainer",
	RunE: func(cmd *cobra.Command, args []string) error {
		st := storage.NewStorage()

		user, err := st.CreateUser(newUserName, newUserRole)
		if err != nil {
			return fmt.Errorf("Failed to create user: %w", err)
		}

		fmt.Printf("✅ Created %s '%s' (%s)\n", user.Role, user.Name, user.ID)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(addUserCmd)

	addUserCmd.Flags().StringVarP(&newUserName, "name", "n", "", "User name")
	addUserCmd.Flags().StringVarP(&newUserRole, "role", "r", "member", "Role (member or trainer)")
	addUserCmd.MarkFlagRequired("name")
}
