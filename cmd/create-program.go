package cmd

import (
	"fmt"
	"os"

	"github.com/ptstack/ptstack/internal/storage"
	"github.com/spf13/cobra"
)

var programOwner string

var createProgramCmd = &cobra.Command{
	Use:   "create-program [file]",
	Short: "Create a program from a TOML definition (version 1 becomes active)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("Failed to read file: %w", err)
		}

		st := storage.NewStorage()
		owner, err := st.GetUserByName(programOwner)
		if err != nil {
			return fmt.Errorf("Failed to resolve owner: %w", err)
		}

		if err := st.CreateProgram(owner.ID, data); err != nil {
			return fmt.Errorf("Failed to create program: %w", err)
		}

		fmt.Println("✅ Program created with active version 1")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(createProgramCmd)

	createProgramCmd.Flags().StringVarP(&programOwner, "owner", "o", "", "Owning trainer or member name")
	createProgramCmd.MarkFlagRequired("owner")
}
