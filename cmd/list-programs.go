package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/ptstack/ptstack/internal/storage"
	"github.com/spf13/cobra"
)

var listProgramsCmd = &cobra.Command{
	Use:   "list-programs",
	Short: "List all programs and their active versions",
	RunE: func(cmd *cobra.Command, args []string) error {
		st := storage.NewStorage()

		programs, err := st.ListPrograms()
		if err != nil {
			return fmt.Errorf("Failed to list programs: %w", err)
		}

		if len(programs) == 0 {
			fmt.Println("No programs yet")
			return nil
		}

		green := color.New(color.FgGreen).SprintFunc()
		yellow := color.New(color.FgYellow).SprintFunc()

		for _, p := range programs {
			active := "no active version"
			if len(p.Versions) > 0 {
				active = fmt.Sprintf("active v%d", p.Versions[0].VersionNumber)
			}
			fmt.Printf("%s (%s) %s\n", green(p.Name), yellow(active), p.Description)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listProgramsCmd)
}
