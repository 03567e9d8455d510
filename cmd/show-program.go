package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/ptstack/ptstack/internal/models"
	"github.com/ptstack/ptstack/internal/storage"
	"github.com/spf13/cobra"
)

var showProgramVersion int

var showProgramCmd = &cobra.Command{
	Use:   "show-program [program-name]",
	Short: "Display a program version with its days, prescriptions and rules",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st := storage.NewStorage()

		var version *models.ProgramVersion
		var err error
		if showProgramVersion > 0 {
			version, err = st.GetVersion(args[0], showProgramVersion)
		} else {
			version, err = st.GetActiveVersion(args[0])
		}
		if err != nil {
			return fmt.Errorf("Failed to get program version: %w", err)
		}

		boldGreen := color.New(color.FgGreen, color.Bold).SprintFunc()
		cyan := color.New(color.FgCyan).SprintFunc()
		yellow := color.New(color.FgYellow).SprintFunc()
		magenta := color.New(color.FgMagenta).SprintFunc()

		activeTag := ""
		if version.IsActive {
			activeTag = " (active)"
		}
		fmt.Printf("%s v%d%s\n", boldGreen(args[0]), version.VersionNumber, activeTag)

		for _, day := range version.Days {
			intensity := ""
			if day.Intensity != "" {
				intensity = fmt.Sprintf(" [%s]", day.Intensity)
			}
			fmt.Printf("\n%s%s\n", cyan(day.Name), yellow(intensity))

			for _, pde := range day.Exercises {
				ex, err := st.GetExerciseByID(pde.ExerciseID)
				name := pde.ExerciseID
				if err == nil {
					name = ex.Name
				}

				fmt.Printf("  %s: %d×%d-%d", name, pde.Sets, pde.RepsMin, pde.RepsMax)
				if pde.StartWeight > 0 {
					fmt.Printf(" @ %.1fkg", pde.StartWeight)
				}
				if pde.TargetRPE != nil {
					fmt.Printf(" RPE %.1f", *pde.TargetRPE)
				}
				if pde.Tempo != "" {
					fmt.Printf(" tempo %s", pde.Tempo)
				}
				if pde.RestSeconds > 0 {
					fmt.Printf(" rest %ds", pde.RestSeconds)
				}
				fmt.Println()

				for i, rule := range pde.Rules {
					fmt.Printf("    %s %s\n", magenta(fmt.Sprintf("rule %d:", i+1)), rule.Kind())
				}
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(showProgramCmd)

	showProgramCmd.Flags().IntVarP(&showProgramVersion, "version", "v", 0, "Version number (defaults to the active version)")
}
