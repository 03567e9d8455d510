package cmd

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/ptstack/ptstack/internal/storage"
	"github.com/spf13/cobra"
)

var (
	nextUser     string
	nextProgram  string
	nextDay      string
	nextExercise string
	nextWeek     int
)

var nextCmd = &cobra.Command{
	Use:   "next",
	Short: "Preview the next prescription a program day's rules would produce",
	RunE: func(cmd *cobra.Command, args []string) error {
		st := storage.NewStorage()

		user, err := st.GetUserByName(nextUser)
		if err != nil {
			return fmt.Errorf("Failed to resolve user: %w", err)
		}

		version, err := st.GetActiveVersion(nextProgram)
		if err != nil {
			return fmt.Errorf("Failed to get active version: %w", err)
		}

		boldGreen := color.New(color.FgGreen, color.Bold).SprintFunc()
		cyan := color.New(color.FgCyan).SprintFunc()
		yellow := color.New(color.FgYellow).SprintFunc()

		now := time.Now().UTC()
		for _, day := range version.Days {
			if nextDay != "" && day.Name != nextDay {
				continue
			}
			fmt.Printf("%s (week %d)\n", boldGreen(day.Name), nextWeek)

			for _, pde := range day.Exercises {
				ex, err := st.GetExerciseByID(pde.ExerciseID)
				if err != nil {
					return fmt.Errorf("Failed to resolve exercise: %w", err)
				}
				if nextExercise != "" && ex.Name != nextExercise {
					continue
				}

				prescription, err := nextPrescription(st, user.ID, pde, day, nextWeek, now)
				if err != nil {
					return fmt.Errorf("Failed to compute prescription: %w", err)
				}

				fmt.Printf("  %s:", cyan(ex.Name))
				if len(prescription.PerSet) > 0 {
					fmt.Println()
					for i, p := range prescription.PerSet {
						tag := "back-off"
						if i == 0 {
							tag = "top set"
						}
						fmt.Printf("    %s: %.1fkg × %d\n", yellow(tag), p.Weight, p.Reps)
					}
				} else {
					fmt.Printf(" %d × %d @ %.1fkg", prescription.Sets, prescription.Reps, prescription.Weight)
					if prescription.TargetRPE != nil {
						fmt.Printf(" RPE %.1f", *prescription.TargetRPE)
					}
					fmt.Println()
				}
				for _, w := range prescription.Warmup {
					fmt.Printf("    warm-up: %.1fkg × %d\n", w.Weight, w.Reps)
				}
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(nextCmd)

	nextCmd.Flags().StringVarP(&nextUser, "user", "u", "", "Member name")
	nextCmd.Flags().StringVarP(&nextProgram, "program", "p", "", "Program name")
	nextCmd.Flags().StringVarP(&nextDay, "day", "d", "", "Limit to one program day")
	nextCmd.Flags().StringVarP(&nextExercise, "exercise", "e", "", "Limit to one exercise")
	nextCmd.Flags().IntVarP(&nextWeek, "week", "w", 1, "Training week number")
	nextCmd.MarkFlagRequired("user")
	nextCmd.MarkFlagRequired("program")
}
