package cmd

import (
	"fmt"

	"github.com/ptstack/ptstack/internal/models"
	"github.com/ptstack/ptstack/internal/storage"
	"github.com/spf13/cobra"
)

var (
	newExName        string
	newExMuscle      string
	newExCategory    string
	newExDescription string
)

var addExerciseCmd = &cobra.Command{
	Use:   "add-exercise",
	Short: "Add an exercise to the shared catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		st := storage.NewStorage()

		err := st.CreateExercise(models.Exercise{
			Name:          newExName,
			Description:   newExDescription,
			PrimaryMuscle: newExMuscle,
			Category:      newExCategory,
		})
		if err != nil {
			return fmt.Errorf("Failed to create exercise: %w", err)
		}

		fmt.Printf("✅ Added exercise '%s'\n", newExName)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(addExerciseCmd)

	addExerciseCmd.Flags().StringVarP(&newExName, "name", "n", "", "Exercise name")
	addExerciseCmd.Flags().StringVarP(&newExMuscle, "muscle", "m", "", "Primary muscle")
	addExerciseCmd.Flags().StringVarP(&newExCategory, "category", "c", "", "Category (e.g. compound, isolation, cardio)")
	addExerciseCmd.Flags().StringVarP(&newExDescription, "description", "d", "", "Description")
	addExerciseCmd.MarkFlagRequired("name")
}
