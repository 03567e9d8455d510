package cmd

import (
	"fmt"

	"github.com/ptstack/ptstack/internal/models"
	"github.com/ptstack/ptstack/internal/storage"
	"github.com/ptstack/ptstack/internal/utils"
	"github.com/spf13/cobra"
)

var (
	addSeExercise string
	addSeCustom   bool
	addSeMuscle   string
	addSeSets     int
	addSeSuperset string
)

var addSessionExerciseCmd = &cobra.Command{
	Use:   "add-session-exercise",
	Short: "Add an extra exercise (catalog or custom) to the current session",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !utils.SessionExists() {
			return fmt.Errorf("No active session")
		}

		state, err := utils.LoadSessionState()
		if err != nil {
			return fmt.Errorf("Failed to load session state: %w", err)
		}

		st := storage.NewStorage()

		staged := models.StagedExercise{
			Name:          addSeExercise,
			OrderIndex:    len(state.Exercises),
			SupersetGroup: addSeSuperset,
		}

		if addSeCustom {
			custom, err := st.CreateCustomExercise(models.CustomExercise{
				UserID:        state.UserID,
				Name:          addSeExercise,
				PrimaryMuscle: addSeMuscle,
			})
			if err != nil {
				return fmt.Errorf("Failed to create custom exercise: %w", err)
			}
			staged.CustomExerciseID = custom.ID
		} else {
			ex, err := st.GetExerciseByName(addSeExercise)
			if err != nil {
				return fmt.Errorf("Failed to resolve exercise: %w", err)
			}
			staged.ExerciseID = ex.ID
		}

		for i := 0; i < addSeSets; i++ {
			staged.Sets = append(staged.Sets, models.StagedSet{
				SetIndex: i + 1,
				SetType:  models.SetTypeNormal,
			})
		}

		state.Exercises = append(state.Exercises, staged)

		if err := utils.SaveSessionState(state); err != nil {
			return fmt.Errorf("Failed to save session state: %w", err)
		}

		fmt.Printf("✅ Added '%s' to the current session (%d sets)\n", addSeExercise, addSeSets)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(addSessionExerciseCmd)

	addSessionExerciseCmd.Flags().StringVarP(&addSeExercise, "exercise", "e", "", "Exercise name")
	addSessionExerciseCmd.Flags().BoolVarP(&addSeCustom, "custom", "c", false, "Create as a user-defined custom exercise")
	addSessionExerciseCmd.Flags().StringVarP(&addSeMuscle, "muscle", "m", "", "Primary muscle (custom exercises)")
	addSessionExerciseCmd.Flags().IntVarP(&addSeSets, "sets", "s", 3, "Number of sets to stage")
	addSessionExerciseCmd.Flags().StringVarP(&addSeSuperset, "superset", "g", "", "Superset group label")
	addSessionExerciseCmd.MarkFlagRequired("exercise")
}
