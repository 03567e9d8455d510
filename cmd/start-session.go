package cmd

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ptstack/ptstack/internal/models"
	"github.com/ptstack/ptstack/internal/storage"
	"github.com/ptstack/ptstack/internal/utils"
	"github.com/spf13/cobra"
)

var (
	sessionUser    string
	sessionProgram string
	sessionDay     string
	sessionWeek    int
	sessionLogger  string
)

var startSessionCmd = &cobra.Command{
	Use:   "start-session",
	Short: "Start a training session from the program's active version",
	RunE: func(cmd *cobra.Command, args []string) error {
		if utils.SessionExists() {
			return fmt.Errorf("A session is already in progress. End or cancel it first")
		}

		st := storage.NewStorage()

		user, err := st.GetUserByName(sessionUser)
		if err != nil {
			return fmt.Errorf("Failed to resolve user: %w", err)
		}

		version, err := st.GetActiveVersion(sessionProgram)
		if err != nil {
			return fmt.Errorf("Failed to get active version: %w", err)
		}

		var day *models.ProgramDay
		for i := range version.Days {
			if version.Days[i].Name == sessionDay {
				day = &version.Days[i]
				break
			}
		}
		if day == nil {
			return fmt.Errorf("Day '%s' not found in '%s' v%d", sessionDay, sessionProgram, version.VersionNumber)
		}

		now := time.Now().UTC()
		state := &models.SessionState{
			SessionID:     uuid.New().String(),
			UserID:        user.ID,
			ProgramName:   sessionProgram,
			VersionID:     version.ID,
			VersionNumber: version.VersionNumber,
			DayID:         day.ID,
			DayName:       day.Name,
			Intensity:     string(day.Intensity),
			WeekNumber:    sessionWeek,
			StartTime:     now,
		}
		if sessionLogger != "" {
			logger, err := st.GetUserByName(sessionLogger)
			if err != nil {
				return fmt.Errorf("Failed to resolve logger: %w", err)
			}
			state.LoggedBy = logger.ID
		}

		// The progression rules decide what each exercise prescribes today.
		for _, pde := range day.Exercises {
			prescription, err := nextPrescription(st, user.ID, pde, *day, sessionWeek, now)
			if err != nil {
				return fmt.Errorf("Failed to compute prescription: %w", err)
			}

			ex, err := st.GetExerciseByID(pde.ExerciseID)
			if err != nil {
				return fmt.Errorf("Failed to resolve exercise: %w", err)
			}

			state.Exercises = append(state.Exercises, models.StagedExercise{
				ExerciseID: pde.ExerciseID,
				Name:       ex.Name,
				OrderIndex: pde.OrderIndex,
				Sets:       stageSets(prescription, pde.Tempo),
			})
		}

		if err := utils.SaveSessionState(state); err != nil {
			return fmt.Errorf("Failed to save session state: %w", err)
		}

		fmt.Printf("✅ Started session for '%s': %s / %s (week %d)\n",
			sessionUser, sessionProgram, day.Name, sessionWeek)
		for i, ex := range state.Exercises {
			fmt.Printf("  %d. %s (%d sets)\n", i+1, ex.Name, len(ex.Sets))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(startSessionCmd)

	startSessionCmd.Flags().StringVarP(&sessionUser, "user", "u", "", "Member name")
	startSessionCmd.Flags().StringVarP(&sessionProgram, "program", "p", "", "Program name")
	startSessionCmd.Flags().StringVarP(&sessionDay, "day", "d", "", "Program day name")
	startSessionCmd.Flags().IntVarP(&sessionWeek, "week", "w", 1, "Training week number")
	startSessionCmd.Flags().StringVarP(&sessionLogger, "logger", "l", "", "Trainer logging on the member's behalf")
	startSessionCmd.MarkFlagRequired("user")
	startSessionCmd.MarkFlagRequired("program")
	startSessionCmd.MarkFlagRequired("day")
}
