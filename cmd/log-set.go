package cmd

import (
	"fmt"
	"strconv"
	"time"

	"github.com/ptstack/ptstack/internal/utils"
	"github.com/spf13/cobra"
)

var (
	logSetReps    int
	logSetWeight  float32
	logSetRPE     float32
	logSetSeconds int
)

var logSetCmd = &cobra.Command{
	Use:   "log-set [exercise-index] [set-index]",
	Short: "Record the performed values for a set in the current session",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !utils.SessionExists() {
			return fmt.Errorf("No active session")
		}

		exIdx, err := strconv.Atoi(args[0])
		if err != nil || exIdx < 1 {
			return fmt.Errorf("Invalid exercise index. Must be a positive integer")
		}
		setIdx, err := strconv.Atoi(args[1])
		if err != nil || setIdx < 1 {
			return fmt.Errorf("Invalid set index. Must be a positive integer")
		}
		exIdx--
		setIdx--

		state, err := utils.LoadSessionState()
		if err != nil {
			return fmt.Errorf("Failed to load session state: %w", err)
		}

		if exIdx >= len(state.Exercises) {
			return fmt.Errorf("Exercise index out of range")
		}
		if setIdx >= len(state.Exercises[exIdx].Sets) {
			return fmt.Errorf("Set index out of range")
		}

		set := &state.Exercises[exIdx].Sets[setIdx]
		if set.Skipped {
			return fmt.Errorf("Set %d is marked skipped; it cannot also be completed", setIdx+1)
		}

		set.PerformedReps = logSetReps
		set.PerformedWeight = logSetWeight
		if cmd.Flags().Changed("rpe") {
			rpe := logSetRPE
			set.PerformedRPE = &rpe
		}
		set.PerformedSeconds = logSetSeconds
		set.Completed = true
		now := time.Now().UTC()
		set.CompletedAt = &now

		if err := utils.SaveSessionState(state); err != nil {
			return fmt.Errorf("Failed to save session state: %w", err)
		}

		fmt.Printf("✅ Logged set %d of '%s': %.1fkg × %d\n",
			setIdx+1, state.Exercises[exIdx].Name, logSetWeight, logSetReps)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(logSetCmd)

	logSetCmd.Flags().IntVarP(&logSetReps, "reps", "r", 0, "Reps performed")
	logSetCmd.Flags().Float32VarP(&logSetWeight, "weight", "w", 0, "Weight used")
	logSetCmd.Flags().Float32VarP(&logSetRPE, "rpe", "e", 0, "RPE of the set")
	logSetCmd.Flags().IntVarP(&logSetSeconds, "seconds", "s", 0, "Duration in seconds (timed sets)")
	logSetCmd.MarkFlagRequired("reps")
}
