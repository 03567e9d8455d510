package cmd

import (
	"fmt"
	"strconv"

	"github.com/ptstack/ptstack/internal/utils"
	"github.com/spf13/cobra"
)

var skipSetCmd = &cobra.Command{
	Use:   "skip-set [exercise-index] [set-index]",
	Short: "Mark a set skipped (excluded from volume and PRs)",
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
		set.Skipped = true
		set.Completed = false
		set.CompletedAt = nil

		if err := utils.SaveSessionState(state); err != nil {
			return fmt.Errorf("Failed to save session state: %w", err)
		}

		fmt.Printf("⏭  Skipped set %d of '%s'\n", setIdx+1, state.Exercises[exIdx].Name)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(skipSetCmd)
}
