package cmd

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/ptstack/ptstack/internal/analytics"
	"github.com/ptstack/ptstack/internal/storage"
	"github.com/spf13/cobra"
)

var (
	exportUser string
	exportDays int
)

// The JSON printed here is the contract the digest and AI-suggestion
// collaborators consume; its shape must stay stable.
var exportStatsCmd = &cobra.Command{
	Use:   "export-stats",
	Short: "Print the analytics snapshot as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		st := storage.NewStorage()

		user, err := st.GetUserByName(exportUser)
		if err != nil {
			return fmt.Errorf("Failed to resolve user: %w", err)
		}

		analyzer := analytics.NewAnalyzer(st)
		snap, err := analyzer.Snapshot(cmd.Context(), user.ID, exportDays, time.Now().UTC())
		if err != nil {
			return fmt.Errorf("Failed to compute stats: %w", err)
		}

		data, err := json.MarshalIndent(snap, "", "  ")
		if err != nil {
			return fmt.Errorf("Failed to marshal snapshot: %w", err)
		}

		fmt.Println(string(data))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportStatsCmd)

	exportStatsCmd.Flags().StringVarP(&exportUser, "user", "u", "", "Member name")
	exportStatsCmd.Flags().IntVarP(&exportDays, "days", "d", 30, "Lookback window in days")
	exportStatsCmd.MarkFlagRequired("user")
}
