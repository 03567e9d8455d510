package cmd

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/ptstack/ptstack/internal/analytics"
	"github.com/ptstack/ptstack/internal/storage"
	"github.com/spf13/cobra"
)

var (
	statsUser string
	statsDays int
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show training analytics for a member over a lookback window",
	RunE: func(cmd *cobra.Command, args []string) error {
		st := storage.NewStorage()

		user, err := st.GetUserByName(statsUser)
		if err != nil {
			return fmt.Errorf("Failed to resolve user: %w", err)
		}

		analyzer := analytics.NewAnalyzer(st)
		snap, err := analyzer.Snapshot(cmd.Context(), user.ID, statsDays, time.Now().UTC())
		if err != nil {
			return fmt.Errorf("Failed to compute stats: %w", err)
		}

		boldGreen := color.New(color.FgGreen, color.Bold).SprintFunc()
		cyan := color.New(color.FgCyan).SprintFunc()
		yellow := color.New(color.FgYellow).SprintFunc()

		fmt.Printf("%s (last %d days)\n\n", boldGreen("Training summary for "+statsUser), statsDays)

		fmt.Printf("%s: %d sessions (%.1f/week)\n",
			cyan("Sessions"), snap.SessionSummary.Count, snap.SessionSummary.AveragePerWeek)

		fmt.Printf("%s: %d sets, %.1f sets/session, %.1f reps/set, %.2f total volume\n",
			cyan("Volume"),
			snap.VolumeMetrics.TotalSets,
			snap.VolumeMetrics.AvgSetsPerSession,
			snap.VolumeMetrics.AvgRepsPerSet,
			snap.VolumeMetrics.TotalVolume)

		if snap.MuscleGroups.MostTrained != "" {
			fmt.Printf("%s: most trained %s, least trained %s\n",
				cyan("Muscles"),
				yellow(snap.MuscleGroups.MostTrained),
				yellow(snap.MuscleGroups.LeastTrained))
			for _, muscle := range sortedKeys(snap.MuscleGroups.Frequency) {
				fmt.Printf("  %s: %d exercises, %d sets\n",
					muscle, snap.MuscleGroups.Frequency[muscle], snap.MuscleGroups.Volume[muscle])
			}
		}

		if snap.ExerciseCategories.Primary != "" {
			fmt.Printf("%s: primarily %s\n", cyan("Categories"), yellow(snap.ExerciseCategories.Primary))
		}

		if snap.CardioAnalysis.Count > 0 {
			fmt.Printf("%s: %d entries, %d min, %.2f km\n",
				cyan("Cardio"),
				snap.CardioAnalysis.Count,
				snap.CardioAnalysis.TotalDuration,
				snap.CardioAnalysis.TotalDistanceKm)
		}

		if len(snap.WeeklyPatterns.DayFrequency) > 0 {
			fmt.Printf("%s:", cyan("Weekly pattern"))
			for _, day := range weekdayOrder {
				if count, ok := snap.WeeklyPatterns.DayFrequency[day]; ok {
					fmt.Printf(" %s×%d", day, count)
				}
			}
			fmt.Println()
		}

		if snap.RecoveryAnalysis.AverageDaysBetween > 0 {
			fmt.Printf("%s: avg %.1f days between sessions (min %d, max %d)\n",
				cyan("Recovery"),
				snap.RecoveryAnalysis.AverageDaysBetween,
				snap.RecoveryAnalysis.MinDaysBetween,
				snap.RecoveryAnalysis.MaxDaysBetween)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)

	statsCmd.Flags().StringVarP(&statsUser, "user", "u", "", "Member name")
	statsCmd.Flags().IntVarP(&statsDays, "days", "d", 30, "Lookback window in days")
	statsCmd.MarkFlagRequired("user")
}
