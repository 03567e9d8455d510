package cmd

import (
	"fmt"
	"time"

	"github.com/ptstack/ptstack/internal/models"
	"github.com/ptstack/ptstack/internal/storage"
	"github.com/spf13/cobra"
)

var (
	cardioUser     string
	cardioType     string
	cardioMinutes  int
	cardioDistance float32
	cardioDate     string
	cardioNotes    string
)

var logCardioCmd = &cobra.Command{
	Use:   "log-cardio",
	Short: "Log a cardio entry (independent of training sessions)",
	RunE: func(cmd *cobra.Command, args []string) error {
		st := storage.NewStorage()

		user, err := st.GetUserByName(cardioUser)
		if err != nil {
			return fmt.Errorf("Failed to resolve user: %w", err)
		}

		entryDate := time.Now().UTC()
		if cardioDate != "" {
			entryDate, err = time.Parse("2006-01-02", cardioDate)
			if err != nil {
				return fmt.Errorf("Failed to parse date (expected YYYY-MM-DD): %w", err)
			}
		}

		entry, err := st.LogCardio(models.CardioEntry{
			UserID:          user.ID,
			ActivityType:    cardioType,
			EntryDate:       entryDate,
			DurationMinutes: cardioMinutes,
			DistanceKm:      cardioDistance,
			Notes:           cardioNotes,
		})
		if err != nil {
			return fmt.Errorf("Failed to log cardio: %w", err)
		}

		fmt.Printf("✅ Logged %s: %d min", entry.ActivityType, entry.DurationMinutes)
		if entry.DistanceKm > 0 {
			fmt.Printf(", %.1f km", entry.DistanceKm)
		}
		fmt.Println()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(logCardioCmd)

	logCardioCmd.Flags().StringVarP(&cardioUser, "user", "u", "", "Member name")
	logCardioCmd.Flags().StringVarP(&cardioType, "type", "t", "", "Activity type (run, bike, row, ...)")
	logCardioCmd.Flags().IntVarP(&cardioMinutes, "minutes", "m", 0, "Duration in minutes")
	logCardioCmd.Flags().Float32VarP(&cardioDistance, "distance", "d", 0, "Distance in km")
	logCardioCmd.Flags().StringVar(&cardioDate, "date", "", "Entry date (YYYY-MM-DD, defaults to today)")
	logCardioCmd.Flags().StringVarP(&cardioNotes, "notes", "n", "", "Notes")
	logCardioCmd.MarkFlagRequired("user")
	logCardioCmd.MarkFlagRequired("type")
	logCardioCmd.MarkFlagRequired("minutes")
}
