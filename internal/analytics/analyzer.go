package analytics

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ptstack/ptstack/internal/models"
	"github.com/ptstack/ptstack/internal/utils"
)

type statsRepo interface {
	CompletedSessionsInRange(ctx context.Context, userID string, from, to time.Time) ([]models.TrainingSession, error)
	CardioEntriesInRange(ctx context.Context, userID string, from, to time.Time) ([]models.CardioEntry, error)
}

// Analyzer aggregates a user's completed sessions into a Snapshot.
type Analyzer struct {
	repo statsRepo
}

func NewAnalyzer(repo statsRepo) *Analyzer {
	return &Analyzer{
		repo: repo,
	}
}

// Snapshot builds the derived metrics for the window [ref - daysBack, ref].
// The reference time is explicit, so the aggregation is a pure function of
// its inputs. An empty window yields a zero snapshot, never an error.
func (a *Analyzer) Snapshot(ctx context.Context, userID string, daysBack int, ref time.Time) (*Snapshot, error) {
	if daysBack < 1 {
		return nil, fmt.Errorf("daysBack must be >= 1, got %d", daysBack)
	}

	from := ref.AddDate(0, 0, -daysBack)
	sessions, err := a.repo.CompletedSessionsInRange(ctx, userID, from, ref)
	if err != nil {
		return nil, fmt.Errorf("failed to load sessions: %w", err)
	}
	cardio, err := a.repo.CardioEntriesInRange(ctx, userID, from, ref)
	if err != nil {
		return nil, fmt.Errorf("failed to load cardio entries: %w", err)
	}

	snap := &Snapshot{
		Period: Period{Days: daysBack, Start: from, End: ref},
		SessionSummary: SessionSummary{
			Count: len(sessions),
			// Window-normalized rate, not a literal last-7-days count.
			AveragePerWeek: round1(float64(len(sessions)) * 7 / float64(daysBack)),
		},
	}

	a.muscleAndCategoryStats(snap, sessions)
	a.volumeStats(snap, sessions)
	cardioStats(snap, cardio)
	a.weeklyPatterns(snap, sessions)
	recoveryStats(snap, sessions)

	return snap, nil
}

func (a *Analyzer) muscleAndCategoryStats(snap *Snapshot, sessions []models.TrainingSession) {
	muscleFreq := newCounter()
	muscleVolume := newCounter()
	categoryFreq := newCounter()

	for _, session := range sessions {
		for _, se := range session.Exercises {
			muscle, ok := se.MuscleGroup()
			if !ok {
				// Dangling exercise reference: exclude the entry, do not
				// fail the whole aggregation.
				logrus.WithFields(logrus.Fields{
					"session_id":          session.ID,
					"session_exercise_id": se.ID,
				}).Warn("session exercise has no resolvable exercise reference")
				continue
			}
			muscleFreq.inc(muscle, 1)
			muscleVolume.inc(muscle, len(se.Sets))

			if category, ok := se.Category(); ok {
				categoryFreq.inc(category, 1)
			}
		}
	}

	snap.MuscleGroups = MuscleGroups{
		Frequency:    muscleFreq.toMap(),
		Volume:       muscleVolume.toMap(),
		MostTrained:  muscleFreq.top(),
		LeastTrained: muscleFreq.bottom(),
	}
	snap.ExerciseCategories = ExerciseCategories{
		Frequency: categoryFreq.toMap(),
		Primary:   categoryFreq.top(),
	}
}

func (a *Analyzer) volumeStats(snap *Snapshot, sessions []models.TrainingSession) {
	var totalSets, totalReps int
	var totalVolume float64

	for _, session := range sessions {
		for _, se := range session.Exercises {
			for _, set := range se.Sets {
				if !set.CountsForVolume() {
					continue
				}
				totalSets++
				totalReps += set.PerformedReps
				totalVolume += float64(set.PerformedWeight) * float64(set.PerformedReps)
			}
		}
	}

	metrics := VolumeMetrics{
		TotalSets:   totalSets,
		TotalVolume: round2(totalVolume),
	}
	if len(sessions) > 0 {
		metrics.AvgSetsPerSession = round1(float64(totalSets) / float64(len(sessions)))
	}
	if totalSets > 0 {
		metrics.AvgRepsPerSet = round1(float64(totalReps) / float64(totalSets))
	}
	snap.VolumeMetrics = metrics
}

func cardioStats(snap *Snapshot, entries []models.CardioEntry) {
	typeFreq := newCounter()
	var duration int
	var distance float64

	for _, entry := range entries {
		typeFreq.inc(entry.ActivityType, 1)
		duration += entry.DurationMinutes
		distance += float64(entry.DistanceKm)
	}

	snap.CardioAnalysis = CardioAnalysis{
		Count:           len(entries),
		TypeFrequency:   typeFreq.toMap(),
		TotalDuration:   duration,
		TotalDistanceKm: round2(distance),
	}
}

func (a *Analyzer) weeklyPatterns(snap *Snapshot, sessions []models.TrainingSession) {
	dayFreq := newCounter()
	musclesByDay := make(map[string]map[string]int)

	for _, session := range sessions {
		if session.CompletedAt == nil {
			continue
		}
		day := session.CompletedAt.UTC().Weekday().String()
		dayFreq.inc(day, 1)

		for _, se := range session.Exercises {
			muscle, ok := se.MuscleGroup()
			if !ok {
				continue
			}
			if musclesByDay[day] == nil {
				musclesByDay[day] = make(map[string]int)
			}
			musclesByDay[day][muscle]++
		}
	}

	snap.WeeklyPatterns = WeeklyPatterns{
		DayFrequency: dayFreq.toMap(),
		MusclesByDay: musclesByDay,
	}
}

func recoveryStats(snap *Snapshot, sessions []models.TrainingSession) {
	var days []time.Time
	for _, session := range sessions {
		if session.CompletedAt == nil {
			continue
		}
		days = append(days, *session.CompletedAt)
	}
	if len(days) < 2 {
		// Zero or one session: all recovery values stay 0.
		return
	}

	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	// Gaps are whole calendar days, so two sessions on the same day count
	// as a zero-day gap.
	var gaps []int
	for i := 1; i < len(days); i++ {
		gaps = append(gaps, utils.DaysBetween(days[i-1], days[i]))
	}

	minGap, maxGap, sum := gaps[0], gaps[0], 0
	for _, gap := range gaps {
		if gap < minGap {
			minGap = gap
		}
		if gap > maxGap {
			maxGap = gap
		}
		sum += gap
	}

	snap.RecoveryAnalysis = RecoveryAnalysis{
		AverageDaysBetween: round1(float64(sum) / float64(len(gaps))),
		MinDaysBetween:     minGap,
		MaxDaysBetween:     maxGap,
	}
}

// counter is a frequency map that remembers first-seen key order, so ties in
// top/bottom resolve deterministically to the earliest key. That tie-break
// is by insertion order, not alphabetical.
type counter struct {
	keys   []string
	counts map[string]int
}

func newCounter() *counter {
	return &counter{counts: make(map[string]int)}
}

func (c *counter) inc(key string, n int) {
	if _, ok := c.counts[key]; !ok {
		c.keys = append(c.keys, key)
	}
	c.counts[key] += n
}

func (c *counter) toMap() map[string]int {
	out := make(map[string]int, len(c.counts))
	for k, v := range c.counts {
		out[k] = v
	}
	return out
}

func (c *counter) top() string {
	return c.extreme(func(a, b int) bool { return a > b })
}

func (c *counter) bottom() string {
	return c.extreme(func(a, b int) bool { return a < b })
}

func (c *counter) extreme(better func(a, b int) bool) string {
	if len(c.keys) == 0 {
		return ""
	}
	sorted := make([]string, len(c.keys))
	copy(sorted, c.keys)
	sort.SliceStable(sorted, func(i, j int) bool {
		return better(c.counts[sorted[i]], c.counts[sorted[j]])
	})
	return sorted[0]
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
