package storage_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ptstack/ptstack/internal/models"
	"github.com/ptstack/ptstack/internal/storage"
)

const strengthBlockTOML = `
name = "Strength Block"
description = "Three week block"

[[day]]
name = "Day A"
intensity = "heavy"

[[day.exercise]]
name = "Squat"
sets = 3
reps_min = 5
reps_max = 5
start_weight = 100

[[day.exercise.rule]]
type = "linear_progression"
increment = 2.5
frequency = "session"
`

func openStore(t *testing.T) *storage.Storage {
	t.Helper()
	st, err := storage.Open("file:" + filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.DB.Close() })
	return st
}

func seedProgram(t *testing.T, st *storage.Storage) {
	t.Helper()
	owner, err := st.CreateUser("coach", models.RoleTrainer)
	require.NoError(t, err)
	require.NoError(t, st.CreateExercise(models.Exercise{
		Name:          "Squat",
		PrimaryMuscle: "quads",
		Category:      "legs",
	}))
	require.NoError(t, st.CreateProgram(owner.ID, []byte(strengthBlockTOML)))
}

func activeVersionCount(t *testing.T, st *storage.Storage) int {
	t.Helper()
	var n int
	err := st.DB.QueryRow(`SELECT COUNT(*) FROM program_versions WHERE is_active = 1`).Scan(&n)
	require.NoError(t, err)
	return n
}

func TestCreateProgramActivatesVersionOne(t *testing.T) {
	st := openStore(t)
	seedProgram(t, st)

	version, err := st.GetActiveVersion("Strength Block")
	require.NoError(t, err)
	assert.Equal(t, 1, version.VersionNumber)
	assert.True(t, version.IsActive)
	assert.Equal(t, 1, activeVersionCount(t, st))

	require.Len(t, version.Days, 1)
	require.Len(t, version.Days[0].Exercises, 1)
	pde := version.Days[0].Exercises[0]
	assert.Equal(t, 3, pde.Sets)
	assert.Equal(t, float32(100), pde.StartWeight)
	require.Len(t, pde.Rules, 1)
}

func TestNewVersionStartsInactive(t *testing.T) {
	st := openStore(t)
	seedProgram(t, st)

	number, err := st.CreateVersion("Strength Block", []byte(strengthBlockTOML))
	require.NoError(t, err)
	assert.Equal(t, 2, number)

	version, err := st.GetVersion("Strength Block", 2)
	require.NoError(t, err)
	assert.False(t, version.IsActive)

	// The active version is untouched.
	active, err := st.GetActiveVersion("Strength Block")
	require.NoError(t, err)
	assert.Equal(t, 1, active.VersionNumber)
	assert.Equal(t, 1, activeVersionCount(t, st))
}

func TestActivateVersionKeepsExactlyOneActive(t *testing.T) {
	st := openStore(t)
	seedProgram(t, st)

	_, err := st.CreateVersion("Strength Block", []byte(strengthBlockTOML))
	require.NoError(t, err)

	require.NoError(t, st.ActivateVersion("Strength Block", 2))
	active, err := st.GetActiveVersion("Strength Block")
	require.NoError(t, err)
	assert.Equal(t, 2, active.VersionNumber)
	assert.Equal(t, 1, activeVersionCount(t, st))

	// Re-activating the already-active version changes nothing.
	require.NoError(t, st.ActivateVersion("Strength Block", 2))
	active, err = st.GetActiveVersion("Strength Block")
	require.NoError(t, err)
	assert.Equal(t, 2, active.VersionNumber)
	assert.Equal(t, 1, activeVersionCount(t, st))

	// Switching back deactivates version 2.
	require.NoError(t, st.ActivateVersion("Strength Block", 1))
	active, err = st.GetActiveVersion("Strength Block")
	require.NoError(t, err)
	assert.Equal(t, 1, active.VersionNumber)
	assert.Equal(t, 1, activeVersionCount(t, st))
}

func TestActivateVersionUnknownVersion(t *testing.T) {
	st := openStore(t)
	seedProgram(t, st)

	err := st.ActivateVersion("Strength Block", 99)
	var notFound *models.NotFoundError
	require.ErrorAs(t, err, &notFound)

	// The failed activation leaves the active version alone.
	active, err := st.GetActiveVersion("Strength Block")
	require.NoError(t, err)
	assert.Equal(t, 1, active.VersionNumber)
	assert.Equal(t, 1, activeVersionCount(t, st))
}
