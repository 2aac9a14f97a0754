package exercise

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/example/lingua/internal/achievements"
	"github.com/example/lingua/internal/database"
	"github.com/example/lingua/internal/progress"
	"github.com/example/lingua/pkg/models"
)

func setupTestDB(t *testing.T) {
	t.Setenv("DB_TYPE", "sqlite")
	t.Setenv("SQLITE_PATH", ":memory:")
	require.NoError(t, database.Connect())
	t.Cleanup(func() { database.Close() })
}

func newTestEngine() *progress.Engine {
	return progress.NewEngine(achievements.NewService())
}

func createTestUser(t *testing.T, level string) *models.User {
	t.Helper()
	now := time.Now().UTC()
	user := &models.User{
		ID:             uuid.NewString(),
		ExternalID:     uuid.NewString(),
		Username:       "learner",
		TargetLanguage: "Spanish",
		Level:          level,
		CreatedAt:      now,
	}
	if level != "" {
		started := now.Add(-24 * time.Hour)
		user.LevelStartedAt = &started
	}
	require.NoError(t, database.NewUserRepository().Create(database.DB, user))
	return user
}

// stubGenerator returns a fixed response and records the prompts it saw
type stubGenerator struct {
	response string
	err      error

	calls      int
	lastSystem string
	lastPrompt string
}

func (s *stubGenerator) Generate(_ context.Context, system, prompt string) (string, error) {
	s.calls++
	s.lastSystem = system
	s.lastPrompt = prompt
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

// stubTranscriber returns a fixed transcript
type stubTranscriber struct {
	transcript string
	err        error
}

func (s *stubTranscriber) Transcribe(_ context.Context, _ string, _ io.Reader) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.transcript, nil
}

func moduleProgress(t *testing.T, userID, module string) *models.ModuleProgress {
	t.Helper()
	row, err := database.NewProgressRepository().GetByUserAndModule(database.DB, userID, module)
	require.NoError(t, err)
	return row
}

func activityCount(t *testing.T, userID string) int {
	t.Helper()
	count, err := database.NewActivityRepository().CountForUser(database.DB, userID)
	require.NoError(t, err)
	return count
}
