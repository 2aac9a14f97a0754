package conversation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
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

func createTestUser(t *testing.T) *models.User {
	t.Helper()
	now := time.Now().UTC()
	started := now.Add(-24 * time.Hour)
	user := &models.User{
		ID:             uuid.NewString(),
		ExternalID:     uuid.NewString(),
		Username:       "learner",
		TargetLanguage: "Spanish",
		Level:          "A2",
		LevelStartedAt: &started,
		CreatedAt:      now,
	}
	require.NoError(t, database.NewUserRepository().Create(database.DB, user))
	return user
}

// scriptedGenerator plays back responses in order and keeps the prompts
type scriptedGenerator struct {
	responses []string
	idx       int
	prompts   []string
}

func (s *scriptedGenerator) Generate(_ context.Context, _ string, prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	if s.idx >= len(s.responses) {
		return "", errors.New("no scripted response left")
	}
	response := s.responses[s.idx]
	s.idx++
	return response, nil
}

func newTestService(gen *scriptedGenerator) *Service {
	return NewService(gen, progress.NewEngine(achievements.NewService()))
}

func TestStartCreatesSessionWithOpening(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t)

	gen := &scriptedGenerator{responses: []string{"¡Hola! ¿Qué te gusta comer?"}}
	svc := newTestService(gen)

	result, err := svc.Start(context.Background(), user, "food")
	require.NoError(t, err)

	assert.NotEmpty(t, result.SessionID)
	assert.Equal(t, "¡Hola! ¿Qué te gusta comer?", result.OpeningMessage)

	session, err := database.NewConversationRepository().GetByID(database.DB, result.SessionID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, session.UserID)
	assert.Equal(t, "Spanish", session.TargetLanguage)
	assert.Equal(t, "food", session.Context.Topic)
	assert.Equal(t, "A2", session.Context.Level)
	assert.Contains(t, session.Context.SystemPrompt, "about food")
	assert.Contains(t, session.Context.SystemPrompt, "at A2 level")
	require.Len(t, session.Context.Messages, 1)
	assert.Equal(t, models.RoleAssistant, session.Context.Messages[0].Role)

	// The tutor spoke, the learner has not
	count, err := database.NewConversationRepository().CountUserMessages(database.DB, user.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestMessageAppendsHistoryAndRecordsActivity(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t)

	gen := &scriptedGenerator{responses: []string{
		"¡Hola! ¿Cómo estás?",
		"¡Mucho gusto, Ana! ¿De dónde eres?",
		`{"corrected_message": "Hola, me llamo Ana.", "tips": "Remember the comma after the greeting."}`,
	}}
	svc := newTestService(gen)

	started, err := svc.Start(context.Background(), user, "")
	require.NoError(t, err)

	result, err := svc.Message(context.Background(), user, started.SessionID, "Hola me llamo Ana")
	require.NoError(t, err)

	assert.Equal(t, "¡Mucho gusto, Ana! ¿De dónde eres?", result.Reply)
	require.NotNil(t, result.CorrectedUserMessage)
	assert.Equal(t, "Hola, me llamo Ana.", *result.CorrectedUserMessage)
	require.NotNil(t, result.Tips)
	assert.Equal(t, started.SessionID, result.SessionID)

	// Full history went into the reply prompt
	require.Len(t, gen.prompts, 3)
	assert.Contains(t, gen.prompts[1], "USER: Hola me llamo Ana")
	assert.Contains(t, gen.prompts[1], "ASSISTANT: ¡Hola! ¿Cómo estás?")

	session, err := database.NewConversationRepository().GetByID(database.DB, started.SessionID)
	require.NoError(t, err)
	require.Len(t, session.Context.Messages, 3)
	assert.Equal(t, models.RoleUser, session.Context.Messages[1].Role)
	assert.Equal(t, models.RoleAssistant, session.Context.Messages[2].Role)

	count, err := database.NewConversationRepository().CountUserMessages(database.DB, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	row, err := database.NewProgressRepository().GetByUserAndModule(database.DB, user.ID, models.ModuleConversation)
	require.NoError(t, err)
	assert.Equal(t, 1, row.TotalAttempts)
	assert.Nil(t, row.Score)
}

func TestMessageDropsNullStringCorrections(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t)

	gen := &scriptedGenerator{responses: []string{
		"Hola.",
		"¡Perfecto!",
		`{"corrected_message": "null", "tips": null}`,
	}}
	svc := newTestService(gen)

	started, err := svc.Start(context.Background(), user, "")
	require.NoError(t, err)

	result, err := svc.Message(context.Background(), user, started.SessionID, "Hola, ¿qué tal?")
	require.NoError(t, err)
	assert.Nil(t, result.CorrectedUserMessage)
	assert.Nil(t, result.Tips)
}

func TestMessageSkipsUnparseableCorrections(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t)

	gen := &scriptedGenerator{responses: []string{
		"Hola.",
		"Claro que sí.",
		"Your sentence was mostly fine!",
	}}
	svc := newTestService(gen)

	started, err := svc.Start(context.Background(), user, "")
	require.NoError(t, err)

	result, err := svc.Message(context.Background(), user, started.SessionID, "Gracias")
	require.NoError(t, err)
	assert.Equal(t, "Claro que sí.", result.Reply)
	assert.Nil(t, result.CorrectedUserMessage)
	assert.Nil(t, result.Tips)
}

func TestMessageRejectsForeignSessions(t *testing.T) {
	setupTestDB(t)
	owner := createTestUser(t)
	other := createTestUser(t)

	gen := &scriptedGenerator{responses: []string{"Hola."}}
	svc := newTestService(gen)

	started, err := svc.Start(context.Background(), owner, "")
	require.NoError(t, err)

	_, err = svc.Message(context.Background(), other, started.SessionID, "hola")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	_, err = svc.Message(context.Background(), owner, uuid.NewString(), "hola")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSessionsListNewestFirst(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t)

	gen := &scriptedGenerator{responses: []string{"Primera.", "Segunda."}}
	svc := newTestService(gen)
	svc.now = func() time.Time { return time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC) }

	first, err := svc.Start(context.Background(), user, "")
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC) }
	second, err := svc.Start(context.Background(), user, "")
	require.NoError(t, err)

	sessions, err := svc.Sessions(user.ID)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, second.SessionID, sessions[0].ID)
	assert.Equal(t, first.SessionID, sessions[1].ID)

	loaded, err := svc.Session(user.ID, first.SessionID)
	require.NoError(t, err)
	assert.Equal(t, "Primera.", loaded.Context.Messages[0].Content)

	other := createTestUser(t)
	_, err = svc.Session(other.ID, first.SessionID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
