package progress

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/lingua/internal/achievements"
	"github.com/example/lingua/internal/database"
	"github.com/example/lingua/pkg/models"
)

func setupTestDB(t *testing.T) {
	t.Setenv("DB_TYPE", "sqlite")
	t.Setenv("SQLITE_PATH", ":memory:")
	require.NoError(t, database.Connect())
	t.Cleanup(func() { database.Close() })
}

func newTestEngine(at time.Time) *Engine {
	e := NewEngine(achievements.NewService())
	e.now = func() time.Time { return at }
	return e
}

func createTestUser(t *testing.T, level string) *models.User {
	t.Helper()
	now := time.Now().UTC()
	user := &models.User{
		ID:             uuid.NewString(),
		ExternalID:     uuid.NewString(),
		Username:       "learner",
		TargetLanguage: "spanish",
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

func seedModuleProgress(t *testing.T, userID, module string, score float64, total, correct int) {
	t.Helper()
	now := time.Now().UTC()
	require.NoError(t, database.NewProgressRepository().Upsert(database.DB, &models.ModuleProgress{
		UserID:          userID,
		Module:          module,
		Score:           &score,
		TotalAttempts:   total,
		CorrectAttempts: correct,
		LastActivityAt:  &now,
		CreatedAt:       now,
	}))
}

func seedConversationMessages(t *testing.T, userID string, count int) {
	t.Helper()
	var context models.ConversationContext
	for i := 0; i < count; i++ {
		context.Messages = append(context.Messages,
			models.ChatMessage{Role: models.RoleUser, Content: "hola"},
			models.ChatMessage{Role: models.RoleAssistant, Content: "¡hola!"},
		)
	}
	require.NoError(t, database.NewConversationRepository().Create(database.DB, &models.ConversationSession{
		UserID:         userID,
		TargetLanguage: "spanish",
		Context:        context,
		CreatedAt:      time.Now().UTC(),
	}))
}

func makeEligible(t *testing.T, userID string) {
	t.Helper()
	seedModuleProgress(t, userID, models.ModuleVocabulary, 90, 12, 11)
	seedModuleProgress(t, userID, models.ModuleGrammar, 88, 15, 13)
	seedModuleProgress(t, userID, models.ModuleWriting, 87, 11, 0)
	seedModuleProgress(t, userID, models.ModulePhonetics, 86, 10, 0)
	seedConversationMessages(t, userID, 22)
}

func TestNextLevel(t *testing.T) {
	next, ok := NextLevel("A1")
	assert.True(t, ok)
	assert.Equal(t, "A2", next)

	next, ok = NextLevel("C1")
	assert.True(t, ok)
	assert.Equal(t, "C2", next)

	_, ok = NextLevel("C2")
	assert.False(t, ok)

	// Unset or unknown levels restart the ladder
	next, ok = NextLevel("")
	assert.True(t, ok)
	assert.Equal(t, "A1", next)

	next, ok = NextLevel("Z9")
	assert.True(t, ok)
	assert.Equal(t, "A1", next)
}

func TestWeightedScore(t *testing.T) {
	v, g, w, p := 80.0, 90.0, 70.0, 60.0
	scores := map[string]*float64{
		models.ModuleVocabulary: &v,
		models.ModuleGrammar:    &g,
		models.ModuleWriting:    &w,
		models.ModulePhonetics:  &p,
	}
	assert.InDelta(t, 77.0, WeightedScore(scores), 1e-9)

	// Missing modules count as zero
	assert.InDelta(t, 24.0, WeightedScore(map[string]*float64{models.ModuleVocabulary: &v}), 1e-9)
	assert.InDelta(t, 0.0, WeightedScore(nil), 1e-9)
}

func TestEligibilityUserStates(t *testing.T) {
	setupTestDB(t)
	e := newTestEngine(time.Now().UTC())

	elig, err := e.Eligibility(uuid.NewString())
	require.NoError(t, err)
	assert.False(t, elig.Eligible)
	require.NotNil(t, elig.Reason)
	assert.Equal(t, "User not found", *elig.Reason)

	unleveled := createTestUser(t, "")
	elig, err = e.Eligibility(unleveled.ID)
	require.NoError(t, err)
	assert.False(t, elig.Eligible)
	assert.Equal(t, "User level not set", *elig.Reason)

	topped := createTestUser(t, "C2")
	elig, err = e.Eligibility(topped.ID)
	require.NoError(t, err)
	assert.False(t, elig.Eligible)
	assert.Equal(t, "Already at maximum level (C2)", *elig.Reason)
}

func TestEligibilityBlockingReasons(t *testing.T) {
	setupTestDB(t)
	e := newTestEngine(time.Now().UTC())
	user := createTestUser(t, "A1")

	seedModuleProgress(t, user.ID, models.ModuleVocabulary, 82.3, 12, 9)
	seedModuleProgress(t, user.ID, models.ModuleGrammar, 90, 5, 4)
	// no writing activity at all
	seedModuleProgress(t, user.ID, models.ModulePhonetics, 95, 15, 0)
	seedConversationMessages(t, user.ID, 5)

	elig, err := e.Eligibility(user.ID)
	require.NoError(t, err)
	assert.False(t, elig.Eligible)
	require.NotNil(t, elig.Reason)
	assert.Equal(t,
		"Vocabulary: Score too low (82.3%); Grammar: Not enough attempts (5/10); Writing: No activity yet; Conversation: Need 15 more messages",
		*elig.Reason,
	)

	assert.False(t, elig.Modules[models.ModuleVocabulary].Ready)
	assert.True(t, elig.Modules[models.ModulePhonetics].Ready)
	assert.Nil(t, elig.Modules[models.ModuleWriting].Score)
	assert.Equal(t, 5, elig.ConversationMessages)
	assert.False(t, elig.ConversationReady)
}

func TestEligibilityExactThresholds(t *testing.T) {
	setupTestDB(t)
	e := newTestEngine(time.Now().UTC())
	user := createTestUser(t, "B1")

	// Sitting exactly on every threshold counts as meeting it
	for _, module := range ScoredModules {
		seedModuleProgress(t, user.ID, module, 85.0, 10, 9)
	}
	seedConversationMessages(t, user.ID, 20)

	elig, err := e.Eligibility(user.ID)
	require.NoError(t, err)
	assert.True(t, elig.Eligible)
	assert.Nil(t, elig.Reason)
	assert.True(t, elig.ConversationReady)
}

func TestAdvanceHappyPath(t *testing.T) {
	setupTestDB(t)
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	e := newTestEngine(now)

	user := createTestUser(t, "A1")
	started := now.AddDate(0, 0, -40)
	require.NoError(t, database.NewUserRepository().UpdateLevel(database.DB, user.ID, "A1", started))
	makeEligible(t, user.ID)

	result, err := e.Advance(user.ID)
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, "A1", result.OldLevel)
	assert.Equal(t, "A2", result.NewLevel)
	assert.Equal(t, 100, result.XPEarned)
	assert.Equal(t, "Congratulations! You've advanced from A1 to A2!", result.CelebrationMessage)
	require.NotNil(t, result.ModuleScores[models.ModuleVocabulary])
	assert.Equal(t, 90.0, *result.ModuleScores[models.ModuleVocabulary])

	// User state after the transition
	reloaded, err := database.NewUserRepository().GetByID(database.DB, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "A2", reloaded.Level)
	assert.Equal(t, 100, reloaded.TotalXP)
	assert.False(t, reloaded.CanAdvance)
	assert.Nil(t, reloaded.AdvancementNotifiedAt)
	require.NotNil(t, reloaded.LevelStartedAt)
	assert.WithinDuration(t, now, *reloaded.LevelStartedAt, time.Second)

	// Snapshot archived
	history, err := database.NewLevelHistoryRepository().GetForUser(database.DB, user.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "A1", history[0].Level)
	require.NotNil(t, history[0].VocabularyScore)
	assert.Equal(t, 90.0, *history[0].VocabularyScore)
	assert.Equal(t, 12, history[0].VocabularyAttempts)
	assert.Equal(t, 22, history[0].ConversationMessages)
	assert.Equal(t, 40, history[0].DaysAtLevel)
	assert.InDelta(t, 90*0.3+88*0.3+87*0.2+86*0.2, history[0].WeightedScore, 1e-9)
	assert.WithinDuration(t, started, history[0].StartedAt, time.Second)
	assert.WithinDuration(t, now, history[0].CompletedAt, time.Second)

	// Progress rows survive but are zeroed
	rows, err := database.NewProgressRepository().GetAllForUser(database.DB, user.ID)
	require.NoError(t, err)
	assert.Len(t, rows, 4)
	for _, row := range rows {
		require.NotNil(t, row.Score)
		assert.Equal(t, 0.0, *row.Score)
		assert.Equal(t, 0, row.TotalAttempts)
		assert.Equal(t, 0, row.CorrectAttempts)
	}

	// Conversation history is wiped
	messages, err := database.NewConversationRepository().CountUserMessages(database.DB, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, messages)
}

func TestAdvanceNotEligible(t *testing.T) {
	setupTestDB(t)
	e := newTestEngine(time.Now().UTC())
	user := createTestUser(t, "A1")

	_, err := e.Advance(user.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotEligible)
	assert.Contains(t, err.Error(), "No activity yet")

	history, err := database.NewLevelHistoryRepository().GetForUser(database.DB, user.ID)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestAdvanceUnknownUser(t *testing.T) {
	setupTestDB(t)
	e := newTestEngine(time.Now().UTC())

	_, err := e.Advance(uuid.NewString())
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestAdvanceRollsBackOnFailure(t *testing.T) {
	setupTestDB(t)
	now := time.Now().UTC()
	e := newTestEngine(now)

	user := createTestUser(t, "A1")
	makeEligible(t, user.ID)

	// Force the final user update to fail so every earlier write in the
	// transaction must be undone
	_, err := database.DB.Exec(`
		CREATE TRIGGER block_level_change BEFORE UPDATE OF level ON users
		BEGIN
			SELECT RAISE(ABORT, 'blocked');
		END
	`)
	require.NoError(t, err)

	_, err = e.Advance(user.ID)
	require.Error(t, err)

	reloaded, err := database.NewUserRepository().GetByID(database.DB, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "A1", reloaded.Level)
	assert.Equal(t, 0, reloaded.TotalXP)

	history, err := database.NewLevelHistoryRepository().GetForUser(database.DB, user.ID)
	require.NoError(t, err)
	assert.Empty(t, history)

	rows, err := database.NewProgressRepository().GetAllForUser(database.DB, user.ID)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	for _, row := range rows {
		assert.NotZero(t, row.TotalAttempts)
	}

	messages, err := database.NewConversationRepository().CountUserMessages(database.DB, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 22, messages)
}

func TestAdvanceFullLadder(t *testing.T) {
	setupTestDB(t)
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	e := newTestEngine(base)

	user := createTestUser(t, "A1")

	levels := []string{"A2", "B1", "B2", "C1", "C2"}
	for i, want := range levels {
		e.now = func() time.Time { return base.AddDate(0, i+1, 0) }
		makeEligible(t, user.ID)

		result, err := e.Advance(user.ID)
		require.NoError(t, err)
		assert.Equal(t, want, result.NewLevel)
	}

	reloaded, err := database.NewUserRepository().GetByID(database.DB, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "C2", reloaded.Level)
	assert.Equal(t, 100+200+300+400+500, reloaded.TotalXP)

	history, err := database.NewLevelHistoryRepository().GetForUser(database.DB, user.ID)
	require.NoError(t, err)
	assert.Len(t, history, 5)

	// The ladder tops out at C2
	makeEligible(t, user.ID)
	_, err = e.Advance(user.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Already at maximum level (C2)")
}

func TestRecordAnswerAccuracy(t *testing.T) {
	setupTestDB(t)
	e := newTestEngine(time.Now().UTC())
	user := createTestUser(t, "A1")

	require.NoError(t, e.RecordAnswer(user, models.ModuleVocabulary, true))
	require.NoError(t, e.RecordAnswer(user, models.ModuleVocabulary, true))
	require.NoError(t, e.RecordAnswer(user, models.ModuleVocabulary, false))

	prog, err := database.NewProgressRepository().GetByUserAndModule(database.DB, user.ID, models.ModuleVocabulary)
	require.NoError(t, err)
	assert.Equal(t, 3, prog.TotalAttempts)
	assert.Equal(t, 2, prog.CorrectAttempts)
	require.NotNil(t, prog.Score)
	assert.InDelta(t, 200.0/3.0, *prog.Score, 1e-6)
	assert.NotNil(t, prog.LastActivityAt)
}

func TestRecordScoreRunningAverage(t *testing.T) {
	setupTestDB(t)
	e := newTestEngine(time.Now().UTC())
	user := createTestUser(t, "A1")

	require.NoError(t, e.RecordScore(user, models.ModuleWriting, 80))
	prog, err := database.NewProgressRepository().GetByUserAndModule(database.DB, user.ID, models.ModuleWriting)
	require.NoError(t, err)
	assert.InDelta(t, 80.0, *prog.Score, 1e-9)

	require.NoError(t, e.RecordScore(user, models.ModuleWriting, 90))
	prog, err = database.NewProgressRepository().GetByUserAndModule(database.DB, user.ID, models.ModuleWriting)
	require.NoError(t, err)
	assert.InDelta(t, 85.0, *prog.Score, 1e-9)

	require.NoError(t, e.RecordScore(user, models.ModuleWriting, 70))
	prog, err = database.NewProgressRepository().GetByUserAndModule(database.DB, user.ID, models.ModuleWriting)
	require.NoError(t, err)
	assert.InDelta(t, 77.5, *prog.Score, 1e-9)
	assert.Equal(t, 3, prog.TotalAttempts)
	assert.Equal(t, 0, prog.CorrectAttempts)
}

func TestAdvancementFlagFlipsOnScoredActivityOnly(t *testing.T) {
	setupTestDB(t)
	e := newTestEngine(time.Now().UTC())
	user := createTestUser(t, "A1")

	makeEligible(t, user.ID)

	// Conversation practice alone never flips the flag
	require.NoError(t, e.RecordConversationActivity(user))
	reloaded, err := database.NewUserRepository().GetByID(database.DB, user.ID)
	require.NoError(t, err)
	assert.False(t, reloaded.CanAdvance)
	assert.Nil(t, reloaded.AdvancementNotifiedAt)

	// A scored submission while eligible does
	require.NoError(t, e.RecordAnswer(user, models.ModuleVocabulary, true))
	reloaded, err = database.NewUserRepository().GetByID(database.DB, user.ID)
	require.NoError(t, err)
	assert.True(t, reloaded.CanAdvance)
	assert.NotNil(t, reloaded.AdvancementNotifiedAt)
	assert.True(t, user.CanAdvance)
}
