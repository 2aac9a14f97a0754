package achievements

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/lingua/internal/database"
	"github.com/example/lingua/pkg/models"
)

func setupTestDB(t *testing.T) {
	t.Setenv("DB_TYPE", "sqlite")
	t.Setenv("SQLITE_PATH", ":memory:")
	require.NoError(t, database.Connect())
	t.Cleanup(func() { database.Close() })
}

func createTestUser(t *testing.T, totalXP int) *models.User {
	t.Helper()
	user := &models.User{
		ID:             uuid.NewString(),
		ExternalID:     uuid.NewString(),
		Username:       "learner",
		TargetLanguage: "spanish",
		Level:          "A1",
		TotalXP:        totalXP,
		CreatedAt:      time.Now().UTC(),
	}
	require.NoError(t, database.NewUserRepository().Create(database.DB, user))
	return user
}

func seedAttempts(t *testing.T, userID, module string, attempts int, score float64) {
	t.Helper()
	now := time.Now().UTC()
	require.NoError(t, database.NewProgressRepository().Upsert(database.DB, &models.ModuleProgress{
		UserID:          userID,
		Module:          module,
		Score:           &score,
		TotalAttempts:   attempts,
		CorrectAttempts: attempts,
		LastActivityAt:  &now,
		CreatedAt:       now,
	}))
}

func TestSeedIsIdempotent(t *testing.T) {
	setupTestDB(t)
	s := NewService()

	require.NoError(t, s.Seed())
	require.NoError(t, s.Seed())

	all, err := database.NewAchievementRepository().GetAll(database.DB)
	require.NoError(t, err)
	assert.Len(t, all, 14)
}

func TestCheckAndUnlockCountBadge(t *testing.T) {
	setupTestDB(t)
	s := NewService()
	require.NoError(t, s.Seed())

	user := createTestUser(t, 0)
	seedAttempts(t, user.ID, models.ModuleVocabulary, 1, 100)

	unlocked, err := s.CheckAndUnlock(user.ID)
	require.NoError(t, err)
	require.Len(t, unlocked, 1)
	assert.Equal(t, "first_word", unlocked[0].Code)

	// XP reward landed
	reloaded, err := database.NewUserRepository().GetByID(database.DB, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, reloaded.TotalXP)

	// A second pass unlocks nothing new
	unlocked, err = s.CheckAndUnlock(user.ID)
	require.NoError(t, err)
	assert.Empty(t, unlocked)
}

func TestCheckAndUnlockScoreBadge(t *testing.T) {
	setupTestDB(t)
	s := NewService()
	require.NoError(t, s.Seed())

	user := createTestUser(t, 0)
	seedAttempts(t, user.ID, models.ModuleGrammar, 3, 92)

	unlocked, err := s.CheckAndUnlock(user.ID)
	require.NoError(t, err)

	codes := make([]string, len(unlocked))
	for i := range unlocked {
		codes[i] = unlocked[i].Code
	}
	assert.Contains(t, codes, "grammar_guru")
	assert.NotContains(t, codes, "grammar_perfectionist") // needs 10 attempts
}

func TestCheckAndUnlockXPCascade(t *testing.T) {
	setupTestDB(t)
	s := NewService()
	require.NoError(t, s.Seed())

	// 995 XP plus the 10 from first_word crosses the 1000 XP badge
	// within the same pass
	user := createTestUser(t, 995)
	seedAttempts(t, user.ID, models.ModuleVocabulary, 1, 100)

	unlocked, err := s.CheckAndUnlock(user.ID)
	require.NoError(t, err)

	codes := make([]string, len(unlocked))
	for i := range unlocked {
		codes[i] = unlocked[i].Code
	}
	assert.Contains(t, codes, "first_word")
	assert.Contains(t, codes, "xp_collector")

	reloaded, err := database.NewUserRepository().GetByID(database.DB, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 995+10+100, reloaded.TotalXP)
}

func TestCheckAndUnlockLevelBadges(t *testing.T) {
	setupTestDB(t)
	s := NewService()
	require.NoError(t, s.Seed())

	user := createTestUser(t, 0)
	now := time.Now().UTC()
	histories := database.NewLevelHistoryRepository()
	require.NoError(t, histories.Create(database.DB, &models.LevelHistory{
		UserID: user.ID, Level: "A1",
		StartedAt: now.AddDate(0, -1, 0), CompletedAt: now,
	}))

	unlocked, err := s.CheckAndUnlock(user.ID)
	require.NoError(t, err)
	require.Len(t, unlocked, 1)
	assert.Equal(t, "level_up", unlocked[0].Code)

	require.NoError(t, histories.Create(database.DB, &models.LevelHistory{
		UserID: user.ID, Level: "A2",
		StartedAt: now, CompletedAt: now.Add(time.Hour),
	}))

	unlocked, err = s.CheckAndUnlock(user.ID)
	require.NoError(t, err)
	require.Len(t, unlocked, 1)
	assert.Equal(t, "rapid_learner", unlocked[0].Code)
}

func TestListSplitsAndSorts(t *testing.T) {
	setupTestDB(t)
	s := NewService()
	require.NoError(t, s.Seed())

	user := createTestUser(t, 0)
	seedAttempts(t, user.ID, models.ModuleVocabulary, 5, 100)

	first := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return first }
	_, err := s.CheckAndUnlock(user.ID) // first_word
	require.NoError(t, err)

	seedAttempts(t, user.ID, models.ModuleWriting, 1, 88)
	s.now = func() time.Time { return first.Add(time.Hour) }
	_, err = s.CheckAndUnlock(user.ID) // first_composition
	require.NoError(t, err)

	list, err := s.List(user.ID)
	require.NoError(t, err)

	require.Len(t, list.Unlocked, 2)
	assert.Equal(t, "first_composition", list.Unlocked[0].Code) // newest first
	assert.Equal(t, "first_word", list.Unlocked[1].Code)
	assert.True(t, list.Unlocked[0].IsNew)
	assert.Equal(t, 2, list.NewCount)

	require.Len(t, list.Locked, 12)
	// Locked badges are ordered by how close they are to unlocking
	for i := 1; i < len(list.Locked); i++ {
		assert.GreaterOrEqual(t, list.Locked[i-1].Progress, list.Locked[i].Progress)
	}

	byCode := make(map[string]LockedBadge)
	for _, badge := range list.Locked {
		byCode[badge.Code] = badge
	}
	assert.Equal(t, 50, byCode["word_explorer"].Progress)    // 5 of 10 flashcards
	assert.Equal(t, 5, byCode["vocabulary_master"].Progress) // 5 of 100
	assert.Equal(t, 0, byCode["grammar_guru"].Progress)      // no grammar activity yet
}

func TestListProgressForScoreBadge(t *testing.T) {
	setupTestDB(t)
	s := NewService()
	require.NoError(t, s.Seed())

	user := createTestUser(t, 0)
	seedAttempts(t, user.ID, models.ModuleGrammar, 2, 45)

	list, err := s.List(user.ID)
	require.NoError(t, err)

	byCode := make(map[string]LockedBadge)
	for _, badge := range list.Locked {
		byCode[badge.Code] = badge
	}
	assert.Equal(t, 50, byCode["grammar_guru"].Progress) // 45 of 90
}

func TestMarkViewedClearsNewFlags(t *testing.T) {
	setupTestDB(t)
	s := NewService()
	require.NoError(t, s.Seed())

	user := createTestUser(t, 0)
	seedAttempts(t, user.ID, models.ModuleVocabulary, 1, 100)
	_, err := s.CheckAndUnlock(user.ID)
	require.NoError(t, err)

	list, err := s.List(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, list.NewCount)

	require.NoError(t, s.MarkViewed(user.ID))

	list, err = s.List(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, list.NewCount)
	require.Len(t, list.Unlocked, 1)
	assert.False(t, list.Unlocked[0].IsNew)
}
