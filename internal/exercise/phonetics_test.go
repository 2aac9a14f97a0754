package exercise

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/lingua/internal/ai"
	"github.com/example/lingua/internal/database"
	"github.com/example/lingua/pkg/models"
)

func TestPhraseSimilarity(t *testing.T) {
	score, missing := phraseSimilarity("Hola, ¿cómo estás hoy?", "hola cómo estás hoy")
	assert.InDelta(t, 100.0, score, 0.001)
	assert.Empty(t, missing)

	score, missing = phraseSimilarity("hola mundo grande azul", "azul hola")
	assert.InDelta(t, 50.0, score, 0.001)
	assert.Equal(t, []string{"mundo", "grande"}, missing)

	// Accents are part of the word
	score, _ = phraseSimilarity("¿Dónde está la estación?", "donde esta la estacion")
	assert.InDelta(t, 25.0, score, 0.001)

	score, missing = phraseSimilarity("hola", "")
	assert.Zero(t, score)
	assert.Equal(t, []string{"hola"}, missing)

	score, missing = phraseSimilarity("", "hola")
	assert.Zero(t, score)
	assert.Empty(t, missing)
}

func TestPhraseUsesGeneratorSentence(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, "A2")

	gen := &stubGenerator{response: "\"El gato duerme en el sofá.\"\n"}
	svc := NewPhoneticsService(gen, &stubTranscriber{}, newTestEngine())

	phrase, err := svc.Phrase(context.Background(), user)
	require.NoError(t, err)
	assert.Equal(t, "El gato duerme en el sofá.", phrase.TargetPhrase)
	assert.NotEmpty(t, phrase.SessionID)
	assert.Contains(t, gen.lastPrompt, "for a A2 level student")
}

func TestPhraseFallsBackWhenGeneratorFails(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, "A1")

	gen := &stubGenerator{err: errors.New("upstream down")}
	svc := NewPhoneticsService(gen, &stubTranscriber{}, newTestEngine())

	phrase, err := svc.Phrase(context.Background(), user)
	require.NoError(t, err)
	assert.Equal(t, fallbackPhrase, phrase.TargetPhrase)
	assert.NotEmpty(t, phrase.SessionID)
}

func TestEvaluateRecordsPerfectScore(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, "A2")

	stt := &stubTranscriber{transcript: "me gusta aprender idiomas nuevos"}
	svc := NewPhoneticsService(&stubGenerator{}, stt, newTestEngine())

	result, err := svc.Evaluate(context.Background(), user, "Me gusta aprender idiomas nuevos.", "clip.webm", strings.NewReader("audio"))
	require.NoError(t, err)

	assert.InDelta(t, 100.0, result.Score, 0.001)
	assert.Equal(t, "me gusta aprender idiomas nuevos", result.Transcript)
	assert.True(t, strings.HasPrefix(result.Feedback, "Excellent"))
	assert.Empty(t, result.WordLevelFeedback)

	row := moduleProgress(t, user.ID, models.ModulePhonetics)
	assert.Equal(t, 1, row.TotalAttempts)
	require.NotNil(t, row.Score)
	assert.InDelta(t, 100.0, *row.Score, 0.001)
	assert.Equal(t, 1, activityCount(t, user.ID))
}

func TestEvaluateFlagsMissingWords(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, "A2")

	stt := &stubTranscriber{transcript: "hola azul señor"}
	svc := NewPhoneticsService(&stubGenerator{}, stt, newTestEngine())

	result, err := svc.Evaluate(context.Background(), user, "hola mundo grande azul", "clip.webm", strings.NewReader("audio"))
	require.NoError(t, err)

	assert.InDelta(t, 50.0, result.Score, 0.001)
	require.Len(t, result.WordLevelFeedback, 2)
	assert.Equal(t, "mundo", result.WordLevelFeedback[0].Word)
	assert.Equal(t, "grande", result.WordLevelFeedback[1].Word)
	assert.True(t, strings.HasPrefix(result.Feedback, "Getting there"))
}

func TestEvaluateWithoutTranscriber(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, "A2")

	svc := NewPhoneticsService(ai.NewStatic(), ai.NewStatic(), newTestEngine())

	_, err := svc.Evaluate(context.Background(), user, "hola", "clip.webm", strings.NewReader("audio"))
	assert.ErrorIs(t, err, ai.ErrTranscriptionUnavailable)

	_, err = database.NewProgressRepository().GetByUserAndModule(database.DB, user.ID, models.ModulePhonetics)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}
