package database

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/example/lingua/pkg/models"
)

// LevelHistoryRepository handles database operations for completed-level snapshots
type LevelHistoryRepository struct{}

// NewLevelHistoryRepository creates a new repository instance
func NewLevelHistoryRepository() *LevelHistoryRepository {
	return &LevelHistoryRepository{}
}

// Create archives a completed-level snapshot
func (r *LevelHistoryRepository) Create(q sqlx.Ext, history *models.LevelHistory) error {
	if history.ID == "" {
		history.ID = uuid.NewString()
	}
	_, err := q.Exec(`
		INSERT INTO level_history (
			id, user_id, level,
			vocabulary_score, grammar_score, writing_score, phonetics_score,
			vocabulary_attempts, grammar_attempts, writing_attempts, phonetics_attempts,
			conversation_messages, started_at, completed_at, days_at_level, weighted_score
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`,
		history.ID,
		history.UserID,
		history.Level,
		history.VocabularyScore,
		history.GrammarScore,
		history.WritingScore,
		history.PhoneticsScore,
		history.VocabularyAttempts,
		history.GrammarAttempts,
		history.WritingAttempts,
		history.PhoneticsAttempts,
		history.ConversationMessages,
		history.StartedAt,
		history.CompletedAt,
		history.DaysAtLevel,
		history.WeightedScore,
	)
	if err != nil {
		return fmt.Errorf("failed to create level history: %w", err)
	}
	return nil
}

// GetForUser returns a user's completed levels, most recent first
func (r *LevelHistoryRepository) GetForUser(q sqlx.Ext, userID string) ([]models.LevelHistory, error) {
	var history []models.LevelHistory
	err := sqlx.Select(q, &history,
		"SELECT * FROM level_history WHERE user_id = $1 ORDER BY completed_at DESC",
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get level history: %w", err)
	}
	return history, nil
}

// GetForUserChronological returns a user's completed levels, oldest first
func (r *LevelHistoryRepository) GetForUserChronological(q sqlx.Ext, userID string) ([]models.LevelHistory, error) {
	var history []models.LevelHistory
	err := sqlx.Select(q, &history,
		"SELECT * FROM level_history WHERE user_id = $1 ORDER BY completed_at ASC",
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get level history: %w", err)
	}
	return history, nil
}

// CountForUser returns how many levels a user has completed
func (r *LevelHistoryRepository) CountForUser(q sqlx.Ext, userID string) (int, error) {
	var count int
	err := sqlx.Get(q, &count, "SELECT COUNT(*) FROM level_history WHERE user_id = $1", userID)
	if err != nil {
		return 0, fmt.Errorf("failed to count level history: %w", err)
	}
	return count, nil
}
