package database

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/example/lingua/pkg/models"
)

// ProgressRepository handles database operations for per-module progress
type ProgressRepository struct{}

// NewProgressRepository creates a new repository instance
func NewProgressRepository() *ProgressRepository {
	return &ProgressRepository{}
}

// GetByUserAndModule returns progress for a specific user and module
func (r *ProgressRepository) GetByUserAndModule(q sqlx.Ext, userID, module string) (*models.ModuleProgress, error) {
	var progress models.ModuleProgress
	err := sqlx.Get(q, &progress,
		"SELECT * FROM user_progress WHERE user_id = $1 AND module = $2",
		userID, module,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get module progress: %w", err)
	}
	return &progress, nil
}

// GetAllForUser returns every progress row for a user
func (r *ProgressRepository) GetAllForUser(q sqlx.Ext, userID string) ([]models.ModuleProgress, error) {
	var progress []models.ModuleProgress
	err := sqlx.Select(q, &progress,
		"SELECT * FROM user_progress WHERE user_id = $1 ORDER BY module",
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get progress rows: %w", err)
	}
	return progress, nil
}

// RecordAnswer applies one answered exercise as an atomic delta.
// The score is recomputed as correct/total*100 inside the statement so
// concurrent submissions cannot clobber each other.
func (r *ProgressRepository) RecordAnswer(q sqlx.Ext, userID, module string, correct bool, now time.Time) error {
	correctInc := 0
	initialScore := 0.0
	if correct {
		correctInc = 1
		initialScore = 100.0
	}

	_, err := q.Exec(`
		INSERT INTO user_progress (id, user_id, module, score, total_attempts, correct_attempts, last_activity_at, created_at)
		VALUES ($1, $2, $3, $4, 1, $5, $6, $6)
		ON CONFLICT (user_id, module) DO UPDATE SET
			total_attempts = user_progress.total_attempts + 1,
			correct_attempts = user_progress.correct_attempts + $5,
			score = (user_progress.correct_attempts + $5) * 100.0 / (user_progress.total_attempts + 1),
			last_activity_at = $6
	`, uuid.NewString(), userID, module, initialScore, correctInc, now)
	if err != nil {
		return fmt.Errorf("failed to record answer: %w", err)
	}
	return nil
}

// RecordAveragedScore applies one scored submission for modules without a
// binary right/wrong notion. The stored score becomes the average of the
// previous score and the new one, or the new score for the first submission.
func (r *ProgressRepository) RecordAveragedScore(q sqlx.Ext, userID, module string, score float64, now time.Time) error {
	_, err := q.Exec(`
		INSERT INTO user_progress (id, user_id, module, score, total_attempts, correct_attempts, last_activity_at, created_at)
		VALUES ($1, $2, $3, $4, 1, 0, $5, $5)
		ON CONFLICT (user_id, module) DO UPDATE SET
			total_attempts = user_progress.total_attempts + 1,
			score = CASE
				WHEN user_progress.score IS NULL THEN $4
				ELSE (user_progress.score + $4) / 2.0
			END,
			last_activity_at = $5
	`, uuid.NewString(), userID, module, score, now)
	if err != nil {
		return fmt.Errorf("failed to record score: %w", err)
	}
	return nil
}

// RecordActivity counts one unscored activity, used by the conversation module
func (r *ProgressRepository) RecordActivity(q sqlx.Ext, userID, module string, now time.Time) error {
	_, err := q.Exec(`
		INSERT INTO user_progress (id, user_id, module, score, total_attempts, correct_attempts, last_activity_at, created_at)
		VALUES ($1, $2, $3, NULL, 1, 0, $4, $4)
		ON CONFLICT (user_id, module) DO UPDATE SET
			total_attempts = user_progress.total_attempts + 1,
			last_activity_at = $4
	`, uuid.NewString(), userID, module, now)
	if err != nil {
		return fmt.Errorf("failed to record activity: %w", err)
	}
	return nil
}

// Upsert writes absolute values for a progress row, replacing any existing state
func (r *ProgressRepository) Upsert(q sqlx.Ext, progress *models.ModuleProgress) error {
	if progress.ID == "" {
		progress.ID = uuid.NewString()
	}
	_, err := q.Exec(`
		INSERT INTO user_progress (id, user_id, module, score, total_attempts, correct_attempts, last_activity_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (user_id, module) DO UPDATE SET
			score = $4,
			total_attempts = $5,
			correct_attempts = $6,
			last_activity_at = $7
	`,
		progress.ID,
		progress.UserID,
		progress.Module,
		progress.Score,
		progress.TotalAttempts,
		progress.CorrectAttempts,
		progress.LastActivityAt,
		progress.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert module progress: %w", err)
	}
	return nil
}

// ResetForUser zeroes every progress row for a user, keeping the rows themselves
func (r *ProgressRepository) ResetForUser(q sqlx.Ext, userID string) error {
	_, err := q.Exec(
		"UPDATE user_progress SET score = 0, total_attempts = 0, correct_attempts = 0 WHERE user_id = $1",
		userID,
	)
	if err != nil {
		return fmt.Errorf("failed to reset progress: %w", err)
	}
	return nil
}
