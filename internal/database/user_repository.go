package database

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/example/lingua/pkg/models"
)

// UserRepository handles database operations for users
type UserRepository struct{}

// NewUserRepository creates a new repository instance
func NewUserRepository() *UserRepository {
	return &UserRepository{}
}

// GetByID returns a user by internal ID
func (r *UserRepository) GetByID(q sqlx.Ext, id string) (*models.User, error) {
	var user models.User
	err := sqlx.Get(q, &user, "SELECT * FROM users WHERE id = $1", id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// GetByExternalID returns a user by the client-supplied identifier
func (r *UserRepository) GetByExternalID(q sqlx.Ext, externalID string) (*models.User, error) {
	var user models.User
	err := sqlx.Get(q, &user, "SELECT * FROM users WHERE external_id = $1", externalID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by external id: %w", err)
	}
	return &user, nil
}

// GetAll returns all users ordered by creation time
func (r *UserRepository) GetAll(q sqlx.Ext) ([]models.User, error) {
	var users []models.User
	err := sqlx.Select(q, &users, "SELECT * FROM users ORDER BY created_at DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to get users: %w", err)
	}
	return users, nil
}

// Create inserts a new user record
func (r *UserRepository) Create(q sqlx.Ext, user *models.User) error {
	_, err := q.Exec(`
		INSERT INTO users (
			id, external_id, username, target_language, level, level_started_at,
			can_advance, advancement_notified_at, total_xp,
			placement_test_completed, placement_test_score, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`,
		user.ID,
		user.ExternalID,
		user.Username,
		user.TargetLanguage,
		user.Level,
		user.LevelStartedAt,
		user.CanAdvance,
		user.AdvancementNotifiedAt,
		user.TotalXP,
		user.PlacementTestCompleted,
		user.PlacementTestScore,
		user.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// UpdateTargetLanguage changes the language a user is learning
func (r *UserRepository) UpdateTargetLanguage(q sqlx.Ext, userID, language string) error {
	_, err := q.Exec("UPDATE users SET target_language = $1 WHERE id = $2", language, userID)
	if err != nil {
		return fmt.Errorf("failed to update target language: %w", err)
	}
	return nil
}

// UpdateLevel sets the user's level and restarts the level clock
func (r *UserRepository) UpdateLevel(q sqlx.Ext, userID, level string, startedAt time.Time) error {
	_, err := q.Exec(
		"UPDATE users SET level = $1, level_started_at = $2, can_advance = FALSE, advancement_notified_at = NULL WHERE id = $3",
		level, startedAt, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to update level: %w", err)
	}
	return nil
}

// SetAdvancementReady caches a positive eligibility result on the user
func (r *UserRepository) SetAdvancementReady(q sqlx.Ext, userID string, notifiedAt time.Time) error {
	_, err := q.Exec(
		"UPDATE users SET can_advance = TRUE, advancement_notified_at = $1 WHERE id = $2",
		notifiedAt, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to set advancement flag: %w", err)
	}
	return nil
}

// AddXP increments the user's experience total
func (r *UserRepository) AddXP(q sqlx.Ext, userID string, amount int) error {
	_, err := q.Exec("UPDATE users SET total_xp = total_xp + $1 WHERE id = $2", amount, userID)
	if err != nil {
		return fmt.Errorf("failed to add xp: %w", err)
	}
	return nil
}

// ApplyAdvancement moves the user to a new level and awards XP in one statement
func (r *UserRepository) ApplyAdvancement(q sqlx.Ext, userID, newLevel string, startedAt time.Time, xpEarned int) error {
	_, err := q.Exec(`
		UPDATE users SET
			level = $1,
			level_started_at = $2,
			can_advance = FALSE,
			advancement_notified_at = NULL,
			total_xp = total_xp + $3
		WHERE id = $4
	`, newLevel, startedAt, xpEarned, userID)
	if err != nil {
		return fmt.Errorf("failed to apply advancement: %w", err)
	}
	return nil
}

// SetPlacementResult records a completed placement test on the user
func (r *UserRepository) SetPlacementResult(q sqlx.Ext, userID, level string, score float64, startedAt time.Time) error {
	_, err := q.Exec(`
		UPDATE users SET
			level = $1,
			level_started_at = $2,
			placement_test_completed = TRUE,
			placement_test_score = $3
		WHERE id = $4
	`, level, startedAt, score, userID)
	if err != nil {
		return fmt.Errorf("failed to set placement result: %w", err)
	}
	return nil
}

// Delete removes a user
func (r *UserRepository) Delete(q sqlx.Ext, id string) error {
	_, err := q.Exec("DELETE FROM users WHERE id = $1", id)
	return err
}
