package database

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/example/lingua/pkg/models"
)

// AchievementRepository handles database operations for badges and unlocks
type AchievementRepository struct{}

// NewAchievementRepository creates a new repository instance
func NewAchievementRepository() *AchievementRepository {
	return &AchievementRepository{}
}

// SeedCatalog inserts catalog entries that don't exist yet, keyed by code.
// Existing entries are left untouched so re-running startup is safe.
func (r *AchievementRepository) SeedCatalog(q sqlx.Ext, achievements []models.Achievement) error {
	for i := range achievements {
		a := &achievements[i]
		if a.ID == "" {
			a.ID = uuid.NewString()
		}
		_, err := q.Exec(`
			INSERT INTO achievements (id, code, name, description, criteria_type, criteria_threshold, criteria_module, xp_reward, tier, icon, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			ON CONFLICT (code) DO NOTHING
		`,
			a.ID, a.Code, a.Name, a.Description,
			a.CriteriaType, a.CriteriaThreshold, a.CriteriaModule,
			a.XPReward, a.Tier, a.Icon, a.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to seed achievement %s: %w", a.Code, err)
		}
	}
	return nil
}

// GetAll returns the full achievement catalog
func (r *AchievementRepository) GetAll(q sqlx.Ext) ([]models.Achievement, error) {
	var achievements []models.Achievement
	err := sqlx.Select(q, &achievements, "SELECT * FROM achievements ORDER BY code")
	if err != nil {
		return nil, fmt.Errorf("failed to get achievements: %w", err)
	}
	return achievements, nil
}

// GetUserAchievements returns a user's unlocks, most recent first
func (r *AchievementRepository) GetUserAchievements(q sqlx.Ext, userID string) ([]models.UserAchievement, error) {
	var unlocks []models.UserAchievement
	err := sqlx.Select(q, &unlocks,
		"SELECT * FROM user_achievements WHERE user_id = $1 ORDER BY unlocked_at DESC",
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get user achievements: %w", err)
	}
	return unlocks, nil
}

// Unlock records an achievement for a user. Returns false if it was
// already unlocked.
func (r *AchievementRepository) Unlock(q sqlx.Ext, unlock *models.UserAchievement) (bool, error) {
	if unlock.ID == "" {
		unlock.ID = uuid.NewString()
	}
	result, err := q.Exec(`
		INSERT INTO user_achievements (id, user_id, achievement_id, unlocked_at, is_viewed)
		VALUES ($1, $2, $3, $4, FALSE)
		ON CONFLICT (user_id, achievement_id) DO NOTHING
	`, unlock.ID, unlock.UserID, unlock.AchievementID, unlock.UnlockedAt)
	if err != nil {
		return false, fmt.Errorf("failed to unlock achievement: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check unlock result: %w", err)
	}
	return rows > 0, nil
}

// MarkAllViewed flags every unlock for a user as seen
func (r *AchievementRepository) MarkAllViewed(q sqlx.Ext, userID string) error {
	_, err := q.Exec("UPDATE user_achievements SET is_viewed = TRUE WHERE user_id = $1", userID)
	if err != nil {
		return fmt.Errorf("failed to mark achievements viewed: %w", err)
	}
	return nil
}
