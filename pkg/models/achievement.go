package models

import "time"

// Achievement criteria types
const (
	CriteriaCount        = "count"         // Total attempts in a module, or across all modules
	CriteriaScore        = "score"         // Module score at or above threshold
	CriteriaLevelAdvance = "level_advance" // Number of completed levels
	CriteriaTotalXP      = "total_xp"      // Accumulated XP
)

// Achievement is a predefined badge users can unlock
type Achievement struct {
	ID                string    `json:"id" db:"id"`
	Code              string    `json:"code" db:"code"` // Stable unique identifier
	Name              string    `json:"name" db:"name"`
	Description       string    `json:"description" db:"description"`
	CriteriaType      string    `json:"criteria_type" db:"criteria_type"`
	CriteriaThreshold int       `json:"criteria_threshold" db:"criteria_threshold"`
	CriteriaModule    string    `json:"criteria_module" db:"criteria_module"` // Module name, "all", or empty
	XPReward          int       `json:"xp_reward" db:"xp_reward"`
	Tier              string    `json:"tier" db:"tier"` // bronze, silver, gold, platinum
	Icon              string    `json:"icon" db:"icon"`
	CreatedAt         time.Time `json:"created_at" db:"created_at"`
}

// UserAchievement records that a user unlocked an achievement
type UserAchievement struct {
	ID            string    `json:"id" db:"id"`
	UserID        string    `json:"user_id" db:"user_id"`
	AchievementID string    `json:"achievement_id" db:"achievement_id"`
	UnlockedAt    time.Time `json:"unlocked_at" db:"unlocked_at"`
	IsViewed      bool      `json:"is_viewed" db:"is_viewed"` // False while the NEW badge is shown
}
