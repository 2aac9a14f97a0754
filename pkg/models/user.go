package models

import "time"

// User represents a learner account
type User struct {
	ID                     string     `json:"id" db:"id"`
	ExternalID             string     `json:"external_id" db:"external_id"` // Client-supplied identifier
	Username               string     `json:"username" db:"username"`
	TargetLanguage         string     `json:"target_language" db:"target_language"`
	Level                  string     `json:"level" db:"level"` // CEFR level A1-C2, empty until set
	LevelStartedAt         *time.Time `json:"level_started_at" db:"level_started_at"`
	CanAdvance             bool       `json:"can_advance" db:"can_advance"` // Cached eligibility flag
	AdvancementNotifiedAt  *time.Time `json:"advancement_notified_at" db:"advancement_notified_at"`
	TotalXP                int        `json:"total_xp" db:"total_xp"`
	PlacementTestCompleted bool       `json:"placement_test_completed" db:"placement_test_completed"`
	PlacementTestScore     *float64   `json:"placement_test_score" db:"placement_test_score"`
	CreatedAt              time.Time  `json:"created_at" db:"created_at"`
}
