package models

import "time"

// Learning module names used throughout the application
const (
	ModuleVocabulary   = "vocabulary"
	ModuleGrammar      = "grammar"
	ModuleWriting      = "writing"
	ModulePhonetics    = "phonetics"
	ModuleConversation = "conversation"
)

// ModuleProgress aggregates a user's performance in one learning module
type ModuleProgress struct {
	ID              string     `json:"id" db:"id"`
	UserID          string     `json:"user_id" db:"user_id"`
	Module          string     `json:"module" db:"module"`
	Score           *float64   `json:"score" db:"score"` // 0-100, nil until first scored activity
	TotalAttempts   int        `json:"total_attempts" db:"total_attempts"`
	CorrectAttempts int        `json:"correct_attempts" db:"correct_attempts"`
	LastActivityAt  *time.Time `json:"last_activity_at" db:"last_activity_at"`
	CreatedAt       time.Time  `json:"created_at" db:"created_at"`
}
