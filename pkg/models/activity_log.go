package models

import "time"

// ActivityLog records one completed activity in any learning module.
// Used for activity charts and for cross-module achievement counts.
type ActivityLog struct {
	ID        string    `json:"id" db:"id"`
	UserID    string    `json:"user_id" db:"user_id"`
	Module    string    `json:"module" db:"module"`
	Detail    string    `json:"detail" db:"detail"` // JSON payload describing the activity
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
