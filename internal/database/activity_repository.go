package database

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/example/lingua/pkg/models"
)

// ActivityRepository handles database operations for the activity log
type ActivityRepository struct{}

// NewActivityRepository creates a new repository instance
func NewActivityRepository() *ActivityRepository {
	return &ActivityRepository{}
}

// Create appends one activity entry
func (r *ActivityRepository) Create(q sqlx.Ext, entry *models.ActivityLog) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.Detail == "" {
		entry.Detail = "{}"
	}
	_, err := q.Exec(`
		INSERT INTO activity_log (id, user_id, module, detail, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, entry.ID, entry.UserID, entry.Module, entry.Detail, entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create activity entry: %w", err)
	}
	return nil
}

// CountForUser returns the total number of logged activities for a user
func (r *ActivityRepository) CountForUser(q sqlx.Ext, userID string) (int, error) {
	var count int
	err := sqlx.Get(q, &count, "SELECT COUNT(*) FROM activity_log WHERE user_id = $1", userID)
	if err != nil {
		return 0, fmt.Errorf("failed to count activity entries: %w", err)
	}
	return count, nil
}

// GetSince returns a user's activity entries newer than the cutoff, oldest first
func (r *ActivityRepository) GetSince(q sqlx.Ext, userID string, since time.Time) ([]models.ActivityLog, error) {
	var entries []models.ActivityLog
	err := sqlx.Select(q, &entries,
		"SELECT * FROM activity_log WHERE user_id = $1 AND created_at >= $2 ORDER BY created_at ASC",
		userID, since,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get activity entries: %w", err)
	}
	return entries, nil
}

// GetRecentForUser returns a user's latest activity entries, newest first
func (r *ActivityRepository) GetRecentForUser(q sqlx.Ext, userID string, limit int) ([]models.ActivityLog, error) {
	var entries []models.ActivityLog
	err := sqlx.Select(q, &entries,
		"SELECT * FROM activity_log WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2",
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get activity entries: %w", err)
	}
	return entries, nil
}

// GetRecentForModule returns a user's latest entries in one module, newest first
func (r *ActivityRepository) GetRecentForModule(q sqlx.Ext, userID, module string, limit int) ([]models.ActivityLog, error) {
	var entries []models.ActivityLog
	err := sqlx.Select(q, &entries,
		"SELECT * FROM activity_log WHERE user_id = $1 AND module = $2 ORDER BY created_at DESC LIMIT $3",
		userID, module, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get activity entries: %w", err)
	}
	return entries, nil
}
