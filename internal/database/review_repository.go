package database

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/example/lingua/pkg/models"
)

// ReviewRepository handles database operations for SRS review items
type ReviewRepository struct{}

// NewReviewRepository creates a new repository instance
func NewReviewRepository() *ReviewRepository {
	return &ReviewRepository{}
}

// GetByID returns a review item by ID
func (r *ReviewRepository) GetByID(q sqlx.Ext, id string) (*models.ReviewItem, error) {
	var item models.ReviewItem
	err := sqlx.Get(q, &item, "SELECT * FROM review_items WHERE id = $1", id)
	if err != nil {
		return nil, fmt.Errorf("failed to get review item: %w", err)
	}
	return &item, nil
}

// GetByUserAndWord returns the item for a (user, word, language) triple if one exists
func (r *ReviewRepository) GetByUserAndWord(q sqlx.Ext, userID, word, targetLanguage string) (*models.ReviewItem, error) {
	var item models.ReviewItem
	err := sqlx.Get(q, &item,
		"SELECT * FROM review_items WHERE user_id = $1 AND word = $2 AND target_language = $3",
		userID, word, targetLanguage,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get review item by word: %w", err)
	}
	return &item, nil
}

// GetDueForUser returns items due at or before now, oldest due date first.
// A limit of 0 returns all due items.
func (r *ReviewRepository) GetDueForUser(q sqlx.Ext, userID string, now time.Time, limit int) ([]models.ReviewItem, error) {
	var items []models.ReviewItem
	query := `
		SELECT * FROM review_items
		WHERE user_id = $1 AND next_review_at <= $2
		ORDER BY next_review_at ASC
	`
	var err error
	if limit > 0 {
		err = sqlx.Select(q, &items, query+" LIMIT $3", userID, now, limit)
	} else {
		err = sqlx.Select(q, &items, query, userID, now)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get due review items: %w", err)
	}
	return items, nil
}

// Create inserts a new review item
func (r *ReviewRepository) Create(q sqlx.Ext, item *models.ReviewItem) error {
	_, err := q.Exec(`
		INSERT INTO review_items (
			id, user_id, word, definition, example_sentence, target_language,
			easiness_factor, repetitions, interval_days,
			next_review_at, last_reviewed_at, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`,
		item.ID,
		item.UserID,
		item.Word,
		item.Definition,
		item.ExampleSentence,
		item.TargetLanguage,
		item.EasinessFactor,
		item.Repetitions,
		item.IntervalDays,
		item.NextReviewAt,
		item.LastReviewedAt,
		item.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create review item: %w", err)
	}
	return nil
}

// UpdateSchedule persists the scheduling state after a completed review
func (r *ReviewRepository) UpdateSchedule(q sqlx.Ext, item *models.ReviewItem) error {
	_, err := q.Exec(`
		UPDATE review_items SET
			easiness_factor = $1,
			repetitions = $2,
			interval_days = $3,
			next_review_at = $4,
			last_reviewed_at = $5
		WHERE id = $6
	`,
		item.EasinessFactor,
		item.Repetitions,
		item.IntervalDays,
		item.NextReviewAt,
		item.LastReviewedAt,
		item.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update review item: %w", err)
	}
	return nil
}

// SetNextReviewAt moves an item's due date
func (r *ReviewRepository) SetNextReviewAt(q sqlx.Ext, id string, due time.Time) error {
	_, err := q.Exec("UPDATE review_items SET next_review_at = $1 WHERE id = $2", due, id)
	if err != nil {
		return fmt.Errorf("failed to set next review date: %w", err)
	}
	return nil
}

// Stats returns due/learning/mastered counts for a user
func (r *ReviewRepository) Stats(q sqlx.Ext, userID string, now time.Time) (*models.ReviewStats, error) {
	var stats models.ReviewStats

	err := sqlx.Get(q, &stats.Due,
		"SELECT COUNT(*) FROM review_items WHERE user_id = $1 AND next_review_at <= $2",
		userID, now,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to count due items: %w", err)
	}

	err = sqlx.Get(q, &stats.Learning,
		"SELECT COUNT(*) FROM review_items WHERE user_id = $1 AND repetitions < 5",
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to count learning items: %w", err)
	}

	err = sqlx.Get(q, &stats.Mastered,
		"SELECT COUNT(*) FROM review_items WHERE user_id = $1 AND repetitions >= 5",
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to count mastered items: %w", err)
	}

	stats.Total = stats.Learning + stats.Mastered
	return &stats, nil
}

// DueSummary pairs a user with their current number of due items
type DueSummary struct {
	UserID     string `db:"user_id"`
	ExternalID string `db:"external_id"`
	DueCount   int    `db:"due_count"`
}

// GetUsersWithDueItems returns every user who has at least one due item
func (r *ReviewRepository) GetUsersWithDueItems(q sqlx.Ext, now time.Time) ([]DueSummary, error) {
	var summaries []DueSummary
	err := sqlx.Select(q, &summaries, `
		SELECT u.id AS user_id, u.external_id AS external_id, COUNT(ri.id) AS due_count
		FROM review_items ri
		JOIN users u ON u.id = ri.user_id
		WHERE ri.next_review_at <= $1
		GROUP BY u.id, u.external_id
	`, now)
	if err != nil {
		return nil, fmt.Errorf("failed to get users with due items: %w", err)
	}
	return summaries, nil
}
