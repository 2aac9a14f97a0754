package models

import "time"

// ReviewItem tracks a user's progress with a single word using the SM-2 algorithm
type ReviewItem struct {
	ID              string     `json:"id" db:"id"`
	UserID          string     `json:"user_id" db:"user_id"`
	Word            string     `json:"word" db:"word"`
	Definition      string     `json:"definition" db:"definition"`
	ExampleSentence string     `json:"example_sentence" db:"example_sentence"`
	TargetLanguage  string     `json:"target_language" db:"target_language"`
	EasinessFactor  float64    `json:"easiness_factor" db:"easiness_factor"` // SM-2 EF parameter, minimum 1.3
	Repetitions     int        `json:"repetitions" db:"repetitions"`
	IntervalDays    int        `json:"interval_days" db:"interval_days"`
	NextReviewAt    time.Time  `json:"next_review_at" db:"next_review_at"`
	LastReviewedAt  *time.Time `json:"last_reviewed_at" db:"last_reviewed_at"`
	CreatedAt       time.Time  `json:"created_at" db:"created_at"`
}

// ReviewStats summarizes the state of a user's review queue
type ReviewStats struct {
	Due      int `json:"due"`
	Learning int `json:"learning"` // Fewer than 5 successful repetitions
	Mastered int `json:"mastered"` // 5 or more successful repetitions
	Total    int `json:"total"`
}
