package spaced_repetition

import "errors"

var (
	// ErrInvalidQuality is returned when a review grade is outside 0-5
	ErrInvalidQuality = errors.New("quality must be between 0 and 5")

	// ErrReviewNotFound is returned when a review item doesn't exist or
	// belongs to another user
	ErrReviewNotFound = errors.New("review item not found")
)
