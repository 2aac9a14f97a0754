package spaced_repetition

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/example/lingua/internal/database"
	"github.com/example/lingua/pkg/models"
)

// Service manages each user's review queue on top of the SM-2 scheduler
type Service struct {
	reviews *database.ReviewRepository
	now     func() time.Time
}

// NewService creates a review queue service
func NewService() *Service {
	return &Service{
		reviews: database.NewReviewRepository(),
		now:     time.Now,
	}
}

// AddWord puts a word on the user's review queue. A word already on the
// queue is not duplicated: if its next review lies in the future it is
// pulled forward to now, and an already due word is left alone. Returns
// the queue item and whether it was newly created.
func (s *Service) AddWord(user *models.User, word, definition, exampleSentence string) (*models.ReviewItem, bool, error) {
	word = strings.TrimSpace(word)
	if word == "" {
		return nil, false, fmt.Errorf("word must not be empty")
	}

	now := s.now()

	existing, err := s.reviews.GetByUserAndWord(database.DB, user.ID, word, user.TargetLanguage)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, false, err
	}
	if existing != nil {
		if existing.NextReviewAt.After(now) {
			if err := s.reviews.SetNextReviewAt(database.DB, existing.ID, now); err != nil {
				return nil, false, err
			}
			existing.NextReviewAt = now
		}
		return existing, false, nil
	}

	item := &models.ReviewItem{
		ID:              uuid.NewString(),
		UserID:          user.ID,
		Word:            word,
		Definition:      definition,
		ExampleSentence: exampleSentence,
		TargetLanguage:  user.TargetLanguage,
		EasinessFactor:  InitialEasinessFactor,
		Repetitions:     0,
		IntervalDays:    1,
		NextReviewAt:    now,
		CreatedAt:       now,
	}
	if err := s.reviews.Create(database.DB, item); err != nil {
		return nil, false, err
	}
	return item, true, nil
}

// RecordReview grades one review and reschedules the item
func (s *Service) RecordReview(userID, reviewID string, quality QualityResponse) (*models.ReviewItem, error) {
	item, err := s.reviews.GetByID(database.DB, reviewID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrReviewNotFound
	}
	if err != nil {
		return nil, err
	}
	if item.UserID != userID {
		return nil, ErrReviewNotFound
	}

	now := s.now()
	schedule, err := Calculate(item.EasinessFactor, item.Repetitions, item.IntervalDays, quality, now)
	if err != nil {
		return nil, err
	}

	item.EasinessFactor = schedule.EasinessFactor
	item.Repetitions = schedule.Repetitions
	item.IntervalDays = schedule.IntervalDays
	item.NextReviewAt = schedule.NextReviewAt
	item.LastReviewedAt = &now

	if err := s.reviews.UpdateSchedule(database.DB, item); err != nil {
		return nil, err
	}
	return item, nil
}

// DueReviews returns the user's due items, earliest due first. A limit of
// zero returns everything due.
func (s *Service) DueReviews(userID string, limit int) ([]models.ReviewItem, error) {
	return s.reviews.GetDueForUser(database.DB, userID, s.now(), limit)
}

// NextDue returns the single earliest due item, or nil when nothing is due
func (s *Service) NextDue(userID string) (*models.ReviewItem, error) {
	due, err := s.reviews.GetDueForUser(database.DB, userID, s.now(), 1)
	if err != nil {
		return nil, err
	}
	if len(due) == 0 {
		return nil, nil
	}
	return &due[0], nil
}

// Stats summarizes the user's queue: due now, still learning, mastered
func (s *Service) Stats(userID string) (*models.ReviewStats, error) {
	return s.reviews.Stats(database.DB, userID, s.now())
}
