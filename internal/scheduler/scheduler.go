package scheduler

import (
	"log/slog"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/example/lingua/internal/database"
)

// Default notification window in UTC hours
const (
	DefaultNotificationHourStart = 9
	DefaultNotificationHourEnd   = 22
)

// Notifier delivers a due-review reminder to one user
type Notifier interface {
	SendReviewReminder(externalID string, dueCount int) error
}

// Scheduler runs the recurring reminder job
type Scheduler struct {
	scheduler *gocron.Scheduler
	notifier  Notifier
	reviews   *database.ReviewRepository

	mu       sync.Mutex
	notified map[string]string // user ID -> UTC date of the last reminder

	now func() time.Time
}

// New creates a scheduler delivering reminders through the given notifier
func New(notifier Notifier) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		notifier:  notifier,
		reviews:   database.NewReviewRepository(),
		notified:  make(map[string]string),
		now:       time.Now,
	}
}

// Start schedules the hourly reminder check without blocking
func (s *Scheduler) Start() {
	s.scheduler.Every(1).Hour().Do(s.remindDueReviews)
	s.scheduler.StartAsync()
}

// Stop terminates all scheduled jobs
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// remindDueReviews sends at most one reminder per user per UTC day, and only
// inside the configured notification window
func (s *Scheduler) remindDueReviews() {
	now := s.now().UTC()
	start, end := notificationWindow()
	if now.Hour() < start || now.Hour() > end {
		slog.Debug("outside notification window, skipping reminders",
			"hour", now.Hour(), "window_start", start, "window_end", end)
		return
	}

	summaries, err := s.reviews.GetUsersWithDueItems(database.DB, now)
	if err != nil {
		slog.Error("failed to look up users with due reviews", "error", err)
		return
	}

	today := now.Format("2006-01-02")
	for _, summary := range summaries {
		if s.alreadyNotified(summary.UserID, today) {
			continue
		}
		if err := s.notifier.SendReviewReminder(summary.ExternalID, summary.DueCount); err != nil {
			slog.Error("failed to send review reminder", "user_id", summary.UserID, "error", err)
			continue
		}
		s.markNotified(summary.UserID, today)
	}
}

func (s *Scheduler) alreadyNotified(userID, day string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.notified[userID] == day
}

func (s *Scheduler) markNotified(userID, day string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notified[userID] = day
}

// notificationWindow reads the reminder hours from the environment, keeping
// the defaults for unset or invalid values
func notificationWindow() (start, end int) {
	start = DefaultNotificationHourStart
	end = DefaultNotificationHourEnd
	if v := os.Getenv("NOTIFICATION_HOUR_START"); v != "" {
		if h, err := strconv.Atoi(v); err == nil && h >= 0 && h <= 23 {
			start = h
		}
	}
	if v := os.Getenv("NOTIFICATION_HOUR_END"); v != "" {
		if h, err := strconv.Atoi(v); err == nil && h >= 0 && h <= 23 {
			end = h
		}
	}
	return start, end
}
