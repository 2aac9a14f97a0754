package progress

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/example/lingua/internal/achievements"
	"github.com/example/lingua/internal/database"
	"github.com/example/lingua/pkg/models"
)

// Engine drives level advancement: it tracks module progress, decides
// eligibility, and performs the advancement transition itself.
type Engine struct {
	users         *database.UserRepository
	progress      *database.ProgressRepository
	conversations *database.ConversationRepository
	history       *database.LevelHistoryRepository
	activity      *database.ActivityRepository
	badges        *achievements.Service
	now           func() time.Time
}

// NewEngine creates an advancement engine
func NewEngine(badges *achievements.Service) *Engine {
	return &Engine{
		users:         database.NewUserRepository(),
		progress:      database.NewProgressRepository(),
		conversations: database.NewConversationRepository(),
		history:       database.NewLevelHistoryRepository(),
		activity:      database.NewActivityRepository(),
		badges:        badges,
		now:           time.Now,
	}
}

// ModuleStatus is one module's readiness within an eligibility check
type ModuleStatus struct {
	Ready    bool     `json:"ready"`
	Score    *float64 `json:"score"`
	Attempts int      `json:"attempts"`
	Reason   *string  `json:"reason"`
}

// Eligibility is the outcome of an advancement eligibility check
type Eligibility struct {
	Eligible             bool                    `json:"eligible"`
	Reason               *string                 `json:"reason"`
	Modules              map[string]ModuleStatus `json:"modules,omitempty"`
	ConversationMessages int                     `json:"conversation_messages"`
	ConversationReady    bool                    `json:"conversation_ready"`
}

// Eligibility reports whether the user may advance and, if not, every
// blocking requirement
func (e *Engine) Eligibility(userID string) (*Eligibility, error) {
	return e.eligibility(database.DB, userID)
}

func (e *Engine) eligibility(q sqlx.Ext, userID string) (*Eligibility, error) {
	user, err := e.users.GetByID(q, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return blockedEligibility("User not found"), nil
	}
	if err != nil {
		return nil, err
	}

	if user.Level == "" {
		return blockedEligibility("User level not set"), nil
	}
	if _, ok := NextLevel(user.Level); !ok {
		return blockedEligibility("Already at maximum level (C2)"), nil
	}

	result := &Eligibility{
		Modules: make(map[string]ModuleStatus, len(ScoredModules)),
	}
	allReady := true
	var blocking []string

	for _, module := range ScoredModules {
		prog, err := e.progress.GetByUserAndModule(q, userID, module)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}

		if prog == nil {
			reason := "No activity yet"
			result.Modules[module] = ModuleStatus{Reason: &reason}
			allReady = false
			blocking = append(blocking, fmt.Sprintf("%s: %s", titleCase(module), reason))
			continue
		}

		score := 0.0
		if prog.Score != nil {
			score = *prog.Score
		}
		attempts := prog.TotalAttempts

		meetsScore := score >= ScoreThreshold
		meetsAttempts := attempts >= MinimumAttempts
		ready := meetsScore && meetsAttempts

		status := ModuleStatus{
			Ready:    ready,
			Score:    &score,
			Attempts: attempts,
		}
		if !ready {
			var reason string
			if !meetsScore {
				reason = fmt.Sprintf("Score too low (%.1f%%)", score)
			} else {
				reason = fmt.Sprintf("Not enough attempts (%d/%d)", attempts, MinimumAttempts)
			}
			status.Reason = &reason
			allReady = false
			blocking = append(blocking, fmt.Sprintf("%s: %s", titleCase(module), reason))
		}
		result.Modules[module] = status
	}

	messages, err := e.conversations.CountUserMessages(q, userID)
	if err != nil {
		return nil, err
	}
	result.ConversationMessages = messages
	result.ConversationReady = messages >= ConversationMinimum
	if !result.ConversationReady {
		allReady = false
		blocking = append(blocking, fmt.Sprintf("Conversation: Need %d more messages", ConversationMinimum-messages))
	}

	result.Eligible = allReady
	if !result.Eligible {
		reason := strings.Join(blocking, "; ")
		result.Reason = &reason
	}
	return result, nil
}

func blockedEligibility(reason string) *Eligibility {
	return &Eligibility{Reason: &reason}
}

// AdvancementResult is the celebration payload returned after a level-up
type AdvancementResult struct {
	Success            bool                `json:"success"`
	NewLevel           string              `json:"new_level"`
	OldLevel           string              `json:"old_level"`
	XPEarned           int                 `json:"xp_earned"`
	CelebrationMessage string              `json:"celebration_message"`
	ModuleScores       map[string]*float64 `json:"module_scores"`
}

// Advance moves an eligible user to the next level: archives a snapshot of
// the finished level, resets module progress, clears conversation history,
// and awards XP. The whole transition commits atomically or not at all.
func (e *Engine) Advance(userID string) (*AdvancementResult, error) {
	var result *AdvancementResult

	err := database.Transact(func(tx *sqlx.Tx) error {
		user, err := e.users.GetByID(tx, userID)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrUserNotFound
		}
		if err != nil {
			return err
		}

		elig, err := e.eligibility(tx, userID)
		if err != nil {
			return err
		}
		if !elig.Eligible {
			reason := ""
			if elig.Reason != nil {
				reason = *elig.Reason
			}
			return fmt.Errorf("%w: %s", ErrNotEligible, reason)
		}

		oldLevel := user.Level
		newLevel, ok := NextLevel(oldLevel)
		if !ok {
			return ErrMaxLevel
		}

		now := e.now()

		scores := make(map[string]*float64, len(ScoredModules))
		attempts := make(map[string]int, len(ScoredModules))
		for _, module := range ScoredModules {
			prog, err := e.progress.GetByUserAndModule(tx, userID, module)
			if err != nil && !errors.Is(err, sql.ErrNoRows) {
				return err
			}
			if prog != nil {
				scores[module] = prog.Score
				attempts[module] = prog.TotalAttempts
			} else {
				scores[module] = nil
			}
		}

		daysAtLevel := 0
		startedAt := user.CreatedAt
		if user.LevelStartedAt != nil {
			startedAt = *user.LevelStartedAt
			daysAtLevel = int(now.Sub(*user.LevelStartedAt).Hours() / 24)
		}

		err = e.history.Create(tx, &models.LevelHistory{
			UserID:               userID,
			Level:                oldLevel,
			VocabularyScore:      scores[models.ModuleVocabulary],
			GrammarScore:         scores[models.ModuleGrammar],
			WritingScore:         scores[models.ModuleWriting],
			PhoneticsScore:       scores[models.ModulePhonetics],
			VocabularyAttempts:   attempts[models.ModuleVocabulary],
			GrammarAttempts:      attempts[models.ModuleGrammar],
			WritingAttempts:      attempts[models.ModuleWriting],
			PhoneticsAttempts:    attempts[models.ModulePhonetics],
			ConversationMessages: elig.ConversationMessages,
			StartedAt:            startedAt,
			CompletedAt:          now,
			DaysAtLevel:          daysAtLevel,
			WeightedScore:        WeightedScore(scores),
		})
		if err != nil {
			return err
		}

		if err := e.progress.ResetForUser(tx, userID); err != nil {
			return err
		}
		if err := e.conversations.DeleteAllForUser(tx, userID); err != nil {
			return err
		}

		xpEarned := XPRewardFor(oldLevel)
		if err := e.users.ApplyAdvancement(tx, userID, newLevel, now, xpEarned); err != nil {
			return err
		}

		result = &AdvancementResult{
			Success:            true,
			NewLevel:           newLevel,
			OldLevel:           oldLevel,
			XPEarned:           xpEarned,
			CelebrationMessage: fmt.Sprintf("Congratulations! You've advanced from %s to %s!", oldLevel, newLevel),
			ModuleScores:       scores,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Advancing itself can unlock badges
	if _, err := e.badges.CheckAndUnlock(userID); err != nil {
		return nil, err
	}
	return result, nil
}

// RecordAnswer counts one graded exercise answer for a right/wrong module
// and runs the post-activity checks
func (e *Engine) RecordAnswer(user *models.User, module string, correct bool) error {
	if err := e.progress.RecordAnswer(database.DB, user.ID, module, correct, e.now()); err != nil {
		return err
	}
	return e.afterActivity(user, true)
}

// RecordScore folds one scored submission into a module's running average
// and runs the post-activity checks
func (e *Engine) RecordScore(user *models.User, module string, score float64) error {
	if err := e.progress.RecordAveragedScore(database.DB, user.ID, module, score, e.now()); err != nil {
		return err
	}
	return e.afterActivity(user, true)
}

// RecordConversationActivity counts one sent conversation message.
// Conversation practice feeds badge checks but never flips the
// advancement flag on its own.
func (e *Engine) RecordConversationActivity(user *models.User) error {
	if err := e.progress.RecordActivity(database.DB, user.ID, models.ModuleConversation, e.now()); err != nil {
		return err
	}
	return e.afterActivity(user, false)
}

func (e *Engine) afterActivity(user *models.User, checkAdvancement bool) error {
	if _, err := e.badges.CheckAndUnlock(user.ID); err != nil {
		return err
	}
	if !checkAdvancement {
		return nil
	}

	elig, err := e.Eligibility(user.ID)
	if err != nil {
		return err
	}
	if elig.Eligible && !user.CanAdvance {
		if err := e.users.SetAdvancementReady(database.DB, user.ID, e.now()); err != nil {
			return err
		}
		user.CanAdvance = true
	}
	return nil
}

func titleCase(module string) string {
	if module == "" {
		return module
	}
	return strings.ToUpper(module[:1]) + module[1:]
}
