package progress

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/example/lingua/internal/database"
	"github.com/example/lingua/pkg/models"
)

// CheatCodeFullClip fast-forwards a demo account to advancement readiness
const CheatCodeFullClip = "fullclip"

// CheatResult reports what a cheat code changed
type CheatResult struct {
	Success              bool     `json:"success"`
	Message              string   `json:"message"`
	ModulesUpdated       []string `json:"modules_updated"`
	ConversationMessages int      `json:"conversation_messages"`
}

// ApplyCheatCode applies a demo shortcut. The only recognized code is
// "fullclip", which lifts every scored module to 95% with enough attempts
// and backfills conversation practice.
func (e *Engine) ApplyCheatCode(user *models.User, code string) (*CheatResult, error) {
	if code != CheatCodeFullClip {
		return nil, ErrInvalidCheatCode
	}

	now := e.now()
	score := 95.0

	for _, module := range ScoredModules {
		prog, err := e.progress.GetByUserAndModule(database.DB, user.ID, module)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}

		totalAttempts, correctAttempts := 15, 15
		createdAt := now
		if prog != nil {
			if prog.TotalAttempts > totalAttempts {
				totalAttempts = prog.TotalAttempts
			}
			if prog.CorrectAttempts > correctAttempts {
				correctAttempts = prog.CorrectAttempts
			}
			createdAt = prog.CreatedAt
		}

		err = e.progress.Upsert(database.DB, &models.ModuleProgress{
			UserID:          user.ID,
			Module:          module,
			Score:           &score,
			TotalAttempts:   totalAttempts,
			CorrectAttempts: correctAttempts,
			LastActivityAt:  &now,
			CreatedAt:       createdAt,
		})
		if err != nil {
			return nil, err
		}
	}

	messages, err := e.conversations.CountUserMessages(database.DB, user.ID)
	if err != nil {
		return nil, err
	}
	if messages < 25 {
		targetLanguage := user.TargetLanguage
		if targetLanguage == "" {
			targetLanguage = "Spanish"
		}

		var context models.ConversationContext
		for i := 1; i <= 25; i++ {
			context.Messages = append(context.Messages,
				models.ChatMessage{Role: models.RoleUser, Content: fmt.Sprintf("Practice message %d", i)},
				models.ChatMessage{Role: models.RoleAssistant, Content: fmt.Sprintf("Response %d", i)},
			)
		}

		err = e.conversations.Create(database.DB, &models.ConversationSession{
			UserID:         user.ID,
			TargetLanguage: targetLanguage,
			Context:        context,
			CreatedAt:      now,
		})
		if err != nil {
			return nil, err
		}
	}

	if err := e.users.SetAdvancementReady(database.DB, user.ID, now); err != nil {
		return nil, err
	}
	user.CanAdvance = true

	return &CheatResult{
		Success:              true,
		Message:              "Cheat code applied! All modules set to 95% with 15+ attempts. You can now advance to the next level!",
		ModulesUpdated:       append([]string(nil), ScoredModules...),
		ConversationMessages: 25,
	}, nil
}
