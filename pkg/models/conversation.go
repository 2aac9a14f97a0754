package models

import "time"

// Chat roles stored in conversation history
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is a single tagged message in a conversation history
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ConversationContext is the persisted state of a tutoring conversation
type ConversationContext struct {
	SystemPrompt string        `json:"system_prompt"`
	Messages     []ChatMessage `json:"messages"`
	Topic        string        `json:"topic,omitempty"`
	Level        string        `json:"level,omitempty"`
}

// UserMessageCount returns how many messages the learner authored in this context
func (c ConversationContext) UserMessageCount() int {
	count := 0
	for _, m := range c.Messages {
		if m.Role == RoleUser {
			count++
		}
	}
	return count
}

// ConversationSession is one practice conversation between a user and the tutor
type ConversationSession struct {
	ID             string              `json:"id" db:"id"`
	UserID         string              `json:"user_id" db:"user_id"`
	TargetLanguage string              `json:"target_language" db:"target_language"`
	Context        ConversationContext `json:"context" db:"-"` // Stored as JSON in context_json
	CreatedAt      time.Time           `json:"created_at" db:"created_at"`
}
