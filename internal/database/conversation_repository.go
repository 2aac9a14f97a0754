package database

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/example/lingua/pkg/models"
)

// ConversationRepository handles database operations for conversation sessions
type ConversationRepository struct{}

// NewConversationRepository creates a new repository instance
func NewConversationRepository() *ConversationRepository {
	return &ConversationRepository{}
}

type conversationRow struct {
	ID             string    `db:"id"`
	UserID         string    `db:"user_id"`
	TargetLanguage string    `db:"target_language"`
	ContextJSON    string    `db:"context_json"`
	CreatedAt      time.Time `db:"created_at"`
}

func (row *conversationRow) toSession() (*models.ConversationSession, error) {
	session := &models.ConversationSession{
		ID:             row.ID,
		UserID:         row.UserID,
		TargetLanguage: row.TargetLanguage,
		CreatedAt:      row.CreatedAt,
	}
	if row.ContextJSON != "" {
		if err := json.Unmarshal([]byte(row.ContextJSON), &session.Context); err != nil {
			return nil, fmt.Errorf("failed to decode conversation context: %w", err)
		}
	}
	return session, nil
}

// Create persists a new conversation session
func (r *ConversationRepository) Create(q sqlx.Ext, session *models.ConversationSession) error {
	if session.ID == "" {
		session.ID = uuid.NewString()
	}
	contextJSON, err := json.Marshal(session.Context)
	if err != nil {
		return fmt.Errorf("failed to encode conversation context: %w", err)
	}

	_, err = q.Exec(`
		INSERT INTO conversation_sessions (id, user_id, target_language, context_json, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, session.ID, session.UserID, session.TargetLanguage, string(contextJSON), session.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create conversation session: %w", err)
	}
	return nil
}

// GetByID returns a single session with its decoded message history
func (r *ConversationRepository) GetByID(q sqlx.Ext, id string) (*models.ConversationSession, error) {
	var row conversationRow
	err := sqlx.Get(q, &row,
		"SELECT id, user_id, target_language, context_json, created_at FROM conversation_sessions WHERE id = $1",
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get conversation session: %w", err)
	}
	return row.toSession()
}

// GetAllForUser returns every session for a user, newest first
func (r *ConversationRepository) GetAllForUser(q sqlx.Ext, userID string) ([]models.ConversationSession, error) {
	var rows []conversationRow
	err := sqlx.Select(q, &rows,
		"SELECT id, user_id, target_language, context_json, created_at FROM conversation_sessions WHERE user_id = $1 ORDER BY created_at DESC",
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get conversation sessions: %w", err)
	}

	sessions := make([]models.ConversationSession, 0, len(rows))
	for i := range rows {
		session, err := rows[i].toSession()
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, *session)
	}
	return sessions, nil
}

// UpdateContext rewrites the stored message history for a session
func (r *ConversationRepository) UpdateContext(q sqlx.Ext, session *models.ConversationSession) error {
	contextJSON, err := json.Marshal(session.Context)
	if err != nil {
		return fmt.Errorf("failed to encode conversation context: %w", err)
	}

	_, err = q.Exec(
		"UPDATE conversation_sessions SET context_json = $1 WHERE id = $2",
		string(contextJSON), session.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update conversation session: %w", err)
	}
	return nil
}

// CountUserMessages returns the number of user-authored messages across all
// of a user's sessions
func (r *ConversationRepository) CountUserMessages(q sqlx.Ext, userID string) (int, error) {
	sessions, err := r.GetAllForUser(q, userID)
	if err != nil {
		return 0, err
	}
	total := 0
	for i := range sessions {
		total += sessions[i].Context.UserMessageCount()
	}
	return total, nil
}

// DeleteAllForUser removes every session for a user
func (r *ConversationRepository) DeleteAllForUser(q sqlx.Ext, userID string) error {
	_, err := q.Exec("DELETE FROM conversation_sessions WHERE user_id = $1", userID)
	if err != nil {
		return fmt.Errorf("failed to delete conversation sessions: %w", err)
	}
	return nil
}
