package models

import "time"

// LevelHistory is an immutable snapshot archived when a user completes a level
type LevelHistory struct {
	ID                   string    `json:"id" db:"id"`
	UserID               string    `json:"user_id" db:"user_id"`
	Level                string    `json:"level" db:"level"` // The level that was completed
	VocabularyScore      *float64  `json:"vocabulary_score" db:"vocabulary_score"`
	GrammarScore         *float64  `json:"grammar_score" db:"grammar_score"`
	WritingScore         *float64  `json:"writing_score" db:"writing_score"`
	PhoneticsScore       *float64  `json:"phonetics_score" db:"phonetics_score"`
	VocabularyAttempts   int       `json:"vocabulary_attempts" db:"vocabulary_attempts"`
	GrammarAttempts      int       `json:"grammar_attempts" db:"grammar_attempts"`
	WritingAttempts      int       `json:"writing_attempts" db:"writing_attempts"`
	PhoneticsAttempts    int       `json:"phonetics_attempts" db:"phonetics_attempts"`
	ConversationMessages int       `json:"conversation_messages" db:"conversation_messages"`
	StartedAt            time.Time `json:"started_at" db:"started_at"`
	CompletedAt          time.Time `json:"completed_at" db:"completed_at"`
	DaysAtLevel          int       `json:"days_at_level" db:"days_at_level"`
	WeightedScore        float64   `json:"weighted_score" db:"weighted_score"`
}

// ScoresByModule returns the archived module scores keyed by module name
func (h *LevelHistory) ScoresByModule() map[string]*float64 {
	return map[string]*float64{
		ModuleVocabulary: h.VocabularyScore,
		ModuleGrammar:    h.GrammarScore,
		ModuleWriting:    h.WritingScore,
		ModulePhonetics:  h.PhoneticsScore,
	}
}
