package models

import "time"

// Placement test sections
const (
	SectionVocabulary = "vocabulary"
	SectionGrammar    = "grammar"
	SectionReading    = "reading"
)

// PlacementQuestion is one multiple-choice question in a placement test
type PlacementQuestion struct {
	QuestionNumber  int      `json:"question_number"`
	Section         string   `json:"section"`
	DifficultyLevel string   `json:"difficulty_level"` // CEFR level this question probes
	Passage         string   `json:"passage,omitempty"` // Reading section only
	QuestionText    string   `json:"question_text"`
	Options         []string `json:"options"`
	CorrectAnswer   int      `json:"correct_answer"` // Index into Options, never sent to clients
}

// PlacementTest is a proficiency test used to determine a user's starting level
type PlacementTest struct {
	ID              string              `json:"id" db:"id"`
	UserID          string              `json:"user_id" db:"user_id"`
	TargetLanguage  string              `json:"target_language" db:"target_language"`
	Questions       []PlacementQuestion `json:"-" db:"-"`       // Stored as JSON in questions_data
	Answers         map[int]int         `json:"-" db:"-"`       // Question number -> selected option, stored in answers_data
	VocabularyScore *float64            `json:"vocabulary_score" db:"vocabulary_score"`
	GrammarScore    *float64            `json:"grammar_score" db:"grammar_score"`
	ReadingScore    *float64            `json:"reading_score" db:"reading_score"`
	OverallScore    *float64            `json:"overall_score" db:"overall_score"`
	DeterminedLevel string              `json:"determined_level" db:"determined_level"`
	Completed       bool                `json:"completed" db:"completed"`
	TestDate        time.Time           `json:"test_date" db:"test_date"`
}
