package database

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/example/lingua/pkg/models"
)

// PlacementRepository handles database operations for placement tests
type PlacementRepository struct{}

// NewPlacementRepository creates a new repository instance
func NewPlacementRepository() *PlacementRepository {
	return &PlacementRepository{}
}

type placementRow struct {
	ID              string    `db:"id"`
	UserID          string    `db:"user_id"`
	TargetLanguage  string    `db:"target_language"`
	QuestionsData   string    `db:"questions_data"`
	AnswersData     string    `db:"answers_data"`
	VocabularyScore *float64  `db:"vocabulary_score"`
	GrammarScore    *float64  `db:"grammar_score"`
	ReadingScore    *float64  `db:"reading_score"`
	OverallScore    *float64  `db:"overall_score"`
	DeterminedLevel string    `db:"determined_level"`
	Completed       bool      `db:"completed"`
	TestDate        time.Time `db:"test_date"`
}

func (row *placementRow) toTest() (*models.PlacementTest, error) {
	test := &models.PlacementTest{
		ID:              row.ID,
		UserID:          row.UserID,
		TargetLanguage:  row.TargetLanguage,
		VocabularyScore: row.VocabularyScore,
		GrammarScore:    row.GrammarScore,
		ReadingScore:    row.ReadingScore,
		OverallScore:    row.OverallScore,
		DeterminedLevel: row.DeterminedLevel,
		Completed:       row.Completed,
		TestDate:        row.TestDate,
	}
	if row.QuestionsData != "" {
		if err := json.Unmarshal([]byte(row.QuestionsData), &test.Questions); err != nil {
			return nil, fmt.Errorf("failed to decode placement questions: %w", err)
		}
	}
	if row.AnswersData != "" {
		if err := json.Unmarshal([]byte(row.AnswersData), &test.Answers); err != nil {
			return nil, fmt.Errorf("failed to decode placement answers: %w", err)
		}
	}
	if test.Answers == nil {
		test.Answers = make(map[int]int)
	}
	return test, nil
}

// Create persists a new placement test with its question set
func (r *PlacementRepository) Create(q sqlx.Ext, test *models.PlacementTest) error {
	if test.ID == "" {
		test.ID = uuid.NewString()
	}
	questionsJSON, err := json.Marshal(test.Questions)
	if err != nil {
		return fmt.Errorf("failed to encode placement questions: %w", err)
	}
	answersJSON, err := json.Marshal(test.Answers)
	if err != nil {
		return fmt.Errorf("failed to encode placement answers: %w", err)
	}

	_, err = q.Exec(`
		INSERT INTO placement_tests (
			id, user_id, target_language, questions_data, answers_data,
			vocabulary_score, grammar_score, reading_score, overall_score,
			determined_level, completed, test_date
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`,
		test.ID, test.UserID, test.TargetLanguage,
		string(questionsJSON), string(answersJSON),
		test.VocabularyScore, test.GrammarScore, test.ReadingScore, test.OverallScore,
		test.DeterminedLevel, test.Completed, test.TestDate,
	)
	if err != nil {
		return fmt.Errorf("failed to create placement test: %w", err)
	}
	return nil
}

// GetByID returns a single placement test with decoded questions and answers
func (r *PlacementRepository) GetByID(q sqlx.Ext, id string) (*models.PlacementTest, error) {
	var row placementRow
	err := sqlx.Get(q, &row, "SELECT * FROM placement_tests WHERE id = $1", id)
	if err != nil {
		return nil, fmt.Errorf("failed to get placement test: %w", err)
	}
	return row.toTest()
}

// Update rewrites the mutable parts of a placement test
func (r *PlacementRepository) Update(q sqlx.Ext, test *models.PlacementTest) error {
	answersJSON, err := json.Marshal(test.Answers)
	if err != nil {
		return fmt.Errorf("failed to encode placement answers: %w", err)
	}

	_, err = q.Exec(`
		UPDATE placement_tests SET
			answers_data = $1,
			vocabulary_score = $2,
			grammar_score = $3,
			reading_score = $4,
			overall_score = $5,
			determined_level = $6,
			completed = $7
		WHERE id = $8
	`,
		string(answersJSON),
		test.VocabularyScore, test.GrammarScore, test.ReadingScore, test.OverallScore,
		test.DeterminedLevel, test.Completed, test.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update placement test: %w", err)
	}
	return nil
}

// GetForUser returns a user's placement tests, most recent first
func (r *PlacementRepository) GetForUser(q sqlx.Ext, userID string) ([]models.PlacementTest, error) {
	var rows []placementRow
	err := sqlx.Select(q, &rows,
		"SELECT * FROM placement_tests WHERE user_id = $1 ORDER BY test_date DESC",
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get placement tests: %w", err)
	}

	tests := make([]models.PlacementTest, 0, len(rows))
	for i := range rows {
		test, err := rows[i].toTest()
		if err != nil {
			return nil, err
		}
		tests = append(tests, *test)
	}
	return tests, nil
}
