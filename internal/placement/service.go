package placement

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/example/lingua/internal/database"
	"github.com/example/lingua/internal/progress"
	"github.com/example/lingua/pkg/models"
)

var (
	// ErrTestNotFound is returned when the referenced test doesn't exist
	ErrTestNotFound = errors.New("placement test not found")
	// ErrAccessDenied is returned when the test belongs to another user
	ErrAccessDenied = errors.New("placement test belongs to another user")
	// ErrTestCompleted rejects answers and rescoring on a finished test
	ErrTestCompleted = errors.New("placement test is already completed")
	// ErrQuestionNotFound is returned for question numbers outside the test
	ErrQuestionNotFound = errors.New("placement question not found")
	// ErrNoMoreQuestions signals that every question has been answered
	ErrNoMoreQuestions = errors.New("no more questions available")
)

// Section weights for the overall score. Reading counts slightly less
// because a single passage question per level is a noisier signal.
const (
	vocabularyWeight = 0.35
	grammarWeight    = 0.35
	readingWeight    = 0.30
)

// StartResult summarizes a freshly created test
type StartResult struct {
	TestID         string `json:"test_id"`
	TargetLanguage string `json:"target_language"`
	TotalQuestions int    `json:"total_questions"`
	Message        string `json:"message"`
}

// ServedQuestion is a question as presented to the learner. The answer key
// stays server-side.
type ServedQuestion struct {
	QuestionNumber  int      `json:"question_number"`
	Section         string   `json:"section"`
	DifficultyLevel string   `json:"difficulty_level"`
	Passage         string   `json:"passage,omitempty"`
	QuestionText    string   `json:"question_text"`
	Options         []string `json:"options"`
}

// QuestionResult carries the next unanswered question and progress markers
type QuestionResult struct {
	TestID                string         `json:"test_id"`
	Question              ServedQuestion `json:"question"`
	CurrentQuestionNumber int            `json:"current_question_number"`
	TotalQuestions        int            `json:"total_questions"`
	HasNext               bool           `json:"has_next"`
}

// AnswerResult acknowledges a stored answer
type AnswerResult struct {
	Message               string `json:"message"`
	CurrentQuestionNumber int    `json:"current_question_number"`
	TotalQuestions        int    `json:"total_questions"`
	HasNext               bool   `json:"has_next"`
}

// SectionScore breaks down performance in one test section. TotalQuestions
// counts answered questions only; skipped ones don't dilute the percentage.
type SectionScore struct {
	Section         string  `json:"section"`
	ScorePercentage float64 `json:"score_percentage"`
	CorrectAnswers  int     `json:"correct_answers"`
	TotalQuestions  int     `json:"total_questions"`
}

// Result is the scored outcome of a completed test
type Result struct {
	TestID          string         `json:"test_id"`
	OverallScore    float64        `json:"overall_score"`
	DeterminedLevel string         `json:"determined_level"`
	SectionScores   []SectionScore `json:"section_scores"`
	Recommendations []string       `json:"recommendations"`
	CompletedAt     time.Time      `json:"completed_at"`
}

// HistoryItem summarizes one past test
type HistoryItem struct {
	TestID          string    `json:"test_id"`
	TargetLanguage  string    `json:"target_language"`
	TestDate        time.Time `json:"test_date"`
	Completed       bool      `json:"completed"`
	DeterminedLevel *string   `json:"determined_level"`
	OverallScore    *float64  `json:"overall_score"`
}

// Service runs placement tests: a fixed ladder of 18 questions, one per CEFR
// level in each of three sections, scored to pick the learner's starting level
type Service struct {
	tests *database.PlacementRepository
	users *database.UserRepository
	now   func() time.Time
}

// NewService creates a placement test service
func NewService() *Service {
	return &Service{
		tests: database.NewPlacementRepository(),
		users: database.NewUserRepository(),
		now:   time.Now,
	}
}

// Start creates a test with its full question set drawn from the curated bank
func (s *Service) Start(user *models.User, targetLanguage string) (*StartResult, error) {
	questions := make([]models.PlacementQuestion, 0, len(sectionOrder)*len(progress.LevelOrder))
	for _, section := range sectionOrder {
		for _, level := range progress.LevelOrder {
			q := predefinedQuestion(targetLanguage, section, level)
			questions = append(questions, models.PlacementQuestion{
				QuestionNumber:  len(questions) + 1,
				Section:         section,
				DifficultyLevel: level,
				Passage:         q.Passage,
				QuestionText:    q.QuestionText,
				Options:         q.Options,
				CorrectAnswer:   q.CorrectAnswer,
			})
		}
	}

	test := &models.PlacementTest{
		UserID:         user.ID,
		TargetLanguage: targetLanguage,
		Questions:      questions,
		Answers:        make(map[int]int),
		TestDate:       s.now(),
	}
	if err := s.tests.Create(database.DB, test); err != nil {
		return nil, err
	}

	return &StartResult{
		TestID:         test.ID,
		TargetLanguage: test.TargetLanguage,
		TotalQuestions: len(questions),
		Message:        fmt.Sprintf("Placement test created with %d questions. Good luck!", len(questions)),
	}, nil
}

// NextQuestion returns the first unanswered question in number order
func (s *Service) NextQuestion(user *models.User, testID string) (*QuestionResult, error) {
	test, err := s.load(user, testID)
	if err != nil {
		return nil, err
	}

	for _, q := range test.Questions {
		if _, answered := test.Answers[q.QuestionNumber]; answered {
			continue
		}
		return &QuestionResult{
			TestID:                test.ID,
			Question:              serveQuestion(q),
			CurrentQuestionNumber: q.QuestionNumber,
			TotalQuestions:        len(test.Questions),
			HasNext:               q.QuestionNumber < len(test.Questions),
		}, nil
	}
	return nil, ErrNoMoreQuestions
}

// SubmitAnswer records the selected option for a question. Resubmitting a
// question overwrites the earlier answer.
func (s *Service) SubmitAnswer(user *models.User, testID string, questionNumber, selectedOption int) (*AnswerResult, error) {
	test, err := s.load(user, testID)
	if err != nil {
		return nil, err
	}
	if test.Completed {
		return nil, ErrTestCompleted
	}
	if questionNumber < 1 || questionNumber > len(test.Questions) {
		return nil, ErrQuestionNotFound
	}

	test.Answers[questionNumber] = selectedOption
	if err := s.tests.Update(database.DB, test); err != nil {
		return nil, err
	}

	return &AnswerResult{
		Message:               "Answer submitted successfully",
		CurrentQuestionNumber: questionNumber,
		TotalQuestions:        len(test.Questions),
		HasNext:               questionNumber < len(test.Questions),
	}, nil
}

// Complete scores the test, stores the breakdown, and moves the user onto the
// determined level. Unanswered questions are left out of the section
// percentages rather than counted as wrong.
func (s *Service) Complete(user *models.User, testID string) (*Result, error) {
	test, err := s.load(user, testID)
	if err != nil {
		return nil, err
	}
	if test.Completed {
		return nil, ErrTestCompleted
	}

	correct := make(map[string]int)
	answered := make(map[string]int)
	for _, q := range test.Questions {
		selected, ok := test.Answers[q.QuestionNumber]
		if !ok {
			continue
		}
		answered[q.Section]++
		if selected == q.CorrectAnswer {
			correct[q.Section]++
		}
	}

	scores := make(map[string]float64, len(sectionOrder))
	for _, section := range sectionOrder {
		if answered[section] > 0 {
			scores[section] = float64(correct[section]) / float64(answered[section]) * 100
		}
	}

	overall := scores[models.SectionVocabulary]*vocabularyWeight +
		scores[models.SectionGrammar]*grammarWeight +
		scores[models.SectionReading]*readingWeight
	level := levelForScore(overall)

	vocabScore := scores[models.SectionVocabulary]
	grammarScore := scores[models.SectionGrammar]
	readingScore := scores[models.SectionReading]
	test.VocabularyScore = &vocabScore
	test.GrammarScore = &grammarScore
	test.ReadingScore = &readingScore
	test.OverallScore = &overall
	test.DeterminedLevel = level
	test.Completed = true

	err = database.Transact(func(tx *sqlx.Tx) error {
		if err := s.tests.Update(tx, test); err != nil {
			return err
		}
		return s.users.SetPlacementResult(tx, user.ID, level, overall, s.now())
	})
	if err != nil {
		return nil, err
	}

	sectionScores := make([]SectionScore, 0, len(sectionOrder))
	for _, section := range sectionOrder {
		sectionScores = append(sectionScores, SectionScore{
			Section:         section,
			ScorePercentage: scores[section],
			CorrectAnswers:  correct[section],
			TotalQuestions:  answered[section],
		})
	}

	return &Result{
		TestID:          test.ID,
		OverallScore:    overall,
		DeterminedLevel: level,
		SectionScores:   sectionScores,
		Recommendations: recommendations(level, vocabScore, grammarScore, readingScore),
		CompletedAt:     test.TestDate,
	}, nil
}

// History lists the user's placement tests, most recent first
func (s *Service) History(userID string) ([]HistoryItem, error) {
	tests, err := s.tests.GetForUser(database.DB, userID)
	if err != nil {
		return nil, err
	}

	items := make([]HistoryItem, 0, len(tests))
	for i := range tests {
		test := &tests[i]
		item := HistoryItem{
			TestID:         test.ID,
			TargetLanguage: test.TargetLanguage,
			TestDate:       test.TestDate,
			Completed:      test.Completed,
			OverallScore:   test.OverallScore,
		}
		if test.DeterminedLevel != "" {
			level := test.DeterminedLevel
			item.DeterminedLevel = &level
		}
		items = append(items, item)
	}
	return items, nil
}

func (s *Service) load(user *models.User, testID string) (*models.PlacementTest, error) {
	test, err := s.tests.GetByID(database.DB, testID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTestNotFound
	}
	if err != nil {
		return nil, err
	}
	if test.UserID != user.ID {
		return nil, ErrAccessDenied
	}
	return test, nil
}

func serveQuestion(q models.PlacementQuestion) ServedQuestion {
	return ServedQuestion{
		QuestionNumber:  q.QuestionNumber,
		Section:         q.Section,
		DifficultyLevel: q.DifficultyLevel,
		Passage:         q.Passage,
		QuestionText:    q.QuestionText,
		Options:         q.Options,
	}
}

// levelForScore maps the weighted overall percentage onto a CEFR level
func levelForScore(score float64) string {
	switch {
	case score >= 90:
		return "C2"
	case score >= 80:
		return "C1"
	case score >= 65:
		return "B2"
	case score >= 45:
		return "B1"
	case score >= 30:
		return "A2"
	default:
		return "A1"
	}
}

// recommendations builds study advice from the section breakdown. Ties go to
// the section listed first.
func recommendations(level string, vocabScore, grammarScore, readingScore float64) []string {
	recs := []string{
		fmt.Sprintf("Your proficiency level is %s. Great job on completing the placement test!", level),
	}

	areas := []struct {
		name  string
		score float64
	}{
		{"vocabulary", vocabScore},
		{"grammar", grammarScore},
		{"reading comprehension", readingScore},
	}
	weakest, strongest := areas[0], areas[0]
	for _, area := range areas[1:] {
		if area.score < weakest.score {
			weakest = area
		}
		if area.score > strongest.score {
			strongest = area
		}
	}

	if weakest.score < 50 {
		recs = append(recs, fmt.Sprintf("Focus on improving your %s skills - this is your weakest area.", weakest.name))
	}
	if strongest.score > 80 {
		recs = append(recs, fmt.Sprintf("Excellent performance in %s! Keep up the good work.", strongest.name))
	}

	switch level {
	case "A1", "A2":
		recs = append(recs, "Start with basic vocabulary and simple grammar patterns.")
	case "B1", "B2":
		recs = append(recs, "Focus on expanding vocabulary and mastering complex grammar structures.")
	default:
		recs = append(recs, "Challenge yourself with advanced materials and native content.")
	}

	return recs
}
