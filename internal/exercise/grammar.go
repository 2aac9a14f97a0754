package exercise

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/example/lingua/internal/ai"
	"github.com/example/lingua/internal/database"
	"github.com/example/lingua/internal/progress"
	"github.com/example/lingua/pkg/models"
)

// GrammarQuestion is one multiple-choice grammar exercise
type GrammarQuestion struct {
	QuestionID         string   `json:"question_id"`
	QuestionText       string   `json:"question_text"`
	Options            []string `json:"options"`
	CorrectOptionIndex int      `json:"correct_option_index"`
	Explanation        string   `json:"explanation"`
}

// Served when the generator is down or returns something unparseable
var fallbackQuestions = []GrammarQuestion{
	{
		QuestionText:       "Choose the correct verb: Nosotros ___ español todos los días.",
		Options:            []string{"hablamos", "habláis", "hablan", "hablo"},
		CorrectOptionIndex: 0,
		Explanation:        "Nosotros takes the first person plural form hablamos.",
	},
	{
		QuestionText:       "Select the right preposition: Voy ___ la escuela en autobús.",
		Options:            []string{"en", "de", "a", "por"},
		CorrectOptionIndex: 2,
		Explanation:        "Movement toward a destination uses a.",
	},
	{
		QuestionText:       "Complete the sentence: Ella ___ cansada después del trabajo.",
		Options:            []string{"es", "está", "hay", "son"},
		CorrectOptionIndex: 1,
		Explanation:        "Temporary states use estar, so está is correct.",
	},
}

// GrammarService generates grammar questions and grades answers
type GrammarService struct {
	engine   *progress.Engine
	activity *database.ActivityRepository
	gen      ai.Generator
	rand     func(n int) int
	now      func() time.Time
}

// NewGrammarService creates a grammar exercise service
func NewGrammarService(gen ai.Generator, engine *progress.Engine) *GrammarService {
	return &GrammarService{
		engine:   engine,
		activity: database.NewActivityRepository(),
		gen:      gen,
		rand:     rand.Intn,
		now:      time.Now,
	}
}

// NextQuestion produces a grammar question for the user's language and
// level, optionally narrowed to a topic
func (g *GrammarService) NextQuestion(ctx context.Context, user *models.User, topic string) (*GrammarQuestion, error) {
	exclusions, err := recentVocabularyWords(g.activity, user.ID)
	if err != nil {
		return nil, err
	}

	question := g.generateQuestion(ctx, user, topic, exclusions)
	question.QuestionID = uuid.NewString()

	if err := logActivity(g.activity, user.ID, models.ModuleGrammar, map[string]any{"question": question.QuestionText}, g.now()); err != nil {
		return nil, err
	}
	return question, nil
}

// SubmitAnswer grades a grammar answer and folds it into the grammar
// accuracy. An explanation carried over from the question wins over the
// generic one.
func (g *GrammarService) SubmitAnswer(user *models.User, selected, correct int, explanation string) (*AnswerResult, error) {
	isCorrect := selected == correct

	if err := g.engine.RecordAnswer(user, models.ModuleGrammar, isCorrect); err != nil {
		return nil, err
	}

	if explanation == "" {
		explanation = answerExplanation(isCorrect, correct)
	}
	return &AnswerResult{
		IsCorrect:          isCorrect,
		CorrectOptionIndex: correct,
		Explanation:        explanation,
	}, nil
}

func (g *GrammarService) generateQuestion(ctx context.Context, user *models.User, topic string, exclusions []string) *GrammarQuestion {
	raw, err := g.gen.Generate(ctx, contentCreatorPrompt, grammarPrompt(user, topic, exclusions))
	if err != nil {
		slog.Warn("grammar generation failed, serving fallback question", "error", err)
		return g.fallback()
	}

	var question GrammarQuestion
	if err := json.Unmarshal([]byte(ai.CleanJSON(raw)), &question); err != nil {
		slog.Warn("grammar generation returned invalid JSON, serving fallback question", "error", err)
		return g.fallback()
	}
	return &question
}

func (g *GrammarService) fallback() *GrammarQuestion {
	question := fallbackQuestions[g.rand(len(fallbackQuestions))]
	return &question
}

func grammarPrompt(user *models.User, topic string, exclusions []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Generate a multiple-choice grammar question for learning %s%s%s.\n", user.TargetLanguage, levelClause(user.Level), topicClause(topic))
	if len(exclusions) > 0 {
		fmt.Fprintf(&b, "\nDo not build the sentence around any of these words: %s.\n", strings.Join(exclusions, ", "))
	}
	b.WriteString(`
Keep the example sentence short, at most 10 words.

Respond ONLY with valid JSON in this exact format:
{
  "question_text": "The question text",
  "options": ["option1", "option2", "option3", "option4"],
  "correct_option_index": 0,
  "explanation": "Brief explanation in English of why the correct answer is correct"
}`)
	return b.String()
}

func topicClause(topic string) string {
	if topic == "" {
		return ""
	}
	return fmt.Sprintf(" about %s", topic)
}
