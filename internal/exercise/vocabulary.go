package exercise

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/example/lingua/internal/ai"
	"github.com/example/lingua/internal/database"
	"github.com/example/lingua/internal/progress"
	"github.com/example/lingua/internal/spaced_repetition"
	"github.com/example/lingua/pkg/models"
)

const contentCreatorPrompt = "You are a language learning content creator. Always respond with valid JSON only."

// Generic wrong answers for review cards. Reviews skip the generator so
// the queue stays fast and never shows a card it cannot build.
var reviewDistractors = []string{
	"a type of food or drink",
	"a place or location",
	"an action or activity",
}

// Flashcard is one multiple-choice vocabulary card
type Flashcard struct {
	Word               string   `json:"word"`
	Definition         string   `json:"definition"`
	ExampleSentence    string   `json:"example_sentence"`
	Options            []string `json:"options"`
	CorrectOptionIndex int      `json:"correct_option_index"`
	IsReview           bool     `json:"is_review"`
	ReviewID           string   `json:"review_id,omitempty"`
}

// AnswerResult grades one submitted multiple-choice answer
type AnswerResult struct {
	IsCorrect          bool   `json:"is_correct"`
	CorrectOptionIndex int    `json:"correct_option_index"`
	Explanation        string `json:"explanation"`
}

// VocabularyService serves flashcards and grades answers. Cards come from
// the review queue first, then from the generator.
type VocabularyService struct {
	srs      *spaced_repetition.Service
	engine   *progress.Engine
	activity *database.ActivityRepository
	gen      ai.Generator
	rand     func(n int) int
	now      func() time.Time
}

// NewVocabularyService creates a vocabulary exercise service
func NewVocabularyService(gen ai.Generator, srs *spaced_repetition.Service, engine *progress.Engine) *VocabularyService {
	return &VocabularyService{
		srs:      srs,
		engine:   engine,
		activity: database.NewActivityRepository(),
		gen:      gen,
		rand:     rand.Intn,
		now:      time.Now,
	}
}

// NextFlashcard returns the user's next card. A due review item takes
// priority; otherwise a fresh word is generated and queued for review.
func (v *VocabularyService) NextFlashcard(ctx context.Context, user *models.User) (*Flashcard, error) {
	item, err := v.srs.NextDue(user.ID)
	if err != nil {
		return nil, err
	}
	if item != nil {
		return reviewFlashcard(item, v.rand(4)), nil
	}

	exclusions, err := recentVocabularyWords(v.activity, user.ID)
	if err != nil {
		return nil, err
	}

	raw, err := v.gen.Generate(ctx, contentCreatorPrompt, flashcardPrompt(user, exclusions))
	if err != nil {
		return nil, err
	}

	var card Flashcard
	if err := json.Unmarshal([]byte(ai.CleanJSON(raw)), &card); err != nil {
		return nil, fmt.Errorf("flashcard generation returned invalid JSON: %w", err)
	}

	if err := logActivity(v.activity, user.ID, models.ModuleVocabulary, map[string]any{"word": card.Word}, v.now()); err != nil {
		return nil, err
	}

	if card.Word != "" {
		if _, _, err := v.srs.AddWord(user, card.Word, card.Definition, card.ExampleSentence); err != nil {
			return nil, err
		}
	}
	return &card, nil
}

// SubmitAnswer grades a flashcard answer, reschedules the review item when
// one was attached, and folds the result into the vocabulary accuracy.
func (v *VocabularyService) SubmitAnswer(user *models.User, selected, correct int, reviewID string, quality *int) (*AnswerResult, error) {
	isCorrect := selected == correct

	if reviewID != "" && quality != nil {
		if _, err := v.srs.RecordReview(user.ID, reviewID, spaced_repetition.QualityResponse(*quality)); err != nil {
			return nil, err
		}
	}

	if err := v.engine.RecordAnswer(user, models.ModuleVocabulary, isCorrect); err != nil {
		return nil, err
	}

	return &AnswerResult{
		IsCorrect:          isCorrect,
		CorrectOptionIndex: correct,
		Explanation:        answerExplanation(isCorrect, correct),
	}, nil
}

func reviewFlashcard(item *models.ReviewItem, correctIndex int) *Flashcard {
	options := make([]string, 0, 4)
	options = append(options, reviewDistractors[:correctIndex]...)
	options = append(options, item.Definition)
	options = append(options, reviewDistractors[correctIndex:]...)

	return &Flashcard{
		Word:               item.Word,
		Definition:         item.Definition,
		ExampleSentence:    item.ExampleSentence,
		Options:            options,
		CorrectOptionIndex: correctIndex,
		IsReview:           true,
		ReviewID:           item.ID,
	}
}

func flashcardPrompt(user *models.User, exclusions []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Generate a vocabulary flashcard for learning %s%s.\n", user.TargetLanguage, levelClause(user.Level))
	if len(exclusions) > 0 {
		fmt.Fprintf(&b, "\nDo NOT use any of these words: %s.\nPick a different word the student has not seen.\n", strings.Join(exclusions, ", "))
	}
	fmt.Fprintf(&b, `
Keep the example sentence short, at most 12 words.

Respond ONLY with valid JSON in this exact format:
{
  "word": "word in %s",
  "definition": "definition in English",
  "example_sentence": "example sentence using the word in %s",
  "options": ["option1", "option2", "option3", "option4"],
  "correct_option_index": 0
}

The options are 4 English definitions, one correct and three plausible distractors.`, user.TargetLanguage, user.TargetLanguage)
	return b.String()
}

func answerExplanation(isCorrect bool, correct int) string {
	if isCorrect {
		return "Correct!"
	}
	return fmt.Sprintf("The correct answer was option %d.", correct)
}

func levelClause(level string) string {
	if level == "" {
		return ""
	}
	return fmt.Sprintf(" at %s level", level)
}

// recentVocabularyWords lists the last 20 generated words so prompts can
// steer the generator away from repeats
func recentVocabularyWords(activity *database.ActivityRepository, userID string) ([]string, error) {
	entries, err := activity.GetRecentForModule(database.DB, userID, models.ModuleVocabulary, 20)
	if err != nil {
		return nil, err
	}
	words := make([]string, 0, len(entries))
	for _, entry := range entries {
		var detail struct {
			Word string `json:"word"`
		}
		if err := json.Unmarshal([]byte(entry.Detail), &detail); err != nil || detail.Word == "" {
			continue
		}
		words = append(words, detail.Word)
	}
	return words, nil
}

func logActivity(activity *database.ActivityRepository, userID, module string, detail map[string]any, now time.Time) error {
	payload, err := json.Marshal(detail)
	if err != nil {
		return err
	}
	return activity.Create(database.DB, &models.ActivityLog{
		UserID:    userID,
		Module:    module,
		Detail:    string(payload),
		CreatedAt: now,
	})
}
