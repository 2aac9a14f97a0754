package exercise

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"

	"github.com/example/lingua/internal/ai"
	"github.com/example/lingua/internal/database"
	"github.com/example/lingua/internal/progress"
	"github.com/example/lingua/pkg/models"
)

const fallbackPhrase = "Hola, ¿cómo estás hoy?"

// PracticePhrase is one sentence the user should read aloud
type PracticePhrase struct {
	SessionID    string `json:"session_id"`
	TargetPhrase string `json:"target_phrase"`
}

// WordFeedback flags one target word missing from the recording
type WordFeedback struct {
	Word  string `json:"word"`
	Issue string `json:"issue"`
	Tip   string `json:"tip"`
}

// PronunciationResult scores one recorded attempt at a target phrase
type PronunciationResult struct {
	Transcript        string         `json:"transcript"`
	Score             float64        `json:"score"`
	Feedback          string         `json:"feedback"`
	WordLevelFeedback []WordFeedback `json:"word_level_feedback"`
}

// PhoneticsService generates practice phrases and scores recordings
// against them
type PhoneticsService struct {
	engine   *progress.Engine
	activity *database.ActivityRepository
	gen      ai.Generator
	stt      ai.Transcriber
	now      func() time.Time
}

// NewPhoneticsService creates a pronunciation practice service
func NewPhoneticsService(gen ai.Generator, stt ai.Transcriber, engine *progress.Engine) *PhoneticsService {
	return &PhoneticsService{
		engine:   engine,
		activity: database.NewActivityRepository(),
		gen:      gen,
		stt:      stt,
		now:      time.Now,
	}
}

// Phrase produces a short sentence to read aloud. Generation failures fall
// back to a fixed phrase so practice never blocks.
func (p *PhoneticsService) Phrase(ctx context.Context, user *models.User) (*PracticePhrase, error) {
	prompt := fmt.Sprintf(`Generate a single, simple, natural sentence for pronunciation practice in %s%s.

Rules:
1. Length: 5-10 words.
2. No complex punctuation.
3. Respond ONLY with the sentence text. No quotes, no translations.`, user.TargetLanguage, studentClause(user.Level))

	phrase := fallbackPhrase
	raw, err := p.gen.Generate(ctx, "You are a language teacher.", prompt)
	if err != nil {
		slog.Warn("phrase generation failed, using fallback", "error", err)
	} else if cleaned := strings.TrimSpace(strings.ReplaceAll(raw, `"`, "")); cleaned != "" {
		phrase = cleaned
	}

	return &PracticePhrase{
		SessionID:    uuid.NewString(),
		TargetPhrase: phrase,
	}, nil
}

// Evaluate transcribes a recording and scores it by how many target words
// made it into the transcript. The score feeds the phonetics average.
func (p *PhoneticsService) Evaluate(ctx context.Context, user *models.User, targetPhrase, filename string, audio io.Reader) (*PronunciationResult, error) {
	transcript, err := p.stt.Transcribe(ctx, filename, audio)
	if err != nil {
		return nil, err
	}

	score, missing := phraseSimilarity(targetPhrase, transcript)

	wordFeedback := make([]WordFeedback, 0, len(missing))
	for _, word := range missing {
		wordFeedback = append(wordFeedback, WordFeedback{
			Word:  word,
			Issue: "not recognized in your recording",
			Tip:   "Say it slowly and clearly on its own, then repeat the full phrase.",
		})
	}

	if err := p.engine.RecordScore(user, models.ModulePhonetics, score); err != nil {
		return nil, err
	}
	if err := logActivity(p.activity, user.ID, models.ModulePhonetics, map[string]any{"target": targetPhrase, "score": score}, p.now()); err != nil {
		return nil, err
	}

	return &PronunciationResult{
		Transcript:        transcript,
		Score:             score,
		Feedback:          pronunciationFeedback(score),
		WordLevelFeedback: wordFeedback,
	}, nil
}

// phraseSimilarity scores how much of the target phrase appears in the
// transcript, 0 to 100, and lists the target words that did not. Matching
// folds case and punctuation but keeps accents.
func phraseSimilarity(target, transcript string) (float64, []string) {
	targetWords := foldWords(target)
	if len(targetWords) == 0 {
		return 0, nil
	}

	spoken := make(map[string]bool)
	for _, word := range foldWords(transcript) {
		spoken[word] = true
	}

	matched := 0
	var missing []string
	for _, word := range targetWords {
		if spoken[word] {
			matched++
		} else {
			missing = append(missing, word)
		}
	}
	return float64(matched) * 100.0 / float64(len(targetWords)), missing
}

func foldWords(text string) []string {
	var b strings.Builder
	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsNumber(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}
	return strings.Fields(b.String())
}

func pronunciationFeedback(score float64) string {
	switch {
	case score >= 90:
		return "Excellent pronunciation! Your speech matched the target phrase almost perfectly."
	case score >= 70:
		return "Good work. Most of the phrase came through clearly."
	case score >= 40:
		return "Getting there. Several words were hard to recognize, so keep practicing."
	default:
		return "The recording did not match the target phrase well. Try again, speaking slowly."
	}
}

func studentClause(level string) string {
	if level == "" {
		return ""
	}
	return fmt.Sprintf(" for a %s level student", level)
}
