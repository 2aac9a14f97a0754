package ai

import (
	"context"
	"encoding/json"
	"io"
	"strings"
	"sync"
)

// Static serves canned content when no OpenAI key is configured. It keeps
// the exercise loop usable offline and gives tests deterministic output.
// Canned material is Spanish, the default target language.
type Static struct {
	mu    sync.Mutex
	calls map[string]int
}

// NewStatic creates a static content provider
func NewStatic() *Static {
	return &Static{calls: make(map[string]int)}
}

var staticFlashcards = []string{
	`{"word": "la biblioteca", "definition": "the library", "example_sentence": "Estudio en la biblioteca por la tarde.", "options": ["the library", "the kitchen", "the airport", "the morning"], "correct_option_index": 0}`,
	`{"word": "desayunar", "definition": "to have breakfast", "example_sentence": "Me gusta desayunar temprano.", "options": ["to travel abroad", "to have breakfast", "to fall asleep", "to open a door"], "correct_option_index": 1}`,
	`{"word": "la llave", "definition": "the key", "example_sentence": "No encuentro la llave de casa.", "options": ["the window", "the bridge", "the key", "the letter"], "correct_option_index": 2}`,
}

var staticGrammarQuestions = []string{
	`{"question_text": "Choose the correct form: Ayer yo ___ al mercado.", "options": ["voy", "fui", "iré", "vaya"], "correct_option_index": 1, "explanation": "Ayer places the action in the past, so the preterite fui is required."}`,
	`{"question_text": "Pick the right article: ___ problema es difícil.", "options": ["La", "El", "Los", "Las"], "correct_option_index": 1, "explanation": "Problema is masculine despite ending in -a, so it takes el."}`,
	`{"question_text": "Complete the sentence: Si tuviera tiempo, ___ más.", "options": ["leo", "leeré", "leería", "leía"], "correct_option_index": 2, "explanation": "A si clause with the imperfect subjunctive pairs with the conditional leería."}`,
}

var staticPhrases = []string{
	"Hola, ¿cómo estás hoy?",
	"Me gusta aprender idiomas nuevos.",
	"¿Dónde está la estación de tren?",
}

var staticReplies = []string{
	"¡Hola! ¿Cómo estás hoy? Cuéntame algo sobre tu día.",
	"¡Qué interesante! ¿Puedes contarme un poco más?",
	"Muy bien. ¿Qué te gustaría hacer este fin de semana?",
}

const staticCorrections = `{"corrected_message": null, "tips": "Keep practicing! Try adding a little more detail to your sentences."}`

// Generate implements the Generator interface. The request kind is
// recognized from markers in the prompt text.
func (s *Static) Generate(_ context.Context, system, prompt string) (string, error) {
	text := system + "\n" + prompt
	switch {
	case strings.Contains(text, "vocabulary flashcard"):
		return staticFlashcards[s.next("flashcard", len(staticFlashcards))], nil
	case strings.Contains(text, "grammar question"):
		return staticGrammarQuestions[s.next("grammar", len(staticGrammarQuestions))], nil
	case strings.Contains(text, "corrected_text"):
		return staticWritingFeedback(prompt)
	case strings.Contains(text, "pronunciation practice"):
		return staticPhrases[s.next("phrase", len(staticPhrases))], nil
	case strings.Contains(text, "corrected_message"):
		return staticCorrections, nil
	default:
		return staticReplies[s.next("reply", len(staticReplies))], nil
	}
}

// Transcribe implements the Transcriber interface. Speech recognition has
// no offline fallback.
func (s *Static) Transcribe(_ context.Context, _ string, _ io.Reader) (string, error) {
	return "", ErrTranscriptionUnavailable
}

func (s *Static) next(kind string, size int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.calls[kind] % size
	s.calls[kind]++
	return idx
}

// staticWritingFeedback echoes the submitted text back as the correction,
// with a neutral score. The text is recovered from the prompt's
// student_text markers.
func staticWritingFeedback(prompt string) (string, error) {
	text := ""
	if start := strings.Index(prompt, "<student_text>"); start >= 0 {
		rest := prompt[start+len("<student_text>"):]
		if end := strings.Index(rest, "</student_text>"); end >= 0 {
			text = strings.TrimSpace(rest[:end])
		}
	}
	feedback := map[string]any{
		"corrected_text":     text,
		"overall_comment":    "Reviewed in offline mode. Connect an AI provider for detailed corrections.",
		"inline_explanation": "Offline review checks structure only, so no inline corrections are available.",
		"score":              70,
	}
	payload, err := json.Marshal(feedback)
	if err != nil {
		return "", err
	}
	return string(payload), nil
}
