package ai

import (
	"context"
	"errors"
	"io"
	"strings"
)

// ErrTranscriptionUnavailable is returned when speech recognition is
// requested but no speech-to-text backend is configured
var ErrTranscriptionUnavailable = errors.New("speech recognition is not configured")

// Generator produces tutoring content from a pair of prompts. The system
// prompt fixes the assistant's role, the user prompt carries the request.
type Generator interface {
	Generate(ctx context.Context, system, prompt string) (string, error)
}

// Transcriber converts recorded learner speech to text. The filename is
// used to detect the audio container format.
type Transcriber interface {
	Transcribe(ctx context.Context, filename string, audio io.Reader) (string, error)
}

// CleanJSON strips the markdown code fences models sometimes wrap around
// JSON output. Content between the fences is returned unchanged.
func CleanJSON(raw string) string {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	return strings.TrimSpace(cleaned)
}
