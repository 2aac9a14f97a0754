package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/example/lingua/internal/ai"
	"github.com/example/lingua/internal/conversation"
	"github.com/example/lingua/internal/placement"
	"github.com/example/lingua/internal/progress"
	"github.com/example/lingua/internal/spaced_repetition"
)

// respondError maps service errors onto HTTP statuses. Unknown errors are
// logged and reported as a plain 500 so internals never leak to clients.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, progress.ErrUserNotFound),
		errors.Is(err, spaced_repetition.ErrReviewNotFound),
		errors.Is(err, conversation.ErrSessionNotFound),
		errors.Is(err, placement.ErrTestNotFound),
		errors.Is(err, placement.ErrQuestionNotFound),
		errors.Is(err, placement.ErrNoMoreQuestions):
		c.JSON(http.StatusNotFound, gin.H{"detail": err.Error()})
	case errors.Is(err, placement.ErrAccessDenied):
		c.JSON(http.StatusForbidden, gin.H{"detail": err.Error()})
	case errors.Is(err, spaced_repetition.ErrInvalidQuality),
		errors.Is(err, progress.ErrInvalidModule),
		errors.Is(err, progress.ErrInvalidCheatCode),
		errors.Is(err, progress.ErrMaxLevel),
		errors.Is(err, placement.ErrTestCompleted):
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
	case errors.Is(err, ai.ErrTranscriptionUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"detail": err.Error()})
	default:
		slog.Error("request failed",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"error", err,
		)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Internal server error"})
	}
}

// bindingError reports a request body or query validation failure
func bindingError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
}
