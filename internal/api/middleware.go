package api

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/example/lingua/internal/database"
	"github.com/example/lingua/pkg/models"
)

const userContextKey = "currentUser"

// requestLogger writes one structured line per request
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		slog.Info("http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
}

// requireUser resolves the X-User-ID header to a stored user and aborts
// the request when the header is missing or unknown
func (s *Server) requireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		externalID := c.GetHeader("X-User-ID")
		if externalID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "X-User-ID header is required"})
			return
		}

		user, err := s.users.GetByExternalID(database.DB, externalID)
		if errors.Is(err, sql.ErrNoRows) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"detail": "User not found"})
			return
		}
		if err != nil {
			slog.Error("failed to resolve request user", "error", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"detail": "Internal server error"})
			return
		}

		c.Set(userContextKey, user)
		c.Next()
	}
}

func currentUser(c *gin.Context) *models.User {
	return c.MustGet(userContextKey).(*models.User)
}
