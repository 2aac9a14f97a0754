package api

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/example/lingua/internal/database"
	"github.com/example/lingua/pkg/models"
)

type createUserRequest struct {
	ExternalID     string `json:"external_id" binding:"required"`
	Username       string `json:"username"`
	TargetLanguage string `json:"target_language" binding:"omitempty,min=2,max=50"`
	Level          string `json:"level" binding:"omitempty,cefr"`
}

// createUser registers a learner. Posting an external ID that already
// exists returns the stored user unchanged, so clients can call this on
// every startup.
func (s *Server) createUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}

	existing, err := s.users.GetByExternalID(database.DB, req.ExternalID)
	if err == nil {
		c.JSON(http.StatusOK, existing)
		return
	}
	if !errors.Is(err, sql.ErrNoRows) {
		respondError(c, err)
		return
	}

	now := time.Now().UTC()
	user := &models.User{
		ID:             uuid.NewString(),
		ExternalID:     req.ExternalID,
		Username:       req.Username,
		TargetLanguage: req.TargetLanguage,
		Level:          req.Level,
		CreatedAt:      now,
	}
	if req.Level != "" {
		user.LevelStartedAt = &now
	}

	if err := s.users.Create(database.DB, user); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

func (s *Server) getUser(c *gin.Context) {
	user, err := s.users.GetByExternalID(database.DB, c.Param("external_id"))
	if errors.Is(err, sql.ErrNoRows) {
		c.JSON(http.StatusNotFound, gin.H{"detail": "User not found"})
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

type updateLanguageRequest struct {
	TargetLanguage string `json:"target_language" binding:"required,min=2,max=50"`
}

func (s *Server) updateLanguage(c *gin.Context) {
	var req updateLanguageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}

	user := currentUser(c)
	if err := s.users.UpdateTargetLanguage(database.DB, user.ID, req.TargetLanguage); err != nil {
		respondError(c, err)
		return
	}

	user.TargetLanguage = req.TargetLanguage
	c.JSON(http.StatusOK, user)
}

type updateLevelRequest struct {
	Level string `json:"level" binding:"required,cefr"`
}

// updateLevel sets the proficiency level directly, restarting progress
// tracking at the chosen level
func (s *Server) updateLevel(c *gin.Context) {
	var req updateLevelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}

	user := currentUser(c)
	now := time.Now().UTC()
	if err := s.users.UpdateLevel(database.DB, user.ID, req.Level, now); err != nil {
		respondError(c, err)
		return
	}

	user.Level = req.Level
	user.LevelStartedAt = &now
	user.CanAdvance = false
	user.AdvancementNotifiedAt = nil
	c.JSON(http.StatusOK, user)
}
