package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/example/lingua/internal/progress"
)

func (s *Server) progressSummary(c *gin.Context) {
	summary, err := s.engine.Summary(currentUser(c).ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// advanceLevel promotes an eligible learner to the next level. When the
// learner is not eligible, the response explains exactly what is missing.
func (s *Server) advanceLevel(c *gin.Context) {
	user := currentUser(c)
	result, err := s.engine.Advance(user.ID)
	if errors.Is(err, progress.ErrNotEligible) {
		eligibility, eligErr := s.engine.Eligibility(user.ID)
		if eligErr != nil {
			respondError(c, eligErr)
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Not eligible to advance", "eligibility": eligibility})
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) levelHistory(c *gin.Context) {
	history, err := s.engine.History(currentUser(c).ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"history": history})
}

func (s *Server) progressCharts(c *gin.Context) {
	charts, err := s.engine.Charts(currentUser(c).ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, charts)
}

func (s *Server) moduleDetail(c *gin.Context) {
	detail, err := s.engine.ModuleDetail(currentUser(c).ID, c.Param("module"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

type cheatCodeRequest struct {
	Code string `json:"code" binding:"required"`
}

func (s *Server) applyCheatCode(c *gin.Context) {
	var req cheatCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}

	result, err := s.engine.ApplyCheatCode(currentUser(c), req.Code)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) listAchievements(c *gin.Context) {
	list, err := s.badges.List(currentUser(c).ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (s *Server) markAchievementsViewed(c *gin.Context) {
	if err := s.badges.MarkViewed(currentUser(c).ID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Achievements marked as viewed"})
}
