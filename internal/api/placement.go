package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type startPlacementRequest struct {
	TargetLanguage string `json:"target_language" binding:"required,min=2,max=50"`
}

func (s *Server) startPlacement(c *gin.Context) {
	var req startPlacementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}

	result, err := s.placement.Start(currentUser(c), req.TargetLanguage)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) placementQuestion(c *gin.Context) {
	result, err := s.placement.NextQuestion(currentUser(c), c.Param("test_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type placementAnswerRequest struct {
	QuestionNumber int  `json:"question_number" binding:"required,min=1"`
	SelectedOption *int `json:"selected_option" binding:"required,min=0,max=3"`
}

func (s *Server) placementAnswer(c *gin.Context) {
	var req placementAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}

	result, err := s.placement.SubmitAnswer(currentUser(c), c.Param("test_id"), req.QuestionNumber, *req.SelectedOption)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) completePlacement(c *gin.Context) {
	result, err := s.placement.Complete(currentUser(c), c.Param("test_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) placementHistory(c *gin.Context) {
	history, err := s.placement.History(currentUser(c).ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tests": history})
}
