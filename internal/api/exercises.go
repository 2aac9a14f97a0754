package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) nextFlashcard(c *gin.Context) {
	card, err := s.vocabulary.NextFlashcard(c.Request.Context(), currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, card)
}

type vocabularyAnswerRequest struct {
	SelectedIndex *int   `json:"selected_index" binding:"required,min=0,max=3"`
	CorrectIndex  *int   `json:"correct_index" binding:"required,min=0,max=3"`
	ReviewID      string `json:"review_id"`
	Quality       *int   `json:"quality" binding:"omitempty,min=0,max=5"`
}

// answerFlashcard grades a vocabulary answer. When the card came from the
// review queue and the client sends no explicit quality, a correct answer
// counts as quality 5 and a wrong one as quality 2.
func (s *Server) answerFlashcard(c *gin.Context) {
	var req vocabularyAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}

	quality := req.Quality
	if req.ReviewID != "" && quality == nil {
		derived := 2
		if *req.SelectedIndex == *req.CorrectIndex {
			derived = 5
		}
		quality = &derived
	}

	result, err := s.vocabulary.SubmitAnswer(currentUser(c), *req.SelectedIndex, *req.CorrectIndex, req.ReviewID, quality)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) grammarQuestion(c *gin.Context) {
	question, err := s.grammar.NextQuestion(c.Request.Context(), currentUser(c), c.Query("topic"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, question)
}

type grammarAnswerRequest struct {
	SelectedIndex *int   `json:"selected_index" binding:"required,min=0,max=3"`
	CorrectIndex  *int   `json:"correct_index" binding:"required,min=0,max=3"`
	Explanation   string `json:"explanation"`
}

func (s *Server) answerGrammar(c *gin.Context) {
	var req grammarAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}

	result, err := s.grammar.SubmitAnswer(currentUser(c), *req.SelectedIndex, *req.CorrectIndex, req.Explanation)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// promptLevel picks the level for writing prompts, preferring an explicit
// query parameter over the learner's current level
func promptLevel(c *gin.Context) string {
	if level := c.Query("level"); level != "" {
		return level
	}
	return currentUser(c).Level
}

func (s *Server) writingPrompt(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"prompt": s.writing.Prompt(promptLevel(c))})
}

func (s *Server) writingPrompts(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"prompts": s.writing.Prompts(promptLevel(c))})
}

type writingFeedbackRequest struct {
	Text string `json:"text" binding:"required"`
}

func (s *Server) writingFeedback(c *gin.Context) {
	var req writingFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}

	feedback, err := s.writing.Feedback(c.Request.Context(), currentUser(c), req.Text)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, feedback)
}

func (s *Server) phoneticsPhrase(c *gin.Context) {
	phrase, err := s.phonetics.Phrase(c.Request.Context(), currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, phrase)
}

// evaluatePronunciation accepts a recorded phrase as multipart form data
// and scores it against the target phrase
func (s *Server) evaluatePronunciation(c *gin.Context) {
	target := c.PostForm("target_phrase")
	if target == "" {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "target_phrase is required"})
		return
	}

	fileHeader, err := c.FormFile("audio")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "audio file is required"})
		return
	}

	audio, err := fileHeader.Open()
	if err != nil {
		respondError(c, err)
		return
	}
	defer audio.Close()

	result, err := s.phonetics.Evaluate(c.Request.Context(), currentUser(c), target, fileHeader.Filename, audio)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
