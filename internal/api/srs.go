package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/example/lingua/internal/excel"
	"github.com/example/lingua/internal/spaced_repetition"
)

type addWordRequest struct {
	Word            string `json:"word" binding:"required"`
	Definition      string `json:"definition"`
	ExampleSentence string `json:"example_sentence"`
}

// addWord puts a word on the review schedule. Re-adding an existing word
// refreshes it instead of creating a duplicate.
func (s *Server) addWord(c *gin.Context) {
	var req addWordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}

	item, created, err := s.srs.AddWord(currentUser(c), req.Word, req.Definition, req.ExampleSentence)
	if err != nil {
		respondError(c, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, gin.H{"item": item, "created": created})
}

type recordReviewRequest struct {
	Quality *int `json:"quality" binding:"required,min=0,max=5"`
}

func (s *Server) recordReview(c *gin.Context) {
	var req recordReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}

	item, err := s.srs.RecordReview(currentUser(c).ID, c.Param("id"), spaced_repetition.QualityResponse(*req.Quality))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (s *Server) dueReviews(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "limit must be a non-negative integer"})
			return
		}
		limit = parsed
	}

	items, err := s.srs.DueReviews(currentUser(c).ID, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "count": len(items)})
}

func (s *Server) reviewStats(c *gin.Context) {
	stats, err := s.srs.Stats(currentUser(c).ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// importWords ingests an uploaded spreadsheet or CSV of vocabulary
func (s *Server) importWords(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "file is required"})
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		respondError(c, err)
		return
	}
	defer f.Close()

	result, err := s.importer.ImportReader(currentUser(c), f, fileHeader.Filename, excel.DefaultImportConfig())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}
