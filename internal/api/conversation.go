package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
)

type startConversationRequest struct {
	Topic string `json:"topic"`
}

// startConversation opens a new practice dialogue. The learner must have a
// target language and a level before conversing, so the tutor knows what to
// speak and how simply.
func (s *Server) startConversation(c *gin.Context) {
	var req startConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		bindingError(c, err)
		return
	}

	user := currentUser(c)
	if user.TargetLanguage == "" {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Please set your target language first"})
		return
	}
	if user.Level == "" {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Please set your proficiency level or take the placement test"})
		return
	}

	result, err := s.conversation.Start(c.Request.Context(), user, req.Topic)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type conversationMessageRequest struct {
	Message string `json:"message" binding:"required"`
}

func (s *Server) sendMessage(c *gin.Context) {
	var req conversationMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}

	result, err := s.conversation.Message(c.Request.Context(), currentUser(c), c.Param("session_id"), req.Message)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) listConversations(c *gin.Context) {
	sessions, err := s.conversation.Sessions(currentUser(c).ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessions": sessions, "count": len(sessions)})
}

func (s *Server) getConversation(c *gin.Context) {
	session, err := s.conversation.Session(currentUser(c).ID, c.Param("session_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}
