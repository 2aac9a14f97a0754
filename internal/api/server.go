package api

import (
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/rs/cors"

	"github.com/example/lingua/internal/achievements"
	"github.com/example/lingua/internal/conversation"
	"github.com/example/lingua/internal/database"
	"github.com/example/lingua/internal/excel"
	"github.com/example/lingua/internal/exercise"
	"github.com/example/lingua/internal/placement"
	"github.com/example/lingua/internal/progress"
	"github.com/example/lingua/internal/spaced_repetition"
)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("cefr", func(fl validator.FieldLevel) bool {
			return progress.ValidLevel(fl.Field().String())
		})
	}
}

// Config collects the services the API exposes
type Config struct {
	SRS          *spaced_repetition.Service
	Vocabulary   *exercise.VocabularyService
	Grammar      *exercise.GrammarService
	Writing      *exercise.WritingService
	Phonetics    *exercise.PhoneticsService
	Conversation *conversation.Service
	Placement    *placement.Service
	Engine       *progress.Engine
	Badges       *achievements.Service
	Importer     *excel.Importer
}

// Server exposes the application over HTTP
type Server struct {
	users        *database.UserRepository
	srs          *spaced_repetition.Service
	vocabulary   *exercise.VocabularyService
	grammar      *exercise.GrammarService
	writing      *exercise.WritingService
	phonetics    *exercise.PhoneticsService
	conversation *conversation.Service
	placement    *placement.Service
	engine       *progress.Engine
	badges       *achievements.Service
	importer     *excel.Importer
}

// NewServer creates the API server
func NewServer(cfg Config) *Server {
	return &Server{
		users:        database.NewUserRepository(),
		srs:          cfg.SRS,
		vocabulary:   cfg.Vocabulary,
		grammar:      cfg.Grammar,
		writing:      cfg.Writing,
		phonetics:    cfg.Phonetics,
		conversation: cfg.Conversation,
		placement:    cfg.Placement,
		engine:       cfg.Engine,
		badges:       cfg.Badges,
		importer:     cfg.Importer,
	}
}

// Handler returns the fully wired HTTP handler, CORS included
func (s *Server) Handler() http.Handler {
	engine := gin.New()
	engine.Use(requestLogger(), gin.Recovery())

	engine.GET("/", s.greeting)

	v1 := engine.Group("/api/v1")
	v1.GET("/health", s.health)
	v1.POST("/users", s.createUser)
	v1.GET("/users/:external_id", s.getUser)

	authed := v1.Group("")
	authed.Use(s.requireUser())
	{
		authed.PUT("/me/language", s.updateLanguage)
		authed.PUT("/me/level", s.updateLevel)

		authed.POST("/srs/words", s.addWord)
		authed.POST("/srs/reviews/:id", s.recordReview)
		authed.GET("/srs/due", s.dueReviews)
		authed.GET("/srs/stats", s.reviewStats)
		authed.POST("/srs/import", s.importWords)

		authed.GET("/vocabulary/next", s.nextFlashcard)
		authed.POST("/vocabulary/answer", s.answerFlashcard)
		authed.GET("/vocabulary/review-stats", s.reviewStats)

		authed.GET("/grammar/question", s.grammarQuestion)
		authed.POST("/grammar/answer", s.answerGrammar)

		authed.GET("/writing/prompt", s.writingPrompt)
		authed.GET("/writing/prompts", s.writingPrompts)
		authed.POST("/writing/feedback", s.writingFeedback)

		authed.GET("/phonetics/phrase", s.phoneticsPhrase)
		authed.POST("/phonetics/evaluate", s.evaluatePronunciation)

		authed.POST("/conversation/start", s.startConversation)
		authed.GET("/conversation/sessions", s.listConversations)
		authed.GET("/conversation/:session_id", s.getConversation)
		authed.POST("/conversation/:session_id/message", s.sendMessage)

		authed.GET("/progress/summary", s.progressSummary)
		authed.POST("/progress/advance", s.advanceLevel)
		authed.GET("/progress/history", s.levelHistory)
		authed.GET("/progress/charts", s.progressCharts)
		authed.GET("/progress/modules/:module", s.moduleDetail)
		authed.POST("/progress/cheat-code", s.applyCheatCode)

		authed.GET("/achievements", s.listAchievements)
		authed.POST("/achievements/mark-viewed", s.markAchievementsViewed)

		authed.POST("/placement/start", s.startPlacement)
		authed.GET("/placement/history", s.placementHistory)
		authed.GET("/placement/:test_id/question", s.placementQuestion)
		authed.POST("/placement/:test_id/answer", s.placementAnswer)
		authed.POST("/placement/:test_id/complete", s.completePlacement)
	}

	return corsMiddleware(engine)
}

// corsMiddleware honors CORS_ORIGINS, a comma-separated origin allowlist.
// Unset allows every origin.
func corsMiddleware(h http.Handler) http.Handler {
	raw := os.Getenv("CORS_ORIGINS")
	if raw == "" {
		return cors.AllowAll().Handler(h)
	}

	origins := strings.Split(raw, ",")
	for i := range origins {
		origins[i] = strings.TrimSpace(origins[i])
	}
	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "X-User-ID"},
	}).Handler(h)
}

func (s *Server) greeting(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Lingua language learning API"})
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}
