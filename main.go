package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/example/lingua/internal/achievements"
	"github.com/example/lingua/internal/ai"
	"github.com/example/lingua/internal/api"
	"github.com/example/lingua/internal/conversation"
	"github.com/example/lingua/internal/database"
	"github.com/example/lingua/internal/excel"
	"github.com/example/lingua/internal/exercise"
	"github.com/example/lingua/internal/placement"
	"github.com/example/lingua/internal/progress"
	"github.com/example/lingua/internal/scheduler"
	"github.com/example/lingua/internal/spaced_repetition"
)

func main() {
	_ = godotenv.Load()
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	if err := database.Connect(); err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer database.Close()

	badges := achievements.NewService()
	if err := badges.Seed(); err != nil {
		slog.Error("failed to seed achievements", "error", err)
		os.Exit(1)
	}

	// Without an API key the app still runs, serving canned exercise
	// content instead of generated material
	var gen ai.Generator
	var stt ai.Transcriber
	if client, err := ai.NewOpenAIClient(); err == nil {
		gen, stt = client, client
	} else {
		slog.Warn("AI generation disabled, using canned content", "reason", err)
		static := ai.NewStatic()
		gen, stt = static, static
	}

	engine := progress.NewEngine(badges)
	srs := spaced_repetition.NewService()

	server := api.NewServer(api.Config{
		SRS:          srs,
		Vocabulary:   exercise.NewVocabularyService(gen, srs, engine),
		Grammar:      exercise.NewGrammarService(gen, engine),
		Writing:      exercise.NewWritingService(gen, engine),
		Phonetics:    exercise.NewPhoneticsService(gen, stt, engine),
		Conversation: conversation.NewService(gen, engine),
		Placement:    placement.NewService(),
		Engine:       engine,
		Badges:       badges,
		Importer:     excel.NewImporter(srs),
	})

	var notifier scheduler.Notifier
	if telegram, err := scheduler.NewTelegramNotifier(); err == nil {
		notifier = telegram
	} else {
		slog.Warn("telegram reminders disabled, logging instead", "reason", err)
		notifier = &scheduler.LogNotifier{}
	}
	reminders := scheduler.New(notifier)
	reminders.Start()
	defer reminders.Stop()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	httpServer := &http.Server{
		Addr:    ":" + port,
		Handler: server.Handler(),
	}

	go func() {
		slog.Info("server listening", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server stopped unexpectedly", "error", err)
			os.Exit(1)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	sig := <-sigChan
	slog.Info("shutting down", "signal", sig.String())

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown did not finish cleanly", "error", err)
	}
	slog.Info("server stopped")
}
