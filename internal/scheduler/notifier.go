package scheduler

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// LogNotifier writes reminders to the log. It stands in when no delivery
// channel is configured.
type LogNotifier struct{}

// SendReviewReminder implements Notifier
func (LogNotifier) SendReviewReminder(externalID string, dueCount int) error {
	slog.Info("review reminder", "external_id", externalID, "due_count", dueCount)
	return nil
}

// TelegramNotifier pushes reminders over Telegram. Users whose external ID
// is not a numeric chat ID fall back to the log.
type TelegramNotifier struct {
	api *tgbotapi.BotAPI
}

// NewTelegramNotifier connects to Telegram using TELEGRAM_BOT_TOKEN
func NewTelegramNotifier() (*TelegramNotifier, error) {
	token := os.Getenv("TELEGRAM_BOT_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN is not set")
	}
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Telegram: %w", err)
	}
	return &TelegramNotifier{api: api}, nil
}

// SendReviewReminder implements Notifier
func (n *TelegramNotifier) SendReviewReminder(externalID string, dueCount int) error {
	chatID, err := strconv.ParseInt(externalID, 10, 64)
	if err != nil {
		slog.Info("review reminder", "external_id", externalID, "due_count", dueCount)
		return nil
	}

	word := "words"
	if dueCount == 1 {
		word = "word"
	}
	msg := tgbotapi.NewMessage(chatID, fmt.Sprintf("You have %d %s ready for review. Keep your streak going!", dueCount, word))
	if _, err := n.api.Send(msg); err != nil {
		return fmt.Errorf("failed to send Telegram reminder: %w", err)
	}
	return nil
}
