// Package notify pushes a Telegram digest of newly ingested articles to a
// monitoring channel.
package notify

import (
	"context"
	"fmt"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"mediawatch/internal/model"
)

type telegramAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Telegram sends article digests to a single Telegram chat.
type Telegram struct {
	api    telegramAPI
	chatID int64
	log    *slog.Logger
}

// NewTelegram creates a Telegram notifier with the given bot token and
// destination chat.
func NewTelegram(token string, chatID int64, log *slog.Logger) (*Telegram, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}

	return &Telegram{
		api:    api,
		chatID: chatID,
		log:    log,
	}, nil
}

// NotifyNewArticles sends one digest message covering all new articles.
// Delivery failures are logged, not returned; ingestion must not depend on
// Telegram being reachable.
func (t *Telegram) NotifyNewArticles(ctx context.Context, articles []model.Article) {
	if len(articles) == 0 || ctx.Err() != nil {
		return
	}

	msg := tgbotapi.NewMessage(t.chatID, FormatDigest(articles))
	msg.DisableWebPagePreview = true
	if _, err := t.api.Send(msg); err != nil {
		t.log.Error("send digest", "chat_id", t.chatID, "error", err)
		return
	}
	t.log.Info("sent digest", "chat_id", t.chatID, "articles", len(articles))
}
