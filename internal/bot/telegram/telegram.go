// Package telegram connects the command router to the Telegram Bot API
// using long polling.
package telegram

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/vbonduro/lensbot/internal/bot"
)

const pollTimeout = 60 // seconds

// Bot polls Telegram for messages and hands each one to the router on its
// own goroutine.
type Bot struct {
	api          *tgbotapi.BotAPI
	router       *bot.Router
	httpClient   *http.Client
	fileEndpoint string
	logger       *slog.Logger
}

// New authenticates with Telegram using token.
func New(token string, router *bot.Router, logger *slog.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to telegram: %w", err)
	}
	return newBot(api, router, logger), nil
}

func newBot(api *tgbotapi.BotAPI, router *bot.Router, logger *slog.Logger) *Bot {
	return &Bot{
		api:          api,
		router:       router,
		httpClient:   &http.Client{Timeout: 60 * time.Second},
		fileEndpoint: tgbotapi.FileEndpoint,
		logger:       logger,
	}
}

// Run drops pending updates and polls until ctx is cancelled, then waits
// for in-flight handlers to finish.
func (b *Bot) Run(ctx context.Context) error {
	if _, err := b.api.Request(tgbotapi.DeleteWebhookConfig{DropPendingUpdates: true}); err != nil {
		return fmt.Errorf("failed to drop pending updates: %w", err)
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = pollTimeout
	u.AllowedUpdates = []string{"message"}
	updates := b.api.GetUpdatesChan(u)

	b.logger.Info("bot is running", "username", b.api.Self.UserName)

	var wg sync.WaitGroup
	defer wg.Wait()

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			b.logger.Info("bot stopped polling")
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil {
				continue
			}
			wg.Add(1)
			go func(m *tgbotapi.Message) {
				defer wg.Done()
				b.handle(ctx, m)
			}(update.Message)
		}
	}
}

func (b *Bot) handle(ctx context.Context, m *tgbotapi.Message) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("panic while handling message", "chat_id", m.Chat.ID, "panic", r)
		}
	}()
	b.router.Handle(ctx, b.toMessage(m), &responder{api: b.api, chatID: m.Chat.ID, messageID: m.MessageID})
}

func (b *Bot) toMessage(m *tgbotapi.Message) bot.Message {
	msg := bot.Message{
		ChatID:    m.Chat.ID,
		MessageID: m.MessageID,
		Text:      m.Text,
	}
	if m.From != nil {
		msg.UserID = m.From.ID
	}
	if len(m.Photo) > 0 {
		// Telegram lists sizes smallest first.
		msg.Photo = &photo{bot: b, fileID: m.Photo[len(m.Photo)-1].FileID}
	}
	return msg
}

type photo struct {
	bot    *Bot
	fileID string
}

func (p *photo) Fetch(ctx context.Context) (io.ReadCloser, error) {
	file, err := p.bot.api.GetFile(tgbotapi.FileConfig{FileID: p.fileID})
	if err != nil {
		return nil, fmt.Errorf("failed to get file info: %w", err)
	}

	url := fmt.Sprintf(p.bot.fileEndpoint, p.bot.api.Token, file.FilePath)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := p.bot.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download file: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("file download returned status %d", resp.StatusCode)
	}
	return resp.Body, nil
}

type responder struct {
	api       *tgbotapi.BotAPI
	chatID    int64
	messageID int
}

func (r *responder) Reply(_ context.Context, text string) error {
	msg := tgbotapi.NewMessage(r.chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyToMessageID = r.messageID
	return r.send(msg)
}

func (r *responder) Send(_ context.Context, text string) error {
	msg := tgbotapi.NewMessage(r.chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	return r.send(msg)
}

func (r *responder) SendPhoto(_ context.Context, path, caption string) error {
	msg := tgbotapi.NewPhoto(r.chatID, tgbotapi.FilePath(path))
	msg.Caption = caption
	msg.ParseMode = tgbotapi.ModeHTML
	return r.send(msg)
}

func (r *responder) send(c tgbotapi.Chattable) error {
	if _, err := r.api.Send(c); err != nil {
		return fmt.Errorf("failed to send telegram message: %w", err)
	}
	return nil
}

var _ bot.Responder = (*responder)(nil)
