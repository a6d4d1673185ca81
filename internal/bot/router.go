// Package bot implements the chat command set independently of the
// messaging transport.
package bot

import (
	"context"
	"errors"
	"fmt"
	"html"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/vbonduro/lensbot/internal/domain"
	"github.com/vbonduro/lensbot/internal/photostore"
	"github.com/vbonduro/lensbot/internal/service"
)

// Message is an inbound chat message, already stripped of transport details.
type Message struct {
	ChatID    int64
	MessageID int
	UserID    int64
	Text      string
	// Photo is non-nil when the message carries an image.
	Photo PhotoSource
}

// PhotoSource downloads the largest available rendition of an attached image.
type PhotoSource interface {
	Fetch(ctx context.Context) (io.ReadCloser, error)
}

// Responder sends replies back to the chat a Message came from. Text is
// HTML formatted.
type Responder interface {
	Reply(ctx context.Context, text string) error
	Send(ctx context.Context, text string) error
	SendPhoto(ctx context.Context, path, caption string) error
}

// Handler runs one command. args is the text after the command word.
type Handler func(ctx context.Context, msg Message, args string, out Responder) error

type pipeline interface {
	Uploads() photostore.PhotoStore
	Process(ctx context.Context, inputPath string) (string, string, error)
	SynthesizeAll(ctx context.Context) (string, error)
	ClearAll(ctx context.Context) (service.ClearResult, error)
}

type weatherNarrator interface {
	Narrate(ctx context.Context, place string) (string, error)
}

const maxCaptionRunes = 1024

type Router struct {
	pipeline pipeline
	weather  weatherNarrator
	commands map[string]Handler
	logger   *slog.Logger
	now      func() time.Time
}

func NewRouter(p pipeline, w weatherNarrator, logger *slog.Logger) *Router {
	r := &Router{
		pipeline: p,
		weather:  w,
		logger:   logger,
		now:      time.Now,
	}
	r.commands = map[string]Handler{
		"start":   r.handleStart,
		"help":    r.handleHelp,
		"summary": r.handleSummary,
		"sum":     r.handleSummary,
		"clear":   r.handleClear,
		"cls":     r.handleClear,
		"weather": r.handleWeather,
	}
	return r
}

// Commands lists the registered command names, aliases included.
func (r *Router) Commands() []string {
	names := make([]string, 0, len(r.commands))
	for name := range r.commands {
		names = append(names, name)
	}
	return names
}

// Handle dispatches msg: photos go to the image pipeline, known commands to
// their handler and anything else gets the usage reminder.
func (r *Router) Handle(ctx context.Context, msg Message, out Responder) {
	if msg.Photo != nil {
		r.handlePhoto(ctx, msg, out)
		return
	}

	name, args, ok := parseCommand(msg.Text)
	handler, known := r.commands[name]
	if !ok || !known {
		r.logger.Info("free text received", "user_id", msg.UserID, "text", msg.Text)
		r.send(ctx, out, freeTextReply)
		return
	}

	r.logger.Info("command received", "command", name, "user_id", msg.UserID, "chat_id", msg.ChatID)
	if err := handler(ctx, msg, args, out); err != nil {
		r.logger.Error("command failed", "command", name, "error", err)
		r.reply(ctx, out, fmt.Sprintf(errorFormat, html.EscapeString(describe(err))))
	}
}

// parseCommand splits "/name@bot args" into its command name and arguments.
func parseCommand(text string) (name, args string, ok bool) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return "", "", false
	}
	word, rest, _ := strings.Cut(text[1:], " ")
	word, _, _ = strings.Cut(word, "@")
	if word == "" {
		return "", "", false
	}
	return strings.ToLower(word), strings.TrimSpace(rest), true
}

func (r *Router) handleStart(ctx context.Context, _ Message, _ string, out Responder) error {
	return out.Reply(ctx, WelcomeText)
}

func (r *Router) handleHelp(ctx context.Context, _ Message, _ string, out Responder) error {
	return out.Reply(ctx, UsageText)
}

func (r *Router) handleSummary(ctx context.Context, _ Message, _ string, out Responder) error {
	r.send(ctx, out, processingText)
	combined, err := r.pipeline.SynthesizeAll(ctx)
	if err != nil {
		return err
	}
	return out.Send(ctx, summaryHeader+answerBody(combined))
}

func (r *Router) handleClear(ctx context.Context, _ Message, _ string, out Responder) error {
	r.send(ctx, out, clearingText)
	if _, err := r.pipeline.ClearAll(ctx); err != nil {
		return err
	}
	return out.Send(ctx, clearedText)
}

func (r *Router) handleWeather(ctx context.Context, _ Message, args string, out Responder) error {
	r.send(ctx, out, fetchingWeatherText)
	place := args
	if place == "" {
		place = service.DefaultPlace
	}
	text, err := r.weather.Narrate(ctx, place)
	if err != nil {
		return err
	}
	r.logger.Info("weather narrated", "place", place, "chars", len(text))
	return out.Send(ctx, weatherHeader+answerBody(text))
}

// answerBody escapes an LLM answer for HTML, falling back to an apology when
// the model returned nothing.
func answerBody(text string) string {
	if strings.TrimSpace(text) == "" {
		return emptyAnswerText
	}
	return html.EscapeString(text)
}

func (r *Router) handlePhoto(ctx context.Context, msg Message, out Responder) {
	r.logger.Info("photo received", "user_id", msg.UserID, "chat_id", msg.ChatID)
	if err := r.processPhoto(ctx, msg, out); err != nil {
		r.logger.Error("photo processing failed", "chat_id", msg.ChatID, "error", err)
		r.reply(ctx, out, fmt.Sprintf(photoErrorFormat, html.EscapeString(describe(err))))
	}
}

func (r *Router) processPhoto(ctx context.Context, msg Message, out Responder) error {
	body, err := msg.Photo.Fetch(ctx)
	if err != nil {
		return fmt.Errorf("failed to download photo: %w", err)
	}
	defer func() {
		if err := body.Close(); err != nil {
			r.logger.Error("failed to close photo download", "error", err)
		}
	}()

	name := fmt.Sprintf("%d_%d_%s.jpg", msg.ChatID, msg.MessageID, r.now().UTC().Format("20060102-150405"))
	inputPath, err := r.pipeline.Uploads().Save(ctx, name, body)
	if err != nil {
		return fmt.Errorf("failed to save photo: %w", err)
	}
	r.reply(ctx, out, analyzingPhotoText)

	summary, outputPath, err := r.pipeline.Process(ctx, inputPath)
	if err != nil {
		return err
	}

	file := html.EscapeString(filepath.Base(outputPath))
	caption := fmt.Sprintf(photoCaptionFormat, html.EscapeString(summary), file)
	if utf8.RuneCountInString(caption) <= maxCaptionRunes {
		return out.SendPhoto(ctx, outputPath, caption)
	}

	// Telegram rejects long captions; send the analysis as its own message.
	if err := out.SendPhoto(ctx, outputPath, fmt.Sprintf(photoCaptionFormat, "", file)); err != nil {
		return err
	}
	return out.Send(ctx, "<b>ผลวิเคราะห์</b>\n"+html.EscapeString(summary))
}

// send and reply deliver progress messages whose failure should not abort
// the command.
func (r *Router) send(ctx context.Context, out Responder, text string) {
	if err := out.Send(ctx, text); err != nil {
		r.logger.Warn("failed to send message", "error", err)
	}
}

func (r *Router) reply(ctx context.Context, out Responder, text string) {
	if err := out.Reply(ctx, text); err != nil {
		r.logger.Warn("failed to send reply", "error", err)
	}
}

// describe renders err for the user. Unknown places get the short Thai
// message rather than the wrapped chain.
func describe(err error) string {
	var lnf *domain.LocationNotFoundError
	if errors.As(err, &lnf) {
		return fmt.Sprintf(locationNotFound, lnf.Query)
	}
	return err.Error()
}
