package vision

import (
	"context"
	"log/slog"
	"strings"
	"time"
)

// Analyzer turns ChatCompleter calls into best-effort text: failures are
// logged and reported as an empty string, never as an error.
type Analyzer struct {
	chat    ChatCompleter
	timeout time.Duration
	logger  *slog.Logger
}

func NewAnalyzer(chat ChatCompleter, timeout time.Duration, logger *slog.Logger) *Analyzer {
	return &Analyzer{chat: chat, timeout: timeout, logger: logger}
}

// AnalyzeImage asks the model for a short description, notable objects and
// quality concerns for the image at path.
func (a *Analyzer) AnalyzeImage(ctx context.Context, path string) string {
	a.logger.Info("analyzing image", "input_path", path)

	dataURL, err := EncodeDataURL(path, "")
	if err != nil {
		a.logger.Error("analysis failed", "input_path", path, "error", err)
		return ""
	}

	text, err := a.complete(ctx, []Message{
		TextMessage(RoleSystem, SystemPrompt),
		{Role: RoleUser, Parts: []Part{{Text: ImagePrompt}, {ImageURL: dataURL}}},
	})
	if err != nil {
		a.logger.Error("analysis failed", "input_path", path, "error", err)
		return ""
	}
	if text == "" {
		a.logger.Warn("analysis returned no text", "input_path", path)
		return ""
	}
	a.logger.Info("analysis complete", "input_path", path, "chars", len(text))
	return text
}

// Narrate runs a single text-only turn: systemPreamble as the system message
// and userPrompt as the user message.
func (a *Analyzer) Narrate(ctx context.Context, systemPreamble, userPrompt string) string {
	text, err := a.complete(ctx, []Message{
		TextMessage(RoleSystem, systemPreamble),
		TextMessage(RoleUser, userPrompt),
	})
	if err != nil {
		a.logger.Error("narration failed", "error", err)
		return ""
	}
	return text
}

func (a *Analyzer) complete(ctx context.Context, messages []Message) (string, error) {
	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}
	text, err := a.chat.Complete(ctx, messages)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}
