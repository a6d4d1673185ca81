package claude

import (
	"context"
	"fmt"
	"strings"

	"github.com/liushuangls/go-anthropic/v2"

	"github.com/vbonduro/lensbot/internal/domain"
	"github.com/vbonduro/lensbot/internal/vision"
)

const maxTokens = 1024

type Client struct {
	client      *anthropic.Client
	model       string
	temperature float32
}

func NewClient(apiKey, model string, temperature float64, opts ...anthropic.ClientOption) *Client {
	return &Client{
		client:      anthropic.NewClient(apiKey, opts...),
		model:       model,
		temperature: float32(temperature),
	}
}

func (c *Client) Complete(ctx context.Context, messages []vision.Message) (string, error) {
	system, msgs, err := buildMessages(messages)
	if err != nil {
		return "", err
	}

	temperature := c.temperature
	resp, err := c.client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model:       anthropic.Model(c.model),
		System:      system,
		Messages:    msgs,
		MaxTokens:   maxTokens,
		Temperature: &temperature,
	})
	if err != nil {
		return "", fmt.Errorf("failed to call claude: %w: %w", domain.ErrUpstreamUnavailable, err)
	}

	for _, blk := range resp.Content {
		if blk.Type == anthropic.MessagesContentTypeText {
			return blk.GetText(), nil
		}
	}
	return "", nil
}

// buildMessages lifts system turns into the request's system field (the
// Messages API has no system role) and converts the rest into content blocks.
func buildMessages(messages []vision.Message) (string, []anthropic.Message, error) {
	var system []string
	result := make([]anthropic.Message, 0, len(messages))

	for _, msg := range messages {
		if msg.Role == vision.RoleSystem {
			for _, p := range msg.Parts {
				if p.Text != "" {
					system = append(system, p.Text)
				}
			}
			continue
		}

		content := make([]anthropic.MessageContent, 0, len(msg.Parts))
		for _, p := range msg.Parts {
			if p.ImageURL == "" {
				content = append(content, anthropic.NewTextMessageContent(p.Text))
				continue
			}
			mime, payload, err := vision.SplitDataURL(p.ImageURL)
			if err != nil {
				return "", nil, fmt.Errorf("failed to decode image part: %w", err)
			}
			content = append(content, anthropic.NewImageMessageContent(
				anthropic.NewMessageContentSource(anthropic.MessagesContentSourceTypeBase64, normaliseMIME(mime), payload),
			))
		}

		role := anthropic.RoleUser
		if msg.Role == "assistant" {
			role = anthropic.RoleAssistant
		}
		result = append(result, anthropic.Message{Role: role, Content: content})
	}

	return strings.Join(system, "\n\n"), result, nil
}

// normaliseMIME maps MIME types to the values the Anthropic API accepts
// (jpeg, png, gif, webp). Anything else is sent as jpeg.
func normaliseMIME(mimeType string) string {
	switch mimeType {
	case "image/png", "image/gif", "image/webp":
		return mimeType
	default:
		return "image/jpeg"
	}
}
