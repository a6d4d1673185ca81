package openrouter

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/vbonduro/lensbot/internal/domain"
	"github.com/vbonduro/lensbot/internal/vision"
)

const DefaultBaseURL = "https://openrouter.ai/api/v1"

// Client talks to any OpenAI-compatible chat completion endpoint
// (OpenRouter by default). Image parts are sent as data URLs.
type Client struct {
	client      openai.Client
	model       string
	temperature float64
}

func NewClient(apiKey, baseURL, model string, temperature float64, opts ...option.RequestOption) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	reqOpts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithBaseURL(baseURL),
		// One attempt per call; callers report failures instead of retrying.
		option.WithMaxRetries(0),
	}
	return &Client{
		client:      openai.NewClient(append(reqOpts, opts...)...),
		model:       model,
		temperature: temperature,
	}
}

func (c *Client) Complete(ctx context.Context, messages []vision.Message) (string, error) {
	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(c.model),
		Messages:    convertMessages(messages),
		Temperature: openai.Float(c.temperature),
	})
	if err != nil {
		return "", fmt.Errorf("failed to call chat completion: %w: %w", domain.ErrUpstreamUnavailable, err)
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}

func convertMessages(messages []vision.Message) []openai.ChatCompletionMessageParamUnion {
	result := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, msg := range messages {
		switch msg.Role {
		case vision.RoleSystem:
			result = append(result, openai.SystemMessage(joinText(msg.Parts)))
		case "assistant":
			result = append(result, openai.AssistantMessage(joinText(msg.Parts)))
		default:
			if !hasImage(msg.Parts) {
				result = append(result, openai.UserMessage(joinText(msg.Parts)))
				continue
			}
			parts := make([]openai.ChatCompletionContentPartUnionParam, 0, len(msg.Parts))
			for _, p := range msg.Parts {
				if p.ImageURL != "" {
					parts = append(parts, openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
						URL: p.ImageURL,
					}))
					continue
				}
				parts = append(parts, openai.TextContentPart(p.Text))
			}
			result = append(result, openai.UserMessage(parts))
		}
	}
	return result
}

func hasImage(parts []vision.Part) bool {
	for _, p := range parts {
		if p.ImageURL != "" {
			return true
		}
	}
	return false
}

func joinText(parts []vision.Part) string {
	texts := make([]string, 0, len(parts))
	for _, p := range parts {
		if p.Text != "" {
			texts = append(texts, p.Text)
		}
	}
	return strings.Join(texts, "\n")
}
