package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/vbonduro/lensbot/internal/domain"
	"github.com/vbonduro/lensbot/internal/vision"
)

type chatMessage struct {
	Role    string   `json:"role"`
	Content string   `json:"content"`
	Images  []string `json:"images,omitempty"`
}

type chatRequest struct {
	Model    string                 `json:"model"`
	Messages []chatMessage          `json:"messages"`
	Stream   bool                   `json:"stream"`
	Options  map[string]interface{} `json:"options,omitempty"`
}

// Client is a ChatCompleter for a local Ollama server's /api/chat endpoint.
type Client struct {
	host        string
	model       string
	temperature float64
	client      *http.Client
}

func NewClient(host, model string, temperature float64) *Client {
	return &Client{
		host:        strings.TrimRight(host, "/"),
		model:       model,
		temperature: temperature,
		client:      &http.Client{},
	}
}

func (c *Client) Complete(ctx context.Context, messages []vision.Message) (string, error) {
	msgs, err := buildMessages(messages)
	if err != nil {
		return "", err
	}

	payload, err := json.Marshal(chatRequest{
		Model:    c.model,
		Messages: msgs,
		Stream:   false,
		Options:  map[string]interface{}{"temperature": c.temperature},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.host+"/api/chat", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call ollama: %w: %w", domain.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ollama returned status %d: %w", resp.StatusCode, domain.ErrUpstreamUnavailable)
	}

	var respBody struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&respBody); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	return respBody.Message.Content, nil
}

// buildMessages flattens text parts into content and moves image parts into
// the raw base64 images list Ollama expects.
func buildMessages(messages []vision.Message) ([]chatMessage, error) {
	result := make([]chatMessage, 0, len(messages))
	for _, msg := range messages {
		out := chatMessage{Role: msg.Role}
		var texts []string
		for _, p := range msg.Parts {
			if p.ImageURL == "" {
				texts = append(texts, p.Text)
				continue
			}
			_, payload, err := vision.SplitDataURL(p.ImageURL)
			if err != nil {
				return nil, fmt.Errorf("failed to decode image part: %w", err)
			}
			out.Images = append(out.Images, payload)
		}
		out.Content = strings.Join(texts, "\n")
		result = append(result, out)
	}
	return result, nil
}
