package claude

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/liushuangls/go-anthropic/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vbonduro/lensbot/internal/domain"
	"github.com/vbonduro/lensbot/internal/vision"
)

func TestClaudeComplete(t *testing.T) {
	var got map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "sk-test", r.Header.Get("x-api-key"))
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		resp := map[string]interface{}{
			"id":          "msg_1",
			"type":        "message",
			"role":        "assistant",
			"model":       "claude-sonnet-4-5",
			"stop_reason": "end_turn",
			"content": []map[string]interface{}{
				{"type": "text", "text": "รูปถนนยามเย็น"},
			},
			"usage": map[string]interface{}{"input_tokens": 10, "output_tokens": 5},
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}))
	defer server.Close()

	client := NewClient("sk-test", "claude-sonnet-4-5", 0.3, anthropic.WithBaseURL(server.URL))

	text, err := client.Complete(context.Background(), []vision.Message{
		vision.TextMessage(vision.RoleSystem, "describe"),
		{Role: vision.RoleUser, Parts: []vision.Part{{Text: "look"}, {ImageURL: "data:image/bmp;base64,AAEC"}}},
	})
	require.NoError(t, err)
	assert.Equal(t, "รูปถนนยามเย็น", text)

	assert.Equal(t, "describe", got["system"])
	assert.Equal(t, "claude-sonnet-4-5", got["model"])
	msgs := got["messages"].([]interface{})
	require.Len(t, msgs, 1)
	content := msgs[0].(map[string]interface{})["content"].([]interface{})
	require.Len(t, content, 2)
	image := content[1].(map[string]interface{})
	assert.Equal(t, "image", image["type"])
	source := image["source"].(map[string]interface{})
	assert.Equal(t, "base64", source["type"])
	assert.Equal(t, "image/jpeg", source["media_type"])
	assert.Equal(t, "AAEC", source["data"])
}

func TestClaudeCompleteAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewClient("sk-test", "claude-sonnet-4-5", 0.3, anthropic.WithBaseURL(server.URL))

	_, err := client.Complete(context.Background(), []vision.Message{vision.TextMessage(vision.RoleUser, "hi")})
	assert.ErrorIs(t, err, domain.ErrUpstreamUnavailable)
}

func TestBuildMessagesRejectsRemoteImage(t *testing.T) {
	_, _, err := buildMessages([]vision.Message{
		{Role: vision.RoleUser, Parts: []vision.Part{{ImageURL: "https://example.com/a.jpg"}}},
	})
	assert.Error(t, err)
}

func TestNormaliseMIME(t *testing.T) {
	assert.Equal(t, "image/png", normaliseMIME("image/png"))
	assert.Equal(t, "image/webp", normaliseMIME("image/webp"))
	assert.Equal(t, "image/jpeg", normaliseMIME("image/heic"))
}
