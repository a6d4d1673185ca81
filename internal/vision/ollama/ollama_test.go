package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vbonduro/lensbot/internal/domain"
	"github.com/vbonduro/lensbot/internal/vision"
)

func TestOllamaComplete(t *testing.T) {
	var got chatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"model":   "llava",
			"message": map[string]string{"role": "assistant", "content": "ต้นไม้ริมถนน"},
			"done":    true,
		})
	}))
	defer server.Close()

	client := NewClient(server.URL+"/", "llava", 0.3)
	text, err := client.Complete(context.Background(), []vision.Message{
		vision.TextMessage(vision.RoleSystem, "rules"),
		{Role: vision.RoleUser, Parts: []vision.Part{{Text: "look"}, {ImageURL: "data:image/jpeg;base64,AAEC"}}},
	})
	require.NoError(t, err)
	assert.Equal(t, "ต้นไม้ริมถนน", text)

	assert.Equal(t, "llava", got.Model)
	assert.False(t, got.Stream)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, "look", got.Messages[1].Content)
	assert.Equal(t, []string{"AAEC"}, got.Messages[1].Images)
	assert.InDelta(t, 0.3, got.Options["temperature"], 1e-9)
}

func TestOllamaCompleteError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := NewClient(server.URL, "llava", 0.3).Complete(context.Background(), []vision.Message{vision.TextMessage(vision.RoleUser, "hi")})
	assert.ErrorIs(t, err, domain.ErrUpstreamUnavailable)
}
