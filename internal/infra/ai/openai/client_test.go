package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/purelabel/internal/domain/ai"
	"github.com/bryanwahyu/purelabel/internal/domain/labels"
)

type capturedRequest struct {
	Model               string           `json:"model"`
	MaxTokens           int              `json:"max_tokens"`
	MaxCompletionTokens int              `json:"max_completion_tokens"`
	Messages            []map[string]any `json:"messages"`
	ResponseFormat      *struct {
		Type string `json:"type"`
	} `json:"response_format"`
}

func fakeServer(t *testing.T, status int, content string, captured *capturedRequest) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		if captured != nil {
			assert.NoError(t, json.NewDecoder(r.Body).Decode(captured))
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status != http.StatusOK {
			_, _ = w.Write([]byte(`{"error":{"message":"slow down","type":"rate_limit_error","code":"rate_limit_exceeded"}}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-1",
			"object":  "chat.completion",
			"created": 1,
			"model":   "gpt-4o-mini",
			"choices": []map[string]any{{
				"index":         0,
				"message":       map[string]any{"role": "assistant", "content": content},
				"finish_reason": "stop",
			}},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_AnalyzeText(t *testing.T) {
	var got capturedRequest
	srv := fakeServer(t, http.StatusOK, `{"productName":"X"}`, &got)
	c := NewClient("test-key", "gpt-4o-mini", srv.URL+"/v1")

	raw, err := c.Analyze(context.Background(), labels.TextInput("Wheat flour, salt"))
	require.NoError(t, err)
	assert.Equal(t, `{"productName":"X"}`, raw)

	assert.Equal(t, "gpt-4o-mini", got.Model)
	assert.Equal(t, defaultMaxTokens, got.MaxTokens)
	require.NotNil(t, got.ResponseFormat)
	assert.Equal(t, "json_object", got.ResponseFormat.Type)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0]["role"])
	assert.Contains(t, got.Messages[1]["content"], "Wheat flour, salt")
}

func TestClient_AnalyzeImage(t *testing.T) {
	var got capturedRequest
	srv := fakeServer(t, http.StatusOK, `{}`, &got)
	c := NewClient("test-key", "", srv.URL+"/v1")

	_, err := c.Analyze(context.Background(), labels.ImageInput([]byte("jpeg"), "image/jpeg"))
	require.NoError(t, err)

	assert.Equal(t, defaultModel, got.Model)
	require.Len(t, got.Messages, 2)
	parts, ok := got.Messages[1]["content"].([]any)
	require.True(t, ok, "image prompt must be multi-part")
	require.Len(t, parts, 2)
	first := parts[0].(map[string]any)
	assert.Equal(t, "image_url", first["type"])
	assert.Equal(t, "data:image/jpeg;base64,anBlZw==", first["image_url"].(map[string]any)["url"])
}

func TestClient_ConverseReplaysHistory(t *testing.T) {
	var got capturedRequest
	srv := fakeServer(t, http.StatusOK, "Yes, in moderation.", &got)
	c := NewClient("test-key", "gpt-4o-mini", srv.URL+"/v1")

	reply, err := c.Converse(context.Background(), []labels.Message{
		{Role: labels.RoleUser, Content: "Is this okay for children?"},
		{Role: labels.RoleAssistant, Content: "Occasionally."},
		{Role: labels.RoleUser, Content: "Daily?"},
	}, "Product: Maggi Noodles. Verdict: Moderately Processed. Ingredients: wheat flour")
	require.NoError(t, err)
	assert.Equal(t, "Yes, in moderation.", reply)

	require.Len(t, got.Messages, 4)
	assert.Contains(t, got.Messages[0]["content"], "Maggi Noodles")
	assert.Equal(t, "assistant", got.Messages[2]["role"])
	assert.Equal(t, "Daily?", got.Messages[3]["content"])
	assert.Equal(t, chatMaxTokens, got.MaxTokens)
	assert.Nil(t, got.ResponseFormat)
}

func TestClient_RateLimitIsQuotaExceeded(t *testing.T) {
	srv := fakeServer(t, http.StatusTooManyRequests, "", nil)
	c := NewClient("test-key", "gpt-4o-mini", srv.URL+"/v1")

	_, err := c.Analyze(context.Background(), labels.TextInput("salt"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ai.ErrQuotaExceeded)
}

func TestClient_ServerErrorIsWrapped(t *testing.T) {
	srv := fakeServer(t, http.StatusInternalServerError, "", nil)
	c := NewClient("test-key", "gpt-4o-mini", srv.URL+"/v1")

	_, err := c.Converse(context.Background(), []labels.Message{{Role: labels.RoleUser, Content: "hi"}}, "")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ai.ErrQuotaExceeded)
	assert.Contains(t, err.Error(), "failed to create chat completion")
}

func TestClient_RequestTokenField(t *testing.T) {
	c := &Client{Model: "o3-mini"}
	req := c.request(nil, 100)
	assert.Equal(t, 100, req.MaxCompletionTokens)
	assert.Zero(t, req.MaxTokens)

	c.Model = "gpt-4o"
	req = c.request(nil, 100)
	assert.Equal(t, 100, req.MaxTokens)
	assert.Zero(t, req.MaxCompletionTokens)
}

func TestIsReasoningModel(t *testing.T) {
	assert.True(t, isReasoningModel("o3-2025-04-16"))
	assert.True(t, isReasoningModel("gpt-5-mini"))
	assert.False(t, isReasoningModel("gpt-4o"))
}
