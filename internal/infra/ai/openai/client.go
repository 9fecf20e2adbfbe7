package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/bryanwahyu/purelabel/internal/domain/ai"
	"github.com/bryanwahyu/purelabel/internal/domain/labels"
	"github.com/bryanwahyu/purelabel/internal/infra/ai/prompt"
)

const (
	defaultModel     = "gpt-4o-mini"
	defaultMaxTokens = 2048
	chatMaxTokens    = 300
)

type Client struct {
	*openai.Client
	Model     string
	MaxTokens int
}

// NewClient builds a client; baseURL is optional and lets the service talk
// to any OpenAI compatible gateway.
func NewClient(apiKey, model, baseURL string) *Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &Client{Client: openai.NewClientWithConfig(cfg), Model: model}
}

// Analyze sends the label (text or photo) and returns the raw JSON answer.
func (c *Client) Analyze(ctx context.Context, in labels.Input) (string, error) {
	user := openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser}
	if in.Image != nil {
		user.MultiContent = []openai.ChatMessagePart{
			{
				Type: openai.ChatMessagePartTypeImageURL,
				ImageURL: &openai.ChatMessageImageURL{
					URL:    in.Image.DataURL(),
					Detail: openai.ImageURLDetailAuto,
				},
			},
			{Type: openai.ChatMessagePartTypeText, Text: prompt.GetImagePrompt()},
		}
	} else {
		user.Content = prompt.GetTextPrompt(in.Text)
	}

	req := c.request([]openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: prompt.GetSystemPrompt()},
		user,
	}, c.maxTokens())
	req.ResponseFormat = &openai.ChatCompletionResponseFormat{
		Type: openai.ChatCompletionResponseFormatTypeJSONObject,
	}

	return c.complete(ctx, req)
}

// Converse replays the whole history on every call; no session is kept.
func (c *Client) Converse(ctx context.Context, history []labels.Message, productContext string) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, len(history)+1)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: prompt.GetCoPilotPrompt(productContext),
	})
	for _, m := range history {
		role := openai.ChatMessageRoleUser
		if m.Role == labels.RoleAssistant {
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{Role: role, Content: m.Content})
	}
	return c.complete(ctx, c.request(messages, chatMaxTokens))
}

func (c *Client) request(messages []openai.ChatCompletionMessage, maxTokens int) openai.ChatCompletionRequest {
	model := c.Model
	if model == "" {
		model = defaultModel
	}
	req := openai.ChatCompletionRequest{Model: model, Messages: messages}
	// For reasoning models (o1/o3/o4/gpt-5*) use MaxCompletionTokens instead of MaxTokens
	if isReasoningModel(model) {
		req.MaxCompletionTokens = maxTokens
	} else {
		req.MaxTokens = maxTokens
	}
	return req
}

func (c *Client) complete(ctx context.Context, req openai.ChatCompletionRequest) (string, error) {
	resp, err := c.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", classify(err)
	}
	if len(resp.Choices) == 0 {
		return "", ai.ErrEmptyResponse
	}
	return resp.Choices[0].Message.Content, nil
}

func (c *Client) maxTokens() int {
	if c.MaxTokens > 0 {
		return c.MaxTokens
	}
	return defaultMaxTokens
}

func isReasoningModel(model string) bool {
	for _, p := range []string{"o1", "o3", "o4", "gpt-5"} {
		if strings.HasPrefix(model, p) {
			return true
		}
	}
	return false
}

// classify maps provider rate limiting onto ai.ErrQuotaExceeded.
func classify(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode == http.StatusTooManyRequests {
		return fmt.Errorf("%w: %v", ai.ErrQuotaExceeded, err)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode == http.StatusTooManyRequests {
		return fmt.Errorf("%w: %v", ai.ErrQuotaExceeded, err)
	}
	return fmt.Errorf("failed to create chat completion: %w", err)
}
