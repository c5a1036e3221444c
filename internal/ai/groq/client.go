// Package groq implements the ai.ChatModel boundary against Groq's
// OpenAI-compatible chat completion API.
package groq

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/talentscout/hiring-assistant/internal/ai"
	"github.com/talentscout/hiring-assistant/internal/logger"
)

const (
	// BaseURL is Groq's OpenAI-compatible endpoint.
	BaseURL = "https://api.groq.com/openai/v1"

	defaultModel = "llama-3.3-70b-versatile"

	previewLogLength = 200
)

// completionsAPI is the slice of the go-openai client used here; tests
// substitute a fake.
type completionsAPI interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Client is the Groq-backed chat model.
type Client struct {
	api    completionsAPI
	model  string
	params ai.GenerationParams
	logger *zap.Logger
}

// NewClient creates a chat model speaking to the Groq API.
func NewClient(apiKey, model string, params ai.GenerationParams, log *zap.Logger) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("groq api key is required")
	}

	if model = strings.TrimSpace(model); model == "" {
		model = defaultModel
	}

	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = BaseURL

	return &Client{
		api:    openai.NewClientWithConfig(cfg),
		model:  model,
		params: params,
		logger: logger.WithCommonFields(log, "groq", model),
	}, nil
}

// Complete sends the system prompt, prior turns and the current user
// message as one chat completion request and returns the reply text.
func (c *Client) Complete(ctx context.Context, system string, history []ai.Turn, userText string) (string, error) {
	userText = strings.TrimSpace(userText)
	if userText == "" {
		return "", errors.New("user message must not be empty")
	}

	messages := make([]openai.ChatCompletionMessage, 0, len(history)+2)

	if system = strings.TrimSpace(system); system != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: system,
		})
	}

	for _, turn := range history {
		role := openai.ChatMessageRoleUser
		if turn.Role == ai.RoleAssistant {
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    role,
			Content: turn.Text,
		})
	}

	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: userText,
	})

	req := openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: c.params.Temperature,
		TopP:        c.params.TopP,
		MaxTokens:   int(c.params.MaxTokens),
	}

	c.logger.Debug("chat completion request",
		zap.Int("messages", len(messages)),
		zap.String("user_preview", logger.TruncateForLog(userText, previewLogLength)),
	)

	resp, err := c.api.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("groq api returned no choices")
	}

	reply := strings.TrimSpace(resp.Choices[0].Message.Content)
	if reply == "" {
		return "", errors.New("groq api returned empty message")
	}

	c.logger.Debug("chat completion response",
		zap.Int("response_length", utf8.RuneCountInString(reply)),
		zap.String("response_preview", logger.TruncateForLog(reply, previewLogLength)),
	)

	return reply, nil
}

// Model returns the configured model identifier.
func (c *Client) Model() string {
	if c == nil {
		return ""
	}
	return c.model
}
