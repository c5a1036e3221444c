// Package gemini implements the ai.ChatModel boundary on top of the
// Google GenAI API.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/talentscout/hiring-assistant/internal/ai"
	"github.com/talentscout/hiring-assistant/internal/logger"
)

const (
	defaultModel = "gemini-2.5-flash"

	// transientRetryDelay is applied between attempts after a 5xx error.
	transientRetryDelay = 2 * time.Second
	// maxQuotaDelay caps how long a quota backoff may be before the call
	// is abandoned instead of retried.
	maxQuotaDelay = 30 * time.Second
)

// sleep is swapped out in tests.
var sleep = time.Sleep

var quotaDelayPattern = regexp.MustCompile(`retry after (\d+) seconds`)

// chatSession is the part of a genai chat the client relies on.
type chatSession interface {
	SendMessage(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// chatCreator builds chat sessions; it exists so tests can substitute the
// real API with fakes.
type chatCreator interface {
	Create(ctx context.Context, model string, config *genai.GenerateContentConfig, history []*genai.Content) (chatSession, error)
}

type genaiChats struct {
	client *genai.Client
}

func (g *genaiChats) Create(ctx context.Context, model string, config *genai.GenerateContentConfig, history []*genai.Content) (chatSession, error) {
	return g.client.Chats.Create(ctx, model, config, history)
}

// Client is the Gemini-backed chat model.
type Client struct {
	chats      chatCreator
	model      string
	maxRetries int
	params     ai.GenerationParams
	logger     *zap.Logger
}

// NewClient creates a chat model for the Gemini API backend.
func NewClient(ctx context.Context, apiKey, model string, maxRetries int, params ai.GenerationParams, log *zap.Logger) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	if model = strings.TrimSpace(model); model == "" {
		model = defaultModel
	}
	if maxRetries < 1 {
		maxRetries = 1
	}

	return &Client{
		chats:      &genaiChats{client: client},
		model:      model,
		maxRetries: maxRetries,
		params:     params,
		logger:     logger.WithCommonFields(log, "gemini", model),
	}, nil
}

// Complete sends the conversation to Gemini and returns the assistant
// reply. Transient API errors are retried up to maxRetries attempts; quota
// errors demanding a backoff longer than maxQuotaDelay abort immediately.
func (c *Client) Complete(ctx context.Context, system string, history []ai.Turn, userText string) (string, error) {
	userText = strings.TrimSpace(userText)
	if userText == "" {
		return "", errors.New("user message must not be empty")
	}

	config := c.generateConfig(system)
	contents := historyContents(history)

	var lastErr error
	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		chat, err := c.chats.Create(ctx, c.model, config, contents)
		if err != nil {
			return "", fmt.Errorf("create chat session: %w", err)
		}

		resp, err := chat.SendMessage(ctx, genai.Part{Text: userText})
		if err == nil {
			return collectText(resp)
		}

		lastErr = err

		delay, retryable := retryDelay(err)
		if !retryable || attempt == c.maxRetries {
			break
		}

		c.logger.Debug("retrying gemini call",
			zap.Int("attempt", attempt),
			zap.Duration("delay", delay),
			zap.Error(err),
		)
		sleep(delay)
	}

	return "", fmt.Errorf("generate content: %w", lastErr)
}

func (c *Client) generateConfig(system string) *genai.GenerateContentConfig {
	config := &genai.GenerateContentConfig{}

	if system = strings.TrimSpace(system); system != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: system}},
		}
	}

	if c.params.Temperature > 0 {
		config.Temperature = genai.Ptr(c.params.Temperature)
	}
	if c.params.TopP > 0 {
		config.TopP = genai.Ptr(c.params.TopP)
	}
	if c.params.MaxTokens > 0 {
		config.MaxOutputTokens = c.params.MaxTokens
	}

	return config
}

func historyContents(history []ai.Turn) []*genai.Content {
	if len(history) == 0 {
		return nil
	}

	contents := make([]*genai.Content, 0, len(history))
	for _, turn := range history {
		role := genai.RoleUser
		if turn.Role == ai.RoleAssistant {
			role = genai.RoleModel
		}
		contents = append(contents, &genai.Content{
			Role:  role,
			Parts: []*genai.Part{{Text: turn.Text}},
		})
	}

	return contents
}

func collectText(resp *genai.GenerateContentResponse) (string, error) {
	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			text := strings.TrimSpace(part.Text)
			if text == "" {
				continue
			}
			if builder.Len() > 0 {
				builder.WriteString("\n")
			}
			builder.WriteString(text)
		}
	}

	output := strings.TrimSpace(builder.String())
	if output == "" {
		return "", errors.New("gemini api returned empty response")
	}

	return output, nil
}

// retryDelay classifies an API error: 5xx responses get a short fixed
// backoff, quota errors honor the advertised delay when it is short
// enough, anything else is terminal.
func retryDelay(err error) (time.Duration, bool) {
	var apiErr genai.APIError
	if !errors.As(err, &apiErr) {
		return 0, false
	}

	if apiErr.Code >= 500 {
		return transientRetryDelay, true
	}

	if apiErr.Code == 429 {
		match := quotaDelayPattern.FindStringSubmatch(strings.ToLower(apiErr.Message))
		if match == nil {
			return transientRetryDelay, true
		}
		seconds, convErr := strconv.Atoi(match[1])
		if convErr != nil {
			return 0, false
		}
		delay := time.Duration(seconds) * time.Second
		if delay > maxQuotaDelay {
			return 0, false
		}
		return delay, true
	}

	return 0, false
}

// Model returns the configured model identifier.
func (c *Client) Model() string {
	if c == nil {
		return ""
	}
	return c.model
}
