package groq

import (
	"context"
	"errors"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/talentscout/hiring-assistant/internal/ai"
)

type fakeCompletions struct {
	lastReq openai.ChatCompletionRequest
	resp    openai.ChatCompletionResponse
	err     error
}

func (f *fakeCompletions) CreateChatCompletion(_ context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	f.lastReq = req
	return f.resp, f.err
}

func replyResponse(text string) openai.ChatCompletionResponse {
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{{
			Message: openai.ChatCompletionMessage{
				Role:    openai.ChatMessageRoleAssistant,
				Content: text,
			},
		}},
	}
}

func newTestClient(api completionsAPI, params ai.GenerationParams) *Client {
	return &Client{
		api:    api,
		model:  "llama-3.3-70b-versatile",
		params: params,
		logger: zap.NewNop(),
	}
}

func TestCompleteBuildsRequest(t *testing.T) {
	fake := &fakeCompletions{resp: replyResponse("  Nice to meet you, Jane.  ")}
	params := ai.GenerationParams{Temperature: 0.4, TopP: 0.9, MaxTokens: 250}
	c := newTestClient(fake, params)

	history := []ai.Turn{
		{Role: ai.RoleUser, Text: "hi"},
		{Role: ai.RoleAssistant, Text: "hello, what is your name?"},
	}

	reply, err := c.Complete(context.Background(), "system prompt", history, "Jane")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reply != "Nice to meet you, Jane." {
		t.Fatalf("unexpected reply: %q", reply)
	}

	req := fake.lastReq
	if req.Model != "llama-3.3-70b-versatile" {
		t.Fatalf("unexpected model: %q", req.Model)
	}
	if req.Temperature != 0.4 || req.TopP != 0.9 || req.MaxTokens != 250 {
		t.Fatalf("unexpected sampling params: %+v", req)
	}

	if len(req.Messages) != 4 {
		t.Fatalf("expected 4 messages, got %d", len(req.Messages))
	}
	if req.Messages[0].Role != openai.ChatMessageRoleSystem || req.Messages[0].Content != "system prompt" {
		t.Fatalf("unexpected system message: %+v", req.Messages[0])
	}
	if req.Messages[2].Role != openai.ChatMessageRoleAssistant {
		t.Fatalf("unexpected history role: %q", req.Messages[2].Role)
	}
	if req.Messages[3].Role != openai.ChatMessageRoleUser || req.Messages[3].Content != "Jane" {
		t.Fatalf("unexpected final message: %+v", req.Messages[3])
	}
}

func TestCompleteErrors(t *testing.T) {
	fake := &fakeCompletions{err: errors.New("connection refused")}
	c := newTestClient(fake, ai.GenerationParams{})

	if _, err := c.Complete(context.Background(), "sys", nil, "msg"); err == nil {
		t.Fatal("expected transport error to propagate")
	}

	fake = &fakeCompletions{resp: openai.ChatCompletionResponse{}}
	c = newTestClient(fake, ai.GenerationParams{})
	if _, err := c.Complete(context.Background(), "sys", nil, "msg"); err == nil {
		t.Fatal("expected error for empty choice list")
	}

	if _, err := c.Complete(context.Background(), "sys", nil, "   "); err == nil {
		t.Fatal("expected error for empty user message")
	}
}

func TestNewClientRequiresKey(t *testing.T) {
	if _, err := NewClient("  ", "", ai.GenerationParams{}, zap.NewNop()); err == nil {
		t.Fatal("expected error for missing api key")
	}

	c, err := NewClient("key", "", ai.GenerationParams{}, zap.NewNop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Model() != defaultModel {
		t.Fatalf("expected default model, got %q", c.Model())
	}
}
