package gemini

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/talentscout/hiring-assistant/internal/ai"
)

type fakeChatCreator struct {
	mu    sync.Mutex
	calls []chatCallRecord
	queue []fakeChatResponse
}

type chatCallRecord struct {
	model   string
	config  *genai.GenerateContentConfig
	history []*genai.Content
	chat    *fakeChat
}

type fakeChatResponse struct {
	resp *genai.GenerateContentResponse
	err  error
}

type fakeChat struct {
	mu       sync.Mutex
	response fakeChatResponse
	messages []string
}

func (f *fakeChat) SendMessage(_ context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, part := range parts {
		f.messages = append(f.messages, part.Text)
	}
	return f.response.resp, f.response.err
}

func (f *fakeChatCreator) enqueue(resp *genai.GenerateContentResponse, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queue = append(f.queue, fakeChatResponse{resp: resp, err: err})
}

func (f *fakeChatCreator) Create(_ context.Context, model string, config *genai.GenerateContentConfig, history []*genai.Content) (chatSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.queue) == 0 {
		return nil, errors.New("unexpected call")
	}
	res := f.queue[0]
	f.queue = f.queue[1:]
	chat := &fakeChat{response: res}
	f.calls = append(f.calls, chatCallRecord{model: model, config: config, history: history, chat: chat})
	return chat, nil
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{{Text: text}}},
		}},
	}
}

func newTestClient(chats chatCreator, maxRetries int, params ai.GenerationParams) *Client {
	return &Client{
		chats:      chats,
		model:      "gemini-pro",
		maxRetries: maxRetries,
		params:     params,
		logger:     zap.NewNop(),
	}
}

func TestClientRetriesOnTemporaryError(t *testing.T) {
	originalSleep := sleep
	sleep = func(time.Duration) {}
	defer func() { sleep = originalSleep }()

	chats := &fakeChatCreator{}
	tempErr := genai.APIError{Code: http.StatusInternalServerError, Status: "INTERNAL"}
	chats.enqueue(nil, tempErr)
	chats.enqueue(textResponse("retry ok"), nil)

	c := newTestClient(chats, 2, ai.GenerationParams{})

	output, err := c.Complete(context.Background(), "system", nil, "message")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if output != "retry ok" {
		t.Fatalf("unexpected output: %q", output)
	}

	if len(chats.calls) != 2 {
		t.Fatalf("expected 2 calls, got %d", len(chats.calls))
	}

	for _, call := range chats.calls {
		if call.config == nil || call.config.SystemInstruction == nil {
			t.Fatalf("expected system instruction to be set")
		}
		if got := call.config.SystemInstruction.Parts[0].Text; got != "system" {
			t.Fatalf("unexpected system instruction: %q", got)
		}
		if len(call.chat.messages) != 1 || call.chat.messages[0] != "message" {
			t.Fatalf("unexpected chat message: %+v", call.chat.messages)
		}
	}
}

func TestClientStopsAfterRetriesExhausted(t *testing.T) {
	originalSleep := sleep
	sleep = func(time.Duration) {}
	defer func() { sleep = originalSleep }()

	chats := &fakeChatCreator{}
	tempErr := genai.APIError{Code: http.StatusInternalServerError, Status: "INTERNAL"}
	chats.enqueue(nil, tempErr)
	chats.enqueue(nil, tempErr)

	c := newTestClient(chats, 2, ai.GenerationParams{})

	_, err := c.Complete(context.Background(), "sys", nil, "msg")
	if err == nil {
		t.Fatal("expected error after retries exhausted")
	}

	if len(chats.calls) != 2 {
		t.Fatalf("expected 2 calls, got %d", len(chats.calls))
	}
}

func TestClientDoesNotRetryOnLongQuotaDelay(t *testing.T) {
	chats := &fakeChatCreator{}
	quotaErr := genai.APIError{
		Code:    http.StatusTooManyRequests,
		Status:  "RESOURCE_EXHAUSTED",
		Message: "quota exhausted, retry after 60 seconds",
	}
	chats.enqueue(nil, quotaErr)

	c := newTestClient(chats, 3, ai.GenerationParams{})

	_, err := c.Complete(context.Background(), "sys", nil, "msg")
	if err == nil {
		t.Fatal("expected error when quota delay too long")
	}

	if len(chats.calls) != 1 {
		t.Fatalf("expected single call, got %d", len(chats.calls))
	}
}

func TestClientForwardsHistoryAndParams(t *testing.T) {
	chats := &fakeChatCreator{}
	chats.enqueue(textResponse("hello Jane"), nil)

	params := ai.GenerationParams{Temperature: 0.4, TopP: 0.9, MaxTokens: 250}
	c := newTestClient(chats, 1, params)

	history := []ai.Turn{
		{Role: ai.RoleUser, Text: "hi"},
		{Role: ai.RoleAssistant, Text: "hello, what is your name?"},
	}

	output, err := c.Complete(context.Background(), "sys", history, "Jane")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if output != "hello Jane" {
		t.Fatalf("unexpected output: %q", output)
	}

	call := chats.calls[0]
	if len(call.history) != 2 {
		t.Fatalf("expected 2 history contents, got %d", len(call.history))
	}
	if call.history[0].Role != genai.RoleUser || call.history[1].Role != genai.RoleModel {
		t.Fatalf("unexpected history roles: %v, %v", call.history[0].Role, call.history[1].Role)
	}

	if call.config.Temperature == nil || *call.config.Temperature != 0.4 {
		t.Fatalf("unexpected temperature: %v", call.config.Temperature)
	}
	if call.config.TopP == nil || *call.config.TopP != 0.9 {
		t.Fatalf("unexpected top_p: %v", call.config.TopP)
	}
	if call.config.MaxOutputTokens != 250 {
		t.Fatalf("unexpected max tokens: %d", call.config.MaxOutputTokens)
	}
}

func TestClientEmptyResponseIsError(t *testing.T) {
	chats := &fakeChatCreator{}
	chats.enqueue(&genai.GenerateContentResponse{}, nil)

	c := newTestClient(chats, 1, ai.GenerationParams{})

	if _, err := c.Complete(context.Background(), "sys", nil, "msg"); err == nil {
		t.Fatal("expected error for empty response")
	}
}
