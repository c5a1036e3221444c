// Package ai defines the boundary to the remote LLM service. The core
// consumes this interface; concrete providers live in subpackages.
package ai

import "context"

// Role identifies the author of a conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one entry of conversation history.
type Turn struct {
	Role Role
	Text string
}

// GenerationParams are the fixed sampling parameters sent with every
// request. Zero values mean provider defaults.
type GenerationParams struct {
	Temperature float32
	TopP        float32
	MaxTokens   int32
}

// ChatModel produces the next assistant reply given system instructions,
// prior turns and the current user utterance.
type ChatModel interface {
	Complete(ctx context.Context, system string, history []Turn, userText string) (string, error)
}
