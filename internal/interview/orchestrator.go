// Package interview drives one candidate conversation: it detects exit
// intent, forwards continuing turns to the remote chat model, keeps
// history, and feeds every user utterance to the field extraction layer.
package interview

import (
	"context"
	"fmt"

	_ "embed"

	"go.uber.org/zap"

	"github.com/talentscout/hiring-assistant/internal/ai"
	"github.com/talentscout/hiring-assistant/internal/candidate"
	"github.com/talentscout/hiring-assistant/internal/exitintent"
	"github.com/talentscout/hiring-assistant/internal/logger"
)

//go:embed prompt.md
var systemPrompt string

// DefaultHistoryWindow is how many of the most recent turns are forwarded
// to the model. The full history is kept for extraction and display.
const DefaultHistoryWindow = 12

const greetingMessage = "Hello! Welcome to TalentScout. I'm your AI hiring assistant, " +
	"and I'm excited to learn more about you today. Let's start with the basics - " +
	"could you please tell me your full name?"

const farewellMessage = `Thank you so much for your time today!

It was wonderful getting to know you and learning about your experience. We'll carefully review everything we discussed and be in touch within the next few days if your profile aligns with our current opportunities.

Best of luck with your job search!`

const apologyFormat = "I apologize, but I'm experiencing technical difficulties. " +
	"Please try again in a moment. Error: %v"

// State is the conversation lifecycle state.
type State int

const (
	StateActive State = iota
	StateEnded
)

// Orchestrator owns one conversation: history, the candidate record and
// the lifecycle state. It is not safe for concurrent use; the design is
// one candidate conversation at a time, single-threaded.
type Orchestrator struct {
	model   ai.ChatModel
	manager *candidate.Manager
	logger  *zap.Logger

	window  int
	state   State
	history []ai.Turn
	record  candidate.Record
}

// Option adjusts orchestrator construction.
type Option func(*Orchestrator)

// WithHistoryWindow overrides how many recent turns are sent to the model.
func WithHistoryWindow(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.window = n
		}
	}
}

// New builds an orchestrator around the given chat model.
func New(model ai.ChatModel, manager *candidate.Manager, log *zap.Logger, opts ...Option) *Orchestrator {
	if log == nil {
		log = zap.NewNop()
	}

	o := &Orchestrator{
		model:   model,
		manager: manager,
		logger:  log,
		window:  DefaultHistoryWindow,
		state:   StateActive,
		record:  candidate.NewRecord(),
	}

	for _, opt := range opts {
		opt(o)
	}

	return o
}

// Respond handles one user turn and returns the assistant text. Exit
// intent short-circuits to the farewell without touching the model. A
// model failure is converted to an apology embedding the error detail;
// the failed turn is dropped from history and the state stays active.
func (o *Orchestrator) Respond(ctx context.Context, userText string) string {
	if o.state == StateEnded {
		return farewellMessage
	}

	if exitintent.IsExit(userText) {
		o.logger.Info("exit intent detected, ending interview")
		o.state = StateEnded
		return farewellMessage
	}

	reply, err := o.model.Complete(ctx, systemPrompt, o.recentHistory(), userText)
	if err != nil {
		o.logger.Warn("remote model call failed",
			zap.Error(err),
			zap.String("user_preview", logger.TruncateForLog(userText, 80)),
		)
		return fmt.Sprintf(apologyFormat, err)
	}

	o.history = append(o.history,
		ai.Turn{Role: ai.RoleUser, Text: userText},
		ai.Turn{Role: ai.RoleAssistant, Text: reply},
	)

	o.manager.ExtractAndMerge(o.record, userText)

	o.logger.Debug("turn complete",
		zap.Int("history_turns", len(o.history)),
		zap.Int("fields_collected", len(o.record)),
	)

	return reply
}

// recentHistory returns at most the last window turns.
func (o *Orchestrator) recentHistory() []ai.Turn {
	if len(o.history) <= o.window {
		return o.history
	}
	return o.history[len(o.history)-o.window:]
}

// Terminate ends the conversation from outside the exit detector, e.g. a
// turn limit imposed by the shell.
func (o *Orchestrator) Terminate() {
	o.state = StateEnded
}

// IsTerminated reports whether the conversation has ended.
func (o *Orchestrator) IsTerminated() bool {
	return o.state == StateEnded
}

// Record returns the candidate record collected so far. The caller must
// not mutate it while the conversation is running.
func (o *Orchestrator) Record() candidate.Record {
	return o.record
}

// History returns the full retained conversation, not just the model
// context window.
func (o *Orchestrator) History() []ai.Turn {
	return o.history
}

// Greeting is the fixed opening message shown before the first user turn.
func Greeting() string {
	return greetingMessage
}

// Farewell is the fixed closing message.
func Farewell() string {
	return farewellMessage
}
