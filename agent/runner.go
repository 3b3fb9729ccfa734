package agent

import (
	"context"
	"fmt"
	"sync"

	"github.com/hupe1980/callmesh/core"
	"github.com/hupe1980/callmesh/logging"
	"github.com/hupe1980/callmesh/model"
)

// Options holds dependency + configuration overrides passed to NewRunner.
type Options struct {
	// Instructions is the system prompt applied to every generation.
	Instructions string
	// Tracker, when set, is notified the first time the runner operates on a
	// conversation.
	Tracker core.CallTracker
	// Logger for per-turn diagnostics. Defaults to NoOpLogger.
	Logger logging.Logger
}

// Runner produces assistant turns for conversations and records the agent
// start transition on the call tracker exactly once per conversation, when it
// begins processing the first turn. Public methods are safe for concurrent
// use across conversations.
type Runner struct {
	llm          model.Model
	instructions string
	tracker      core.CallTracker
	logger       logging.Logger

	mu          sync.Mutex
	transcripts map[string][]model.Message
	started     map[string]bool
}

// NewRunner constructs a Runner with optional overrides.
func NewRunner(llm model.Model, optFns ...func(o *Options)) *Runner {
	opts := Options{
		Logger: logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Runner{
		llm:          llm,
		instructions: opts.Instructions,
		tracker:      opts.Tracker,
		logger:       opts.Logger,
		transcripts:  make(map[string][]model.Message),
		started:      make(map[string]bool),
	}
}

// Respond generates the assistant reply to userText within the given
// conversation, appending both turns to the transcript. The first Respond for
// a conversation marks the agent as started on the tracker before generation
// begins, so setup latency excludes model time.
func (r *Runner) Respond(ctx context.Context, conversationID, userText string) (string, error) {
	r.mu.Lock()
	first := !r.started[conversationID]
	r.started[conversationID] = true
	history := make([]model.Message, len(r.transcripts[conversationID]))
	copy(history, r.transcripts[conversationID])
	r.mu.Unlock()

	if first && r.tracker != nil {
		r.tracker.MarkAgentStarted(conversationID)
	}

	req := model.Request{
		Instructions: r.instructions,
		Messages:     append(history, model.Message{Role: model.RoleUser, Text: userText}),
	}

	resp, err := r.llm.Generate(ctx, req)
	if err != nil {
		return "", fmt.Errorf("model generation failed: %w", err)
	}

	r.mu.Lock()
	r.transcripts[conversationID] = append(r.transcripts[conversationID],
		model.Message{Role: model.RoleUser, Text: userText},
		model.Message{Role: model.RoleAssistant, Text: resp.Text},
	)
	r.mu.Unlock()

	r.logger.Debug("agent turn completed",
		"conversation_id", conversationID,
		"model", r.llm.Info().Name,
		"finish_reason", resp.FinishReason,
	)

	return resp.Text, nil
}

// Transcript returns a copy of the conversation transcript so far.
func (r *Runner) Transcript(conversationID string) []model.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	transcript := make([]model.Message, len(r.transcripts[conversationID]))
	copy(transcript, r.transcripts[conversationID])
	return transcript
}

// Release discards the transcript and start flag for a conversation. Call it
// after the call has ended to avoid retaining transcripts for the life of the
// process.
func (r *Runner) Release(conversationID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.transcripts, conversationID)
	delete(r.started, conversationID)
}
