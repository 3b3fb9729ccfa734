package telephony

import (
	"context"
	"fmt"

	"github.com/hupe1980/callmesh/core"
	"github.com/hupe1980/callmesh/logging"
)

// Options holds dependency + configuration overrides passed to NewOutboundCall.
type Options struct {
	// ConversationID overrides the generated conversation id.
	ConversationID string
	// Dialer places the actual call. Defaults to a SimulatedDialer.
	Dialer Dialer
	// Logger for controller diagnostics. Defaults to NoOpLogger.
	Logger logging.Logger
}

// OutboundCall drives a single outbound call through its lifecycle and keeps
// the tracker in sync: Begin when dialing starts, End when the call
// terminates, including the failure path of Start. An OutboundCall is used for
// exactly one call; create a new one per dial.
type OutboundCall struct {
	conversationID string
	toPhone        string
	fromPhone      string
	tracker        core.CallTracker
	dialer         Dialer
	logger         logging.Logger
}

// NewOutboundCall constructs an outbound call controller with optional overrides.
func NewOutboundCall(tracker core.CallTracker, toPhone, fromPhone string, optFns ...func(o *Options)) *OutboundCall {
	opts := Options{
		ConversationID: core.NewConversationID(),
		Dialer:         NewSimulatedDialer(),
		Logger:         logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &OutboundCall{
		conversationID: opts.ConversationID,
		toPhone:        toPhone,
		fromPhone:      fromPhone,
		tracker:        tracker,
		dialer:         opts.Dialer,
		logger:         opts.Logger,
	}
}

// ConversationID returns the id the call is tracked under.
func (c *OutboundCall) ConversationID() string { return c.conversationID }

// Start begins tracking and dials the call. If dialing fails the session is
// ended immediately so a failed dial never leaks an active entry.
func (c *OutboundCall) Start(ctx context.Context) error {
	c.tracker.Begin(c.conversationID, c.toPhone, c.fromPhone)

	if err := c.dialer.Dial(ctx, c.conversationID, c.toPhone, c.fromPhone); err != nil {
		c.tracker.End(c.conversationID)
		return fmt.Errorf("dial %s failed: %w", c.toPhone, err)
	}

	c.logger.Info("outbound call connected", "conversation_id", c.conversationID, "to_phone", c.toPhone)
	return nil
}

// End hangs up and stops tracking, returning the final session record. The
// tracking side always completes even when the hangup fails, so callers can
// run End unconditionally in their cleanup path. The snapshot is nil when the
// session was not tracked (already ended or never started).
func (c *OutboundCall) End(ctx context.Context) (*core.CallSession, error) {
	hangupErr := c.dialer.Hangup(ctx, c.conversationID)

	snapshot, ok := c.tracker.End(c.conversationID)
	if !ok {
		snapshot = nil
	}

	if hangupErr != nil {
		return snapshot, fmt.Errorf("hangup %s failed: %w", c.conversationID, hangupErr)
	}
	return snapshot, nil
}
