package telephony

import (
	"context"
	"time"
)

// Dialer places and tears down calls with a telephony provider. Implementations
// must be safe for concurrent use; one Dial/Hangup pair runs per conversation.
type Dialer interface {
	Dial(ctx context.Context, conversationID, toPhone, fromPhone string) error
	Hangup(ctx context.Context, conversationID string) error
}

// SimulatedDialerOptions configure the simulated dialer.
type SimulatedDialerOptions struct {
	// DialDelay simulates provider round-trip latency before the dial
	// completes.
	DialDelay time.Duration
}

// SimulatedDialer is a Dialer that performs no signaling. It is the default
// wiring for demos and tests, where only the tracking side effects matter.
type SimulatedDialer struct {
	opts SimulatedDialerOptions
}

// NewSimulatedDialer constructs a simulated dialer with optional overrides.
func NewSimulatedDialer(optFns ...func(o *SimulatedDialerOptions)) *SimulatedDialer {
	opts := SimulatedDialerOptions{}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &SimulatedDialer{opts: opts}
}

// Dial waits out the configured delay (honoring ctx) and reports success.
func (d *SimulatedDialer) Dial(ctx context.Context, conversationID, toPhone, fromPhone string) error {
	if d.opts.DialDelay <= 0 {
		return ctx.Err()
	}
	select {
	case <-time.After(d.opts.DialDelay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Hangup reports success immediately.
func (d *SimulatedDialer) Hangup(ctx context.Context, conversationID string) error {
	return ctx.Err()
}
