// Package callmesh provides a high-level façade over the call tracker and its
// collaborators (telephony controller, agent runner, monitoring) enabling
// rapid construction of tracked outbound-call applications. Most applications
// interact with this package by:
//  1. Creating a CallMesh via New() (optionally overriding the default in-memory tracker)
//  2. Placing calls (PlaceCall) and attaching an agent runner (NewAgentRunner)
//  3. Polling ActiveCalls / CallStatus for operational visibility
//
// The façade delegates all bookkeeping to the core.CallTracker while keeping
// setup and usage ergonomics concise. All defaults are safe for local
// development and testing; production deployments typically supply a real
// Dialer and a structured logger.
package callmesh

import (
	"context"

	"github.com/hupe1980/callmesh/agent"
	"github.com/hupe1980/callmesh/core"
	"github.com/hupe1980/callmesh/logging"
	"github.com/hupe1980/callmesh/model"
	"github.com/hupe1980/callmesh/telephony"
	"github.com/hupe1980/callmesh/tracker"
)

// Options configures the CallMesh instance.
type Options struct {
	// Tracker records call lifecycle transitions (defaults to an in-memory
	// implementation if not provided).
	Tracker core.CallTracker

	// Dialer places outbound calls (defaults to a SimulatedDialer).
	Dialer telephony.Dialer

	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger
}

// CallMesh is the high-level façade aggregating the tracker and its collaborators.
type CallMesh struct {
	tracker core.CallTracker
	dialer  telephony.Dialer
	logger  logging.Logger
}

// New creates a new CallMesh instance with optional overrides. Any unset
// service is initialized with an in-memory implementation.
func New(optFns ...func(o *Options)) *CallMesh {
	opts := Options{
		Dialer: telephony.NewSimulatedDialer(),
		Logger: logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Tracker == nil {
		opts.Tracker = tracker.NewInMemoryTracker(func(o *tracker.Options) {
			o.Logger = opts.Logger
		})
	}

	return &CallMesh{tracker: opts.Tracker, dialer: opts.Dialer, logger: opts.Logger}
}

// Tracker exposes the underlying call tracker for collaborators that need it.
func (m *CallMesh) Tracker() core.CallTracker { return m.tracker }

// PlaceCall creates and starts an outbound call tracked under a fresh
// conversation id. The returned controller is live on success; on failure the
// session has already been ended and the controller is returned for inspection
// alongside the error.
func (m *CallMesh) PlaceCall(ctx context.Context, toPhone, fromPhone string) (*telephony.OutboundCall, error) {
	call := telephony.NewOutboundCall(m.tracker, toPhone, fromPhone, func(o *telephony.Options) {
		o.Dialer = m.dialer
		o.Logger = m.logger
	})
	if err := call.Start(ctx); err != nil {
		return call, err
	}
	return call, nil
}

// NewAgentRunner constructs an agent runner wired to this mesh's tracker, so
// the runner's first turn per conversation marks the agent start.
func (m *CallMesh) NewAgentRunner(llm model.Model, instructions string) *agent.Runner {
	return agent.NewRunner(llm, func(o *agent.Options) {
		o.Instructions = instructions
		o.Tracker = m.tracker
		o.Logger = m.logger
	})
}

// CallStatus returns a snapshot of a live call including its current
// duration, or nil, false when the id is unknown or the call has ended.
func (m *CallMesh) CallStatus(conversationID string) (*core.CallSession, bool) {
	return m.tracker.Status(conversationID)
}

// ActiveCalls returns snapshots of every live call keyed by conversation id.
func (m *CallMesh) ActiveCalls() map[string]*core.CallSession {
	return m.tracker.ActiveCalls()
}
