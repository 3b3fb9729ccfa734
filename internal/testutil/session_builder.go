package testutil

import (
	"time"

	"github.com/hupe1980/callmesh/core"
)

// CallSessionBuilder provides a fluent helper for constructing call sessions
// in tests. Example:
//
//	s := NewCallSessionBuilder().ID("c1").Phones("+1555", "+1777").StartedAt(t0).Build()
//
// Chain only the parts you need; sensible defaults are applied.
type CallSessionBuilder struct {
	id             string
	toPhone        string
	fromPhone      string
	startedAt      time.Time
	agentStartedAt *time.Time
	endedAt        *time.Time
}

// NewCallSessionBuilder creates a builder with default id "conv-test".
func NewCallSessionBuilder() *CallSessionBuilder {
	return &CallSessionBuilder{id: "conv-test", startedAt: time.Now()}
}

// ID sets the conversation id (chainable).
func (b *CallSessionBuilder) ID(id string) *CallSessionBuilder { b.id = id; return b }

// Phones sets the to and from phone numbers (chainable).
func (b *CallSessionBuilder) Phones(to, from string) *CallSessionBuilder {
	b.toPhone = to
	b.fromPhone = from
	return b
}

// StartedAt sets the call start timestamp (chainable).
func (b *CallSessionBuilder) StartedAt(t time.Time) *CallSessionBuilder { b.startedAt = t; return b }

// AgentStartedAt marks the agent as started at t (chainable).
func (b *CallSessionBuilder) AgentStartedAt(t time.Time) *CallSessionBuilder {
	b.agentStartedAt = &t
	return b
}

// EndedAt marks the call as ended at t (chainable). The cached Duration is
// derived from StartedAt.
func (b *CallSessionBuilder) EndedAt(t time.Time) *CallSessionBuilder { b.endedAt = &t; return b }

// Build constructs the core.CallSession value.
func (b *CallSessionBuilder) Build() *core.CallSession {
	s := &core.CallSession{
		ConversationID: b.id,
		ToPhone:        b.toPhone,
		FromPhone:      b.fromPhone,
		StartedAt:      b.startedAt,
	}
	if b.agentStartedAt != nil {
		t := *b.agentStartedAt
		s.AgentStarted = true
		s.AgentStartedAt = &t
	}
	if b.endedAt != nil {
		t := *b.endedAt
		s.EndedAt = &t
		d := t.Sub(b.startedAt)
		s.Duration = &d
	}
	return s
}
