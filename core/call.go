package core

import (
	"time"
)

// WallclockLayout is the layout used when timestamps are rendered into log
// lines. Downstream log pipelines parse these fields, so it is part of the
// observable contract.
const WallclockLayout = "2006-01-02 15:04:05"

// CallSession is the tracked record for a single outbound call, from the
// moment dialing starts until the call ends. Timestamps are time.Time values
// captured via the tracker's clock; since time.Now carries a monotonic
// reading, all duration math is immune to wall-clock adjustments while the
// formatted wallclock strings in logs come from the same values.
//
// Contract:
//   - ConversationID, ToPhone and FromPhone are immutable after creation
//   - AgentStartedAt, EndedAt and Duration are nil until the corresponding
//     lifecycle transition has happened
//   - Duration is cached exactly once, when the call ends
//   - CurrentDuration is derived on read for live sessions and is never
//     written to the stored record
//
// Mutation is confined to the owning tracker, which serializes access;
// values handed to callers are clones (or the final record after removal),
// so a CallSession needs no internal locking.
type CallSession struct {
	ConversationID  string         `json:"conversation_id"`
	ToPhone         string         `json:"to_phone"`
	FromPhone       string         `json:"from_phone"`
	StartedAt       time.Time      `json:"started_at"`
	AgentStarted    bool           `json:"agent_started"`
	AgentStartedAt  *time.Time     `json:"agent_started_at,omitempty"`
	EndedAt         *time.Time     `json:"ended_at,omitempty"`
	Duration        *time.Duration `json:"duration,omitempty"`
	CurrentDuration time.Duration  `json:"current_duration,omitempty"`
}

// Ended reports whether the call has been ended.
func (s *CallSession) Ended() bool { return s.EndedAt != nil }

// SetupDuration returns the elapsed time between call start and agent start.
// The second return value is false while the agent has not started.
func (s *CallSession) SetupDuration() (time.Duration, bool) {
	if s.AgentStartedAt == nil {
		return 0, false
	}
	return s.AgentStartedAt.Sub(s.StartedAt), true
}

// AgentDuration returns the elapsed time between agent start and call end.
// The second return value is false unless both timestamps are present.
func (s *CallSession) AgentDuration() (time.Duration, bool) {
	if s.AgentStartedAt == nil || s.EndedAt == nil {
		return 0, false
	}
	return s.EndedAt.Sub(*s.AgentStartedAt), true
}

// TotalDuration returns the cached end-to-end duration for an ended call, or
// false for a call that is still live.
func (s *CallSession) TotalDuration() (time.Duration, bool) {
	if s.Duration == nil {
		return 0, false
	}
	return *s.Duration, true
}

// Clone returns a deep copy of the session safe for independent use. Pointer
// fields are copied so later tracker mutations never show through.
func (s *CallSession) Clone() *CallSession {
	clone := *s
	if s.AgentStartedAt != nil {
		t := *s.AgentStartedAt
		clone.AgentStartedAt = &t
	}
	if s.EndedAt != nil {
		t := *s.EndedAt
		clone.EndedAt = &t
	}
	if s.Duration != nil {
		d := *s.Duration
		clone.Duration = &d
	}
	return &clone
}

// CallTracker records call lifecycle transitions and answers timing queries.
// Implementations must be safe for concurrent use; mutating operations never
// fail (unknown ids degrade to a logged warning), queries report existence
// through their ok result.
type CallTracker interface {
	// Begin starts tracking a call. An existing record under the same
	// conversation id is silently replaced.
	Begin(conversationID, toPhone, fromPhone string)

	// MarkAgentStarted records the moment the agent begins its first
	// operation on the call. Unknown ids are ignored apart from a warning.
	MarkAgentStarted(conversationID string)

	// End stops tracking a call and returns the final record. The lookup
	// and removal are atomic; a second End for the same id returns
	// nil, false.
	End(conversationID string) (*CallSession, bool)

	// Status returns a snapshot of a live session including its
	// CurrentDuration, or nil, false for unknown (or already ended) ids.
	Status(conversationID string) (*CallSession, bool)

	// ActiveCalls returns snapshots of every live session keyed by
	// conversation id, each with a freshly computed CurrentDuration.
	ActiveCalls() map[string]*CallSession
}
