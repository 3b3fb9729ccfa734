package tracker

import (
	"sync"
	"time"

	"github.com/hupe1980/callmesh/core"
	"github.com/hupe1980/callmesh/logging"
)

// Options holds configuration overrides passed to NewInMemoryTracker.
type Options struct {
	// Logger receives one structured line per lifecycle transition.
	// Defaults to NoOpLogger.
	Logger logging.Logger
	// Now overrides the clock, mainly so tests can assert exact durations.
	Now func() time.Time
}

// InMemoryTracker is a volatile CallTracker implementation storing sessions in
// a process local map. It is safe for concurrent access: a single mutex guards
// the map for the duration of each operation and every returned session is a
// clone, so callers never observe a record mid-mutation.
//
// There is no automatic expiry. A caller that never calls End leaks the entry
// for the life of the process.
type InMemoryTracker struct {
	mu       sync.RWMutex
	sessions map[string]*core.CallSession
	logger   logging.Logger
	now      func() time.Time
}

// NewInMemoryTracker constructs an empty in-memory call tracker.
func NewInMemoryTracker(optFns ...func(o *Options)) *InMemoryTracker {
	opts := Options{
		Logger: logging.NoOpLogger{},
		Now:    time.Now,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &InMemoryTracker{
		sessions: make(map[string]*core.CallSession),
		logger:   opts.Logger,
		now:      opts.Now,
	}
}

// Begin starts tracking a call session. An existing record under the same
// conversation id is silently replaced; callers must guarantee id uniqueness
// per concurrent call.
func (t *InMemoryTracker) Begin(conversationID, toPhone, fromPhone string) {
	startedAt := t.now()
	s := &core.CallSession{
		ConversationID: conversationID,
		ToPhone:        toPhone,
		FromPhone:      fromPhone,
		StartedAt:      startedAt,
	}

	t.mu.Lock()
	t.sessions[conversationID] = s
	t.mu.Unlock()

	t.logger.Info("call started",
		"conversation_id", conversationID,
		"from_phone", fromPhone,
		"to_phone", toPhone,
		"start_time", startedAt.Format(core.WallclockLayout),
	)
}

// MarkAgentStarted records the moment the agent begins its first operation on
// the call. Unknown ids log a warning and have no effect. A repeat call for
// the same id overwrites the previous agent start time and logs a new, larger
// setup duration.
func (t *InMemoryTracker) MarkAgentStarted(conversationID string) {
	agentStartedAt := t.now()

	t.mu.Lock()
	s, ok := t.sessions[conversationID]
	var setup time.Duration
	if ok {
		s.AgentStarted = true
		s.AgentStartedAt = &agentStartedAt
		setup = agentStartedAt.Sub(s.StartedAt)
	}
	t.mu.Unlock()

	if !ok {
		t.logger.Warn("call session not found for agent start tracking", "conversation_id", conversationID)
		return
	}

	t.logger.Info("agent started",
		"conversation_id", conversationID,
		"agent_start_time", agentStartedAt.Format(core.WallclockLayout),
		"call_setup_duration", logging.FormatSeconds(setup),
	)
}

// End stops tracking a call session, logs the summary and returns the final
// record. The lookup and removal happen in one critical section, so a second
// End for the same id returns nil, false.
func (t *InMemoryTracker) End(conversationID string) (*core.CallSession, bool) {
	endedAt := t.now()

	t.mu.Lock()
	s, ok := t.sessions[conversationID]
	if ok {
		s.EndedAt = &endedAt
		total := endedAt.Sub(s.StartedAt)
		s.Duration = &total
		delete(t.sessions, conversationID)
	}
	t.mu.Unlock()

	if !ok {
		t.logger.Warn("call session not found for end tracking", "conversation_id", conversationID)
		return nil, false
	}

	args := []any{
		"conversation_id", conversationID,
		"from_phone", s.FromPhone,
		"to_phone", s.ToPhone,
		"start_time", s.StartedAt.Format(core.WallclockLayout),
		"end_time", endedAt.Format(core.WallclockLayout),
		"total_duration", logging.FormatSeconds(*s.Duration),
		"total_duration_minutes", logging.FormatMinutes(*s.Duration),
	}
	if agentDur, hasAgent := s.AgentDuration(); hasAgent {
		args = append(args, "agent_duration", logging.FormatSeconds(agentDur))
	} else {
		args = append(args, "agent_never_started", true)
	}
	t.logger.Info("call ended", args...)

	// The record has been removed from the map, so returning it directly is
	// safe; no other caller can reach it anymore.
	return s, true
}

// Status returns a snapshot of the current session state including a freshly
// computed CurrentDuration, or nil, false for unknown (or already ended) ids.
func (t *InMemoryTracker) Status(conversationID string) (*core.CallSession, bool) {
	t.mu.RLock()
	s, ok := t.sessions[conversationID]
	var snapshot *core.CallSession
	if ok {
		snapshot = s.Clone()
	}
	t.mu.RUnlock()

	if !ok {
		return nil, false
	}
	snapshot.CurrentDuration = t.now().Sub(snapshot.StartedAt)
	return snapshot, true
}

// ActiveCalls returns a snapshot of every session currently tracked, keyed by
// conversation id and annotated with a freshly computed CurrentDuration. End
// removes sessions atomically, so every entry here is live.
func (t *InMemoryTracker) ActiveCalls() map[string]*core.CallSession {
	now := t.now()

	t.mu.RLock()
	active := make(map[string]*core.CallSession, len(t.sessions))
	for id, s := range t.sessions {
		snapshot := s.Clone()
		snapshot.CurrentDuration = now.Sub(snapshot.StartedAt)
		active[id] = snapshot
	}
	t.mu.RUnlock()

	return active
}
