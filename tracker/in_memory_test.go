package tracker

import (
	"bytes"
	"fmt"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/callmesh/core"
	"github.com/hupe1980/callmesh/internal/testutil"
	"github.com/hupe1980/callmesh/logging"
)

// Interface compliance (compile-time assertion)
var _ core.CallTracker = (*InMemoryTracker)(nil)

var testStart = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

func newStepTracker(step time.Duration, optFns ...func(o *Options)) (*InMemoryTracker, *testutil.StepClock) {
	clock := testutil.NewStepClock(testStart, step)
	t := NewInMemoryTracker(append(optFns, func(o *Options) { o.Now = clock.Now })...)
	return t, clock
}

func TestInMemoryTracker_BeginEnd(t *testing.T) {
	tr, _ := newStepTracker(time.Second)

	tr.Begin("c1", "+1555", "+1777")
	s, ok := tr.End("c1")

	require.True(t, ok)
	require.NotNil(t, s)
	assert.Equal(t, "c1", s.ConversationID)
	assert.Equal(t, "+1555", s.ToPhone)
	assert.Equal(t, "+1777", s.FromPhone)
	assert.True(t, s.Ended())

	total, hasTotal := s.TotalDuration()
	require.True(t, hasTotal)
	assert.Equal(t, time.Second, total)
	assert.Equal(t, s.EndedAt.Sub(s.StartedAt), total)

	assert.Empty(t, tr.ActiveCalls())
}

func TestInMemoryTracker_EndUnknown(t *testing.T) {
	var buf bytes.Buffer
	tr := NewInMemoryTracker(func(o *Options) {
		o.Logger = logging.NewSlogAdapter(slog.New(slog.NewTextHandler(&buf, nil)))
	})

	s, ok := tr.End("ghost")
	assert.False(t, ok)
	assert.Nil(t, s)
	assert.Contains(t, buf.String(), "level=WARN")
	assert.Contains(t, buf.String(), "conversation_id=ghost")

	// Second End on an already ended id behaves the same.
	tr.Begin("c1", "+1555", "+1777")
	_, ok = tr.End("c1")
	require.True(t, ok)
	s, ok = tr.End("c1")
	assert.False(t, ok)
	assert.Nil(t, s)
}

func TestInMemoryTracker_MarkAgentBeforeBegin(t *testing.T) {
	var buf bytes.Buffer
	tr, _ := newStepTracker(time.Second, func(o *Options) {
		o.Logger = logging.NewSlogAdapter(slog.New(slog.NewTextHandler(&buf, nil)))
	})

	tr.MarkAgentStarted("c1")
	assert.Contains(t, buf.String(), "level=WARN")

	// A later Begin is unaffected by the stray call.
	tr.Begin("c1", "+1555", "+1777")
	s, ok := tr.Status("c1")
	require.True(t, ok)
	assert.False(t, s.AgentStarted)
	assert.Nil(t, s.AgentStartedAt)
}

func TestInMemoryTracker_AgentLifecycle(t *testing.T) {
	// begin -> +1s agent start -> +1s end
	tr, _ := newStepTracker(time.Second)

	tr.Begin("c1", "+1555", "+1777")
	tr.MarkAgentStarted("c1")
	s, ok := tr.End("c1")

	require.True(t, ok)
	assert.True(t, s.AgentStarted)

	setup, hasSetup := s.SetupDuration()
	require.True(t, hasSetup)
	assert.Equal(t, time.Second, setup)

	agentDur, hasAgent := s.AgentDuration()
	require.True(t, hasAgent)
	assert.Equal(t, time.Second, agentDur)

	total, _ := s.TotalDuration()
	assert.Equal(t, 2*time.Second, total)
}

func TestInMemoryTracker_EndWithoutAgent(t *testing.T) {
	tr, _ := newStepTracker(time.Second)

	tr.Begin("c1", "+1555", "+1777")
	s, ok := tr.End("c1")

	require.True(t, ok)
	assert.False(t, s.AgentStarted)
	_, hasAgent := s.AgentDuration()
	assert.False(t, hasAgent)
}

func TestInMemoryTracker_StatusCurrentDuration(t *testing.T) {
	tr, _ := newStepTracker(time.Second)

	tr.Begin("c1", "+1555", "+1777")

	var last time.Duration
	for i := 0; i < 3; i++ {
		s, ok := tr.Status("c1")
		require.True(t, ok)
		assert.Greater(t, s.CurrentDuration, last, "current duration must increase across polls")
		last = s.CurrentDuration
	}

	// CurrentDuration is derived on read, never stored.
	tr.MarkAgentStarted("c1")
	final, _ := tr.End("c1")
	assert.Zero(t, final.CurrentDuration)
}

func TestInMemoryTracker_StatusUnknown(t *testing.T) {
	tr, _ := newStepTracker(time.Second)

	s, ok := tr.Status("ghost")
	assert.False(t, ok)
	assert.Nil(t, s)

	tr.Begin("c1", "+1555", "+1777")
	tr.End("c1")
	s, ok = tr.Status("c1")
	assert.False(t, ok, "ended sessions are removed and report not found")
	assert.Nil(t, s)
}

func TestInMemoryTracker_StatusReturnsSnapshot(t *testing.T) {
	tr, _ := newStepTracker(time.Second)

	tr.Begin("c1", "+1555", "+1777")
	s, ok := tr.Status("c1")
	require.True(t, ok)

	s.ToPhone = "tampered"
	s.AgentStarted = true

	fresh, _ := tr.Status("c1")
	assert.Equal(t, "+1555", fresh.ToPhone)
	assert.False(t, fresh.AgentStarted)
}

func TestInMemoryTracker_ActiveCalls(t *testing.T) {
	tr, _ := newStepTracker(time.Second)

	assert.Empty(t, tr.ActiveCalls())

	tr.Begin("c1", "+1555", "+1777")
	tr.Begin("c2", "+1666", "+1777")
	tr.Begin("c3", "+1888", "+1777")
	tr.End("c2")

	active := tr.ActiveCalls()
	require.Len(t, active, 2)
	assert.Contains(t, active, "c1")
	assert.Contains(t, active, "c3")
	for _, s := range active {
		assert.Greater(t, s.CurrentDuration, time.Duration(0))
	}
}

func TestInMemoryTracker_RepeatMarkAgentOverwrites(t *testing.T) {
	tr, _ := newStepTracker(time.Second)

	tr.Begin("c1", "+1555", "+1777")
	tr.MarkAgentStarted("c1")
	first, _ := tr.Status("c1")
	tr.MarkAgentStarted("c1")
	second, _ := tr.Status("c1")

	require.NotNil(t, first.AgentStartedAt)
	require.NotNil(t, second.AgentStartedAt)
	assert.True(t, second.AgentStartedAt.After(*first.AgentStartedAt),
		"a repeat call re-stamps the agent start time")
}

func TestInMemoryTracker_BeginReplacesExisting(t *testing.T) {
	tr, _ := newStepTracker(time.Second)

	tr.Begin("c1", "+1555", "+1777")
	tr.MarkAgentStarted("c1")
	tr.Begin("c1", "+1999", "+1777")

	s, ok := tr.Status("c1")
	require.True(t, ok)
	assert.Equal(t, "+1999", s.ToPhone)
	assert.False(t, s.AgentStarted, "replacement starts from a fresh record")
}

func TestInMemoryTracker_EndLogsSummary(t *testing.T) {
	var buf bytes.Buffer
	tr, _ := newStepTracker(time.Second, func(o *Options) {
		o.Logger = logging.NewSlogAdapter(slog.New(slog.NewTextHandler(&buf, nil)))
	})

	tr.Begin("c1", "+1555", "+1777")
	tr.End("c1")

	out := buf.String()
	assert.Contains(t, out, "call started")
	assert.Contains(t, out, "call ended")
	assert.Contains(t, out, "total_duration=1.00s")
	assert.Contains(t, out, "total_duration_minutes=0.02m")
	assert.Contains(t, out, "agent_never_started=true")
	assert.Contains(t, out, `start_time="2025-03-01 10:00:00"`)
	assert.Contains(t, out, `end_time="2025-03-01 10:00:01"`)
}

func TestInMemoryTracker_AgentDurationLogged(t *testing.T) {
	var buf bytes.Buffer
	tr, _ := newStepTracker(30*time.Second, func(o *Options) {
		o.Logger = logging.NewSlogAdapter(slog.New(slog.NewTextHandler(&buf, nil)))
	})

	tr.Begin("c1", "+1555", "+1777")
	tr.MarkAgentStarted("c1")
	tr.End("c1")

	out := buf.String()
	assert.Contains(t, out, "call_setup_duration=30.00s")
	assert.Contains(t, out, "agent_duration=30.00s")
	assert.Contains(t, out, "total_duration=60.00s")
	assert.Contains(t, out, "total_duration_minutes=1.00m")
	assert.NotContains(t, out, "agent_never_started")
}

func TestInMemoryTracker_ConcurrentAccess(t *testing.T) {
	tr := NewInMemoryTracker()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			id := fmt.Sprintf("c%d", n)
			tr.Begin(id, "+1555", "+1777")
			tr.MarkAgentStarted(id)
			tr.Status(id)
			tr.ActiveCalls()
			if _, ok := tr.End(id); !ok {
				t.Errorf("End(%s) should find the session", id)
			}
		}(i)
	}
	wg.Wait()

	assert.Empty(t, tr.ActiveCalls())
}
