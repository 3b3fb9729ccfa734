// Package monitor provides operational visibility over the call tracker: an
// on-demand Snapshot for health-check style endpoints and a Poller that
// periodically logs a summary of all active calls.
package monitor

import (
	"context"
	"sync"
	"time"

	"github.com/hupe1980/callmesh/core"
	"github.com/hupe1980/callmesh/logging"
)

// Snapshot is a point-in-time view of the active call set.
type Snapshot struct {
	Taken time.Time                    `json:"taken"`
	Count int                          `json:"count"`
	Calls map[string]*core.CallSession `json:"calls"`
}

// Options holds configuration overrides passed to NewPoller.
type Options struct {
	// Interval between polling sweeps. Defaults to 30s.
	Interval time.Duration
	// Logger receives one summary line per sweep. Defaults to NoOpLogger.
	Logger logging.Logger
}

// Poller periodically sweeps the tracker's active calls and logs a summary
// line per sweep. It holds no state of its own beyond the ticker; the tracker
// remains the single source of truth.
type Poller struct {
	tracker  core.CallTracker
	interval time.Duration
	logger   logging.Logger

	mu      sync.Mutex
	stop    chan struct{}
	stopped chan struct{}
}

// NewPoller constructs a Poller with optional overrides.
func NewPoller(tracker core.CallTracker, optFns ...func(o *Options)) *Poller {
	opts := Options{
		Interval: 30 * time.Second,
		Logger:   logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Poller{
		tracker:  tracker,
		interval: opts.Interval,
		logger:   opts.Logger,
	}
}

// Snapshot returns the current active call set without starting the poller.
func (p *Poller) Snapshot() Snapshot {
	calls := p.tracker.ActiveCalls()
	return Snapshot{
		Taken: time.Now(),
		Count: len(calls),
		Calls: calls,
	}
}

// Start launches the polling loop. It returns immediately; the loop runs
// until Stop is called or ctx is cancelled. Calling Start on a running poller
// is a no-op.
func (p *Poller) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stop != nil {
		return
	}
	p.stop = make(chan struct{})
	p.stopped = make(chan struct{})

	go p.loop(ctx, p.stop, p.stopped)
}

// Stop terminates the polling loop and waits for it to exit. Safe to call on
// a poller that was never started.
func (p *Poller) Stop() {
	p.mu.Lock()
	stop, stopped := p.stop, p.stopped
	p.stop, p.stopped = nil, nil
	p.mu.Unlock()

	if stop == nil {
		return
	}
	close(stop)
	<-stopped
}

func (p *Poller) loop(ctx context.Context, stop <-chan struct{}, stopped chan<- struct{}) {
	defer close(stopped)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			p.sweep()
		case <-stop:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (p *Poller) sweep() {
	calls := p.tracker.ActiveCalls()

	var longest time.Duration
	for _, s := range calls {
		if s.CurrentDuration > longest {
			longest = s.CurrentDuration
		}
	}

	p.logger.Info("active call sweep",
		"active_calls", len(calls),
		"longest_call", logging.FormatSeconds(longest),
	)
}
