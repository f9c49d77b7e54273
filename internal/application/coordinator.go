package application

import (
	"os"
	"os/signal"
	"sync"
)

// CoordinatorState is the interrupt coordinator's state.
type CoordinatorState int

const (
	StateRunning CoordinatorState = iota
	StateStopping
)

func (s CoordinatorState) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateStopping:
		return "stopping"
	default:
		return "unknown"
	}
}

// Coordinator is the two-state interrupt state machine. A termination
// request transitions running -> stopping; the scan worker polls Stopping at
// its suspension points (between chunks) and finishes the in-flight chunk
// before exiting. Further requests while stopping are no-ops: the wait is
// bounded by one chunk, not the whole corpus.
type Coordinator struct {
	mu    sync.Mutex
	state CoordinatorState
}

// NewCoordinator creates a coordinator in the running state.
func NewCoordinator() *Coordinator {
	return &Coordinator{state: StateRunning}
}

// RequestStop transitions running -> stopping. Reports whether this call
// caused the transition.
func (c *Coordinator) RequestStop() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateStopping {
		return false
	}
	c.state = StateStopping
	return true
}

// Stopping reports whether a termination request has been received.
func (c *Coordinator) Stopping() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state == StateStopping
}

// State returns the current state.
func (c *Coordinator) State() CoordinatorState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// WatchSignals routes termination signals into RequestStop until the
// returned stop function is called. onStop, if non-nil, runs once on the
// first request (for a "finishing current chunk" notice).
func (c *Coordinator) WatchSignals(onStop func(), sigs ...os.Signal) func() {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, sigs...)

	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-ch:
				if c.RequestStop() && onStop != nil {
					onStop()
				}
			case <-done:
				return
			}
		}
	}()

	return func() {
		signal.Stop(ch)
		close(done)
	}
}
