// Package connector coordinates the set of solver threads racing on one
// formula: whichever thread finishes first commits the result, every
// other thread is told to stop, and an external signal (SIGINT, SIGXCPU)
// aborts the whole race cleanly.
package connector

import (
	"sync/atomic"

	"github.com/nyxsat/cdsat/internal/sat"
)

// Status is the race's outcome, stored atomically so every thread can poll
// it without a lock.
type Status int32

const (
	Undef Status = iota
	SatStatus
	UnsatStatus
	Aborted
)

func (s Status) String() string {
	switch s {
	case SatStatus:
		return "sat"
	case UnsatStatus:
		return "unsat"
	case Aborted:
		return "aborted"
	default:
		return "undef"
	}
}

// Connector is the single point of agreement across solver threads: the
// first thread to call Commit with a definitive result wins, every
// subsequent Commit is a no-op, and a commit or Abort() makes ShouldStop
// return true for everyone still running.
type Connector struct {
	status Status32
	model  atomic.Value // []bool

	nThreads    int32
	initialized int32
}

// Status32 wraps the atomic access pattern for Status so callers never
// touch the underlying int32 directly.
type Status32 struct{ v int32 }

func (s *Status32) Load() Status           { return Status(atomic.LoadInt32(&s.v)) }
func (s *Status32) CompareAndSwap(old, new Status) bool {
	return atomic.CompareAndSwapInt32(&s.v, int32(old), int32(new))
}

func New(nThreads int) *Connector {
	return &Connector{nThreads: int32(nThreads)}
}

// ShouldStop reports whether some thread has already committed a result or
// the race was aborted; every solver thread checks this at the top of each
// search-loop iteration, through the stop function it passes to Solve.
func (c *Connector) ShouldStop() bool {
	return c.status.Load() != Undef
}

// Commit reports res from one solver thread. Only the first non-Undef
// result sticks; res and model are ignored on every later call.
func (c *Connector) Commit(res sat.Result, model []bool) {
	var want Status
	switch res {
	case sat.Sat:
		want = SatStatus
	case sat.Unsat:
		want = UnsatStatus
	default:
		return
	}
	if c.status.CompareAndSwap(Undef, want) {
		c.model.Store(model)
	}
}

// Abort forces the race to stop without a definitive result, e.g. in
// response to an OS signal or a wall-clock timeout.
func (c *Connector) Abort() {
	c.status.CompareAndSwap(Undef, Aborted)
}

func (c *Connector) Status() Status { return c.status.Load() }

// Model returns the committed model, if the race ended Sat.
func (c *Connector) Model() []bool {
	if m, ok := c.model.Load().([]bool); ok {
		return m
	}
	return nil
}
