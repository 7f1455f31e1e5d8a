// Package reactor runs platform event loops and delivers their events to
// user-supplied reactors.
//
// An event thread owns one native event loop. It opens a platform session,
// constructs a Reactor from a ThreadContext, then repeatedly pumps native
// events, translates them and hands each one to Reactor.React. The Directive
// returned by React decides whether the loop continues, idles, or aborts.
// Abort is called exactly once for every reactor that was constructed.
//
// Code holding a *ThreadContext is running on the event thread. Other
// goroutines reach the loop only through a Proxy.
package reactor

import (
	"fmt"
	"time"

	"github.com/1broseidon/gaudium/internal/event"
)

// Reactor reacts to events on the event thread and owns user state.
type Reactor interface {
	// React handles one event. It must not block.
	React(ctx *ThreadContext, e event.Event) Directive
	// Abort releases everything the reactor owns. The reactor is never used
	// again afterwards.
	Abort()
}

// Poller is implemented by reactors that choose the idle mode explicitly.
// Poll is called once each time the pending events have been delivered.
type Poller interface {
	Poll(ctx *ThreadContext) Directive
}

// ConstructFunc builds a reactor on the event thread.
type ConstructFunc func(ctx *ThreadContext) (Reactor, error)

type mode uint8

const (
	modeReady mode = iota
	modeWait
	modeWaitUntil
	modeAbort
)

// Directive tells the event thread what to do after a reaction.
type Directive struct {
	mode     mode
	deadline time.Time
}

var (
	// Continue resumes the loop immediately without idling.
	Continue = Directive{mode: modeReady}
	// Wait idles until a native event arrives or the loop is woken.
	Wait = Directive{mode: modeWait}
	// Abort stops the loop and tears down the reactor.
	Abort = Directive{mode: modeAbort}
)

// WaitUntil idles until a native event arrives, the loop is woken, or t is
// reached.
func WaitUntil(t time.Time) Directive {
	return Directive{mode: modeWaitUntil, deadline: t}
}

// IsAbort reports whether d stops the loop.
func (d Directive) IsAbort() bool {
	return d.mode == modeAbort
}

// Deadline returns the wait deadline of a WaitUntil directive.
func (d Directive) Deadline() (time.Time, bool) {
	return d.deadline, d.mode == modeWaitUntil
}

func (d Directive) String() string {
	switch d.mode {
	case modeReady:
		return "continue"
	case modeWait:
		return "wait"
	case modeWaitUntil:
		return fmt.Sprintf("wait-until(%s)", d.deadline.Format(time.RFC3339Nano))
	case modeAbort:
		return "abort"
	default:
		return "unknown"
	}
}

// FuncReactor adapts a function to Reactor. It idles between events and
// has nothing to tear down.
type FuncReactor func(ctx *ThreadContext, e event.Event) Directive

func (f FuncReactor) React(ctx *ThreadContext, e event.Event) Directive {
	return f(ctx, e)
}

func (f FuncReactor) Poll(*ThreadContext) Directive {
	return Wait
}

func (FuncReactor) Abort() {}

// StatefulReactor pairs explicit state with a reaction function. It idles
// between events.
type StatefulReactor[T any] struct {
	State T
	// OnEvent is called for every event with a pointer to State.
	OnEvent func(state *T, ctx *ThreadContext, e event.Event) Directive
	// OnAbort, when set, tears down State.
	OnAbort func(state *T)
}

// NewStatefulReactor builds a StatefulReactor with no teardown.
func NewStatefulReactor[T any](state T, f func(state *T, ctx *ThreadContext, e event.Event) Directive) *StatefulReactor[T] {
	return &StatefulReactor[T]{State: state, OnEvent: f}
}

func (r *StatefulReactor[T]) React(ctx *ThreadContext, e event.Event) Directive {
	return r.OnEvent(&r.State, ctx, e)
}

func (r *StatefulReactor[T]) Poll(*ThreadContext) Directive {
	return Wait
}

func (r *StatefulReactor[T]) Abort() {
	if r.OnAbort != nil {
		r.OnAbort(&r.State)
	}
}

// State is the lifecycle phase of an event thread.
type State int32

const (
	StateIdle State = iota
	StateConstructing
	StateReacting
	StateAborting
	StateAborted
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateConstructing:
		return "constructing"
	case StateReacting:
		return "reacting"
	case StateAborting:
		return "aborting"
	case StateAborted:
		return "aborted"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}
