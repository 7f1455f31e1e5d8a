package reactor

import (
	"errors"
	"fmt"
	"reflect"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/joeycumines/logiface"

	"github.com/1broseidon/gaudium/internal/event"
	"github.com/1broseidon/gaudium/internal/platform"
)

// Option configures an event thread.
type Option func(*options)

type options struct {
	log *logiface.Logger[logiface.Event]
}

// WithLogger sets the logger used by the event thread and exposed through
// ThreadContext.Logger.
func WithLogger(l *logiface.Logger[logiface.Event]) Option {
	return func(o *options) {
		o.log = l
	}
}

// Bindings without MultiLoop get one active event thread per binding value.
var loops = struct {
	sync.Mutex
	active map[platform.Binding]struct{}
}{active: make(map[platform.Binding]struct{})}

// acquireLoop claims b's loop slot. A single-loop binding must be comparable
// so that the slot can be found again.
func acquireLoop(b platform.Binding) error {
	if platform.SupportsMultipleLoops(b) {
		return nil
	}
	if !reflect.TypeOf(b).Comparable() {
		return fmt.Errorf("binding type %T is not comparable", b)
	}
	loops.Lock()
	defer loops.Unlock()
	if _, busy := loops.active[b]; busy {
		return errors.New("binding does not support multiple event threads")
	}
	loops.active[b] = struct{}{}
	return nil
}

func releaseLoop(b platform.Binding) {
	if platform.SupportsMultipleLoops(b) {
		return
	}
	loops.Lock()
	delete(loops.active, b)
	loops.Unlock()
}

// Thread is an event thread started with Go.
type Thread struct {
	binding   platform.Binding
	construct ConstructFunc
	log       *logiface.Logger[logiface.Event]
	proxy     *Proxy
	state     atomic.Int32
	done      chan struct{}
	err       error
}

func newThread(b platform.Binding, construct ConstructFunc, opts []Option) *Thread {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return &Thread{
		binding:   b,
		construct: construct,
		log:       o.log,
		proxy:     newProxy(),
		done:      make(chan struct{}),
	}
}

// Run opens a session on b, constructs a reactor and runs the event loop on
// the calling goroutine, locked to its OS thread, until the reactor aborts or
// the binding fails. It returns nil after an Abort directive.
func Run(b platform.Binding, construct ConstructFunc, opts ...Option) error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	t := newThread(b, construct, opts)
	defer close(t.done)
	t.err = t.run()
	return t.err
}

// RunAndAbort is Run. The reactor is always aborted before it returns.
func RunAndAbort(b platform.Binding, construct ConstructFunc, opts ...Option) error {
	return Run(b, construct, opts...)
}

// Go starts an event thread on a new goroutine locked to its own OS thread.
func Go(b platform.Binding, construct ConstructFunc, opts ...Option) *Thread {
	t := newThread(b, construct, opts)
	go func() {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
		defer close(t.done)
		t.err = t.run()
	}()
	return t
}

// Proxy returns the thread's command entry. It accepts commands before the
// loop has started; they run on its first cycle.
func (t *Thread) Proxy() *Proxy {
	return t.proxy
}

// State returns the current lifecycle phase.
func (t *Thread) State() State {
	return State(t.state.Load())
}

// Done is closed when the thread has exited.
func (t *Thread) Done() <-chan struct{} {
	return t.done
}

// Err returns the thread's exit error. It is nil until Done is closed.
func (t *Thread) Err() error {
	select {
	case <-t.done:
		return t.err
	default:
		return nil
	}
}

// Wait blocks until the thread exits and returns its error.
func (t *Thread) Wait() error {
	<-t.done
	return t.err
}

func (t *Thread) setState(s State) {
	t.state.Store(int32(s))
}

func (t *Thread) run() error {
	defer t.proxy.close()

	name := t.binding.Name()
	if err := acquireLoop(t.binding); err != nil {
		return platform.NewError(platform.KindInit, "run "+name, 0, err)
	}
	defer releaseLoop(t.binding)

	session, err := t.binding.Open()
	if err != nil {
		if platform.KindOf(err) == 0 {
			err = platform.NewError(platform.KindInit, "open "+name, 0, err)
		}
		t.log.Err().Str("binding", name).Err(err).Log("failed to open platform session")
		return err
	}

	ctx := newThreadContext(t.binding, session, t.proxy, t.log)
	t.log.Debug().Str("binding", name).Log("thread context created")
	defer func() {
		ctx.invalidate()
		if err := session.Close(); err != nil {
			t.log.Warning().Str("binding", name).Err(err).Log("failed to close platform session")
		}
	}()

	t.setState(StateConstructing)
	r, err := t.construct(ctx)
	if err == nil && r == nil {
		err = errors.New("constructor returned no reactor")
	}
	if err != nil {
		t.setState(StateAborted)
		ctx.closeWindows()
		t.log.Err().Str("binding", name).Err(err).Log("reactor construction failed")
		return fmt.Errorf("construct reactor: %w", err)
	}
	t.log.Debug().Str("binding", name).Log("reactor constructed")

	return t.loop(ctx, r)
}

func (t *Thread) loop(ctx *ThreadContext, r Reactor) error {
	aborted := false
	abort := func() {
		aborted = true
		t.setState(StateAborting)
		r.Abort()
		t.setState(StateAborted)
	}
	// A panicking React still gets its Abort; the panic keeps unwinding.
	defer func() {
		if !aborted {
			t.log.Err().Log("reactor panicked, aborting")
			abort()
		}
	}()

	t.setState(StateReacting)
	poller, _ := r.(Poller)
	next := Continue
	for {
		// Signals raised before this point are answered by the drain and
		// pump below.
		clearSignal(ctx.session.Ready())
		clearSignal(ctx.proxy.wake)
		ctx.proxy.drain(ctx)

		stop, err := t.flush(ctx, r, &next)
		if err != nil {
			t.log.Err().Err(err).Log("fatal platform condition")
			abort()
			return fmt.Errorf("event thread: %w", err)
		}
		if stop {
			break
		}

		if poller != nil {
			next = poller.Poll(ctx)
			if next.IsAbort() {
				break
			}
		}

		cause, waited := t.idle(ctx, next)
		if !waited {
			continue
		}
		next = r.React(ctx, event.Resumed{Cause: cause})
		if next.IsAbort() {
			break
		}
	}

	t.log.Info().Log("reactor aborted")
	abort()
	return nil
}

// flush delivers every pending native event. It reports stop when the
// reactor aborts and returns the binding's fatal error, if any.
func (t *Thread) flush(ctx *ThreadContext, r Reactor, next *Directive) (stop bool, err error) {
	for native, perr := range ctx.session.Pump() {
		if perr != nil {
			if errors.Is(perr, platform.ErrFatal) {
				return true, perr
			}
			t.log.Warning().Err(perr).Log("pump error")
			continue
		}
		e, ok := ctx.session.Translate(native)
		if !ok {
			t.log.Debug().Str("native", fmt.Sprintf("%T", native)).Log("dropped native event")
			continue
		}
		ctx.observe(e)
		d := r.React(ctx, e)
		if d.IsAbort() {
			return true, nil
		}
		*next = d
	}
	return false, nil
}

// idle blocks according to d and reports why it woke. It reports false when
// d does not wait. A proxy signal whose commands already ran does not end
// the wait.
func (t *Thread) idle(ctx *ThreadContext, d Directive) (event.ResumeCause, bool) {
	var timeout <-chan time.Time
	switch d.mode {
	case modeWait:
	case modeWaitUntil:
		timer := time.NewTimer(time.Until(d.deadline))
		defer timer.Stop()
		timeout = timer.C
	default:
		return 0, false
	}
	if ctx.proxy.woken.Swap(false) {
		return event.ResumeWake, true
	}

	ready := ctx.session.Ready()
	for {
		select {
		case <-ready:
			return event.ResumeNative, true
		case <-ctx.proxy.wake:
			if ctx.proxy.pending() {
				return event.ResumeWake, true
			}
		case <-timeout:
			return event.ResumeTimeout, true
		}
	}
}

func clearSignal(ch <-chan struct{}) {
	select {
	case <-ch:
	default:
	}
}
