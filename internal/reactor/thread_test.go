package reactor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1broseidon/gaudium/internal/event"
	"github.com/1broseidon/gaudium/internal/platform"
	"github.com/1broseidon/gaudium/internal/platform/fake"
)

type recorder struct {
	events []event.Event
	aborts int
	stop   func(e event.Event) bool
}

func (r *recorder) React(_ *ThreadContext, e event.Event) Directive {
	r.events = append(r.events, e)
	if r.stop != nil && r.stop(e) {
		return Abort
	}
	return Continue
}

func (r *recorder) Poll(*ThreadContext) Directive {
	return Wait
}

func (r *recorder) Abort() {
	r.aborts++
}

func constructing(r Reactor) ConstructFunc {
	return func(*ThreadContext) (Reactor, error) {
		return r, nil
	}
}

func isEscape(e event.Event) bool {
	k, ok := e.(event.Key)
	return ok && k.Code == event.KeyEscape
}

func isResumed(e event.Event) bool {
	_, ok := e.(event.Resumed)
	return ok
}

func TestRun_PreservesOrder(t *testing.T) {
	b := fake.New(fake.WithScript(
		fake.Key{Name: "a", Pressed: true},
		fake.Motion{X: 4, Y: 5},
		fake.Unmapped{Code: 1},
		fake.Button{Button: event.ButtonLeft, Pressed: true},
		fake.Key{Name: "a"},
		fake.Wheel{DY: -1},
		fake.Key{Name: "escape", Pressed: true},
		fake.Key{Name: "b", Pressed: true},
	))
	r := &recorder{stop: isEscape}

	require.NoError(t, Run(b, constructing(r)))

	require.Len(t, r.events, 6)
	assert.Equal(t, event.KeyA, r.events[0].(event.Key).Code)
	assert.IsType(t, event.MouseMoved{}, r.events[1])
	assert.IsType(t, event.MouseButton{}, r.events[2])
	assert.Equal(t, event.Released, r.events[3].(event.Key).State)
	assert.IsType(t, event.MouseWheel{}, r.events[4])
	assert.Equal(t, event.KeyEscape, r.events[5].(event.Key).Code)
	assert.Equal(t, 1, r.aborts)
}

func TestRun_FatalAbortsOnce(t *testing.T) {
	boom := errors.New("display connection lost")
	b := fake.New(fake.WithScript(
		fake.Motion{X: 1},
		fake.Fatal{Err: boom},
		fake.Motion{X: 2},
	))
	r := &recorder{}

	err := Run(b, constructing(r))

	require.ErrorIs(t, err, platform.ErrFatal)
	require.ErrorIs(t, err, boom)
	assert.Len(t, r.events, 1)
	assert.Equal(t, 1, r.aborts)
	assert.True(t, b.Sessions()[0].Closed())
}

func TestRunAndAbort_AbortsOnce(t *testing.T) {
	b := fake.New(fake.WithScript(fake.Key{Name: "escape", Pressed: true}))
	r := &recorder{stop: isEscape}

	require.NoError(t, RunAndAbort(b, constructing(r)))
	assert.Equal(t, 1, r.aborts)
}

func TestRun_ConstructionFailure(t *testing.T) {
	b := fake.New(fake.WithScript(fake.Motion{X: 1}))
	r := &recorder{}
	fail := errors.New("no assets")

	err := Run(b, func(ctx *ThreadContext) (Reactor, error) {
		id, err := ctx.Session().BuildWindow(platform.WindowConfig{Size: platform.Size{Width: 10, Height: 10}})
		require.NoError(t, err)
		ctx.Track(id)
		return r, fail
	})

	require.ErrorIs(t, err, fail)
	assert.Empty(t, r.events)
	assert.Zero(t, r.aborts)
	assert.Zero(t, b.Sessions()[0].Windows())
}

func TestRun_OpenFailure(t *testing.T) {
	err := Run(fake.New(fake.FailOpen(errors.New("no server"))), constructing(&recorder{}))
	require.ErrorIs(t, err, platform.ErrInit)
}

type deadlineReactor struct {
	recorder
}

func (r *deadlineReactor) Poll(*ThreadContext) Directive {
	return WaitUntil(time.Now().Add(10 * time.Millisecond))
}

func TestRun_WaitUntilResumesWithTimeout(t *testing.T) {
	r := &deadlineReactor{recorder{stop: isResumed}}

	require.NoError(t, Run(fake.New(), constructing(r)))

	require.Len(t, r.events, 1)
	assert.Equal(t, event.Resumed{Cause: event.ResumeTimeout}, r.events[0])
	assert.Equal(t, 1, r.aborts)
}

func TestGo_NativeReadinessEndsWait(t *testing.T) {
	b := fake.New(fake.WithScript(fake.Key{Name: "a", Pressed: true}))
	seen := make(chan struct{})
	r := &recorder{stop: func(e event.Event) bool {
		if k, ok := e.(event.Key); ok && k.Code == event.KeyA {
			close(seen)
		}
		return isEscape(e)
	}}
	th := Go(b, constructing(r))

	<-seen
	b.Sessions()[0].Inject(fake.Key{Name: "escape", Pressed: true})

	require.NoError(t, th.Wait())
	require.Len(t, r.events, 3)
	assert.Equal(t, event.KeyA, r.events[0].(event.Key).Code)
	assert.Equal(t, event.Resumed{Cause: event.ResumeNative}, r.events[1])
	assert.Equal(t, event.KeyEscape, r.events[2].(event.Key).Code)
	assert.Equal(t, 1, r.aborts)
}

func TestGo_WaitWithoutNewEventsDeliversNoResume(t *testing.T) {
	b := fake.New(fake.WithScript(fake.Key{Name: "a", Pressed: true}))
	r := &recorder{stop: func(e event.Event) bool {
		return e == event.Resumed{Cause: event.ResumeWake}
	}}
	th := Go(b, constructing(r))
	<-b.Opened()

	time.Sleep(200 * time.Millisecond)
	require.NoError(t, th.Proxy().Wake())
	require.NoError(t, th.Wait())

	require.Len(t, r.events, 2)
	assert.Equal(t, event.KeyA, r.events[0].(event.Key).Code)
	assert.Equal(t, event.Resumed{Cause: event.ResumeWake}, r.events[1])
}

func TestProxy_DrainDropsCommandsAfterPanic(t *testing.T) {
	p := newProxy()
	var ran []int
	require.NoError(t, p.Post(func(*ThreadContext) { ran = append(ran, 0) }))
	require.NoError(t, p.Post(func(*ThreadContext) { panic("command bug") }))

	result := make(chan error, 1)
	go func() {
		result <- p.Call(context.Background(), func(*ThreadContext) error {
			ran = append(ran, 2)
			return nil
		})
	}()
	require.Eventually(t, func() bool {
		p.mu.Lock()
		defer p.mu.Unlock()
		return len(p.queue) == 3
	}, time.Second, time.Millisecond)

	assert.PanicsWithValue(t, "command bug", func() { p.drain(nil) })
	assert.Equal(t, []int{0}, ran)

	select {
	case err := <-result:
		require.ErrorIs(t, err, platform.ErrGone)
		require.ErrorIs(t, err, ErrExited)
	case <-time.After(time.Second):
		t.Fatal("call still waiting after the drain panicked")
	}
}

func TestRun_PanicStillAborts(t *testing.T) {
	b := fake.New(fake.WithScript(fake.Motion{X: 1}))
	aborts := 0
	r := &StatefulReactor[int]{
		OnEvent: func(*int, *ThreadContext, event.Event) Directive {
			panic("reactor bug")
		},
		OnAbort: func(*int) { aborts++ },
	}

	assert.PanicsWithValue(t, "reactor bug", func() {
		_ = Run(b, constructing(r))
	})
	assert.Equal(t, 1, aborts)
	assert.True(t, b.Sessions()[0].Closed())
}

func TestGo_CommandsRunInOrderThenProxyIsGone(t *testing.T) {
	var ran []int
	r := &recorder{stop: func(e event.Event) bool {
		return isResumed(e) && len(ran) == 3
	}}
	th := Go(fake.New(), constructing(r))
	p := th.Proxy()
	for i := range 3 {
		require.NoError(t, p.Post(func(tc *ThreadContext) {
			ran = append(ran, i)
			_ = tc.Proxy().Wake()
		}))
	}

	require.NoError(t, th.Wait())
	assert.Equal(t, []int{0, 1, 2}, ran)
	assert.Equal(t, StateAborted, th.State())
	assert.NoError(t, th.Err())
	assert.Equal(t, 1, r.aborts)

	err := p.Post(func(*ThreadContext) { t.Error("command ran after exit") })
	require.ErrorIs(t, err, platform.ErrGone)
	require.ErrorIs(t, err, ErrExited)
	require.ErrorIs(t, p.Wake(), platform.ErrGone)
	assert.True(t, p.Closed())
}

func TestProxy_CallReturnsResult(t *testing.T) {
	finished := false
	r := &recorder{stop: func(e event.Event) bool {
		return isResumed(e) && finished
	}}
	th := Go(fake.New(), constructing(r))

	var binding string
	err := th.Proxy().Call(t.Context(), func(tc *ThreadContext) error {
		binding = tc.Binding().Name()
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "fake", binding)

	fail := errors.New("rejected")
	require.ErrorIs(t, th.Proxy().Call(t.Context(), func(*ThreadContext) error { return fail }), fail)

	require.NoError(t, th.Proxy().Post(func(tc *ThreadContext) {
		finished = true
		_ = tc.Proxy().Wake()
	}))
	require.NoError(t, th.Wait())
	require.ErrorIs(t, th.Proxy().Call(t.Context(), func(*ThreadContext) error { return nil }), platform.ErrGone)
}

func TestRun_RejectsSecondLoopOnSingleLoopBinding(t *testing.T) {
	b := fake.New()
	r := &recorder{stop: func(e event.Event) bool {
		return e == event.Resumed{Cause: event.ResumeWake}
	}}
	th := Go(b, func(*ThreadContext) (Reactor, error) {
		return r, nil
	})
	<-b.Opened()

	err := Run(b, constructing(&recorder{}))
	require.ErrorIs(t, err, platform.ErrInit)

	require.NoError(t, th.Proxy().Wake())
	require.NoError(t, th.Wait())
	assert.Equal(t, 1, r.aborts)

	// The loop slot is free again.
	again := &recorder{stop: isResumed}
	done := Go(b, constructing(again))
	require.NoError(t, done.Proxy().Wake())
	require.NoError(t, done.Wait())
}

// labeledBinding is a value binding that cannot be used as a map key.
type labeledBinding struct {
	inner  *fake.Binding
	labels map[string]string
}

func (b labeledBinding) Name() string { return b.inner.Name() }

func (b labeledBinding) Open() (platform.Session, error) { return b.inner.Open() }

func TestRun_RejectsIncomparableSingleLoopBinding(t *testing.T) {
	b := labeledBinding{inner: fake.New(), labels: map[string]string{"seat": "0"}}

	err := Run(b, constructing(&recorder{}))
	require.ErrorIs(t, err, platform.ErrInit)
	assert.Empty(t, b.inner.Sessions())
}

func TestRun_MultipleLoopsAllowed(t *testing.T) {
	b := fake.New(fake.WithMultipleLoops())
	first := Go(b, constructing(&recorder{stop: isResumed}))
	second := Go(b, constructing(&recorder{stop: isResumed}))
	<-b.Opened()
	<-b.Opened()

	require.NoError(t, first.Proxy().Wake())
	require.NoError(t, second.Proxy().Wake())
	require.NoError(t, first.Wait())
	require.NoError(t, second.Wait())
}

func TestThreadContext_ReleasesOnCommittedClose(t *testing.T) {
	var live *Liveness
	r := NewStatefulReactor(0, func(n *int, ctx *ThreadContext, e event.Event) Directive {
		if c, ok := e.(event.WindowClosed); ok && c.State == event.CloseCommitted {
			_, tracked := ctx.Lookup(c.Window)
			assert.False(t, tracked)
			assert.False(t, live.Alive())
			return Abort
		}
		return Continue
	})
	b := fake.New()

	err := Run(b, func(ctx *ThreadContext) (Reactor, error) {
		id, err := ctx.Session().BuildWindow(platform.WindowConfig{Size: platform.Size{Width: 1, Height: 1}})
		if err != nil {
			return nil, err
		}
		live = ctx.Track(id)
		assert.Equal(t, []event.WindowID{id}, ctx.OpenWindows())
		b.Sessions()[0].Inject(fake.Close{Window: id}, fake.Close{Window: id, Committed: true})
		return r, nil
	})
	require.NoError(t, err)
	assert.False(t, live.Alive())
}

func TestDirectiveString(t *testing.T) {
	assert.Equal(t, "continue", Continue.String())
	assert.Equal(t, "wait", Wait.String())
	assert.Equal(t, "abort", Abort.String())
	deadline := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	d := WaitUntil(deadline)
	got, ok := d.Deadline()
	assert.True(t, ok)
	assert.Equal(t, deadline, got)
	assert.Equal(t, "wait-until(2024-01-02T03:04:05Z)", d.String())
	assert.False(t, Continue.IsAbort())
}
