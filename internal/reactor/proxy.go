package reactor

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/1broseidon/gaudium/internal/platform"
)

// ErrExited is wrapped by errors from a Proxy whose event thread has stopped.
var ErrExited = errors.New("event thread has exited")

type command struct {
	run  func(ctx *ThreadContext)
	drop func()
}

// Proxy is the thread-safe entry point into an event thread. Commands posted
// through it run on the event thread, in posting order, at the start of the
// next loop cycle. Posting wakes an idle loop.
type Proxy struct {
	mu     sync.Mutex
	queue  []command
	closed bool
	wake   chan struct{}
	woken  atomic.Bool
}

func newProxy() *Proxy {
	return &Proxy{wake: make(chan struct{}, 1)}
}

// Post enqueues fn to run on the event thread. It fails with platform.ErrGone
// once the event thread has exited.
func (p *Proxy) Post(fn func(ctx *ThreadContext)) error {
	return p.enqueue(command{run: fn})
}

// Call runs fn on the event thread and waits for its result, the thread's
// exit, or ctx's cancellation, whichever comes first.
func (p *Proxy) Call(ctx context.Context, fn func(tc *ThreadContext) error) error {
	result := make(chan error, 1)
	err := p.enqueue(command{
		run: func(tc *ThreadContext) {
			result <- fn(tc)
		},
		drop: func() {
			result <- exitedError("call")
		},
	})
	if err != nil {
		return err
	}
	select {
	case err := <-result:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Wake interrupts an idle wait without running a command. The reactor sees
// an event.Resumed with cause ResumeWake at the next idle wait, or at once
// when the loop is already idle.
func (p *Proxy) Wake() error {
	p.mu.Lock()
	closed := p.closed
	p.mu.Unlock()
	if closed {
		return exitedError("wake")
	}
	p.woken.Store(true)
	p.signal()
	return nil
}

// Closed reports whether the event thread has exited.
func (p *Proxy) Closed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}

func (p *Proxy) enqueue(cmd command) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return exitedError("post")
	}
	p.queue = append(p.queue, cmd)
	p.mu.Unlock()
	p.signal()
	return nil
}

func (p *Proxy) signal() {
	select {
	case p.wake <- struct{}{}:
	default:
	}
}

// pending consumes a Wake request and reports whether one was made or
// commands are queued.
func (p *Proxy) pending() bool {
	if p.woken.Swap(false) {
		return true
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.queue) > 0
}

// drain runs the commands queued so far. Commands posted while draining run
// on the next cycle. When a command panics, the commands after it are
// dropped before the panic continues.
func (p *Proxy) drain(ctx *ThreadContext) {
	p.mu.Lock()
	pending := p.queue
	p.queue = nil
	p.mu.Unlock()

	next := 0
	defer func() {
		if next == len(pending) {
			return
		}
		for _, cmd := range pending[next+1:] {
			if cmd.drop != nil {
				cmd.drop()
			}
		}
	}()
	for next < len(pending) {
		pending[next].run(ctx)
		next++
	}
}

// close rejects further commands and drops the pending ones.
func (p *Proxy) close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	pending := p.queue
	p.queue = nil
	p.mu.Unlock()

	for _, cmd := range pending {
		if cmd.drop != nil {
			cmd.drop()
		}
	}
}

func exitedError(op string) error {
	return platform.NewError(platform.KindGone, op, 0, ErrExited)
}
