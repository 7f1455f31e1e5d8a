package mcp

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/1broseidon/gaudium/internal/event"
	"github.com/1broseidon/gaudium/internal/reactor"
	"github.com/1broseidon/gaudium/internal/window"
)

// Record is one delivered event.
type Record struct {
	Seq   uint64
	At    time.Time
	Event event.Event
}

// Recorder is the reactor behind the MCP server. It keeps a bounded history
// of delivered events and honours close requests from the window manager.
// It lives on the event thread; other goroutines read it through the proxy.
type Recorder struct {
	history []Record
	next    int
	seq     uint64
	idle    reactor.Directive
	stopped bool
	now     func() time.Time
}

// NewRecorder keeps up to size events and idles with idle between them.
func NewRecorder(size int, idle reactor.Directive) *Recorder {
	return &Recorder{
		history: make([]Record, 0, max(size, 1)),
		idle:    idle,
		now:     time.Now,
	}
}

func (r *Recorder) React(ctx *reactor.ThreadContext, e event.Event) reactor.Directive {
	if _, ok := e.(event.Resumed); ok {
		return r.Poll(ctx)
	}
	r.record(e)

	if closed, ok := e.(event.WindowClosed); ok && closed.State == event.CloseRequested {
		if h, ok := window.HandleOf(ctx, closed.Window); ok {
			if err := h.Close(); err != nil {
				ctx.Logger().Warning().Uint64("window", uint64(closed.Window)).Err(err).Log("failed to close window")
			}
		}
	}
	return r.Poll(ctx)
}

func (r *Recorder) Poll(*reactor.ThreadContext) reactor.Directive {
	if r.stopped {
		return reactor.Abort
	}
	return r.idle
}

func (r *Recorder) Abort() {
	r.history = r.history[:0]
	r.next = 0
}

// Stop makes the event thread abort at the end of the current cycle.
func (r *Recorder) Stop() {
	r.stopped = true
}

func (r *Recorder) record(e event.Event) {
	r.seq++
	rec := Record{Seq: r.seq, At: r.now(), Event: e}
	if len(r.history) < cap(r.history) {
		r.history = append(r.history, rec)
		return
	}
	r.history[r.next] = rec
	r.next = (r.next + 1) % len(r.history)
}

// Total is the number of events recorded since the recorder was created.
func (r *Recorder) Total() uint64 {
	return r.seq
}

// Recent returns up to limit of the newest records accepted by keep, oldest
// first. A nil keep accepts every record.
func (r *Recorder) Recent(limit int, keep func(Record) bool) []Record {
	var out []Record
	n := len(r.history)
	for i := range n {
		// Walk newest to oldest.
		rec := r.history[(r.next-1-i+2*n)%n]
		if keep != nil && !keep(rec) {
			continue
		}
		out = append(out, rec)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	slices.Reverse(out)
	return out
}

func eventType(e event.Event) string {
	return strings.TrimPrefix(fmt.Sprintf("%T", e), "event.")
}

func eventInfo(rec Record) EventInfo {
	info := EventInfo{
		Seq:      rec.Seq,
		Time:     rec.At.Format(time.RFC3339Nano),
		Category: rec.Event.Category().String(),
		Type:     eventType(rec.Event),
		Detail:   fmt.Sprintf("%+v", rec.Event),
	}
	if id, ok := event.Window(rec.Event); ok {
		info.Window = uint64(id)
	}
	return info
}
