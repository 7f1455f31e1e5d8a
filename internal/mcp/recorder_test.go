package mcp

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1broseidon/gaudium/internal/event"
	"github.com/1broseidon/gaudium/internal/reactor"
)

func seqs(records []Record) []uint64 {
	out := make([]uint64, 0, len(records))
	for _, r := range records {
		out = append(out, r.Seq)
	}
	return out
}

func TestRecorder_History(t *testing.T) {
	r := NewRecorder(3, reactor.Wait)
	assert.Empty(t, r.Recent(0, nil))

	for i := range 5 {
		d := r.React(nil, event.Key{Window: event.WindowID(i%2 + 1), Code: event.KeyA})
		assert.Equal(t, reactor.Wait, d)
	}
	r.React(nil, event.Resumed{Cause: event.ResumeWake})

	assert.Equal(t, uint64(5), r.Total())
	assert.Equal(t, []uint64{3, 4, 5}, seqs(r.Recent(0, nil)))
	assert.Equal(t, []uint64{4, 5}, seqs(r.Recent(2, nil)))

	odd := func(rec Record) bool { return rec.Seq%2 == 1 }
	assert.Equal(t, []uint64{3, 5}, seqs(r.Recent(0, odd)))
	assert.Equal(t, []uint64{5}, seqs(r.Recent(1, odd)))
}

func TestRecorder_PartialHistory(t *testing.T) {
	r := NewRecorder(4, reactor.Continue)
	r.React(nil, event.WindowActivated{Window: 1})
	r.React(nil, event.WindowDeactivated{Window: 1})

	assert.Equal(t, []uint64{1, 2}, seqs(r.Recent(0, nil)))
}

func TestRecorder_StopAndAbort(t *testing.T) {
	r := NewRecorder(2, reactor.Continue)
	r.React(nil, event.WindowActivated{Window: 1})
	assert.Equal(t, reactor.Continue, r.Poll(nil))

	r.Stop()
	assert.True(t, r.Poll(nil).IsAbort())
	assert.True(t, r.React(nil, event.Resumed{}).IsAbort())

	r.Abort()
	assert.Empty(t, r.Recent(0, nil))
}

func TestEventInfo(t *testing.T) {
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	info := eventInfo(Record{Seq: 7, At: at, Event: event.WindowMoved{Window: 9, X: 10, Y: 20}})
	assert.Equal(t, EventInfo{
		Seq:      7,
		Time:     "2026-01-02T03:04:05Z",
		Category: "window",
		Type:     "WindowMoved",
		Window:   9,
		Detail:   "{Window:9 X:10 Y:20}",
	}, info)

	info = eventInfo(Record{Seq: 1, At: at, Event: event.GamepadAxis{Device: 3, Axis: 1, Value: 0.5}})
	assert.Zero(t, info.Window)
	assert.Equal(t, "gamepad", info.Category)
}

func TestRecorder_MinimumSize(t *testing.T) {
	r := NewRecorder(0, reactor.Wait)
	r.React(nil, event.WindowActivated{Window: 1})
	r.React(nil, event.WindowActivated{Window: 2})
	got := r.Recent(0, nil)
	require.Len(t, got, 1)
	assert.Equal(t, uint64(2), got[0].Seq)
}
