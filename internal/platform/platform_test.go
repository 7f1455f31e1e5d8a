package platform

import (
	"errors"
	"fmt"
	"iter"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1broseidon/gaudium/internal/event"
)

func TestError_MatchesSentinelOfKind(t *testing.T) {
	err := NewError(KindCapacity, "build window", 0, errors.New("limit 1"))
	require.ErrorIs(t, err, ErrCapacity)
	assert.NotErrorIs(t, err, ErrGone)
	assert.Equal(t, "build window: platform capacity exceeded: limit 1", err.Error())

	wrapped := fmt.Errorf("open: %w", NewError(KindGone, "close", 42, nil))
	require.ErrorIs(t, wrapped, ErrGone)
	assert.Equal(t, KindGone, KindOf(wrapped))
	assert.Contains(t, wrapped.Error(), "window 42")
}

func TestKindOf_Sentinel(t *testing.T) {
	assert.Equal(t, KindFatal, KindOf(fmt.Errorf("x: %w", ErrFatal)))
	assert.Equal(t, ErrorKind(0), KindOf(errors.New("plain")))
}

func TestDisplay_LogicalPhysical(t *testing.T) {
	d := Display{Scale: 2}
	assert.Equal(t, Size{Width: 960, Height: 640}, d.Physical(Size{Width: 480, Height: 320}))
	assert.Equal(t, Size{Width: 480, Height: 320}, d.Logical(Size{Width: 960, Height: 640}))

	var unscaled Display
	assert.Equal(t, Size{Width: 10, Height: 20}, unscaled.Physical(Size{Width: 10, Height: 20}))
}

func TestRect_Contains(t *testing.T) {
	r := Rect{X: 10, Y: 10, Width: 5, Height: 5}
	assert.True(t, r.Contains(Point{X: 10, Y: 14}))
	assert.False(t, r.Contains(Point{X: 15, Y: 10}))
	assert.Equal(t, "5x5+10+10", r.String())

	assert.Equal(t, Rect{X: 12, Y: 10, Width: 3, Height: 2}, r.Intersect(Rect{X: 12, Y: 0, Width: 10, Height: 12}))
	assert.True(t, r.Intersect(Rect{X: 100, Y: 100, Width: 1, Height: 1}).Empty())
}

type bareSession struct{}

func (bareSession) Displays() iter.Seq2[Display, error]        { return func(func(Display, error) bool) {} }
func (bareSession) BuildWindow(WindowConfig) (WindowID, error) { return 1, nil }
func (bareSession) Pump() iter.Seq2[Native, error]             { return func(func(Native, error) bool) {} }
func (bareSession) Translate(Native) (event.Event, bool)       { return nil, false }
func (bareSession) Ready() <-chan struct{}                     { return nil }
func (bareSession) Close() error                               { return nil }

type closingSession struct{ bareSession }

func (closingSession) CloseWindow(WindowID) error { return nil }
func (closingSession) MaxWindows() int            { return 1 }
func (closingSession) SupportsChildWindows() bool { return false }

func TestCapabilities(t *testing.T) {
	assert.Empty(t, Capabilities(bareSession{}))

	caps := Capabilities(closingSession{})
	assert.Equal(t, []Capability{CapCloseWindow, CapWindowLimit}, caps)
	assert.True(t, Has(caps, CapWindowLimit))
	assert.False(t, Has(caps, CapChildWindows))
}
