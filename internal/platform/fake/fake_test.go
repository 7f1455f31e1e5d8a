package fake

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1broseidon/gaudium/internal/event"
	"github.com/1broseidon/gaudium/internal/platform"
)

func openSession(t *testing.T, opts ...Option) *Session {
	t.Helper()
	s, err := New(opts...).Open()
	require.NoError(t, err)
	return s.(*Session)
}

func TestTranslate_KeyAPressed(t *testing.T) {
	s := openSession(t)

	e, ok := s.Translate(Key{Window: 1, Scancode: 38, Name: "a", Pressed: true})
	require.True(t, ok)
	key, ok := e.(event.Key)
	require.True(t, ok)
	assert.Equal(t, event.KeyA, key.Code)
	assert.Equal(t, event.Pressed, key.State)
	assert.Equal(t, uint32(38), key.Scancode)
}

func TestTranslate_UnmappedIsDropped(t *testing.T) {
	s := openSession(t)

	e, ok := s.Translate(Unmapped{Code: 99})
	assert.False(t, ok)
	assert.Nil(t, e)
}

func TestTranslate_MotionDelta(t *testing.T) {
	s := openSession(t)

	first, _ := s.Translate(Motion{Window: 1, X: 10, Y: 10})
	second, _ := s.Translate(Motion{Window: 1, X: 13, Y: 6})

	assert.Equal(t, event.Point{}, first.(event.MouseMoved).Delta)
	moved := second.(event.MouseMoved)
	assert.Equal(t, event.Point{X: 3, Y: -4}, moved.Delta)
	assert.True(t, moved.HasPosition)
}

func TestTranslate_AxisClamped(t *testing.T) {
	s := openSession(t)

	e, ok := s.Translate(PadAxis{Device: 7, Axis: 1, Value: 3})
	require.True(t, ok)
	assert.Equal(t, event.GamepadAxis{Device: 7, Axis: 1, Value: 1}, e)
}

func TestPump_YieldsQueuedInOrderAndFatal(t *testing.T) {
	s := openSession(t)
	boom := errors.New("connection lost")
	s.Inject(Motion{X: 1}, Motion{X: 2}, Fatal{Err: boom})

	var got []platform.Native
	var fatal error
	for n, err := range s.Pump() {
		if err != nil {
			fatal = err
			continue
		}
		got = append(got, n)
	}
	assert.Equal(t, []platform.Native{Motion{X: 1}, Motion{X: 2}}, got)
	require.ErrorIs(t, fatal, platform.ErrFatal)
	require.ErrorIs(t, fatal, boom)

	for range s.Pump() {
		t.Fatal("queue should be empty")
	}
}

func TestBuildWindow_LimitAndIsolation(t *testing.T) {
	s := openSession(t, WithWindowLimit(1))

	first, err := s.BuildWindow(platform.WindowConfig{Title: "one", Size: platform.Size{Width: 10, Height: 10}})
	require.NoError(t, err)

	_, err = s.BuildWindow(platform.WindowConfig{Title: "two", Size: platform.Size{Width: 10, Height: 10}})
	require.ErrorIs(t, err, platform.ErrCapacity)

	title, ok := s.Title(first)
	require.True(t, ok)
	assert.Equal(t, "one", title)
	assert.Equal(t, 1, s.Windows())
}

func TestBuildWindow_RejectsUnknownExtension(t *testing.T) {
	s := openSession(t)

	_, err := s.BuildWindow(platform.WindowConfig{
		Size:       platform.Size{Width: 1, Height: 1},
		Extensions: []any{struct{}{}},
	})
	require.ErrorIs(t, err, platform.ErrUnsupported)

	id, err := s.BuildWindow(platform.WindowConfig{
		Size:       platform.Size{Width: 1, Height: 1},
		Extensions: []any{Tag("debug")},
	})
	require.NoError(t, err)
	assert.Equal(t, []Tag{"debug"}, s.Tags(id))
}

func TestCloseWindow_QueuesCommittedClose(t *testing.T) {
	s := openSession(t)
	id, err := s.BuildWindow(platform.WindowConfig{Size: platform.Size{Width: 1, Height: 1}})
	require.NoError(t, err)

	require.NoError(t, s.CloseWindow(id))
	require.ErrorIs(t, s.CloseWindow(id), platform.ErrGone)

	select {
	case <-s.Ready():
	default:
		t.Fatal("close did not signal readiness")
	}
	for n, err := range s.Pump() {
		require.NoError(t, err)
		assert.Equal(t, Close{Window: id, Committed: true}, n)
	}
}

func TestOpen_Fails(t *testing.T) {
	_, err := New(FailOpen(errors.New("no display"))).Open()
	require.ErrorIs(t, err, platform.ErrInit)
}
