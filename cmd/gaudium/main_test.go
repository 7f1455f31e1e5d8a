package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1broseidon/gaudium/internal/config"
	"github.com/1broseidon/gaudium/internal/event"
	"github.com/1broseidon/gaudium/internal/platform"
	"github.com/1broseidon/gaudium/internal/platform/empty"
	"github.com/1broseidon/gaudium/internal/platform/fake"
	"github.com/1broseidon/gaudium/internal/reactor"
	"github.com/1broseidon/gaudium/internal/x11"
)

func TestFormatSource(t *testing.T) {
	tests := []struct {
		src  config.Source
		want string
	}{
		{config.Source{Kind: config.SourceFile, File: "/c.yaml", Line: 3, Column: 5}, "file:/c.yaml:3:5"},
		{config.Source{Kind: config.SourceFile, File: "/c.yaml"}, "file:/c.yaml"},
		{config.Source{Kind: config.SourceFile}, "file"},
		{config.Source{Kind: config.SourceDefault, Name: "defaults"}, "default:defaults"},
		{config.Source{Kind: config.SourceDefault}, "default"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatSource(tt.src))
	}
}

func TestExplain_PrintsValueAndSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("window:\n  width: 640\n"), 0o644))
	res, err := config.LoadFromPath(path)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, explain(&buf, res, "window.width"))
	out := buf.String()
	assert.Contains(t, out, "path: window.width\n")
	assert.Contains(t, out, ":2:10\n")
	assert.True(t, strings.HasSuffix(out, "value:\n640\n"))

	assert.Error(t, explain(&buf, res, "window.depth"))
}

func TestNewBinding(t *testing.T) {
	cfg := config.DefaultConfig()
	assert.Equal(t, "x11", newBinding(cfg, nil).Name())

	cfg.Platform = config.PlatformEmpty
	assert.IsType(t, &empty.Binding{}, newBinding(cfg, nil))
}

func TestIdleDirective(t *testing.T) {
	assert.Equal(t, reactor.Wait, idleDirective(config.IdleWait))
	assert.Equal(t, reactor.Continue, idleDirective(config.IdleReady))
}

func TestWindowBuilder(t *testing.T) {
	x, y := 10, 20
	cfg := config.DefaultConfig()
	cfg.Window.Title = "Test"
	cfg.Window.X, cfg.Window.Y = &x, &y
	cfg.Window.Class = "demo"

	wc := windowBuilder(cfg).Config()
	assert.Equal(t, "Test", wc.Title)
	assert.True(t, wc.HasPosition)
	assert.Equal(t, platform.Point{X: 10, Y: 20}, wc.Position)
	assert.Equal(t, []any{x11.Class{Instance: "demo", Class: "demo"}}, wc.Extensions)

	cfg.Platform = config.PlatformEmpty
	assert.Empty(t, windowBuilder(cfg).Config().Extensions)
}

func TestDisplaysOutput(t *testing.T) {
	displays := []platform.Display{fake.DefaultDisplay}

	var table bytes.Buffer
	require.NoError(t, writeDisplaysTable(&table, displays))
	lines := strings.Split(strings.TrimSpace(table.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "ID"))
	assert.Contains(t, lines[1], "FAKE-1")
	assert.Contains(t, lines[1], "1920x1080+0+0")
	assert.Contains(t, lines[1], "60.00Hz")
	assert.True(t, strings.HasSuffix(lines[1], "*"))

	var js bytes.Buffer
	require.NoError(t, writeDisplaysJSON(&js, displays))
	var decoded []displayJSON
	require.NoError(t, json.Unmarshal(js.Bytes(), &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "FAKE-1", decoded[0].Name)
	assert.Equal(t, 1920, decoded[0].Width)
	assert.True(t, decoded[0].Primary)
}

func TestEventLog_ClosesOnRequest(t *testing.T) {
	b := fake.New()
	var log *eventLog
	err := reactor.Run(b, func(tc *reactor.ThreadContext) (reactor.Reactor, error) {
		w, err := windowBuilder(config.DefaultConfig()).Build(tc)
		if err != nil {
			return nil, err
		}
		log = newEventLog(w, nil, reactor.Wait)
		s := b.Sessions()[0]
		s.Inject(
			fake.Motion{Window: w.ID(), X: 1, Y: 1},
			fake.Close{Window: w.ID()},
		)
		return log, nil
	})
	require.NoError(t, err)
	assert.True(t, log.stopped)
	// Motion, the close request and the committed close.
	assert.Equal(t, 3, log.count)
	assert.Zero(t, b.Sessions()[0].Windows())
}

func TestEventLog_StopClosesWindows(t *testing.T) {
	b := fake.New()
	th := reactor.Go(b, func(tc *reactor.ThreadContext) (reactor.Reactor, error) {
		w, err := windowBuilder(config.DefaultConfig()).Build(tc)
		if err != nil {
			return nil, err
		}
		return newEventLog(w, nil, reactor.Wait), nil
	})
	require.NoError(t, th.Proxy().Post(stopEventLog))
	require.NoError(t, th.Wait())
	assert.Equal(t, reactor.StateAborted, th.State())
}

func TestEventLog_IgnoresResumed(t *testing.T) {
	l := &eventLog{idle: reactor.Continue}
	assert.Equal(t, reactor.Continue, l.React(nil, event.Resumed{Cause: event.ResumeWake}))
	assert.Zero(t, l.count)
}
