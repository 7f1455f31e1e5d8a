package config

import (
	"fmt"
	"strings"
)

const (
	PlatformX11   = "x11"
	PlatformEmpty = "empty"

	IdleWait  = "wait"
	IdleReady = "ready"
)

const (
	DefaultWindowTitle    = "gaudium"
	DefaultWindowWidth    = 800
	DefaultWindowHeight   = 600
	DefaultLogLevel       = "info"
	DefaultLogMaxSizeMB   = 10
	DefaultLogMaxFiles    = 3
	DefaultEventHistory   = 256
	maxWindowSide         = 65535
	maxEventHistory       = 1 << 16
	maxLogFileSizeMB      = 1024
	maxRotatedLogFileKeep = 100
)

// Config is the effective configuration of the host application.
type Config struct {
	// Platform selects the binding: "x11" or "empty".
	Platform string `yaml:"platform" json:"platform"`
	// Display is the X display, such as ":1". Empty means $DISPLAY.
	Display string `yaml:"display" json:"display"`
	// Idle is the idle mode between events: "wait" blocks until the next
	// native event, "ready" keeps the loop spinning.
	Idle    string        `yaml:"idle" json:"idle"`
	Window  WindowConfig  `yaml:"window" json:"window"`
	Logging LoggingConfig `yaml:"logging" json:"logging"`
	Events  EventsConfig  `yaml:"events" json:"events"`
}

// WindowConfig describes the window opened by "gaudium run".
type WindowConfig struct {
	Title  string `yaml:"title" json:"title"`
	Width  int    `yaml:"width" json:"width"`
	Height int    `yaml:"height" json:"height"`
	// X and Y place the window. Nil leaves placement to the platform.
	X     *int   `yaml:"x,omitempty" json:"x,omitempty"`
	Y     *int   `yaml:"y,omitempty" json:"y,omitempty"`
	Class string `yaml:"class,omitempty" json:"class,omitempty"`
}

// HasPosition reports whether both coordinates are set.
func (w WindowConfig) HasPosition() bool {
	return w.X != nil && w.Y != nil
}

type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	// File, when set, receives the log instead of stderr.
	File      string `yaml:"file,omitempty" json:"file,omitempty"`
	MaxSizeMB int    `yaml:"max_size_mb" json:"max_size_mb"`
	MaxFiles  int    `yaml:"max_files" json:"max_files"`
}

type EventsConfig struct {
	// History is how many events the MCP server keeps for recent_events.
	History int `yaml:"history" json:"history"`
}

func DefaultConfig() *Config {
	return &Config{
		Platform: PlatformX11,
		Idle:     IdleWait,
		Window: WindowConfig{
			Title:  DefaultWindowTitle,
			Width:  DefaultWindowWidth,
			Height: DefaultWindowHeight,
		},
		Logging: LoggingConfig{
			Level:     DefaultLogLevel,
			MaxSizeMB: DefaultLogMaxSizeMB,
			MaxFiles:  DefaultLogMaxFiles,
		},
		Events: EventsConfig{
			History: DefaultEventHistory,
		},
	}
}

func (c *Config) Validate() error {
	switch c.Platform {
	case PlatformX11, PlatformEmpty:
	default:
		return &ValidationError{Path: "platform", Err: fmt.Errorf("platform must be one of: %s, %s", PlatformX11, PlatformEmpty)}
	}
	if c.Display != "" && !strings.Contains(c.Display, ":") {
		return &ValidationError{Path: "display", Err: fmt.Errorf("display must look like \":N\" or \"host:N\"")}
	}
	switch c.Idle {
	case IdleWait, IdleReady:
	default:
		return &ValidationError{Path: "idle", Err: fmt.Errorf("idle must be one of: %s, %s", IdleWait, IdleReady)}
	}
	if c.Window.Width <= 0 || c.Window.Width > maxWindowSide {
		return &ValidationError{Path: "window.width", Err: fmt.Errorf("window.width must be between 1 and %d", maxWindowSide)}
	}
	if c.Window.Height <= 0 || c.Window.Height > maxWindowSide {
		return &ValidationError{Path: "window.height", Err: fmt.Errorf("window.height must be between 1 and %d", maxWindowSide)}
	}
	if (c.Window.X == nil) != (c.Window.Y == nil) {
		path := "window.x"
		if c.Window.Y != nil {
			path = "window.y"
		}
		return &ValidationError{Path: path, Err: fmt.Errorf("window.x and window.y must be set together")}
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return &ValidationError{Path: "logging.level", Err: fmt.Errorf("logging.level must be one of: debug, info, warn, error")}
	}
	if c.Logging.MaxSizeMB <= 0 || c.Logging.MaxSizeMB > maxLogFileSizeMB {
		return &ValidationError{Path: "logging.max_size_mb", Err: fmt.Errorf("logging.max_size_mb must be between 1 and %d", maxLogFileSizeMB)}
	}
	if c.Logging.MaxFiles < 0 || c.Logging.MaxFiles > maxRotatedLogFileKeep {
		return &ValidationError{Path: "logging.max_files", Err: fmt.Errorf("logging.max_files must be between 0 and %d", maxRotatedLogFileKeep)}
	}
	if c.Events.History <= 0 || c.Events.History > maxEventHistory {
		return &ValidationError{Path: "events.history", Err: fmt.Errorf("events.history must be between 1 and %d", maxEventHistory)}
	}
	return nil
}
