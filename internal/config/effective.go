package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ValidationError locates an invalid setting. Source is filled in when the
// value came from a file.
type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// BuildEffectiveConfig lays raw over the defaults.
func BuildEffectiveConfig(raw RawConfig) (*Config, error) {
	cfg := DefaultConfig()

	if raw.Platform != nil {
		cfg.Platform = strings.ToLower(strings.TrimSpace(*raw.Platform))
	}
	if raw.Display != nil {
		cfg.Display = strings.TrimSpace(*raw.Display)
	}
	if raw.Idle != nil {
		cfg.Idle = strings.ToLower(strings.TrimSpace(*raw.Idle))
	}

	if w := raw.Window; w != nil {
		if w.Title != nil {
			cfg.Window.Title = *w.Title
		}
		if w.Width != nil {
			cfg.Window.Width = *w.Width
		}
		if w.Height != nil {
			cfg.Window.Height = *w.Height
		}
		cfg.Window.X = w.X
		cfg.Window.Y = w.Y
		if w.Class != nil {
			cfg.Window.Class = strings.TrimSpace(*w.Class)
		}
	}

	if l := raw.Logging; l != nil {
		if l.Level != nil {
			cfg.Logging.Level = strings.ToLower(strings.TrimSpace(*l.Level))
		}
		if l.File != nil {
			path, err := expandHome(strings.TrimSpace(*l.File))
			if err != nil {
				return nil, &ValidationError{Path: "logging.file", Err: err}
			}
			cfg.Logging.File = path
		}
		if l.MaxSizeMB != nil {
			cfg.Logging.MaxSizeMB = *l.MaxSizeMB
		}
		if l.MaxFiles != nil {
			cfg.Logging.MaxFiles = *l.MaxFiles
		}
	}

	if raw.Events != nil && raw.Events.History != nil {
		cfg.Events.History = *raw.Events.History
	}

	return cfg, nil
}

func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	if path == "~" {
		return home, nil
	}
	return filepath.Join(home, path[2:]), nil
}
