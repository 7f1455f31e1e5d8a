package config

import (
	"fmt"
	"strings"
)

// Explain returns the effective value at a dotted path and where it came from.
//
// Supported paths are the keys of the file, for example:
//
//	platform
//	idle
//	window
//	window.width
//	logging.max_size_mb
//	events.history
func Explain(res *LoadResult, path string) (any, Source, error) {
	if res == nil || res.Config == nil {
		return nil, Source{}, fmt.Errorf("no config loaded")
	}
	if path == "" {
		return nil, Source{}, fmt.Errorf("path is empty")
	}

	value, err := lookupValue(res.Config, path)
	if err != nil {
		return nil, Source{}, err
	}
	if src, ok := res.Sources[path]; ok {
		return value, src, nil
	}
	return value, Source{Kind: SourceDefault, Name: "defaults"}, nil
}

func lookupValue(cfg *Config, path string) (any, error) {
	parts := strings.Split(path, ".")
	unknown := fmt.Errorf("unknown path: %s", path)

	leaf := func(v any) (any, error) {
		if len(parts) != 1 {
			return nil, unknown
		}
		return v, nil
	}

	switch parts[0] {
	case "platform":
		return leaf(cfg.Platform)
	case "display":
		return leaf(cfg.Display)
	case "idle":
		return leaf(cfg.Idle)
	case "window":
		if len(parts) == 1 {
			return cfg.Window, nil
		}
		if len(parts) != 2 {
			return nil, unknown
		}
		switch parts[1] {
		case "title":
			return cfg.Window.Title, nil
		case "width":
			return cfg.Window.Width, nil
		case "height":
			return cfg.Window.Height, nil
		case "x":
			return optional(cfg.Window.X), nil
		case "y":
			return optional(cfg.Window.Y), nil
		case "class":
			return cfg.Window.Class, nil
		}
	case "logging":
		if len(parts) == 1 {
			return cfg.Logging, nil
		}
		if len(parts) != 2 {
			return nil, unknown
		}
		switch parts[1] {
		case "level":
			return cfg.Logging.Level, nil
		case "file":
			return cfg.Logging.File, nil
		case "max_size_mb":
			return cfg.Logging.MaxSizeMB, nil
		case "max_files":
			return cfg.Logging.MaxFiles, nil
		}
	case "events":
		if len(parts) == 1 {
			return cfg.Events, nil
		}
		if len(parts) == 2 && parts[1] == "history" {
			return cfg.Events.History, nil
		}
	}
	return nil, unknown
}

// optional dereferences an unset coordinate to nil rather than a typed nil pointer.
func optional(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}
