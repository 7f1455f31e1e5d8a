package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// IncludeList supports either:
//
//	include: "/path/to/file.yaml"
//
// or:
//
//	include:
//	  - "/path/to/file.yaml"
//	  - "/path/to/dir"
type IncludeList []string

func (l *IncludeList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case 0:
		*l = nil
		return nil
	case yaml.ScalarNode:
		if value.Tag != "!!str" {
			return fmt.Errorf("include must be a string or list of strings")
		}
		*l = []string{value.Value}
		return nil
	case yaml.SequenceNode:
		out := make([]string, 0, len(value.Content))
		for _, item := range value.Content {
			if item.Kind != yaml.ScalarNode || item.Tag != "!!str" {
				return fmt.Errorf("include entries must be strings")
			}
			out = append(out, item.Value)
		}
		*l = out
		return nil
	default:
		return fmt.Errorf("include must be a string or list of strings")
	}
}

type RawWindow struct {
	Title  *string `yaml:"title"`
	Width  *int    `yaml:"width"`
	Height *int    `yaml:"height"`
	X      *int    `yaml:"x"`
	Y      *int    `yaml:"y"`
	Class  *string `yaml:"class"`
}

type RawLogging struct {
	Level     *string `yaml:"level"`
	File      *string `yaml:"file"`
	MaxSizeMB *int    `yaml:"max_size_mb"`
	MaxFiles  *int    `yaml:"max_files"`
}

type RawEvents struct {
	History *int `yaml:"history"`
}

// RawConfig is one file as written. Nil fields were not set and leave the
// value below them untouched.
type RawConfig struct {
	Include IncludeList `yaml:"include"`

	Platform *string     `yaml:"platform"`
	Display  *string     `yaml:"display"`
	Idle     *string     `yaml:"idle"`
	Window   *RawWindow  `yaml:"window"`
	Logging  *RawLogging `yaml:"logging"`
	Events   *RawEvents  `yaml:"events"`
}

// merge returns r with every field set in o laid over it.
func (r RawConfig) merge(o RawConfig) RawConfig {
	out := r
	out.Include = nil
	if o.Platform != nil {
		out.Platform = o.Platform
	}
	if o.Display != nil {
		out.Display = o.Display
	}
	if o.Idle != nil {
		out.Idle = o.Idle
	}
	if o.Window != nil {
		w := RawWindow{}
		if out.Window != nil {
			w = *out.Window
		}
		setIfNotNil(&w.Title, o.Window.Title)
		setIfNotNil(&w.Width, o.Window.Width)
		setIfNotNil(&w.Height, o.Window.Height)
		setIfNotNil(&w.X, o.Window.X)
		setIfNotNil(&w.Y, o.Window.Y)
		setIfNotNil(&w.Class, o.Window.Class)
		out.Window = &w
	}
	if o.Logging != nil {
		l := RawLogging{}
		if out.Logging != nil {
			l = *out.Logging
		}
		setIfNotNil(&l.Level, o.Logging.Level)
		setIfNotNil(&l.File, o.Logging.File)
		setIfNotNil(&l.MaxSizeMB, o.Logging.MaxSizeMB)
		setIfNotNil(&l.MaxFiles, o.Logging.MaxFiles)
		out.Logging = &l
	}
	if o.Events != nil {
		e := RawEvents{}
		if out.Events != nil {
			e = *out.Events
		}
		setIfNotNil(&e.History, o.Events.History)
		out.Events = &e
	}
	return out
}

func setIfNotNil[T any](dst **T, v *T) {
	if v != nil {
		*dst = v
	}
}
