package mcp

// ListDisplaysInput is the input for the list_displays tool.
type ListDisplaysInput struct{}

// DisplayInfo describes one display.
type DisplayInfo struct {
	ID        int     `json:"id"`
	Name      string  `json:"name"`
	Bounds    Rect    `json:"bounds"`
	Usable    Rect    `json:"usable"`
	RefreshHz float64 `json:"refresh_hz,omitempty"`
	Scale     float64 `json:"scale"`
	Primary   bool    `json:"primary"`
}

// ListDisplaysOutput is the output for the list_displays tool.
type ListDisplaysOutput struct {
	Displays []DisplayInfo `json:"displays"`
}

// Rect is a screen rectangle.
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// OpenWindowInput is the input for the open_window tool.
type OpenWindowInput struct {
	Title  string `json:"title,omitempty" jsonschema:"Window title (default: the configured title)"`
	Width  int    `json:"width,omitempty" jsonschema:"Client area width in pixels (default: the configured width)"`
	Height int    `json:"height,omitempty" jsonschema:"Client area height in pixels (default: the configured height)"`
	X      *int   `json:"x,omitempty" jsonschema:"Screen x position. Must be given together with y."`
	Y      *int   `json:"y,omitempty" jsonschema:"Screen y position. Must be given together with x."`
	Parent uint64 `json:"parent,omitempty" jsonschema:"Window id of an open window to nest the new window in"`
}

// OpenWindowOutput is the output for the open_window tool.
type OpenWindowOutput struct {
	Window uint64 `json:"window"`
	Title  string `json:"title"`
}

// ListWindowsInput is the input for the list_windows tool.
type ListWindowsInput struct{}

// WindowInfo describes a window opened through the server.
type WindowInfo struct {
	Window uint64 `json:"window"`
	Title  string `json:"title"`
	Parent uint64 `json:"parent,omitempty"`
}

// ListWindowsOutput is the output for the list_windows tool.
type ListWindowsOutput struct {
	Windows []WindowInfo `json:"windows"`
}

// WindowGeometryInput is the input for the window_geometry tool.
type WindowGeometryInput struct {
	Window uint64 `json:"window" jsonschema:"required,Window id returned by open_window"`
}

// WindowGeometryOutput is the output for the window_geometry tool.
type WindowGeometryOutput struct {
	Window   uint64 `json:"window"`
	Geometry Rect   `json:"geometry"`
}

// CloseWindowInput is the input for the close_window tool.
type CloseWindowInput struct {
	Window uint64 `json:"window" jsonschema:"required,Window id returned by open_window"`
}

// CloseWindowOutput is the output for the close_window tool.
type CloseWindowOutput struct {
	Window uint64 `json:"window"`
	Queued bool   `json:"queued"`
}

// RecentEventsInput is the input for the recent_events tool.
type RecentEventsInput struct {
	Limit    int    `json:"limit,omitempty" jsonschema:"Maximum number of events, newest last (default: 50)"`
	Window   uint64 `json:"window,omitempty" jsonschema:"Only events addressed to this window"`
	Category string `json:"category,omitempty" jsonschema:"Only events of this category: application, window, keyboard, mouse, gamepad or device"`
}

// EventInfo is one recorded event.
type EventInfo struct {
	Seq      uint64 `json:"seq"`
	Time     string `json:"time"`
	Category string `json:"category"`
	Type     string `json:"type"`
	Window   uint64 `json:"window,omitempty"`
	Detail   string `json:"detail"`
}

// RecentEventsOutput is the output for the recent_events tool.
type RecentEventsOutput struct {
	Events []EventInfo `json:"events"`
	// Total counts every event recorded so far, including those no longer
	// held in the history.
	Total uint64 `json:"total"`
}
