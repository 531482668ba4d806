// Package ipc exposes the window service over a unix socket so shell
// tooling can inspect and drive layouts while the suite runs. The wire
// format is one JSON request and one JSON response per connection,
// newline-delimited.
package ipc

import (
	"encoding/json"
	"fmt"
)

// CommandType names an IPC command.
type CommandType string

const (
	CommandGetStats     CommandType = "GET_STATS"
	CommandGetWindows   CommandType = "GET_WINDOWS"
	CommandListLayouts  CommandType = "LIST_LAYOUTS"
	CommandApplyLayout  CommandType = "APPLY_LAYOUT"
	CommandSaveLayout   CommandType = "SAVE_LAYOUT"
	CommandDeleteLayout CommandType = "DELETE_LAYOUT"
)

// Request is an IPC request from client to server.
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response is an IPC response from server to client.
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// StatsData is returned by GET_STATS.
type StatsData struct {
	CurrentLayoutName     string `json:"current_layout_name,omitempty"`
	TotalSavedLayouts     int    `json:"total_saved_layouts"`
	TotalWindowsInCurrent int    `json:"total_windows_in_current"`
	AutoSaveEnabled       bool   `json:"auto_save_enabled"`
	OpenWindows           int    `json:"open_windows"`
	VisibleWindows        int    `json:"visible_windows"`
	UptimeSeconds         int64  `json:"uptime_seconds"`
}

// WindowInfo describes one live window for GET_WINDOWS.
type WindowInfo struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	X           int    `json:"x"`
	Y           int    `json:"y"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	IsVisible   bool   `json:"is_visible"`
	IsMinimized bool   `json:"is_minimized"`
	IsMaximized bool   `json:"is_maximized"`
	ZIndex      int    `json:"z_index"`
}

// WindowsData is returned by GET_WINDOWS.
type WindowsData struct {
	Windows []WindowInfo `json:"windows"`
}

// LayoutsData is returned by LIST_LAYOUTS, most recently used first.
type LayoutsData struct {
	Layouts       []string `json:"layouts"`
	CurrentLayout string   `json:"current_layout,omitempty"`
}

// ApplyLayoutPayload is the payload for APPLY_LAYOUT.
type ApplyLayoutPayload struct {
	LayoutName string `json:"layout_name"`
}

// SaveLayoutPayload is the payload for SAVE_LAYOUT. An empty name
// saves the current layout in place.
type SaveLayoutPayload struct {
	LayoutName string `json:"layout_name,omitempty"`
}

// DeleteLayoutPayload is the payload for DELETE_LAYOUT.
type DeleteLayoutPayload struct {
	LayoutName string `json:"layout_name"`
}

// NewOKResponse creates a successful response with optional data.
func NewOKResponse(data any) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}

	return &Response{
		Status: "OK",
		Data:   dataBytes,
	}, nil
}

// NewErrorResponse creates an error response with a message.
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: "ERROR",
		Error:  errMsg,
	}
}

// ParseRequest parses a request from JSON bytes.
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes.
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}
