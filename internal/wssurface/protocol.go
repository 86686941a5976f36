// Package wssurface exposes remote clients (typically browser tabs) as
// shortcut surfaces over WebSocket.
//
// # Text frame protocol
//
// Every frame is a JSON object with a "type" field.
//
// Client to server:
//
//	{"type":"keyDown","key":"ArrowUp","code":"ArrowUp","control":true,"shift":true}
//	{"type":"keyUp", ...}
//	{"type":"title","title":"Editor"}
//
// Server to client:
//
//	{"type":"hello","id":"<surface id>","surface":"<name>"}
//	{"type":"shortcut","action":"save","accelerator":"CmdOrCtrl+S"}
//	{"type":"error","message":"..."}
//
// Closing the connection destroys the surface.
package wssurface

import (
	"encoding/json"
	"fmt"

	"localshortcut/accelerator"
)

const (
	msgTypeTitle    = "title"
	msgTypeHello    = "hello"
	msgTypeShortcut = "shortcut"
	msgTypeError    = "error"
)

// inboundMsg is a decoded client frame. Key input uses the embedded Input
// fields; title updates use Title.
type inboundMsg struct {
	accelerator.Input
	Title string `json:"title,omitempty"`
}

// outboundMsg is the JSON payload of every server frame.
type outboundMsg struct {
	Type        string `json:"type"`
	ID          string `json:"id,omitempty"`
	Surface     string `json:"surface,omitempty"`
	Action      string `json:"action,omitempty"`
	Accelerator string `json:"accelerator,omitempty"`
	Message     string `json:"message,omitempty"`
}

// decodeInbound parses a client frame and rejects unknown types.
func decodeInbound(raw []byte) (inboundMsg, error) {
	var msg inboundMsg
	if err := json.Unmarshal(raw, &msg); err != nil {
		return inboundMsg{}, fmt.Errorf("invalid JSON: %w", err)
	}
	switch string(msg.Type) {
	case string(accelerator.InputKeyDown), string(accelerator.InputKeyUp):
		if msg.Code == "" && msg.Key == "" {
			return inboundMsg{}, fmt.Errorf("key input without key or code")
		}
	case msgTypeTitle:
	default:
		return inboundMsg{}, fmt.Errorf("unknown message type %q", msg.Type)
	}
	return msg, nil
}
