// Package protocol defines the JSON messages exchanged over the command boundary.
package protocol

import "encoding/json"

// MessageType defines the type of WebSocket message
type MessageType string

const (
	// TypeInvoke is sent by the UI to run a command
	TypeInvoke MessageType = "invoke"

	// TypeResult is sent by the backend with the outcome of one invoke
	TypeResult MessageType = "result"

	// TypePing can be used for application-level heartbeats if needed
	TypePing MessageType = "ping"

	// TypePong answers TypePing
	TypePong MessageType = "pong"
)

// Command names understood by the backend
const (
	CmdGetMousePosition    = "get_mouse_position"
	CmdCheckMousePosition  = "check_mouse_position"
	CmdMoveMouseTo         = "move_mouse_to"
	CmdClick               = "click"
	CmdWrite               = "write"
	CmdPressKeyCombination = "press_key_combination"
	CmdPressShortcut       = "press_shortcut"
	CmdReleaseModifiers    = "release_modifiers"
)

// Error codes that are not input failure reasons
const (
	CodeBadRequest     = "bad_request"
	CodeUnknownCommand = "unknown_command"
	CodeUnauthorized   = "unauthorized"
)

// Message is the container for all WebSocket messages
type Message struct {
	Type    MessageType     `json:"type"`
	ID      string          `json:"id,omitempty"`
	Command string          `json:"command,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Result is the outcome of one command. Bool commands carry false in
// Result alongside the error when they fail.
type Result struct {
	Type    MessageType `json:"type"`
	ID      string      `json:"id,omitempty"`
	Command string      `json:"command"`
	OK      bool        `json:"ok"`
	Result  any         `json:"result"`
	Error   *ErrorBody  `json:"error,omitempty"`
}

// ErrorBody names why a command failed
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Arg returns the value stored under name when payload is an object
// wrapping its argument ({"position": {...}}), or payload itself when the
// argument was sent bare.
func Arg(payload json.RawMessage, name string) json.RawMessage {
	var wrapped map[string]json.RawMessage
	if err := json.Unmarshal(payload, &wrapped); err != nil {
		return payload
	}
	if v, ok := wrapped[name]; ok {
		return v
	}
	return payload
}
