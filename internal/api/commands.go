package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sort"

	"automator/internal/input"
	"automator/internal/protocol"
)

// errBadPayload marks payloads that could not be decoded
var errBadPayload = errors.New("bad payload")

type command struct {
	// failure is the result reported alongside an error
	failure any
	run     func(payload json.RawMessage) (any, error)
}

// Commands maps command names to dispatcher operations
type Commands struct {
	dispatcher *input.Dispatcher
	table      map[string]command
}

// NewCommands builds the command table over d
func NewCommands(d *input.Dispatcher) *Commands {
	c := &Commands{dispatcher: d}
	c.table = map[string]command{
		protocol.CmdGetMousePosition:    {run: c.getMousePosition},
		protocol.CmdCheckMousePosition:  {run: c.checkMousePosition, failure: false},
		protocol.CmdMoveMouseTo:         {run: c.moveMouseTo, failure: false},
		protocol.CmdClick:               {run: c.click},
		protocol.CmdWrite:               {run: c.write},
		protocol.CmdPressKeyCombination: {run: c.pressKeyCombination},
		protocol.CmdPressShortcut:       {run: c.pressShortcut},
		protocol.CmdReleaseModifiers:    {run: c.releaseModifiers},
	}
	return c
}

// Names returns the known command names, sorted
func (c *Commands) Names() []string {
	names := make([]string, 0, len(c.table))
	for name := range c.table {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Invoke runs one command and wraps its outcome in a result envelope
func (c *Commands) Invoke(id, name string, payload json.RawMessage) protocol.Result {
	res := protocol.Result{Type: protocol.TypeResult, ID: id, Command: name}

	cmd, ok := c.table[name]
	if !ok {
		res.Error = &protocol.ErrorBody{
			Code:    protocol.CodeUnknownCommand,
			Message: fmt.Sprintf("unknown command %q", name),
		}
		return res
	}

	value, err := cmd.run(payload)
	if err != nil {
		log.Printf("API: Command %s failed: %v", name, err)
		res.Result = cmd.failure
		res.Error = &protocol.ErrorBody{Code: errorCode(err), Message: err.Error()}
		return res
	}

	res.OK = true
	res.Result = value
	return res
}

func errorCode(err error) string {
	if errors.Is(err, errBadPayload) {
		return protocol.CodeBadRequest
	}
	return input.Reason(err)
}

// statusFor maps an error code to the HTTP status of its response
func statusFor(code string) int {
	switch code {
	case "":
		return http.StatusOK
	case protocol.CodeBadRequest:
		return http.StatusBadRequest
	case protocol.CodeUnknownCommand:
		return http.StatusNotFound
	case protocol.CodeUnauthorized:
		return http.StatusUnauthorized
	case input.ReasonPermissionDenied:
		return http.StatusForbidden
	case input.ReasonInvalidTarget:
		return http.StatusUnprocessableEntity
	case input.ReasonDeviceUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// decodeArg decodes the argument called name from payload into v
func decodeArg(payload json.RawMessage, name string, v any) error {
	if len(payload) == 0 {
		return fmt.Errorf("missing %s: %w", name, errBadPayload)
	}
	if err := json.Unmarshal(protocol.Arg(payload, name), v); err != nil {
		if errors.Is(err, input.ErrInvalidTarget) {
			return err
		}
		return fmt.Errorf("decode %s: %v: %w", name, err, errBadPayload)
	}
	return nil
}

func (c *Commands) getMousePosition(json.RawMessage) (any, error) {
	return c.dispatcher.GetMousePosition()
}

func (c *Commands) checkMousePosition(payload json.RawMessage) (any, error) {
	var pos input.Position
	if err := decodeArg(payload, "position", &pos); err != nil {
		return nil, err
	}
	return c.dispatcher.CheckMousePosition(pos), nil
}

func (c *Commands) moveMouseTo(payload json.RawMessage) (any, error) {
	var pos input.Position
	if err := decodeArg(payload, "position", &pos); err != nil {
		return nil, err
	}
	if err := c.dispatcher.MoveMouseTo(pos); err != nil {
		return nil, err
	}
	return true, nil
}

func (c *Commands) click(payload json.RawMessage) (any, error) {
	var button input.MouseButton
	if err := decodeArg(payload, "button", &button); err != nil {
		return nil, err
	}
	return nil, c.dispatcher.Click(button)
}

func (c *Commands) write(payload json.RawMessage) (any, error) {
	var text string
	if err := decodeArg(payload, "text", &text); err != nil {
		return nil, err
	}
	return nil, c.dispatcher.Write(text)
}

func (c *Commands) pressKeyCombination(payload json.RawMessage) (any, error) {
	var combo input.KeyCombination
	if err := decodeArg(payload, "combination", &combo); err != nil {
		return nil, err
	}
	return nil, c.dispatcher.PressKeyCombination(combo)
}

func (c *Commands) pressShortcut(payload json.RawMessage) (any, error) {
	var shortcut string
	if err := decodeArg(payload, "shortcut", &shortcut); err != nil {
		return nil, err
	}
	combo, err := input.ParseCombination(shortcut)
	if err != nil {
		return nil, err
	}
	return nil, c.dispatcher.PressKeyCombination(combo)
}

func (c *Commands) releaseModifiers(json.RawMessage) (any, error) {
	return nil, c.dispatcher.ReleaseModifiers()
}
