// Package inputtest provides a recording input backend for tests.
package inputtest

import (
	"fmt"
	"sync"

	"automator/internal/input"
)

// Event is one call made against the recorder
type Event struct {
	Op        string // "location", "move", "click", "text", "key"
	Position  input.Position
	Button    input.MouseButton
	Text      string
	Key       input.Key
	Direction input.Direction
}

func (e Event) String() string {
	switch e.Op {
	case "move":
		return fmt.Sprintf("move (%.0f, %.0f)", e.Position.X, e.Position.Y)
	case "click":
		return "click " + e.Button.String()
	case "text":
		return fmt.Sprintf("text %q", e.Text)
	case "key":
		return e.Direction.String() + " " + e.Key.String()
	}
	return e.Op
}

// Recorder is an in-memory input.Backend. The pointer moves within a
// single screen of Width x Height.
type Recorder struct {
	Width, Height float64

	// FailOn, when set, is consulted before each event; a non-nil
	// error fails the call without recording it
	FailOn func(Event) error

	mu     sync.Mutex
	pos    input.Position
	events []Event
}

// NewRecorder returns a recorder with a 1920x1080 screen
func NewRecorder() *Recorder {
	return &Recorder{Width: 1920, Height: 1080}
}

func (r *Recorder) record(e Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailOn != nil {
		if err := r.FailOn(e); err != nil {
			return err
		}
	}
	if e.Op == "move" {
		r.pos = e.Position
	}
	r.events = append(r.events, e)
	return nil
}

// Events returns a copy of the recorded events, excluding location reads
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, 0, len(r.events))
	for _, e := range r.events {
		if e.Op != "location" {
			out = append(out, e)
		}
	}
	return out
}

// Strings renders Events for easy comparison
func (r *Recorder) Strings() []string {
	events := r.Events()
	out := make([]string, len(events))
	for i, e := range events {
		out[i] = e.String()
	}
	return out
}

// Reset clears recorded events
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.events = nil
	r.mu.Unlock()
}

func (r *Recorder) Location() (input.Position, error) {
	if err := r.record(Event{Op: "location"}); err != nil {
		return input.Position{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pos, nil
}

func (r *Recorder) IsPointVisible(pos input.Position) bool {
	return pos.X >= 0 && pos.Y >= 0 && pos.X < r.Width && pos.Y < r.Height
}

func (r *Recorder) MoveTo(pos input.Position) error {
	if !r.IsPointVisible(pos) {
		return fmt.Errorf("point (%.0f, %.0f) off screen: %w", pos.X, pos.Y, input.ErrInvalidTarget)
	}
	return r.record(Event{Op: "move", Position: pos})
}

func (r *Recorder) Click(button input.MouseButton) error {
	return r.record(Event{Op: "click", Button: button})
}

func (r *Recorder) Text(text string) error {
	return r.record(Event{Op: "text", Text: text})
}

func (r *Recorder) Key(key input.Key, dir input.Direction) error {
	return r.record(Event{Op: "key", Key: key, Direction: dir})
}
