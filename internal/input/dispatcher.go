package input

import (
	"errors"
	"log"
)

// Tracer receives step-by-step diagnostics. It never affects behavior.
type Tracer interface {
	Tracef(format string, args ...any)
}

type nopTracer struct{}

func (nopTracer) Tracef(string, ...any) {}

// LogTracer writes trace messages through the standard logger
type LogTracer struct{}

func (LogTracer) Tracef(format string, args ...any) {
	log.Printf("Input: "+format, args...)
}

// Dispatcher forwards commands to the OS pointer and keyboard services.
// It holds no mutable state and is safe for concurrent use; concurrent
// calls may still interleave at the OS level.
type Dispatcher struct {
	pointer  Pointer
	keyboard Keyboard
	tracer   Tracer
}

// Option configures a Dispatcher
type Option func(*Dispatcher)

// WithTracer sets the diagnostic sink
func WithTracer(t Tracer) Option {
	return func(d *Dispatcher) {
		if t != nil {
			d.tracer = t
		}
	}
}

// NewDispatcher creates a dispatcher over the given OS services
func NewDispatcher(p Pointer, k Keyboard, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		pointer:  p,
		keyboard: k,
		tracer:   nopTracer{},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// GetMousePosition reads the current pointer location
func (d *Dispatcher) GetMousePosition() (Position, error) {
	pos, err := d.pointer.Location()
	if err != nil {
		return Position{}, opError("get_mouse_position", err)
	}
	d.tracer.Tracef("Pointer at (%.1f, %.1f)", pos.X, pos.Y)
	return pos, nil
}

// CheckMousePosition reports whether pos lies on a visible display
func (d *Dispatcher) CheckMousePosition(pos Position) bool {
	visible := d.pointer.IsPointVisible(pos)
	d.tracer.Tracef("Point (%.1f, %.1f) visible: %v", pos.X, pos.Y, visible)
	return visible
}

// MoveMouseTo moves the pointer to pos
func (d *Dispatcher) MoveMouseTo(pos Position) error {
	if err := d.pointer.MoveTo(pos); err != nil {
		d.tracer.Tracef("Move to (%.1f, %.1f) failed: %v", pos.X, pos.Y, err)
		return opError("move_mouse_to", err)
	}
	d.tracer.Tracef("Moved pointer to (%.1f, %.1f)", pos.X, pos.Y)
	return nil
}

// Click presses and releases button at the current pointer location
func (d *Dispatcher) Click(button MouseButton) error {
	if _, ok := buttonNames[button]; !ok {
		return opError("click", ErrInvalidTarget)
	}
	if err := d.pointer.Click(button); err != nil {
		return opError("click", err)
	}
	d.tracer.Tracef("Clicked %s button", button)
	return nil
}

// Write types text through the OS text-input facility
func (d *Dispatcher) Write(text string) error {
	if text == "" {
		return nil
	}
	if err := d.keyboard.Text(text); err != nil {
		return opError("write", err)
	}
	d.tracer.Tracef("Wrote %d characters", len([]rune(text)))
	return nil
}

// PressKeyCombination holds the requested modifiers (Ctrl, Shift, Alt),
// clicks the target key and releases the modifiers in reverse order.
// Modifiers already pressed are released on every exit path.
func (d *Dispatcher) PressKeyCombination(combo KeyCombination) (err error) {
	target, err := combo.Target()
	if err != nil {
		return opError("press_key_combination", err)
	}

	var held []Modifier
	defer func() {
		if rerr := d.release(held); rerr != nil {
			err = errors.Join(err, opError("press_key_combination", rerr))
		}
	}()

	for _, m := range combo.Modifiers() {
		if err := d.keyboard.Key(ModifierKey(m), Press); err != nil {
			return opError("press_key_combination", err)
		}
		held = append(held, m)
		d.tracer.Tracef("Holding %s", m)
	}

	if err := d.keyboard.Key(target, Click); err != nil {
		return opError("press_key_combination", err)
	}
	if target.Kind == KindUnicode {
		d.tracer.Tracef("Pressed char %q through unicode", target.Char)
	} else {
		d.tracer.Tracef("Pressed key code %d through keycode", target.Code)
	}
	return nil
}

// release lets go of held modifiers, last pressed first. It keeps going
// after a failure so one stuck key does not strand the others.
func (d *Dispatcher) release(held []Modifier) error {
	var errs []error
	for i := len(held) - 1; i >= 0; i-- {
		if err := d.keyboard.Key(ModifierKey(held[i]), Release); err != nil {
			errs = append(errs, err)
			continue
		}
		d.tracer.Tracef("Releasing %s", held[i])
	}
	return errors.Join(errs...)
}

// ReleaseModifiers releases Alt, Shift and Ctrl unconditionally. Use it to
// clear modifiers left logically held by a foreign process or a crash.
func (d *Dispatcher) ReleaseModifiers() error {
	return opError("release_modifiers", d.release([]Modifier{ModCtrl, ModShift, ModAlt}))
}
