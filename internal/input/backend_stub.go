//go:build !cgo

package input

import "fmt"

// Stub implementation for builds without cgo, where robotgo is unavailable

// StubBackend reports every operation as unavailable
type StubBackend struct{}

// NewBackend returns a backend that cannot inject input
func NewBackend() (*StubBackend, error) {
	return &StubBackend{}, nil
}

func (b *StubBackend) Location() (Position, error) {
	return Position{}, fmt.Errorf("pointer location: %w", ErrDeviceUnavailable)
}

func (b *StubBackend) MoveTo(pos Position) error {
	return fmt.Errorf("pointer move: %w", ErrDeviceUnavailable)
}

func (b *StubBackend) IsPointVisible(pos Position) bool {
	return false
}

func (b *StubBackend) Click(button MouseButton) error {
	return fmt.Errorf("mouse click: %w", ErrDeviceUnavailable)
}

func (b *StubBackend) Text(text string) error {
	return fmt.Errorf("text input: %w", ErrDeviceUnavailable)
}

func (b *StubBackend) Key(key Key, dir Direction) error {
	return fmt.Errorf("key %s: %w", dir, ErrDeviceUnavailable)
}
