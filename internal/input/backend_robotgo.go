//go:build cgo

package input

import (
	"fmt"
	"math"
	"os"
	"runtime"
	"strings"

	"github.com/go-vgo/robotgo"
)

// RobotgoBackend injects input through robotgo
type RobotgoBackend struct{}

// NewBackend returns the OS input backend for this build
func NewBackend() (*RobotgoBackend, error) {
	if runtime.GOOS == "linux" && os.Getenv("DISPLAY") == "" {
		return nil, fmt.Errorf("no X11 display (DISPLAY is unset): %w", ErrDeviceUnavailable)
	}
	return &RobotgoBackend{}, nil
}

func (b *RobotgoBackend) Location() (Position, error) {
	x, y := robotgo.Location()
	return Position{X: float64(x), Y: float64(y)}, nil
}

// IsPointVisible reports whether pos falls inside any attached display
func (b *RobotgoBackend) IsPointVisible(pos Position) bool {
	if math.IsNaN(pos.X) || math.IsNaN(pos.Y) {
		return false
	}
	n := robotgo.DisplaysNum()
	if n <= 0 {
		w, h := robotgo.GetScreenSize()
		return pos.X >= 0 && pos.Y >= 0 && pos.X < float64(w) && pos.Y < float64(h)
	}
	for i := 0; i < n; i++ {
		x, y, w, h := robotgo.GetDisplayBounds(i)
		if pos.X >= float64(x) && pos.Y >= float64(y) &&
			pos.X < float64(x+w) && pos.Y < float64(y+h) {
			return true
		}
	}
	return false
}

func (b *RobotgoBackend) MoveTo(pos Position) error {
	if !b.IsPointVisible(pos) {
		return fmt.Errorf("point (%.1f, %.1f) is outside every display: %w", pos.X, pos.Y, ErrInvalidTarget)
	}
	robotgo.Move(int(math.Round(pos.X)), int(math.Round(pos.Y)))
	return nil
}

func (b *RobotgoBackend) Click(button MouseButton) error {
	name, err := robotgoButton(button)
	if err != nil {
		return err
	}
	if err := robotgo.Toggle(name, "down"); err != nil {
		return fmt.Errorf("press %s button: %w", button, err)
	}
	if err := robotgo.Toggle(name, "up"); err != nil {
		return fmt.Errorf("release %s button: %w", button, err)
	}
	return nil
}

func (b *RobotgoBackend) Text(text string) error {
	robotgo.TypeStr(text)
	return nil
}

func (b *RobotgoBackend) Key(key Key, dir Direction) error {
	switch key.Kind {
	case KindModifier:
		return toggleKey(robotgoModifier(key.Modifier), dir)

	case KindCode:
		name, ok := KeyCodeName(key.Code)
		if !ok {
			return fmt.Errorf("key code %d has no mapping: %w", key.Code, ErrInvalidTarget)
		}
		return toggleKey(name, dir)

	case KindUnicode:
		// Characters on the keymap go through key events so held modifiers apply
		s := string(key.Char)
		if _, ok := keyNameCodes[s]; ok {
			return toggleKey(s, dir)
		}
		if dir != Click {
			return fmt.Errorf("char %q can only be clicked: %w", key.Char, ErrInvalidTarget)
		}
		if lower := strings.ToLower(s); lower != s {
			if _, ok := keyNameCodes[lower]; ok {
				if err := robotgo.KeyTap(lower, "shift"); err != nil {
					return fmt.Errorf("click %q: %w", s, err)
				}
				return nil
			}
		}
		robotgo.UnicodeType(uint32(key.Char))
		return nil
	}
	return fmt.Errorf("unknown key kind %d: %w", key.Kind, ErrInvalidTarget)
}

func toggleKey(name string, dir Direction) error {
	var err error
	switch dir {
	case Press:
		err = robotgo.KeyToggle(name, "down")
	case Release:
		err = robotgo.KeyToggle(name, "up")
	case Click:
		err = robotgo.KeyTap(name)
	default:
		return fmt.Errorf("unknown key direction %d: %w", dir, ErrInvalidTarget)
	}
	if err != nil {
		return fmt.Errorf("%s %q: %w", dir, name, err)
	}
	return nil
}

func robotgoButton(button MouseButton) (string, error) {
	switch button {
	case ButtonLeft:
		return "left", nil
	case ButtonMiddle:
		return "center", nil
	case ButtonRight:
		return "right", nil
	}
	return "", fmt.Errorf("unknown mouse button %d: %w", int(button), ErrInvalidTarget)
}

func robotgoModifier(m Modifier) string {
	switch m {
	case ModShift:
		return "shift"
	case ModAlt:
		return "alt"
	default:
		return "ctrl"
	}
}
