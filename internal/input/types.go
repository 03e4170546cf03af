// Package input provides the input dispatch surface: mouse, text and key
// combination primitives forwarded to the host input-injection facilities.
package input

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Position is a device-independent screen coordinate
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// MouseButton identifies a mouse button
type MouseButton int

const (
	ButtonLeft MouseButton = iota
	ButtonMiddle
	ButtonRight
)

var buttonNames = map[MouseButton]string{
	ButtonLeft:   "Left",
	ButtonMiddle: "Middle",
	ButtonRight:  "Right",
}

func (b MouseButton) String() string {
	if name, ok := buttonNames[b]; ok {
		return name
	}
	return fmt.Sprintf("MouseButton(%d)", int(b))
}

// ParseMouseButton accepts "Left", "Middle" or "Right" in any case
func ParseMouseButton(s string) (MouseButton, error) {
	for b, name := range buttonNames {
		if strings.EqualFold(s, name) {
			return b, nil
		}
	}
	return 0, fmt.Errorf("unknown mouse button %q: %w", s, ErrInvalidTarget)
}

func (b MouseButton) MarshalJSON() ([]byte, error) {
	name, ok := buttonNames[b]
	if !ok {
		return nil, fmt.Errorf("unknown mouse button %d", int(b))
	}
	return json.Marshal(name)
}

func (b *MouseButton) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("mouse button must be a string: %w", err)
	}
	parsed, err := ParseMouseButton(s)
	if err != nil {
		return err
	}
	*b = parsed
	return nil
}

// KeyCombination describes held modifiers plus one target key.
// KeyName is used when UseUnicode is set, KeyCode otherwise.
type KeyCombination struct {
	HoldCtrl   bool   `json:"hold_ctrl"`
	HoldShift  bool   `json:"hold_shift"`
	HoldAlt    bool   `json:"hold_alt"`
	KeyCode    uint32 `json:"key_code"`
	KeyName    string `json:"key_name,omitempty"`
	UseUnicode bool   `json:"use_unicode,omitempty"`
}

// Modifiers returns the held modifiers in press order
func (c KeyCombination) Modifiers() []Modifier {
	var mods []Modifier
	if c.HoldCtrl {
		mods = append(mods, ModCtrl)
	}
	if c.HoldShift {
		mods = append(mods, ModShift)
	}
	if c.HoldAlt {
		mods = append(mods, ModAlt)
	}
	return mods
}

// Target returns the key selector for the non-modifier key
func (c KeyCombination) Target() (Key, error) {
	if !c.UseUnicode {
		return CodeKey(c.KeyCode), nil
	}
	runes := []rune(c.KeyName)
	if len(runes) != 1 {
		return Key{}, fmt.Errorf("key_name must be a single character, got %q: %w", c.KeyName, ErrInvalidTarget)
	}
	return UnicodeKey(runes[0]), nil
}

func (c KeyCombination) String() string {
	var parts []string
	for _, m := range c.Modifiers() {
		parts = append(parts, m.String())
	}
	if c.UseUnicode {
		parts = append(parts, fmt.Sprintf("%q", c.KeyName))
	} else {
		parts = append(parts, fmt.Sprintf("code %d", c.KeyCode))
	}
	return strings.Join(parts, "+")
}

// Modifier is a key held down to alter a subsequent key press
type Modifier int

const (
	ModCtrl Modifier = iota
	ModShift
	ModAlt
)

func (m Modifier) String() string {
	switch m {
	case ModCtrl:
		return "Ctrl"
	case ModShift:
		return "Shift"
	case ModAlt:
		return "Alt"
	}
	return fmt.Sprintf("Modifier(%d)", int(m))
}

// KeyKind tells which field of a Key selects the key
type KeyKind int

const (
	KindCode KeyKind = iota
	KindUnicode
	KindModifier
)

// Key selects a key either by raw code, by unicode character or as a modifier
type Key struct {
	Kind     KeyKind
	Code     uint32
	Char     rune
	Modifier Modifier
}

func CodeKey(code uint32) Key { return Key{Kind: KindCode, Code: code} }
func UnicodeKey(r rune) Key { return Key{Kind: KindUnicode, Char: r} }
func ModifierKey(m Modifier) Key { return Key{Kind: KindModifier, Modifier: m} }

func (k Key) String() string {
	switch k.Kind {
	case KindCode:
		return fmt.Sprintf("code %d", k.Code)
	case KindUnicode:
		return fmt.Sprintf("char %q", k.Char)
	default:
		return k.Modifier.String()
	}
}

// Direction of a key event
type Direction int

const (
	Press Direction = iota
	Release
	Click
)

func (d Direction) String() string {
	switch d {
	case Press:
		return "press"
	case Release:
		return "release"
	case Click:
		return "click"
	}
	return fmt.Sprintf("Direction(%d)", int(d))
}

// Pointer is the OS pointer and screen service
type Pointer interface {
	Location() (Position, error)
	MoveTo(pos Position) error
	IsPointVisible(pos Position) bool
	Click(button MouseButton) error
}

// Keyboard is the OS keyboard and text service
type Keyboard interface {
	Text(text string) error
	Key(key Key, dir Direction) error
}

// Backend bundles both OS services
type Backend interface {
	Pointer
	Keyboard
}
