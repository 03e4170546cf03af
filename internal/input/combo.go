package input

import (
	"fmt"
	"strings"
)

// ParseCombination parses a shortcut string such as "Ctrl+Shift+A" or
// "Alt+F4". The last part is the target key: a key name from the keycode
// table, or any single character, which is sent through the unicode path.
// A bare "+" is the plus key and "Ctrl++" is Ctrl with it; "++" alone is
// rejected because its first part is an empty modifier.
func ParseCombination(s string) (KeyCombination, error) {
	var combo KeyCombination

	parts := strings.Split(s, "+")
	switch {
	case strings.TrimSpace(s) == "+":
		parts = []string{"+"}
	case strings.HasSuffix(s, "++"):
		parts = append(parts[:len(parts)-2], "+")
	}
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}

	last := len(parts) - 1
	if last < 0 || parts[last] == "" {
		return combo, fmt.Errorf("shortcut %q has no target key: %w", s, ErrInvalidTarget)
	}

	for _, p := range parts[:last] {
		switch strings.ToUpper(p) {
		case "CTRL", "CONTROL":
			combo.HoldCtrl = true
		case "SHIFT":
			combo.HoldShift = true
		case "ALT", "OPTION":
			combo.HoldAlt = true
		default:
			return combo, fmt.Errorf("shortcut %q: unknown modifier %q: %w", s, p, ErrInvalidTarget)
		}
	}

	target := parts[last]
	if code, ok := LookupKeyName(target); ok {
		combo.KeyCode = code
		return combo, nil
	}
	if runes := []rune(target); len(runes) == 1 {
		combo.UseUnicode = true
		combo.KeyName = target
		return combo, nil
	}
	return combo, fmt.Errorf("shortcut %q: unknown key %q: %w", s, target, ErrInvalidTarget)
}
