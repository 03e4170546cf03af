package input

import (
	"errors"
	"testing"
)

func TestParseCombination(t *testing.T) {
	tests := []struct {
		in   string
		want KeyCombination
	}{
		{"Ctrl+A", KeyCombination{HoldCtrl: true, KeyCode: 0x41}},
		{"ctrl + shift + s", KeyCombination{HoldCtrl: true, HoldShift: true, KeyCode: 0x53}},
		{"Alt+F4", KeyCombination{HoldAlt: true, KeyCode: 0x73}},
		{"Control+Option+Esc", KeyCombination{HoldCtrl: true, HoldAlt: true, KeyCode: 0x1B}},
		{"Enter", KeyCombination{KeyCode: 0x0D}},
		{"Ctrl+;", KeyCombination{HoldCtrl: true, KeyCode: 0xBA}},
		{"Ctrl++", KeyCombination{HoldCtrl: true, KeyName: "+", UseUnicode: true}},
		{"Ctrl+Shift++", KeyCombination{HoldCtrl: true, HoldShift: true, KeyName: "+", UseUnicode: true}},
		{"+", KeyCombination{KeyName: "+", UseUnicode: true}},
		{" + ", KeyCombination{KeyName: "+", UseUnicode: true}},
		{"Shift+ç", KeyCombination{HoldShift: true, KeyName: "ç", UseUnicode: true}},
	}

	for _, tt := range tests {
		got, err := ParseCombination(tt.in)
		if err != nil {
			t.Errorf("ParseCombination(%q) failed: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseCombination(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestParseCombinationErrors(t *testing.T) {
	for _, in := range []string{"", "Ctrl+", "++", "Hyper+A", "Ctrl+NoSuchKey"} {
		if _, err := ParseCombination(in); !errors.Is(err, ErrInvalidTarget) {
			t.Errorf("ParseCombination(%q): expected ErrInvalidTarget, got %v", in, err)
		}
	}
}

func TestKeyCodeTable(t *testing.T) {
	if name, ok := KeyCodeName(65); !ok || name != "a" {
		t.Errorf("Expected code 65 to map to 'a', got %q (%v)", name, ok)
	}
	if _, ok := KeyCodeName(0xFFFF); ok {
		t.Error("Expected unknown code to have no mapping")
	}
	for name, want := range map[string]uint32{"return": 0x0D, "PgDn": 0x22, "f12": 0x7B, "Space": 0x20} {
		if code, ok := LookupKeyName(name); !ok || code != want {
			t.Errorf("LookupKeyName(%q) = 0x%X (%v), want 0x%X", name, code, ok, want)
		}
	}
}

func TestMouseButtonJSON(t *testing.T) {
	for _, s := range []string{"Left", "left", "MIDDLE"} {
		var b MouseButton
		if err := b.UnmarshalJSON([]byte(`"` + s + `"`)); err != nil {
			t.Errorf("Unmarshal %q failed: %v", s, err)
		}
	}
	var b MouseButton
	if err := b.UnmarshalJSON([]byte(`"Back"`)); !errors.Is(err, ErrInvalidTarget) {
		t.Errorf("Expected ErrInvalidTarget for unknown button, got %v", err)
	}
	data, err := ButtonRight.MarshalJSON()
	if err != nil || string(data) != `"Right"` {
		t.Errorf("Expected \"Right\", got %s (%v)", data, err)
	}
}
