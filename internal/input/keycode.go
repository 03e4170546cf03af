package input

import "strings"

// Browser/Windows virtual-key codes to robotgo key names.
// Reference: https://docs.microsoft.com/en-us/windows/win32/inputdev/virtual-key-codes
var keyCodeNames = map[uint32]string{
	// Letters A-Z (VK_A = 0x41)
	0x41: "a", 0x42: "b", 0x43: "c", 0x44: "d", 0x45: "e", 0x46: "f",
	0x47: "g", 0x48: "h", 0x49: "i", 0x4A: "j", 0x4B: "k", 0x4C: "l",
	0x4D: "m", 0x4E: "n", 0x4F: "o", 0x50: "p", 0x51: "q", 0x52: "r",
	0x53: "s", 0x54: "t", 0x55: "u", 0x56: "v", 0x57: "w", 0x58: "x",
	0x59: "y", 0x5A: "z",

	// Numbers 0-9 (VK_0 = 0x30)
	0x30: "0", 0x31: "1", 0x32: "2", 0x33: "3", 0x34: "4",
	0x35: "5", 0x36: "6", 0x37: "7", 0x38: "8", 0x39: "9",

	// Function keys (VK_F1 = 0x70)
	0x70: "f1", 0x71: "f2", 0x72: "f3", 0x73: "f4", 0x74: "f5", 0x75: "f6",
	0x76: "f7", 0x77: "f8", 0x78: "f9", 0x79: "f10", 0x7A: "f11", 0x7B: "f12",

	// Special keys
	0x08: "backspace",
	0x09: "tab",
	0x0D: "enter",
	0x10: "shift",
	0x11: "ctrl",
	0x12: "alt",
	0x14: "capslock",
	0x1B: "escape",
	0x20: "space",
	0x2C: "printscreen",
	0x5D: "menu",

	// Arrow keys
	0x25: "left",
	0x26: "up",
	0x27: "right",
	0x28: "down",

	// Navigation keys
	0x21: "pageup",
	0x22: "pagedown",
	0x23: "end",
	0x24: "home",
	0x2D: "insert",
	0x2E: "delete",

	// Modifier keys
	0x5B: "cmd",
	0x5C: "rcmd",
	0xA0: "lshift",
	0xA1: "rshift",
	0xA2: "lctrl",
	0xA3: "rctrl",
	0xA4: "lalt",
	0xA5: "ralt",

	// Punctuation and symbols
	0xBA: ";",
	0xBB: "=",
	0xBC: ",",
	0xBD: "-",
	0xBE: ".",
	0xBF: "/",
	0xC0: "`",
	0xDB: "[",
	0xDC: "\\",
	0xDD: "]",
	0xDE: "'",

	// Numpad
	0x60: "num0", 0x61: "num1", 0x62: "num2", 0x63: "num3", 0x64: "num4",
	0x65: "num5", 0x66: "num6", 0x67: "num7", 0x68: "num8", 0x69: "num9",
	0x6A: "num*",
	0x6B: "num+",
	0x6D: "num-",
	0x6E: "num.",
	0x6F: "num/",
	0x90: "num_lock",
}

// Extra spellings accepted by LookupKeyName
var keyNameAliases = map[string]string{
	"return":     "enter",
	"esc":        "escape",
	"del":        "delete",
	"ins":        "insert",
	"bksp":       "backspace",
	"pgup":       "pageup",
	"pgdn":       "pagedown",
	"spacebar":   "space",
	"prtsc":      "printscreen",
	"control":    "ctrl",
	"option":     "alt",
	"win":        "cmd",
	"super":      "cmd",
	"command":    "cmd",
	"arrowleft":  "left",
	"arrowup":    "up",
	"arrowright": "right",
	"arrowdown":  "down",
}

var keyNameCodes = func() map[string]uint32 {
	m := make(map[string]uint32, len(keyCodeNames))
	for code, name := range keyCodeNames {
		m[name] = code
	}
	return m
}()

// KeyCodeName returns the robotgo key name for a virtual-key code
func KeyCodeName(code uint32) (string, bool) {
	name, ok := keyCodeNames[code]
	return name, ok
}

// LookupKeyName returns the virtual-key code for a key name such as
// "Enter", "F5" or "A". Matching ignores case.
func LookupKeyName(name string) (uint32, bool) {
	n := strings.ToLower(strings.TrimSpace(name))
	if alias, ok := keyNameAliases[n]; ok {
		n = alias
	}
	code, ok := keyNameCodes[n]
	return code, ok
}
