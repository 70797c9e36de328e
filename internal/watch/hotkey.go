package watch

import (
	"fmt"
	"strconv"
	"strings"
)

// Hotkey is a parsed key combination such as "ctrl+shift+r".
type Hotkey struct {
	spec string
	keys []hotkeyKey
}

type hotkeyKey struct {
	name     string
	rawcodes []uint16
}

// String returns the combination as configured.
func (h Hotkey) String() string {
	return h.spec
}

// ParseHotkey parses a "+"-separated key combination. Modifiers are ctrl,
// alt, shift and win; other keys are a-z, 0-9, f1-f12, space, tab, enter,
// insert, home and end. Rawcodes are Windows virtual-key codes.
func ParseHotkey(spec string) (Hotkey, error) {
	h := Hotkey{spec: spec}
	seen := make(map[string]bool)
	for _, part := range strings.Split(strings.ToLower(spec), "+") {
		name := normalizeKey(strings.TrimSpace(part))
		if name == "" {
			return Hotkey{}, fmt.Errorf("invalid hotkey %q: empty key", spec)
		}
		codes := rawcodes(name)
		if len(codes) == 0 {
			return Hotkey{}, fmt.Errorf("invalid hotkey %q: unknown key %q", spec, name)
		}
		if seen[name] {
			return Hotkey{}, fmt.Errorf("invalid hotkey %q: %s repeated", spec, name)
		}
		seen[name] = true
		h.keys = append(h.keys, hotkeyKey{name: name, rawcodes: codes})
	}
	return h, nil
}

func normalizeKey(name string) string {
	switch name {
	case "control":
		return "ctrl"
	case "cmd", "super", "meta":
		return "win"
	case "return":
		return "enter"
	}
	return name
}

func rawcodes(name string) []uint16 {
	switch name {
	case "ctrl":
		return []uint16{162, 163} // VK_LCONTROL, VK_RCONTROL
	case "alt":
		return []uint16{164, 165} // VK_LMENU, VK_RMENU
	case "shift":
		return []uint16{160, 161} // VK_LSHIFT, VK_RSHIFT
	case "win":
		return []uint16{91, 92} // VK_LWIN, VK_RWIN
	case "space":
		return []uint16{32}
	case "tab":
		return []uint16{9}
	case "enter":
		return []uint16{13}
	case "insert":
		return []uint16{45}
	case "home":
		return []uint16{36}
	case "end":
		return []uint16{35}
	}
	if len(name) == 1 {
		c := name[0]
		switch {
		case c >= 'a' && c <= 'z':
			return []uint16{uint16(c - 'a' + 'A')}
		case c >= '0' && c <= '9':
			return []uint16{uint16(c)}
		}
	}
	if len(name) >= 2 && name[0] == 'f' {
		n, err := strconv.Atoi(name[1:])
		if err == nil && n >= 1 && n <= 12 && strconv.Itoa(n) == name[1:] {
			return []uint16{uint16(111 + n)} // VK_F1 = 112
		}
	}
	return nil
}

// matcher tracks key state and reports when every key of the hotkey is down.
type matcher struct {
	keys    []hotkeyKey
	pressed []bool
}

func newMatcher(h Hotkey) *matcher {
	return &matcher{keys: h.keys, pressed: make([]bool, len(h.keys))}
}

// feed records a key event and reports whether it completed the combination.
// State resets after a match so holding the keys fires once.
func (m *matcher) feed(down bool, rawcode uint16) bool {
	hit := false
	for i, k := range m.keys {
		for _, c := range k.rawcodes {
			if c == rawcode {
				m.pressed[i] = down
				hit = true
			}
		}
	}
	if !hit || !down {
		return false
	}
	for _, p := range m.pressed {
		if !p {
			return false
		}
	}
	for i := range m.pressed {
		m.pressed[i] = false
	}
	return true
}
