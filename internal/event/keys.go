package event

import (
	"fmt"
	"strings"
)

// KeyCode is a layout-independent key identifier.
type KeyCode uint16

const (
	KeyUnknown KeyCode = iota
	KeyA
	KeyB
	KeyC
	KeyD
	KeyE
	KeyF
	KeyG
	KeyH
	KeyI
	KeyJ
	KeyK
	KeyL
	KeyM
	KeyN
	KeyO
	KeyP
	KeyQ
	KeyR
	KeyS
	KeyT
	KeyU
	KeyV
	KeyW
	KeyX
	KeyY
	KeyZ
	Key0
	Key1
	Key2
	Key3
	Key4
	Key5
	Key6
	Key7
	Key8
	Key9
	KeyEscape
	KeyEnter
	KeySpace
	KeyTab
	KeyBackspace
	KeyDelete
	KeyInsert
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
	KeyLeftShift
	KeyRightShift
	KeyLeftControl
	KeyRightControl
	KeyLeftAlt
	KeyRightAlt
	KeyLeftSuper
	KeyRightSuper
	KeyCapsLock
	keyCodeCount
)

var keyNames = [keyCodeCount]string{
	KeyUnknown:      "Unknown",
	KeyEscape:       "Escape",
	KeyEnter:        "Enter",
	KeySpace:        "Space",
	KeyTab:          "Tab",
	KeyBackspace:    "Backspace",
	KeyDelete:       "Delete",
	KeyInsert:       "Insert",
	KeyHome:         "Home",
	KeyEnd:          "End",
	KeyPageUp:       "PageUp",
	KeyPageDown:     "PageDown",
	KeyLeft:         "Left",
	KeyRight:        "Right",
	KeyUp:           "Up",
	KeyDown:         "Down",
	KeyLeftShift:    "LeftShift",
	KeyRightShift:   "RightShift",
	KeyLeftControl:  "LeftControl",
	KeyRightControl: "RightControl",
	KeyLeftAlt:      "LeftAlt",
	KeyRightAlt:     "RightAlt",
	KeyLeftSuper:    "LeftSuper",
	KeyRightSuper:   "RightSuper",
	KeyCapsLock:     "CapsLock",
}

func init() {
	for k := KeyA; k <= KeyZ; k++ {
		keyNames[k] = string(rune('A' + (k - KeyA)))
	}
	for k := Key0; k <= Key9; k++ {
		keyNames[k] = string(rune('0' + (k - Key0)))
	}
	for k := KeyF1; k <= KeyF12; k++ {
		keyNames[k] = fmt.Sprintf("F%d", k-KeyF1+1)
	}
}

func (k KeyCode) String() string {
	if k < keyCodeCount {
		return keyNames[k]
	}
	return fmt.Sprintf("KeyCode(%d)", uint16(k))
}

// ParseKey looks a key code up by its String form, ignoring case. Unknown
// names map to KeyUnknown.
func ParseKey(name string) KeyCode {
	for k := KeyA; k < keyCodeCount; k++ {
		if strings.EqualFold(keyNames[k], name) {
			return k
		}
	}
	return KeyUnknown
}

// KeyForLetter maps an ASCII letter, either case, to its key code.
func KeyForLetter(r rune) KeyCode {
	switch {
	case r >= 'a' && r <= 'z':
		return KeyA + KeyCode(r-'a')
	case r >= 'A' && r <= 'Z':
		return KeyA + KeyCode(r-'A')
	}
	return KeyUnknown
}

// KeyForDigit maps an ASCII digit to its key code.
func KeyForDigit(r rune) KeyCode {
	if r >= '0' && r <= '9' {
		return Key0 + KeyCode(r-'0')
	}
	return KeyUnknown
}

// Modifiers is a set of active modifier keys.
type Modifiers uint8

const (
	ModShift Modifiers = 1 << iota
	ModControl
	ModAlt
	ModSuper
	ModCapsLock
)

func (m Modifiers) String() string {
	if m == 0 {
		return "none"
	}
	var parts []string
	for _, mod := range []struct {
		bit  Modifiers
		name string
	}{
		{ModShift, "shift"},
		{ModControl, "ctrl"},
		{ModAlt, "alt"},
		{ModSuper, "super"},
		{ModCapsLock, "caps"},
	} {
		if m&mod.bit != 0 {
			parts = append(parts, mod.name)
		}
	}
	return strings.Join(parts, "+")
}

// Button identifies a pointer button. Values above ButtonMiddle are
// platform-numbered extra buttons.
type Button uint8

const (
	ButtonLeft Button = iota + 1
	ButtonRight
	ButtonMiddle
)

func (b Button) String() string {
	switch b {
	case ButtonLeft:
		return "left"
	case ButtonRight:
		return "right"
	case ButtonMiddle:
		return "middle"
	default:
		return fmt.Sprintf("button%d", uint8(b))
	}
}
