package x11

import (
	"github.com/BurntSushi/xgb/xproto"

	"github.com/1broseidon/gaudium/internal/event"
)

const (
	keysymSpace     = 0x0020
	keysym0         = 0x0030
	keysym9         = 0x0039
	keysymUpperA    = 0x0041
	keysymUpperZ    = 0x005a
	keysymLowerA    = 0x0061
	keysymLowerZ    = 0x007a
	keysymBackSpace = 0xff08
	keysymTab       = 0xff09
	keysymReturn    = 0xff0d
	keysymEscape    = 0xff1b
	keysymHome      = 0xff50
	keysymLeft      = 0xff51
	keysymUp        = 0xff52
	keysymRight     = 0xff53
	keysymDown      = 0xff54
	keysymPageUp    = 0xff55
	keysymPageDown  = 0xff56
	keysymEnd       = 0xff57
	keysymInsert    = 0xff63
	keysymKPEnter   = 0xff8d
	keysymF1        = 0xffbe
	keysymF12       = 0xffc9
	keysymShiftL    = 0xffe1
	keysymShiftR    = 0xffe2
	keysymControlL  = 0xffe3
	keysymControlR  = 0xffe4
	keysymCapsLock  = 0xffe5
	keysymAltL      = 0xffe9
	keysymAltR      = 0xffea
	keysymSuperL    = 0xffeb
	keysymSuperR    = 0xffec
	keysymDelete    = 0xffff
)

var keysymCodes = map[xproto.Keysym]event.KeyCode{
	keysymSpace:     event.KeySpace,
	keysymBackSpace: event.KeyBackspace,
	keysymTab:       event.KeyTab,
	keysymReturn:    event.KeyEnter,
	keysymKPEnter:   event.KeyEnter,
	keysymEscape:    event.KeyEscape,
	keysymHome:      event.KeyHome,
	keysymLeft:      event.KeyLeft,
	keysymUp:        event.KeyUp,
	keysymRight:     event.KeyRight,
	keysymDown:      event.KeyDown,
	keysymPageUp:    event.KeyPageUp,
	keysymPageDown:  event.KeyPageDown,
	keysymEnd:       event.KeyEnd,
	keysymInsert:    event.KeyInsert,
	keysymShiftL:    event.KeyLeftShift,
	keysymShiftR:    event.KeyRightShift,
	keysymControlL:  event.KeyLeftControl,
	keysymControlR:  event.KeyRightControl,
	keysymCapsLock:  event.KeyCapsLock,
	keysymAltL:      event.KeyLeftAlt,
	keysymAltR:      event.KeyRightAlt,
	keysymSuperL:    event.KeyLeftSuper,
	keysymSuperR:    event.KeyRightSuper,
	keysymDelete:    event.KeyDelete,
}

// keyCode maps a keysym to a key code. Unmapped keysyms give KeyUnknown.
func keyCode(sym xproto.Keysym) event.KeyCode {
	switch {
	case sym >= keysymLowerA && sym <= keysymLowerZ:
		return event.KeyA + event.KeyCode(sym-keysymLowerA)
	case sym >= keysymUpperA && sym <= keysymUpperZ:
		return event.KeyA + event.KeyCode(sym-keysymUpperA)
	case sym >= keysym0 && sym <= keysym9:
		return event.Key0 + event.KeyCode(sym-keysym0)
	case sym >= keysymF1 && sym <= keysymF12:
		return event.KeyF1 + event.KeyCode(sym-keysymF1)
	}
	return keysymCodes[sym]
}

// modifiers converts a core protocol key/button state mask.
func modifiers(state uint16) event.Modifiers {
	var m event.Modifiers
	if state&xproto.ModMaskShift != 0 {
		m |= event.ModShift
	}
	if state&xproto.ModMaskControl != 0 {
		m |= event.ModControl
	}
	if state&xproto.ModMask1 != 0 {
		m |= event.ModAlt
	}
	if state&xproto.ModMask4 != 0 {
		m |= event.ModSuper
	}
	if state&xproto.ModMaskLock != 0 {
		m |= event.ModCapsLock
	}
	return m
}
