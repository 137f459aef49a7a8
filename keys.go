package vt

// KeyCode enumerates the keys a host can report through KeyDown/KeyUp,
// mirroring the original KeyCode enum: printable characters carry their
// rune, everything else is a named variant.
type KeyCode struct {
	Char rune // valid when Name == KeyChar
	Name KeyName
}

type KeyName uint8

const (
	KeyNone KeyName = iota
	KeyChar
	KeyUnknown
	KeyControl
	KeyAlt
	KeyMeta
	KeySuper
	KeyHyper
	KeyShift
	KeyLeft
	KeyUp
	KeyRight
	KeyDown
	KeyPageUp
	KeyPageDown
	KeyHome
	KeyEnd
)

// Char builds a KeyCode for a printable character.
func Char(r rune) KeyCode { return KeyCode{Char: r, Name: KeyChar} }

// Named builds a KeyCode for a non-character key.
func Named(name KeyName) KeyCode { return KeyCode{Name: name} }

// KeyModifiers is a bitmask, numerically identical to the original's
// KeyModifiers bitflags (CTRL=1, ALT=2, META=4, SUPER=8, SHIFT=16) so the
// same mental model transfers directly.
type KeyModifiers uint8

const (
	ModCtrl  KeyModifiers = 1 << 0
	ModAlt   KeyModifiers = 1 << 1
	ModMeta  KeyModifiers = 1 << 2
	ModSuper KeyModifiers = 1 << 3
	ModShift KeyModifiers = 1 << 4
)

func (m KeyModifiers) has(f KeyModifiers) bool { return m&f != 0 }

// translateKey converts one key press into the byte sequence it should
// send down the pty, exactly reproducing key_down's match table: Ctrl
// folds a letter to its control code, Alt sets the high bit (characters
// above 0xff are sent unchanged), application cursor mode switches the arrow
// keys and Home/End between CSI and SS3 forms, and everything else not
// named below produces no bytes.
func translateKey(key KeyCode, mods KeyModifiers, applicationCursorKeys bool) string {
	if key.Name == KeyChar {
		c := key.Char
		switch {
		case mods.has(ModCtrl) && mods.has(ModShift) && c <= 0xff:
			return string([]byte{byte(c) - 0x40})
		case mods.has(ModCtrl) && c <= 0xff:
			return string([]byte{byte(c) - 0x60})
		case mods.has(ModAlt) && c <= 0xff:
			return string([]byte{byte(c) | 0x80})
		default:
			return string(c)
		}
	}

	switch key.Name {
	case KeyLeft:
		if applicationCursorKeys {
			return "\x1bOD"
		}
		return "\x1b[D"
	case KeyRight:
		if applicationCursorKeys {
			return "\x1bOC"
		}
		return "\x1b[C"
	case KeyUp:
		if applicationCursorKeys {
			return "\x1bOA"
		}
		return "\x1b[A"
	case KeyDown:
		if applicationCursorKeys {
			return "\x1bOB"
		}
		return "\x1b[B"
	case KeyHome:
		if applicationCursorKeys {
			return "\x1bOH"
		}
		return "\x1b[H"
	case KeyEnd:
		if applicationCursorKeys {
			return "\x1bOF"
		}
		return "\x1b[F"
	case KeyPageUp:
		return "\x1b[5~"
	case KeyPageDown:
		return "\x1b[6~"
	default:
		// modifier-only keys (Control/Alt/Meta/Super/Hyper/Shift alone) and
		// Unknown produce no output, same as the original.
		return ""
	}
}
