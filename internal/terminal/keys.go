package terminal

// Key identifies a command or cursor key.
type Key uint8

// Command keys.
const (
	KeyNone Key = iota
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyPageUp
	KeyPageDown
	KeyHome
	KeyEnd
	KeyInsert
	KeyDelete
	KeyTab
	KeyBacktab
	KeyBackspace
	KeyEscape
)

var keyNames = [...]string{
	KeyNone:      "none",
	KeyUp:        "up",
	KeyDown:      "down",
	KeyLeft:      "left",
	KeyRight:     "right",
	KeyPageUp:    "pgup",
	KeyPageDown:  "pgdn",
	KeyHome:      "home",
	KeyEnd:       "end",
	KeyInsert:    "insert",
	KeyDelete:    "delete",
	KeyTab:       "tab",
	KeyBacktab:   "backtab",
	KeyBackspace: "backspace",
	KeyEscape:    "escape",
}

func (k Key) String() string {
	if int(k) < len(keyNames) {
		return keyNames[k]
	}
	return "unknown"
}

// FunctionKey is a 1-based function key number. F13-F24 are the shifted
// variants of F1-F12.
type FunctionKey uint8

// Function key identities.
const (
	F1 FunctionKey = iota + 1
	F2
	F3
	F4
	F5
	F6
	F7
	F8
	F9
	F10
	F11
	F12
	ShiftF1
	ShiftF2
	ShiftF3
	ShiftF4
	ShiftF5
	ShiftF6
	ShiftF7
	ShiftF8
	ShiftF9
	ShiftF10
	ShiftF11
	ShiftF12

	MaxFunctionKey = ShiftF12
)

// Valid reports whether k names a known function key.
func (k FunctionKey) Valid() bool {
	return k >= F1 && k <= MaxFunctionKey
}

// Control keys travel as their control byte.
const (
	CtrlA  byte = 0x01
	CtrlC  byte = 0x03
	CtrlL  byte = 0x0c
	CtrlQ  byte = 0x11
	CtrlR  byte = 0x12
	CtrlX  byte = 0x18
	CtrlZ  byte = 0x1a
	ESC    byte = 0x1b
	maxCtl byte = 0x1f
)

// Ctrl returns the control byte for a letter (case-insensitive). Other input
// is returned unchanged.
func Ctrl(letter byte) byte {
	switch {
	case letter >= 'a' && letter <= 'z':
		return letter - 'a' + 1
	case letter >= 'A' && letter <= 'Z':
		return letter - 'A' + 1
	}
	return letter
}

// CtrlLetter maps a control byte back to its upper-case letter. ok is false
// for bytes outside 0x01-0x1a.
func CtrlLetter(b byte) (letter byte, ok bool) {
	if b >= 0x01 && b <= CtrlZ {
		return 'A' + b - 1, true
	}
	return 0, false
}

// IsControl reports whether b is a C0 control byte.
func IsControl(b byte) bool {
	return b <= maxCtl
}

// IsPrintable reports whether b is a printable 7-bit character.
func IsPrintable(b byte) bool {
	return b >= 0x20 && b < 0x7f
}
