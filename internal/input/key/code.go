package key

import (
	"fmt"
	"strings"
)

// Code identifies a keyboard key.
// Values follow the SDL 1.2 SDLKey enumeration.
type Code int32

// Key codes for non-printable and keypad keys.
const (
	CodeUnknown   Code = 0
	CodeBackspace Code = 8
	CodeTab       Code = 9
	CodeClear     Code = 12
	CodeReturn    Code = 13
	CodePause     Code = 19
	CodeEscape    Code = 27
	CodeSpace     Code = 32
	CodeDelete    Code = 127

	// Keypad
	CodeKP0        Code = 256
	CodeKP1        Code = 257
	CodeKP2        Code = 258
	CodeKP3        Code = 259
	CodeKP4        Code = 260
	CodeKP5        Code = 261
	CodeKP6        Code = 262
	CodeKP7        Code = 263
	CodeKP8        Code = 264
	CodeKP9        Code = 265
	CodeKPPeriod   Code = 266
	CodeKPDivide   Code = 267
	CodeKPMultiply Code = 268
	CodeKPMinus    Code = 269
	CodeKPPlus     Code = 270
	CodeKPEnter    Code = 271
	CodeKPEquals   Code = 272

	// Arrows and navigation
	CodeUp       Code = 273
	CodeDown     Code = 274
	CodeRight    Code = 275
	CodeLeft     Code = 276
	CodeInsert   Code = 277
	CodeHome     Code = 278
	CodeEnd      Code = 279
	CodePageUp   Code = 280
	CodePageDown Code = 281

	// Function keys
	CodeF1  Code = 282
	CodeF2  Code = 283
	CodeF3  Code = 284
	CodeF4  Code = 285
	CodeF5  Code = 286
	CodeF6  Code = 287
	CodeF7  Code = 288
	CodeF8  Code = 289
	CodeF9  Code = 290
	CodeF10 Code = 291
	CodeF11 Code = 292
	CodeF12 Code = 293

	// Lock and modifier keys
	CodeNumLock    Code = 300
	CodeCapsLock   Code = 301
	CodeScrollLock Code = 302
	CodeRShift     Code = 303
	CodeLShift     Code = 304
	CodeRCtrl      Code = 305
	CodeLCtrl      Code = 306
	CodeRAlt       Code = 307
	CodeLAlt       Code = 308
	CodeRMeta      Code = 309
	CodeLMeta      Code = 310
	CodeLSuper     Code = 311
	CodeRSuper     Code = 312

	// Miscellaneous
	CodePrint Code = 316
	CodeMenu  Code = 319
)

// codeNames maps non-printable codes to display names.
var codeNames = map[Code]string{
	CodeUnknown:    "Unknown",
	CodeBackspace:  "Backspace",
	CodeTab:        "Tab",
	CodeClear:      "Clear",
	CodeReturn:     "Return",
	CodePause:      "Pause",
	CodeEscape:     "Escape",
	CodeSpace:      "Space",
	CodeDelete:     "Delete",
	CodeKPPeriod:   "KP.",
	CodeKPDivide:   "KP/",
	CodeKPMultiply: "KP*",
	CodeKPMinus:    "KP-",
	CodeKPPlus:     "KP+",
	CodeKPEnter:    "KPEnter",
	CodeKPEquals:   "KP=",
	CodeUp:         "Up",
	CodeDown:       "Down",
	CodeRight:      "Right",
	CodeLeft:       "Left",
	CodeInsert:     "Insert",
	CodeHome:       "Home",
	CodeEnd:        "End",
	CodePageUp:     "PageUp",
	CodePageDown:   "PageDown",
	CodeNumLock:    "NumLock",
	CodeCapsLock:   "CapsLock",
	CodeScrollLock: "ScrollLock",
	CodeRShift:     "RShift",
	CodeLShift:     "LShift",
	CodeRCtrl:      "RCtrl",
	CodeLCtrl:      "LCtrl",
	CodeRAlt:       "RAlt",
	CodeLAlt:       "LAlt",
	CodeRMeta:      "RMeta",
	CodeLMeta:      "LMeta",
	CodeLSuper:     "LSuper",
	CodeRSuper:     "RSuper",
	CodePrint:      "Print",
	CodeMenu:       "Menu",
}

// nameCodes is the reverse of codeNames, keyed by lower-case name.
var nameCodes = func() map[string]Code {
	m := make(map[string]Code, len(codeNames)+8)
	for c, n := range codeNames {
		m[strings.ToLower(n)] = c
	}
	// Aliases
	m["esc"] = CodeEscape
	m["enter"] = CodeReturn
	m["cr"] = CodeReturn
	m["bs"] = CodeBackspace
	m["del"] = CodeDelete
	m["pgup"] = CodePageUp
	m["pgdn"] = CodePageDown
	return m
}()

// String returns a human-readable name for the code.
// Printable ASCII codes are returned as the character itself.
func (c Code) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	switch {
	case c > CodeSpace && c < CodeDelete:
		return string(rune(c))
	case c >= CodeKP0 && c <= CodeKP9:
		return fmt.Sprintf("KP%d", c-CodeKP0)
	case c >= CodeF1 && c <= CodeF12:
		return fmt.Sprintf("F%d", c-CodeF1+1)
	default:
		return fmt.Sprintf("Code(%d)", int32(c))
	}
}

// IsPrintable returns true for codes that correspond to a printable ASCII character.
func (c Code) IsPrintable() bool {
	return c >= CodeSpace && c < CodeDelete
}

// IsFunctionKey returns true if this is a function key (F1-F12).
func (c Code) IsFunctionKey() bool {
	return c >= CodeF1 && c <= CodeF12
}

// IsKeypad returns true if this is a keypad key.
func (c Code) IsKeypad() bool {
	return c >= CodeKP0 && c <= CodeKPEquals
}

// IsModifierKey returns true if the key itself is a modifier or lock key.
func (c Code) IsModifierKey() bool {
	return c >= CodeNumLock && c <= CodeRSuper
}

// CodeFromRune returns the code for a character key.
// Upper-case letters map to their lower-case code; the caller reports
// Shift through the modifier mask.
func CodeFromRune(r rune) Code {
	if r >= 'A' && r <= 'Z' {
		r += 'a' - 'A'
	}
	if r < 0 || r > 0x7f {
		return CodeUnknown
	}
	return Code(r)
}

// CodeFromName returns the code for a key name (case-insensitive).
// Single characters resolve through CodeFromRune; "F5" and "KP3" style names
// are recognised. Returns CodeUnknown if the name is not recognised.
func CodeFromName(name string) Code {
	name = strings.TrimSpace(name)
	if len([]rune(name)) == 1 {
		return CodeFromRune([]rune(name)[0])
	}

	lower := strings.ToLower(name)
	if c, ok := nameCodes[lower]; ok {
		return c
	}

	var n int
	if _, err := fmt.Sscanf(lower, "f%d", &n); err == nil && n >= 1 && n <= 12 && lower == fmt.Sprintf("f%d", n) {
		return CodeF1 + Code(n-1)
	}
	if _, err := fmt.Sscanf(lower, "kp%d", &n); err == nil && n >= 0 && n <= 9 && lower == fmt.Sprintf("kp%d", n) {
		return CodeKP0 + Code(n)
	}
	return CodeUnknown
}
