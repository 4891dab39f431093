package key

import "strings"

// Modifier represents keyboard modifier state as an SDL KMOD_* bitmask.
type Modifier uint16

const (
	// ModNone indicates no modifiers.
	ModNone Modifier = 0x0000

	ModLShift Modifier = 0x0001
	ModRShift Modifier = 0x0002
	ModLCtrl  Modifier = 0x0040
	ModRCtrl  Modifier = 0x0080
	ModLAlt   Modifier = 0x0100
	ModRAlt   Modifier = 0x0200
	ModLMeta  Modifier = 0x0400
	ModRMeta  Modifier = 0x0800

	// ModNum is set while Num Lock is active.
	ModNum Modifier = 0x1000

	// ModCaps is set while Caps Lock is active.
	ModCaps Modifier = 0x2000

	// ModMode is the AltGr / mode switch key.
	ModMode Modifier = 0x4000
)

// Side-independent masks.
const (
	ModShift = ModLShift | ModRShift
	ModCtrl  = ModLCtrl | ModRCtrl
	ModAlt   = ModLAlt | ModRAlt
	ModMeta  = ModLMeta | ModRMeta
)

// Has returns true if m contains any bit of the specified modifier.
func (m Modifier) Has(mod Modifier) bool {
	return m&mod != 0
}

// HasShift returns true if either Shift is held.
func (m Modifier) HasShift() bool {
	return m.Has(ModShift)
}

// HasCtrl returns true if either Control is held.
func (m Modifier) HasCtrl() bool {
	return m.Has(ModCtrl)
}

// HasAlt returns true if either Alt is held.
func (m Modifier) HasAlt() bool {
	return m.Has(ModAlt)
}

// HasMeta returns true if either Meta is held.
func (m Modifier) HasMeta() bool {
	return m.Has(ModMeta)
}

// With returns a new Modifier with the specified modifier added.
func (m Modifier) With(mod Modifier) Modifier {
	return m | mod
}

// Without returns a new Modifier with the specified modifier removed.
func (m Modifier) Without(mod Modifier) Modifier {
	return m &^ mod
}

// IsEmpty returns true if no modifiers are set.
func (m Modifier) IsEmpty() bool {
	return m == ModNone
}

// String returns a human-readable representation like "Ctrl+Alt".
// Lock state is appended as "Num" and "Caps".
func (m Modifier) String() string {
	if m == ModNone {
		return ""
	}

	var parts []string
	if m.HasCtrl() {
		parts = append(parts, "Ctrl")
	}
	if m.HasAlt() {
		parts = append(parts, "Alt")
	}
	if m.HasShift() {
		parts = append(parts, "Shift")
	}
	if m.HasMeta() {
		parts = append(parts, "Meta")
	}
	if m.Has(ModMode) {
		parts = append(parts, "Mode")
	}
	if m.Has(ModNum) {
		parts = append(parts, "Num")
	}
	if m.Has(ModCaps) {
		parts = append(parts, "Caps")
	}
	return strings.Join(parts, "+")
}

// modifierNameMap maps modifier names (lowercase) to Modifier values.
// Generic names select the left-hand key.
var modifierNameMap = map[string]Modifier{
	"ctrl":    ModLCtrl,
	"control": ModLCtrl,
	"lctrl":   ModLCtrl,
	"rctrl":   ModRCtrl,
	"alt":     ModLAlt,
	"option":  ModLAlt,
	"lalt":    ModLAlt,
	"ralt":    ModRAlt,
	"shift":   ModLShift,
	"lshift":  ModLShift,
	"rshift":  ModRShift,
	"meta":    ModLMeta,
	"cmd":     ModLMeta,
	"super":   ModLMeta,
	"lmeta":   ModLMeta,
	"rmeta":   ModRMeta,
	"num":     ModNum,
	"caps":    ModCaps,
	"mode":    ModMode,
}

// ModifierFromName returns the Modifier for a given name (case-insensitive).
// Returns ModNone if the name is not recognized.
func ModifierFromName(name string) Modifier {
	if m, ok := modifierNameMap[strings.ToLower(strings.TrimSpace(name))]; ok {
		return m
	}
	return ModNone
}

// ParseModifiers parses a modifier string like "Ctrl+Alt".
// Unknown names are ignored.
func ParseModifiers(s string) Modifier {
	var result Modifier
	for _, part := range strings.Split(s, "+") {
		result = result.With(ModifierFromName(part))
	}
	return result
}
