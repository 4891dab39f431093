package key

import (
	"testing"
)

func TestModifierHas(t *testing.T) {
	tests := []struct {
		mod    Modifier
		check  Modifier
		expect bool
	}{
		{ModNone, ModCtrl, false},
		{ModLCtrl, ModCtrl, true},
		{ModRCtrl, ModCtrl, true},
		{ModLCtrl, ModRCtrl, false},
		{ModLCtrl | ModLAlt, ModAlt, true},
		{ModLCtrl | ModLAlt, ModShift, false},
		{ModRMeta | ModCaps, ModMeta, true},
		{ModCaps, ModShift, false},
	}

	for _, tt := range tests {
		if got := tt.mod.Has(tt.check); got != tt.expect {
			t.Errorf("Modifier(%#04x).Has(%#04x) = %v, want %v", tt.mod, tt.check, got, tt.expect)
		}
	}
}

func TestModifierSDLValues(t *testing.T) {
	// Values must match SDL 1.2 KMOD_* so published messages stay compatible.
	tests := []struct {
		mod  Modifier
		want uint16
	}{
		{ModLShift, 0x0001},
		{ModRShift, 0x0002},
		{ModLCtrl, 0x0040},
		{ModRCtrl, 0x0080},
		{ModLAlt, 0x0100},
		{ModRAlt, 0x0200},
		{ModLMeta, 0x0400},
		{ModRMeta, 0x0800},
		{ModNum, 0x1000},
		{ModCaps, 0x2000},
		{ModMode, 0x4000},
	}

	for _, tt := range tests {
		if uint16(tt.mod) != tt.want {
			t.Errorf("modifier %s = %#04x, want %#04x", tt.mod, uint16(tt.mod), tt.want)
		}
	}
}

func TestModifierWithWithout(t *testing.T) {
	mod := ModNone.With(ModLCtrl)
	if !mod.HasCtrl() {
		t.Error("With(ModLCtrl) should set Ctrl")
	}

	mod = mod.With(ModRAlt)
	if !mod.HasCtrl() || !mod.HasAlt() {
		t.Error("With(ModRAlt) should keep Ctrl and add Alt")
	}

	mod = mod.Without(ModAlt)
	if mod.HasAlt() {
		t.Error("Without(ModAlt) should remove both Alt bits")
	}
	if !mod.HasCtrl() {
		t.Error("Without(ModAlt) should keep Ctrl")
	}
}

func TestModifierString(t *testing.T) {
	tests := []struct {
		mod  Modifier
		want string
	}{
		{ModNone, ""},
		{ModLCtrl, "Ctrl"},
		{ModRAlt, "Alt"},
		{ModLShift | ModRShift, "Shift"},
		{ModLMeta, "Meta"},
		{ModLCtrl | ModLAlt, "Ctrl+Alt"},
		{ModLShift | ModCaps, "Shift+Caps"},
		{ModLCtrl | ModLAlt | ModLShift | ModLMeta, "Ctrl+Alt+Shift+Meta"},
	}

	for _, tt := range tests {
		if got := tt.mod.String(); got != tt.want {
			t.Errorf("Modifier(%#04x).String() = %q, want %q", tt.mod, got, tt.want)
		}
	}
}

func TestModifierFromName(t *testing.T) {
	tests := []struct {
		name string
		want Modifier
	}{
		{"ctrl", ModLCtrl},
		{"Control", ModLCtrl},
		{"rctrl", ModRCtrl},
		{"alt", ModLAlt},
		{"option", ModLAlt},
		{"shift", ModLShift},
		{"RShift", ModRShift},
		{"cmd", ModLMeta},
		{"caps", ModCaps},
		{"unknown", ModNone},
		{"", ModNone},
	}

	for _, tt := range tests {
		if got := ModifierFromName(tt.name); got != tt.want {
			t.Errorf("ModifierFromName(%q) = %#04x, want %#04x", tt.name, got, tt.want)
		}
	}
}

func TestParseModifiers(t *testing.T) {
	tests := []struct {
		input string
		want  Modifier
	}{
		{"ctrl", ModLCtrl},
		{"Ctrl+Alt", ModLCtrl | ModLAlt},
		{"ctrl + alt + shift", ModLCtrl | ModLAlt | ModLShift},
		{"ctrl+bogus", ModLCtrl},
		{"", ModNone},
	}

	for _, tt := range tests {
		if got := ParseModifiers(tt.input); got != tt.want {
			t.Errorf("ParseModifiers(%q) = %#04x, want %#04x", tt.input, got, tt.want)
		}
	}
}
