package terminal

import (
	"github.com/gdamore/tcell/v2"

	"github.com/dshills/keybus/internal/input/key"
)

// translate maps a tcell key event to an SDL key code and modifier mask.
func translate(e *tcell.EventKey) (key.Code, key.Modifier, bool) {
	mods := modifiers(e.Modifiers())

	switch e.Key() {
	case tcell.KeyRune:
		r := e.Rune()
		if r >= 'A' && r <= 'Z' {
			mods = mods.With(key.ModLShift)
		}
		code := key.CodeFromRune(r)
		return code, mods, code != key.CodeUnknown
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return key.CodeBackspace, mods, true
	case tcell.KeyTab:
		return key.CodeTab, mods, true
	case tcell.KeyBacktab:
		return key.CodeTab, mods.With(key.ModLShift), true
	case tcell.KeyEnter:
		return key.CodeReturn, mods, true
	case tcell.KeyEscape:
		return key.CodeEscape, mods, true
	case tcell.KeyDelete:
		return key.CodeDelete, mods, true
	case tcell.KeyInsert:
		return key.CodeInsert, mods, true
	case tcell.KeyHome:
		return key.CodeHome, mods, true
	case tcell.KeyEnd:
		return key.CodeEnd, mods, true
	case tcell.KeyPgUp:
		return key.CodePageUp, mods, true
	case tcell.KeyPgDn:
		return key.CodePageDown, mods, true
	case tcell.KeyUp:
		return key.CodeUp, mods, true
	case tcell.KeyDown:
		return key.CodeDown, mods, true
	case tcell.KeyLeft:
		return key.CodeLeft, mods, true
	case tcell.KeyRight:
		return key.CodeRight, mods, true
	case tcell.KeyClear:
		return key.CodeClear, mods, true
	case tcell.KeyPause:
		return key.CodePause, mods, true
	case tcell.KeyPrint:
		return key.CodePrint, mods, true
	}

	k := e.Key()
	if k >= tcell.KeyF1 && k <= tcell.KeyF12 {
		return key.CodeF1 + key.Code(k-tcell.KeyF1), mods, true
	}
	if k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ {
		return key.Code('a' + int(k-tcell.KeyCtrlA)), mods.With(key.ModLCtrl), true
	}
	return key.CodeUnknown, mods, false
}

func modifiers(m tcell.ModMask) key.Modifier {
	var mods key.Modifier
	if m&tcell.ModShift != 0 {
		mods = mods.With(key.ModLShift)
	}
	if m&tcell.ModCtrl != 0 {
		mods = mods.With(key.ModLCtrl)
	}
	if m&tcell.ModAlt != 0 {
		mods = mods.With(key.ModLAlt)
	}
	if m&tcell.ModMeta != 0 {
		mods = mods.With(key.ModLMeta)
	}
	return mods
}
