package window

import (
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/dshills/keybus/internal/input/key"
)

var letterKeys = [...]ebiten.Key{
	ebiten.KeyA, ebiten.KeyB, ebiten.KeyC, ebiten.KeyD, ebiten.KeyE, ebiten.KeyF,
	ebiten.KeyG, ebiten.KeyH, ebiten.KeyI, ebiten.KeyJ, ebiten.KeyK, ebiten.KeyL,
	ebiten.KeyM, ebiten.KeyN, ebiten.KeyO, ebiten.KeyP, ebiten.KeyQ, ebiten.KeyR,
	ebiten.KeyS, ebiten.KeyT, ebiten.KeyU, ebiten.KeyV, ebiten.KeyW, ebiten.KeyX,
	ebiten.KeyY, ebiten.KeyZ,
}

var digitKeys = [...]ebiten.Key{
	ebiten.KeyDigit0, ebiten.KeyDigit1, ebiten.KeyDigit2, ebiten.KeyDigit3, ebiten.KeyDigit4,
	ebiten.KeyDigit5, ebiten.KeyDigit6, ebiten.KeyDigit7, ebiten.KeyDigit8, ebiten.KeyDigit9,
}

var numpadKeys = [...]ebiten.Key{
	ebiten.KeyNumpad0, ebiten.KeyNumpad1, ebiten.KeyNumpad2, ebiten.KeyNumpad3, ebiten.KeyNumpad4,
	ebiten.KeyNumpad5, ebiten.KeyNumpad6, ebiten.KeyNumpad7, ebiten.KeyNumpad8, ebiten.KeyNumpad9,
}

var functionKeys = [...]ebiten.Key{
	ebiten.KeyF1, ebiten.KeyF2, ebiten.KeyF3, ebiten.KeyF4, ebiten.KeyF5, ebiten.KeyF6,
	ebiten.KeyF7, ebiten.KeyF8, ebiten.KeyF9, ebiten.KeyF10, ebiten.KeyF11, ebiten.KeyF12,
}

var keyCodes = buildKeyCodes()

func buildKeyCodes() map[ebiten.Key]key.Code {
	m := map[ebiten.Key]key.Code{
		ebiten.KeyBackspace:      key.CodeBackspace,
		ebiten.KeyTab:            key.CodeTab,
		ebiten.KeyEnter:          key.CodeReturn,
		ebiten.KeyPause:          key.CodePause,
		ebiten.KeyEscape:         key.CodeEscape,
		ebiten.KeySpace:          key.CodeSpace,
		ebiten.KeyQuote:          '\'',
		ebiten.KeyComma:          ',',
		ebiten.KeyMinus:          '-',
		ebiten.KeyPeriod:         '.',
		ebiten.KeySlash:          '/',
		ebiten.KeySemicolon:      ';',
		ebiten.KeyEqual:          '=',
		ebiten.KeyBracketLeft:    '[',
		ebiten.KeyBackslash:      '\\',
		ebiten.KeyBracketRight:   ']',
		ebiten.KeyBackquote:      '`',
		ebiten.KeyDelete:         key.CodeDelete,
		ebiten.KeyNumpadDecimal:  key.CodeKPPeriod,
		ebiten.KeyNumpadDivide:   key.CodeKPDivide,
		ebiten.KeyNumpadMultiply: key.CodeKPMultiply,
		ebiten.KeyNumpadSubtract: key.CodeKPMinus,
		ebiten.KeyNumpadAdd:      key.CodeKPPlus,
		ebiten.KeyNumpadEnter:    key.CodeKPEnter,
		ebiten.KeyNumpadEqual:    key.CodeKPEquals,
		ebiten.KeyArrowUp:        key.CodeUp,
		ebiten.KeyArrowDown:      key.CodeDown,
		ebiten.KeyArrowRight:     key.CodeRight,
		ebiten.KeyArrowLeft:      key.CodeLeft,
		ebiten.KeyInsert:         key.CodeInsert,
		ebiten.KeyHome:           key.CodeHome,
		ebiten.KeyEnd:            key.CodeEnd,
		ebiten.KeyPageUp:         key.CodePageUp,
		ebiten.KeyPageDown:       key.CodePageDown,
		ebiten.KeyNumLock:        key.CodeNumLock,
		ebiten.KeyCapsLock:       key.CodeCapsLock,
		ebiten.KeyScrollLock:     key.CodeScrollLock,
		ebiten.KeyShiftRight:     key.CodeRShift,
		ebiten.KeyShiftLeft:      key.CodeLShift,
		ebiten.KeyControlRight:   key.CodeRCtrl,
		ebiten.KeyControlLeft:    key.CodeLCtrl,
		ebiten.KeyAltRight:       key.CodeRAlt,
		ebiten.KeyAltLeft:        key.CodeLAlt,
		ebiten.KeyMetaRight:      key.CodeRMeta,
		ebiten.KeyMetaLeft:       key.CodeLMeta,
		ebiten.KeyPrintScreen:    key.CodePrint,
		ebiten.KeyContextMenu:    key.CodeMenu,
	}
	for i, k := range letterKeys {
		m[k] = key.Code('a' + i)
	}
	for i, k := range digitKeys {
		m[k] = key.Code('0' + i)
	}
	for i, k := range numpadKeys {
		m[k] = key.CodeKP0 + key.Code(i)
	}
	for i, k := range functionKeys {
		m[k] = key.CodeF1 + key.Code(i)
	}
	return m
}

func codeFor(k ebiten.Key) (key.Code, bool) {
	c, ok := keyCodes[k]
	return c, ok
}

var modifierKeys = []struct {
	key ebiten.Key
	mod key.Modifier
}{
	{ebiten.KeyShiftLeft, key.ModLShift},
	{ebiten.KeyShiftRight, key.ModRShift},
	{ebiten.KeyControlLeft, key.ModLCtrl},
	{ebiten.KeyControlRight, key.ModRCtrl},
	{ebiten.KeyAltLeft, key.ModLAlt},
	{ebiten.KeyAltRight, key.ModRAlt},
	{ebiten.KeyMetaLeft, key.ModLMeta},
	{ebiten.KeyMetaRight, key.ModRMeta},
}

// modifiers builds the SDL modifier mask from the held modifier keys.
func modifiers(pressed func(ebiten.Key) bool) key.Modifier {
	var m key.Modifier
	for _, mk := range modifierKeys {
		if pressed(mk.key) {
			m = m.With(mk.mod)
		}
	}
	return m
}
