// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of erptab

package ui

import "github.com/derailed/tcell/v2"

// Defines char keystrokes.
const (
	KeyA tcell.Key = iota + 97
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
)

// Defines shifted char keystrokes.
const (
	KeyShiftA tcell.Key = iota + 65
	KeyShiftB
	KeyShiftC
	KeyShiftD
	KeyShiftE
	KeyShiftF
	KeyShiftG
	KeyShiftH
	KeyShiftI
	KeyShiftJ
	KeyShiftK
	KeyShiftL
	KeyShiftM
	KeyShiftN
	KeyShiftO
	KeyShiftP
	KeyShiftQ
	KeyShiftR
	KeyShiftS
	KeyShiftT
	KeyShiftU
	KeyShiftV
	KeyShiftW
	KeyShiftX
	KeyShiftY
	KeyShiftZ
)

// Defines special keystrokes.
const (
	KeySpace    tcell.Key = 32
	KeySlash    tcell.Key = 47
	KeyColon    tcell.Key = 58
	KeyLess     tcell.Key = 60
	KeyGreater  tcell.Key = 62
	KeyHelp     tcell.Key = 63
	KeyLBracket tcell.Key = 91
	KeyRBracket tcell.Key = 93
)

var keyNames = map[tcell.Key]string{
	KeySpace:    "space",
	KeySlash:    "/",
	KeyColon:    ":",
	KeyLess:     "<",
	KeyGreater:  ">",
	KeyHelp:     "?",
	KeyLBracket: "[",
	KeyRBracket: "]",
}

// AsKey converts a rune event into its action key.
func AsKey(evt *tcell.EventKey) tcell.Key {
	if evt.Key() != tcell.KeyRune {
		return evt.Key()
	}
	return tcell.Key(evt.Rune())
}

// KeyName returns a short display name for a key.
func KeyName(k tcell.Key) string {
	if n, ok := keyNames[k]; ok {
		return n
	}
	if (k >= KeyA && k <= KeyZ) || (k >= KeyShiftA && k <= KeyShiftZ) {
		return string(rune(k))
	}
	if n, ok := tcell.KeyNames[k]; ok {
		return n
	}
	return string(rune(k))
}
