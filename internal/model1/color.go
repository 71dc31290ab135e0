// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of erptab

package model1

import "github.com/derailed/tcell/v2"

var (
	// ModColor row modified color
	ModColor tcell.Color = tcell.ColorYellow

	// AddColor row added color
	AddColor tcell.Color = tcell.ColorBlue

	// PendingColor row pending commit color
	PendingColor tcell.Color = tcell.ColorDarkCyan

	// ErrColor row error color
	ErrColor tcell.Color = tcell.ColorRed

	// StdColor row default color
	StdColor tcell.Color = tcell.ColorWhite

	// HighlightColor row highlight color
	HighlightColor tcell.Color = tcell.ColorAqua

	// KillColor row deleted color
	KillColor tcell.Color = tcell.ColorGray
)

// DefaultColorer set the default table row colors
func DefaultColorer(_ Header, re *RowEvent) tcell.Color {
	switch re.Kind {
	case EventAdd:
		return AddColor
	case EventUpdate:
		return ModColor
	case EventPending:
		return PendingColor
	case EventError:
		return ErrColor
	case EventDelete:
		return KillColor
	default:
		return StdColor
	}
}
