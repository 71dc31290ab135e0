// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of erptab

package view

import (
	"context"
	"testing"

	"github.com/derailed/tcell/v2"
	"github.com/stretchr/testify/assert"

	"github.com/erptab/erptab/internal/ui"
)

func TestHelpColumns(t *testing.T) {
	hh := ui.MenuHints{
		{Mnemonic: "ctrl-d", Description: "Delete", Visible: true, Dangerous: true},
		{},
		{Mnemonic: "s", Description: "Sort", Visible: true},
		{Mnemonic: "e", Description: "Edit", Visible: true},
	}

	headers, cols := HelpColumns([]string{"items", "partners"}, hh)

	assert.Equal(t, []string{"TABLES", "GENERAL", "NAVIGATION", "VIEW"}, headers)
	assert.Len(t, cols, len(headers))
	assert.Equal(t, []HelpBind{{":items", "items"}, {":partners", "partners"}}, cols[0])
	assert.Equal(t, []HelpBind{
		{"<e>", "Edit"},
		{"<s>", "Sort"},
		{"<ctrl-d>", "Delete"},
	}, cols[3])
	assert.Equal(t, "Delete", hh[0].Description)
}

func TestHelpKeys(t *testing.T) {
	h := NewHelp(nil)
	h.SetHints(ui.MenuHints{{Mnemonic: "s", Description: "Sort", Visible: true}})
	assert.NoError(t, h.Init(context.Background()))
	assert.Equal(t, "help", h.Name())

	// Closing without an app is a no-op.
	assert.Nil(t, h.keyboard(runeKey('q')))
	assert.NotNil(t, h.keyboard(runeKey('x')))
}

func runeKey(r rune) *tcell.EventKey {
	return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)
}
