// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of erptab

package ui_test

import (
	"testing"

	"github.com/derailed/tcell/v2"
	"github.com/stretchr/testify/assert"

	"github.com/erptab/erptab/internal/ui"
)

func noop(evt *tcell.EventKey) *tcell.EventKey { return evt }

func TestKeyActionsAdd(t *testing.T) {
	aa := ui.NewKeyActions()
	aa.Add(ui.KeyE, ui.NewKeyAction("Edit", noop, true))
	aa.Add(tcell.KeyCtrlD, ui.NewKeyActionWithOpts("Delete", noop, ui.ActionOpts{Visible: true, Dangerous: true}))

	assert.Equal(t, 2, aa.Len())
	a, ok := aa.Get(ui.KeyE)
	assert.True(t, ok)
	assert.Equal(t, "Edit", a.Description)

	aa.ClearDanger()
	assert.Equal(t, 1, aa.Len())
	_, ok = aa.Get(tcell.KeyCtrlD)
	assert.False(t, ok)

	aa.Delete(ui.KeyE)
	assert.Equal(t, 0, aa.Len())
}

func TestKeyActionsMerge(t *testing.T) {
	aa := ui.NewKeyActionsFromMap(ui.KeyMap{
		ui.KeyA: ui.NewKeyAction("Actions", noop, true),
	})
	bb := ui.NewKeyActionsFromMap(ui.KeyMap{
		ui.KeyA: ui.NewKeyAction("Other", noop, true),
		ui.KeyX: ui.NewSharedKeyAction("Export", noop),
	})
	aa.Merge(bb)

	assert.Equal(t, 2, aa.Len())
	a, _ := aa.Get(ui.KeyA)
	assert.Equal(t, "Other", a.Description)
	x, _ := aa.Get(ui.KeyX)
	assert.True(t, x.Opts.Shared)
}

func TestKeyActionsHints(t *testing.T) {
	aa := ui.NewKeyActionsFromMap(ui.KeyMap{
		ui.KeySlash:    ui.NewKeyAction("Filter", noop, true),
		ui.KeyShiftH:   ui.NewKeyAction("Hide", noop, true),
		tcell.KeyCtrlD: ui.NewKeyActionWithOpts("Delete", noop, ui.ActionOpts{Visible: true, Dangerous: true}),
		ui.KeySpace:    ui.NewKeyAction("Mark", noop, false),
	})

	hh := aa.Hints()
	assert.Len(t, hh, 4)
	assert.Equal(t, ui.MenuHint{Mnemonic: "Ctrl-D", Description: "Delete", Visible: true, Dangerous: true}, hh[0])
	assert.Equal(t, ui.MenuHint{Mnemonic: "space", Description: "Mark"}, hh[1])
	assert.Equal(t, "/", hh[2].Mnemonic)
	assert.Equal(t, "H", hh[3].Mnemonic)
}

func TestAsKey(t *testing.T) {
	uu := map[string]struct {
		evt *tcell.EventKey
		e   tcell.Key
	}{
		"rune": {
			evt: tcell.NewEventKey(tcell.KeyRune, 'e', tcell.ModNone),
			e:   ui.KeyE,
		},
		"shift": {
			evt: tcell.NewEventKey(tcell.KeyRune, 'P', tcell.ModNone),
			e:   ui.KeyShiftP,
		},
		"special": {
			evt: tcell.NewEventKey(tcell.KeyCtrlR, 0, tcell.ModCtrl),
			e:   tcell.KeyCtrlR,
		},
	}

	for k := range uu {
		u := uu[k]
		t.Run(k, func(t *testing.T) {
			assert.Equal(t, u.e, ui.AsKey(u.evt))
		})
	}
}

func TestKeyName(t *testing.T) {
	uu := map[string]struct {
		k tcell.Key
		e string
	}{
		"letter": {k: ui.KeyN, e: "n"},
		"shift":  {k: ui.KeyShiftV, e: "V"},
		"space":  {k: ui.KeySpace, e: "space"},
		"colon":  {k: ui.KeyColon, e: ":"},
		"enter":  {k: tcell.KeyEnter, e: "Enter"},
		"pgdn":   {k: tcell.KeyPgDn, e: "PgDn"},
	}

	for k := range uu {
		u := uu[k]
		t.Run(k, func(t *testing.T) {
			assert.Equal(t, u.e, ui.KeyName(u.k))
		})
	}
}
