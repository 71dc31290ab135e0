// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of erptab

package ui_test

import (
	"testing"

	"github.com/derailed/tcell/v2"
	"github.com/stretchr/testify/assert"

	"github.com/erptab/erptab/internal/ui"
)

func sendKeys(c *ui.CmdBar, evts ...*tcell.EventKey) {
	h := c.InputHandler()
	for _, evt := range evts {
		h(evt, nil)
	}
}

func runes(s string) []*tcell.EventKey {
	ee := make([]*tcell.EventKey, 0, len(s))
	for _, r := range s {
		ee = append(ee, tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone))
	}
	return ee
}

func TestCmdBarSuggest(t *testing.T) {
	c := ui.NewCmdBar()
	c.SetCommands([]string{"tenant", "table", "parts", "table", "quit"})

	uu := map[string]struct {
		text string
		e    []string
	}{
		"empty":   {},
		"prefix":  {text: "ta", e: []string{"table"}},
		"many":    {text: "t", e: []string{"table", "tenant"}},
		"exact":   {text: "parts"},
		"upper":   {text: "QU", e: []string{"quit"}},
		"nomatch": {text: "zorg"},
	}

	for k := range uu {
		u := uu[k]
		t.Run(k, func(t *testing.T) {
			assert.Equal(t, u.e, c.Suggest(u.text))
		})
	}
}

func TestCmdBarCommand(t *testing.T) {
	var (
		cmd    string
		active []bool
	)
	c := ui.NewCmdBar()
	c.SetCommands([]string{"tenant"})
	c.SetCommandFn(func(s string) { cmd = s })
	c.SetActiveFn(func(b bool) { active = append(active, b) })

	c.Activate(ui.ModeCommand, "")
	assert.True(t, c.IsActive())
	assert.Equal(t, ui.ModeCommand, c.Mode())

	sendKeys(c, runes("te")...)
	sendKeys(c, tcell.NewEventKey(tcell.KeyTab, 0, tcell.ModNone))
	assert.Equal(t, "tenant", c.GetText())

	sendKeys(c, tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone))
	assert.Equal(t, "tenant", cmd)
	assert.False(t, c.IsActive())
	assert.Equal(t, ui.ModeNormal, c.Mode())
	assert.Equal(t, []bool{true, false}, active)
}

func TestCmdBarFilter(t *testing.T) {
	var (
		live      []string
		applied   string
		cancelled bool
	)
	c := ui.NewCmdBar()
	c.SetFilterFn(func(s string) { live = append(live, s) })
	c.SetApplyFn(func(s string) { applied = s })
	c.SetCancelFn(func() { cancelled = true })

	c.Activate(ui.ModeFilter, "")
	sendKeys(c, runes("bol")...)
	sendKeys(c, tcell.NewEventKey(tcell.KeyBackspace2, 0, tcell.ModNone))
	sendKeys(c, runes("t")...)
	assert.Equal(t, []string{"b", "bo", "bol", "bo", "bot"}, live)

	sendKeys(c, tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone))
	assert.Equal(t, "bot", applied)
	assert.False(t, cancelled)

	c.Activate(ui.ModeFilter, "bot")
	sendKeys(c, tcell.NewEventKey(tcell.KeyCtrlU, 0, tcell.ModCtrl))
	assert.Equal(t, "", c.GetText())
	sendKeys(c, tcell.NewEventKey(tcell.KeyEsc, 0, tcell.ModNone))
	assert.True(t, cancelled)
	assert.False(t, c.IsActive())
}

func TestCmdBarInactive(t *testing.T) {
	var called bool
	c := ui.NewCmdBar()
	c.SetFilterFn(func(string) { called = true })

	sendKeys(c, runes("x")...)
	assert.False(t, called)
	assert.Equal(t, "", c.GetText())
}
