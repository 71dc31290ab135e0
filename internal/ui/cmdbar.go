// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of erptab

package ui

import (
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/derailed/tcell/v2"
	"github.com/derailed/tview"
)

// CmdBar is a bordered command/filter input bar at the top of the app.
// Commands get ghost-text completion from the known command names.
type CmdBar struct {
	*tview.TextView

	mode              IndicatorMode
	cmdFn             func(string)
	filterFn          func(string)
	applyFn           func(string)
	cancelFn          func()
	activeFn          func(bool)
	isActive          bool
	text              []rune
	suggestions       []string
	suggestionIdx     int
	currentSuggestion string
	commands          []string
	mx                sync.RWMutex
}

// NewCmdBar creates a new command bar.
func NewCmdBar() *CmdBar {
	c := CmdBar{
		TextView:      tview.NewTextView(),
		mode:          ModeNormal,
		suggestionIdx: -1,
	}

	c.SetBorder(true)
	c.SetBorderColor(tcell.ColorDarkCyan)
	c.SetBackgroundColor(tcell.ColorDefault)
	c.SetTextColor(tcell.ColorWhite)
	c.SetDynamicColors(true)
	c.SetWrap(false)
	c.SetInputCapture(c.keyboard)
	c.render()

	return &c
}

func (c *CmdBar) keyboard(evt *tcell.EventKey) *tcell.EventKey {
	if !c.IsActive() {
		return evt
	}

	switch evt.Key() {
	case tcell.KeyBackspace, tcell.KeyBackspace2, tcell.KeyDelete:
		c.edit(func(rr []rune) []rune {
			if len(rr) == 0 {
				return rr
			}
			return rr[:len(rr)-1]
		})
	case tcell.KeyCtrlU, tcell.KeyCtrlW:
		c.edit(func(rr []rune) []rune { return rr[:0] })
	case tcell.KeyRune:
		c.edit(func(rr []rune) []rune { return append(rr, evt.Rune()) })
	case tcell.KeyEnter:
		c.execute()
	case tcell.KeyEsc:
		c.cancel()
	case tcell.KeyTab, tcell.KeyRight:
		c.acceptSuggestion()
	case tcell.KeyUp:
		c.cycleSuggestion(-1)
	case tcell.KeyDown:
		c.cycleSuggestion(1)
	default:
		return evt
	}

	return nil
}

// edit changes the input and notifies live filters.
func (c *CmdBar) edit(f func([]rune) []rune) {
	c.mx.Lock()
	c.text = f(c.text)
	mode, text, fn := c.mode, string(c.text), c.filterFn
	c.mx.Unlock()

	c.updateSuggestions()
	c.render()
	if mode == ModeFilter && fn != nil {
		fn(text)
	}
}

func (c *CmdBar) acceptSuggestion() {
	c.mx.Lock()
	if c.currentSuggestion != "" {
		c.text = []rune(c.currentSuggestion)
	}
	c.mx.Unlock()
	c.clearSuggestions()
	c.render()
}

func (c *CmdBar) cycleSuggestion(delta int) {
	c.mx.Lock()
	if n := len(c.suggestions); n > 0 {
		c.suggestionIdx = (c.suggestionIdx + delta + n) % n
		c.currentSuggestion = c.suggestions[c.suggestionIdx]
	}
	c.mx.Unlock()
	c.render()
}

func (c *CmdBar) render() {
	c.mx.RLock()
	text := string(c.text)
	suggestion := c.currentSuggestion
	mode := c.mode
	c.mx.RUnlock()

	c.Clear()

	icon, prefix := IndicatorNormal, ">"
	switch mode {
	case ModeCommand:
		icon, prefix = IndicatorCommand, ":"
	case ModeFilter:
		icon, prefix = IndicatorFilter, "/"
	}

	if suggestion != "" && strings.HasPrefix(suggestion, text) && len(suggestion) > len(text) {
		ghost := suggestion[len(text):]
		_, _ = fmt.Fprintf(c.TextView, "%s%s [::b]%s[gray::]%s[-::]", icon, prefix, tview.Escape(text), ghost)
		return
	}
	_, _ = fmt.Fprintf(c.TextView, "%s%s [::b]%s", icon, prefix, tview.Escape(text))
}

// Suggest returns the known commands starting with text.
func (c *CmdBar) Suggest(text string) []string {
	if text == "" {
		return nil
	}

	c.mx.RLock()
	defer c.mx.RUnlock()

	text = strings.ToLower(text)
	var matches []string
	for _, cmd := range c.commands {
		if strings.HasPrefix(cmd, text) && cmd != text {
			matches = append(matches, cmd)
		}
	}
	return matches
}

func (c *CmdBar) updateSuggestions() {
	c.mx.RLock()
	text, mode := string(c.text), c.mode
	c.mx.RUnlock()

	var ss []string
	if mode == ModeCommand {
		ss = c.Suggest(text)
	}

	c.mx.Lock()
	defer c.mx.Unlock()
	c.suggestions, c.suggestionIdx, c.currentSuggestion = ss, -1, ""
	if len(ss) > 0 {
		c.suggestionIdx, c.currentSuggestion = 0, ss[0]
	}
}

func (c *CmdBar) clearSuggestions() {
	c.mx.Lock()
	defer c.mx.Unlock()

	c.suggestions = nil
	c.suggestionIdx = -1
	c.currentSuggestion = ""
}

// SetCommands sets the full list of available commands.
func (c *CmdBar) SetCommands(cmds []string) {
	c.mx.Lock()
	defer c.mx.Unlock()

	c.commands = slices.Clone(cmds)
	sort.Strings(c.commands)
	c.commands = slices.Compact(c.commands)
}

// GetText returns the current input text.
func (c *CmdBar) GetText() string {
	c.mx.RLock()
	defer c.mx.RUnlock()
	return string(c.text)
}

// SetText sets the input text.
func (c *CmdBar) SetText(s string) {
	c.mx.Lock()
	c.text = []rune(s)
	c.mx.Unlock()
	c.render()
}

// Activate enters command or filter mode. A filter starts from text.
func (c *CmdBar) Activate(mode IndicatorMode, text string) {
	c.mx.Lock()
	c.mode = mode
	c.isActive = true
	c.text = []rune(text)
	c.mx.Unlock()
	c.clearSuggestions()
	c.render()

	if c.activeFn != nil {
		c.activeFn(true)
	}
}

// Deactivate exits input mode and returns to normal.
func (c *CmdBar) Deactivate() {
	c.mx.Lock()
	c.isActive = false
	c.mode = ModeNormal
	c.text = c.text[:0]
	c.mx.Unlock()
	c.clearSuggestions()
	c.render()

	if c.activeFn != nil {
		c.activeFn(false)
	}
}

func (c *CmdBar) execute() {
	text := c.GetText()

	c.mx.RLock()
	mode := c.mode
	c.mx.RUnlock()
	c.Deactivate()

	switch mode {
	case ModeCommand:
		if c.cmdFn != nil && text != "" {
			c.cmdFn(text)
		}
	case ModeFilter:
		if c.applyFn != nil {
			c.applyFn(text)
		}
	}
}

func (c *CmdBar) cancel() {
	c.mx.RLock()
	mode := c.mode
	c.mx.RUnlock()
	c.Deactivate()

	if mode == ModeFilter && c.cancelFn != nil {
		c.cancelFn()
	}
}

// IsActive returns whether the command bar is accepting input.
func (c *CmdBar) IsActive() bool {
	c.mx.RLock()
	defer c.mx.RUnlock()
	return c.isActive
}

// Mode returns the current mode.
func (c *CmdBar) Mode() IndicatorMode {
	c.mx.RLock()
	defer c.mx.RUnlock()
	return c.mode
}

// SetCommandFn sets the callback for command execution.
func (c *CmdBar) SetCommandFn(fn func(string)) {
	c.cmdFn = fn
}

// SetFilterFn sets the callback for live filter changes.
func (c *CmdBar) SetFilterFn(fn func(string)) {
	c.filterFn = fn
}

// SetApplyFn sets the callback for a confirmed filter.
func (c *CmdBar) SetApplyFn(fn func(string)) {
	c.applyFn = fn
}

// SetCancelFn sets the callback for a cancelled filter.
func (c *CmdBar) SetCancelFn(fn func()) {
	c.cancelFn = fn
}

// SetActiveFn sets the callback for when active state changes.
func (c *CmdBar) SetActiveFn(fn func(bool)) {
	c.activeFn = fn
}
