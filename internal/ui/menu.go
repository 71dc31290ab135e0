// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of erptab

package ui

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/derailed/tcell/v2"
	"github.com/derailed/tview"
)

const (
	menuIndexFmt  = " [yellow::b]<%d>[white::-] %s "
	menuPlainFmt  = " [yellow::b]<%s>[white::-] %s "
	menuDangerFmt = " [red::b]<%s>[white::-] %s "
	maxRows       = 6
)

// Menu presents menu options.
type Menu struct {
	*tview.Table
}

// NewMenu returns a new menu.
func NewMenu() *Menu {
	m := Menu{
		Table: tview.NewTable(),
	}
	m.SetBackgroundColor(tcell.ColorDefault)
	m.SetBorderPadding(0, 0, 1, 1)

	return &m
}

// HydrateMenu populate menu ui from hints.
func (m *Menu) HydrateMenu(hh MenuHints) {
	m.Clear()
	for r, row := range LayoutMenu(hh, maxRows) {
		for c, h := range row {
			cell := tview.NewTableCell(formatMenu(h))
			cell.SetBackgroundColor(tcell.ColorDefault)
			m.SetCell(r, c, cell)
		}
	}
}

// LayoutMenu arranges the visible hints column first, rows per column.
func LayoutMenu(hh MenuHints, rows int) [][]MenuHint {
	visible := make(MenuHints, 0, len(hh))
	for _, h := range hh {
		if h.Visible && !h.IsBlank() {
			visible = append(visible, h)
		}
	}
	sort.Sort(visible)
	if len(visible) == 0 {
		return nil
	}

	cols := (len(visible)-1)/rows + 1
	out := make([][]MenuHint, min(rows, len(visible)))
	for r := range out {
		out[r] = make([]MenuHint, cols)
	}
	for i, h := range visible {
		out[i%rows][i/rows] = h
	}

	return out
}

func formatMenu(h MenuHint) string {
	if h.Mnemonic == "" || h.Description == "" {
		return ""
	}
	if i, err := strconv.Atoi(h.Mnemonic); err == nil {
		return fmt.Sprintf(menuIndexFmt, i, h.Description)
	}
	if h.Dangerous {
		return fmt.Sprintf(menuDangerFmt, h.Mnemonic, h.Description)
	}

	return fmt.Sprintf(menuPlainFmt, h.Mnemonic, h.Description)
}

// StackPushed notifies a component was added.
func (m *Menu) StackPushed(c Component) {
	m.HydrateMenu(c.Hints())
}

// StackPopped notifies a component was removed.
func (m *Menu) StackPopped(_, top Component) {
	if top != nil {
		m.HydrateMenu(top.Hints())
		return
	}
	m.Clear()
}

// StackTop notifies the top component.
func (m *Menu) StackTop(t Component) {
	m.HydrateMenu(t.Hints())
}
