// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of erptab

package view

import (
	"context"
	"fmt"

	"github.com/derailed/tcell/v2"
	"github.com/derailed/tview"

	"github.com/erptab/erptab/internal/ui"
)

const activeMark = "●"

// PickerItem is one choice of a picker.
type PickerItem struct {
	Name        string
	Description string
	Active      bool
	Disabled    bool
	Dangerous   bool
}

// Picker lists choices such as tenants, tables or actions.
type Picker struct {
	*tview.Table

	name     string
	title    string
	items    []PickerItem
	actions  *ui.KeyActions
	selectFn func(PickerItem)
	cancelFn func()
}

// NewPicker returns a new picker.
func NewPicker(name, title string, items []PickerItem) *Picker {
	p := Picker{
		Table:   tview.NewTable(),
		name:    name,
		title:   title,
		items:   items,
		actions: ui.NewKeyActions(),
	}

	p.SetBorder(true)
	p.SetTitleAlign(tview.AlignCenter)
	p.SetBorderColor(tcell.ColorAqua)
	p.SetBackgroundColor(tcell.ColorDefault)
	p.SetSelectable(true, false)
	p.SetFixed(1, 0)

	return &p
}

// Init initializes the picker.
func (p *Picker) Init(context.Context) error {
	p.actions.Bulk(ui.KeyMap{
		tcell.KeyEnter:  ui.NewKeyAction("Select", p.selectCmd, true),
		tcell.KeyEscape: ui.NewKeyAction("Back", p.cancelCmd, true),
		ui.KeyQ:         ui.NewSharedKeyAction("Back", p.cancelCmd),
	})
	p.SetInputCapture(p.keyboard)
	p.render()

	return nil
}

// Start begins the view lifecycle.
func (p *Picker) Start() {
	p.render()
}

// Stop ends the view lifecycle.
func (*Picker) Stop() {}

// Name returns the view name.
func (p *Picker) Name() string {
	return p.name
}

// Hints returns menu hints.
func (p *Picker) Hints() ui.MenuHints {
	return p.actions.Hints()
}

// SetSelectFn sets the callback for a chosen item.
func (p *Picker) SetSelectFn(fn func(PickerItem)) {
	p.selectFn = fn
}

// SetCancelFn sets the callback for a dismissed picker.
func (p *Picker) SetCancelFn(fn func()) {
	p.cancelFn = fn
}

// Selected returns the item under the cursor.
func (p *Picker) Selected() (PickerItem, bool) {
	row, _ := p.GetSelection()
	if row < 1 || row > len(p.items) {
		return PickerItem{}, false
	}
	return p.items[row-1], true
}

func (p *Picker) keyboard(evt *tcell.EventKey) *tcell.EventKey {
	row, col := p.GetSelection()
	rowCount := p.GetRowCount()

	if evt.Key() == tcell.KeyRune {
		switch evt.Rune() {
		case 'j':
			if row < rowCount-1 {
				p.Select(row+1, col)
			}
			return nil
		case 'k':
			if row > 1 {
				p.Select(row-1, col)
			}
			return nil
		case 'g':
			if rowCount > 1 {
				p.Select(1, col)
			}
			return nil
		case 'G':
			if rowCount > 1 {
				p.Select(rowCount-1, col)
			}
			return nil
		}
	}

	if a, ok := p.actions.Get(ui.AsKey(evt)); ok {
		return a.Action(evt)
	}

	return evt
}

func (p *Picker) render() {
	p.Clear()

	for col, h := range []string{"", "NAME", "DESCRIPTION"} {
		cell := tview.NewTableCell(h).
			SetTextColor(tcell.ColorYellow).
			SetSelectable(false).
			SetExpansion(1)
		p.SetCell(0, col, cell)
	}

	if len(p.items) == 0 {
		cell := tview.NewTableCell("Nothing to pick").
			SetTextColor(tcell.ColorGray).
			SetAlign(tview.AlignCenter).
			SetSelectable(false)
		p.SetCell(1, 1, cell)
		p.SetTitle(fmt.Sprintf(" %s ", p.title))
		return
	}

	sel := 1
	for i, it := range p.items {
		row := i + 1
		color := tcell.ColorWhite
		switch {
		case it.Disabled:
			color = tcell.ColorGray
		case it.Dangerous:
			color = tcell.ColorOrangeRed
		case it.Active:
			color = tcell.ColorGreen
			sel = row
		}

		mark := ""
		if it.Active {
			mark = activeMark
		}
		p.SetCell(row, 0, tview.NewTableCell(mark).
			SetTextColor(tcell.ColorGreen).
			SetAlign(tview.AlignCenter))
		p.SetCell(row, 1, tview.NewTableCell(tview.Escape(it.Name)).
			SetTextColor(color).
			SetExpansion(1).
			SetReference(it.Name))
		p.SetCell(row, 2, tview.NewTableCell(tview.Escape(it.Description)).
			SetTextColor(color).
			SetExpansion(2))
	}

	p.SetTitle(fmt.Sprintf(" %s [%d] ", p.title, len(p.items)))
	p.Select(sel, 0)
}

func (p *Picker) selectCmd(*tcell.EventKey) *tcell.EventKey {
	it, ok := p.Selected()
	if !ok || it.Disabled || p.selectFn == nil {
		return nil
	}
	p.selectFn(it)

	return nil
}

func (p *Picker) cancelCmd(*tcell.EventKey) *tcell.EventKey {
	if p.cancelFn != nil {
		p.cancelFn()
	}
	return nil
}
