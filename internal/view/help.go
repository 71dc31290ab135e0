// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of erptab

package view

import (
	"context"
	"sort"

	"github.com/derailed/tcell/v2"
	"github.com/derailed/tview"

	"github.com/erptab/erptab/internal/ui"
)

// HelpBind represents a single keybinding.
type HelpBind struct {
	Key  string
	Desc string
}

// Help displays the key bindings of the view it was opened from.
type Help struct {
	*tview.Table

	app    *App
	tables []string
	hints  ui.MenuHints
}

// NewHelp creates a new help view.
func NewHelp(a *App) *Help {
	h := Help{
		Table: tview.NewTable(),
		app:   a,
	}
	if a != nil {
		h.tables = a.cfg.Erptab.TableNames()
	}
	h.SetBorder(true)
	h.SetTitle(" Help ")
	h.SetTitleAlign(tview.AlignCenter)
	h.SetBorderColor(tcell.ColorYellow)
	h.SetBackgroundColor(tcell.ColorDefault)
	h.SetSelectable(false, false)

	return &h
}

// SetHints sets the bindings of the underlying view.
func (h *Help) SetHints(hh ui.MenuHints) {
	h.hints = hh
}

// Init initializes the view.
func (h *Help) Init(context.Context) error {
	h.SetInputCapture(h.keyboard)
	h.populate()
	return nil
}

// Start starts the view.
func (*Help) Start() {}

// Stop stops the view.
func (*Help) Stop() {}

// Name returns the view name.
func (*Help) Name() string {
	return "help"
}

// Hints returns menu hints.
func (*Help) Hints() ui.MenuHints {
	return ui.MenuHints{
		{Mnemonic: "esc", Description: "Back", Visible: true},
	}
}

func (h *Help) keyboard(evt *tcell.EventKey) *tcell.EventKey {
	switch evt.Key() {
	case tcell.KeyEsc, tcell.KeyEnter:
		h.close()
		return nil
	}
	if evt.Rune() == '?' || evt.Rune() == 'q' {
		h.close()
		return nil
	}
	return evt
}

func (h *Help) close() {
	if h.app != nil {
		h.app.Pop()
	}
}

// HelpColumns lays out the help sections: tables, general keys,
// navigation and the bindings of the current view.
func HelpColumns(tables []string, hh ui.MenuHints) ([]string, [][]HelpBind) {
	tt := make([]HelpBind, 0, len(tables))
	for _, t := range tables {
		tt = append(tt, HelpBind{":" + t, t})
	}

	general := []HelpBind{
		{"<:>", "Command"},
		{"</>", "Filter"},
		{"<?>", "Help"},
		{"<esc>", "Back"},
		{"<ctrl-c>", "Quit"},
		{":tenant", "Tenants"},
		{":table", "Tables"},
	}

	nav := []HelpBind{
		{"<j>", "Down"},
		{"<k>", "Up"},
		{"<h>", "Left"},
		{"<l>", "Right"},
		{"<g>", "Top"},
		{"<G>", "Bottom"},
	}

	hh = append(ui.MenuHints(nil), hh...)
	sort.Sort(hh)
	view := make([]HelpBind, 0, len(hh))
	for _, m := range hh {
		if m.IsBlank() {
			continue
		}
		view = append(view, HelpBind{"<" + m.Mnemonic + ">", m.Description})
	}

	return []string{"TABLES", "GENERAL", "NAVIGATION", "VIEW"}, [][]HelpBind{tt, general, nav, view}
}

func (h *Help) populate() {
	h.Clear()
	headers, columns := HelpColumns(h.tables, h.hints)

	maxRows := 0
	for _, col := range columns {
		maxRows = max(maxRows, len(col))
	}

	// Each section takes a key, a description and a spacer column.
	const colWidth = 3
	for colIdx, col := range columns {
		baseCol := colIdx * colWidth

		h.SetCell(0, baseCol, tview.NewTableCell(headers[colIdx]).
			SetTextColor(tcell.ColorAqua).
			SetAttributes(tcell.AttrBold).
			SetSelectable(false))

		for rowIdx, bind := range col {
			row := rowIdx + 1
			h.SetCell(row, baseCol, tview.NewTableCell(tview.Escape(bind.Key)).
				SetTextColor(tcell.ColorYellow).
				SetSelectable(false))
			h.SetCell(row, baseCol+1, tview.NewTableCell(tview.Escape(bind.Desc)).
				SetTextColor(tcell.ColorWhite).
				SetSelectable(false).
				SetExpansion(1))
		}

		if colIdx < len(columns)-1 {
			for row := 0; row <= maxRows; row++ {
				h.SetCell(row, baseCol+2, tview.NewTableCell("").
					SetSelectable(false).
					SetExpansion(1))
			}
		}
	}

	h.SetCell(maxRows+2, 0, tview.NewTableCell("<esc> to close").
		SetTextColor(tcell.ColorGray).
		SetSelectable(false))
}
