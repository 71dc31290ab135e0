// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of erptab

package ui

import (
	"context"
	"fmt"
	"sync"

	"github.com/derailed/tcell/v2"
	"github.com/derailed/tview"

	"github.com/erptab/erptab/internal/model1"
	"github.com/erptab/erptab/internal/render"
)

const (
	// TitleFmt formats the table title with table, tenant and row count.
	TitleFmt = " <%s>[%s][%d] "

	// FilterTitleFmt formats the title of a filtered table.
	FilterTitleFmt = " <%s>[%s][%d] /%s "

	markCol = 0
)

// Table renders engine snapshots. Row 0 holds the column titles and
// column 0 the row marks; every data cell references its row id.
type Table struct {
	*tview.Table

	name      string
	tenant    string
	actions   *KeyActions
	colorerFn model1.ColorerFunc
	queueFn   func(func())
	data      *model1.TableData
	mx        sync.RWMutex
}

// NewTable returns a new table instance.
func NewTable(name string) *Table {
	return &Table{
		Table:     tview.NewTable(),
		name:      name,
		actions:   NewKeyActions(),
		colorerFn: model1.DefaultColorer,
	}
}

// Init initializes the table component.
func (t *Table) Init(context.Context) error {
	t.SetFixed(1, 1)
	t.SetBorder(true)
	t.SetBorderAttributes(tcell.AttrBold)
	t.SetBorderPadding(0, 0, 1, 1)
	t.SetSelectable(true, true)
	t.SetBackgroundColor(tcell.ColorDefault)
	t.SetBorderColor(tcell.ColorWhite)
	t.SetTitle(fmt.Sprintf(TitleFmt, t.name, t.Tenant(), 0))
	t.showMessage("Loading...", tcell.ColorGray)
	t.SetInputCapture(t.keyboard)

	return nil
}

// Name returns the table name.
func (t *Table) Name() string {
	return t.name
}

// SetTenant sets the tenant shown in the title.
func (t *Table) SetTenant(s string) {
	t.mx.Lock()
	defer t.mx.Unlock()
	t.tenant = s
}

// Tenant returns the tenant shown in the title.
func (t *Table) Tenant() string {
	t.mx.RLock()
	defer t.mx.RUnlock()
	return t.tenant
}

// SetColorerFn sets the row colorer.
func (t *Table) SetColorerFn(f model1.ColorerFunc) {
	t.mx.Lock()
	defer t.mx.Unlock()
	if f != nil {
		t.colorerFn = f
	}
}

// SetQueueFn sets how listener updates reach the UI goroutine.
func (t *Table) SetQueueFn(f func(func())) {
	t.mx.Lock()
	defer t.mx.Unlock()
	t.queueFn = f
}

// Actions returns the key actions.
func (t *Table) Actions() *KeyActions {
	return t.actions
}

// Hints returns menu hints for key bindings.
func (t *Table) Hints() MenuHints {
	return t.actions.Hints()
}

// Data returns the last rendered snapshot.
func (t *Table) Data() *model1.TableData {
	t.mx.RLock()
	defer t.mx.RUnlock()
	return t.data
}

func (t *Table) keyboard(evt *tcell.EventKey) *tcell.EventKey {
	row, col := t.GetSelection()
	rows, cols := t.GetRowCount(), t.GetColumnCount()

	switch evt.Key() {
	case tcell.KeyRune:
		switch evt.Rune() {
		case 'j':
			if row < rows-1 {
				t.Select(row+1, col)
			}
			return nil
		case 'k':
			if row > 1 {
				t.Select(row-1, col)
			}
			return nil
		case 'h':
			if col > 1 {
				t.Select(row, col-1)
			}
			return nil
		case 'l':
			if col < cols-1 {
				t.Select(row, col+1)
			}
			return nil
		case 'g':
			if rows > 1 {
				t.Select(1, col)
			}
			return nil
		case 'G':
			if rows > 1 {
				t.Select(rows-1, col)
			}
			return nil
		}
	case tcell.KeyHome:
		if rows > 1 {
			t.Select(1, col)
		}
		return nil
	case tcell.KeyEnd:
		if rows > 1 {
			t.Select(rows-1, col)
		}
		return nil
	}

	if a, ok := t.actions.Get(AsKey(evt)); ok {
		return a.Action(evt)
	}

	return evt
}

// SelectedRowID returns the id of the row under the cursor.
func (t *Table) SelectedRowID() string {
	row, _ := t.GetSelection()
	return t.rowID(row)
}

// SelectedColumn returns the key of the column under the cursor.
func (t *Table) SelectedColumn() string {
	_, col := t.GetSelection()
	data := t.Data()
	if data == nil {
		return ""
	}
	h := data.Header()
	if col <= markCol || col-1 >= len(h) {
		return ""
	}
	return h[col-1].Name
}

// SelectedCell returns the cell under the cursor.
func (t *Table) SelectedCell() (model1.CellRef, bool) {
	ref := model1.CellRef{RowID: t.SelectedRowID(), Column: t.SelectedColumn()}
	return ref, ref.RowID != "" && ref.Column != ""
}

func (t *Table) rowID(row int) string {
	if row < 1 {
		return ""
	}
	cell := t.GetCell(row, markCol)
	if cell == nil {
		return ""
	}
	if id, ok := cell.GetReference().(string); ok {
		return id
	}
	return ""
}

func (t *Table) queue(f func()) {
	t.mx.RLock()
	q := t.queueFn
	t.mx.RUnlock()

	if q == nil {
		f()
		return
	}
	q(f)
}

// UpdateUI renders a snapshot, keeping the cursor on the same row and
// column when they are still shown.
func (t *Table) UpdateUI(data *model1.TableData) {
	prevRow, prevCol := t.SelectedRowID(), t.SelectedColumn()

	t.mx.Lock()
	t.data = data
	colorer, tenant := t.colorerFn, t.tenant
	t.mx.Unlock()

	t.Clear()
	t.SetBorderColor(tcell.ColorWhite)
	if data == nil {
		t.showMessage("Loading...", tcell.ColorGray)
		return
	}
	t.SetTitle(title(data, tenant))

	h := data.Header()
	t.buildHeader(h, data.Sort())
	if data.Empty() {
		cell := tview.NewTableCell("No rows")
		cell.SetTextColor(tcell.ColorGray)
		cell.SetSelectable(false)
		t.SetCell(1, 1, cell)
		return
	}

	selRow, selCol := 1, 1
	if i, ok := h.IndexOf(prevCol); ok {
		selCol = i + 1
	}
	editRef, draft := data.EditPosition()
	data.RowEvents().Range(func(i int, re model1.RowEvent) bool {
		t.buildRow(i+1, h, re, data, colorer(h, &re), editRef, draft)
		if re.Row.ID == prevRow {
			selRow = i + 1
		}
		return true
	})
	t.Select(selRow, selCol)
}

func title(data *model1.TableData, tenant string) string {
	count := data.Page().Count
	if f := data.Filter(); f != "" {
		return fmt.Sprintf(FilterTitleFmt, data.Name(), tenant, count, tview.Escape(f))
	}
	return fmt.Sprintf(TitleFmt, data.Name(), tenant, count)
}

func (t *Table) buildHeader(h model1.Header, sort model1.SortInfo) {
	mark := tview.NewTableCell(render.Blank)
	mark.SetSelectable(false)
	t.SetCell(0, markCol, mark)

	for i, c := range h {
		cell := tview.NewTableCell(tview.Escape(render.ColumnTitle(c, sort)))
		cell.SetTextColor(tcell.ColorYellow)
		cell.SetBackgroundColor(tcell.ColorDefault)
		cell.SetAlign(c.Align)
		cell.SetExpansion(1)
		cell.SetSelectable(false)
		if c.Name == sort.Column {
			cell.SetAttributes(tcell.AttrBold)
		}
		t.SetCell(0, i+1, cell)
	}
}

func (t *Table) buildRow(row int, h model1.Header, re model1.RowEvent, data *model1.TableData, color tcell.Color, editRef *model1.CellRef, draft any) {
	selected := data.IsSelected(re.Row.ID)

	mark := tview.NewTableCell(render.RowMark(data, re))
	mark.SetReference(re.Row.ID)
	mark.SetSelectable(false)
	mark.SetTextColor(color)
	t.SetCell(row, markCol, mark)

	for i, c := range h {
		txt := c.Render(re.Row.Fields.At(i))
		editing := editRef != nil && editRef.RowID == re.Row.ID && editRef.Column == c.Name
		if editing {
			txt = EditText(draft)
		}

		cell := tview.NewTableCell(tview.Escape(txt))
		cell.SetReference(re.Row.ID)
		cell.SetTextColor(color)
		cell.SetBackgroundColor(tcell.ColorDefault)
		cell.SetAlign(c.Align)
		cell.SetExpansion(1)
		switch {
		case editing:
			cell.SetAttributes(tcell.AttrUnderline | tcell.AttrBold)
		case selected:
			cell.SetAttributes(tcell.AttrBold)
		}
		t.SetCell(row, i+1, cell)
	}
}

func (t *Table) showMessage(msg string, color tcell.Color) {
	t.Clear()
	cell := tview.NewTableCell(msg)
	cell.SetTextColor(color)
	cell.SetAlign(tview.AlignCenter)
	cell.SetSelectable(false)
	t.SetCell(0, 0, cell)
}

// TableDataChanged implements model.TableListener.
func (t *Table) TableDataChanged(data *model1.TableData) {
	t.queue(func() { t.UpdateUI(data) })
}

// TableNoData implements model.TableListener.
func (t *Table) TableNoData(data *model1.TableData) {
	t.queue(func() { t.UpdateUI(data) })
}

// TableLoadFailed implements model.TableListener.
func (t *Table) TableLoadFailed(err error) {
	t.queue(func() {
		t.SetBorderColor(tcell.ColorRed)
		t.SetTitle(fmt.Sprintf(" <%s>[%s] %s ", t.name, t.Tenant(), tview.Escape(err.Error())))
	})
}
