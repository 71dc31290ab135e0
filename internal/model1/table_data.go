// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of erptab

package model1

import (
	"sort"
	"sync"
)

// TableData is a read-only snapshot of a table engine handed to renderers.
type TableData struct {
	name      string
	header    Header
	rowEvents *RowEvents
	page      PageInfo
	sort      SortInfo
	filter    string
	selected  map[string]struct{}
	edit      *CellRef
	draft     any
	pending   *CellRef
	errMsg    string
	mx        sync.RWMutex
}

// NewTableData returns a new table.
func NewTableData() *TableData {
	return &TableData{
		rowEvents: NewRowEvents(10),
		selected:  make(map[string]struct{}),
	}
}

// Name returns the table name.
func (t *TableData) Name() string {
	t.mx.RLock()
	defer t.mx.RUnlock()
	return t.name
}

// SetName sets the table name.
func (t *TableData) SetName(n string) {
	t.mx.Lock()
	defer t.mx.Unlock()
	t.name = n
}

// Header returns the visible header.
func (t *TableData) Header() Header {
	t.mx.RLock()
	defer t.mx.RUnlock()
	return t.header
}

// SetHeader sets the table header.
func (t *TableData) SetHeader(h Header) {
	t.mx.Lock()
	defer t.mx.Unlock()
	t.header = h
}

// RowEvents returns the row events.
func (t *TableData) RowEvents() *RowEvents {
	t.mx.RLock()
	defer t.mx.RUnlock()
	return t.rowEvents
}

// SetRowEvents sets the row events.
func (t *TableData) SetRowEvents(re *RowEvents) {
	t.mx.Lock()
	defer t.mx.Unlock()
	t.rowEvents = re
}

// Page returns the pagination info.
func (t *TableData) Page() PageInfo {
	t.mx.RLock()
	defer t.mx.RUnlock()
	return t.page
}

// SetPage sets the pagination info.
func (t *TableData) SetPage(p PageInfo) {
	t.mx.Lock()
	defer t.mx.Unlock()
	t.page = p
}

// Sort returns the active sort.
func (t *TableData) Sort() SortInfo {
	t.mx.RLock()
	defer t.mx.RUnlock()
	return t.sort
}

// SetSort sets the active sort.
func (t *TableData) SetSort(s SortInfo) {
	t.mx.Lock()
	defer t.mx.Unlock()
	t.sort = s
}

// Filter returns the active filter text.
func (t *TableData) Filter() string {
	t.mx.RLock()
	defer t.mx.RUnlock()
	return t.filter
}

// SetFilter sets the active filter text.
func (t *TableData) SetFilter(f string) {
	t.mx.Lock()
	defer t.mx.Unlock()
	t.filter = f
}

// SetSelected replaces the selection set.
func (t *TableData) SetSelected(ids []string) {
	t.mx.Lock()
	defer t.mx.Unlock()
	t.selected = make(map[string]struct{}, len(ids))
	for _, id := range ids {
		t.selected[id] = struct{}{}
	}
}

// IsSelected checks if a row is selected.
func (t *TableData) IsSelected(id string) bool {
	t.mx.RLock()
	defer t.mx.RUnlock()
	_, ok := t.selected[id]
	return ok
}

// Selected returns the selected row ids, sorted.
func (t *TableData) Selected() []string {
	t.mx.RLock()
	defer t.mx.RUnlock()
	ids := make([]string, 0, len(t.selected))
	for id := range t.selected {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// EditPosition returns the cell being edited and its draft, if any.
func (t *TableData) EditPosition() (*CellRef, any) {
	t.mx.RLock()
	defer t.mx.RUnlock()
	if t.edit == nil {
		return nil, nil
	}
	ref := *t.edit
	return &ref, t.draft
}

// SetEditPosition sets the cell being edited.
func (t *TableData) SetEditPosition(ref *CellRef, draft any) {
	t.mx.Lock()
	defer t.mx.Unlock()
	t.edit, t.draft = ref, draft
}

// Pending returns the cell awaiting commit, if any.
func (t *TableData) Pending() *CellRef {
	t.mx.RLock()
	defer t.mx.RUnlock()
	if t.pending == nil {
		return nil
	}
	ref := *t.pending
	return &ref
}

// SetPending sets the cell awaiting commit.
func (t *TableData) SetPending(ref *CellRef) {
	t.mx.Lock()
	defer t.mx.Unlock()
	t.pending = ref
}

// Empty returns true if no data is available.
func (t *TableData) Empty() bool {
	t.mx.RLock()
	defer t.mx.RUnlock()
	return t.rowEvents.Empty()
}

// RowCount returns the number of rows.
func (t *TableData) RowCount() int {
	t.mx.RLock()
	defer t.mx.RUnlock()
	return t.rowEvents.Count()
}

// Rows returns clones of the snapshot rows.
func (t *TableData) Rows() Rows {
	t.mx.RLock()
	defer t.mx.RUnlock()
	return t.rowEvents.Rows()
}

// Clone returns a shallow copy of the table data.
func (t *TableData) Clone() *TableData {
	t.mx.RLock()
	defer t.mx.RUnlock()

	return &TableData{
		name:      t.name,
		header:    t.header,
		rowEvents: t.rowEvents,
		page:      t.page,
		sort:      t.sort,
		filter:    t.filter,
		selected:  t.selected,
		edit:      t.edit,
		draft:     t.draft,
		pending:   t.pending,
		errMsg:    t.errMsg,
	}
}

// SetError sets the last error message.
func (t *TableData) SetError(msg string) {
	t.mx.Lock()
	defer t.mx.Unlock()
	t.errMsg = msg
}

// Error returns the error message, if any.
func (t *TableData) Error() string {
	t.mx.RLock()
	defer t.mx.RUnlock()
	return t.errMsg
}

// HasError returns true if there's an error message.
func (t *TableData) HasError() bool {
	t.mx.RLock()
	defer t.mx.RUnlock()
	return t.errMsg != ""
}
