// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of erptab

// Package model1 holds the plain data types shared by the table engine and
// its collaborators: column headers, rows, row events and table snapshots.
package model1

import "github.com/derailed/tcell/v2"

// NAValue is rendered for missing cell values.
const NAValue = "n/a"

// ResEvent represents a row cache event type.
type ResEvent int

const (
	// EventUnchanged marks a row as loaded from the source.
	EventUnchanged ResEvent = 1 << iota

	// EventAdd marks a row added locally.
	EventAdd

	// EventUpdate marks a row whose edit was persisted.
	EventUpdate

	// EventDelete marks a row scheduled for removal.
	EventDelete

	// EventClear marks a cleared row.
	EventClear

	// EventPending marks a row holding an optimistic, uncommitted edit.
	EventPending

	// EventError marks a row whose last edit was rolled back.
	EventError
)

// String returns the event name.
func (e ResEvent) String() string {
	switch e {
	case EventUnchanged:
		return "unchanged"
	case EventAdd:
		return "add"
	case EventUpdate:
		return "update"
	case EventDelete:
		return "delete"
	case EventClear:
		return "clear"
	case EventPending:
		return "pending"
	case EventError:
		return "error"
	default:
		return "unknown"
	}
}

// DecoratorFunc renders a cell value for display.
type DecoratorFunc func(any) string

// AccessorFunc derives a cell value from a row.
type AccessorFunc func(Row) any

// ColorerFunc represents a row colorer.
type ColorerFunc func(h Header, re *RowEvent) tcell.Color

// CellRef identifies a single cell by row identity and column key.
type CellRef struct {
	RowID  string
	Column string
}

// PageInfo describes the page a snapshot was taken from.
type PageInfo struct {
	Offset int
	Limit  int
	Count  int
}

// SortInfo describes the active sort.
type SortInfo struct {
	Column string
	Desc   bool
}
