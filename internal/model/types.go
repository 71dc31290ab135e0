// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of erptab

package model

import (
	"context"

	"github.com/erptab/erptab/internal/model1"
)

// TableModel defines what a view needs from a table engine.
type TableModel interface {
	// Name returns the table name.
	Name() string

	// Snapshot returns a read-only view of the current state.
	Snapshot() *model1.TableData

	// Watch refreshes data periodically until ctx is done.
	Watch(context.Context) error

	// Refresh fetches the current query immediately.
	Refresh(context.Context) error

	// AddListener registers a table listener.
	AddListener(TableListener)

	// RemoveListener unregisters a table listener.
	RemoveListener(TableListener)
}

// ErrorFunc receives asynchronous fetch and commit failures.
type ErrorFunc func(error)

// SelectState aggregates the selection of a page.
type SelectState int

const (
	// SelectNone no row on the page is selected.
	SelectNone SelectState = iota

	// SelectSome some rows on the page are selected.
	SelectSome

	// SelectAll every row on the page is selected.
	SelectAll
)

func (s SelectState) String() string {
	switch s {
	case SelectSome:
		return "some"
	case SelectAll:
		return "all"
	default:
		return "none"
	}
}

// TableListener represents a table model listener.
type TableListener interface {
	// TableNoData notifies listener no data was found.
	TableNoData(*model1.TableData)

	// TableDataChanged notifies the model data changed.
	TableDataChanged(*model1.TableData)

	// TableLoadFailed notifies the load failed.
	TableLoadFailed(error)
}
